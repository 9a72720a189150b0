package tables

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingTable is matched by every *MissingTableError via errors.Is.
var ErrMissingTable = errors.New("missing table")

// MissingTableError reports that an extracted archive could not supply a
// requested table. Kind is empty when the archive held no CSV file at all.
type MissingTableError struct {
	Kind  Kind
	Files []string
}

func (e *MissingTableError) Error() string {
	if e.Kind == "" {
		return "missing table: no csv files after extraction"
	}
	if len(e.Files) == 0 {
		return fmt.Sprintf("missing table %s", e.Kind)
	}
	return fmt.Sprintf("missing table %s among [%s]", e.Kind, strings.Join(e.Files, ", "))
}

// Is lets errors.Is(err, ErrMissingTable) match.
func (e *MissingTableError) Is(target error) bool {
	return target == ErrMissingTable
}
