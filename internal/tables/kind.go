package tables

import (
	"fmt"
	"strings"
)

// Kind identifies one of the four canonical tables.
type Kind string

const (
	// HSX is the Ho Chi Minh City exchange (EXCHANGE_A).
	HSX Kind = "HSX"
	// HNX is the Hanoi exchange (EXCHANGE_B).
	HNX Kind = "HNX"
	// UPCOM is the unlisted public company board (OTC_BOARD).
	UPCOM Kind = "UPCOM"
	// INDEX holds the market indices.
	INDEX Kind = "INDEX"
)

// DefaultPrefix is the file-name prefix the CDN uses for every member.
const DefaultPrefix = "CafeF"

// AllKinds returns the four kinds in packaging order.
func AllKinds() []Kind {
	return []Kind{HSX, HNX, UPCOM, INDEX}
}

// IndexOnly is the kind set resolved when probing a single-day index bundle.
func IndexOnly() []Kind {
	return []Kind{INDEX}
}

// Tag is the upper-case marker that identifies the kind inside file names.
func (k Kind) Tag() string {
	return string(k)
}

// FileName returns the canonical file name, e.g. "CafeF.HSX.csv".
func (k Kind) FileName(prefix string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s.%s.csv", prefix, k.Tag())
}

// Valid reports whether k is one of the four known kinds.
func (k Kind) Valid() bool {
	switch k {
	case HSX, HNX, UPCOM, INDEX:
		return true
	}
	return false
}

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown table kind %q", s)
	}
	return k, nil
}
