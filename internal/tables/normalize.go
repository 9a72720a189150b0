package tables

import (
	"log/slog"
	"sort"
	"strings"

	"cafefcli/internal/archive"
)

// Normalizer maps extracted archive members onto canonical tables.
type Normalizer struct {
	prefix string
	logger *slog.Logger
}

// NewNormalizer creates a normalizer that names tables "{prefix}.{TAG}.csv".
func NewNormalizer(prefix string, logger *slog.Logger) *Normalizer {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{prefix: prefix, logger: logger}
}

// NormalizeExtractedTables normalizes members with the default prefix.
func NormalizeExtractedTables(members []archive.Member, kinds []Kind) (map[Kind]*Table, error) {
	return NewNormalizer(DefaultPrefix, nil).Normalize(members, kinds)
}

// Normalize resolves each requested kind to one CSV member.
//
// A member is a candidate for a kind when its upper-cased file name holds
// the tag between '.' or '_' delimiters, or ends with "TAG.CSV". When no
// member qualifies, any name containing the tag is accepted. The largest
// candidate wins, since the most complete file is the authoritative one when
// the CDN ships duplicates.
func (n *Normalizer) Normalize(members []archive.Member, kinds []Kind) (map[Kind]*Table, error) {
	csvs := csvMembers(members)
	if len(csvs) == 0 {
		return nil, &MissingTableError{}
	}

	out := make(map[Kind]*Table, len(kinds))
	for _, kind := range kinds {
		chosen, ok := pickCandidate(csvs, kind.Tag())
		if !ok {
			return nil, &MissingTableError{Kind: kind, Files: names(csvs)}
		}

		t := Parse(kind, chosen.Data)
		t.Name = kind.FileName(n.prefix)
		t.Source = chosen.Name
		out[kind] = t

		n.logger.Debug("Table normalized",
			slog.String("kind", string(kind)),
			slog.String("source", chosen.Name),
			slog.String("canonical_name", t.Name),
			slog.Int64("size_bytes", chosen.Size()),
			slog.Int("rows", t.Len()))
	}
	return out, nil
}

func csvMembers(members []archive.Member) []archive.Member {
	var out []archive.Member
	for _, m := range members {
		if strings.HasSuffix(strings.ToUpper(m.BaseName()), ".CSV") {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func pickCandidate(csvs []archive.Member, tag string) (archive.Member, bool) {
	var cand []archive.Member
	for _, m := range csvs {
		if delimitedMatch(strings.ToUpper(m.BaseName()), tag) {
			cand = append(cand, m)
		}
	}
	if len(cand) == 0 {
		for _, m := range csvs {
			if strings.Contains(strings.ToUpper(m.BaseName()), tag) {
				cand = append(cand, m)
			}
		}
	}
	if len(cand) == 0 {
		return archive.Member{}, false
	}

	sort.SliceStable(cand, func(i, j int) bool { return cand[i].Size() > cand[j].Size() })
	return cand[0], true
}

// delimitedMatch reports whether name contains tag with '.' or '_' on both
// sides, or ends with "TAG.CSV".
func delimitedMatch(name, tag string) bool {
	if strings.HasSuffix(name, tag+".CSV") {
		return true
	}
	for from := 0; from < len(name); {
		i := strings.Index(name[from:], tag)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(tag)
		if start > 0 && end < len(name) && isDelimiter(name[start-1]) && isDelimiter(name[end]) {
			return true
		}
		from = start + 1
	}
	return false
}

func isDelimiter(c byte) bool {
	return c == '.' || c == '_'
}

func names(members []archive.Member) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.Name
	}
	return out
}
