package tables

import (
	"strings"

	"cafefcli/internal/tradedate"
)

// Table is a canonical table: a header line kept verbatim and an ordered,
// append-only body of raw lines.
type Table struct {
	Kind Kind
	// Name is the canonical file name the table is packaged under.
	Name string
	// Source is the archive member the table was read from.
	Source string

	Header string
	Body   []string

	raw      []byte
	hasLines bool
	modified bool
}

// Parse splits data into a header and body. Line terminators (\n, \r\n, \r)
// are not part of a line.
func Parse(kind Kind, data []byte) *Table {
	t := &Table{Kind: kind, raw: data}
	lines := splitLines(string(data))
	if len(lines) == 0 {
		return t
	}
	t.hasLines = true
	t.Header = lines[0]
	t.Body = lines[1:]
	return t
}

// FromLines builds a modified table from a header and body. It serializes
// with '\n' terminators.
func FromLines(kind Kind, header string, body ...string) *Table {
	return &Table{
		Kind:     kind,
		Header:   header,
		Body:     append([]string(nil), body...),
		hasLines: true,
		modified: true,
	}
}

// Len returns the number of body rows.
func (t *Table) Len() int {
	return len(t.Body)
}

// IsEmpty reports whether the table has no line at all, not even a header.
func (t *Table) IsEmpty() bool {
	return !t.hasLines
}

// Modified reports whether rows were appended since the table was parsed.
func (t *Table) Modified() bool {
	return t.modified
}

// Append adds lines at the end of the body.
func (t *Table) Append(lines ...string) {
	if len(lines) == 0 {
		return
	}
	t.Body = append(t.Body, lines...)
	t.hasLines = true
	t.modified = true
}

// Bytes serializes the table. An unmodified table returns its original
// bytes; a modified one is written as header and body joined by '\n' with a
// trailing newline.
func (t *Table) Bytes() []byte {
	if !t.modified {
		return t.raw
	}
	var b strings.Builder
	b.WriteString(t.Header)
	b.WriteByte('\n')
	for _, line := range t.Body {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// MaxDate returns the latest date found in any body row.
func (t *Table) MaxDate(ex tradedate.Extractor) (tradedate.Date, bool) {
	if ex == nil {
		ex = tradedate.DefaultExtractor
	}
	var best tradedate.Date
	found := false
	for _, line := range t.Body {
		d, ok := ex.Extract(line)
		if !ok {
			continue
		}
		if !found || d.After(best) {
			best, found = d, true
		}
	}
	return best, found
}

// ContainsDate reports whether any body row refers to date.
func (t *Table) ContainsDate(date tradedate.Date, ex tradedate.Extractor) bool {
	if ex == nil {
		ex = tradedate.DefaultExtractor
	}
	for _, line := range t.Body {
		if d, ok := ex.Extract(line); ok && d == date {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	c := *t
	c.Body = append([]string(nil), t.Body...)
	return &c
}

// MaxDateAcross returns the latest date over all given tables.
func MaxDateAcross(set map[Kind]*Table, ex tradedate.Extractor) (tradedate.Date, bool) {
	var dates []tradedate.Date
	for _, k := range AllKinds() {
		t, ok := set[k]
		if !ok || t == nil {
			continue
		}
		if d, ok := t.MaxDate(ex); ok {
			dates = append(dates, d)
		}
	}
	return tradedate.Max(dates...)
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, s[start:i])
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
