package tables

import "cafefcli/internal/tradedate"

// MergeDay appends to dst every body line of day that belongs to date and is
// not already present in dst, and returns the number of lines appended.
//
// Only dst lines of the same date are loaded into the seen-set; full-table
// deduplication is not attempted. Identity is the exact line text, so two
// logically equal rows differing in any character are both kept. Existing
// rows never move and new rows keep day's relative order, which makes the
// merge safe to repeat: a second identical call appends nothing.
func MergeDay(dst, day *Table, date tradedate.Date, ex tradedate.Extractor) int {
	if dst == nil || day == nil || dst.IsEmpty() || day.Len() == 0 {
		return 0
	}
	if ex == nil {
		ex = tradedate.DefaultExtractor
	}

	seen := make(map[string]struct{})
	for _, line := range dst.Body {
		if d, ok := ex.Extract(line); ok && d == date {
			seen[line] = struct{}{}
		}
	}

	var toAdd []string
	for _, line := range day.Body {
		d, ok := ex.Extract(line)
		if !ok || d != date {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		toAdd = append(toAdd, line)
		seen[line] = struct{}{}
	}

	dst.Append(toAdd...)
	return len(toAdd)
}
