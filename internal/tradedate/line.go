package tradedate

import "strings"

// Extractor recovers the trading date a raw table line refers to.
type Extractor interface {
	Extract(line string) (Date, bool)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(line string) (Date, bool)

// Extract calls f(line).
func (f ExtractorFunc) Extract(line string) (Date, bool) { return f(line) }

// LineExtractor is the position-blind extractor: the first comma-separated
// field that parses as a date is the line's date.
type LineExtractor struct{}

// Extract implements Extractor.
func (LineExtractor) Extract(line string) (Date, bool) { return ExtractFromLine(line) }

// DefaultExtractor is used wherever no extractor is configured.
var DefaultExtractor Extractor = LineExtractor{}

// ExtractFromLine scans the comma-separated fields of line from left to
// right and returns the first one ParseToken accepts. Any field that merely
// resembles a date wins, including unrelated numeric columns shaped like
// YYYYMMDD; the baseline and the patch tables are read the same way, so the
// merge stays consistent.
func ExtractFromLine(line string) (Date, bool) {
	for {
		field := line
		i := strings.IndexByte(line, ',')
		if i >= 0 {
			field = line[:i]
		}
		if d, ok := ParseToken(field); ok {
			return d, true
		}
		if i < 0 {
			return Date{}, false
		}
		line = line[i+1:]
	}
}
