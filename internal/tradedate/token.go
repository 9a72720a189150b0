package tradedate

import "strings"

// ParseToken recognizes a single field as a trading date.
//
// Surrounding whitespace and quote characters are removed first. Encodings
// are tried in this order and the first match wins:
//
//	YYYY-MM-DD
//	D/M/YYYY, DD/MM/YYYY, D-M-YYYY, DD-MM-YYYY (always day first)
//	YYYYMMDD
//	YYYYMMDDHHMMSS (time discarded)
//
// Every encoding rejects a month outside 1..12 or a day outside 1..31.
func ParseToken(tok string) (Date, bool) {
	tok = cleanToken(tok)
	if tok == "" {
		return Date{}, false
	}
	if d, ok := parseISO(tok); ok {
		return d, true
	}
	if d, ok := parseDayFirst(tok); ok {
		return d, true
	}
	if len(tok) == 8 || len(tok) == 14 {
		if !allDigits(tok) {
			return Date{}, false
		}
		return validated(atoi(tok[0:4]), atoi(tok[4:6]), atoi(tok[6:8]))
	}
	return Date{}, false
}

func cleanToken(tok string) string {
	tok = strings.TrimSpace(tok)
	tok = strings.Trim(tok, `"'`)
	return strings.TrimSpace(tok)
}

// parseISO accepts exactly 4-2-2 digits separated by '-'.
func parseISO(tok string) (Date, bool) {
	if len(tok) != 10 || tok[4] != '-' || tok[7] != '-' {
		return Date{}, false
	}
	y, m, d := tok[0:4], tok[5:7], tok[8:10]
	if !allDigits(y) || !allDigits(m) || !allDigits(d) {
		return Date{}, false
	}
	return validated(atoi(y), atoi(m), atoi(d))
}

// parseDayFirst accepts D[/-]M[/-]YYYY with one or two digit day and month.
func parseDayFirst(tok string) (Date, bool) {
	i := strings.IndexAny(tok, "/-")
	if i < 1 || i > 2 {
		return Date{}, false
	}
	rest := tok[i+1:]
	j := strings.IndexAny(rest, "/-")
	if j < 1 || j > 2 {
		return Date{}, false
	}
	day, month, year := tok[:i], rest[:j], rest[j+1:]
	if len(year) != 4 || !allDigits(day) || !allDigits(month) || !allDigits(year) {
		return Date{}, false
	}
	return validated(atoi(year), atoi(month), atoi(day))
}

func validated(year, month, day int) (Date, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return Date{}, false
	}
	return Date{Year: year, Month: month, Day: day}, true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// atoi assumes s is all ASCII digits.
func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
