package tradedate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFromLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected string
		ok       bool
	}{
		{name: "ticker first", line: "VIC,15/03/2024,10000", expected: "2024-03-15", ok: true},
		{name: "date first", line: "2024-03-15,VIC,10000", expected: "2024-03-15", ok: true},
		{name: "no date", line: "VIC,XYZ,10000", ok: false},
		{name: "compact date", line: "VNM,20240315,70.1,71.2,69.8,70.5,123400", expected: "2024-03-15", ok: true},
		{name: "quoted fields", line: `"FPT","15/03/2024","101.5"`, expected: "2024-03-15", ok: true},
		{name: "first match wins", line: "X,20240101,15/03/2024", expected: "2024-01-01", ok: true},
		{name: "numeric column mistaken for date", line: "ABC,20231231,2024-03-15", expected: "2023-12-31", ok: true},
		{name: "trailing delimiter", line: "VIC,15/03/2024,", expected: "2024-03-15", ok: true},
		{name: "date in last field", line: "VIC,1,2,3,2024-03-15", expected: "2024-03-15", ok: true},
		{name: "empty line", line: "", ok: false},
		{name: "header", line: "<Ticker>,<DTYYYYMMDD>,<Open>,<High>,<Low>,<Close>,<Volume>", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := ExtractFromLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, d.String())
			}

			d2, ok2 := DefaultExtractor.Extract(tt.line)
			assert.Equal(t, ok, ok2)
			assert.Equal(t, d, d2)
		})
	}
}

func TestExtractorFunc(t *testing.T) {
	fixed := MustParse("2024-01-02")
	var ex Extractor = ExtractorFunc(func(string) (Date, bool) { return fixed, true })

	d, ok := ex.Extract("anything")
	assert.True(t, ok)
	assert.Equal(t, fixed, d)
}
