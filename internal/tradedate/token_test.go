package tradedate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToken(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected string
		ok       bool
	}{
		{name: "iso", token: "2024-03-15", expected: "2024-03-15", ok: true},
		{name: "iso quoted", token: `"2024-03-15"`, expected: "2024-03-15", ok: true},
		{name: "iso padded", token: "  2024-03-15 ", expected: "2024-03-15", ok: true},
		{name: "day first slash", token: "15/03/2024", expected: "2024-03-15", ok: true},
		{name: "day first dash", token: "15-03-2024", expected: "2024-03-15", ok: true},
		{name: "day first single digits", token: "5/3/2024", expected: "2024-03-05", ok: true},
		{name: "day first is never swapped", token: "03/04/2024", expected: "2024-04-03", ok: true},
		{name: "compact", token: "20240315", expected: "2024-03-15", ok: true},
		{name: "timestamp", token: "20240315093000", expected: "2024-03-15", ok: true},
		{name: "single quoted compact", token: "'20240315'", expected: "2024-03-15", ok: true},
		{name: "no month length check iso", token: "2024-02-30", expected: "2024-02-30", ok: true},
		{name: "no month length check day first", token: "31/02/2024", expected: "2024-02-31", ok: true},
		{name: "month out of range day first", token: "31/13/2024", ok: false},
		{name: "day zero day first", token: "0/03/2024", ok: false},
		{name: "month out of range compact", token: "20241301", ok: false},
		{name: "day out of range compact", token: "20240132", ok: false},
		{name: "month out of range timestamp", token: "20241315093000", ok: false},
		{name: "month out of range iso", token: "2024-13-01", ok: false},
		{name: "two digit year", token: "15/03/24", ok: false},
		{name: "ticker", token: "AAA", ok: false},
		{name: "empty", token: "", ok: false},
		{name: "only quotes", token: `""`, ok: false},
		{name: "short number", token: "12345", ok: false},
		{name: "nine digits", token: "202403150", ok: false},
		{name: "decimal price", token: "12.50", ok: false},
		{name: "letters in compact", token: "2024O315", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := ParseToken(tt.token)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, d.String())
			}
		})
	}
}

func TestParseTokenEncodingsAgree(t *testing.T) {
	for month := 1; month <= 12; month++ {
		for day := 1; day <= 31; day++ {
			want := fmt.Sprintf("2024-%02d-%02d", month, day)
			encodings := []string{
				want,
				fmt.Sprintf("%02d/%02d/2024", day, month),
				fmt.Sprintf("%d-%d-2024", day, month),
				fmt.Sprintf("2024%02d%02d", month, day),
				fmt.Sprintf("2024%02d%02d235959", month, day),
			}
			for _, enc := range encodings {
				d, ok := ParseToken(enc)
				require.True(t, ok, enc)
				assert.Equal(t, want, d.String(), enc)
			}
		}
	}
}
