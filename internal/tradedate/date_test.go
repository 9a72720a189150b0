package tradedate

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateFormatting(t *testing.T) {
	d := New(2024, 3, 5)

	assert.Equal(t, "2024-03-05", d.String())
	assert.Equal(t, "20240305", d.Compact())
	assert.Equal(t, "05032024", d.DayFirst())
}

func TestDateOrdering(t *testing.T) {
	a := MustParse("2024-03-13")
	b := MustParse("2024-03-15")
	c := MustParse("2025-01-01")

	assert.True(t, a.Before(b))
	assert.True(t, c.After(b))
	assert.True(t, a.Equal(New(2024, 3, 13)))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, -1, b.Compare(c))
	assert.Equal(t, 1, New(2024, 4, 1).Compare(New(2024, 3, 31)))

	latest, ok := Max(a, c, b)
	require.True(t, ok)
	assert.Equal(t, c, latest)

	_, ok = Max()
	assert.False(t, ok)
}

func TestDateArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		days     int
		expected string
	}{
		{name: "next day", from: "2024-03-13", days: 1, expected: "2024-03-14"},
		{name: "month boundary", from: "2024-02-28", days: 1, expected: "2024-02-29"},
		{name: "leap day boundary", from: "2024-02-29", days: 1, expected: "2024-03-01"},
		{name: "year boundary backwards", from: "2025-01-01", days: -1, expected: "2024-12-31"},
		{name: "two weeks back", from: "2024-03-15", days: -14, expected: "2024-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from := MustParse(tt.from)
			got := from.AddDays(tt.days)
			assert.Equal(t, tt.expected, got.String())
			assert.Equal(t, tt.days, from.DaysUntil(got))
		})
	}

	// Out-of-month days normalize through time.Time.
	assert.Equal(t, "2024-03-02", New(2024, 2, 30).AddDays(1).String())
}

func TestDateNext(t *testing.T) {
	tests := []struct {
		name string
		in   Date
		want Date
	}{
		{"mid month", New(2024, 3, 14), New(2024, 3, 15)},
		{"month end", New(2024, 4, 30), New(2024, 5, 1)},
		{"leap day", New(2024, 2, 28), New(2024, 2, 29)},
		{"after leap day", New(2024, 2, 29), New(2024, 3, 1)},
		{"year end", New(2024, 12, 31), New(2025, 1, 1)},
		{"out of month day", New(2024, 2, 31), New(2024, 3, 1)},
		{"out of month day in short month", New(2023, 2, 30), New(2023, 3, 1)},
		{"day 31 of a 30 day month", New(2024, 4, 31), New(2024, 5, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Next()
			assert.Equal(t, tt.want, got)
			assert.True(t, got.After(tt.in))
		})
	}
}

func TestDateJSON(t *testing.T) {
	type wrapper struct {
		Date Date `json:"date"`
	}

	b, err := json.Marshal(wrapper{Date: New(2024, 3, 15)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-03-15"}`, string(b))

	var w wrapper
	require.NoError(t, json.Unmarshal(b, &w))
	assert.Equal(t, New(2024, 3, 15), w.Date)

	assert.Error(t, json.Unmarshal([]byte(`{"date":"15/03/2024"}`), &w))
}

func TestParseStrict(t *testing.T) {
	_, err := Parse("2024-3-15")
	assert.Error(t, err)
	_, err = Parse("2024-13-01")
	assert.Error(t, err)
	d, err := Parse("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, New(2024, 3, 15), d)
}

func TestFixedOffsetClock(t *testing.T) {
	// 2024-03-15 18:30 UTC is already 2024-03-16 in GMT+7.
	instant := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)
	clock := NewFixedOffsetClock(7).WithNow(func() time.Time { return instant })

	assert.Equal(t, "2024-03-16", clock.Today().String())
	assert.Equal(t, "GMT+7", clock.Zone())
	assert.Equal(t, 1, clock.Now().Hour())

	fixed := FixedClock{Date: New(2024, 3, 15)}
	assert.Equal(t, New(2024, 3, 15), fixed.Today())
}
