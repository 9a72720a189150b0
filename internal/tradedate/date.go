package tradedate

import (
	"fmt"
	"math"
	"time"
)

// Date is a calendar date without a time component.
type Date struct {
	Year  int
	Month int
	Day   int
}

// New returns the date y-m-d without validating it.
func New(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// FromTime returns the civil date of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: int(m), Day: d}
}

// Parse parses a strict YYYY-MM-DD string, rejecting out-of-range months and
// days the same way ParseToken does.
func Parse(s string) (Date, error) {
	d, ok := parseISO(s)
	if !ok {
		return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return d, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// constants.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Compact formats the date as YYYYMMDD (CDN folder names).
func (d Date) Compact() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, d.Month, d.Day)
}

// DayFirst formats the date as DDMMYYYY (CDN file names).
func (d Date) DayFirst() string {
	return fmt.Sprintf("%02d%02d%04d", d.Day, d.Month, d.Year)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(d.Month - o.Month)
	default:
		return sign(d.Day - o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }
func (d Date) Equal(o Date) bool  { return d == o }

// Time returns midnight UTC of d. Out-of-month days normalize, so
// 2024-02-30 becomes 2024-03-01.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n calendar days after d (before, for negative n).
func (d Date) AddDays(n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// Next returns the first real calendar date after d. For an out-of-month
// day such as 2024-02-31 that is the first of the following month, not the
// day after its normalized form.
func (d Date) Next() Date {
	if d.Day >= daysInMonth(d.Year, d.Month) {
		if d.Month == 12 {
			return Date{Year: d.Year + 1, Month: 1, Day: 1}
		}
		return Date{Year: d.Year, Month: d.Month + 1, Day: 1}
	}
	return Date{Year: d.Year, Month: d.Month, Day: d.Day + 1}
}

func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysUntil returns the number of calendar days from d to o.
func (d Date) DaysUntil(o Date) int {
	return int(math.Round(o.Time().Sub(d.Time()).Hours() / 24))
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Max returns the latest of the given dates and false when none is given.
func Max(dates ...Date) (Date, bool) {
	if len(dates) == 0 {
		return Date{}, false
	}
	best := dates[0]
	for _, d := range dates[1:] {
		if d.After(best) {
			best = d
		}
	}
	return best, true
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
