// Package dates provides day-granularity dates and closed date ranges.
// Prices are keyed by calendar day; nothing in this program cares about
// time-of-day or zones, so a Date is just (year, month, day).
package dates

import (
	"fmt"
	"time"
)

// Format is the ISO-8601 day format used everywhere a date is persisted.
const Format = "2006-01-02"

// Date is a calendar date with day granularity.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date; out-of-range day/month values roll over
// the way time.Date does.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.Time().Date()
	return d
}

// Today returns the current date in local time.
func Today() Date { return New(time.Now().Date()) }

// FromTime truncates t to its calendar day.
func FromTime(t time.Time) Date { return New(t.Date()) }

// Parse reads an ISO date like "2021-01-04".
func Parse(s string) (Date, error) {
	t, err := time.Parse(Format, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (want %s): %w", s, Format, err)
	}
	return FromTime(t), nil
}

// MustParse is Parse that panics; for constants in tests and config defaults.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Year returns the calendar year.
func (d Date) Year() int { return d.y }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// Add returns the date n days later (or earlier for negative n).
func (d Date) Add(n int) Date { return New(d.y, d.m, d.d+n) }

// Before reports whether d is strictly before x.
func (d Date) Before(x Date) bool { return d.Time().Before(x.Time()) }

// After reports whether d is strictly after x.
func (d Date) After(x Date) bool { return d.Time().After(x.Time()) }

// Compare returns -1, 0 or +1 comparing d to x; usable with slices.SortFunc.
func (d Date) Compare(x Date) int {
	switch {
	case d.Before(x):
		return -1
	case d.After(x):
		return 1
	default:
		return 0
	}
}

func (d Date) String() string { return d.Time().Format(Format) }

// MarshalText makes Date usable as a JSON object key (ISO form).
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText parses the ISO form.
func (d *Date) UnmarshalText(b []byte) error {
	p, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = p
	return nil
}
