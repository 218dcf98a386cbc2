package dates

import "fmt"

// Range is a closed interval [From, To] of calendar dates.
type Range struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// NewRange builds a range; from must not be after to.
func NewRange(from, to Date) Range { return Range{From: from, To: to} }

// IsEmpty reports whether the range covers no dates.
func (r Range) IsEmpty() bool { return r.From.IsZero() || r.To.IsZero() || r.From.After(r.To) }

// Contains reports whether d falls inside the range, boundaries included.
func (r Range) Contains(d Date) bool { return !d.Before(r.From) && !d.After(r.To) }

// Days is the number of calendar days covered, boundaries included.
func (r Range) Days() int {
	if r.IsEmpty() {
		return 0
	}
	return int(r.To.Time().Sub(r.From.Time()).Hours()/24) + 1
}

func (r Range) String() string {
	if r.IsEmpty() {
		return "[empty]"
	}
	return fmt.Sprintf("[%s, %s]", r.From, r.To)
}
