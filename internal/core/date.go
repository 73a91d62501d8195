package core

import (
	"time"
)

// dateLayout is the canonical on-disk and on-the-wire representation.
// Lexicographic order on this layout equals chronological order, which is
// what makes SQL BETWEEN on the stored strings correct.
const dateLayout = "2006-01-02"

// Date is a calendar date with no time component, always UTC midnight.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month and day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses the canonical YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// Validate rejects the zero date.
func (d Date) Validate() error {
	if d.IsZero() {
		return &ValidationError{Field: "date", Reason: "must not be empty"}
	}
	return nil
}

// AddDays returns the date shifted by the given number of days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// InRange reports whether d falls in the closed interval [start, end].
func (d Date) InRange(start, end Date) bool {
	return !d.Before(start.Time) && !d.After(end.Time)
}

// WeekRange returns the Monday-to-Sunday week containing d.
func WeekRange(d Date) (Date, Date) {
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	start := d.AddDays(-offset)
	return start, start.AddDays(6)
}

// MonthRange returns the first and last calendar day of d's month.
func MonthRange(d Date) (Date, Date) {
	first := NewDate(d.Year(), int(d.Month()), 1)
	last := Date{Time: first.AddDate(0, 1, -1)}
	return first, last
}

// PrevMonthRange returns the first and last day of the month preceding d's
// month, rolling the year back at January.
func PrevMonthRange(d Date) (Date, Date) {
	first := NewDate(d.Year(), int(d.Month()), 1)
	prevFirst := Date{Time: first.AddDate(0, -1, 0)}
	prevLast := Date{Time: first.AddDate(0, 0, -1)}
	return prevFirst, prevLast
}

// YearRange returns January 1 and December 31 of d's year.
func YearRange(d Date) (Date, Date) {
	return NewDate(d.Year(), 1, 1), NewDate(d.Year(), 12, 31)
}
