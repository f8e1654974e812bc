package domain

import (
	"fmt"
	"time"
)

// DateLayout is the canonical on-wire representation of a calendar day.
const DateLayout = "2006-01-02"

// Date is a calendar day with no time component, stored as "yyyy-MM-dd".
// Valid dates compare lexicographically in chronological order, which is what
// the repositories rely on for range queries and sorting.
type Date string

// ParseDate validates s and returns it as a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: expected yyyy-MM-dd", s)
	}
	return DateOf(t), nil
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Time returns midnight UTC of the day. The zero time is returned for
// malformed values.
func (d Date) Time() time.Time {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d Date) String() string {
	return string(d)
}

// Valid reports whether d parses as a calendar day.
func (d Date) Valid() bool {
	_, err := time.Parse(DateLayout, string(d))
	return err == nil
}

// SameMonth reports whether d falls in the given year and month.
func (d Date) SameMonth(year int, month time.Month) bool {
	t := d.Time()
	return !t.IsZero() && t.Year() == year && t.Month() == month
}
