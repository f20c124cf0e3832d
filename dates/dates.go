// Package dates normalizes the heterogeneous date notations found on scanned
// muster forms into canonical calendar dates. Canonical dates are time.Time
// values at UTC midnight; no timezone or time-of-day component is ever
// meaningful.
package dates

import (
	"fmt"
	"time"
)

const (
	isoLayout = "2006-01-02"
	ukLayout  = "02/01/2006"
)

// FormatError reports a non-empty date string that matches neither accepted
// pattern. It carries the offending literal.
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("date %q must be in YYYY-MM-DD or DD/MM/YYYY format", e.Value)
}

// Normalize parses a date string into a canonical calendar date. An empty
// string normalizes to nil. ISO 8601 (YYYY-MM-DD) is attempted first, then
// UK-style DD/MM/YYYY; both are strict calendar parses, so impossible dates
// like 31/02/2000 are rejected. Failure of both returns a *FormatError.
func Normalize(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	if d, err := time.ParseInLocation(isoLayout, value, time.UTC); err == nil {
		return &d, nil
	}
	if d, err := time.ParseInLocation(ukLayout, value, time.UTC); err == nil {
		return &d, nil
	}
	return nil, &FormatError{Value: value}
}

// FormatISO renders a canonical date as YYYY-MM-DD. Nil renders as "".
func FormatISO(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(isoLayout)
}

// FormatUK renders a canonical date as DD/MM/YYYY. Nil renders as "".
func FormatUK(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(ukLayout)
}

// Date builds a canonical date at UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
