// Package dates handles calendar dates on the wire (YYYY-MM-DD) and in storage.
//
// A date is represented as a time.Time at midnight UTC so that it compares and
// sorts correctly in every SQL dialect the services run on.
package dates

import (
	"fmt"
	"time"
)

const Layout = "2006-01-02"

func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(Layout)
}

// Of returns the calendar date of t in its own location, as midnight UTC.
func Of(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Nights counts the nights between two dates.
func Nights(checkIn, checkOut time.Time) int {
	return int(Of(checkOut).Sub(Of(checkIn)).Hours() / 24)
}

func AddDays(t time.Time, n int) time.Time {
	return Of(t).AddDate(0, 0, n)
}

// Timestamp formats an instant with seconds precision for event payloads.
func Timestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}
