// Package calendar converts between wire strings and calendar dates.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
)

const Layout = "2006-01-02"

// ParseDate accepts a full date (2024-01-10) or an RFC 3339 date-time
// (2024-01-10T00:00:00.000Z). For a date-time the calendar date is taken in
// the timestamp's own offset.
func ParseDate(s string) (date.Date, error) {
	s = strings.TrimSpace(s)
	if len(s) == len(Layout) {
		d, err := date.ParseDate(s)
		if err != nil {
			return date.Date{}, fmt.Errorf("parse date %q: %w", s, err)
		}
		return d, nil
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return date.Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// ParseTimestamp accepts RFC 3339 with or without fractional seconds.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
}

func FromTime(t time.Time) date.Date {
	return date.Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func Format(d date.Date) string {
	return d.Format(Layout)
}

// Key is the YYYY-MM-DD form used for grouping and storage.
func Key(t time.Time) string {
	return t.Format(Layout)
}

// WeekBounds returns Monday 00:00 and the following Monday for the week
// containing t, in t's location.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}
