package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// TimeNow is the clock used for record timestamps. All persisted times are UTC.
func TimeNow() time.Time {
	return time.Now().UTC()
}

// DateOnly truncates t to midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

func PrettyDate(date time.Time) string {
	return date.UTC().Format("02 Jan 2006 - 15:04 UTC")
}

// NextWeekday skips Saturdays and Sundays.
func NextWeekday(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
