// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"errors"
	"strings"
	"time"

	"schemetrack_backend/internals/configs"
)

const (
	DateLayout     = "2006-01-02"
	DisplayLayout  = "02 Jan 2006"
	InvalidDateStr = "Invalid Date"
	MissingDateStr = "N/A"
)

var ErrInvalidDate = errors.New("invalid date")

// Clock returns the current calendar date. Handlers and jobs take one so tests can pin "today".
type Clock func() time.Time

// AppClock reads the wall clock in APP_TIMEZONE.
func AppClock() time.Time {
	return DateOnly(time.Now().In(configs.AppLocation()))
}

// FixedClock always answers day.
func FixedClock(day time.Time) Clock {
	d := DateOnly(day)
	return func() time.Time { return d }
}

// DateOnly keeps the calendar date of t (in t's own location) and returns it as UTC midnight,
// so dates coming from Postgres DATE columns and from the clock compare directly.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonths adds n calendar months, clamping to the last day of the target month
// (Jan 31 + 1 month = Feb 28/29).
func AddMonths(t time.Time, n int) time.Time {
	t = DateOnly(t)
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole calendar days from a to b (negative when b is before a).
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// ParseDate accepts YYYY-MM-DD or RFC3339.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOnly(t), nil
	}
	return time.Time{}, ErrInvalidDate
}

// FormatDate is for display paths: zero time renders "Invalid Date" instead of failing.
func FormatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return InvalidDateStr
	}
	if layout == "" {
		layout = DateLayout
	}
	return t.Format(layout)
}

func FormatDatePtr(t *time.Time, layout string) string {
	if t == nil {
		return MissingDateStr
	}
	return FormatDate(*t, layout)
}

// FormatDateString re-renders a raw date string, returning "Invalid Date" when it does not parse.
func FormatDateString(s, layout string) string {
	if strings.TrimSpace(s) == "" {
		return MissingDateStr
	}
	t, err := ParseDate(s)
	if err != nil {
		return InvalidDateStr
	}
	return FormatDate(t, layout)
}
