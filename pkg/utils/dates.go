package utils

import (
	"time"
)

const DateLayout = "2006-01-02"

// Dates are compared calendar-day precise. Everything is normalized to UTC
// midnight so visit dates survive DB round trips and comparisons.

func ToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Today() time.Time {
	return ToDate(time.Now())
}

func Tomorrow() time.Time {
	return Today().AddDate(0, 0, 1)
}

func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func IsPastDate(t time.Time) bool {
	return ToDate(t).Before(Today())
}
