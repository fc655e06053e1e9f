package util

import (
	"time"
)

const DateFormat = "2006-01-02"
const ClockFormat = "15:04"

func AddTimeToDate(date time.Time, sourceTime time.Time) time.Time {
	newDateTime := time.Date(date.Year(), date.Month(), date.Day(), sourceTime.Hour(), sourceTime.Minute(), sourceTime.Second(), sourceTime.Nanosecond(), date.Location())

	return newDateTime
}

// ParseClock parses a HH:MM wall clock time onto the zero date
func ParseClock(value string) (time.Time, error) {
	return time.Parse(ClockFormat, value)
}

func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateFormat, value)
}

func FormatClock(t time.Time) string {
	return t.Format(ClockFormat)
}
