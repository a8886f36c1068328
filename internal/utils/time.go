package utils

import (
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseDate parses YYYY-MM-DD in local timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.Local)
}

// FormatDate formats time to YYYY-MM-DD in local timezone.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(layoutDate)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS" in local timezone.
func FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(layoutDateTime)
}

// IsPastDate reports whether day (YYYY-MM-DD) is before today in local time.
func IsPastDate(day time.Time, now time.Time) bool {
	y1, m1, d1 := day.In(time.Local).Date()
	y2, m2, d2 := now.In(time.Local).Date()
	return time.Date(y1, m1, d1, 0, 0, 0, 0, time.Local).Before(time.Date(y2, m2, d2, 0, 0, 0, 0, time.Local))
}
