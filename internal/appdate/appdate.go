package appdate

import (
	"math"
	"time"
)

// All day-boundary math runs against one fixed timezone so streaks and
// calendar badges behave the same no matter where the device is.
const CanonicalTimezone = "America/New_York"

const layout = "2006-01-02"

var canonical *time.Location

func init() {
	loc, err := time.LoadLocation(CanonicalTimezone)
	if err != nil {
		// tzdata missing on the host; UTC keeps the math consistent.
		loc = time.UTC
	}
	canonical = loc
}

// Location returns the canonical timezone.
func Location() *time.Location {
	return canonical
}

// Today returns the current canonical calendar date as "YYYY-MM-DD".
func Today() string {
	return time.Now().In(canonical).Format(layout)
}

// FromTime converts a timestamp to its canonical calendar date.
func FromTime(t time.Time) string {
	return t.In(canonical).Format(layout)
}

// Parse parses a "YYYY-MM-DD" date string in the canonical timezone.
func Parse(date string) (time.Time, error) {
	return time.ParseInLocation(layout, date, canonical)
}

// DaysBetween returns the number of calendar days from a to b.
// Positive when b is after a, zero when equal, negative when before.
func DaysBetween(a, b string) int {
	ta, err := Parse(a)
	if err != nil {
		return 0
	}
	tb, err := Parse(b)
	if err != nil {
		return 0
	}
	// Round because DST transition days are 23 or 25 hours long.
	return int(math.Round(tb.Sub(ta).Hours() / 24))
}

// AddDays returns the date n calendar days after date.
func AddDays(date string, n int) string {
	t, err := Parse(date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format(layout)
}

// InWindow reports whether date falls within [start, end] inclusive.
func InWindow(date, start, end string) bool {
	return date >= start && date <= end
}
