// Package dates parses CMS date strings and formats them for display.
package dates

import (
	"strings"
	"time"
)

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Parse reads a date or timestamp in any of the forms the CMS emits.
// Blank or malformed input reports false.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParsePtr is Parse returning nil for missing values.
func ParsePtr(s string) *time.Time {
	t, ok := Parse(s)
	if !ok {
		return nil
	}
	return &t
}

// Millis returns t as Unix milliseconds; a missing time counts as epoch-zero.
func Millis(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixMilli()
}

// FormatDate renders t like "Mar 5, 2025". Missing times render as "".
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// FormatLongDate renders t like "March 5, 2025".
func FormatLongDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("January 2, 2006")
}

// FormatTime renders the clock time of t like "3:04 PM".
func FormatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("3:04 PM")
}

// FormatRange renders a date range. A missing end, or an end on the same
// calendar day as the start, collapses to the start date alone.
func FormatRange(start, end *time.Time, format func(*time.Time) string) string {
	if start == nil && end == nil {
		return ""
	}
	if end == nil || (start != nil && sameDay(*start, *end)) {
		return format(start)
	}
	if start == nil {
		return format(end)
	}
	return format(start) + " - " + format(end)
}

// FormatTimeRange renders "9:00 AM - 5:00 PM" style ranges.
func FormatTimeRange(start, end *time.Time) string {
	switch {
	case start != nil && end != nil:
		return FormatTime(start) + " - " + FormatTime(end)
	case start != nil:
		return FormatTime(start)
	case end != nil:
		return FormatTime(end)
	}
	return ""
}

func sameDay(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
