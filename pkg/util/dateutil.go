package util

import (
	"fmt"
	"strings"
	"time"
)

// Placeholder is shown for missing or unparsable dates.
const Placeholder = "-"

// Display layouts.
const (
	LayoutDate     = "Jan 2, 2006"
	LayoutDateTime = "Jan 2, 2006, 03:04 PM"
	LayoutTime     = "03:04 PM"
)

var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate accepts the timestamp shapes the API emits and date inputs submitted by forms.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders "Jan 2, 2006".
func FormatDate(t *time.Time) string {
	return format(t, LayoutDate)
}

// FormatDateTime renders "Jan 2, 2006, 03:04 PM".
func FormatDateTime(t *time.Time) string {
	return format(t, LayoutDateTime)
}

// FormatTime renders "03:04 PM".
func FormatTime(t *time.Time) string {
	return format(t, LayoutTime)
}

func format(t *time.Time, layout string) string {
	if t == nil || t.IsZero() {
		return Placeholder
	}
	return t.Format(layout)
}

// RelativeTime describes how long before now t was.
func RelativeTime(t *time.Time, now time.Time) string {
	if t == nil || t.IsZero() {
		return Placeholder
	}
	days := int(now.Sub(*t).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	case days < 365:
		return fmt.Sprintf("%d months ago", days/30)
	default:
		return fmt.Sprintf("%d years ago", days/365)
	}
}

// SessionDuration renders the time between check-in and check-out as "Hh Mm".
func SessionDuration(checkIn, checkOut *time.Time) string {
	if checkIn == nil || checkOut == nil {
		return Placeholder
	}
	minutes := int(checkOut.Sub(*checkIn).Minutes())
	if minutes < 0 {
		return Placeholder
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
