package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the wire format for dates exchanged with the bakery API.
const Layout = "2006-01-02"

// Format renders a date as YYYY-MM-DD from its local calendar components.
// Never go through UTC here: toISOString-style conversion shifts the date
// across midnight for timezones east of UTC.
func Format(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// Parse reads a YYYY-MM-DD string as a local calendar date.
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(Layout, strings.TrimSpace(s), time.Local)
}

// DateOnly strips the time component from an ISO timestamp, if present.
func DateOnly(s string) string {
	if i := strings.Index(s, "T"); i >= 0 {
		return s[:i]
	}
	return s
}

// SameDay reports whether two times fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// FormatJP renders "2025-12-24" as "2025年12月24日".
func FormatJP(s string) string {
	parts := strings.SplitN(s, "-", 3)
	if len(parts) != 3 {
		return s
	}
	return parts[0] + "年" + parts[1] + "月" + parts[2] + "日"
}

// FormatMonthDayJP renders "2025-12-24" as "12月24日" for dashboard columns.
func FormatMonthDayJP(s string) string {
	parts := strings.SplitN(s, "-", 3)
	if len(parts) != 3 {
		return s
	}
	return parts[1] + "月" + parts[2] + "日"
}
