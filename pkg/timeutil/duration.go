// Package timeutil owns millisecond/time conversions and the compact
// duration formats used across the nag CLI.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Millisecond spans for the units the wire format works in.
const (
	MillisPerSecond int64 = 1000
	MillisPerMinute       = 60 * MillisPerSecond
	MillisPerHour         = 60 * MillisPerMinute
	MillisPerDay          = 24 * MillisPerHour
	MillisPerWeek         = 7 * MillisPerDay
	MillisPerYear         = 365 * MillisPerDay
)

// NowMillis returns the current instant as epoch milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// TimestampLayout keeps the fractional seconds fixed-width, unlike
// RFC3339Nano, so event timestamps order lexically.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Timestamp renders the current instant in UTC under TimestampLayout.
func Timestamp() string {
	return time.Now().UTC().Format(TimestampLayout)
}

// ToLocal converts epoch milliseconds into a time in loc. A nil loc means
// the system local zone.
func ToLocal(millis int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(millis).In(loc)
}

// FormatCompact renders a duration using its largest whole unit, for
// example "2w", "3d", "90m", or "250ms". Negative inputs are treated
// as zero.
func FormatCompact(millis int64) string {
	if millis < 0 {
		millis = 0
	}
	switch {
	case millis >= MillisPerWeek:
		return fmt.Sprintf("%dw", millis/MillisPerWeek)
	case millis >= MillisPerDay:
		return fmt.Sprintf("%dd", millis/MillisPerDay)
	case millis >= MillisPerHour:
		return fmt.Sprintf("%dh", millis/MillisPerHour)
	case millis >= MillisPerMinute:
		return fmt.Sprintf("%dm", millis/MillisPerMinute)
	case millis >= MillisPerSecond:
		return fmt.Sprintf("%ds", millis/MillisPerSecond)
	default:
		return fmt.Sprintf("%dms", millis)
	}
}

var pushUnits = []struct {
	suffix string
	millis int64
}{
	{"ms", 1},
	{"s", MillisPerSecond},
	{"m", MillisPerMinute},
	{"h", MillisPerHour},
	{"d", MillisPerDay},
	{"w", MillisPerWeek},
	{"y", MillisPerYear},
}

// ParsePush parses a push duration like "7d", "12h", "90m", or "1y" into
// milliseconds. A bare number is interpreted as days. Fractional amounts
// are allowed ("1.5d").
func ParsePush(input string) (int64, error) {
	clean := strings.ToLower(strings.TrimSpace(input))
	if clean == "" {
		return 0, fmt.Errorf("timeutil: empty duration")
	}
	for _, unit := range pushUnits {
		if !strings.HasSuffix(clean, unit.suffix) {
			continue
		}
		number := strings.TrimSpace(strings.TrimSuffix(clean, unit.suffix))
		amount, err := strconv.ParseFloat(number, 64)
		if err != nil {
			return 0, fmt.Errorf("timeutil: invalid duration %q", input)
		}
		return int64(amount * float64(unit.millis)), nil
	}
	days, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("timeutil: invalid duration %q", input)
	}
	return int64(days * float64(MillisPerDay)), nil
}

var localLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"01/02/2006 15:04",
}

// FormatLocal renders an instant as "2006-01-02 15:04" in loc.
func FormatLocal(millis int64, loc *time.Location) string {
	return ToLocal(millis, loc).Format(localLayouts[0])
}

// ParseLocal parses a user-entered local datetime in one of the accepted
// layouts and returns epoch milliseconds.
func ParseLocal(text string, loc *time.Location) (int64, error) {
	if loc == nil {
		loc = time.Local
	}
	clean := strings.TrimSpace(text)
	if clean == "" {
		return 0, fmt.Errorf("timeutil: empty datetime")
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, clean, loc); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("timeutil: invalid datetime %q, want YYYY-MM-DD HH:MM", text)
}
