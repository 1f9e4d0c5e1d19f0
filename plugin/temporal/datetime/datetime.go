// Package datetime converts single dates between UTC, local, epoch-millisecond
// and pattern-formatted string representations.
//
// It is the only place that decides whether a string is a valid date. All
// conversions are pure: identical inputs always give byte-identical output.
package datetime

import (
	"strings"
	"time"

	terrors "github.com/hrygo/timedim/plugin/temporal/errors"
)

const (
	// MillisecondsPerDay is the 24-hour threshold used by display guessing.
	MillisecondsPerDay int64 = 86_400_000
	// MillisecondsPerYear is the fixed 365-day year.
	MillisecondsPerYear int64 = 365 * MillisecondsPerDay

	// DefaultMillisecondsPattern is the pattern used by FromMilliseconds when none is given.
	DefaultMillisecondsPattern = "YYYY-MM-DDTHH:mm:ss"
)

// layouts accepted by Parse, tried in order. Layouts without a zone are read as UTC.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02T15Z07:00",
	"2006-01-02T15",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// Parse parses a date string with an optional time and fixed-offset zone.
func Parse(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, terrors.InvalidDate(input, nil)
	}

	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, input)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, terrors.InvalidDate(input, lastErr)
}

// IsValidDate reports whether input parses under Gregorian calendar rules.
func IsValidDate(input string) bool {
	_, err := Parse(input)
	return err == nil
}

// FormatUTC renders t as an ISO 8601 string in UTC.
func FormatUTC(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ToUTC reformats a date string to ISO 8601 in UTC.
// It fails with INVALID_DATE when input does not parse.
func ToUTC(input string) (string, error) {
	t, err := Parse(input)
	if err != nil {
		return "", err
	}
	return FormatUTC(t), nil
}

// TryToUTC is the tolerant variant of ToUTC: it returns the empty string when
// input does not parse, for contexts where a missing value is meaningful.
func TryToUTC(input string) string {
	out, err := ToUTC(input)
	if err != nil {
		return ""
	}
	return out
}

// ToLocal reformats a date string to ISO 8601 in the process's local offset.
func ToLocal(input string) (string, error) {
	return ToLocalIn(input, time.Local)
}

// ToLocalIn reformats a date string to ISO 8601 in the offset of loc.
func ToLocalIn(input string, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := Parse(input)
	if err != nil {
		return "", err
	}
	return t.In(loc).Format(time.RFC3339Nano), nil
}

// ToMilliseconds returns the epoch-millisecond value of a date string.
func ToMilliseconds(input string) (int64, error) {
	t, err := Parse(input)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

// FromMilliseconds formats an epoch-millisecond value with pattern, in UTC and
// without a trailing offset. An empty pattern means DefaultMillisecondsPattern.
func FromMilliseconds(ms int64, pattern string) string {
	if pattern == "" {
		pattern = DefaultMillisecondsPattern
	}
	return time.UnixMilli(ms).UTC().Format(LayoutFromPattern(pattern))
}
