package datetime

import (
	"strings"
	"time"
)

// DatePrecision selects which date components are significant for display.
type DatePrecision string

const (
	DatePrecisionYear  DatePrecision = "year"
	DatePrecisionMonth DatePrecision = "month"
	DatePrecisionDay   DatePrecision = "day"
)

// TimePrecision selects which time-of-day components are significant for display.
type TimePrecision string

const (
	TimePrecisionHour   TimePrecision = "hour"
	TimePrecisionMinute TimePrecision = "minute"
	TimePrecisionSecond TimePrecision = "second"
)

// Pattern returns the display pattern of the precision, or "" when unset or unknown.
func (p DatePrecision) Pattern() string {
	switch p {
	case DatePrecisionYear:
		return "YYYY"
	case DatePrecisionMonth:
		return "YYYY-MM"
	case DatePrecisionDay:
		return "YYYY-MM-DD"
	default:
		return ""
	}
}

// Pattern returns the display pattern of the precision, or "" when unset or unknown.
func (p TimePrecision) Pattern() string {
	switch p {
	case TimePrecisionHour:
		return "HH"
	case TimePrecisionMinute:
		return "HH:mm"
	case TimePrecisionSecond:
		return "HH:mm:ss"
	default:
		return ""
	}
}

// patternTokens maps pattern tokens to Go layout elements.
var patternTokens = strings.NewReplacer(
	"YYYY", "2006",
	"MM", "01",
	"DD", "02",
	"HH", "15",
	"mm", "04",
	"ss", "05",
	"SSS", "000",
)

// LayoutFromPattern converts a pattern such as "YYYY-MM-DDTHH:mm:ss" to a Go time layout.
func LayoutFromPattern(pattern string) string {
	return patternTokens.Replace(pattern)
}

// FormatWithPattern renders t in UTC with the pattern pair selected by the
// precisions, using a space between date and time and no offset. When both
// precisions are unset, day and minute precision are used.
func FormatWithPattern(t time.Time, date DatePrecision, tod TimePrecision) string {
	datePattern, timePattern := date.Pattern(), tod.Pattern()
	if datePattern == "" && timePattern == "" {
		datePattern, timePattern = DatePrecisionDay.Pattern(), TimePrecisionMinute.Pattern()
	}

	var pattern string
	switch {
	case datePattern != "" && timePattern != "":
		pattern = datePattern + "T" + timePattern
	case datePattern != "":
		pattern = datePattern
	default:
		pattern = timePattern
	}

	out := t.UTC().Format(LayoutFromPattern(pattern))
	return strings.Replace(out, "T", " ", 1)
}
