package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	terrors "github.com/hrygo/timedim/plugin/temporal/errors"
)

// splitZone separates a trailing "Z" or numeric offset from a clock string.
// A "Z" suffix is reported as sign "+" and offset "00:00".
func splitZone(clock string) (rest, sign, offset string) {
	if strings.HasSuffix(clock, "Z") {
		return strings.TrimSuffix(clock, "Z"), "+", "00:00"
	}
	if i := strings.LastIndexAny(clock, "+-"); i >= 0 {
		return clock[:i], clock[i : i+1], clock[i+1:]
	}
	return clock, "", ""
}

// isNumericOffset reports whether offset looks like "hh", "hhmm" or "hh:mm".
func isNumericOffset(offset string) bool {
	digits := strings.Replace(offset, ":", "", 1)
	if len(digits) != 2 && len(digits) != 4 {
		return false
	}
	_, err := strconv.Atoi(digits)
	return err == nil
}

// normalizeOffset rewrites "hh", "hhmm" and "hh:mm" as "hh:mm".
func normalizeOffset(offset string) string {
	digits := strings.Replace(offset, ":", "", 1)
	if len(digits) == 2 {
		return digits + ":00"
	}
	return digits[:2] + ":" + digits[2:]
}

// flipSign turns "+" into "-" and anything else into "+".
func flipSign(sign string) string {
	if sign == "+" {
		return "-"
	}
	return "+"
}

// fixedZone returns the fixed-offset location for sign and "hh:mm".
func fixedZone(sign, offset string) *time.Location {
	if !isNumericOffset(offset) {
		return time.UTC
	}
	offset = normalizeOffset(offset)
	hours, _ := strconv.Atoi(offset[:2])
	minutes, _ := strconv.Atoi(offset[3:])
	seconds := hours*3600 + minutes*60
	if seconds == 0 {
		return time.UTC
	}
	if sign == "-" {
		seconds = -seconds
	}
	return time.FixedZone(fmt.Sprintf("UTC%s%s", sign, offset), seconds)
}

// ParseOffset resolves a signed numeric offset such as "+02:00", "-0530" or
// "+01" to a fixed zone. "Z" is UTC.
func ParseOffset(s string) (*time.Location, error) {
	s = strings.TrimSpace(s)
	if s == "Z" {
		return time.UTC, nil
	}
	if len(s) < 3 || (s[0] != '+' && s[0] != '-') || !isNumericOffset(s[1:]) {
		return nil, terrors.InvalidDateFormat(s, "expected a numeric offset such as +02:00")
	}
	offset := normalizeOffset(s[1:])
	if offset[:2] > "23" || offset[3:] > "59" {
		return nil, terrors.InvalidDateFormat(s, "offset out of range")
	}
	return fixedZone(s[:1], offset), nil
}
