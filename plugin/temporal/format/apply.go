package format

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hrygo/timedim/plugin/temporal/datetime"
	terrors "github.com/hrygo/timedim/plugin/temporal/errors"
)

// Fields are the numeric components of a date. They are not normalized, so a
// value such as February 31 survives until it is turned into a time.Time.
type Fields struct {
	Year       int
	Month      int
	Day        int
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

// FieldsOf returns the components of t in its own location.
func FieldsOf(t time.Time) Fields {
	return Fields{
		Year:       t.Year(),
		Month:      int(t.Month()),
		Day:        t.Day(),
		Hour:       t.Hour(),
		Minute:     t.Minute(),
		Second:     t.Second(),
		Nanosecond: t.Nanosecond(),
	}
}

// Time returns the UTC instant of f. Out-of-range fields roll over.
func (f Fields) Time() time.Time {
	return time.Date(f.Year, time.Month(f.Month), f.Day, f.Hour, f.Minute, f.Second, f.Nanosecond, time.UTC)
}

// ApplyInputFormat reads date with the input side of order and returns it as
// an ISO 8601 UTC string. Slashes and spaces are accepted as "-" and "T";
// absent date fragments default to 0000-01-01 and an absent time to 00:00:00.
// A trailing "Z" is kept as UTC; otherwise the order's offset applies unless
// the date carries its own. With reverseTimeZone the offset sign is flipped.
func ApplyInputFormat(date string, order FragmentsOrder, reverseTimeZone bool) (string, error) {
	s := strings.TrimSpace(date)
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, " ", "T")

	zulu := strings.HasSuffix(s, "Z")
	s = strings.TrimSuffix(s, "Z")

	datePart, timePart, _ := splitDateTime(s)
	if datePart == "" {
		return "", terrors.DateNormalizationFailed(date, fmt.Errorf("missing date part"))
	}

	fragments := strings.Split(datePart, "-")
	for i, fragment := range fragments {
		if len(fragment) == 1 {
			fragments[i] = "0" + fragment
		}
	}
	pick := func(pos int, fallback string) string {
		if pos >= 0 && pos < len(fragments) && fragments[pos] != "" {
			return fragments[pos]
		}
		return fallback
	}
	year := pick(order.Input.Year, "0000")
	month := pick(order.Input.Month, "01")
	day := pick(order.Input.Day, "01")

	clock, sign, offset := splitZone(timePart)
	switch {
	case zulu:
		sign, offset = "", ""
	case sign != "":
		if !isNumericOffset(offset) {
			return "", terrors.DateNormalizationFailed(date, fmt.Errorf("malformed offset %q", offset))
		}
		offset = normalizeOffset(offset)
	default:
		sign, offset = order.Separators.TimeZoneSign, order.Separators.TimeZoneOffset
	}
	if reverseTimeZone && !zulu {
		sign = flipSign(sign)
	}

	zone := "Z"
	if !zulu && offset != "" && offset != "00:00" {
		zone = sign + offset
	}

	iso := fmt.Sprintf("%s-%s-%sT%s%s", year, month, day, padClock(clock), zone)
	out, err := datetime.ToUTC(iso)
	if err != nil {
		return "", terrors.DateNormalizationFailed(date, err)
	}
	return out, nil
}

// ApplyOutputFormat renders an ISO UTC date with the output side of order.
// Fragments marked Unused are omitted and no zone is shown. The clock is the
// one ApplyInputFormat read with the same order and flag: the order's offset,
// sign flipped with reverseTimeZone. Orders without an offset render UTC.
func ApplyOutputFormat(isoUTC string, order FragmentsOrder, reverseTimeZone bool) (string, error) {
	t, err := datetime.Parse(isoUTC)
	if err != nil {
		return "", err
	}

	sign := order.Separators.TimeZoneSign
	if reverseTimeZone {
		sign = flipSign(sign)
	}
	loc := fixedZone(sign, order.Separators.TimeZoneOffset)
	return RenderFields(FieldsOf(t.In(loc)), order), nil
}

// RenderFields lays out f with the output positions and separators of order.
func RenderFields(f Fields, order FragmentsOrder) string {
	type slot struct {
		pos  int
		text string
	}
	var slots []slot
	if order.Output.Year != Unused {
		slots = append(slots, slot{order.Output.Year, fmt.Sprintf("%04d", f.Year)})
	}
	if order.Output.Month != Unused {
		slots = append(slots, slot{order.Output.Month, fmt.Sprintf("%02d", f.Month)})
	}
	if order.Output.Day != Unused {
		slots = append(slots, slot{order.Output.Day, fmt.Sprintf("%02d", f.Day)})
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].pos < slots[j].pos })

	parts := make([]string, 0, len(slots))
	for _, s := range slots {
		parts = append(parts, s.text)
	}
	out := strings.Join(parts, order.Separators.Date)

	if order.Output.Time == Unused || order.TimeParts <= 0 {
		return out
	}

	clock := fmt.Sprintf("%02d", f.Hour)
	if order.TimeParts >= 2 {
		clock += fmt.Sprintf(":%02d", f.Minute)
	}
	if order.TimeParts >= 3 {
		clock += fmt.Sprintf(":%02d", f.Second)
		if f.Nanosecond != 0 {
			clock += "." + strings.TrimRight(fmt.Sprintf("%09d", f.Nanosecond), "0")
		}
	}
	if out == "" {
		return clock
	}
	return out + order.Separators.DateTime + clock
}

// padClock completes "HH" and "HH:mm" to "HH:mm:ss" and zero-pads single digits.
func padClock(clock string) string {
	if clock == "" {
		return "00:00:00"
	}
	runs := strings.Split(clock, ":")
	for len(runs) < 3 {
		runs = append(runs, "00")
	}
	for i, run := range runs {
		if len(run) == 1 {
			runs[i] = "0" + run
		}
	}
	return strings.Join(runs, ":")
}
