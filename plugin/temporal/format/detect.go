package format

import (
	"strings"

	terrors "github.com/hrygo/timedim/plugin/temporal/errors"
)

const (
	tokenYear  = "YYYY"
	tokenMonth = "MM"
	tokenDay   = "DD"
)

// clockTokens label hour, minute and second runs of a time part, in order.
var clockTokens = []string{"HH", "MM", "SS"}

// DeduceFormat infers the format pattern of an example date, such as
// "YYYY-MM-DDTHH:MM:SSZ" for "2004-10-05T10:00:00Z". Missing fragments are
// filled in, so "2004-10" yields "YYYY-MM-DDTHH:MM:SSZ" and "10/2004" yields
// "MM/YYYY/DDTHH:MM:SSZ". A date whose separators disagree fails with
// INVALID_DATE_FORMAT.
func DeduceFormat(example string) (string, error) {
	example = strings.TrimSpace(example)
	if example == "" {
		return "", terrors.InvalidDateFormat(example, "empty example")
	}

	datePart, timePart, dateTimeSep := splitDateTime(example)
	fragments, sep, err := splitDateFragments(example, datePart)
	if err != nil {
		return "", err
	}

	labels, err := labelDateFragments(example, fragments)
	if err != nil {
		return "", err
	}
	if sep == "" {
		sep = "-"
	}

	var b strings.Builder
	b.WriteString(strings.Join(labels, sep))

	if timePart == "" {
		b.WriteString("T")
		b.WriteString(strings.Join(clockTokens, ":"))
		b.WriteString("Z")
		return b.String(), nil
	}

	clock, zone, err := labelTimePart(example, timePart)
	if err != nil {
		return "", err
	}
	b.WriteString(dateTimeSep)
	b.WriteString(clock)
	b.WriteString(zone)
	return b.String(), nil
}

// labelDateFragments assigns year, month and day to the digit runs of a date.
// The four-digit run is the year; a leading year reads year-month-day, a
// trailing year reads day-month-year and a year after a single fragment reads
// month-year. Absent fragments are added.
func labelDateFragments(example string, fragments []string) ([]string, error) {
	if len(fragments) > 3 {
		return nil, terrors.InvalidDateFormat(example, "more than three date fragments")
	}
	yearAt := -1
	for i, fragment := range fragments {
		if !isDigits(fragment) {
			return nil, terrors.InvalidDateFormat(example, "non-numeric date fragment "+fragment)
		}
		switch len(fragment) {
		case 4:
			if yearAt >= 0 {
				return nil, terrors.InvalidDateFormat(example, "more than one year fragment")
			}
			yearAt = i
		case 1, 2:
		default:
			return nil, terrors.InvalidDateFormat(example, "unexpected fragment length "+fragment)
		}
	}
	if yearAt < 0 {
		return nil, terrors.InvalidDateFormat(example, "no four-digit year")
	}

	switch {
	case yearAt == 0:
		return []string{tokenYear, tokenMonth, tokenDay}, nil
	case len(fragments) == 2:
		// month-year: the missing day goes last so existing slots keep their meaning
		return []string{tokenMonth, tokenYear, tokenDay}, nil
	case yearAt == len(fragments)-1:
		return []string{tokenDay, tokenMonth, tokenYear}, nil
	default:
		return nil, terrors.InvalidDateFormat(example, "year between month and day")
	}
}

// labelTimePart labels the clock runs and keeps the zone designator. A clock
// without a zone gets "Z".
func labelTimePart(example, timePart string) (string, string, error) {
	clock, zone := timePart, "Z"
	if strings.HasSuffix(timePart, "Z") {
		clock = strings.TrimSuffix(timePart, "Z")
	} else if rest, sign, offset := splitZone(timePart); sign != "" {
		if !isNumericOffset(offset) {
			return "", "", terrors.InvalidDateFormat(example, "malformed zone offset "+offset)
		}
		clock, zone = rest, sign+normalizeOffset(offset)
	}

	main, fraction, hasFraction := strings.Cut(clock, ".")
	runs := strings.Split(main, ":")
	if len(runs) > len(clockTokens) {
		return "", "", terrors.InvalidDateFormat(example, "too many time fragments")
	}
	for _, run := range runs {
		if run == "" || len(run) > 2 || !isDigits(run) {
			return "", "", terrors.InvalidDateFormat(example, "malformed time fragment "+run)
		}
	}

	labelled := strings.Join(clockTokens, ":")
	if hasFraction {
		if fraction == "" || !isDigits(fraction) {
			return "", "", terrors.InvalidDateFormat(example, "malformed fraction "+fraction)
		}
		labelled += ".SSS"
	}
	return labelled, zone, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
