// Package format infers date layouts from sample strings and uses the
// inferred fragment order to parse and re-emit dates from heterogeneous
// services consistently.
package format

import (
	"strings"

	terrors "github.com/hrygo/timedim/plugin/temporal/errors"
)

// Unused marks a fragment slot that is absent from a layout.
const Unused = -1

// Positions holds the slot index of each fragment, or Unused.
type Positions struct {
	Year  int `json:"year" yaml:"year"`
	Month int `json:"month" yaml:"month"`
	Day   int `json:"day" yaml:"day"`
	Time  int `json:"time" yaml:"time"`
}

// Separators are the literal characters surrounding the fragments.
type Separators struct {
	Date           string `json:"date" yaml:"date"`
	DateTime       string `json:"dateTime" yaml:"dateTime"`
	TimeZoneSign   string `json:"timeZoneSign" yaml:"timeZoneSign"`
	TimeZoneOffset string `json:"timeZoneOffset" yaml:"timeZoneOffset"`
}

// FragmentsOrder maps the positional slots of a layout to year, month, day
// and time, for reading (Input) and for rendering (Output).
type FragmentsOrder struct {
	Input      Positions  `json:"input" yaml:"input"`
	Output     Positions  `json:"output" yaml:"output"`
	Separators Separators `json:"separators" yaml:"separators"`
	// TimeParts is how many of hour, minute and second the layout carries.
	TimeParts int `json:"timeParts" yaml:"timeParts"`
}

// DefaultOrder returns the ISO UTC order: year, month, day, time, "-" and "T"
// separators and a +00:00 zone.
func DefaultOrder() FragmentsOrder {
	natural := Positions{Year: 0, Month: 1, Day: 2, Time: 3}
	return FragmentsOrder{
		Input:  natural,
		Output: natural,
		Separators: Separators{
			Date:           "-",
			DateTime:       "T",
			TimeZoneSign:   "+",
			TimeZoneOffset: "00:00",
		},
		TimeParts: 3,
	}
}

// WithOutput returns a copy of the order that renders with the given positions
// and date separator.
func (o FragmentsOrder) WithOutput(out Positions, dateSeparator string) FragmentsOrder {
	o.Output = out
	if dateSeparator != "" {
		o.Separators.Date = dateSeparator
	}
	return o
}

// GetFragmentOrder builds the fragment order of a format string such as
// "DD/MM/YYYY" or "YYYY-MM-DDTHH:MM:SSZ". An empty format yields DefaultOrder.
func GetFragmentOrder(format string) (FragmentsOrder, error) {
	format = strings.TrimSpace(format)
	if format == "" {
		return DefaultOrder(), nil
	}

	order := DefaultOrder()
	datePart, timePart, dateTimeSep := splitDateTime(format)

	fragments, sep, err := splitDateFragments(format, datePart)
	if err != nil {
		return FragmentsOrder{}, err
	}
	if len(fragments) == 0 || len(fragments) > 3 {
		return FragmentsOrder{}, terrors.InvalidDateFormat(format, "expected one to three date fragments")
	}

	pos := Positions{Year: Unused, Month: Unused, Day: Unused, Time: Unused}
	for i, fragment := range fragments {
		var slot *int
		switch fragment[0] {
		case 'Y', 'y':
			slot = &pos.Year
		case 'M':
			slot = &pos.Month
		case 'D', 'd':
			slot = &pos.Day
		default:
			return FragmentsOrder{}, terrors.InvalidDateFormat(format, "unknown fragment "+fragment)
		}
		if *slot != Unused {
			return FragmentsOrder{}, terrors.InvalidDateFormat(format, "repeated fragment "+fragment)
		}
		*slot = i
	}

	order.TimeParts = 0
	if timePart != "" {
		pos.Time = len(fragments)
		order.Separators.DateTime = dateTimeSep

		clock, sign, offset := splitZone(timePart)
		order.TimeParts = len(strings.Split(strings.SplitN(clock, ".", 2)[0], ":"))
		if sign != "" {
			order.Separators.TimeZoneSign = sign
			if isNumericOffset(offset) {
				order.Separators.TimeZoneOffset = normalizeOffset(offset)
			}
		}
	}

	if sep != "" {
		order.Separators.Date = sep
	}
	order.Input = pos
	order.Output = pos
	return order, nil
}

// splitDateTime isolates the date part from the time part at the first 'T' or space.
func splitDateTime(s string) (datePart, timePart, sep string) {
	if i := strings.IndexAny(s, "T "); i >= 0 {
		return s[:i], s[i+1:], s[i : i+1]
	}
	return s, "", ""
}

// splitDateFragments splits the date part on '-' or '/', requiring both
// separators, when present, to be identical.
func splitDateFragments(format, datePart string) ([]string, string, error) {
	var (
		fragments []string
		sep       string
		current   strings.Builder
	)
	for i := 0; i < len(datePart); i++ {
		c := datePart[i]
		if c != '-' && c != '/' {
			current.WriteByte(c)
			continue
		}
		if sep != "" && sep != string(c) {
			return nil, "", terrors.InvalidDateFormat(format, "inconsistent date separators")
		}
		sep = string(c)
		if current.Len() == 0 {
			return nil, "", terrors.InvalidDateFormat(format, "empty date fragment")
		}
		fragments = append(fragments, current.String())
		current.Reset()
	}
	if current.Len() == 0 {
		return nil, "", terrors.InvalidDateFormat(format, "empty date fragment")
	}
	fragments = append(fragments, current.String())
	return fragments, sep, nil
}
