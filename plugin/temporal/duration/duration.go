// Package duration parses ISO 8601 durations as they appear in OGC time
// dimensions, e.g. "P1M", "PT10M" or "P1Y2M10DT2H30M".
package duration

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	terrors "github.com/hrygo/timedim/plugin/temporal/errors"
)

// Fixed approximations used to express a duration in milliseconds.
const (
	msPerSecond int64 = 1000
	msPerMinute       = 60 * msPerSecond
	msPerHour         = 60 * msPerMinute
	msPerDay          = 24 * msPerHour
	msPerWeek         = 7 * msPerDay
	msPerMonth        = 30 * msPerDay
	msPerYear         = 365 * msPerDay
)

// Duration is a parsed ISO 8601 duration. Calendar components are kept apart
// so callers can step months by field rather than by a fixed length.
type Duration struct {
	Years   int
	Months  int
	Weeks   int
	Days    int
	Hours   int
	Minutes int
	Seconds float64

	hasTime bool
}

// designator describes one component in the order it must appear.
type designator struct {
	unit    byte
	inTime  bool
	integer bool
	set     func(d *Duration, v float64)
}

var designators = []designator{
	{'Y', false, true, func(d *Duration, v float64) { d.Years = int(v) }},
	{'M', false, true, func(d *Duration, v float64) { d.Months = int(v) }},
	{'W', false, true, func(d *Duration, v float64) { d.Weeks = int(v) }},
	{'D', false, true, func(d *Duration, v float64) { d.Days = int(v) }},
	{'H', true, true, func(d *Duration, v float64) { d.Hours = int(v) }},
	{'M', true, true, func(d *Duration, v float64) { d.Minutes = int(v) }},
	{'S', true, false, func(d *Duration, v float64) { d.Seconds = v }},
}

// Parse parses an ISO 8601 duration. Components must appear in order, at
// least one must be present and none may be negative.
func Parse(s string) (Duration, error) {
	raw := s
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != 'P' {
		return Duration{}, terrors.InvalidTimeDimensionDuration(raw, fmt.Errorf("duration must start with 'P'"))
	}
	s = s[1:]

	var d Duration
	inTime := false
	next := 0
	components := 0
	for len(s) > 0 {
		if s[0] == 'T' {
			if inTime {
				return Duration{}, terrors.InvalidTimeDimensionDuration(raw, fmt.Errorf("repeated 'T'"))
			}
			inTime = true
			d.hasTime = true
			s = s[1:]
			for next < len(designators) && !designators[next].inTime {
				next++
			}
			if s == "" {
				return Duration{}, terrors.InvalidTimeDimensionDuration(raw, fmt.Errorf("empty time part"))
			}
			continue
		}

		i := 0
		for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.' || s[i] == ',') {
			i++
		}
		if i == 0 || i == len(s) {
			return Duration{}, terrors.InvalidTimeDimensionDuration(raw, fmt.Errorf("expected number and designator at %q", s))
		}
		numStr := strings.Replace(s[:i], ",", ".", 1)
		unit := s[i]
		s = s[i+1:]

		idx := -1
		for j := next; j < len(designators); j++ {
			if designators[j].inTime != inTime {
				continue
			}
			if designators[j].unit == unit {
				idx = j
				break
			}
		}
		if idx < 0 {
			return Duration{}, terrors.InvalidTimeDimensionDuration(raw, fmt.Errorf("unexpected designator %q", unit))
		}

		v, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			return Duration{}, terrors.InvalidTimeDimensionDuration(raw, err)
		}
		if designators[idx].integer && v != math.Trunc(v) {
			return Duration{}, terrors.InvalidTimeDimensionDuration(raw, fmt.Errorf("fractional %q component", unit))
		}
		designators[idx].set(&d, v)
		next = idx + 1
		components++
	}

	if components == 0 {
		return Duration{}, terrors.InvalidTimeDimensionDuration(raw, fmt.Errorf("no components"))
	}
	return d, nil
}

// IsMonthsOnly reports whether the duration is expressed purely in months.
func (d Duration) IsMonthsOnly() bool {
	return d.Months > 0 && d.Years == 0 && d.Weeks == 0 && d.Days == 0 && !d.hasTime
}

// Milliseconds returns the length of the duration using 365-day years and
// 30-day months, so "P1Y" is exactly 31,536,000,000 ms.
func (d Duration) Milliseconds() int64 {
	months := int64(d.Years)*12 + int64(d.Months)
	ms := (months/12)*msPerYear + (months%12)*msPerMonth
	ms += int64(d.Weeks)*msPerWeek + int64(d.Days)*msPerDay
	ms += int64(d.Hours)*msPerHour + int64(d.Minutes)*msPerMinute
	ms += int64(math.Round(d.Seconds * float64(msPerSecond)))
	return ms
}

// String renders the duration back to ISO 8601.
func (d Duration) String() string {
	var date, clock strings.Builder
	writeInt := func(b *strings.Builder, v int, unit byte) {
		if v != 0 {
			b.WriteString(strconv.Itoa(v))
			b.WriteByte(unit)
		}
	}
	writeInt(&date, d.Years, 'Y')
	writeInt(&date, d.Months, 'M')
	writeInt(&date, d.Weeks, 'W')
	writeInt(&date, d.Days, 'D')
	writeInt(&clock, d.Hours, 'H')
	writeInt(&clock, d.Minutes, 'M')
	if d.Seconds != 0 {
		clock.WriteString(strconv.FormatFloat(d.Seconds, 'f', -1, 64))
		clock.WriteByte('S')
	}

	out := "P" + date.String()
	if clock.Len() > 0 {
		return out + "T" + clock.String()
	}
	if date.Len() == 0 || d.hasTime {
		return out + "T0S"
	}
	return out
}
