package timerange

import (
	"fmt"
	"strings"
	"time"

	"github.com/hrygo/timedim/plugin/temporal/datetime"
	"github.com/hrygo/timedim/plugin/temporal/duration"
	terrors "github.com/hrygo/timedim/plugin/temporal/errors"
	"github.com/hrygo/timedim/plugin/temporal/format"
)

// layout is how the values of one interval are read and rendered.
type layout struct {
	zulu  bool
	order format.FragmentsOrder
}

// expandAbsolute expands min/max/duration by stepping from min until the next
// step would reach max, then closes the range with max.
func (p *Parser) expandAbsolute(minValue, maxValue, period string) (RangeItems, error) {
	l, err := deduceLayout(minValue)
	if err != nil {
		return RangeItems{}, err
	}
	start, err := p.readDate(minValue)
	if err != nil {
		return RangeItems{}, err
	}
	end, err := p.readDate(maxValue)
	if err != nil {
		return RangeItems{}, err
	}
	d, ms, err := parsePeriod(period)
	if err != nil {
		return RangeItems{}, err
	}

	endTime := end.Time()
	if start.Time().After(endTime) {
		return RangeItems{}, terrors.InvalidTimeDimension(fmt.Sprintf("interval start %s is after end %s", minValue, maxValue))
	}

	leapCorrection := ms == datetime.MillisecondsPerYear
	out := []string{l.render(start)}
	current := start
	for steps := 0; ; steps++ {
		if steps >= p.maxSteps {
			return RangeItems{}, terrors.InvalidTimeDimension("interval expands beyond the step limit").
				WithContext("max_steps", p.maxSteps)
		}

		next := step(current, d, ms)
		if leapCorrection && (next.Month != current.Month || next.Day != current.Day) {
			next = addMilliseconds(current, ms+datetime.MillisecondsPerDay)
		}
		// A step landing past max is dropped rather than emitted before max.
		if !next.Time().Before(endTime) {
			break
		}
		out = append(out, l.render(next))
		current = next
	}

	if last := l.render(end); out[len(out)-1] != last {
		out = append(out, last)
	}
	return RangeItems{Kind: KindAbsolute, Range: out}, nil
}

// expandRelative expands date/duration or date/date into its two ends.
func (p *Parser) expandRelative(first, second string) (RangeItems, error) {
	l, err := deduceLayout(first)
	if err != nil {
		return RangeItems{}, err
	}
	start, err := p.readDate(first)
	if err != nil {
		return RangeItems{}, err
	}

	var end format.Fields
	if strings.HasPrefix(second, "P") {
		d, ms, err := parsePeriod(second)
		if err != nil {
			return RangeItems{}, err
		}
		end = step(start, d, ms)
	} else {
		end, err = p.readDate(second)
		if err != nil {
			return RangeItems{}, err
		}
	}

	return RangeItems{Kind: KindRelative, Range: []string{l.render(start), l.render(end)}}, nil
}

// deduceLayout derives the rendering layout of an interval from its first date.
func deduceLayout(sample string) (layout, error) {
	pattern, err := format.DeduceFormat(sample)
	if err != nil {
		return layout{}, terrors.InvalidDate(sample, err)
	}
	order, err := format.GetFragmentOrder(pattern)
	if err != nil {
		return layout{}, terrors.InvalidDate(sample, err)
	}
	return layout{zulu: strings.HasSuffix(sample, "Z"), order: order}, nil
}

// readDate reads one interval bound with the layout deduced from itself.
func (p *Parser) readDate(value string) (format.Fields, error) {
	l, err := deduceLayout(value)
	if err != nil {
		return format.Fields{}, err
	}
	iso, err := format.ApplyInputFormat(value, l.order, p.reverseTimeZone)
	if err != nil {
		return format.Fields{}, terrors.InvalidDate(value, err)
	}
	t, err := datetime.Parse(iso)
	if err != nil {
		return format.Fields{}, err
	}
	return format.FieldsOf(t.UTC()), nil
}

// render emits f truncated to seconds with a "Z" for UTC sources, and with
// the source's own fragment order otherwise.
func (l layout) render(f format.Fields) string {
	if l.zulu {
		return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02dZ", f.Year, f.Month, f.Day, f.Hour, f.Minute, f.Second)
	}
	return format.RenderFields(f, l.order)
}

// parsePeriod parses a step duration, which must be positive.
func parsePeriod(period string) (duration.Duration, int64, error) {
	d, err := duration.Parse(period)
	if err != nil {
		return duration.Duration{}, 0, err
	}
	ms := d.Milliseconds()
	if ms <= 0 {
		return duration.Duration{}, 0, terrors.InvalidTimeDimensionDuration(period, fmt.Errorf("duration must be positive"))
	}
	return d, ms, nil
}

// step advances f by one duration. Pure month durations move the month field
// and carry into the year, leaving the day untouched even when the target
// month is shorter; everything else adds a fixed number of milliseconds.
func step(f format.Fields, d duration.Duration, ms int64) format.Fields {
	if d.IsMonthsOnly() {
		next := f
		next.Month += d.Months
		for next.Month > 12 {
			next.Month -= 12
			next.Year++
		}
		return next
	}
	return addMilliseconds(f, ms)
}

func addMilliseconds(f format.Fields, ms int64) format.Fields {
	t := f.Time()
	sub := time.Duration(t.Nanosecond() % int(time.Millisecond))
	return format.FieldsOf(time.UnixMilli(t.UnixMilli() + ms).Add(sub).UTC())
}
