package dimension

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/hrygo/timedim/plugin/temporal/datetime"
	terrors "github.com/hrygo/timedim/plugin/temporal/errors"
	"github.com/hrygo/timedim/plugin/temporal/timerange"
)

// esriUnit is the ISO 8601 designator an ESRI interval unit maps to.
type esriUnit struct {
	designator string
	inTime     bool
}

var esriUnits = map[string]esriUnit{
	"seconds": {"S", true},
	"minutes": {"M", true},
	"hours":   {"H", true},
	"days":    {"D", false},
	"weeks":   {"W", false},
	"months":  {"M", false},
	"years":   {"Y", false},
}

// Builder assembles TimeDimension values. It is safe for concurrent use.
type Builder struct {
	parser *timerange.Parser
}

// NewBuilder creates a builder that expands values with parser, or with a
// default parser when parser is nil.
func NewBuilder(parser *timerange.Parser) *Builder {
	if parser == nil {
		parser = timerange.NewParser()
	}
	return &Builder{parser: parser}
}

// FromOGCValues builds a dimension from a bare values string.
func (b *Builder) FromOGCValues(values string) (TimeDimension, error) {
	return b.FromOGC(OGCDimension{Name: "time", Values: values})
}

// FromOGC builds a single-handle dimension from a WMS Dimension element.
func (b *Builder) FromOGC(d OGCDimension) (TimeDimension, error) {
	items, err := b.parser.Parse(d.Values)
	if err != nil {
		slog.Warn("rejected OGC time dimension",
			slog.String("name", d.Name),
			slog.String("values", d.Values),
			slog.Any("error", err))
		return TimeDimension{}, err
	}

	defaultValue := strings.TrimSpace(d.Default)
	if defaultValue == "" {
		defaultValue = items.First()
	}
	mode := NearestAbsolute
	if d.NearestValue.Disabled() {
		mode = NearestDiscrete
	}

	dim := TimeDimension{
		Field:            d.Name,
		DefaultValue:     []string{defaultValue},
		UnitSymbol:       d.UnitSymbol,
		RangeItems:       items,
		NearestValueMode: mode,
		SingleHandle:     true,
		DisplayPattern:   GuessDisplayPattern(items.Range, false),
		IsValid:          isValid(items.Range),
	}
	slog.Debug("built OGC time dimension",
		slog.String("name", d.Name),
		slog.String("kind", string(items.Kind)),
		slog.Int("values", len(items.Range)))
	return dim, nil
}

// FromESRI builds a dimension from an ESRI timeInfo block. singleHandle
// selects one instant instead of a range.
func (b *Builder) FromESRI(info ESRITimeInfo, singleHandle bool) (TimeDimension, error) {
	values, err := ESRIValues(info)
	if err != nil {
		slog.Warn("rejected ESRI time info", slog.String("field", info.StartTimeField), slog.Any("error", err))
		return TimeDimension{}, err
	}
	items, err := b.parser.Parse(values)
	if err != nil {
		slog.Warn("rejected ESRI time info",
			slog.String("field", info.StartTimeField),
			slog.String("values", values),
			slog.Any("error", err))
		return TimeDimension{}, err
	}

	mode := NearestDiscrete
	if info.StartTimeField == "" {
		mode = NearestAbsolute
	}
	defaultValue := []string{items.First(), items.Last()}
	if singleHandle {
		defaultValue = []string{items.Last()}
	}

	dim := TimeDimension{
		Field:            info.StartTimeField,
		DefaultValue:     defaultValue,
		RangeItems:       items,
		NearestValueMode: mode,
		SingleHandle:     singleHandle,
		DisplayPattern:   GuessDisplayPattern(items.Range, true),
		IsValid:          isValid(items.Range),
	}
	slog.Debug("built ESRI time dimension",
		slog.String("field", info.StartTimeField),
		slog.String("values", values),
		slog.Int("count", len(items.Range)))
	return dim, nil
}

// ESRIValues renders an ESRI timeInfo as an OGC values string,
// "<min>Z/<max>Z/P<n><unit>". The duration is left out when the unit is
// unknown or the interval unset.
func ESRIValues(info ESRITimeInfo) (string, error) {
	if len(info.TimeExtent) != 2 {
		return "", terrors.InvalidTimeDimension(fmt.Sprintf("timeExtent needs 2 values, got %d", len(info.TimeExtent)))
	}
	values := datetime.FromMilliseconds(info.TimeExtent[0], datetime.DefaultMillisecondsPattern) + "Z/" +
		datetime.FromMilliseconds(info.TimeExtent[1], datetime.DefaultMillisecondsPattern) + "Z"

	unit, ok := lookupESRIUnit(info.Unit())
	if !ok || info.TimeInterval <= 0 || math.IsInf(info.TimeInterval, 0) || math.IsNaN(info.TimeInterval) {
		return values, nil
	}
	n := strconv.FormatFloat(info.TimeInterval, 'f', -1, 64)
	if unit.inTime {
		return values + "/PT" + n + unit.designator, nil
	}
	return values + "/P" + n + unit.designator, nil
}

// lookupESRIUnit accepts both "Days" and "esriTimeUnitsDays".
func lookupESRIUnit(name string) (esriUnit, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "esritimeunits")
	unit, ok := esriUnits[name]
	return unit, ok
}

// GuessDisplayPattern picks a display precision from the spacing of values.
// With onlyMinMax only the first and last values are compared; otherwise the
// smallest positive step between successive values is. A single instant
// yields day and minute, a spacing longer than 24 hours yields day only, and
// a spacing of 24 hours or less yields minute only. Values that do not parse are skipped.
func GuessDisplayPattern(values []string, onlyMinMax bool) DisplayPattern {
	instant := DisplayPattern{Date: datetime.DatePrecisionDay, Time: datetime.TimePrecisionMinute}

	sample := values
	if onlyMinMax && len(values) > 2 {
		sample = []string{values[0], values[len(values)-1]}
	}
	var ms []int64
	for _, v := range sample {
		if m, err := datetime.ToMilliseconds(v); err == nil {
			ms = append(ms, m)
		}
	}
	if len(ms) < 2 {
		return instant
	}

	var step int64
	for i := 1; i < len(ms); i++ {
		delta := ms[i] - ms[i-1]
		if delta < 0 {
			delta = -delta
		}
		if delta > 0 && (step == 0 || delta < step) {
			step = delta
		}
	}
	switch {
	case step == 0:
		return instant
	case step > datetime.MillisecondsPerDay:
		return DisplayPattern{Date: datetime.DatePrecisionDay}
	default:
		return DisplayPattern{Time: datetime.TimePrecisionMinute}
	}
}

func isValid(values []string) bool {
	return len(values) >= 1 && values[0] != values[len(values)-1]
}
