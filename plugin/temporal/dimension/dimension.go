// Package dimension builds TimeDimension values from OGC and ESRI service
// metadata.
package dimension

import (
	"encoding/json"
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"github.com/hrygo/timedim/plugin/temporal/datetime"
	"github.com/hrygo/timedim/plugin/temporal/timerange"
)

// NearestValueMode tells a time control whether to snap to produced values.
type NearestValueMode string

const (
	// NearestDiscrete snaps selection to the produced values.
	NearestDiscrete NearestValueMode = "discrete"
	// NearestAbsolute allows any value between the range ends.
	NearestAbsolute NearestValueMode = "absolute"
)

// DisplayPattern is the precision a time control renders with. Either side may be empty.
type DisplayPattern struct {
	Date datetime.DatePrecision `json:"date,omitempty" yaml:"date,omitempty" toml:"date,omitempty"`
	Time datetime.TimePrecision `json:"time,omitempty" yaml:"time,omitempty" toml:"time,omitempty"`
}

// Format renders t in UTC with the pattern's precision.
func (p DisplayPattern) Format(t time.Time) string {
	return datetime.FormatWithPattern(t, p.Date, p.Time)
}

// TimeDimension is the normalized temporal description of one layer.
type TimeDimension struct {
	Field            string               `json:"field" yaml:"field" toml:"field"`
	DefaultValue     []string             `json:"defaultValue" yaml:"defaultValue" toml:"defaultValue"`
	UnitSymbol       string               `json:"unitSymbol" yaml:"unitSymbol" toml:"unitSymbol"`
	RangeItems       timerange.RangeItems `json:"rangeItems" yaml:"rangeItems" toml:"rangeItems"`
	NearestValueMode NearestValueMode     `json:"nearestValueMode" yaml:"nearestValueMode" toml:"nearestValueMode"`
	SingleHandle     bool                 `json:"singleHandle" yaml:"singleHandle" toml:"singleHandle"`
	DisplayPattern   DisplayPattern       `json:"displayPattern" yaml:"displayPattern" toml:"displayPattern"`
	IsValid          bool                 `json:"isValid" yaml:"isValid" toml:"isValid"`
}

// OGCDimension is a WMS time Dimension element.
type OGCDimension struct {
	Name         string `json:"name"`
	Units        string `json:"units,omitempty"`
	UnitSymbol   string `json:"unitSymbol,omitempty"`
	Default      string `json:"default,omitempty"`
	NearestValue Flag   `json:"nearestValue"`
	Values       string `json:"values"`
}

// Flag is an optional boolean that accepts the 0/1 spelling used by
// capabilities documents as well as JSON booleans and strings.
type Flag struct {
	Set   bool
	Value bool
}

// Disabled reports whether the flag was given and is false.
func (f Flag) Disabled() bool {
	return f.Set && !f.Value
}

// NewFlag returns a set flag.
func NewFlag(v bool) Flag {
	return Flag{Set: true, Value: v}
}

// ParseFlag parses the 0/1 and true/false spellings. An empty string is an
// unset flag.
func ParseFlag(s string) (Flag, error) {
	var f Flag
	err := f.parse(s)
	return f, err
}

func (f *Flag) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*f = Flag{}
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*f = NewFlag(v)
	return nil
}

// UnmarshalJSON accepts true, false, 0, 1, "0", "1", "true", "false" and null.
func (f *Flag) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*f = Flag{}
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return f.parse(s)
	}
	return f.parse(raw)
}

// MarshalJSON writes null for an unset flag.
func (f Flag) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// UnmarshalXMLAttr reads a nearestValue="0|1" attribute.
func (f *Flag) UnmarshalXMLAttr(attr xml.Attr) error {
	return f.parse(attr.Value)
}

// ESRITimeInfo is the timeInfo block of an ArcGIS REST layer. Extents are
// epoch milliseconds.
type ESRITimeInfo struct {
	StartTimeField    string  `json:"startTimeField"`
	EndTimeField      string  `json:"endTimeField,omitempty"`
	TimeExtent        []int64 `json:"timeExtent"`
	TimeInterval      float64 `json:"timeInterval,omitempty"`
	TimeIntervalUnits string  `json:"timeIntervalUnits,omitempty"`
	TimeIntervalUnit  string  `json:"timeIntervalUnit,omitempty"`
}

// Unit returns the interval unit under either of its ESRI field names.
func (i ESRITimeInfo) Unit() string {
	if i.TimeIntervalUnits != "" {
		return i.TimeIntervalUnits
	}
	return i.TimeIntervalUnit
}
