// Package timerange classifies OGC time dimension values and expands them
// into ordered sequences of date strings.
//
// Three shapes are recognized, in this priority order:
//
//	1696,1701,1734,1741                          discrete list
//	2002-01-01T00:00:00Z/2002-04-01T00:00:00Z/P1M absolute interval
//	2022-04-27T14:50:00Z/PT10M                   relative interval
package timerange

import (
	"strconv"
	"strings"

	terrors "github.com/hrygo/timedim/plugin/temporal/errors"
)

// Kind is the syntactic shape of a dimension value string.
type Kind string

const (
	KindDiscrete Kind = "discrete"
	KindRelative Kind = "relative"
	KindAbsolute Kind = "absolute"
)

// DefaultMaxSteps bounds the number of values an absolute interval may expand to.
const DefaultMaxSteps = 100_000

// RangeItems is a classified and expanded dimension. Range is never empty.
type RangeItems struct {
	Kind  Kind     `json:"kind" yaml:"kind" toml:"kind"`
	Range []string `json:"range" yaml:"range" toml:"range"`
}

// First returns the first value of the range.
func (r RangeItems) First() string {
	if len(r.Range) == 0 {
		return ""
	}
	return r.Range[0]
}

// Last returns the last value of the range.
func (r RangeItems) Last() string {
	if len(r.Range) == 0 {
		return ""
	}
	return r.Range[len(r.Range)-1]
}

// Option configures a Parser.
type Option func(*Parser)

// WithReverseTimeZone flips the sign of the offset applied to dates without "Z".
func WithReverseTimeZone(reverse bool) Option {
	return func(p *Parser) {
		p.reverseTimeZone = reverse
	}
}

// WithMaxSteps bounds absolute interval expansion. Values below 1 keep the default.
func WithMaxSteps(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxSteps = n
		}
	}
}

// Parser parses dimension value strings. It holds only immutable options and
// is safe for concurrent use.
type Parser struct {
	reverseTimeZone bool
	maxSteps        int
}

// NewParser creates a new dimension value parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{maxSteps: DefaultMaxSteps}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fingerprint identifies the options that shape the output of p. Two parsers
// with equal fingerprints expand the same values identically.
func (p *Parser) Fingerprint() string {
	return "reverse_tz=" + strconv.FormatBool(p.reverseTimeZone) + ";max_steps=" + strconv.Itoa(p.maxSteps)
}

// Parse parses values with the default options.
func Parse(values string) (RangeItems, error) {
	return NewParser().Parse(values)
}

// Classify reports the shape of values without expanding it.
func Classify(values string) (Kind, error) {
	kind, _, err := classify(values)
	return kind, err
}

// Parse classifies values and expands it. Any invalid date or duration aborts
// the whole parse; no partial range is returned.
func (p *Parser) Parse(values string) (RangeItems, error) {
	kind, tokens, err := classify(values)
	if err != nil {
		return RangeItems{}, err
	}

	var items RangeItems
	switch kind {
	case KindDiscrete:
		items = RangeItems{Kind: KindDiscrete, Range: tokens}
	case KindAbsolute:
		items, err = p.expandAbsolute(tokens[0], tokens[1], tokens[2])
	case KindRelative:
		items, err = p.expandRelative(tokens[0], tokens[1])
	}
	if err != nil {
		return RangeItems{}, err
	}
	if len(items.Range) == 0 {
		return RangeItems{}, terrors.InvalidTimeDimension("dimension expanded to an empty range")
	}
	return items, nil
}

// classify splits values into the tokens of its shape.
func classify(values string) (Kind, []string, error) {
	values = strings.TrimSpace(values)
	if values == "" {
		return "", nil, terrors.InvalidTimeDimension("empty dimension values")
	}

	if strings.Contains(values, ",") {
		var tokens []string
		for _, token := range strings.Split(values, ",") {
			if token = strings.TrimSpace(token); token != "" {
				tokens = append(tokens, token)
			}
		}
		if len(tokens) == 0 {
			return "", nil, terrors.InvalidTimeDimension("discrete list has no values")
		}
		return KindDiscrete, tokens, nil
	}

	fields := strings.Split(values, "/")
	for i, field := range fields {
		fields[i] = strings.TrimSpace(field)
		if fields[i] == "" {
			return "", nil, terrors.InvalidTimeDimension("empty interval field in " + values)
		}
	}

	switch len(fields) {
	case 3:
		return KindAbsolute, fields, nil
	case 2:
		return KindRelative, fields, nil
	default:
		return "", nil, terrors.InvalidTimeDimension("unrecognized dimension shape "+values).
			WithContext("fields", len(fields))
	}
}
