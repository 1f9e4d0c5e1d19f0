package timerange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	terrors "github.com/hrygo/timedim/plugin/temporal/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		values string
		want   Kind
	}{
		{"discrete years", "1696,1701,1734,1741", KindDiscrete},
		{"discrete single with comma", "2002-01-01,", KindDiscrete},
		{"comma wins over slash", "2002/2003/P1Y,2004", KindDiscrete},
		{"absolute", "2002-01-01T00:00:00Z/2002-04-01T00:00:00Z/P1M", KindAbsolute},
		{"relative duration", "2022-04-27T14:50:00Z/PT10M", KindRelative},
		{"relative dates", "2022-04-27/2022-04-28", KindRelative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_Invalid(t *testing.T) {
	for _, values := range []string{"", "   ", ",,", "2002-01-01", "a/b/c/d", "2002-01-01//P1D"} {
		t.Run(values, func(t *testing.T) {
			_, err := Classify(values)
			require.Error(t, err)
			assert.True(t, terrors.IsCode(err, terrors.ErrCodeInvalidTimeDimension), "got %v", err)
		})
	}
}

func TestParse_Discrete(t *testing.T) {
	items, err := Parse("1696,1701,1734,1741")
	require.NoError(t, err)
	assert.Equal(t, KindDiscrete, items.Kind)
	assert.Equal(t, []string{"1696", "1701", "1734", "1741"}, items.Range)
	assert.Equal(t, "1696", items.First())
	assert.Equal(t, "1741", items.Last())

	items, err = Parse(" 2002-01-01 , ,2002-02-01 ")
	require.NoError(t, err)
	assert.Equal(t, []string{"2002-01-01", "2002-02-01"}, items.Range)
}

func TestParse_Absolute(t *testing.T) {
	tests := []struct {
		name   string
		values string
		want   []string
	}{
		{
			name:   "monthly",
			values: "2002-01-01T00:00:00Z/2002-04-01T00:00:00Z/P1M",
			want: []string{
				"2002-01-01T00:00:00Z", "2002-02-01T00:00:00Z",
				"2002-03-01T00:00:00Z", "2002-04-01T00:00:00Z",
			},
		},
		{
			name:   "monthly across year",
			values: "2002-11-15T00:00:00Z/2003-02-15T00:00:00Z/P1M",
			want: []string{
				"2002-11-15T00:00:00Z", "2002-12-15T00:00:00Z",
				"2003-01-15T00:00:00Z", "2003-02-15T00:00:00Z",
			},
		},
		{
			name:   "monthly keeps day past month end",
			values: "2002-01-31T00:00:00Z/2002-04-30T00:00:00Z/P1M",
			want: []string{
				"2002-01-31T00:00:00Z", "2002-02-31T00:00:00Z",
				"2002-03-31T00:00:00Z", "2002-04-30T00:00:00Z",
			},
		},
		{
			name:   "yearly over leap day keeps anniversary",
			values: "2003-02-28T00:00:00Z/2006-02-28T00:00:00Z/P1Y",
			want: []string{
				"2003-02-28T00:00:00Z", "2004-02-28T00:00:00Z",
				"2005-02-28T00:00:00Z", "2006-02-28T00:00:00Z",
			},
		},
		{
			name:   "yearly from march",
			values: "2003-03-01T00:00:00Z/2006-03-01T00:00:00Z/P1Y",
			want: []string{
				"2003-03-01T00:00:00Z", "2004-03-01T00:00:00Z",
				"2005-03-01T00:00:00Z", "2006-03-01T00:00:00Z",
			},
		},
		{
			name:   "365 days is corrected like a year",
			values: "2003-03-01T00:00:00Z/2006-03-01T00:00:00Z/P365D",
			want: []string{
				"2003-03-01T00:00:00Z", "2004-03-01T00:00:00Z",
				"2005-03-01T00:00:00Z", "2006-03-01T00:00:00Z",
			},
		},
		{
			name:   "366 days drifts",
			values: "2003-03-01T00:00:00Z/2006-03-01T00:00:00Z/P366D",
			want: []string{
				"2003-03-01T00:00:00Z", "2004-03-01T00:00:00Z",
				"2005-03-02T00:00:00Z", "2006-03-01T00:00:00Z",
			},
		},
		{
			name:   "minutes",
			values: "2022-04-27T14:50:00Z/2022-04-27T15:20:00Z/PT10M",
			want: []string{
				"2022-04-27T14:50:00Z", "2022-04-27T15:00:00Z",
				"2022-04-27T15:10:00Z", "2022-04-27T15:20:00Z",
			},
		},
		{
			name:   "max not on a step",
			values: "2022-04-27T14:50:00Z/2022-04-27T15:05:00Z/PT10M",
			want:   []string{"2022-04-27T14:50:00Z", "2022-04-27T15:00:00Z", "2022-04-27T15:05:00Z"},
		},
		{
			name:   "degenerate instant",
			values: "2002-01-01T00:00:00Z/2002-01-01T00:00:00Z/P1D",
			want:   []string{"2002-01-01T00:00:00Z"},
		},
		{
			name:   "dates without zone",
			values: "2002-01-01/2002-01-03/P1D",
			want:   []string{"2002-01-01T00:00:00", "2002-01-02T00:00:00", "2002-01-03T00:00:00"},
		},
		{
			name:   "surrounding spaces",
			values: " 2002-01-01T00:00:00Z / 2002-01-02T00:00:00Z / P1D ",
			want:   []string{"2002-01-01T00:00:00Z", "2002-01-02T00:00:00Z"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Parse(tt.values)
			require.NoError(t, err)
			assert.Equal(t, KindAbsolute, items.Kind)
			assert.Equal(t, tt.want, items.Range)
		})
	}
}

func TestParse_Relative(t *testing.T) {
	tests := []struct {
		name   string
		values string
		want   []string
	}{
		{"duration", "2022-04-27T14:50:00Z/PT10M", []string{"2022-04-27T14:50:00Z", "2022-04-27T15:00:00Z"}},
		{"month duration", "2002-01-31T00:00:00Z/P1M", []string{"2002-01-31T00:00:00Z", "2002-02-31T00:00:00Z"}},
		{"end date", "2022-04-27T14:50:00Z/2022-04-28T00:00:00Z", []string{"2022-04-27T14:50:00Z", "2022-04-28T00:00:00Z"}},
		{"month and year", "10-2004/P1M", []string{"10-2004-01T00:00:00", "11-2004-01T00:00:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Parse(tt.values)
			require.NoError(t, err)
			assert.Equal(t, KindRelative, items.Kind)
			assert.Equal(t, tt.want, items.Range)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		values string
		code   terrors.ErrorCode
	}{
		{"four fields", "2002/2003/P1Y/P1M", terrors.ErrCodeInvalidTimeDimension},
		{"single value", "2002-01-01T00:00:00Z", terrors.ErrCodeInvalidTimeDimension},
		{"bad duration", "2002-01-01T00:00:00Z/2003-01-01T00:00:00Z/P1X", terrors.ErrCodeInvalidTimeDimensionDuration},
		{"zero duration", "2002-01-01T00:00:00Z/2003-01-01T00:00:00Z/PT0S", terrors.ErrCodeInvalidTimeDimensionDuration},
		{"bad relative duration", "2002-01-01T00:00:00Z/PXYZ", terrors.ErrCodeInvalidTimeDimensionDuration},
		{"bad min", "garbage/2003-01-01T00:00:00Z/P1Y", terrors.ErrCodeInvalidDate},
		{"bad max", "2002-01-01T00:00:00Z/garbage/P1Y", terrors.ErrCodeInvalidDate},
		{"bad relative end", "2002-01-01T00:00:00Z/garbage", terrors.ErrCodeInvalidDate},
		{"min after max", "2003-01-01T00:00:00Z/2002-01-01T00:00:00Z/P1M", terrors.ErrCodeInvalidTimeDimension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Parse(tt.values)
			require.Error(t, err)
			assert.Empty(t, items.Range)
			assert.True(t, terrors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestParser_MaxSteps(t *testing.T) {
	p := NewParser(WithMaxSteps(3))
	_, err := p.Parse("2002-01-01T00:00:00Z/2002-12-01T00:00:00Z/P1M")
	require.Error(t, err)
	assert.True(t, terrors.IsCode(err, terrors.ErrCodeInvalidTimeDimension))

	items, err := p.Parse("2002-01-01T00:00:00Z/2002-03-01T00:00:00Z/P1M")
	require.NoError(t, err)
	assert.Len(t, items.Range, 3)

	assert.Equal(t, DefaultMaxSteps, NewParser(WithMaxSteps(0)).maxSteps)
}

func TestParser_ReverseTimeZone(t *testing.T) {
	forward, err := NewParser().Parse("2002-01-01T00:00:00+02:00/2002-01-01T02:00:00+02:00/PT1H")
	require.NoError(t, err)
	assert.Equal(t, []string{"2001-12-31T22:00:00", "2001-12-31T23:00:00", "2002-01-01T00:00:00"}, forward.Range)

	reversed, err := NewParser(WithReverseTimeZone(true)).Parse("2002-01-01T00:00:00+02:00/2002-01-01T02:00:00+02:00/PT1H")
	require.NoError(t, err)
	assert.Equal(t, []string{"2002-01-01T02:00:00", "2002-01-01T03:00:00", "2002-01-01T04:00:00"}, reversed.Range)
}

func TestParse_OrderedAndBounded(t *testing.T) {
	for _, values := range []string{
		"2000-01-01T00:00:00Z/2010-01-01T00:00:00Z/P1Y",
		"2002-01-01T00:00:00Z/2002-01-02T00:00:00Z/PT1H",
		"2002-01-01T00:00:00Z/2002-01-01T01:00:00Z/PT7M",
	} {
		t.Run(values, func(t *testing.T) {
			items, err := Parse(values)
			require.NoError(t, err)
			require.NotEmpty(t, items.Range)
			for i := 1; i < len(items.Range); i++ {
				assert.Less(t, items.Range[i-1], items.Range[i])
			}
		})
	}
}

func TestParser_Fingerprint(t *testing.T) {
	base := NewParser().Fingerprint()
	assert.Equal(t, base, NewParser(WithMaxSteps(DefaultMaxSteps)).Fingerprint())
	assert.NotEqual(t, base, NewParser(WithReverseTimeZone(true)).Fingerprint())
	assert.NotEqual(t, base, NewParser(WithMaxSteps(3)).Fingerprint())
}
