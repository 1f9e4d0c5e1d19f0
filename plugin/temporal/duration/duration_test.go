package duration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	terrors "github.com/hrygo/timedim/plugin/temporal/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Duration
		ms    int64
	}{
		{"P1Y", Duration{Years: 1}, 31_536_000_000},
		{"P1M", Duration{Months: 1}, 2_592_000_000},
		{"P12M", Duration{Months: 12}, 31_536_000_000},
		{"P1W", Duration{Weeks: 1}, 604_800_000},
		{"P1D", Duration{Days: 1}, 86_400_000},
		{"P365D", Duration{Days: 365}, 31_536_000_000},
		{"PT10M", Duration{Minutes: 10, hasTime: true}, 600_000},
		{"PT1H", Duration{Hours: 1, hasTime: true}, 3_600_000},
		{"PT1.5S", Duration{Seconds: 1.5, hasTime: true}, 1_500},
		{"PT0,5S", Duration{Seconds: 0.5, hasTime: true}, 500},
		{"P1Y2M10DT2H30M", Duration{Years: 1, Months: 2, Days: 10, Hours: 2, Minutes: 30, hasTime: true},
			31_536_000_000 + 2*2_592_000_000 + 10*86_400_000 + 2*3_600_000 + 30*60_000},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ms, got.Milliseconds())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	inputs := []string{"", "P", "PT", "1D", "P1H", "P1D1Y", "P1", "P-1D", "PxD", "P1.5D", "PT1H1H", "P1DTT1H", "2002-01-01"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)
			assert.True(t, terrors.IsCode(err, terrors.ErrCodeInvalidTimeDimensionDuration))
		})
	}
}

func TestIsMonthsOnly(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"P1M", true},
		{"P3M", true},
		{"P1Y", false},
		{"P1Y1M", false},
		{"P1M1D", false},
		{"PT1M", false},
		{"P1MT1H", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.IsMonthsOnly())
		})
	}
}

func TestString(t *testing.T) {
	for _, input := range []string{"P1Y", "P1M", "P2W", "PT10M", "P1Y2M10DT2H30M", "PT1.5S", "PT0S", "P0D"} {
		t.Run(input, func(t *testing.T) {
			d, err := Parse(input)
			require.NoError(t, err)
			again, err := Parse(d.String())
			require.NoError(t, err)
			assert.Equal(t, d.Milliseconds(), again.Milliseconds())
		})
	}
	assert.Equal(t, "PT10M", Duration{Minutes: 10, hasTime: true}.String())
	assert.Equal(t, "P1M", Duration{Months: 1}.String())
}
