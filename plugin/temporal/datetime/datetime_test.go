package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	terrors "github.com/hrygo/timedim/plugin/temporal/errors"
)

func TestIsValidDate(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2012-08-28T21:24:35.37465188Z", true},
		{"2012-08-28T21:24:35Z", true},
		{"2012-08-28T21:24:35+02:00", true},
		{"2012-08-28T21:24:35-0530", true},
		{"2012-08-28T21:24:35", true},
		{"2012-08-28T21:24", true},
		{"2012-08-28T21:24Z", true},
		{"2012-08-28 21:24", true},
		{"2012-08-28", true},
		{"2012-08", true},
		{"2012-08-28Z", false},
		{"2012-08-28+02:00", false},
		{"1696", true},
		{"2004-02-29", true},
		{"2003-02-29", false},
		{"2012-13-01", false},
		{"", false},
		{"   ", false},
		{"not a date", false},
		{"P1D", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidDate(tt.input))
		})
	}
}

func TestToUTC(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2012-08-28T21:24:35Z", "2012-08-28T21:24:35Z"},
		{"2012-08-28T23:24:35+02:00", "2012-08-28T21:24:35Z"},
		{"2012-08-28T21:24:35.5Z", "2012-08-28T21:24:35.5Z"},
		{"2012-08-28", "2012-08-28T00:00:00Z"},
		{"2012-08", "2012-08-01T00:00:00Z"},
		{"2012-08-28T01:00-03:00", "2012-08-28T04:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ToUTC(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := ToUTC(got)
			require.NoError(t, err)
			assert.Equal(t, got, again, "ToUTC must be idempotent")
		})
	}
}

func TestToUTC_Invalid(t *testing.T) {
	_, err := ToUTC("garbage")
	require.Error(t, err)
	assert.True(t, terrors.IsCode(err, terrors.ErrCodeInvalidDate))

	assert.Equal(t, "", TryToUTC("garbage"))
	assert.Equal(t, "", TryToUTC(""))
	assert.Equal(t, "2012-08-28T00:00:00Z", TryToUTC("2012-08-28"))
}

func TestFormatUTC(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	got := FormatUTC(time.Date(2026, 1, 28, 8, 0, 0, 0, loc))
	assert.Equal(t, "2026-01-28T00:00:00Z", got)
}

func TestToLocalIn(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	got, err := ToLocalIn("2012-08-28T21:24:35Z", loc)
	require.NoError(t, err)
	assert.Equal(t, "2012-08-28T23:24:35+02:00", got)

	got, err = ToLocalIn("2012-08-28T21:24:35Z", nil)
	require.NoError(t, err)
	assert.Equal(t, "2012-08-28T21:24:35Z", got)

	_, err = ToLocal("nope")
	assert.True(t, terrors.IsCode(err, terrors.ErrCodeInvalidDate))
}

func TestMilliseconds(t *testing.T) {
	ms, err := ToMilliseconds("2012-08-28T21:24:35.374Z")
	require.NoError(t, err)
	assert.Equal(t, int64(1346189075374), ms)

	assert.Equal(t, "2012-08-28T21:24:35", FromMilliseconds(ms, ""))
	assert.Equal(t, "2012-08-28", FromMilliseconds(ms, "YYYY-MM-DD"))
	assert.Equal(t, "28/08/2012 21:24:35.374", FromMilliseconds(ms, "DD/MM/YYYY HH:mm:ss.SSS"))
	assert.Equal(t, "1970-01-01T00:00:00", FromMilliseconds(0, DefaultMillisecondsPattern))
	assert.Equal(t, "1969-12-31T23:59:59", FromMilliseconds(-1000, ""))

	_, err = ToMilliseconds("")
	assert.True(t, terrors.IsCode(err, terrors.ErrCodeInvalidDate))
}

func TestYearConstant(t *testing.T) {
	assert.Equal(t, int64(31_536_000_000), MillisecondsPerYear)
}
