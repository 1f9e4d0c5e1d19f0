package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	terrors "github.com/hrygo/timedim/plugin/temporal/errors"
)

func TestGetFragmentOrder_Default(t *testing.T) {
	order, err := GetFragmentOrder("")
	require.NoError(t, err)
	assert.Equal(t, DefaultOrder(), order)
	assert.Equal(t, Positions{Year: 0, Month: 1, Day: 2, Time: 3}, order.Input)
	assert.Equal(t, "+", order.Separators.TimeZoneSign)
	assert.Equal(t, "00:00", order.Separators.TimeZoneOffset)
}

func TestGetFragmentOrder(t *testing.T) {
	tests := []struct {
		format    string
		positions Positions
		sep       Separators
		timeParts int
	}{
		{
			format:    "YYYY-MM-DDTHH:MM:SSZ",
			positions: Positions{Year: 0, Month: 1, Day: 2, Time: 3},
			sep:       Separators{Date: "-", DateTime: "T", TimeZoneSign: "+", TimeZoneOffset: "00:00"},
			timeParts: 3,
		},
		{
			format:    "DD/MM/YYYY",
			positions: Positions{Year: 2, Month: 1, Day: 0, Time: Unused},
			sep:       Separators{Date: "/", DateTime: "T", TimeZoneSign: "+", TimeZoneOffset: "00:00"},
		},
		{
			format:    "MM/DD/YYYY HH:mm",
			positions: Positions{Year: 2, Month: 0, Day: 1, Time: 3},
			sep:       Separators{Date: "/", DateTime: " ", TimeZoneSign: "+", TimeZoneOffset: "00:00"},
			timeParts: 2,
		},
		{
			format:    "YYYY-MM",
			positions: Positions{Year: 0, Month: 1, Day: Unused, Time: Unused},
			sep:       Separators{Date: "-", DateTime: "T", TimeZoneSign: "+", TimeZoneOffset: "00:00"},
		},
		{
			format:    "YYYY",
			positions: Positions{Year: 0, Month: Unused, Day: Unused, Time: Unused},
			sep:       Separators{Date: "-", DateTime: "T", TimeZoneSign: "+", TimeZoneOffset: "00:00"},
		},
		{
			format:    "YYYY-MM-DDTHH:MM:SS-0530",
			positions: Positions{Year: 0, Month: 1, Day: 2, Time: 3},
			sep:       Separators{Date: "-", DateTime: "T", TimeZoneSign: "-", TimeZoneOffset: "05:30"},
			timeParts: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			order, err := GetFragmentOrder(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.positions, order.Input)
			assert.Equal(t, tt.positions, order.Output)
			assert.Equal(t, tt.sep, order.Separators)
			assert.Equal(t, tt.timeParts, order.TimeParts)
		})
	}
}

func TestGetFragmentOrder_Invalid(t *testing.T) {
	for _, format := range []string{"YYYY-MM/DD", "YYYY/MM-DD", "YYYY-XX-DD", "YYYY-MM-MM", "YYYY-MM-DD-HH", "YYYY--DD"} {
		t.Run(format, func(t *testing.T) {
			_, err := GetFragmentOrder(format)
			require.Error(t, err)
			assert.True(t, terrors.IsCode(err, terrors.ErrCodeInvalidDateFormat))
		})
	}
}

func TestWithOutput(t *testing.T) {
	order, err := GetFragmentOrder("DD/MM/YYYY")
	require.NoError(t, err)

	iso := order.WithOutput(Positions{Year: 0, Month: 1, Day: 2, Time: Unused}, "-")
	out, err := ApplyOutputFormat("2004-10-05T00:00:00Z", iso, false)
	require.NoError(t, err)
	assert.Equal(t, "2004-10-05", out)

	// the receiver is unchanged
	assert.Equal(t, "/", order.Separators.Date)
}
