package dimension

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	terrors "github.com/hrygo/timedim/plugin/temporal/errors"
)

const wms130 = `<?xml version="1.0" encoding="UTF-8"?>
<WMS_Capabilities version="1.3.0" xmlns="http://www.opengis.net/wms">
  <Service><Name>WMS</Name></Service>
  <Capability>
    <Layer>
      <Title>Root</Title>
      <Layer>
        <Name>sst</Name>
        <Title>Sea surface temperature</Title>
        <Dimension name="elevation" units="m">0,10,20</Dimension>
        <Dimension name="time" units="ISO8601" default="2002-04-01T00:00:00Z" nearestValue="0">
          2002-01-01T00:00:00Z/2002-04-01T00:00:00Z/P1M
        </Dimension>
        <Layer>
          <Name>sst_anomaly</Name>
        </Layer>
      </Layer>
      <Layer>
        <Name>coastline</Name>
      </Layer>
    </Layer>
  </Capability>
</WMS_Capabilities>`

const wms111 = `<?xml version="1.0" encoding="UTF-8"?>
<WMT_MS_Capabilities version="1.1.1">
  <Capability>
    <Layer>
      <Name>births</Name>
      <Dimension name="time" units="ISO8601"/>
      <Extent name="time" default="1741" nearestValue="1">1696,1701,1734,1741</Extent>
    </Layer>
  </Capability>
</WMT_MS_Capabilities>`

func TestParseCapabilities_WMS130(t *testing.T) {
	layers, err := ParseCapabilities(strings.NewReader(wms130))
	require.NoError(t, err)
	require.Len(t, layers, 2)

	assert.Equal(t, "sst", layers[0].Layer)
	assert.Equal(t, "Sea surface temperature", layers[0].Title)
	assert.Equal(t, "time", layers[0].Dimension.Name)
	assert.Equal(t, "ISO8601", layers[0].Dimension.Units)
	assert.Equal(t, "2002-04-01T00:00:00Z", layers[0].Dimension.Default)
	assert.True(t, layers[0].Dimension.NearestValue.Disabled())
	assert.Equal(t, "2002-01-01T00:00:00Z/2002-04-01T00:00:00Z/P1M", layers[0].Dimension.Values)

	assert.Equal(t, "sst_anomaly", layers[1].Layer)
	assert.Equal(t, layers[0].Dimension, layers[1].Dimension)

	dim, err := NewBuilder(nil).FromOGC(layers[0].Dimension)
	require.NoError(t, err)
	assert.Equal(t, NearestDiscrete, dim.NearestValueMode)
	assert.Equal(t, []string{"2002-04-01T00:00:00Z"}, dim.DefaultValue)
	assert.Len(t, dim.RangeItems.Range, 4)
}

func TestParseCapabilities_WMS111(t *testing.T) {
	layers, err := ParseCapabilities(strings.NewReader(wms111))
	require.NoError(t, err)
	require.Len(t, layers, 1)

	d := layers[0].Dimension
	assert.Equal(t, "births", layers[0].Layer)
	assert.Equal(t, "time", d.Name)
	assert.Equal(t, "1741", d.Default)
	assert.Equal(t, NewFlag(true), d.NearestValue)
	assert.Equal(t, "1696,1701,1734,1741", d.Values)
}

func TestParseCapabilities_Invalid(t *testing.T) {
	_, err := ParseCapabilities(strings.NewReader("<WMS_Capabilities><Capability>"))
	require.Error(t, err)

	layers, err := ParseCapabilities(strings.NewReader(`<WMS_Capabilities version="1.3.0"><Capability><Layer><Name>a</Name></Layer></Capability></WMS_Capabilities>`))
	require.NoError(t, err)
	assert.Empty(t, layers)
}

func TestParseESRILayer(t *testing.T) {
	info, err := ParseESRILayer(strings.NewReader(`{
		"name": "fires",
		"timeInfo": {
			"startTimeField": "acq_date",
			"timeExtent": [1009843200000, 1017619200000],
			"timeInterval": 1,
			"timeIntervalUnits": "esriTimeUnitsMonths"
		}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "acq_date", info.StartTimeField)
	assert.Equal(t, []int64{jan2002, apr2002}, info.TimeExtent)
	assert.Equal(t, "esriTimeUnitsMonths", info.Unit())

	info, err = ParseESRILayer(strings.NewReader(`{"timeExtent": [1009843200000, 1017619200000], "timeIntervalUnit": "Days"}`))
	require.NoError(t, err)
	assert.Equal(t, "Days", info.Unit())

	_, err = ParseESRILayer(strings.NewReader(`{"name": "static"}`))
	assert.True(t, terrors.IsCode(err, terrors.ErrCodeInvalidTimeDimension))

	_, err = ParseESRILayer(strings.NewReader(`{`))
	require.Error(t, err)
}

func TestFlag_JSON(t *testing.T) {
	tests := []struct {
		raw  string
		want Flag
	}{
		{`null`, Flag{}},
		{`true`, NewFlag(true)},
		{`false`, NewFlag(false)},
		{`0`, NewFlag(false)},
		{`1`, NewFlag(true)},
		{`"0"`, NewFlag(false)},
		{`"true"`, NewFlag(true)},
		{`""`, Flag{}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var f Flag
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &f))
			assert.Equal(t, tt.want, f)
		})
	}

	var f Flag
	assert.Error(t, json.Unmarshal([]byte(`"maybe"`), &f))

	out, err := json.Marshal(OGCDimension{Name: "time", Values: "2002"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"nearestValue":null`)

	out, err = json.Marshal(NewFlag(false))
	require.NoError(t, err)
	assert.Equal(t, "false", string(out))
}
