package dimension

import (
	"encoding/json"
	"encoding/xml"
	"io"
	"strings"

	pkgerrors "github.com/pkg/errors"

	terrors "github.com/hrygo/timedim/plugin/temporal/errors"
)

// LayerDimension is the time dimension declared for one named layer.
type LayerDimension struct {
	Layer     string       `json:"layer"`
	Title     string       `json:"title,omitempty"`
	Dimension OGCDimension `json:"dimension"`
}

type capabilitiesDoc struct {
	Version string            `xml:"version,attr"`
	Layers  []capabilityLayer `xml:"Capability>Layer"`
}

type capabilityLayer struct {
	Name       string            `xml:"Name"`
	Title      string            `xml:"Title"`
	Dimensions []capabilityValue `xml:"Dimension"`
	Extents    []capabilityValue `xml:"Extent"`
	Layers     []capabilityLayer `xml:"Layer"`
}

// capabilityValue covers both Dimension (1.3.0 carries values, 1.1.1 only
// units) and Extent (1.1.1) elements.
type capabilityValue struct {
	Name         string `xml:"name,attr"`
	Units        string `xml:"units,attr"`
	UnitSymbol   string `xml:"unitSymbol,attr"`
	Default      string `xml:"default,attr"`
	NearestValue Flag   `xml:"nearestValue,attr"`
	Values       string `xml:",chardata"`
}

// ParseCapabilities reads a WMS 1.1.1 or 1.3.0 GetCapabilities document and
// returns the time dimension of every named layer that has one. Dimensions
// and extents are inherited from parent layers, as WMS defines.
func ParseCapabilities(r io.Reader) ([]LayerDimension, error) {
	var doc capabilitiesDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to decode capabilities document")
	}

	var out []LayerDimension
	for _, layer := range doc.Layers {
		out = collectLayers(out, layer, nil, nil)
	}
	return out, nil
}

func collectLayers(out []LayerDimension, layer capabilityLayer, dim, extent *capabilityValue) []LayerDimension {
	if d := findTime(layer.Dimensions); d != nil {
		dim = d
	}
	if e := findTime(layer.Extents); e != nil {
		extent = e
	}

	if name := strings.TrimSpace(layer.Name); name != "" {
		if d, ok := mergeTime(dim, extent); ok {
			out = append(out, LayerDimension{Layer: name, Title: strings.TrimSpace(layer.Title), Dimension: d})
		}
	}
	for _, child := range layer.Layers {
		out = collectLayers(out, child, dim, extent)
	}
	return out
}

func findTime(values []capabilityValue) *capabilityValue {
	for i := range values {
		if strings.EqualFold(strings.TrimSpace(values[i].Name), "time") {
			return &values[i]
		}
	}
	return nil
}

// mergeTime combines a Dimension with its Extent. The Extent supplies values,
// default and nearestValue when the Dimension does not.
func mergeTime(dim, extent *capabilityValue) (OGCDimension, bool) {
	if dim == nil && extent == nil {
		return OGCDimension{}, false
	}
	var d OGCDimension
	if dim != nil {
		d = OGCDimension{
			Name:         strings.TrimSpace(dim.Name),
			Units:        dim.Units,
			UnitSymbol:   dim.UnitSymbol,
			Default:      strings.TrimSpace(dim.Default),
			NearestValue: dim.NearestValue,
			Values:       strings.TrimSpace(dim.Values),
		}
	}
	if extent != nil {
		if d.Name == "" {
			d.Name = strings.TrimSpace(extent.Name)
		}
		if d.Values == "" {
			d.Values = strings.TrimSpace(extent.Values)
		}
		if d.Default == "" {
			d.Default = strings.TrimSpace(extent.Default)
		}
		if !d.NearestValue.Set {
			d.NearestValue = extent.NearestValue
		}
	}
	if d.Values == "" {
		return OGCDimension{}, false
	}
	return d, true
}

// ParseESRILayer decodes an ArcGIS REST layer description and returns its
// timeInfo. A bare timeInfo object is accepted as well.
func ParseESRILayer(r io.Reader) (ESRITimeInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ESRITimeInfo{}, pkgerrors.Wrap(err, "failed to read ESRI layer")
	}

	var layer struct {
		TimeInfo *ESRITimeInfo `json:"timeInfo"`
	}
	if err := json.Unmarshal(data, &layer); err != nil {
		return ESRITimeInfo{}, pkgerrors.Wrap(err, "failed to decode ESRI layer")
	}
	if layer.TimeInfo != nil {
		return *layer.TimeInfo, nil
	}

	var info ESRITimeInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return ESRITimeInfo{}, pkgerrors.Wrap(err, "failed to decode ESRI timeInfo")
	}
	if len(info.TimeExtent) == 0 {
		return ESRITimeInfo{}, terrors.InvalidTimeDimension("ESRI layer has no timeInfo")
	}
	return info, nil
}
