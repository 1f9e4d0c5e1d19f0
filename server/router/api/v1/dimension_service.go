package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/hrygo/timedim/plugin/temporal/dimension"
	terrors "github.com/hrygo/timedim/plugin/temporal/errors"
	"github.com/hrygo/timedim/store/cache"
)

// OGCDimensionRequest carries either a full Dimension element or bare values.
type OGCDimensionRequest struct {
	Dimension *dimension.OGCDimension `json:"dimension,omitempty"`
	Values    string                  `json:"values,omitempty"`
}

// ESRIDimensionRequest carries an ESRI timeInfo block.
type ESRIDimensionRequest struct {
	TimeInfo     *dimension.ESRITimeInfo `json:"timeInfo"`
	SingleHandle bool                    `json:"singleHandle"`
}

// RangeRequest carries a dimension values string.
type RangeRequest struct {
	Values string `json:"values"`
}

// LayerResult is the outcome for one layer of a capabilities document.
type LayerResult struct {
	Layer     string                   `json:"layer"`
	Title     string                   `json:"title,omitempty"`
	Dimension *dimension.TimeDimension `json:"dimension,omitempty"`
	Error     *ErrorResponse           `json:"error,omitempty"`
}

// CapabilitiesResponse lists the time dimensions of a capabilities document.
type CapabilitiesResponse struct {
	Layers []LayerResult `json:"layers"`
}

// BuildOGCDimension builds a dimension from an OGC Dimension element.
// POST /api/v1/dimensions/ogc
func (s *APIV1Service) BuildOGCDimension(c echo.Context) error {
	var req OGCDimensionRequest
	if err := c.Bind(&req); err != nil {
		return s.badRequest(c, "invalid request body")
	}

	d := dimension.OGCDimension{Name: "time", Values: req.Values}
	if req.Dimension != nil {
		d = *req.Dimension
	}
	dim, err := s.buildOGC(c.Request().Context(), d)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, dim)
}

// BuildESRIDimension builds a dimension from an ESRI timeInfo block.
// POST /api/v1/dimensions/esri
func (s *APIV1Service) BuildESRIDimension(c echo.Context) error {
	var req ESRIDimensionRequest
	if err := c.Bind(&req); err != nil {
		return s.badRequest(c, "invalid request body")
	}
	if req.TimeInfo == nil {
		return s.badRequest(c, "timeInfo is required")
	}

	info := *req.TimeInfo
	raw, err := json.Marshal(info)
	if err != nil {
		return s.fail(c, err)
	}
	key := s.cacheKey("esri", string(raw), strconv.FormatBool(req.SingleHandle))
	dim, err := s.cached(c.Request().Context(), key, func(context.Context) (dimension.TimeDimension, error) {
		return s.Builder.FromESRI(info, req.SingleHandle)
	})
	if err != nil {
		return s.fail(c, err)
	}
	s.Metrics.observeBuild("esri", string(dim.RangeItems.Kind))
	return c.JSON(http.StatusOK, dim)
}

// BuildCapabilitiesDimensions builds the dimension of every time-enabled
// layer in a GetCapabilities document. A layer that fails is reported with
// its error; the others are still built.
// POST /api/v1/dimensions/capabilities
func (s *APIV1Service) BuildCapabilitiesDimensions(c echo.Context) error {
	layers, err := dimension.ParseCapabilities(c.Request().Body)
	if err != nil {
		return s.badRequest(c, err.Error())
	}

	ctx := c.Request().Context()
	resp := CapabilitiesResponse{Layers: make([]LayerResult, 0, len(layers))}
	for _, layer := range layers {
		result := LayerResult{Layer: layer.Layer, Title: layer.Title}
		dim, err := s.buildOGC(ctx, layer.Dimension)
		if err != nil {
			code := terrors.GetCodeFromError(err, codeInternal)
			s.Metrics.observeError(string(code))
			result.Error = &ErrorResponse{Code: string(code), Message: err.Error()}
		} else {
			result.Dimension = &dim
		}
		resp.Layers = append(resp.Layers, result)
	}
	return c.JSON(http.StatusOK, resp)
}

// ParseRange classifies and expands a values string.
// POST /api/v1/ranges/parse
func (s *APIV1Service) ParseRange(c echo.Context) error {
	var req RangeRequest
	if err := c.Bind(&req); err != nil {
		return s.badRequest(c, "invalid request body")
	}
	items, err := s.Parser.Parse(req.Values)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (s *APIV1Service) buildOGC(ctx context.Context, d dimension.OGCDimension) (dimension.TimeDimension, error) {
	key := s.cacheKey("ogc", d.Name, d.Values, d.Default, d.UnitSymbol,
		strconv.FormatBool(d.NearestValue.Set), strconv.FormatBool(d.NearestValue.Value))
	dim, err := s.cached(ctx, key, func(context.Context) (dimension.TimeDimension, error) {
		return s.Builder.FromOGC(d)
	})
	if err != nil {
		return dimension.TimeDimension{}, err
	}
	s.Metrics.observeBuild("ogc", string(dim.RangeItems.Kind))
	return dim, nil
}

// cacheKey keys a build by its inputs and the parser options, so entries
// persisted under other settings are never served.
func (s *APIV1Service) cacheKey(kind string, parts ...string) string {
	return cache.Key(kind, append([]string{s.Parser.Fingerprint()}, parts...)...)
}

var tracer = otel.Tracer("github.com/hrygo/timedim/server/router/api/v1")

func (s *APIV1Service) cached(ctx context.Context, key string, build cache.Fetcher) (dimension.TimeDimension, error) {
	ctx, span := tracer.Start(ctx, "dimension.build")
	defer span.End()

	var (
		dim dimension.TimeDimension
		err error
	)
	if s.Cache == nil {
		dim, err = build(ctx)
	} else {
		dim, err = s.Cache.Get(ctx, key, build)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return dim, err
	}
	span.SetAttributes(
		attribute.String("timedim.range.kind", string(dim.RangeItems.Kind)),
		attribute.Int("timedim.range.size", len(dim.RangeItems.Range)),
	)
	return dim, nil
}
