package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/timedim/internal/profile"
	"github.com/hrygo/timedim/plugin/temporal/dimension"
	"github.com/hrygo/timedim/plugin/temporal/timerange"
	"github.com/hrygo/timedim/store/cache"
)

// APIV1Service serves the temporal engine over HTTP.
type APIV1Service struct {
	Profile *profile.Profile
	Parser  *timerange.Parser
	Builder *dimension.Builder
	Cache   *cache.DimensionCache
	Metrics *Metrics
}

// NewAPIV1Service creates the API service. dimCache may be nil to build
// every dimension afresh.
func NewAPIV1Service(profile *profile.Profile, dimCache *cache.DimensionCache, metrics *Metrics) *APIV1Service {
	parser := timerange.NewParser(
		timerange.WithReverseTimeZone(profile.ReverseTimeZone),
		timerange.WithMaxSteps(profile.MaxSteps),
	)
	return &APIV1Service{
		Profile: profile,
		Parser:  parser,
		Builder: dimension.NewBuilder(parser),
		Cache:   dimCache,
		Metrics: metrics,
	}
}

// RegisterRoutes registers the /api/v1 routes with the given Echo instance,
// behind the given middleware.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo, m ...echo.MiddlewareFunc) {
	g := echoServer.Group("/api/v1", m...)

	g.POST("/dimensions/ogc", s.BuildOGCDimension)
	g.POST("/dimensions/esri", s.BuildESRIDimension)
	g.POST("/dimensions/capabilities", s.BuildCapabilitiesDimensions)
	g.POST("/ranges/parse", s.ParseRange)

	g.GET("/dates/normalize", s.NormalizeDate)
	g.GET("/dates/format", s.FormatDate)
	g.GET("/dates/detect", s.DetectFormat)

	g.GET("/cache/stats", func(c echo.Context) error {
		if s.Cache == nil {
			return c.JSON(http.StatusOK, cache.Stats{})
		}
		return c.JSON(http.StatusOK, s.Cache.Stats())
	})
}
