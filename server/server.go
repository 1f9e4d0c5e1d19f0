package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/hrygo/timedim/internal/profile"
	timedimmw "github.com/hrygo/timedim/server/middleware"
	apiv1 "github.com/hrygo/timedim/server/router/api/v1"
	"github.com/hrygo/timedim/store/cache"
)

// Server is the timedim HTTP server.
type Server struct {
	Profile *profile.Profile

	echoServer *echo.Echo
	cache      *cache.DimensionCache
	registry   *prometheus.Registry

	shutdownTracing func(context.Context) error
}

// NewServer wires the cache, metrics, middleware and routes.
func NewServer(ctx context.Context, profile *profile.Profile) (*Server, error) {
	var shutdownTracing func(context.Context) error
	if profile.TraceEndpoint != "" {
		shutdown, err := initTracing(ctx, profile.TraceEndpoint)
		if err != nil {
			return nil, err
		}
		shutdownTracing = shutdown
	}

	var store cache.Store
	if profile.CachePath != "" {
		badgerStore, err := cache.OpenBadgerStore(profile.CachePath)
		if err != nil {
			return nil, err
		}
		store = badgerStore
	}
	dimCache, err := cache.NewDimensionCache(&cache.TieredConfig{
		L1MaxItems: profile.CacheMaxItems,
		L1TTL:      profile.CacheTTL,
		L2TTL:      24 * time.Hour,
		L2:         store,
	})
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, errors.Wrap(err, "failed to create dimension cache")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := apiv1.NewMetrics(registry, dimCache.Stats)

	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(middleware.Recover())
	echoServer.Use(echo.WrapMiddleware(otelhttp.NewMiddleware("timedim")))
	echoServer.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	echoServer.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			slog.Debug("request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID))
			return nil
		},
	}))

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": profile.Version})
	})
	echoServer.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	limiter := timedimmw.NewRateLimiter(profile.RateLimit, profile.RateBurst)
	api := apiv1.NewAPIV1Service(profile, dimCache, metrics)
	api.RegisterRoutes(echoServer, limiter.Middleware())

	return &Server{
		Profile:    profile,
		echoServer: echoServer,
		cache:      dimCache,
		registry:   registry,

		shutdownTracing: shutdownTracing,
	}, nil
}

// Handler returns the HTTP handler, for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.echoServer
}

// Start listens on the profile address and serves until Shutdown.
func (s *Server) Start(_ context.Context) error {
	address := net.JoinHostPort(s.Profile.Addr, fmt.Sprint(s.Profile.Port))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", address)
	}
	s.echoServer.Listener = listener

	slog.Info("timedim server started",
		slog.String("address", address),
		slog.String("mode", s.Profile.Mode),
		slog.String("version", s.Profile.Version))

	go func() {
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start echo server", slog.Any("error", err))
		}
	}()
	return nil
}

// Shutdown stops the server and closes the cache.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	slog.Info("server shutting down")
	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.Any("error", err))
	}
	if err := s.cache.Close(); err != nil {
		slog.Error("failed to close cache", slog.Any("error", err))
	}
	if s.shutdownTracing != nil {
		if err := s.shutdownTracing(ctx); err != nil {
			slog.Error("failed to flush traces", slog.Any("error", err))
		}
	}
	slog.Info("server stopped properly")
}
