package profile

import (
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the timedim server and CLI.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Version is the current version of server
	Version string

	// Engine Configuration
	ReverseTimeZone bool // TIMEDIM_REVERSE_TIMEZONE (default: false)
	MaxSteps        int  // TIMEDIM_MAX_STEPS (default: 100000)

	// Cache Configuration
	CacheMaxItems int           // TIMEDIM_CACHE_MAX_ITEMS (default: 1000)
	CacheTTL      time.Duration // TIMEDIM_CACHE_TTL (default: 30m)
	CachePath     string        // TIMEDIM_CACHE_PATH (default: "", persistent tier disabled)

	// Rate Limiting
	RateLimit float64 // TIMEDIM_RATE_LIMIT requests per second per client (default: 20)
	RateBurst int     // TIMEDIM_RATE_BURST (default: 40)

	// Tracing
	TraceEndpoint string // TIMEDIM_OTLP_ENDPOINT, OTLP/HTTP collector URL (default: "", tracing disabled)
}

// Default returns a profile with every setting at its default.
func Default() *Profile {
	return &Profile{
		Mode:          "dev",
		Addr:          "",
		Port:          8081,
		Version:       "dev",
		MaxSteps:      100_000,
		CacheMaxItems: 1000,
		CacheTTL:      30 * time.Minute,
		RateLimit:     20,
		RateBurst:     40,
	}
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from TIMEDIM_* environment variables. Unset or
// unparsable variables keep the current value.
func (p *Profile) FromEnv() {
	getInt := func(key string, current int) int {
		if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
			return v
		}
		return current
	}
	getFloat := func(key string, current float64) float64 {
		if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
			return v
		}
		return current
	}
	getBool := func(key string, current bool) bool {
		if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
			return v
		}
		return current
	}
	getDuration := func(key string, current time.Duration) time.Duration {
		if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
			return v
		}
		return current
	}

	p.Mode = getEnvOrDefault("TIMEDIM_MODE", p.Mode)
	p.Addr = getEnvOrDefault("TIMEDIM_ADDR", p.Addr)
	p.Port = getInt("TIMEDIM_PORT", p.Port)
	p.ReverseTimeZone = getBool("TIMEDIM_REVERSE_TIMEZONE", p.ReverseTimeZone)
	p.MaxSteps = getInt("TIMEDIM_MAX_STEPS", p.MaxSteps)
	p.CacheMaxItems = getInt("TIMEDIM_CACHE_MAX_ITEMS", p.CacheMaxItems)
	p.CacheTTL = getDuration("TIMEDIM_CACHE_TTL", p.CacheTTL)
	p.CachePath = getEnvOrDefault("TIMEDIM_CACHE_PATH", p.CachePath)
	p.RateLimit = getFloat("TIMEDIM_RATE_LIMIT", p.RateLimit)
	p.RateBurst = getInt("TIMEDIM_RATE_BURST", p.RateBurst)
	p.TraceEndpoint = getEnvOrDefault("TIMEDIM_OTLP_ENDPOINT", p.TraceEndpoint)
}

func checkCacheDir(cacheDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(cacheDir) {
		absDir, err := filepath.Abs(cacheDir)
		if err != nil {
			return "", err
		}
		cacheDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	cacheDir = strings.TrimRight(cacheDir, "\\/")
	if _, err := os.Stat(filepath.Dir(cacheDir)); err != nil {
		return "", errors.Wrapf(err, "unable to access cache folder parent of %s", cacheDir)
	}
	return cacheDir, nil
}

// Validate normalizes the profile and rejects settings the server cannot run with.
func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}
	if p.Port <= 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}
	if p.MaxSteps <= 0 {
		return errors.Errorf("max steps must be positive, got %d", p.MaxSteps)
	}
	if p.CacheMaxItems <= 0 {
		return errors.Errorf("cache max items must be positive, got %d", p.CacheMaxItems)
	}
	if p.CacheTTL < 0 {
		return errors.Errorf("cache ttl must not be negative, got %s", p.CacheTTL)
	}
	if p.RateLimit <= 0 || p.RateBurst <= 0 {
		return errors.Errorf("rate limit %v/%d must be positive", p.RateLimit, p.RateBurst)
	}
	if p.TraceEndpoint != "" {
		u, err := url.Parse(p.TraceEndpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.Errorf("invalid OTLP endpoint %q", p.TraceEndpoint)
		}
	}

	if p.CachePath != "" {
		cacheDir, err := checkCacheDir(p.CachePath)
		if err != nil {
			slog.Error("failed to check cache path", slog.String("path", p.CachePath), slog.String("error", err.Error()))
			return err
		}
		p.CachePath = cacheDir
	}
	return nil
}
