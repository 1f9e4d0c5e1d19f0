package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/timedim/internal/profile"
	"github.com/hrygo/timedim/server"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// cli holds the state shared by the commands of one invocation.
type cli struct {
	v      *viper.Viper
	format Format
}

func newRootCommand() *cobra.Command {
	c := &cli{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "timedim",
		Short:         "Normalize OGC and ESRI time dimensions",
		Long:          "timedim parses, validates and expands the time dimensions published by OGC WMS and ESRI ArcGIS services.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.readConfig(); err != nil {
				return err
			}
			format, err := ParseFormat(c.v.GetString("output"))
			if err != nil {
				return err
			}
			c.format = format
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (yaml or toml)")
	flags.String("mode", "dev", `mode of server, can be "prod" or "dev"`)
	flags.Bool("reverse-timezone", false, "flip the sign of offsets applied to dates without Z")
	flags.Int("max-steps", 100_000, "maximum number of values an absolute interval may expand to")
	flags.StringP("output", "o", "json", "output format: json, yaml or toml")
	for _, name := range []string{"config", "mode", "reverse-timezone", "max-steps", "output"} {
		if err := c.v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(
		c.newParseCommand(),
		c.newOGCCommand(),
		c.newESRICommand(),
		c.newCapabilitiesCommand(),
		c.newDateCommand(),
		c.newServeCommand(),
	)
	return rootCmd
}

// readConfig loads the --config file into viper, if one is given.
func (c *cli) readConfig() error {
	file := c.v.GetString("config")
	if file == "" {
		return nil
	}
	c.v.SetConfigFile(file)
	if err := c.v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", file)
	}
	return nil
}

// loadProfile resolves the profile: defaults, then TIMEDIM_* environment
// variables, then the config file, then explicit flags. The config file is
// read by the root command before any subcommand runs.
func (c *cli) loadProfile() (*profile.Profile, error) {
	p := profile.Default()
	p.FromEnv()
	p.Version = version

	if c.v.IsSet("mode") {
		p.Mode = c.v.GetString("mode")
	}
	if c.v.IsSet("addr") {
		p.Addr = c.v.GetString("addr")
	}
	if c.v.IsSet("port") {
		p.Port = c.v.GetInt("port")
	}
	if c.v.IsSet("reverse-timezone") {
		p.ReverseTimeZone = c.v.GetBool("reverse-timezone")
	}
	if c.v.IsSet("max-steps") {
		p.MaxSteps = c.v.GetInt("max-steps")
	}
	if c.v.IsSet("cache-max-items") {
		p.CacheMaxItems = c.v.GetInt("cache-max-items")
	}
	if c.v.IsSet("cache-ttl") {
		p.CacheTTL = c.v.GetDuration("cache-ttl")
	}
	if c.v.IsSet("cache-path") {
		p.CachePath = c.v.GetString("cache-path")
	}
	if c.v.IsSet("rate-limit") {
		p.RateLimit = c.v.GetFloat64("rate-limit")
	}
	if c.v.IsSet("rate-burst") {
		p.RateBurst = c.v.GetInt("rate-burst")
	}
	if c.v.IsSet("otlp-endpoint") {
		p.TraceEndpoint = c.v.GetString("otlp-endpoint")
	}

	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	level := slog.LevelInfo
	if p.IsDev() {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return p, nil
}

func (c *cli) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := c.loadProfile()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := server.NewServer(ctx, p)
			if err != nil {
				return errors.Wrap(err, "failed to create server")
			}
			if err := s.Start(ctx); err != nil {
				return errors.Wrap(err, "failed to start server")
			}
			printGreetings(cmd, p)

			<-ctx.Done()
			s.Shutdown(context.Background())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("addr", "", "address of server")
	flags.Int("port", 8081, "port of server")
	flags.Int("cache-max-items", 1000, "maximum number of cached dimensions")
	flags.Duration("cache-ttl", 30*time.Minute, "lifetime of cached dimensions")
	flags.String("cache-path", "", "directory of the persistent dimension cache (disabled when empty)")
	flags.Float64("rate-limit", 20, "requests per second per client")
	flags.Int("rate-burst", 40, "request burst per client")
	flags.String("otlp-endpoint", "", "OTLP/HTTP collector URL for traces (disabled when empty)")
	for _, name := range []string{"addr", "port", "cache-max-items", "cache-ttl", "cache-path", "rate-limit", "rate-burst", "otlp-endpoint"} {
		if err := c.v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
	return cmd
}

func printGreetings(cmd *cobra.Command, p *profile.Profile) {
	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "timedim %s started successfully!\n", p.Version)
	fmt.Fprintf(out, "Mode: %s\n", p.Mode)
	fmt.Fprintf(out, "Server running on port %d\n", p.Port)
	if p.CachePath != "" {
		fmt.Fprintf(out, "Persistent cache: %s\n", p.CachePath)
	}
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
