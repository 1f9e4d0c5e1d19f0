package main

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hrygo/timedim/internal/profile"
	"github.com/hrygo/timedim/plugin/temporal/datetime"
	"github.com/hrygo/timedim/plugin/temporal/dimension"
	terrors "github.com/hrygo/timedim/plugin/temporal/errors"
	"github.com/hrygo/timedim/plugin/temporal/format"
	"github.com/hrygo/timedim/plugin/temporal/timerange"
	"github.com/hrygo/timedim/server/timezone"
)

// layerOutput is one layer of the capabilities command output.
type layerOutput struct {
	Layer     string                   `json:"layer" yaml:"layer" toml:"layer"`
	Title     string                   `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Dimension *dimension.TimeDimension `json:"dimension,omitempty" yaml:"dimension,omitempty" toml:"dimension,omitempty"`
	Error     string                   `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
	Code      string                   `json:"code,omitempty" yaml:"code,omitempty" toml:"code,omitempty"`
}

type capabilitiesOutput struct {
	Layers []layerOutput `json:"layers" yaml:"layers" toml:"layers"`
}

// dateOutput describes one date in every supported representation.
type dateOutput struct {
	Input        string                 `json:"input" yaml:"input" toml:"input"`
	Valid        bool                   `json:"valid" yaml:"valid" toml:"valid"`
	UTC          string                 `json:"utc,omitempty" yaml:"utc,omitempty" toml:"utc,omitempty"`
	Local        string                 `json:"local,omitempty" yaml:"local,omitempty" toml:"local,omitempty"`
	Milliseconds int64                  `json:"milliseconds,omitempty" yaml:"milliseconds,omitempty" toml:"milliseconds,omitempty"`
	Format       string                 `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"`
	Order        *format.FragmentsOrder `json:"order,omitempty" yaml:"order,omitempty" toml:"order,omitempty"`
}

func newParser(p *profile.Profile) *timerange.Parser {
	return timerange.NewParser(
		timerange.WithReverseTimeZone(p.ReverseTimeZone),
		timerange.WithMaxSteps(p.MaxSteps),
	)
}

func (c *cli) newParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <values>",
		Short: "Classify and expand a dimension values string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadProfile()
			if err != nil {
				return err
			}
			items, err := newParser(p).Parse(args[0])
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), c.format, items)
		},
	}
}

func (c *cli) newOGCCommand() *cobra.Command {
	var (
		name       string
		def        string
		nearest    string
		unitSymbol string
	)
	cmd := &cobra.Command{
		Use:   "ogc <values>",
		Short: "Build a time dimension from an OGC Dimension",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadProfile()
			if err != nil {
				return err
			}
			d := dimension.OGCDimension{Name: name, Default: def, UnitSymbol: unitSymbol, Values: args[0]}
			if nearest != "" {
				if d.NearestValue, err = dimension.ParseFlag(nearest); err != nil {
					return errors.Wrapf(err, "invalid --nearest %q", nearest)
				}
			}
			dim, err := dimension.NewBuilder(newParser(p)).FromOGC(d)
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), c.format, dim)
		},
	}
	cmd.Flags().StringVar(&name, "name", "time", "dimension name")
	cmd.Flags().StringVar(&def, "default", "", "declared default value")
	cmd.Flags().StringVar(&nearest, "nearest", "", "nearestValue flag (0, 1, true or false)")
	cmd.Flags().StringVar(&unitSymbol, "unit-symbol", "", "unit symbol")
	return cmd
}

func (c *cli) newESRICommand() *cobra.Command {
	var singleHandle bool
	cmd := &cobra.Command{
		Use:   "esri <file|->",
		Short: "Build a time dimension from an ArcGIS layer JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadProfile()
			if err != nil {
				return err
			}
			r, closeFn, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeFn()

			info, err := dimension.ParseESRILayer(r)
			if err != nil {
				return err
			}
			dim, err := dimension.NewBuilder(newParser(p)).FromESRI(info, singleHandle)
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), c.format, dim)
		},
	}
	cmd.Flags().BoolVar(&singleHandle, "single-handle", false, "select a single instant instead of a range")
	return cmd
}

func (c *cli) newCapabilitiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities <file|->",
		Short: "Build the time dimensions of a WMS GetCapabilities document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadProfile()
			if err != nil {
				return err
			}
			r, closeFn, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeFn()

			layers, err := dimension.ParseCapabilities(r)
			if err != nil {
				return err
			}
			builder := dimension.NewBuilder(newParser(p))
			out := capabilitiesOutput{Layers: make([]layerOutput, 0, len(layers))}
			for _, layer := range layers {
				entry := layerOutput{Layer: layer.Layer, Title: layer.Title}
				dim, err := builder.FromOGC(layer.Dimension)
				if err != nil {
					entry.Error = err.Error()
					entry.Code = string(terrors.GetCodeFromError(err, ""))
				} else {
					entry.Dimension = &dim
				}
				out.Layers = append(out.Layers, entry)
			}
			return encode(cmd.OutOrStdout(), c.format, out)
		},
	}
}

func (c *cli) newDateCommand() *cobra.Command {
	var tz string
	cmd := &cobra.Command{
		Use:   "date <value>",
		Short: "Normalize a date and detect its format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.loadProfile(); err != nil {
				return err
			}
			loc, err := timezone.ParseTimezone(tz)
			if err != nil {
				return err
			}
			value := strings.TrimSpace(args[0])
			out := dateOutput{Input: value, UTC: datetime.TryToUTC(value)}
			out.Valid = out.UTC != ""
			if out.Valid {
				out.Local, _ = datetime.ToLocalIn(value, loc)
				out.Milliseconds, _ = datetime.ToMilliseconds(value)
			}
			if pattern, err := format.DeduceFormat(value); err == nil {
				if order, err := format.GetFragmentOrder(pattern); err == nil {
					out.Format = pattern
					out.Order = &order
				}
			}
			return encode(cmd.OutOrStdout(), c.format, out)
		},
	}
	cmd.Flags().StringVar(&tz, "tz", "", "fixed offset such as +02:00 for the local form (default: process zone)")
	return cmd
}

// openInput opens a file argument, or stdin for "-".
func openInput(cmd *cobra.Command, arg string) (io.Reader, func(), error) {
	if arg == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(arg)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open %s", arg)
	}
	return f, func() { _ = f.Close() }, nil
}
