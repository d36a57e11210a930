package main

import (
	"context"

	"github.com/urfave/cli/v3"

	pagination "github.com/srbhr/Resume-Matcher-sub001"
	"github.com/srbhr/Resume-Matcher-sub001/dimension"
	"github.com/srbhr/Resume-Matcher-sub001/internal/logging"
	"github.com/srbhr/Resume-Matcher-sub001/types"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML configuration file",
			Sources: cli.EnvVars("PAGEBREAK_CONFIG"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "debug, info, warn or error",
			Sources: cli.EnvVars("PAGEBREAK_LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:  "page-size",
			Usage: "A4 or LETTER (overrides the config file)",
		},
		&cli.IntFlag{
			Name:  "margin",
			Usage: "margin in mm applied to all four sides, 5 to 25",
		},
		&cli.BoolFlag{
			Name:  "clamp-margins",
			Usage: "clamp out-of-range margins to 5..25mm instead of failing",
		},
		&cli.StringFlag{
			Name:  "strategy",
			Usage: "avoid-split or fixed",
		},
		&cli.FloatFlag{
			Name:  "fill-threshold",
			Usage: "page fill fraction required before a break moves up to keep a block whole",
		},
		&cli.FloatFlag{
			Name:  "min-progress",
			Usage: "minimum advance in px of a moved break",
		},
		&cli.StringFlag{
			Name:  "tie-break",
			Usage: "first or nearest",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "print layouts as JSON",
		},
	}
}

// loadConfig builds the controller configuration from --config and the
// override flags.
func loadConfig(cmd *cli.Command) (*pagination.Config, error) {
	cfg := pagination.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		loaded, err := pagination.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	if cmd.IsSet("page-size") {
		cfg.PageSize = cmd.String("page-size")
	}
	if cmd.IsSet("margin") {
		mm := cmd.Int("margin")
		cfg.Margins = pagination.MarginsConfig{Top: mm, Bottom: mm, Left: mm, Right: mm}
	}
	if cmd.IsSet("strategy") {
		cfg.Breaks.Strategy = cmd.String("strategy")
	}
	if cmd.IsSet("fill-threshold") {
		cfg.Breaks.FillThreshold = cmd.Float("fill-threshold")
	}
	if cmd.IsSet("min-progress") {
		cfg.Breaks.MinProgressPx = pagination.Px(cmd.Float("min-progress"))
	}
	if cmd.IsSet("tie-break") {
		cfg.Breaks.TieBreak = cmd.String("tie-break")
	}

	if cmd.Bool("clamp-margins") {
		clampMargins(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func clampMargins(cfg *pagination.Config) {
	pagination.SetDefaults(cfg)
	m := dimension.ClampMargins(types.Margins{
		Top:    float64(cfg.Margins.Top),
		Bottom: float64(cfg.Margins.Bottom),
		Left:   float64(cfg.Margins.Left),
		Right:  float64(cfg.Margins.Right),
	})
	cfg.Margins = pagination.MarginsConfig{
		Top:    int(m.Top),
		Bottom: int(m.Bottom),
		Left:   int(m.Left),
		Right:  int(m.Right),
	}
}

// startContext bounds Start by one readiness wait plus one measurement.
// An unbounded readiness wait leaves Start unbounded too.
func startContext(ctx context.Context, cfg *pagination.Config) (context.Context, context.CancelFunc) {
	if cfg.ReadinessTimeout < 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, cfg.ReadinessTimeout+cfg.OperationTimeout)
}

func newLogger(cmd *cli.Command) (types.Logger, error) {
	return logging.NewSlogText(cmd.Root().ErrWriter, cmd.String("log-level"))
}
