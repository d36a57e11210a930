package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	pagination "github.com/srbhr/Resume-Matcher-sub001"
	"github.com/srbhr/Resume-Matcher-sub001/source"
	"github.com/srbhr/Resume-Matcher-sub001/types"
)

func computeCommand() *cli.Command {
	return &cli.Command{
		Name:  "compute",
		Usage: "Paginate precomputed content geometry from a YAML file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "geometry",
				Aliases:  []string{"g"},
				Usage:    "YAML file with contentHeight and blocks",
				Required: true,
			},
		},
		Action: runCompute,
	}
}

func runCompute(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	geometry, err := source.LoadGeometry(cmd.String("geometry"))
	if err != nil {
		return err
	}

	layout, err := paginateOnce(ctx, cfg, source.NewStaticFromGeometry(geometry), logger)
	if err != nil {
		return err
	}

	return printLayout(cmd.Root().Writer, layout, cmd.Bool("json"))
}

// paginateOnce runs a controller just long enough to produce the initial
// layout. A measurement failure surfaces as an error here rather than as an
// empty layout.
func paginateOnce(ctx context.Context, cfg *pagination.Config, provider types.MeasurementProvider, logger types.Logger) (types.Layout, error) {
	var measureErr error
	hooks := &pagination.Hooks{
		OnError: func(_ context.Context, err error) error {
			if errors.Is(err, pagination.ErrMeasurementUnavailable) {
				measureErr = err
			}
			return nil
		},
	}

	ctrl, err := pagination.NewController(cfg, provider,
		pagination.WithLogger(logger),
		pagination.WithHooks(hooks),
	)
	if err != nil {
		return types.Layout{}, err
	}

	startCtx, cancel := startContext(ctx, cfg)
	defer cancel()

	if err := ctrl.Start(startCtx); err != nil {
		return types.Layout{}, fmt.Errorf("failed to compute layout: %w", err)
	}
	layout := ctrl.Layout()

	stopCtx, stopCancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer stopCancel()

	// Stop waits for hooks, so measureErr is settled afterwards.
	if err := ctrl.Stop(stopCtx); err != nil {
		return types.Layout{}, err
	}
	if measureErr != nil {
		return types.Layout{}, measureErr
	}

	return layout, nil
}
