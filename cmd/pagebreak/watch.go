package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"

	pagination "github.com/srbhr/Resume-Matcher-sub001"
	"github.com/srbhr/Resume-Matcher-sub001/internal/kvutil"
	"github.com/srbhr/Resume-Matcher-sub001/internal/metrics"
	"github.com/srbhr/Resume-Matcher-sub001/internal/natsutil"
	"github.com/srbhr/Resume-Matcher-sub001/notify"
	"github.com/srbhr/Resume-Matcher-sub001/publish"
	"github.com/srbhr/Resume-Matcher-sub001/source"
	"github.com/srbhr/Resume-Matcher-sub001/types"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Repaginate whenever new geometry arrives over NATS and store layouts in JetStream KV",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "nats-url",
				Value:   nats.DefaultURL,
				Usage:   "NATS server URL",
				Sources: cli.EnvVars("NATS_URL"),
			},
			&cli.BoolFlag{
				Name:  "embedded-nats",
				Usage: "run an in-process NATS server instead of connecting to --nats-url",
			},
			&cli.StringFlag{
				Name:  "store-dir",
				Usage: "JetStream storage for --embedded-nats (default: a temporary directory)",
			},
			&cli.StringFlag{
				Name:  "subject",
				Value: "pagebreak.geometry",
				Usage: "subject carrying geometry documents (YAML or JSON)",
			},
			&cli.StringFlag{
				Name:  "bucket",
				Value: "pagebreak-layouts",
				Usage: "JetStream KV bucket for published layouts",
			},
			&cli.StringFlag{
				Name:  "key",
				Value: publish.DefaultKey,
				Usage: "document key layouts are stored under",
			},
			&cli.StringFlag{
				Name:  "geometry",
				Usage: "initial geometry YAML file (default: empty content)",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Value: ":9090",
				Usage: "address serving /metrics; empty disables it",
			},
		},
		Action: runWatch,
	}
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	nc, shutdownNATS, err := connectNATS(cmd, logger)
	if err != nil {
		return err
	}
	defer shutdownNATS()

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	setupCtx, cancel := context.WithTimeout(ctx, cfg.OperationTimeout)
	defer cancel()

	kv, err := kvutil.EnsureKVBucketWithRetry(setupCtx, js, kvutil.LayoutBucketConfig(cmd.String("bucket")), 3)
	if err != nil {
		return err
	}

	sink, err := publish.NewKV(kv, publish.WithKey(cmd.String("key")), publish.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := sink.DiscoverHighestVersion(setupCtx); err != nil {
		return err
	}

	provider := source.NewStatic(0, nil)
	if path := cmd.String("geometry"); path != "" {
		geometry, err := source.LoadGeometry(path)
		if err != nil {
			return err
		}
		provider = source.NewStaticFromGeometry(geometry)
	}

	notifier, err := notify.NewNATS(nc, cmd.String("subject"), notify.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() { _ = notifier.Close() }()

	notifier.OnMessage(func(data []byte) {
		geometry, err := source.ParseGeometry(data)
		if err != nil {
			logger.Warn("ignoring malformed geometry", "subject", notifier.Subject(), "error", err)
			return
		}
		provider.Update(geometry.ContentHeight, geometry.Blocks)
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ctrl, err := pagination.NewController(cfg, provider,
		pagination.WithLogger(logger),
		pagination.WithMetrics(metrics.NewPrometheus(registry, "pagebreak")),
		pagination.WithLayoutSink(sink),
		pagination.WithHooks(&pagination.Hooks{
			OnError: func(_ context.Context, err error) error {
				logger.Warn("pagination error", "error", err)
				return nil
			},
		}),
	)
	if err != nil {
		return err
	}

	if addr := cmd.String("metrics-addr"); addr != "" {
		srv := serveMetrics(addr, registry, ctrl, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	startCtx, startCancel := startContext(ctx, cfg)
	defer startCancel()

	if err := ctrl.Start(startCtx); err != nil {
		return err
	}

	logger.Info("watching for geometry",
		"subject", notifier.Subject(),
		"bucket", cmd.String("bucket"),
		"key", sink.Key(),
	)

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer stopCancel()

	return ctrl.Stop(stopCtx)
}

// connectNATS connects to --nats-url, or to an embedded server when
// --embedded-nats is set. The returned function closes everything it opened.
func connectNATS(cmd *cli.Command, logger types.Logger) (*nats.Conn, func(), error) {
	url := cmd.String("nats-url")
	cleanup := func() {}

	if cmd.Bool("embedded-nats") {
		storeDir := cmd.String("store-dir")
		if storeDir == "" {
			dir, err := os.MkdirTemp("", "pagebreak-nats-")
			if err != nil {
				return nil, nil, err
			}
			storeDir = dir
		}

		ns, err := natsutil.RunEmbedded(natsutil.EmbeddedOptions{Port: -1, StoreDir: storeDir})
		if err != nil {
			return nil, nil, err
		}
		url = ns.ClientURL()
		logger.Info("embedded NATS server started", "url", url, "store_dir", storeDir)

		cleanup = func() {
			ns.Shutdown()
			ns.WaitForShutdown()
		}
	}

	nc, err := nats.Connect(url,
		nats.Name("pagebreak"),
		nats.Timeout(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	return nc, func() {
		nc.Close()
		cleanup()
	}, nil
}

func serveMetrics(addr string, registry *prometheus.Registry, ctrl *pagination.Controller, logger types.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok pages=%d calculating=%t\n", ctrl.Layout().PageCount(), ctrl.IsCalculating())
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()

	logger.Info("serving metrics", "addr", addr)

	return srv
}
