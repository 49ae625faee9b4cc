package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vmkit-dev/vmkit/internal/config"
	"github.com/vmkit-dev/vmkit/pkg/devtools"
	"github.com/vmkit-dev/vmkit/pkg/reactive"
	"github.com/vmkit-dev/vmkit/pkg/snapshot"
	"github.com/vmkit-dev/vmkit/pkg/viewmodel"
)

func serveCmd() *cobra.Command {
	var (
		addr string
		dir  string
		demo bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the view model inspector",
		Long: `Run the inspector server for a vmkit application.

The inspector exposes the live view model tree at /api/tree, streams
lifecycle events over /ws, and serves Prometheus metrics at /metrics.
Configuration is read from vmkit.json in the working directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Inspector.Addr = addr
			}
			return runServe(cmd.Context(), cfg, demo)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides vmkit.json)")
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory containing vmkit.json")
	cmd.Flags().BoolVar(&demo, "demo", false, "Run a demo view model that generates activity")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, demo bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("app", cfg.Name)

	registry := prometheus.NewRegistry()
	hub := devtools.NewHub(logger)
	metrics := devtools.NewMetrics(registry)
	observer := viewmodel.Observers(hub, metrics)

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if demo {
		stopDemo, err := startDemo(logger, observer, store)
		if err != nil {
			return err
		}
		defer stopDemo()
	}

	srv := devtools.NewServer(devtools.ServerConfig{
		Addr:     cfg.Inspector.Addr,
		Hub:      hub,
		Logger:   logger,
		Registry: registry,
	})
	return srv.Start(ctx)
}

// openStore builds the snapshot store named by the config.
func openStore(cfg *config.Config) (snapshot.Store, error) {
	switch cfg.Snapshot.Backend {
	case "memory":
		return snapshot.NewMemoryStore(), nil
	case "disk":
		return snapshot.NewDiskStore(cfg.Snapshot.Dir)
	case "s3":
		return nil, fmt.Errorf("the s3 backend needs an AWS client; construct snapshot.NewS3Store in your application instead")
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Snapshot.Backend)
	}
}

// startDemo runs a counter view model that ticks once a second so the
// inspector has something to show. It returns a function that disposes
// the view model and saves its final state.
func startDemo(logger *slog.Logger, observer viewmodel.Observer, store snapshot.Store) (func(), error) {
	vm := viewmodel.New(
		viewmodel.WithName("demo"),
		viewmodel.WithObserver(observer),
	)

	count := reactive.NewSignal(0)
	parity, err := viewmodel.Computed(vm, func() string {
		if count.Get()%2 == 0 {
			return "even"
		}
		return "odd"
	})
	if err != nil {
		return nil, err
	}

	if _, err := viewmodel.SubscribeTo(vm, count, func(n int) {
		logger.Info("demo tick", "count", n, "parity", parity.Get())
	}); err != nil {
		return nil, err
	}

	ticker := time.NewTicker(time.Second)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				count.Update(func(n int) int { return n + 1 })
			case <-done:
				return
			}
		}
	}()

	stop := func() {
		ticker.Stop()
		close(done)

		state := snapshot.State{"count": count.Peek()}
		saveCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := store.Save(saveCtx, "demo", state); err != nil {
			logger.Warn("demo snapshot failed", "err", err)
		}

		if err := vm.Dispose(); err != nil {
			logger.Warn("demo dispose failed", "err", err)
		}
	}
	return stop, nil
}
