// Command timetabled is the timetable server daemon. It serves the task and
// inventory REST API, change events, and schedule suggestions.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GoCodeAlone/timetable/comms"
	"github.com/GoCodeAlone/timetable/config"
	"github.com/GoCodeAlone/timetable/internal/logging"
	"github.com/GoCodeAlone/timetable/internal/version"
	"github.com/GoCodeAlone/timetable/inventory"
	"github.com/GoCodeAlone/timetable/provider/registry"
	"github.com/GoCodeAlone/timetable/server"
	"github.com/GoCodeAlone/timetable/suggest"
	"github.com/GoCodeAlone/timetable/task"
)

var configPath = flag.String("config", "timetable.yaml", "path to config file")

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "timetabled: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, false)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("starting timetabled",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("data_dir", cfg.DataDir))

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tasks, err := task.NewSQLiteStore(cfg.TasksDB())
	if err != nil {
		return fmt.Errorf("open task store: %w", err)
	}
	defer tasks.Close() //nolint:errcheck
	tasks.SetLogger(logger.Named("tasks"))

	items, err := inventory.NewSQLiteStore(cfg.InventoryDB())
	if err != nil {
		return fmt.Errorf("open inventory store: %w", err)
	}
	defer items.Close() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := server.New(*cfg, version.Version, logger)
	srv.SetTaskStore(tasks)
	srv.SetInventoryStore(items)
	srv.SetBus(comms.NewInMemoryBus())

	p, err := registry.New(ctx, cfg.Suggest.ProviderConfig())
	switch {
	case err != nil:
		logger.Warn("suggestions disabled", zap.String("provider", cfg.Suggest.Provider), zap.Error(err))
	case p == nil:
		logger.Info("suggestions disabled: no provider configured")
	default:
		logger.Info("suggestions enabled", zap.String("provider", p.Name()))
		srv.SetSuggester(suggest.NewService(p, logger.Named("suggest")))
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("server stop error", zap.Error(err))
	}
	logger.Info("shutdown complete")
	return nil
}
