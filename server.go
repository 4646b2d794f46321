package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/insighthub/insighthub/api"
	"github.com/insighthub/insighthub/config"
	"github.com/insighthub/insighthub/datastore"
	"github.com/insighthub/insighthub/ingestion"
	"github.com/insighthub/insighthub/logging"
	rh "github.com/insighthub/insighthub/route-handlers"
	"github.com/insighthub/insighthub/storage"
	"github.com/insighthub/insighthub/webhooks"
)

const storeInitTimeout = 10 * time.Second

// app holds what both subcommands need: settings, logger and an opened store.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *datastore.Store
	cleanup func()
}

func setup() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)

	backend, closeBackend, err := openBackend(cfg.Storage, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  datastore.NewStore(backend, logger),
		cleanup: func() {
			closeBackend()
			_ = logger.Sync()
		},
	}, nil
}

func openBackend(cfg config.StorageConfig, logger *zap.Logger) (storage.DocumentStore, func(), error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), storeInitTimeout)
		defer cancel()
		pg, err := storage.OpenPostgres(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("database setup failed: %w", err)
		}
		return pg, func() { _ = pg.Close() }, nil
	case config.BackendMemory:
		logger.Warn("Using in-memory storage; data is lost on exit")
		return storage.NewMemoryStore(), func() {}, nil
	default:
		return storage.NewFileStore(cfg.Path, logger), func() {}, nil
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), storeInitTimeout)
	defer cancel()
	if err := a.store.Init(ctx); err != nil {
		if errors.Is(err, storage.ErrCorruptData) {
			a.logger.Error("Stored data is corrupt; run `insighthub reset` or fix the file", zap.Error(err))
		}
		return fmt.Errorf("store init failed: %w", err)
	}

	router := buildRouter(a)
	return startServer(a.cfg.Server, router, a.logger)
}

func runReset(cmd *cobra.Command, _ []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.cleanup()

	if err := a.store.ResetAll(cmd.Context()); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	a.logger.Info("Tasks and stats cleared", zap.String("backend", a.store.BackendName()))
	return nil
}

func buildRouter(a *app) http.Handler {
	var hasher datastore.PasswordHasher = datastore.PlainPasswords{}
	if a.cfg.Auth.HashPasswords {
		hasher = datastore.BcryptPasswords{Cost: a.cfg.Auth.BcryptCost}
	}

	taskRepo := datastore.NewTaskRepository(a.store)
	statsRepo := datastore.NewStatsRepository(a.store)
	userRepo := datastore.NewUserRepository(a.store, hasher)

	processor := ingestion.NewContentProcessor(a.logger.Named("ingestion"))

	handlers := api.Handlers{
		Tasks:        rh.NewTaskHandler(taskRepo, statsRepo, processor, a.logger),
		Stats:        rh.NewStatsHandler(statsRepo, a.logger),
		Insight:      rh.NewInsightHandler(processor, statsRepo),
		Auth:         rh.NewAuthHandler(userRepo, a.logger),
		Health:       rh.NewHealthHandler(a.store, a.logger),
		InboundEmail: webhooks.NewInboundEmailHandler(processor, userRepo, taskRepo, statsRepo, a.logger.Named("webhooks")),
	}

	return api.SetupRoutes(handlers, api.Options{
		RequestTimeout: a.cfg.Server.RequestTimeout,
		CORSOrigins:    a.cfg.Server.CORSOrigins,
		StaticDir:      a.cfg.Server.StaticDir,
		MetricsEnabled: a.cfg.Metrics.Enabled,
		MetricsPath:    a.cfg.Metrics.Path,
	}, a.logger.Named("http"))
}

func startServer(cfg config.ServerConfig, router http.Handler, logger *zap.Logger) error {
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdownSignal)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.Int("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-shutdownSignal:
	}
	logger.Info("Shutdown signal received, initiating graceful shutdown")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("Server gracefully stopped")
	return nil
}
