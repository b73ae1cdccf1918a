package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/contactbook/contactbook/internal/config"
	"github.com/contactbook/contactbook/internal/infra"
	"github.com/contactbook/contactbook/internal/logging"
	"github.com/contactbook/contactbook/internal/routes"
	"github.com/contactbook/contactbook/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	deps := routes.Deps{Cfg: cfg, Logger: logger}

	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := infra.Migrate(ctx, db); err != nil {
			logger.Error("migrate postgres", "error", err)
			os.Exit(1)
		}
		deps.DB = db
	case config.StoreMongo:
		client, err := infra.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			logger.Error("connect mongo", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn("disconnect mongo", "error", err)
			}
		}()
		deps.Mongo = client.Database(cfg.MongoDatabase)
	}

	cache, err := infra.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if cache != nil {
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
		deps.Cache = cache
	}

	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		deps.Registry = reg
	}

	srv, err := server.New(deps)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Address(), "env", cfg.AppEnv)
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}
