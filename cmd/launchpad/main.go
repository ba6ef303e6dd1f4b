// Package main is the entry point for the launchpad dispatch server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"launchpad/config"
	"launchpad/internal/credentials"
	"launchpad/internal/dispatch"
	"launchpad/internal/drafts"
	"launchpad/internal/logging"
	"launchpad/internal/observability"
	"launchpad/internal/providers"
	"launchpad/internal/providers/deepseek"
	"launchpad/internal/providers/groq"
	"launchpad/internal/providers/openrouter"
	"launchpad/internal/server"
	"launchpad/internal/version"
)

func main() {
	versionFlag := flag.Bool("version", false, "Print version information")
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Format, cfg.Logging.Level)

	slog.Info("starting launchpad",
		"version", version.Version,
		"commit", version.Commit,
		"build_date", version.Date,
	)

	store, err := credentials.LoadFileStore(cfg.Secrets.Path)
	if err != nil {
		slog.Error("failed to load secrets store", "path", cfg.Secrets.Path, "error", err)
		os.Exit(1)
	}
	if store.Len() > 0 {
		slog.Info("secrets store loaded", "path", cfg.Secrets.Path, "entries", store.Len())
	}
	resolver := credentials.NewResolver(store)

	factory := providers.NewFactory()
	factory.Register(groq.Registration)
	factory.Register(deepseek.Registration)
	factory.Register(openrouter.Registration)

	if cfg.Metrics.Enabled {
		metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
		factory.SetHooks(metrics.Hooks())
		slog.Info("prometheus metrics enabled", "endpoint", cfg.Metrics.Endpoint)
	}

	dispatcher := dispatch.New(factory, resolver, dispatch.Config{
		Engines:       cfg.Dispatch.Engines,
		DefaultEngine: cfg.Dispatch.DefaultEngine,
		Models:        cfg.Dispatch.Models,
		BaseURLs:      cfg.Dispatch.BaseURLs,
		Timeout:       cfg.Dispatch.Timeout,
	})
	draftSvc := drafts.NewService(dispatcher)

	srv := server.New(dispatcher, draftSvc, &server.Config{
		MetricsEnabled:  cfg.Metrics.Enabled,
		MetricsEndpoint: cfg.Metrics.Endpoint,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	addr := cfg.Address()
	slog.Info("starting server", "address", addr, "providers", factory.Registered())

	if err := srv.Start(addr); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			slog.Info("server stopped gracefully")
		} else {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}
}
