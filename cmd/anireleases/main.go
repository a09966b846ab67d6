package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hisame/anireleases/internal/anilist"
	"github.com/hisame/anireleases/internal/api"
	"github.com/hisame/anireleases/internal/catalog"
	"github.com/hisame/anireleases/internal/config"
	"github.com/hisame/anireleases/internal/imagecache"
	"github.com/hisame/anireleases/internal/metrics"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))
	slog.SetDefault(logger)

	slog.Info("Starting anireleases", "config", *configPath)

	// Metrics registry
	registry := prometheus.NewRegistry()
	appMetrics := metrics.New(registry)

	// AniList client
	client := anilist.NewClient(anilist.Options{
		Endpoint:  cfg.AniList.Endpoint,
		Timeout:   time.Duration(cfg.AniList.TimeoutSeconds) * time.Second,
		PerPage:   cfg.AniList.PerPage,
		UserAgent: cfg.AniList.UserAgent,
	})
	slog.Info("AniList client initialized", "endpoint", cfg.AniList.Endpoint)

	// Catalog and image cache
	releases := catalog.NewService(client, appMetrics)
	images := imagecache.New(0, appMetrics)

	// API server
	apiServer := api.NewServer(releases, images)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: apiServer.Handler(),
	}

	go func() {
		slog.Info("Starting HTTP server", "port", cfg.Server.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	var metricsServer *metrics.Server
	if cfg.Server.MetricsPort > 0 {
		metricsServer = metrics.NewServer(cfg.Server.MetricsPort, registry)
		go func() {
			if err := metricsServer.Start(); err != nil {
				slog.Error("Metrics server error", "error", err)
			}
		}()
	}

	slog.Info("anireleases is ready",
		"ui_url", fmt.Sprintf("http://localhost:%d/", cfg.Server.HTTPPort),
		"api_url", fmt.Sprintf("http://localhost:%d/api", cfg.Server.HTTPPort),
	)

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	slog.Info("Received signal, shutting down", "signal", sig)

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			slog.Error("Metrics server shutdown error", "error", err)
		}
	}

	slog.Info("anireleases stopped")
}
