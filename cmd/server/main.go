package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wordhunt/internal/app"
	"wordhunt/internal/config"
	"wordhunt/internal/similarity"
	"wordhunt/internal/store"
	"wordhunt/internal/themes"
	httpTransport "wordhunt/internal/transport/http"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set up logger
	var logger *slog.Logger
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	}

	slog.SetDefault(logger)

	logger.Info("starting wordhunt game server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	// Theme catalog
	catalog, err := themes.LoadDir(cfg.Game.ThemesDir)
	if err != nil {
		logger.Error("failed to load theme catalog", "error", err)
		os.Exit(1)
	}

	// Embedding provider with cache
	client := similarity.NewClient(similarity.ClientConfig{
		BaseURL:   cfg.Embedding.BaseURL,
		APIKey:    cfg.Embedding.APIKey,
		Model:     cfg.Embedding.Model,
		Dimension: cfg.Embedding.Dimension,
		Timeout:   cfg.Embedding.Timeout,
	})
	embedder, err := similarity.NewCachedEmbedder(client, similarity.CacheConfig{
		TTL: cfg.Embedding.CacheTTL,
	})
	if err != nil {
		logger.Error("failed to create embedding cache", "error", err)
		os.Exit(1)
	}
	defer embedder.Close()

	// Session store
	sessions := store.NewMemory(logger)
	defer sessions.Close()

	// Game service
	service, err := app.NewService(sessions, embedder, catalog, cfg.Game, logger)
	if err != nil {
		logger.Error("failed to create game service", "error", err)
		os.Exit(1)
	}

	// Create HTTP server
	server := httpTransport.NewServer(cfg, service, logger)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
