package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/contactsheet/formatter/internal/config"
	"github.com/contactsheet/formatter/internal/core"
	"github.com/contactsheet/formatter/internal/enhance"
	"github.com/contactsheet/formatter/internal/logging"
	"github.com/contactsheet/formatter/internal/mapping"
	"github.com/contactsheet/formatter/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"default_profile", cfg.Import.DefaultProfile,
		"import_max_concurrent", cfg.Import.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Wire the optional LLM cleanup. An empty API key (or a disabled
	// flag) yields a client that reports Enabled false; imports then run
	// without the cleanup phase.
	var enhancer core.Enhancer
	if cfg.Enhance.Enabled {
		client := enhance.NewClient(enhance.Options{
			APIKey:      cfg.Enhance.APIKey,
			BaseURL:     cfg.Enhance.BaseURL,
			Model:       cfg.Enhance.Model,
			Temperature: cfg.Enhance.Temperature,
			MaxTokens:   cfg.Enhance.MaxTokens,
			Timeout:     cfg.Enhance.Timeout,
		})
		enhancer = client
		slog.Info("enhancement configured",
			"model", cfg.Enhance.Model,
			"available", client.Enabled(),
		)
	} else {
		slog.Info("enhancement disabled")
	}

	// Create service with config
	service := core.NewService(enhancer,
		core.WithImportTimeout(cfg.Import.Timeout),
		core.WithDefaultProfile(cfg.Import.DefaultProfile),
		core.WithConcurrencyLimit(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime),
	)

	slog.Info("mapping profiles registered", "profiles", mapping.Keys())

	// Create server with config
	server := web.NewServer(service, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for active imports to complete (with timeout)
		status := service.LimiterStatus()
		if status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
			if err := service.Drain(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
