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

	"schoolboard/internal/config"
	"schoolboard/internal/logger"
	"schoolboard/internal/metrics"
	"schoolboard/internal/server"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// janitorInterval is how often idle session state is swept
const janitorInterval = time.Minute

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("School Board %s\n", formatVersionInfo())
		return
	}

	// Initialize logger first
	env := os.Getenv("APP_ENV")
	switch env {
	case "local", "development":
		logger.Init("development") // Debug Level
	case "production":
		logger.Init("production") // Info Level
	default:
		logger.Init("development") // Fallback to Debug Level
	}

	log.Info().
		Str("environment", env).
		Str("log_level", zerolog.GlobalLevel().String()).
		Str("version", version).
		Str("commit", commit).
		Str("built", date).
		Msg("Starting School Board")

	// Create a base context for the application
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading configuration")
	}

	// Update logger with correct environment
	logger.Init(cfg.Env)
	cfg.Log()

	srv, err := server.NewServer(cfg, metrics.New())
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating server")
	}

	janitors := srv.StartJanitors(ctx, janitorInterval)

	httpServer, err := srv.Start()
	if err != nil {
		log.Fatal().Err(err).Msg("Error starting server")
	}

	// Set up graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-shutdown
		log.Info().Msg("Shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		// Disable keep-alives for new connections
		httpServer.SetKeepAlivesEnabled(false)

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("HTTP server shutdown error")
		}

		for _, j := range janitors {
			j.Stop()
		}

		// Cancel the main context
		cancel()
	}()

	log.Info().
		Str("url", cfg.BaseURL).
		Str("api", cfg.APIBaseURL).
		Msg("Server is ready to handle requests")

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("HTTP server error")
		cancel()
	}

	// Wait for context cancellation (shutdown complete)
	<-ctx.Done()
	log.Info().Msg("Server shutdown completed")
}

func formatVersionInfo() string {
	return fmt.Sprintf(`Version: %s
Commit: %s
Built: %s`, version, commit, date)
}
