package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"svc-forge/internal/config"
	"svc-forge/internal/handler"
	"svc-forge/internal/router"
	"svc-forge/internal/session"
	"svc-forge/internal/upload"
	"svc-forge/internal/upstream"
	"svc-forge/internal/validation"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present; the environment wins either way
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting svc-forge gateway")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize upload staging with S3 and local fallback
	var uploads upload.Store
	if cfg.Uploads.S3Enabled {
		s3Store, err := upload.NewS3Store(ctx, cfg.Uploads.Bucket, cfg.Uploads.Region, cfg.Uploads.Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 upload store, falling back to local directory")
			uploads, err = upload.NewLocalStore(cfg.Uploads.LocalDir, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize upload store: %w", err)
			}
		} else {
			uploads = s3Store
		}
	} else {
		uploads, err = upload.NewLocalStore(cfg.Uploads.LocalDir, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize upload store: %w", err)
		}
		logger.Info().Str("dir", cfg.Uploads.LocalDir).Msg("using local directory for staged uploads (S3 disabled)")
	}

	// Initialize contact validator and the marketplace client
	validate := validation.New()
	client := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout(), validation.DefaultKeyMap(), logger)

	// Initialize session manager
	manager := session.NewManager(client, uploads, validate, cfg.Session.TTL(), cfg.Session.SweepInterval(), logger)
	defer manager.Close()

	// Initialize HTTP handlers
	sessionHandler := handler.NewSessionHandler(manager, logger)
	builderHandler := handler.NewBuilderHandler(manager, logger)
	checkoutHandler := handler.NewCheckoutHandler(manager, logger)

	// Initialize router
	mux := router.New(sessionHandler, builderHandler, checkoutHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
