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

	"storefront/internal/alert"
	"storefront/internal/archive"
	"storefront/internal/commerce"
	"storefront/internal/companion"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/transport"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment wins either way.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stores
	redisClient, err := database.NewRedis(ctx, cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redisClient.Close()

	if err := repository.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
		return fmt.Errorf("failed to migrate recovery ledger: %w", err)
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	checkoutStates := repository.NewCheckoutStateRepository(redisClient, cfg.Session.TTL, logger)
	cartSessions := repository.NewCartSessionRepository(redisClient, cfg.Session.TTL, logger)
	enrollments := repository.NewEnrollmentRepository(redisClient, cfg.Session.TTL, logger)
	dismissals := repository.NewDismissalRepository(redisClient, logger)
	failureRepo := repository.NewFailureRepository(pool, logger)

	// Backends
	commerceClient := commerce.NewClient(transport.New(transport.Options{
		Name:           "commerce",
		BaseURL:        cfg.Commerce.BaseURL,
		PublishableKey: cfg.Commerce.PublishableKey,
		Timeout:        cfg.Commerce.Timeout,
	}, logger), logger)

	companionClient := companion.NewClient(transport.Options{
		Name:    "companion",
		BaseURL: cfg.Companion.BaseURL,
		Timeout: cfg.Companion.Timeout,
	}, logger)

	dispatcher := alert.NewDispatcher(companionClient, alert.Config{
		Timeout:   cfg.Alert.Timeout,
		PerMinute: cfg.Alert.PerMinute,
		Burst:     cfg.Alert.Burst,
	}, logger)

	// Recovery reports go to S3 with a local fallback
	fileWriter := archive.NewFileWriter(cfg.Archive.Dir, logger)
	var s3Writer archive.Writer
	if cfg.S3.Enabled {
		s3Writer, err = archive.NewS3Writer(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 writer, falling back to local file system only")
			s3Writer = nil
		}
	} else {
		logger.Info().Msg("using local file system for recovery reports (S3 disabled)")
	}
	reports := archive.NewFallbackWriter(s3Writer, fileWriter, cfg.S3.Enabled, logger)

	// Services
	recoveryService := service.NewRecoveryService(failureRepo, logger)
	subscriptionService := service.NewSubscriptionService(
		companionClient, dispatcher, recoveryService, reports, cfg.Checkout.ProcessorProviderID, logger,
	)
	checkoutService := service.NewCheckoutService(
		commerceClient, checkoutStates, cartSessions, subscriptionService, cfg.Checkout.ProcessorProviderID, logger,
	)
	pageService := service.NewPageService(
		commerceClient, commerceClient, cartSessions, checkoutStates, cfg.Checkout.DefaultRegionID, logger,
	)
	cartService := service.NewCartService(commerceClient, cartSessions, cfg.Checkout.DefaultRegionID, logger)
	mfaService := service.NewMFAService(companionClient, dismissals, enrollments, logger)

	mux := router.New(router.Handlers{
		Page:     handler.NewPageHandler(pageService, logger),
		Cart:     handler.NewCartHandler(cartService, logger),
		Checkout: handler.NewCheckoutHandler(checkoutService, logger),
		MFA:      handler.NewMFAHandler(mfaService, logger),
		Recovery: handler.NewRecoveryHandler(recoveryService, logger),
	}, router.Options{
		APIKey:         cfg.Auth.APIKey,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Session: middleware.SessionConfig{
			CookieName:       cfg.Session.CookieName,
			DeviceCookieName: cfg.Session.DeviceCookieName,
			TTL:              cfg.Session.TTL,
			DeviceTTL:        cfg.Session.DeviceTTL,
			Secure:           cfg.Session.Secure,
		},
	}, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		// Let in-flight alerts finish before the clients go away.
		if err := dispatcher.Close(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("pending alerts dropped at shutdown")
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
