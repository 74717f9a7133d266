package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"deposits/internal/cli"
	"deposits/internal/core"
	apphttp "deposits/internal/http"
	"deposits/internal/log"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.SetupLogger("info").Error("Invalid configuration",
			log.FieldError, err,
			log.FieldOperation, log.OpValidate,
			log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}

	logger := cli.SetupLogger(cfg.LogLevel)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	res, err := cli.InitBackend(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize storage backend", log.FieldError, err, log.FieldBackendType, cfg.DataBackend)
		os.Exit(1)
	}
	defer res.Close()

	_, store, err := cli.InitEventStore(ctx, logger, res.Backend, cfg.StorageKey)
	if err != nil {
		logger.Error("Failed to load events", log.FieldError, err, log.FieldStorageKey, cfg.StorageKey)
		res.Close()
		os.Exit(1)
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		Store:              store,
		IDs:                core.NewIDGenerator(core.SystemClock()),
		Pinger:             res.Backend,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting deposits server",
			log.FieldOperation, log.OpStartup,
			log.FieldPort, cfg.Port,
			log.FieldBackendType, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, log.FieldPort, cfg.Port)
		res.Close()
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
