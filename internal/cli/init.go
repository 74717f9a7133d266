// Package cli provides the startup steps shared by the deposits binaries:
// environment loading, logging, configuration, storage and the event store.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"deposits/internal/backend"
	"deposits/internal/config"
	"deposits/internal/log"
	"deposits/internal/services"
)

// SetupLogger initializes structured logging at the given level.
// Returns the configured logger and sets it as the default logger.
func SetupLogger(level string) *log.Logger {
	lvl, err := config.ParseLogLevel(level)
	logger := log.New(log.Config{Level: lvl, Component: log.ComponentApp})
	log.SetDefault(logger)
	if err != nil {
		logger.Warn("Unknown log level, using info", "log_level", level)
	}
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InitBackend builds the key-value backend selected by cfg.
func InitBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	factory := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger)
	return factory.CreateBackend(ctx, bcfg)
}

// InitEventStore wires the event storage over b and loads the persisted events.
// Malformed persisted data is returned as an error.
func InitEventStore(ctx context.Context, logger *log.Logger, b backend.Backend, key string) (*services.EventStorage, *services.EventStore, error) {
	storage := services.NewEventStorage(b, key).WithLogger(logger)
	store := services.NewEventStore(storage)
	if err := store.Load(ctx); err != nil {
		return nil, nil, fmt.Errorf("load events from %q: %w", key, err)
	}
	logger.WithComponent(log.ComponentStorage).Info("Events loaded",
		log.FieldStorageKey, key,
		log.FieldEventCount, len(store.Events()))
	return storage, store, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
