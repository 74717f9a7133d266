package kv

import "context"

// Ports for key-value backends.
type (
	// Store is a persistent string key-value store. It plays the role of the
	// browser's origin-scoped local storage.
	Store interface {
		// Get returns the value for key and whether it was present.
		Get(ctx context.Context, key string) (value string, ok bool, err error)
		// Set replaces the value for key.
		Set(ctx context.Context, key, value string) error
	}

	// Pinger is implemented by backends that can report readiness.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)
