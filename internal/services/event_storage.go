package services

import (
	"context"
	"encoding/json"
	"fmt"

	"deposits/internal/core"
	"deposits/internal/kv"
	"deposits/internal/log"
)

// DefaultStorageKey is the key holding the JSON array of events.
const DefaultStorageKey = "deposits_events_v1"

// EventStorage reads and writes the whole event list under a single key.
type EventStorage struct {
	kv     kv.Store
	key    string
	logger *log.Logger
}

func NewEventStorage(store kv.Store, key string) *EventStorage {
	if key == "" {
		key = DefaultStorageKey
	}
	return &EventStorage{kv: store, key: key, logger: log.Discard()}
}

// WithLogger sets the logger for load and save records.
func (s *EventStorage) WithLogger(logger *log.Logger) *EventStorage {
	if logger != nil {
		s.logger = logger.WithComponent(log.ComponentStorage)
	}
	return s
}

// Key returns the storage key in use.
func (s *EventStorage) Key() string {
	return s.key
}

// Load returns the stored events in their persisted order. A missing key
// yields an empty list; malformed content is returned as an error wrapping
// core.ErrMalformedData.
func (s *EventStorage) Load(ctx context.Context) ([]core.Event, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logFailure(ctx, "Events read failed", err, log.OpLoad, log.ErrorTypeDatabase)
		return nil, fmt.Errorf("read %q: %w", s.key, err)
	}
	if !ok || raw == "" {
		s.logger.DebugContext(ctx, "No stored events", log.FieldStorageKey, s.key, log.FieldOperation, log.OpLoad)
		return []core.Event{}, nil
	}

	var events []core.Event
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		s.logFailure(ctx, "Stored events are malformed", err, log.OpLoad, log.ErrorTypeValidation)
		return nil, fmt.Errorf("%w: key %q: %v", core.ErrMalformedData, s.key, err)
	}
	if events == nil {
		events = []core.Event{}
	}
	for i := range events {
		events[i] = events[i].Normalize()
	}
	s.logger.DebugContext(ctx, "Events loaded",
		log.FieldStorageKey, s.key,
		log.FieldOperation, log.OpLoad,
		log.FieldEventCount, len(events))
	return events, nil
}

// Save serializes the full list and replaces the stored value.
func (s *EventStorage) Save(ctx context.Context, events []core.Event) error {
	if events == nil {
		events = []core.Event{}
	}
	normalized := make([]core.Event, len(events))
	for i, e := range events {
		normalized[i] = e.Normalize()
	}

	b, err := json.Marshal(normalized)
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(b)); err != nil {
		s.logFailure(ctx, "Events write failed", err, log.OpSave, log.ErrorTypeDatabase)
		return fmt.Errorf("write %q: %w", s.key, err)
	}

	s.logger.DebugContext(ctx, "Events persisted",
		log.FieldStorageKey, s.key,
		log.FieldOperation, log.OpSave,
		log.FieldEventCount, len(events),
		"bytes", len(b))
	return nil
}

func (s *EventStorage) logFailure(ctx context.Context, msg string, err error, op, errorType string) {
	s.logger.ErrorContext(ctx, msg,
		log.FieldStorageKey, s.key,
		log.FieldOperation, op,
		log.FieldError, err,
		log.FieldErrorType, errorType)
}
