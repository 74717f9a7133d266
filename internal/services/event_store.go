package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"deposits/internal/core"
)

// EventStore is the authoritative in-memory list of events. Every mutation
// is written through to EventStorage before it returns.
type EventStore struct {
	mu       sync.Mutex
	storage  *EventStorage
	events   []core.Event
	revision uint64
}

func NewEventStore(storage *EventStorage) *EventStore {
	return &EventStore{storage: storage, events: []core.Event{}}
}

// Load replaces the in-memory list with the persisted one.
func (s *EventStore) Load(ctx context.Context) error {
	events, err := s.storage.Load(ctx)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
	s.revision++
	return nil
}

// Events returns a copy of the events in insertion order.
func (s *EventStore) Events() []core.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.CloneEvents(s.events)
}

// Snapshot returns a copy of the events together with the revision they belong to.
func (s *EventStore) Snapshot() ([]core.Event, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.CloneEvents(s.events), s.revision
}

// Revision changes every time the list changes.
func (s *EventStore) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// FindByID returns the event with the given id.
func (s *EventStore) FindByID(id string) (core.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.events[i].Normalize(), true
	}
	return core.Event{}, false
}

// Add appends e and persists the list.
func (s *EventStore) Add(ctx context.Context, e core.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(e.ID) >= 0 {
		return fmt.Errorf("%w: %s", core.ErrDuplicateID, e.ID)
	}

	next := append(core.CloneEvents(s.events), e.Normalize())
	return s.commit(ctx, next)
}

// ReplaceByID swaps the event with the given id for e. It reports false and
// does nothing when the id is not present.
func (s *EventStore) ReplaceByID(ctx context.Context, id string, e core.Event) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		slog.DebugContext(ctx, "Replace skipped", "event_id", id, "error", core.ErrEventNotFound)
		return false, nil
	}
	e.ID = id

	next := core.CloneEvents(s.events)
	next[i] = e.Normalize()
	if err := s.commit(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveByID filters out the event with the given id and persists the
// list. It reports whether a record was removed.
func (s *EventStore) RemoveByID(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]core.Event, 0, len(s.events))
	for _, e := range s.events {
		if e.ID != id {
			next = append(next, e.Normalize())
		}
	}
	removed := len(next) != len(s.events)
	if err := s.commit(ctx, next); err != nil {
		return false, err
	}
	return removed, nil
}

// commit persists next and, only on success, makes it the current list.
// Callers hold s.mu.
func (s *EventStore) commit(ctx context.Context, next []core.Event) error {
	if err := s.storage.Save(ctx, next); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	s.events = next
	s.revision++
	return nil
}

func (s *EventStore) indexOf(id string) int {
	for i, e := range s.events {
		if e.ID == id {
			return i
		}
	}
	return -1
}
