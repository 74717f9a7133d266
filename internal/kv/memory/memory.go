package memory

import (
	"context"
	"os"
	"strings"
	"sync"
)

// Store keeps values in process memory. Nothing survives a restart.
type Store struct {
	mu     sync.Mutex
	values map[string]string
}

func New() *Store {
	return &Store{values: make(map[string]string)}
}

// NewFromFile seeds key with the contents of path when the file exists and
// is not blank. A missing file yields an empty store.
func NewFromFile(key, path string) *Store {
	s := New()
	if path == "" {
		return s
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if content := strings.TrimSpace(string(b)); content != "" {
		s.values[key] = content
	}
	return s
}

// Get returns the stored value.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set replaces the stored value.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }
