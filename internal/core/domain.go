package core

import (
	"errors"
	"strings"
)

type (
	// Event is a named, dated collection of deposit entries.
	Event struct {
		ID      string  `json:"id"`
		Name    string  `json:"name"`
		Date    string  `json:"date"` // ISO date or empty, compared as a plain string
		Entries []Entry `json:"entries"`
	}

	// Entry is one deposit within an Event. It has no identity of its own.
	Entry struct {
		Name     string `json:"name"`
		Amount   Amount `json:"amount"`
		Comments string `json:"comments"`
	}
)

var (
	ErrMalformedData = errors.New("malformed stored data")
	ErrDuplicateID   = errors.New("duplicate event id")
	ErrEmptyID       = errors.New("empty event id")
	ErrEventNotFound = errors.New("event not found")
)

// IsBlank reports whether every field of the entry is empty.
func (e Entry) IsBlank() bool {
	return strings.TrimSpace(e.Name) == "" && !e.Amount.Valid && strings.TrimSpace(e.Comments) == ""
}

// Normalize returns a copy with a non-nil entries slice so that the
// persisted form is always an array.
func (e Event) Normalize() Event {
	out := e
	out.Entries = make([]Entry, len(e.Entries))
	copy(out.Entries, e.Entries)
	return out
}

// DepositCount returns the number of entries.
func (e Event) DepositCount() int {
	return len(e.Entries)
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	return nil
}

// CloneEvents deep-copies a slice of events.
func CloneEvents(in []Event) []Event {
	out := make([]Event, len(in))
	for i, e := range in {
		out[i] = e.Normalize()
	}
	return out
}
