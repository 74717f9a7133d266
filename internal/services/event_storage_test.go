package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deposits/internal/core"
	"deposits/internal/kv/memory"
	"deposits/internal/log"
)

type failingKV struct {
	getErr, setErr error
	sets           int
}

func (f *failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.getErr }
func (f *failingKV) Set(context.Context, string, string) error {
	f.sets++
	return f.setErr
}

func sampleEvents() []core.Event {
	return []core.Event{
		{ID: "evt_1_1", Name: "Trip A", Date: "2024-01-01", Entries: []core.Entry{
			{Name: "Lunch", Amount: core.AmountOf(12.5)},
			{Name: "Deposit", Comments: "to be confirmed"},
		}},
		{ID: "evt_2_2", Name: "", Date: "", Entries: []core.Entry{}},
	}
}

func TestEventStorage_LoadMissingKey(t *testing.T) {
	s := NewEventStorage(memory.New(), "")
	assert.Equal(t, DefaultStorageKey, s.Key())

	events, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestEventStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewEventStorage(memory.New(), "k")

	require.NoError(t, s.Save(ctx, sampleEvents()))
	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleEvents(), loaded)

	// Saving what was loaded must not change anything.
	require.NoError(t, s.Save(ctx, loaded))
	again, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, loaded, again)
}

func TestEventStorage_PersistedLayout(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s := NewEventStorage(kv, "k")

	require.NoError(t, s.Save(ctx, nil))
	raw, ok, _ := kv.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "[]", raw)

	require.NoError(t, s.Save(ctx, []core.Event{{ID: "a", Name: "n", Date: "d"}}))
	raw, _, _ = kv.Get(ctx, "k")
	assert.JSONEq(t, `[{"id":"a","name":"n","date":"d","entries":[]}]`, raw)
}

func TestEventStorage_LoadMalformed(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	require.NoError(t, kv.Set(ctx, "k", "{not json"))

	_, err := NewEventStorage(kv, "k").Load(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMalformedData))
}

func TestEventStorage_LoadToleratesLegacyShapes(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	require.NoError(t, kv.Set(ctx, "k", `[{"id":"a","name":"x","date":"","entries":null},{"id":"b","name":"y","date":"2024-01-01","entries":[{"name":"t","amount":"","comments":""}]}]`))

	events, err := NewEventStorage(kv, "k").Load(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, []core.Entry{}, events[0].Entries)
	assert.False(t, events[1].Entries[0].Amount.Valid)

	require.NoError(t, kv.Set(ctx, "k", "null"))
	events, err = NewEventStorage(kv, "k").Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventStorage_BackendErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")

	_, err := NewEventStorage(&failingKV{getErr: boom}, "k").Load(ctx)
	assert.ErrorIs(t, err, boom)

	err = NewEventStorage(&failingKV{setErr: boom}, "k").Save(ctx, sampleEvents())
	assert.ErrorIs(t, err, boom)
}

func TestEventStorage_LogsLoadAndSave(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelDebug, Output: &buf})

	s := NewEventStorage(memory.New(), "k").WithLogger(logger)
	require.NoError(t, s.Save(ctx, sampleEvents()))
	_, err := s.Load(ctx)
	require.NoError(t, err)

	out := buf.String()
	for _, want := range []string{"component=storage", "storage_key=k", "operation=save", "operation=load", "event_count=2"} {
		assert.Contains(t, out, want)
	}
}

func TestEventStorage_LogsWriteFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelDebug, Output: &buf})

	s := NewEventStorage(&failingKV{setErr: errors.New("disk full")}, "k").WithLogger(logger)
	require.Error(t, s.Save(context.Background(), sampleEvents()))

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "operation=save")
	assert.Contains(t, out, "error_type=database_error")
}
