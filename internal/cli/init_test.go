package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deposits/internal/config"
	"deposits/internal/core"
	"deposits/internal/kv/memory"
	"deposits/internal/log"
)

func TestInitBackendAndStore_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: filepath.Join(t.TempDir(), "deposits.db"),
		StorageKey:   "deposits_events_v1",
	}

	res, err := InitBackend(ctx, log.Discard(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Close() })

	_, store, err := InitEventStore(ctx, log.Discard(), res.Backend, cfg.StorageKey)
	require.NoError(t, err)
	assert.Empty(t, store.Events())
}

func TestInitEventStore_MalformedData(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	require.NoError(t, kv.Set(ctx, "k", "{not json"))

	_, _, err := InitEventStore(ctx, log.Discard(), kv, "k")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrMalformedData)
}

func TestInitBackend_InvalidBackend(t *testing.T) {
	_, err := InitBackend(context.Background(), log.Discard(), &config.Config{DataBackend: "sheets"})
	assert.Error(t, err)
}
