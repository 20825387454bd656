package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bingoreloaded/internal/game"
	"bingoreloaded/internal/storage/sqlite"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "bingo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunListsPresets(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	var out bytes.Buffer
	require.NoError(t, run(ctx, store, &out, "", ""))
	assert.Equal(t, "No presets saved\n", out.String())

	require.NoError(t, store.SaveSettings(ctx, "quick", game.DefaultSettings()))
	require.NoError(t, store.SaveSettings(ctx, "classic", game.DefaultSettings()))

	out.Reset()
	require.NoError(t, run(ctx, store, &out, "", ""))
	assert.Equal(t, "classic\nquick\n", out.String())
}

func TestRunPrintsRecords(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	require.NoError(t, store.AddStats(ctx, sqlite.PlayerStats{Participant: "alice", Wins: 2, Tasks: 9}))
	require.NoError(t, store.SaveSettings(ctx, "quick", game.DefaultSettings()))

	var out bytes.Buffer
	require.NoError(t, run(ctx, store, &out, "alice", ""))
	assert.Contains(t, out.String(), `"wins": 2`)
	assert.Contains(t, out.String(), `"tasks": 9`)

	out.Reset()
	require.NoError(t, run(ctx, store, &out, "", "quick"))
	assert.Contains(t, out.String(), `"mode": "regular"`)

	assert.Error(t, run(ctx, store, &out, "", "missing"))
}

func TestDefaultDBPath(t *testing.T) {
	t.Setenv("BINGO_DB_PATH", "/tmp/other.db")
	assert.Equal(t, "/tmp/other.db", defaultDBPath())
}
