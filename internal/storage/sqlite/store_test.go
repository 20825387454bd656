package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bingoreloaded/internal/card"
	"bingoreloaded/internal/game"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "bingo.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store, path
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestOpenRunsMigrationsOnce(t *testing.T) {
	store, path := openTestStore(t)
	require.NoError(t, store.Ping(context.Background()))

	// Reopening must not re-apply migrations.
	again, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, again.Close())

	sqlDB, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer sqlDB.Close()

	var applied int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(1) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 2, applied)

	for _, table := range []string{"presets", "player_stats"} {
		var name string
		err := sqlDB.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, "table %s", table)
	}
}

func TestPresets(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	_, err := store.LoadSettings(ctx, "speedrun")
	assert.True(t, errors.Is(err, ErrPresetNotFound))

	settings := game.DefaultSettings()
	settings.Mode = card.ModeLockout
	settings.Size = card.Size3
	settings.Effects = game.EffectNightVision | game.EffectKeepInventory
	require.NoError(t, store.SaveSettings(ctx, "speedrun", settings))

	loaded, err := store.LoadSettings(ctx, "speedrun")
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)

	settings.Size = card.Size5
	require.NoError(t, store.SaveSettings(ctx, "speedrun", settings))
	loaded, err = store.LoadSettings(ctx, "speedrun")
	require.NoError(t, err)
	assert.Equal(t, card.Size5, loaded.Size, "saving again replaces the preset")

	require.NoError(t, store.SaveSettings(ctx, "casual", game.DefaultSettings()))
	names, err := store.PresetNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"casual", "speedrun"}, names)
}

func TestSaveSettingsRejectsInvalid(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	invalid := game.DefaultSettings()
	invalid.Size = 4
	assert.Error(t, store.SaveSettings(ctx, "bad", invalid))
	assert.Error(t, store.SaveSettings(ctx, "", game.DefaultSettings()))
}

func TestStats(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	empty, err := store.Stats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, PlayerStats{Participant: "alice"}, empty)

	require.NoError(t, store.AddStats(ctx, PlayerStats{Participant: "alice", Tasks: 3}))
	require.NoError(t, store.AddStats(ctx, PlayerStats{Participant: "alice", Wins: 1, Tasks: 2}))
	require.NoError(t, store.AddStats(ctx, PlayerStats{Participant: "alice", Losses: 1}))

	got, err := store.Stats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, PlayerStats{Participant: "alice", Wins: 1, Losses: 1, Tasks: 5}, got)

	assert.Error(t, store.AddStats(ctx, PlayerStats{}))
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("BINGO_DB_PATH", "/tmp/custom.db")
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.Path)
}

func TestExtractUp(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (id INTEGER);\n-- +migrate Down\nDROP TABLE a;"
	assert.Equal(t, "\nCREATE TABLE a (id INTEGER);\n", extractUp(content))
	assert.Equal(t, "SELECT 1;", extractUp("SELECT 1;"))
}
