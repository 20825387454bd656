package stats

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bingoreloaded/internal/game"
	"bingoreloaded/internal/storage/sqlite"
)

type memoryWriter struct {
	mu     sync.Mutex
	totals map[string]sqlite.PlayerStats
	fail   bool
}

func (w *memoryWriter) AddStats(_ context.Context, d sqlite.PlayerStats) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail {
		return errors.New("disk full")
	}
	if w.totals == nil {
		w.totals = make(map[string]sqlite.PlayerStats)
	}
	cur := w.totals[d.Participant]
	cur.Participant = d.Participant
	cur.Wins += d.Wins
	cur.Losses += d.Losses
	cur.Tasks += d.Tasks
	w.totals[d.Participant] = cur
	return nil
}

func TestRecorder_TasksAndResults(t *testing.T) {
	w := &memoryWriter{}
	r := NewRecorder(w, 0)

	r.OnTaskCompleted("world", game.TaskCompletion{Participant: "alice", Team: "red"})
	r.OnTaskCompleted("world", game.TaskCompletion{Participant: "alice", Team: "red"})
	r.OnTaskCompleted("world", game.TaskCompletion{Participant: "bob", Team: "blue"})
	r.OnGameEnded("world", game.GameResult{
		Winner: &game.TeamView{ID: "red"},
		Teams: []game.TeamView{
			{ID: "red", Members: []string{"alice"}},
			{ID: "blue", Members: []string{"bob", "carol"}},
		},
	})
	r.Close()

	assert.Equal(t, sqlite.PlayerStats{Participant: "alice", Wins: 1, Tasks: 2}, w.totals["alice"])
	assert.Equal(t, sqlite.PlayerStats{Participant: "bob", Losses: 1, Tasks: 1}, w.totals["bob"])
	assert.Equal(t, sqlite.PlayerStats{Participant: "carol", Losses: 1}, w.totals["carol"])
}

func TestRecorder_NoWinnerRecordsNothing(t *testing.T) {
	w := &memoryWriter{}
	r := NewRecorder(w, 4)
	r.OnGameEnded("world", game.GameResult{Teams: []game.TeamView{{ID: "red", Members: []string{"alice"}}}})
	r.Close()
	assert.Empty(t, w.totals)
}

func TestRecorder_WriteErrorsAreLogged(t *testing.T) {
	w := &memoryWriter{fail: true}
	r := NewRecorder(w, 4)
	r.OnTaskCompleted("world", game.TaskCompletion{Participant: "alice"})
	r.Close()
	assert.Empty(t, w.totals)

	// Closed recorders ignore further outcomes.
	r.OnTaskCompleted("world", game.TaskCompletion{Participant: "alice"})
	r.Close()
}

func TestRecorder_WithSQLite(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	defer store.Close()

	r := NewRecorder(store, 8)
	r.OnTaskCompleted("world", game.TaskCompletion{Participant: "alice"})
	r.OnGameEnded("world", game.GameResult{
		Winner: &game.TeamView{ID: "red"},
		Teams:  []game.TeamView{{ID: "red", Members: []string{"alice"}}},
	})
	r.Close()

	got, err := store.Stats(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, sqlite.PlayerStats{Participant: "alice", Wins: 1, Tasks: 1}, got)
}
