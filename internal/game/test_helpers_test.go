package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"bingoreloaded/internal/card"
	"bingoreloaded/internal/task"
	"bingoreloaded/internal/team"
	"bingoreloaded/internal/timer"
)

const (
	testCard            = "test"
	testStartingSeconds = 2
)

type fakeSource struct {
	pool task.Pool
}

func newFakeSource(n int) fakeSource {
	pool := make(task.Pool, n)
	for i := range pool {
		pool[i] = task.Task{Kind: task.KindItem, Key: fmt.Sprintf("item_%02d", i), Count: 1}
	}
	return fakeSource{pool: pool}
}

func (f fakeSource) Pool(name string) task.Pool {
	if name != testCard {
		return nil
	}
	return append(task.Pool(nil), f.pool...)
}

func (f fakeSource) RandomTask(name string, rng *rand.Rand, excluded ...task.Kind) (task.Task, bool) {
	pool := f.pool.Without(excluded...)
	if name != testCard || len(pool) == 0 {
		return task.Task{}, false
	}
	if items := pool.Without(task.KindAdvancement, task.KindStatistic); len(items) > 0 {
		pool = items
	}
	return pool[rng.IntN(len(pool))], true
}

// recordingSink keeps every outcome for assertions.
type recordingSink struct {
	NopSink

	mu         sync.Mutex
	phases     []Phase
	starting   []int
	ticks      []timer.Tick
	completed  []TaskCompletion
	bingos     []string
	countdowns []int
	drawn      []task.Task
	results    []GameResult
}

func (r *recordingSink) OnPhaseChanged(_ string, _, to Phase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phases = append(r.phases, to)
}

func (r *recordingSink) OnStartingCountdown(_ string, remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starting = append(r.starting, remaining)
}

func (r *recordingSink) OnTimerTick(_ string, t timer.Tick) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, t)
}

func (r *recordingSink) OnTaskCompleted(_ string, c TaskCompletion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, c)
}

func (r *recordingSink) OnBingo(_ string, t TeamView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bingos = append(r.bingos, t.ID)
}

func (r *recordingSink) OnDeathmatchCountdown(_ string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.countdowns = append(r.countdowns, n)
}

func (r *recordingSink) OnDeathmatchStarted(_ string, t task.Task, _ []TeamView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drawn = append(r.drawn, t)
}

func (r *recordingSink) OnGameEnded(_ string, result GameResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
}

func (r *recordingSink) endings() []GameResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]GameResult(nil), r.results...)
}

func (r *recordingSink) phaseLog() []Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Phase(nil), r.phases...)
}

func testSettings(mode card.Mode, size card.Size) Settings {
	s := DefaultSettings()
	s.Mode = mode
	s.Size = size
	s.Card = testCard
	s.Seed = 42
	s.EnableCountdown = true
	s.CountdownMinutes = 1
	return s
}

func newTestSession(t *testing.T, settings Settings) (*Session, *recordingSink) {
	t.Helper()
	return newTestSessionWithTasks(t, settings, newFakeSource(40))
}

func newTestSessionWithTasks(t *testing.T, settings Settings, tasks TaskSource) (*Session, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	s, err := NewSession("world", Options{
		Templates: []team.Template{
			{ID: "red", Name: "Red"},
			{ID: "blue", Name: "Blue"},
			{ID: "green", Name: "Green"},
		},
		Settings:        settings,
		Tasks:           tasks,
		Sink:            sink,
		StartingSeconds: testStartingSeconds,
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, sink
}

// joinTeams registers each participant and puts them on the given team.
func joinTeams(t *testing.T, s *Session, members map[string]string) {
	t.Helper()
	ctx := context.Background()
	for participant, teamID := range members {
		require.NoError(t, s.Join(ctx, participant, ""))
		_, err := s.SetTeam(ctx, participant, teamID)
		require.NoError(t, err)
	}
}

// startGame starts the session and runs the pre-game countdown.
func startGame(t *testing.T, s *Session) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	for i := 0; i < testStartingSeconds; i++ {
		require.NoError(t, s.Tick(ctx))
	}
	requirePhase(t, s, PhaseActive)
}

func tickN(t *testing.T, s *Session, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, s.Tick(context.Background()))
	}
}

func requirePhase(t *testing.T, s *Session, want Phase) View {
	t.Helper()
	v, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, v.Phase)
	return v
}

func completeSlots(t *testing.T, s *Session, participant string, slots ...int) {
	t.Helper()
	for _, slot := range slots {
		_, err := s.CompleteTask(context.Background(), participant, slot)
		require.NoError(t, err, "slot %d", slot)
	}
}
