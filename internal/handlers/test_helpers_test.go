package handlers

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"bingoreloaded/internal/command"
	"bingoreloaded/internal/config"
	"bingoreloaded/internal/events"
	"bingoreloaded/internal/game"
	"bingoreloaded/internal/storage/sqlite"
	"bingoreloaded/internal/store"
	"bingoreloaded/internal/task"
	"bingoreloaded/internal/timer"
)

type stubTasks struct{}

func (stubTasks) Pool(string) task.Pool {
	pool := make(task.Pool, 30)
	for i := range pool {
		pool[i] = task.Task{Kind: task.KindItem, Key: fmt.Sprintf("item_%02d", i), Count: 1}
	}
	return pool
}

func (s stubTasks) RandomTask(name string, rng *rand.Rand, _ ...task.Kind) (task.Task, bool) {
	pool := s.Pool(name)
	return pool[rng.IntN(len(pool))], true
}

type memoryPresets struct {
	mu    sync.Mutex
	saved map[string]game.Settings
}

func (m *memoryPresets) LoadSettings(_ context.Context, name string) (game.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.saved[name]
	if !ok {
		return game.Settings{}, errors.New("preset not found")
	}
	return s, nil
}

func (m *memoryPresets) SaveSettings(_ context.Context, name string, s game.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[name] = s
	return nil
}

type stubStats map[string]sqlite.PlayerStats

func (s stubStats) Stats(_ context.Context, participant string) (sqlite.PlayerStats, error) {
	if st, ok := s[participant]; ok {
		return st, nil
	}
	return sqlite.PlayerStats{Participant: participant}, nil
}

type testEnv struct {
	handler *Handler
	router  *chi.Mux
	bus     *events.Bus
	store   *store.MemoryStore
}

// newTestEnv creates a handler whose sessions are never ticked by a
// driver; tests tick sessions themselves.
func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	bus := events.NewBus(32)
	s := store.NewMemoryStore(
		func(id string) (*game.Session, error) {
			return game.NewSession(id, game.Options{Tasks: stubTasks{}, Sink: bus, StartingSeconds: 1})
		},
		func() timer.Source { return timer.NewManualSource() },
	)
	t.Cleanup(s.Close)

	commands := command.NewService(s, &memoryPresets{saved: make(map[string]game.Settings)}, nil, bus)
	h := New(s, commands, bus, opts)

	cfg := config.DefaultConfig()
	cfg.Server.Port = "8080"
	cfg.Server.Host = "localhost"
	router := SetupRouter(h, cfg, &RouterOptions{DisableRateLimiting: true, DisableRequestLogger: true})

	return &testEnv{handler: h, router: router, bus: bus, store: s}
}

func (e *testEnv) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) session(t *testing.T, id string) *game.Session {
	t.Helper()
	s, err := e.store.Get(id)
	if err != nil {
		t.Fatalf("session %s: %v", id, err)
	}
	return s
}

func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
