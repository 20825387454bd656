package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"bingoreloaded/internal/game"
	"bingoreloaded/internal/task"
	"bingoreloaded/internal/timer"
)

type stubTasks struct{}

func (stubTasks) Pool(string) task.Pool {
	pool := make(task.Pool, 30)
	for i := range pool {
		pool[i] = task.Task{Kind: task.KindItem, Key: fmt.Sprintf("t%d", i), Count: 1}
	}
	return pool
}

func (s stubTasks) RandomTask(name string, rng *rand.Rand, _ ...task.Kind) (task.Task, bool) {
	pool := s.Pool(name)
	return pool[rng.IntN(len(pool))], true
}

func newTestStore(sources *[]*timer.ManualSource) *MemoryStore {
	var mu sync.Mutex
	return NewMemoryStore(
		func(id string) (*game.Session, error) {
			return game.NewSession(id, game.Options{Tasks: stubTasks{}, StartingSeconds: 1})
		},
		func() timer.Source {
			mu.Lock()
			defer mu.Unlock()
			src := timer.NewManualSource()
			if sources != nil {
				*sources = append(*sources, src)
			}
			return src
		},
	)
}

func TestNewMemoryStore(t *testing.T) {
	store := newTestStore(nil)

	if store == nil {
		t.Fatal("NewMemoryStore returned nil")
	}
	if len(store.List()) != 0 {
		t.Errorf("expected no sessions, got %d", len(store.List()))
	}
}

func TestCreate(t *testing.T) {
	store := newTestStore(nil)
	defer store.Close()

	t.Run("creates session for world", func(t *testing.T) {
		session, err := store.Create("world")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if session.ID() != "world" {
			t.Errorf("expected id world, got %s", session.ID())
		}
	})

	t.Run("rejects second session for the same world", func(t *testing.T) {
		_, err := store.Create("world")
		if !errors.Is(err, game.ErrSessionExists) {
			t.Errorf("expected ErrSessionExists, got %v", err)
		}
	})

	t.Run("factory errors are returned", func(t *testing.T) {
		_, err := store.Create("")
		if err == nil {
			t.Error("expected error for empty id")
		}
		if len(store.List()) != 1 {
			t.Errorf("failed create must not register a session")
		}
	})
}

func TestGet(t *testing.T) {
	store := newTestStore(nil)
	defer store.Close()

	created, _ := store.Create("world")
	got, err := store.Get("world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != created {
		t.Error("Get returned a different session")
	}

	_, err = store.Get("nether")
	if !errors.Is(err, ErrSessionNotFound) || !errors.Is(err, game.ErrNoActiveSession) {
		t.Errorf("expected ErrSessionNotFound wrapping ErrNoActiveSession, got %v", err)
	}
}

func TestDestroy(t *testing.T) {
	store := newTestStore(nil)

	session, _ := store.Create("world")
	if err := store.Destroy("world"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !session.Closed() {
		t.Error("destroyed session should be closed")
	}
	if _, err := store.Get("world"); err == nil {
		t.Error("destroyed session is still registered")
	}
	if err := store.Destroy("world"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}

	// The world can host a new session afterwards.
	if _, err := store.Create("world"); err != nil {
		t.Errorf("recreate failed: %v", err)
	}
	store.Close()
	if len(store.List()) != 0 {
		t.Error("Close should destroy every session")
	}
}

func TestSessionsAreDriven(t *testing.T) {
	var sources []*timer.ManualSource
	store := newTestStore(&sources)
	defer store.Close()

	session, _ := store.Create("world")
	ctx := context.Background()
	if err := session.Join(ctx, "alice", "Alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := session.SetTeam(ctx, "alice", "red"); err != nil {
		t.Fatal(err)
	}
	if err := session.Start(ctx); err != nil {
		t.Fatal(err)
	}

	if len(sources) != 1 {
		t.Fatalf("expected one tick source, got %d", len(sources))
	}
	sources[0].Fire()

	deadline := time.Now().Add(time.Second)
	for {
		v, err := session.Snapshot(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if v.Phase == game.PhaseActive {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("session did not become active, phase %s", v.Phase)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestConcurrentAccess(t *testing.T) {
	store := newTestStore(nil)
	defer store.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("world-%d", i%5)
			store.Create(id)
			store.Get(id)
		}(i)
	}
	wg.Wait()

	if n := len(store.List()); n != 5 {
		t.Errorf("expected 5 sessions, got %d", n)
	}
}
