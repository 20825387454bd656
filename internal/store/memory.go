package store

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"bingoreloaded/internal/game"
	"bingoreloaded/internal/timer"
)

// ErrSessionNotFound is returned for world ids without a session.
var ErrSessionNotFound = fmt.Errorf("%w: session not found", game.ErrNoActiveSession)

// Factory builds a new session for a world id.
type Factory func(id string) (*game.Session, error)

type entry struct {
	session *game.Session
	cancel  context.CancelFunc
}

// MemoryStore holds every live session in memory, at most one per world
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	newSession Factory
	newSource  func() timer.Source
}

// NewMemoryStore creates a new in-memory store. Each created session is
// driven by a tick source from newSource until it is destroyed.
func NewMemoryStore(newSession Factory, newSource func() timer.Source) *MemoryStore {
	return &MemoryStore{
		sessions:   make(map[string]*entry),
		newSession: newSession,
		newSource:  newSource,
	}
}

// Create registers a session for the world id and starts driving it.
func (s *MemoryStore) Create(id string) (*game.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; exists {
		return nil, fmt.Errorf("%w: %s", game.ErrSessionExists, id)
	}

	session, err := s.newSession(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go session.Run(ctx, s.newSource())

	s.sessions[id] = &entry{session: session, cancel: cancel}
	log.Printf("🌍 Session %s created", id)
	return session, nil
}

// Get retrieves the session of a world
func (s *MemoryStore) Get(id string) (*game.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.sessions[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return e.session, nil
}

// Destroy stops and removes the session of a world. The removed session
// panics if used afterwards.
func (s *MemoryStore) Destroy(id string) error {
	s.mu.Lock()
	e, exists := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !exists {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	e.cancel()
	e.session.Close()
	log.Printf("🌍 Session %s destroyed", id)
	return nil
}

// List returns the world ids with a session, sorted.
func (s *MemoryStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close destroys every session.
func (s *MemoryStore) Close() {
	for _, id := range s.List() {
		_ = s.Destroy(id)
	}
}
