package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bingoreloaded/internal/command"
	"bingoreloaded/internal/events"
	"bingoreloaded/internal/game"
	"bingoreloaded/internal/storage/sqlite"
	"bingoreloaded/internal/store"
)

// StatsReader reads lifetime player statistics.
type StatsReader interface {
	Stats(ctx context.Context, participant string) (sqlite.PlayerStats, error)
}

// Options holds the optional dependencies of a Handler.
type Options struct {
	// Stats serves GET /stats/{participant}; the route answers 503 when nil.
	Stats StatsReader
	// Ready is checked by /health/ready.
	Ready func(ctx context.Context) error
	// Keepalive is the SSE keepalive interval. Defaults to 30 seconds.
	Keepalive time.Duration
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	store     *store.MemoryStore
	commands  *command.Service
	eventBus  *events.Bus
	stats     StatsReader
	ready     func(ctx context.Context) error
	keepalive time.Duration
}

// New creates a new handler
func New(s *store.MemoryStore, commands *command.Service, bus *events.Bus, opts Options) *Handler {
	if opts.Keepalive <= 0 {
		opts.Keepalive = 30 * time.Second
	}
	return &Handler{
		store:     s,
		commands:  commands,
		eventBus:  bus,
		stats:     opts.Stats,
		ready:     opts.Ready,
		keepalive: opts.Keepalive,
	}
}

// Store returns the handler's store (for testing)
func (h *Handler) Store() *store.MemoryStore {
	return h.store
}

// snapshot reads a session view. Sessions destroyed between lookup and read
// report store.ErrSessionNotFound instead of panicking.
func (h *Handler) snapshot(ctx context.Context, id string) (view game.View, err error) {
	session, err := h.store.Get(id)
	if err != nil {
		return game.View{}, err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s", store.ErrSessionNotFound, id)
		}
	}()
	return session.Snapshot(ctx)
}

// sessionID returns the session in the URL, answering 404 when it does not
// exist.
func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := h.store.Get(id); err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return "", false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

// writeResult answers 200 for successful commands and 422 otherwise.
func writeResult(w http.ResponseWriter, res command.Result) {
	status := http.StatusOK
	if !res.OK {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, res)
}
