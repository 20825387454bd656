package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"bingoreloaded"
	"bingoreloaded/internal/command"
	"bingoreloaded/internal/config"
	"bingoreloaded/internal/events"
	"bingoreloaded/internal/game"
	"bingoreloaded/internal/handlers"
	localMiddleware "bingoreloaded/internal/middleware"
	"bingoreloaded/internal/stats"
	"bingoreloaded/internal/storage/sqlite"
	"bingoreloaded/internal/store"
	"bingoreloaded/internal/task"
	"bingoreloaded/internal/timer"
)

// server bundles the wired application and everything it must release on
// shutdown.
type server struct {
	handler  http.Handler
	store    *store.MemoryStore
	limiter  *localMiddleware.RateLimiter
	db       *sqlite.Store
	recorder *stats.Recorder
}

// newServer wires the catalog, persistence, sessions and HTTP routes.
// newSource drives each session; nil means one tick per second.
func newServer(cfg *config.ServerConfig, newSource func() timer.Source) (*server, error) {
	if newSource == nil {
		newSource = func() timer.Source { return timer.NewTickerSource(time.Second) }
	}

	catalog, err := task.NewCatalog(bingoreloaded.CardsYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to load task catalog: %w", err)
	}
	log.Printf("📚 Loaded %d task lists", len(catalog.CardNames()))

	lobby, err := cfg.Game.Settings()
	if err != nil {
		return nil, fmt.Errorf("invalid game settings: %w", err)
	}

	srv := &server{}
	bus := events.NewBus(64)
	sinks := game.Sinks{bus}

	// Interfaces stay nil without a database so features report themselves
	// unavailable.
	var (
		presets command.PresetStore
		opts    handlers.Options
	)
	if cfg.Storage.Path != "" {
		db, err := sqlite.Open(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		log.Printf("💾 Opened database at %s", cfg.Storage.Path)
		srv.db = db
		srv.recorder = stats.NewRecorder(db, 0)
		sinks = append(sinks, srv.recorder)
		presets = db
		opts.Stats = db
		opts.Ready = db.Ping
	} else {
		log.Printf("💾 No database configured, presets and statistics are disabled")
	}

	srv.store = store.NewMemoryStore(func(id string) (*game.Session, error) {
		return game.NewSession(id, game.Options{
			Templates:         cfg.Teams,
			Settings:          lobby,
			Tasks:             catalog,
			Sink:              sinks,
			StartingSeconds:   cfg.Game.StartingSeconds,
			DeathmatchSeconds: cfg.Game.DeathmatchSeconds,
		})
	}, newSource)

	commands := command.NewService(srv.store, presets, catalog, bus)
	h := handlers.New(srv.store, commands, bus, opts)

	srv.limiter = localMiddleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateLimitBurst, cfg.Server.RateLimitIdle)
	srv.handler = handlers.SetupRouter(h, cfg, &handlers.RouterOptions{RateLimiter: srv.limiter})
	return srv, nil
}

// evictClients forgets idle rate limiter clients until ctx is done.
func (s *server) evictClients(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.limiter.Evict(); n > 0 {
				log.Printf("🧹 Evicted %d idle clients", n)
			}
		}
	}
}

// Close destroys every session, flushes pending statistics and closes the
// database.
func (s *server) Close() {
	s.store.Close()
	if s.recorder != nil {
		s.recorder.Close()
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("❌ Failed to close database: %v", err)
		}
	}
}
