// Package stats records lifetime player statistics from session outcomes.
package stats

import (
	"context"
	"log"
	"sync"

	"bingoreloaded/internal/game"
	"bingoreloaded/internal/storage/sqlite"
)

// Writer persists statistic deltas.
type Writer interface {
	AddStats(ctx context.Context, delta sqlite.PlayerStats) error
}

// Recorder is a game.Sink that turns completions and results into
// statistic updates. Updates are written by a single worker so the session
// goroutine never waits on storage.
type Recorder struct {
	game.NopSink

	writer  Writer
	updates chan sqlite.PlayerStats
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewRecorder starts a recorder that queues up to buffer updates. Updates
// arriving while the queue is full are dropped.
func NewRecorder(writer Writer, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = 256
	}
	r := &Recorder{
		writer:  writer,
		updates: make(chan sqlite.PlayerStats, buffer),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for delta := range r.updates {
		if err := r.writer.AddStats(context.Background(), delta); err != nil {
			log.Printf("❌ Failed to record stats for %s: %v", delta.Participant, err)
		}
	}
}

func (r *Recorder) enqueue(delta sqlite.PlayerStats) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.updates <- delta:
	default:
		log.Printf("❌ Stats queue full, dropping update for %s", delta.Participant)
	}
}

// OnTaskCompleted credits the completing participant with one task.
func (r *Recorder) OnTaskCompleted(_ string, completion game.TaskCompletion) {
	if completion.Participant == "" {
		return
	}
	r.enqueue(sqlite.PlayerStats{Participant: completion.Participant, Tasks: 1})
}

// OnGameEnded credits a win to members of the winning team and a loss to
// everyone else who played. Games without a winner change nothing.
func (r *Recorder) OnGameEnded(_ string, result game.GameResult) {
	if result.Winner == nil {
		return
	}
	for _, t := range result.Teams {
		won := t.ID == result.Winner.ID
		for _, member := range t.Members {
			delta := sqlite.PlayerStats{Participant: member}
			if won {
				delta.Wins = 1
			} else {
				delta.Losses = 1
			}
			r.enqueue(delta)
		}
	}
}

// Close flushes queued updates and stops the worker.
func (r *Recorder) Close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.updates)
	}
	r.mu.Unlock()
	r.wg.Wait()
}

var _ game.Sink = (*Recorder)(nil)
