package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// PlayerStats are the lifetime statistics of one participant.
type PlayerStats struct {
	Participant string `json:"participant"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Tasks       int    `json:"tasks"`
}

// AddStats adds the given deltas to a participant's statistics.
func (s *Store) AddStats(ctx context.Context, delta PlayerStats) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	participant := strings.TrimSpace(delta.Participant)
	if participant == "" {
		return fmt.Errorf("participant is required")
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO player_stats (participant, wins, losses, tasks, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(participant) DO UPDATE SET
		   wins = wins + excluded.wins,
		   losses = losses + excluded.losses,
		   tasks = tasks + excluded.tasks,
		   updated_at = excluded.updated_at`,
		participant, delta.Wins, delta.Losses, delta.Tasks, toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("add stats for %s: %w", participant, err)
	}
	return nil
}

// Stats returns a participant's statistics. Unknown participants have zero
// statistics.
func (s *Store) Stats(ctx context.Context, participant string) (PlayerStats, error) {
	if err := ctx.Err(); err != nil {
		return PlayerStats{}, err
	}
	out := PlayerStats{Participant: participant}
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT wins, losses, tasks FROM player_stats WHERE participant = ?`, participant,
	).Scan(&out.Wins, &out.Losses, &out.Tasks)
	if errors.Is(err, sql.ErrNoRows) {
		return out, nil
	}
	if err != nil {
		return PlayerStats{}, fmt.Errorf("load stats for %s: %w", participant, err)
	}
	return out, nil
}
