package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"bingoreloaded/internal/game"
)

// ErrPresetNotFound is returned when loading a preset that was never saved.
var ErrPresetNotFound = errors.New("preset not found")

// SaveSettings stores settings under a preset name, replacing any previous
// preset with that name.
func (s *Store) SaveSettings(ctx context.Context, name string, settings game.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("preset name is required")
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("preset %s: %w", name, err)
	}
	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode preset %s: %w", name, err)
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO presets (name, settings, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET settings = excluded.settings, updated_at = excluded.updated_at`,
		name, string(payload), toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("save preset %s: %w", name, err)
	}
	return nil
}

// LoadSettings returns the settings saved under a preset name.
func (s *Store) LoadSettings(ctx context.Context, name string) (game.Settings, error) {
	if err := ctx.Err(); err != nil {
		return game.Settings{}, err
	}
	name = strings.TrimSpace(name)

	var payload string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT settings FROM presets WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Settings{}, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	if err != nil {
		return game.Settings{}, fmt.Errorf("load preset %s: %w", name, err)
	}

	var settings game.Settings
	if err := json.Unmarshal([]byte(payload), &settings); err != nil {
		return game.Settings{}, fmt.Errorf("decode preset %s: %w", name, err)
	}
	return settings, nil
}

// PresetNames lists the saved preset names, sorted.
func (s *Store) PresetNames(ctx context.Context) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT name FROM presets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan preset: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
