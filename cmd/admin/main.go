// Package main provides maintenance utilities for the bingo database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"bingoreloaded/internal/storage/sqlite"
)

func main() {
	var dbPath string
	var participant string
	var preset string

	flag.StringVar(&dbPath, "db-path", defaultDBPath(), "path to sqlite database (default: BINGO_DB_PATH or data/bingo.db)")
	flag.StringVar(&participant, "stats", "", "print the lifetime statistics of a participant")
	flag.StringVar(&preset, "preset", "", "print the settings stored under a preset name")
	flag.Parse()

	store, err := sqlite.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := run(context.Background(), store, os.Stdout, participant, preset); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func defaultDBPath() string {
	cfg, err := sqlite.ConfigFromEnv()
	if err != nil {
		return "data/bingo.db"
	}
	return cfg.Path
}

// run prints the requested record, or every preset name when nothing was
// asked for.
func run(ctx context.Context, store *sqlite.Store, out io.Writer, participant, preset string) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	switch {
	case participant != "":
		stats, err := store.Stats(ctx, participant)
		if err != nil {
			return err
		}
		return enc.Encode(stats)
	case preset != "":
		settings, err := store.LoadSettings(ctx, preset)
		if err != nil {
			return err
		}
		return enc.Encode(settings)
	}

	names, err := store.PresetNames(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(out, "No presets saved")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}
