// Command gencritdb precomputes the critical-positions database described
// in this repository's design: it enumerates every reachable Connect Four
// position within a ply window, classifies each one, and writes the
// surviving entries to critical.db as an open-addressed hash file for a
// separate playing agent to consult at runtime.
//
// It takes no arguments. Progress is printed to standard output and
// carries no machine-readable contract; only the output file does.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/BassBess/generator2/internal/config"
	"github.com/BassBess/generator2/internal/dbfile"
	"github.com/BassBess/generator2/internal/enumerate"
	"github.com/BassBess/generator2/internal/solver"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg := config.Default()

	s := solver.New()
	en := enumerate.New(s, cfg.Window)

	start := time.Now()
	en.OnProgress(func(st enumerate.Stats) {
		logger.Info().
			Uint64("visited", st.Visited).
			Uint64("critical", st.Critical).
			Dur("elapsed", time.Since(start)).
			Msg("enumeration progress")
	})

	logger.Info().
		Int("min_ply", cfg.Window.Min).
		Int("max_ply", cfg.Window.Max).
		Str("output", cfg.OutputPath).
		Msg("starting enumeration")

	en.Run()

	logger.Info().
		Uint64("visited", en.Stats().Visited).
		Uint64("critical", en.Stats().Critical).
		Dur("elapsed", time.Since(start)).
		Msg("enumeration complete")

	if err := writeDatabase(cfg, en.Entries()); err != nil {
		logger.Fatal().Err(err).Msg("failed to write critical-positions database")
	}

	logger.Info().Str("path", cfg.OutputPath).Msg("done")
}

// writeDatabase serializes entries to a temporary file in the same
// directory as cfg.OutputPath and only renames it into place once the
// write has fully succeeded, so a failure never leaves a truncated file
// sitting at the expected output path claiming to be complete.
func writeDatabase(cfg config.Config, entries []enumerate.Entry) error {
	dir := filepath.Dir(cfg.OutputPath)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, ".critical.db.tmp-*")
	if err != nil {
		return fmt.Errorf("create temp output file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpPath)
	}()

	dbEntries := make([]dbfile.Entry, len(entries))
	for i, e := range entries {
		dbEntries[i] = dbfile.Entry{Key: e.Key, Column: e.Column}
	}

	hdr := dbfile.Header{MinPly: byte(cfg.Window.Min), MaxPly: byte(cfg.Window.Max)}
	if err := dbfile.Write(tmp, hdr, dbEntries); err != nil {
		return fmt.Errorf("write database: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp output file: %w", err)
	}
	if err := os.Rename(tmpPath, cfg.OutputPath); err != nil {
		return fmt.Errorf("rename temp output file: %w", err)
	}
	return nil
}
