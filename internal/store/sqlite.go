// internal/store/sqlite.go
//
// SQLite-backed Recorder. Writes the per-game log rows and folds word
// observations into the word_stats table; the hardness ranking is computed
// in SQL at read time so the score definition lives in one place per backend.
//
// Schema lives in sql/001_init.sql (applied by the migration runner in
// package main).

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// sqlite is a database/sql Recorder implementation (mattn/go-sqlite3 driver).
type sqlite struct {
	db *sql.DB
}

// NewSQLiteRecorder wraps an opened *sql.DB in a Recorder.
func NewSQLiteRecorder(db *sql.DB) Recorder {
	return &sqlite{db: db}
}

func (s *sqlite) SaveGameLog(ctx context.Context, entry GameLogEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO game_log (game_id, player_one, player_two, difficulty, word_length, summary, created_at)
		 VALUES (?,?,?,?,?,?,?)`,
		entry.GameID, entry.PlayerOne, entry.PlayerTwo, entry.Difficulty,
		entry.WordLength, entry.Summary, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert game log: %w", err)
	}
	return nil
}

func (s *sqlite) RecordWordResult(ctx context.Context, word string, guesses int, solved bool) error {
	failed := 0
	if !solved {
		failed = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO word_stats (word, appearances, failures, total_guesses)
		 VALUES (?,1,?,?)
		 ON CONFLICT(word) DO UPDATE SET
		   appearances   = appearances + 1,
		   failures      = failures + excluded.failures,
		   total_guesses = total_guesses + excluded.total_guesses`,
		strings.ToUpper(word), failed, guesses,
	)
	if err != nil {
		return fmt.Errorf("upsert word stats: %w", err)
	}
	return nil
}

func (s *sqlite) HardestWords(ctx context.Context, limit int) ([]HardWordEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	// Score: average guesses per appearance + 2.0 penalty per unsolved game.
	rows, err := s.db.QueryContext(ctx,
		`SELECT word,
		        CAST(total_guesses AS REAL) / appearances + 2.0 * failures AS score
		 FROM word_stats
		 ORDER BY score DESC, word ASC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query hardest words: %w", err)
	}
	defer rows.Close()

	var out []HardWordEntry
	for rows.Next() {
		var e HardWordEntry
		if err := rows.Scan(&e.Word, &e.Score); err != nil {
			return nil, err
		}
		e.Rank = len(out) + 1
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *sqlite) GameLogs(ctx context.Context, limit int) ([]GameLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, player_one, COALESCE(player_two,''), difficulty, word_length, summary
		 FROM game_log ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query game log: %w", err)
	}
	defer rows.Close()

	var out []GameLogEntry
	for rows.Next() {
		var e GameLogEntry
		if err := rows.Scan(&e.GameID, &e.PlayerOne, &e.PlayerTwo, &e.Difficulty, &e.WordLength, &e.Summary); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
