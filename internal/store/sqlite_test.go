// internal/store/sqlite_test.go

package store

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE users (
    id            TEXT PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE COLLATE NOCASE,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE game_log (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    game_id     TEXT NOT NULL,
    player_one  TEXT NOT NULL,
    player_two  TEXT NOT NULL,
    difficulty  TEXT NOT NULL,
    word_length INTEGER NOT NULL,
    summary     TEXT NOT NULL,
    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE word_stats (
    word          TEXT PRIMARY KEY,
    appearances   INTEGER NOT NULL DEFAULT 0,
    total_guesses INTEGER NOT NULL DEFAULT 0,
    failures      INTEGER NOT NULL DEFAULT 0
);`

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return db
}

func TestSQLiteGameLog(t *testing.T) {
	t.Parallel()
	r := NewSQLiteRecorder(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, r.SaveGameLog(ctx, GameLogEntry{
		GameID:     "abc123",
		PlayerOne:  "Alice",
		PlayerTwo:  "Bob",
		Difficulty: "normal",
		WordLength: 5,
		Summary:    "Alice won in 3 guesses",
	}))
	require.NoError(t, r.SaveGameLog(ctx, GameLogEntry{
		GameID:     "def456",
		PlayerOne:  "Alice",
		Difficulty: "expert",
		WordLength: 4,
		Summary:    "No winner",
	}))

	logs, err := r.GameLogs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	// Newest first.
	assert.Equal(t, "def456", logs[0].GameID)
	assert.Equal(t, "", logs[0].PlayerTwo)
	assert.Equal(t, "abc123", logs[1].GameID)
	assert.Equal(t, "Bob", logs[1].PlayerTwo)
	assert.Equal(t, 5, logs[1].WordLength)
}

func TestSQLiteWordStatsUpsert(t *testing.T) {
	t.Parallel()
	r := NewSQLiteRecorder(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, r.RecordWordResult(ctx, "apple", 3, true))
	require.NoError(t, r.RecordWordResult(ctx, "APPLE", 5, true))
	require.NoError(t, r.RecordWordResult(ctx, "grape", 4, false))

	out, err := r.HardestWords(ctx, 10)
	require.NoError(t, err)
	require.Len(t, out, 2)

	// GRAPE: 4/1 + 2.0*1 = 6.0; APPLE: (3+5)/2 = 4.0.
	assert.Equal(t, "GRAPE", out[0].Word)
	assert.InDelta(t, 6.0, out[0].Score, 1e-9)
	assert.Equal(t, 1, out[0].Rank)
	assert.Equal(t, "APPLE", out[1].Word)
	assert.InDelta(t, 4.0, out[1].Score, 1e-9)
	assert.Equal(t, 2, out[1].Rank)
}

func TestSQLiteHardestWordsLimitAndDefaults(t *testing.T) {
	t.Parallel()
	r := NewSQLiteRecorder(newTestDB(t))
	ctx := context.Background()

	for _, w := range []string{"cat", "sun", "map"} {
		require.NoError(t, r.RecordWordResult(ctx, w, 2, true))
	}

	out, err := r.HardestWords(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, out, 2)

	// Non-positive limit falls back to the default.
	out, err = r.HardestWords(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, out, 3)
}
