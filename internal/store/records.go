// internal/store/records.go
//
// Persistence records produced by the game core and the Recorder interface
// consumed by the session service. The core only produces these values; how
// they are stored (memory, SQLite) is an implementation concern.

package store

import "context"

// GameLogEntry is the flat result record written once per finished game.
type GameLogEntry struct {
	GameID     string `json:"gameId"`
	PlayerOne  string `json:"playerOne"`
	PlayerTwo  string `json:"playerTwo,omitempty"` // empty in solo mode
	Difficulty string `json:"difficulty"`
	WordLength int    `json:"wordLength"`
	Summary    string `json:"summary"` // free-text result summary
}

// HardWordEntry is one row of the ranked "hardest words" list.
type HardWordEntry struct {
	Rank  int     `json:"rank"`
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

// Recorder accepts the values the game core produces and answers the two
// read queries the service surface exposes. Implementations must be safe for
// concurrent use.
type Recorder interface {
	// SaveGameLog appends one finished-game record.
	SaveGameLog(ctx context.Context, entry GameLogEntry) error

	// RecordWordResult folds one word's appearance into its hardness stats:
	// how many guesses it took and whether it was solved at all.
	RecordWordResult(ctx context.Context, word string, guesses int, solved bool) error

	// HardestWords returns up to limit words ranked hardest-first.
	HardestWords(ctx context.Context, limit int) ([]HardWordEntry, error)

	// GameLogs returns up to limit recent game records, newest first.
	GameLogs(ctx context.Context, limit int) ([]GameLogEntry, error)
}
