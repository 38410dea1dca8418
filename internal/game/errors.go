// internal/game/errors.go
//
// Sentinel errors for the duel engine. All are raised before any state
// mutation, so a caller can retry with corrected input. Match with errors.Is.

package game

import "errors"

var (
	// ErrNoSession: the operation needs an active, started session.
	ErrNoSession = errors.New("no active game")

	// ErrGameFinished: the session already reached its terminal state.
	ErrGameFinished = errors.New("game already finished")

	// ErrAwaitingKnowledge: guesses are parked until the provisional winner
	// answers the knowledge question.
	ErrAwaitingKnowledge = errors.New("awaiting winner knowledge")

	// ErrNotAwaitingKnowledge: a knowledge answer arrived in a state that
	// never asked the question.
	ErrNotAwaitingKnowledge = errors.New("not awaiting winner knowledge")

	// ErrInvalidPlayer: zero-value or unrecognized participant.
	ErrInvalidPlayer = errors.New("invalid player")

	ErrEmptyGuess  = errors.New("empty guess")
	ErrWrongLength = errors.New("guess has wrong length")
	ErrUnknownWord = errors.New("word not in dictionary")

	// ErrConfigMismatch: a word assigned to a side does not match the
	// configured length, or the configuration itself is out of range.
	ErrConfigMismatch = errors.New("configuration mismatch")

	// ErrMissingTarget: an operation needs a target word that was never set.
	ErrMissingTarget = errors.New("target word not set")
)
