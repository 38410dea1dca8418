// internal/game/controller.go
//
// Orchestration for the duel engine: starting games and submitting guesses.
// The Controller validates and normalizes raw input, resolves random word
// draws through the WordSource collaborator, invokes the evaluator, and
// drives the State's transition rules. It never partially mutates: a
// rejected guess leaves history, status and turn untouched.

package game

import (
	"fmt"
	"strings"
	"time"
)

// WordSource is the dictionary collaborator consumed by the engine.
// Implementations must be safe for concurrent use.
type WordSource interface {
	// PickWord returns a random word of the given length.
	PickWord(length int) (string, error)

	// IsValidWord reports whether word is a recognized dictionary word of
	// the given length.
	IsValidWord(word string, length int) bool
}

// Controller validates input and drives session state transitions.
type Controller struct {
	words WordSource
}

// NewController constructs a Controller around a word source.
func NewController(words WordSource) *Controller {
	return &Controller{words: words}
}

// StartNewGame validates the configuration, resolves any random-draw word
// choices through the word source, and returns an initialized in-progress
// session. wordTwo is ignored in solo mode.
func (c *Controller) StartNewGame(cfg Config, wordOne, wordTwo *WordChoice) (*State, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	w1, err := c.resolveChoice(wordOne, cfg.WordLength)
	if err != nil {
		return nil, err
	}
	var w2 *WordChoice
	if cfg.Mode == ModeMultiplayer {
		if w2, err = c.resolveChoice(wordTwo, cfg.WordLength); err != nil {
			return nil, err
		}
	}

	st := newState(cfg)
	if err := st.start(w1, w2); err != nil {
		return nil, err
	}
	return st, nil
}

// SubmitGuess validates, evaluates and records one guess.
//
// Preconditions, checked in order, each a distinct failure:
//  1. session exists, is started, and is not finished (nor parked on the
//     knowledge question);
//  2. the player is a configured participant;
//  3. the normalized guess (trimmed, uppercased, non-letters stripped) is
//     non-empty and exactly the configured length;
//  4. the normalized guess is a recognized dictionary word.
func (c *Controller) SubmitGuess(st *State, p Player, rawGuess string) (Outcome, error) {
	if st == nil || st.Status() == StatusSetup {
		return Outcome{}, ErrNoSession
	}
	switch st.Status() {
	case StatusFinished:
		return Outcome{}, ErrGameFinished
	case StatusAwaitingKnowledge:
		return Outcome{}, ErrAwaitingKnowledge
	}
	if !st.isPlayer(p) {
		return Outcome{}, ErrInvalidPlayer
	}

	guess := NormalizeGuess(rawGuess)
	if guess == "" {
		return Outcome{}, ErrEmptyGuess
	}
	length := st.Config().WordLength
	if len(guess) != length {
		return Outcome{}, fmt.Errorf("%w: got %d, want %d", ErrWrongLength, len(guess), length)
	}
	if !c.words.IsValidWord(guess, length) {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownWord, guess)
	}

	target := st.TargetFor(p)
	if target == nil || target.Word == "" {
		return Outcome{}, ErrMissingTarget
	}

	entry := GuessEntry{
		Player:      p,
		Result:      Evaluate(guess, target.Word, st.Config().Difficulty),
		SubmittedAt: time.Now().UTC(),
	}
	st.applyGuess(entry)

	return Outcome{Entry: entry, Status: st.Status(), NextTurn: st.CurrentTurn()}, nil
}

// NormalizeGuess trims, uppercases and strips non-alphabetic characters.
func NormalizeGuess(raw string) string {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// resolveChoice fills in a random draw from the word source, or validates a
// manual word against the configured length.
func (c *Controller) resolveChoice(choice *WordChoice, length int) (*WordChoice, error) {
	if choice == nil || choice.Source == SourceRandomDraw && choice.Word == "" {
		w, err := c.words.PickWord(length)
		if err != nil {
			return nil, fmt.Errorf("pick word: %w", err)
		}
		return &WordChoice{Word: strings.ToUpper(w), Source: SourceRandomDraw}, nil
	}
	word := strings.ToUpper(strings.TrimSpace(choice.Word))
	if word == "" {
		return nil, ErrMissingTarget
	}
	if len(word) != length {
		return nil, fmt.Errorf("%w: word %q is not %d letters", ErrConfigMismatch, word, length)
	}
	return &WordChoice{Word: word, Source: choice.Source}, nil
}

func validateConfig(cfg Config) error {
	if cfg.Mode != ModeSolo && cfg.Mode != ModeMultiplayer {
		return fmt.Errorf("%w: unknown mode %q", ErrConfigMismatch, cfg.Mode)
	}
	switch cfg.Difficulty {
	case DifficultyNormal, DifficultyHard, DifficultyExpert:
	default:
		return fmt.Errorf("%w: unknown difficulty %q", ErrConfigMismatch, cfg.Difficulty)
	}
	if cfg.WordLength < MinWordLength || cfg.WordLength > MaxWordLength {
		return fmt.Errorf("%w: word length %d out of range", ErrConfigMismatch, cfg.WordLength)
	}
	if cfg.TimerSeconds < 0 {
		return fmt.Errorf("%w: negative timer duration", ErrConfigMismatch)
	}
	if cfg.PlayerOne == (Player{}) {
		return ErrInvalidPlayer
	}
	if cfg.Mode == ModeMultiplayer && cfg.PlayerTwo == (Player{}) {
		return ErrInvalidPlayer
	}
	return nil
}
