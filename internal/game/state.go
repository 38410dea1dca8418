// internal/game/state.go
//
// Mutable state of one duel session and its state-machine transition rules.
// The state owns every transition; the Controller validates input and calls
// into it, the session service serializes access around it.
//
// Invariants:
//   - Secret word lengths always equal the configured word length.
//   - Guess history is append-only and never reordered.
//   - Winner is set only on finish and never changed afterwards.
//   - The turn only alternates in multiplayer mode on non-terminal transitions.
//   - The provisional winner is cleared whenever the game finishes.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// State is the mutable record of one game's progress. It is not safe for
// concurrent use; callers must funnel access through a single lock (the
// session service does this).
type State struct {
	id  string
	cfg Config

	// Each side's own secret, i.e. the word the opponent must guess.
	// Solo mode stores the single system word on the player-one side.
	playerOneWord *WordChoice
	playerTwoWord *WordChoice

	guesses     []GuessEntry
	currentTurn Player
	status      Status
	winner      *Player
	provisional *Player
	finish      map[Player]FinishState

	// Answer to "did the winner already know the word", once given.
	winnerKnewWord *bool
}

// newState builds an empty session in StatusSetup. The starting turn is
// player one, matching the original flow where the challenger guesses first.
func newState(cfg Config) *State {
	return &State{
		id:          genID(),
		cfg:         cfg,
		currentTurn: cfg.PlayerOne,
		status:      StatusSetup,
		finish:      make(map[Player]FinishState),
	}
}

// ---------------------------- accessors ------------------------------------

func (s *State) ID() string          { return s.id }
func (s *State) Config() Config      { return s.cfg }
func (s *State) Status() Status      { return s.status }
func (s *State) CurrentTurn() Player { return s.currentTurn }

// Winner returns the winning player, or nil while the game is running and on
// a tie.
func (s *State) Winner() *Player { return copyPlayer(s.winner) }

// ProvisionalWinner returns the first successful guesser while the knowledge
// question and final chase are pending, nil otherwise.
func (s *State) ProvisionalWinner() *Player { return copyPlayer(s.provisional) }

// WinnerKnewWord returns the recorded knowledge answer, or nil if the
// question was never asked or not yet answered.
func (s *State) WinnerKnewWord() *bool {
	if s.winnerKnewWord == nil {
		return nil
	}
	v := *s.winnerKnewWord
	return &v
}

// Guesses returns a copy of the append-only history.
func (s *State) Guesses() []GuessEntry {
	out := make([]GuessEntry, len(s.guesses))
	copy(out, s.guesses)
	return out
}

// FinishStateOf reports the per-player outcome marker.
func (s *State) FinishStateOf(p Player) FinishState {
	if fs, ok := s.finish[p]; ok {
		return fs
	}
	return FinishNone
}

// TargetFor returns the word the given player must guess: the opponent's
// secret in multiplayer, the system secret in solo. The reciprocal assignment
// is deliberate and load-bearing; see the duel rules.
func (s *State) TargetFor(p Player) *WordChoice {
	if s.cfg.Mode == ModeSolo {
		return s.playerOneWord
	}
	if p == s.cfg.PlayerOne {
		return s.playerTwoWord
	}
	if p == s.cfg.PlayerTwo {
		return s.playerOneWord
	}
	return nil
}

// isPlayer reports whether p is one of the configured participants.
func (s *State) isPlayer(p Player) bool {
	if p == (Player{}) {
		return false
	}
	if p == s.cfg.PlayerOne {
		return true
	}
	return s.cfg.Mode == ModeMultiplayer && p == s.cfg.PlayerTwo
}

// opponentOf returns the other participant, or nil in solo mode.
func (s *State) opponentOf(p Player) *Player {
	if s.cfg.Mode != ModeMultiplayer {
		return nil
	}
	switch p {
	case s.cfg.PlayerOne:
		o := s.cfg.PlayerTwo
		return &o
	case s.cfg.PlayerTwo:
		o := s.cfg.PlayerOne
		return &o
	}
	return nil
}

// --------------------------- transitions -----------------------------------

// start moves setup -> in-progress, seeding the secret words. Words must
// match the configured length exactly.
func (s *State) start(wordOne, wordTwo *WordChoice) error {
	if s.status != StatusSetup {
		return ErrGameFinished
	}
	if wordOne == nil || strings.TrimSpace(wordOne.Word) == "" {
		return ErrMissingTarget
	}
	if len(wordOne.Word) != s.cfg.WordLength {
		return ErrConfigMismatch
	}
	if s.cfg.Mode == ModeMultiplayer {
		if wordTwo == nil || strings.TrimSpace(wordTwo.Word) == "" {
			return ErrMissingTarget
		}
		if len(wordTwo.Word) != s.cfg.WordLength {
			return ErrConfigMismatch
		}
	}
	s.playerOneWord = wordOne
	s.playerTwoWord = wordTwo
	s.status = StatusInProgress
	return nil
}

// applyGuess appends the entry and runs the transition table. The caller has
// already validated the guess; nothing here can fail.
func (s *State) applyGuess(entry GuessEntry) {
	s.guesses = append(s.guesses, entry)
	p := entry.Player

	switch {
	case s.cfg.Mode == ModeSolo:
		// Solo: the only way out of in-progress is an exact match.
		if entry.Result.ExactMatch {
			s.finish[p] = FinishSuccess
			s.finishGame(&p)
		}

	case s.status == StatusWaitingFinalGuess:
		// The trailing player's single chase guess.
		if entry.Result.ExactMatch {
			s.finish[p] = FinishSuccess
			s.finishGame(nil) // both succeeded independently: tie
		} else {
			s.finish[p] = FinishFail
			s.status = StatusSoloChase // transient marker, never observed across a lock
			s.finishGame(s.provisional)
		}

	case entry.Result.ExactMatch:
		// First success in multiplayer: park for the knowledge question.
		// The turn deliberately does not alternate here.
		s.finish[p] = FinishSuccess
		s.provisional = &p
		s.status = StatusAwaitingKnowledge

	default:
		s.switchTurn()
	}
}

// ApplyWinnerKnowledge resolves the awaiting-winner-knowledge state.
// knew=false finishes the game in the provisional winner's favor; knew=true
// hands the opponent exactly one final guess.
func (s *State) ApplyWinnerKnowledge(knew bool) error {
	if s.status == StatusFinished {
		return ErrGameFinished
	}
	if s.status != StatusAwaitingKnowledge || s.provisional == nil {
		return ErrNotAwaitingKnowledge
	}
	v := knew
	s.winnerKnewWord = &v
	if knew {
		s.status = StatusWaitingFinalGuess
		s.switchTurn()
		return nil
	}
	s.finishGame(s.provisional)
	return nil
}

// ExpireTime forces the timeout transition for p: p forfeits, the opponent
// (if any) wins. Valid from any non-terminal state.
func (s *State) ExpireTime(p Player) error {
	if s.status == StatusFinished {
		return ErrGameFinished
	}
	if !s.isPlayer(p) {
		return ErrInvalidPlayer
	}
	s.finish[p] = FinishFail
	opp := s.opponentOf(p)
	if opp != nil {
		s.finish[*opp] = FinishSuccess
	}
	s.finishGame(opp)
	return nil
}

// finishGame is the single terminal transition. winner may be nil (tie, or a
// solo forfeit).
func (s *State) finishGame(winner *Player) {
	s.winner = copyPlayer(winner)
	s.provisional = nil
	s.status = StatusFinished
}

// switchTurn alternates the turn. No-op in solo mode: there is only one
// guesser.
func (s *State) switchTurn() {
	if s.cfg.Mode != ModeMultiplayer {
		return
	}
	if s.currentTurn == s.cfg.PlayerOne {
		s.currentTurn = s.cfg.PlayerTwo
	} else {
		s.currentTurn = s.cfg.PlayerOne
	}
}

// ----------------------------- helpers -------------------------------------

func copyPlayer(p *Player) *Player {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// genID returns a compact 16-hex-char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func genID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
