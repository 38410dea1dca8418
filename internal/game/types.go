// internal/game/types.go
//
// Core type definitions for the duel game engine.
// Defines:
//   - Mode, Difficulty, Status: game configuration and lifecycle enums.
//   - Feedback: per-letter result of a guess.
//   - FinishState: per-player outcome marker, distinct from Status.
//   - Player, WordChoice, Config, Result, GuessEntry, Outcome.

package game

import "time"

// Mode selects between a single guesser against a system word and a
// two-player duel with reciprocal secrets.
type Mode string

const (
	ModeSolo        Mode = "solo"
	ModeMultiplayer Mode = "multiplayer"
)

// Difficulty selects how much of the evaluation is exposed to callers.
// Possible values:
//   - "normal": full per-letter feedback.
//   - "hard":   same feedback data; front-ends flatten the presentation.
//   - "expert": no per-letter feedback, only counts and the exact flag.
type Difficulty string

const (
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// Status is the game state machine value. StatusFinished is terminal.
type Status string

const (
	StatusSetup Status = "setup"

	StatusInProgress Status = "in-progress"

	// StatusAwaitingKnowledge: the first exact match in multiplayer parks the
	// game until the provisional winner answers "did you already know the word".
	StatusAwaitingKnowledge Status = "awaiting-winner-knowledge"

	// StatusWaitingFinalGuess: the trailing player has exactly one more guess.
	StatusWaitingFinalGuess Status = "waiting-for-final-guess"

	// StatusSoloChase: transient marker set when the final chase guess fails,
	// immediately superseded by StatusFinished within the same transition.
	StatusSoloChase Status = "solo-chase"

	StatusFinished Status = "finished"
)

// Feedback is the evaluation result for a single letter in a guess.
type Feedback string

const (
	FeedbackCorrectPosition Feedback = "correct-position"
	FeedbackWrongPosition   Feedback = "wrong-position"
	FeedbackNotInWord       Feedback = "not-in-word"
)

// FinishState records a single player's outcome independently of the overall
// game status. A tie is two players at FinishSuccess.
type FinishState string

const (
	FinishNone    FinishState = "not-finished"
	FinishSuccess FinishState = "finished-success"
	FinishFail    FinishState = "finished-fail"
)

// WordSourceKind records how a secret word was chosen at setup.
type WordSourceKind string

const (
	SourceManual     WordSourceKind = "manual"
	SourceRandomDraw WordSourceKind = "random-draw"
)

// Word length bounds accepted by Config.
const (
	MinWordLength = 3
	MaxWordLength = 6
)

// Timer duration presets in seconds. TimerNone means untimed.
const (
	TimerNone         = 0
	TimerOneMinute    = 60
	TimerThreeMinutes = 180
	TimerFourMinutes  = 240
	TimerFiveMinutes  = 300
)

// Player identifies a participant. Equality is by value (name + human flag),
// never by session, so Player is safe as a map key.
type Player struct {
	Name  string
	Human bool
}

// WordChoice is a secret word plus its provenance. Word is empty when the
// choice requests a random draw from the word source.
type WordChoice struct {
	Word   string
	Source WordSourceKind
}

// Config is the immutable configuration of one game. PlayerTwo is the zero
// Player in solo mode; gate on Mode, not on the field.
type Config struct {
	Mode         Mode
	Difficulty   Difficulty
	WordLength   int
	TimerSeconds int
	PlayerOne    Player
	PlayerTwo    Player
}

// Timed reports whether the configuration carries a countdown.
func (c Config) Timed() bool { return c.TimerSeconds > 0 }

// Result is the outcome of evaluating a single guess against a target.
type Result struct {
	Guess          string     // normalized (uppercase) guess
	Feedback       []Feedback // empty for expert difficulty
	CorrectLetters int        // position-correct + presence-correct
	ExactMatch     bool
}

// GuessEntry is one row of the append-only guess history.
// Immutable once created.
type GuessEntry struct {
	Player      Player
	Result      Result
	SubmittedAt time.Time
}

// Outcome is what SubmitGuess hands back to the caller: the recorded entry,
// the status the transition produced, and whose turn comes next.
type Outcome struct {
	Entry    GuessEntry
	Status   Status
	NextTurn Player
}
