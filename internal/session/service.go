// internal/session/service.go
//
// Session service: composes the game Controller and the turn Timer, fans
// session-updated / session-finished notifications out to listeners, and
// reconciles timer expiry with game state.
//
// Concurrency model:
//   - One mutex serializes every state-mutating operation on the session:
//     guess submission, knowledge answers, reset, and the timeout transition
//     arriving from the timer goroutine.
//   - Timer control (Start/Stop/Reset/SetTimeForPlayer) happens while that
//     mutex is held. The timer notifies its listeners synchronously, so this
//     service's OnTimeUpdated must never take the mutex; it gates on an
//     atomic flag instead. OnTimeExpired only ever arrives from the timer's
//     tick goroutine and takes the mutex like any caller.
//   - Listeners run outside the mutex and receive immutable snapshots.

package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordduel/internal/game"
	"github.com/robalobadob/wordduel/internal/store"
	"github.com/robalobadob/wordduel/internal/timer"
)

const recordTimeout = 5 * time.Second

// Snapshot is the read-only view of a session handed to listeners. Slices
// and maps are copies; mutating a snapshot never touches live state.
type Snapshot struct {
	GameID            string
	Config            game.Config
	Status            game.Status
	CurrentTurn       game.Player
	Winner            *game.Player
	ProvisionalWinner *game.Player
	WinnerKnewWord    *bool
	Guesses           []game.GuessEntry
	FinishStates      map[game.Player]game.FinishState
	Remaining         map[game.Player]int

	// Targets maps each guesser to the word they were chasing. Populated
	// only once the game is finished; secrets stay hidden before that.
	Targets map[game.Player]string
}

// Service owns exactly one live session at a time.
type Service struct {
	mu         sync.Mutex
	controller *game.Controller
	timer      *timer.Timer
	recorder   store.Recorder // nil disables persistence
	state      *game.State

	// True while a timed session is live; read by timer callbacks without
	// taking mu (see package comment).
	timedActive atomic.Bool

	lmu            sync.Mutex
	stateListeners []func(Snapshot)
	startListeners []func(Snapshot)
	overListeners  []func(Snapshot)
	tickListeners  []func(game.Player, int)
}

// New wires a Service and registers it as the timer's listener.
func New(controller *game.Controller, t *timer.Timer, recorder store.Recorder) *Service {
	s := &Service{controller: controller, timer: t, recorder: recorder}
	t.AddListener(s)
	return s
}

// ------------------------- listener registration ---------------------------

// OnStateChanged registers a callback invoked after every successful mutation.
func (s *Service) OnStateChanged(fn func(Snapshot)) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.stateListeners = append(s.stateListeners, fn)
}

// OnGameStarted registers a callback invoked when a new game begins.
func (s *Service) OnGameStarted(fn func(Snapshot)) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.startListeners = append(s.startListeners, fn)
}

// OnGameOver registers a callback invoked once when a game finishes.
func (s *Service) OnGameOver(fn func(Snapshot)) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.overListeners = append(s.overListeners, fn)
}

// OnTimerTick registers a callback for remaining-seconds updates of the
// active player's countdown.
func (s *Service) OnTimerTick(fn func(game.Player, int)) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.tickListeners = append(s.tickListeners, fn)
}

// ----------------------------- operations ----------------------------------

// StartNewGame initializes a session from the configuration, seeds and
// starts the timer when the configuration is timed, and notifies listeners.
func (s *Service) StartNewGame(cfg game.Config, wordOne, wordTwo *game.WordChoice) (Snapshot, error) {
	s.mu.Lock()
	st, err := s.controller.StartNewGame(cfg, wordOne, wordTwo)
	if err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}
	s.state = st

	s.timer.Reset()
	s.timedActive.Store(cfg.Timed())
	if cfg.Timed() {
		s.timer.SetTimeForPlayer(cfg.PlayerOne, cfg.TimerSeconds)
		if cfg.Mode == game.ModeMultiplayer {
			s.timer.SetTimeForPlayer(cfg.PlayerTwo, cfg.TimerSeconds)
		}
		s.timer.Start(st.CurrentTurn())
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notifyState(snap)
	s.notifyStarted(snap)
	return snap, nil
}

// SubmitGuess validates and applies one guess for the player whose turn it
// is, then notifies listeners and advances or stops the timer.
func (s *Service) SubmitGuess(rawGuess string) (game.Outcome, error) {
	s.mu.Lock()
	if s.state == nil {
		s.mu.Unlock()
		return game.Outcome{}, game.ErrNoSession
	}
	p := s.state.CurrentTurn()
	outcome, err := s.controller.SubmitGuess(s.state, p, rawGuess)
	if err != nil {
		s.mu.Unlock()
		return game.Outcome{}, err
	}

	finished := outcome.Status == game.StatusFinished
	if s.state.Config().Timed() {
		if finished {
			s.timer.Stop()
			s.timedActive.Store(false)
		} else if outcome.NextTurn != p {
			s.timer.Start(outcome.NextTurn)
		}
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notifyState(snap)
	if finished {
		s.notifyOver(snap)
		s.record(snap)
	}
	return outcome, nil
}

// ApplyWinnerKnowledge answers the "did the winner already know the word"
// question, finishing the game or granting the opponent a final guess.
func (s *Service) ApplyWinnerKnowledge(knew bool) (Snapshot, error) {
	s.mu.Lock()
	if s.state == nil {
		s.mu.Unlock()
		return Snapshot{}, game.ErrNoSession
	}
	if err := s.state.ApplyWinnerKnowledge(knew); err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}

	finished := s.state.Status() == game.StatusFinished
	if s.state.Config().Timed() {
		if finished {
			s.timer.Stop()
			s.timedActive.Store(false)
		} else {
			// Final chase: the clock switches to the trailing player.
			s.timer.Start(s.state.CurrentTurn())
		}
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notifyState(snap)
	if finished {
		s.notifyOver(snap)
		s.record(snap)
	}
	return snap, nil
}

// Reset drops the live session and clears the timer.
func (s *Service) Reset() {
	s.mu.Lock()
	s.state = nil
	s.timedActive.Store(false)
	s.timer.Reset()
	s.mu.Unlock()
}

// Snapshot returns the current session view; ok is false when no session is
// live.
func (s *Service) Snapshot() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return Snapshot{}, false
	}
	return s.snapshotLocked(), true
}

// --------------------------- timer callbacks --------------------------------

// OnTimeUpdated forwards countdown updates. It must not take s.mu: the timer
// calls it synchronously from SetTimeForPlayer while this service may hold
// the mutex.
func (s *Service) OnTimeUpdated(p game.Player, remainingSeconds int) {
	if !s.timedActive.Load() {
		return
	}
	s.lmu.Lock()
	ls := append([]func(game.Player, int){}, s.tickListeners...)
	s.lmu.Unlock()
	for _, fn := range ls {
		fn(p, remainingSeconds)
	}
}

// OnTimeExpired applies the timeout forfeit. Expiry only ever arrives from
// the timer's tick goroutine, so taking the mutex here is what serializes a
// timeout against a concurrent guess submission.
func (s *Service) OnTimeExpired(p game.Player) {
	if !s.timedActive.Load() {
		return
	}
	s.mu.Lock()
	if s.state == nil || !s.state.Config().Timed() || s.state.Status() == game.StatusFinished {
		s.mu.Unlock()
		return
	}
	if err := s.state.ExpireTime(p); err != nil {
		// Benign race with a just-finished game; absorb.
		s.mu.Unlock()
		return
	}
	s.timer.Stop()
	s.timedActive.Store(false)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notifyState(snap)
	s.notifyOver(snap)
	s.record(snap)
}

// ------------------------------ internals ----------------------------------

func (s *Service) snapshotLocked() Snapshot {
	st := s.state
	cfg := st.Config()
	snap := Snapshot{
		GameID:            st.ID(),
		Config:            cfg,
		Status:            st.Status(),
		CurrentTurn:       st.CurrentTurn(),
		Winner:            st.Winner(),
		ProvisionalWinner: st.ProvisionalWinner(),
		WinnerKnewWord:    st.WinnerKnewWord(),
		Guesses:           st.Guesses(),
		FinishStates:      make(map[game.Player]game.FinishState, 2),
		Remaining:         make(map[game.Player]int, 2),
	}
	players := []game.Player{cfg.PlayerOne}
	if cfg.Mode == game.ModeMultiplayer {
		players = append(players, cfg.PlayerTwo)
	}
	for _, p := range players {
		snap.FinishStates[p] = st.FinishStateOf(p)
		if cfg.Timed() {
			snap.Remaining[p] = s.timer.RemainingFor(p)
		}
	}
	if snap.Status == game.StatusFinished {
		snap.Targets = make(map[game.Player]string, len(players))
		for _, p := range players {
			if t := st.TargetFor(p); t != nil {
				snap.Targets[p] = t.Word
			}
		}
	}
	return snap
}

func (s *Service) notifyState(snap Snapshot) {
	s.lmu.Lock()
	ls := append([]func(Snapshot){}, s.stateListeners...)
	s.lmu.Unlock()
	for _, fn := range ls {
		fn(snap)
	}
}

func (s *Service) notifyStarted(snap Snapshot) {
	s.lmu.Lock()
	ls := append([]func(Snapshot){}, s.startListeners...)
	s.lmu.Unlock()
	for _, fn := range ls {
		fn(snap)
	}
}

func (s *Service) notifyOver(snap Snapshot) {
	s.lmu.Lock()
	ls := append([]func(Snapshot){}, s.overListeners...)
	s.lmu.Unlock()
	for _, fn := range ls {
		fn(snap)
	}
}

// record hands the finished game to the recorder: one flat log row plus a
// hardness observation per secret word. Best effort; failures are logged.
func (s *Service) record(snap Snapshot) {
	if s.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	entry := store.GameLogEntry{
		GameID:     snap.GameID,
		PlayerOne:  snap.Config.PlayerOne.Name,
		Difficulty: string(snap.Config.Difficulty),
		WordLength: snap.Config.WordLength,
		Summary:    summarize(snap),
	}
	if snap.Config.Mode == game.ModeMultiplayer {
		entry.PlayerTwo = snap.Config.PlayerTwo.Name
	}
	if err := s.recorder.SaveGameLog(ctx, entry); err != nil {
		log.Warn().Err(err).Str("gameId", snap.GameID).Msg("save game log")
	}

	for word, obs := range wordObservations(snap) {
		if err := s.recorder.RecordWordResult(ctx, word, obs.guesses, obs.solved); err != nil {
			log.Warn().Err(err).Str("word", word).Msg("record word result")
		}
	}
}

type wordObservation struct {
	guesses int
	solved  bool
}

// wordObservations aggregates per target word how many guesses chased it and
// whether its guesser ever solved it. Words nobody guessed at contribute no
// observation.
func wordObservations(snap Snapshot) map[string]wordObservation {
	out := make(map[string]wordObservation, len(snap.Targets))
	for p, word := range snap.Targets {
		obs := wordObservation{}
		for _, e := range snap.Guesses {
			if e.Player != p {
				continue
			}
			obs.guesses++
			obs.solved = obs.solved || e.Result.ExactMatch
		}
		if obs.guesses > 0 {
			out[word] = obs
		}
	}
	return out
}

func summarize(snap Snapshot) string {
	switch {
	case snap.Winner == nil && snap.Config.Mode == game.ModeMultiplayer &&
		snap.FinishStates[snap.Config.PlayerOne] == game.FinishSuccess &&
		snap.FinishStates[snap.Config.PlayerTwo] == game.FinishSuccess:
		return "Tie: both players guessed the word"
	case snap.Winner == nil:
		return "No winner"
	default:
		return fmt.Sprintf("%s won in %d guesses", snap.Winner.Name, len(snap.Guesses))
	}
}
