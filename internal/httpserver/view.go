// internal/httpserver/view.go
//
// JSON view types for duel responses. The engine's Snapshot is the source of
// truth; these types flatten it into wire-friendly shapes and keep secrets
// hidden until a game is finished.

package httpserver

import (
	"github.com/robalobadob/wordduel/internal/game"
	"github.com/robalobadob/wordduel/internal/session"
)

type playerView struct {
	Name  string `json:"name"`
	Human bool   `json:"human"`
}

type guessView struct {
	Player     string          `json:"player"`
	Guess      string          `json:"guess"`
	Feedback   []game.Feedback `json:"feedback"`
	Correct    int             `json:"correctLetters"`
	ExactMatch bool            `json:"exactMatch"`
}

type duelView struct {
	GameID       string            `json:"gameId"`
	Mode         game.Mode         `json:"mode"`
	Difficulty   game.Difficulty   `json:"difficulty"`
	WordLength   int               `json:"wordLength"`
	TimerSeconds int               `json:"timerSeconds"`
	Status       game.Status       `json:"status"`
	CurrentTurn  playerView        `json:"currentTurn"`
	Winner       *playerView       `json:"winner,omitempty"`
	Provisional  *playerView       `json:"provisionalWinner,omitempty"`
	FinishStates map[string]string `json:"finishStates"`
	Remaining    map[string]int    `json:"remainingSeconds,omitempty"`
	Guesses      []guessView       `json:"guesses"`
	Targets      map[string]string `json:"targets,omitempty"` // revealed on finish
}

func toPlayerView(p game.Player) playerView {
	return playerView{Name: p.Name, Human: p.Human}
}

func toDuelView(snap session.Snapshot) duelView {
	v := duelView{
		GameID:       snap.GameID,
		Mode:         snap.Config.Mode,
		Difficulty:   snap.Config.Difficulty,
		WordLength:   snap.Config.WordLength,
		TimerSeconds: snap.Config.TimerSeconds,
		Status:       snap.Status,
		CurrentTurn:  toPlayerView(snap.CurrentTurn),
		FinishStates: make(map[string]string, len(snap.FinishStates)),
		Guesses:      make([]guessView, 0, len(snap.Guesses)),
	}
	if snap.Winner != nil {
		w := toPlayerView(*snap.Winner)
		v.Winner = &w
	}
	if snap.ProvisionalWinner != nil {
		p := toPlayerView(*snap.ProvisionalWinner)
		v.Provisional = &p
	}
	for p, fs := range snap.FinishStates {
		v.FinishStates[p.Name] = string(fs)
	}
	if len(snap.Remaining) > 0 {
		v.Remaining = make(map[string]int, len(snap.Remaining))
		for p, sec := range snap.Remaining {
			v.Remaining[p.Name] = sec
		}
	}
	for _, e := range snap.Guesses {
		v.Guesses = append(v.Guesses, guessView{
			Player:     e.Player.Name,
			Guess:      e.Result.Guess,
			Feedback:   e.Result.Feedback,
			Correct:    e.Result.CorrectLetters,
			ExactMatch: e.Result.ExactMatch,
		})
	}
	if len(snap.Targets) > 0 {
		v.Targets = make(map[string]string, len(snap.Targets))
		for p, w := range snap.Targets {
			v.Targets[p.Name] = w
		}
	}
	return v
}
