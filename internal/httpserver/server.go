// internal/httpserver/server.go
//
// HTTP wiring for the duel backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Duel endpoints (optional auth): POST /duel/new, POST /duel/guess,
//     POST /duel/knowledge, GET /duel/{id}, DELETE /duel/{id}.
//   - Read endpoints: GET /words/hardest (public), GET /logs (auth required).
//   - Auth endpoints under /auth/* (see auth.go).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Each duel lives behind its own session.Service; the registry maps IDs.
//   - Engine sentinel errors map onto HTTP statuses in httpStatusOf.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordduel/internal/game"
	"github.com/robalobadob/wordduel/internal/session"
	"github.com/robalobadob/wordduel/internal/store"
	"github.com/robalobadob/wordduel/internal/words"
)

// Server bundles router, session registry, word bank, recorder and DB handle.
type Server struct {
	r        *chi.Mux
	registry *Registry
	bank     *words.Bank
	recorder store.Recorder
	db       *sql.DB
}

// New constructs a Server, installs middleware, and registers routes.
func New(bank *words.Bank, recorder store.Recorder, db *sql.DB) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		registry: NewRegistry(game.NewController(bank), recorder),
		bank:     bank,
		recorder: recorder,
		db:       db,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordduel","endpoints":["/health","POST /duel/new","POST /duel/guess","POST /duel/knowledge","GET /duel/{id}","GET /words/hardest","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Duel endpoints: optional auth, guests can play
	s.r.With(s.withOptionalAuth()).Post("/duel/new", s.handleNewDuel)
	s.r.With(s.withOptionalAuth()).Post("/duel/guess", s.handleGuess)
	s.r.With(s.withOptionalAuth()).Post("/duel/knowledge", s.handleKnowledge)
	s.r.Get("/duel/{id}", s.handleDuelState)
	s.r.Delete("/duel/{id}", s.handleDuelDelete)

	// Stats + history
	s.r.Get("/words/hardest", s.handleHardestWords)
	s.r.With(s.requireAuth()).Get("/logs", s.handleGameLogs)

	// Auth (see auth.go)
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	// Debug: word bank counts per length
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(bank.Stats())
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- DUEL --------------------------------------

// Payloads for POST /duel/new.
type wordChoiceReq struct {
	Word   string `json:"word"`   // empty requests a random draw
	Source string `json:"source"` // "manual" | "random-draw"
}
type newDuelReq struct {
	Mode         string         `json:"mode"`       // "solo" | "multiplayer"
	Difficulty   string         `json:"difficulty"` // "normal" | "hard" | "expert"
	WordLength   int            `json:"wordLength"`
	TimerSeconds int            `json:"timerSeconds"`
	PlayerOne    playerView     `json:"playerOne"`
	PlayerTwo    *playerView    `json:"playerTwo,omitempty"`
	WordOne      *wordChoiceReq `json:"wordOne,omitempty"`
	WordTwo      *wordChoiceReq `json:"wordTwo,omitempty"`
}

// handleNewDuel starts a new session and returns its initial view.
func (s *Server) handleNewDuel(w http.ResponseWriter, r *http.Request) {
	var req newDuelReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}

	cfg := game.Config{
		Mode:         game.Mode(req.Mode),
		Difficulty:   game.Difficulty(req.Difficulty),
		WordLength:   req.WordLength,
		TimerSeconds: req.TimerSeconds,
		PlayerOne:    game.Player{Name: req.PlayerOne.Name, Human: req.PlayerOne.Human},
	}
	if req.PlayerTwo != nil {
		cfg.PlayerTwo = game.Player{Name: req.PlayerTwo.Name, Human: req.PlayerTwo.Human}
	}

	snap, svc, err := s.registry.Start(cfg, toWordChoice(req.WordOne), toWordChoice(req.WordTwo))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	svc.OnGameOver(func(snap session.Snapshot) {
		log.Info().
			Str("gameId", snap.GameID).
			Str("status", string(snap.Status)).
			Msg("duel finished")
	})

	log.Info().Str("gameId", snap.GameID).Str("mode", req.Mode).Msg("duel started")
	_ = json.NewEncoder(w).Encode(toDuelView(snap))
}

// Payloads for POST /duel/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Entry guessView `json:"entry"`
	Duel  duelView  `json:"duel"`
}

// handleGuess applies a guess for the player whose turn it is.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	svc, ok := s.registry.Get(req.GameID)
	if !ok {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	outcome, err := svc.SubmitGuess(req.Guess)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	snap, _ := svc.Snapshot()
	_ = json.NewEncoder(w).Encode(guessRes{
		Entry: guessView{
			Player:     outcome.Entry.Player.Name,
			Guess:      outcome.Entry.Result.Guess,
			Feedback:   outcome.Entry.Result.Feedback,
			Correct:    outcome.Entry.Result.CorrectLetters,
			ExactMatch: outcome.Entry.Result.ExactMatch,
		},
		Duel: toDuelView(snap),
	})
}

// Payload for POST /duel/knowledge.
type knowledgeReq struct {
	GameID string `json:"gameId"`
	Knew   bool   `json:"knew"`
}

// handleKnowledge answers the winner-knowledge question for a parked duel.
func (s *Server) handleKnowledge(w http.ResponseWriter, r *http.Request) {
	var req knowledgeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	svc, ok := s.registry.Get(req.GameID)
	if !ok {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	snap, err := svc.ApplyWinnerKnowledge(req.Knew)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(toDuelView(snap))
}

// handleDuelState returns the current view of one duel.
func (s *Server) handleDuelState(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.registry.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	snap, live := svc.Snapshot()
	if !live {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(toDuelView(snap))
}

// handleDuelDelete abandons a duel and frees its session.
func (s *Server) handleDuelDelete(w http.ResponseWriter, r *http.Request) {
	s.registry.Remove(chi.URLParam(r, "id"))
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// --------------------------- STATS & HISTORY --------------------------------

// handleHardestWords returns the ranked hardest-words list.
func (s *Server) handleHardestWords(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	entries, err := s.recorder.HardestWords(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("hardest words")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []store.HardWordEntry{}
	}
	_ = json.NewEncoder(w).Encode(entries)
}

// handleGameLogs returns recent finished-game records (auth required).
func (s *Server) handleGameLogs(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	logs, err := s.recorder.GameLogs(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("game logs")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	if logs == nil {
		logs = []store.GameLogEntry{}
	}
	_ = json.NewEncoder(w).Encode(logs)
}

// ------------------------------ helpers ------------------------------------

func toWordChoice(req *wordChoiceReq) *game.WordChoice {
	if req == nil {
		return nil // controller draws a random word
	}
	source := game.SourceManual
	if req.Source == string(game.SourceRandomDraw) || req.Word == "" {
		source = game.SourceRandomDraw
	}
	return &game.WordChoice{Word: req.Word, Source: source}
}

// writeEngineError maps engine sentinels onto HTTP statuses with a stable
// error string for clients.
func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, game.ErrNoSession):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrGameFinished),
		errors.Is(err, game.ErrAwaitingKnowledge),
		errors.Is(err, game.ErrNotAwaitingKnowledge):
		status = http.StatusConflict
	case errors.Is(err, game.ErrEmptyGuess),
		errors.Is(err, game.ErrWrongLength),
		errors.Is(err, game.ErrUnknownWord):
		status = http.StatusUnprocessableEntity
	}
	body, _ := json.Marshal(map[string]string{"error": err.Error()})
	http.Error(w, string(body), status)
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
