// internal/httpserver/server_test.go

package httpserver

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordduel/internal/store"
	"github.com/robalobadob/wordduel/internal/words"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	bank, err := words.FromList([]string{
		"cat", "sun", "map",
		"tree", "lion", "boat",
		"apple", "grape", "plane", "bread",
		"orange", "planet", "stream",
	})
	require.NoError(t, err)

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE users (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE COLLATE NOCASE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`)
	require.NoError(t, err)

	return New(bank, store.NewMemoryRecorder(), db)
}

func doJSON(t *testing.T, s *Server, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
	}
	return rec
}

func startDuel(t *testing.T, s *Server, req newDuelReq) duelView {
	t.Helper()
	var view duelView
	rec := doJSON(t, s, http.MethodPost, "/duel/new", req, &view)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotEmpty(t, view.GameID)
	return view
}

func multiplayerReq() newDuelReq {
	return newDuelReq{
		Mode:       "multiplayer",
		Difficulty: "normal",
		WordLength: 5,
		PlayerOne:  playerView{Name: "Alice", Human: true},
		PlayerTwo:  &playerView{Name: "Bob", Human: true},
		WordOne:    &wordChoiceReq{Word: "apple", Source: "manual"},
		WordTwo:    &wordChoiceReq{Word: "grape", Source: "manual"},
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestNewSoloDuelRandomWord(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	view := startDuel(t, s, newDuelReq{
		Mode:       "solo",
		Difficulty: "normal",
		WordLength: 4,
		PlayerOne:  playerView{Name: "Alice", Human: true},
	})

	assert.Equal(t, "in-progress", string(view.Status))
	assert.Equal(t, 4, view.WordLength)
	assert.Equal(t, "Alice", view.CurrentTurn.Name)
	assert.Empty(t, view.Targets) // secret stays hidden
}

func TestDuelGuessFlow(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	view := startDuel(t, s, multiplayerReq())

	// Alice misses: feedback comes back, turn passes to Bob.
	var res guessRes
	rec := doJSON(t, s, http.MethodPost, "/duel/guess", guessReq{GameID: view.GameID, Guess: "plane"}, &res)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Alice", res.Entry.Player)
	assert.Equal(t, "PLANE", res.Entry.Guess)
	assert.Len(t, res.Entry.Feedback, 5)
	assert.False(t, res.Entry.ExactMatch)
	assert.Equal(t, "Bob", res.Duel.CurrentTurn.Name)

	// State endpoint reflects the recorded guess.
	var got duelView
	rec = doJSON(t, s, http.MethodGet, "/duel/"+view.GameID, nil, &got)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, got.Guesses, 1)
}

func TestDuelKnowledgeFlowOverHTTP(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	view := startDuel(t, s, multiplayerReq())

	// Alice solves Bob's secret: game parks on the knowledge question.
	var res guessRes
	rec := doJSON(t, s, http.MethodPost, "/duel/guess", guessReq{GameID: view.GameID, Guess: "grape"}, &res)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, res.Entry.ExactMatch)
	assert.Equal(t, "awaiting-winner-knowledge", string(res.Duel.Status))
	require.NotNil(t, res.Duel.Provisional)
	assert.Equal(t, "Alice", res.Duel.Provisional.Name)

	// Guessing while parked conflicts.
	rec = doJSON(t, s, http.MethodPost, "/duel/guess", guessReq{GameID: view.GameID, Guess: "apple"}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Winner admits knowing the word: Bob gets one final guess.
	var after duelView
	rec = doJSON(t, s, http.MethodPost, "/duel/knowledge", knowledgeReq{GameID: view.GameID, Knew: true}, &after)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "waiting-for-final-guess", string(after.Status))
	assert.Equal(t, "Bob", after.CurrentTurn.Name)

	// Bob also solves: tie, no winner, secrets revealed.
	rec = doJSON(t, s, http.MethodPost, "/duel/guess", guessReq{GameID: view.GameID, Guess: "apple"}, &res)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "finished", string(res.Duel.Status))
	assert.Nil(t, res.Duel.Winner)
	assert.Equal(t, "GRAPE", res.Duel.Targets["Alice"])
	assert.Equal(t, "APPLE", res.Duel.Targets["Bob"])
}

func TestGuessErrorMapping(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	view := startDuel(t, s, multiplayerReq())

	// Unknown game.
	rec := doJSON(t, s, http.MethodPost, "/duel/guess", guessReq{GameID: "nope", Guess: "apple"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Not a dictionary word.
	rec = doJSON(t, s, http.MethodPost, "/duel/guess", guessReq{GameID: view.GameID, Guess: "zzzzz"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Wrong length.
	rec = doJSON(t, s, http.MethodPost, "/duel/guess", guessReq{GameID: view.GameID, Guess: "cat"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Knowledge answer out of phase.
	rec = doJSON(t, s, http.MethodPost, "/duel/knowledge", knowledgeReq{GameID: view.GameID, Knew: true}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Invalid config on creation.
	rec = doJSON(t, s, http.MethodPost, "/duel/new", newDuelReq{
		Mode:       "coop",
		Difficulty: "normal",
		WordLength: 5,
		PlayerOne:  playerView{Name: "Alice", Human: true},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDuelDeleteFreesSession(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	view := startDuel(t, s, multiplayerReq())

	rec := doJSON(t, s, http.MethodDelete, "/duel/"+view.GameID, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/duel/"+view.GameID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHardestWordsAfterFinishedDuel(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	view := startDuel(t, s, multiplayerReq())

	// Alice solves; she did not know the word; she wins outright.
	rec := doJSON(t, s, http.MethodPost, "/duel/guess", guessReq{GameID: view.GameID, Guess: "grape"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, s, http.MethodPost, "/duel/knowledge", knowledgeReq{GameID: view.GameID, Knew: false}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []store.HardWordEntry
	rec = doJSON(t, s, http.MethodGet, "/words/hardest?limit=5", nil, &entries)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, entries, 1)
	assert.Equal(t, "GRAPE", entries[0].Word)
}

func TestGameLogsRequireAuth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/logs", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupLoginMe(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	var signedUp authUser
	rec := doJSON(t, s, http.MethodPost, "/auth/signup",
		map[string]string{"username": "alice", "password": "sup3rsecret"}, &signedUp)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "alice", signedUp.Username)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// Cookie round-trips through the gated endpoint.
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	meRec := httptest.NewRecorder()
	s.Router().ServeHTTP(meRec, req)
	require.Equal(t, http.StatusOK, meRec.Code, meRec.Body.String())

	var me authUser
	require.NoError(t, json.NewDecoder(meRec.Body).Decode(&me))
	assert.Equal(t, "alice", me.Username)

	// Wrong password is rejected.
	rec = doJSON(t, s, http.MethodPost, "/auth/login",
		map[string]string{"username": "alice", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Correct password logs in.
	rec = doJSON(t, s, http.MethodPost, "/auth/login",
		map[string]string{"username": "alice", "password": "sup3rsecret"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogsWithAuthenticatedUser(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/auth/signup",
		map[string]string{"username": "bob", "password": "sup3rsecret"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()

	req := httptest.NewRequest(http.MethodGet, "/logs", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	logsRec := httptest.NewRecorder()
	s.Router().ServeHTTP(logsRec, req)
	require.Equal(t, http.StatusOK, logsRec.Code, logsRec.Body.String())

	var logs []store.GameLogEntry
	require.NoError(t, json.NewDecoder(logsRec.Body).Decode(&logs))
	assert.Empty(t, logs)
}
