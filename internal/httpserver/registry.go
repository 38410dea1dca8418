// internal/httpserver/registry.go
//
// Registry of live duel sessions. Each game gets its own session.Service
// (and therefore its own timer and mutex); the registry only maps game IDs
// to services. Finished games stay resident for state reads until the
// process restarts, mirroring the in-memory game store this server grew out
// of.

package httpserver

import (
	"sync"

	"github.com/robalobadob/wordduel/internal/game"
	"github.com/robalobadob/wordduel/internal/session"
	"github.com/robalobadob/wordduel/internal/store"
	"github.com/robalobadob/wordduel/internal/timer"
)

// Registry tracks one session.Service per started game.
type Registry struct {
	mu       sync.RWMutex
	services map[string]*session.Service

	controller *game.Controller
	recorder   store.Recorder
}

// NewRegistry builds a registry sharing one controller and recorder across
// all sessions.
func NewRegistry(controller *game.Controller, recorder store.Recorder) *Registry {
	return &Registry{
		services:   make(map[string]*session.Service),
		controller: controller,
		recorder:   recorder,
	}
}

// Start creates a fresh service, starts the game on it, and registers it
// under the new game's ID.
func (r *Registry) Start(cfg game.Config, wordOne, wordTwo *game.WordChoice) (session.Snapshot, *session.Service, error) {
	svc := session.New(r.controller, timer.New(), r.recorder)
	snap, err := svc.StartNewGame(cfg, wordOne, wordTwo)
	if err != nil {
		return session.Snapshot{}, nil, err
	}
	r.mu.Lock()
	r.services[snap.GameID] = svc
	r.mu.Unlock()
	return snap, svc, nil
}

// Get looks up the service owning a game ID.
func (r *Registry) Get(id string) (*session.Service, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	svc, ok := r.services[id]
	return svc, ok
}

// Remove resets and drops a session.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	svc, ok := r.services[id]
	delete(r.services, id)
	r.mu.Unlock()
	if ok {
		svc.Reset()
	}
}

// Len reports the number of resident sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.services)
}
