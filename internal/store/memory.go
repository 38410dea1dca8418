// internal/store/memory.go
//
// In-memory implementation of the Recorder interface.
// This is a lightweight persistence layer used when durability is not
// required, primarily in development/testing.
//
// Characteristics:
//   - Game logs kept in an append slice, word stats in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// wordStat accumulates per-word observations for the hardness score.
type wordStat struct {
	appearances int
	failures    int
	guesses     int
}

// memory is a map/slice-backed Recorder implementation.
type memory struct {
	mu    sync.RWMutex
	logs  []GameLogEntry
	stats map[string]*wordStat
}

// NewMemoryRecorder constructs a new in-memory Recorder.
func NewMemoryRecorder() Recorder {
	return &memory{stats: make(map[string]*wordStat)}
}

func (m *memory) SaveGameLog(ctx context.Context, entry GameLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, entry)
	return nil
}

func (m *memory) RecordWordResult(ctx context.Context, word string, guesses int, solved bool) error {
	word = strings.ToUpper(word)
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.stats[word]
	if !ok {
		st = &wordStat{}
		m.stats[word] = st
	}
	st.appearances++
	st.guesses += guesses
	if !solved {
		st.failures++
	}
	return nil
}

func (m *memory) HardestWords(ctx context.Context, limit int) ([]HardWordEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]HardWordEntry, 0, len(m.stats))
	for w, st := range m.stats {
		out = append(out, HardWordEntry{Word: w, Score: hardness(st)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Word < out[j].Word
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

func (m *memory) GameLogs(ctx context.Context, limit int) ([]GameLogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]GameLogEntry, 0, len(m.logs))
	for i := len(m.logs) - 1; i >= 0; i-- { // newest first
		out = append(out, m.logs[i])
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// hardness scores a word: average guesses per appearance plus a flat penalty
// for every appearance nobody solved. Mirrors the SQL in the sqlite recorder.
func hardness(st *wordStat) float64 {
	if st.appearances == 0 {
		return 0
	}
	return float64(st.guesses)/float64(st.appearances) + 2.0*float64(st.failures)
}
