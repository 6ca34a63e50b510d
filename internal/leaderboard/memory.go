package leaderboard

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/roach88/barista/internal/game"
)

// Memory is an in-memory leaderboard with the same bounded top-N
// semantics as Store. Used by tests and the scenario harness.
//
// Thread-safety: all methods are safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	entries []game.ScoreEntry
	now     func() time.Time
}

// NewMemory creates an empty in-memory leaderboard.
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

// NewMemoryAt creates an in-memory leaderboard that stamps entries with
// the given clock, for deterministic tests.
func NewMemoryAt(now func() time.Time) *Memory {
	return &Memory{now: now}
}

// SaveScore implements game.Scoreboard.
func (m *Memory) SaveScore(_ context.Context, playerName string, score int, sloName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, game.ScoreEntry{
		PlayerName: normalizeName(playerName),
		Score:      score,
		SLOName:    sloName,
		CreatedAt:  m.now(),
	})
	sort.SliceStable(m.entries, func(i, j int) bool {
		if m.entries[i].Score != m.entries[j].Score {
			return m.entries[i].Score > m.entries[j].Score
		}
		return m.entries[i].CreatedAt.After(m.entries[j].CreatedAt)
	})
	if len(m.entries) > MaxEntries {
		m.entries = m.entries[:MaxEntries]
	}
	return nil
}

// TopScores implements game.Scoreboard.
func (m *Memory) TopScores(_ context.Context) ([]game.ScoreEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]game.ScoreEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}
