package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemory() *Memory {
	base := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	return NewMemoryAt(func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	})
}

func TestMemorySaveAndTopScores(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory()

	require.NoError(t, m.SaveScore(ctx, "Alice", 300, "99.9%"))
	require.NoError(t, m.SaveScore(ctx, "Bob", 500, "100%"))
	require.NoError(t, m.SaveScore(ctx, "", 400, "80%"))

	entries, err := m.TopScores(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Bob", entries[0].PlayerName)
	assert.Equal(t, DefaultPlayerName, entries[1].PlayerName)
	assert.Equal(t, "Alice", entries[2].PlayerName)
}

func TestMemoryTruncatesToBound(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory()

	for i := 1; i <= MaxEntries+5; i++ {
		require.NoError(t, m.SaveScore(ctx, "Player", i*10, "99.9%"))
	}

	entries, err := m.TopScores(ctx)
	require.NoError(t, err)
	require.Len(t, entries, MaxEntries)
	assert.Equal(t, (MaxEntries+5)*10, entries[0].Score)
}

func TestMemoryTieBreaksByRecency(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory()

	require.NoError(t, m.SaveScore(ctx, "Earlier", 200, "99.9%"))
	require.NoError(t, m.SaveScore(ctx, "Later", 200, "99.9%"))

	entries, err := m.TopScores(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Later", entries[0].PlayerName)
}

func TestMemoryTopScoresReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory()
	require.NoError(t, m.SaveScore(ctx, "Alice", 300, "99.9%"))

	entries, err := m.TopScores(ctx)
	require.NoError(t, err)
	entries[0].PlayerName = "mutated"

	again, err := m.TopScores(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice", again[0].PlayerName)
}
