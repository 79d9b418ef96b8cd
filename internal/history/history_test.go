package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"flashdeck/internal/model"
	"flashdeck/internal/store"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "flashdeck.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return NewLog(st)
}

func TestListEmpty(t *testing.T) {
	log := newTestLog(t)

	entries, err := log.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestAppendNewestFirst(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, model.HistoryEntry{Deck: "first"}))
	require.NoError(t, log.Append(ctx, model.HistoryEntry{Deck: "second"}))

	entries, err := log.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "second", entries[0].Deck)
	require.Equal(t, "first", entries[1].Deck)
}

func TestAppendCapDropsOldest(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	for i := 0; i < MaxEntries+1; i++ {
		require.NoError(t, log.Append(ctx, model.HistoryEntry{Deck: fmt.Sprintf("deck-%d", i)}))
	}

	entries, err := log.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, MaxEntries)
	require.Equal(t, fmt.Sprintf("deck-%d", MaxEntries), entries[0].Deck)
	// deck-0 fell off the end.
	require.Equal(t, "deck-1", entries[MaxEntries-1].Deck)
}

func TestClear(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, model.HistoryEntry{Deck: "x"}))
	require.NoError(t, log.Clear(ctx))

	entries, err := log.List(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSummarize(t *testing.T) {
	entries := []model.HistoryEntry{
		{Correct: 3, Wrong: 1, ElapsedSeconds: 30},
		{Correct: 1, Wrong: 3, ElapsedSeconds: 60},
	}
	sum := Summarize(entries)
	require.Equal(t, 2, sum.Sessions)
	require.Equal(t, 4, sum.Correct)
	require.Equal(t, 4, sum.Wrong)
	require.Equal(t, 90, sum.ElapsedSeconds)
	require.InDelta(t, 0.5, sum.Accuracy(), 1e-9)

	require.Zero(t, Summarize(nil).Accuracy())
}
