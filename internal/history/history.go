// Package history keeps a bounded log of completed study sessions.
package history

import (
	"context"

	"flashdeck/internal/model"
	"flashdeck/internal/store"
)

// MaxEntries bounds the log; appending past it drops the oldest entry.
const MaxEntries = 50

// Log is an append-only, newest-first session log persisted in the store.
type Log struct {
	store *store.Store
}

// NewLog builds a history log over the given store.
func NewLog(st *store.Store) *Log {
	return &Log{store: st}
}

// List returns all entries, newest first. A missing or corrupt log reads
// as empty.
func (l *Log) List(ctx context.Context) ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	if _, err := l.store.Get(ctx, store.KeyHistory, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Append pushes an entry to the front, truncating to MaxEntries.
func (l *Log) Append(ctx context.Context, entry model.HistoryEntry) error {
	entries, err := l.List(ctx)
	if err != nil {
		return err
	}
	entries = append([]model.HistoryEntry{entry}, entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return l.store.Set(ctx, store.KeyHistory, entries)
}

// Clear empties the log. Confirmation is the caller's responsibility.
func (l *Log) Clear(ctx context.Context) error {
	return l.store.Delete(ctx, store.KeyHistory)
}

// Summary aggregates totals across history entries.
type Summary struct {
	Sessions       int
	Correct        int
	Wrong          int
	ElapsedSeconds int
}

// Accuracy returns the fraction of judged cards answered correctly.
func (s Summary) Accuracy() float64 {
	den := s.Correct + s.Wrong
	if den == 0 {
		return 0
	}
	return float64(s.Correct) / float64(den)
}

// Summarize folds entries into totals.
func Summarize(entries []model.HistoryEntry) Summary {
	var sum Summary
	for _, e := range entries {
		sum.Sessions++
		sum.Correct += e.Correct
		sum.Wrong += e.Wrong
		sum.ElapsedSeconds += e.ElapsedSeconds
	}
	return sum
}
