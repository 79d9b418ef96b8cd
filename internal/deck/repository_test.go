package deck

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"flashdeck/internal/model"
	"flashdeck/internal/store"
)

func newTestRepo(t *testing.T) (*Repository, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "flashdeck.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return NewRepository(st), st
}

func TestLoadPersistedNone(t *testing.T) {
	repo, _ := newTestRepo(t)

	status, err := repo.LoadPersisted(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusNone, status)
	require.False(t, repo.HasDeck())
}

func TestCommitAndRestore(t *testing.T) {
	repo, st := newTestRepo(t)
	ctx := context.Background()

	cards := []model.Card{
		{Front: "Q1", Back: "A1"},
		{Front: "", Back: "invalid"},
		{Front: "Q2", Back: "A2"},
	}
	clean, err := repo.CommitEdited(ctx, cards, "Capitals")
	require.NoError(t, err)
	require.Len(t, clean, 2)
	require.Equal(t, "Capitals", repo.Name())

	fresh := NewRepository(st)
	status, err := fresh.LoadPersisted(ctx)
	require.NoError(t, err)
	require.Equal(t, StatusRestored, status)
	require.Equal(t, clean, fresh.Active())
	require.Equal(t, "Capitals", fresh.Name())
}

func TestCommitEmptyAfterValidation(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.CommitEdited(context.Background(), []model.Card{{Front: " ", Back: ""}}, "X")
	require.ErrorIs(t, err, ErrEmptyDeck)
	require.False(t, repo.HasDeck())
}

func TestCommitDefaultName(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.CommitEdited(context.Background(), []model.Card{{Front: "Q", Back: "A"}}, "   ")
	require.NoError(t, err)
	require.Equal(t, DefaultSavedName, repo.Name())
}

func TestLoadPersistedCorruptRecord(t *testing.T) {
	repo, st := newTestRepo(t)
	ctx := context.Background()

	// A record that decodes but carries no cards counts as corruption.
	require.NoError(t, st.Set(ctx, store.KeySavedDeck, map[string]any{"name": "x"}))

	status, err := repo.LoadPersisted(ctx)
	require.NoError(t, err)
	require.Equal(t, StatusError, status)
	require.False(t, repo.HasDeck())
}

func TestImportFromFile(t *testing.T) {
	repo, _ := newTestRepo(t)

	raw := []byte(`[{"front":"Q1","back":"A1"},{"front":"Q2","back":"A2"}]`)
	n, err := repo.ImportFromFile("capitals.json", raw)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "capitals", repo.Name())
	require.Len(t, repo.Active(), 2)
}

func TestImportFailureLeavesDeckUntouched(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.ImportFromFile("good.json", []byte(`[{"front":"Q","back":"A"}]`))
	require.NoError(t, err)

	_, err = repo.ImportFromFile("bad.json", []byte(`{nope`))
	require.ErrorIs(t, err, ErrParse)
	require.Equal(t, "good", repo.Name())
	require.Len(t, repo.Active(), 1)
}

func TestStaleAdoptDiscarded(t *testing.T) {
	repo, _ := newTestRepo(t)

	first := repo.Begin()
	second := repo.Begin()

	require.False(t, repo.Adopt(first, []model.Card{{Front: "old", Back: "x"}}, "old"))
	require.True(t, repo.Adopt(second, []model.Card{{Front: "new", Back: "x"}}, "new"))
	require.Equal(t, "new", repo.Name())
}

func TestSyncLoadInvalidatesInFlightFetch(t *testing.T) {
	repo, _ := newTestRepo(t)

	gen := repo.Begin()
	_, err := repo.ImportFromFile("local.json", []byte(`[{"front":"Q","back":"A"}]`))
	require.NoError(t, err)

	// The fetch that was in flight when the user imported must lose.
	require.False(t, repo.Adopt(gen, []model.Card{{Front: "remote", Back: "x"}}, "remote"))
	require.Equal(t, "local", repo.Name())
}
