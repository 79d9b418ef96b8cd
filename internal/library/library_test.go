package library

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"flashdeck/internal/model"
	"flashdeck/internal/store"
)

const testCatalog = `[
	{"title": "Capitals", "description": "World capitals", "file": "capitals.json"},
	{"title": "Verbs", "description": "Irregular verbs", "file": "verbs.json"}
]`

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "flashdeck.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/decks/catalog.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testCatalog))
	})
	mux.HandleFunc("/decks/capitals.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"front":"France","back":"Paris"}]`))
	})
	mux.HandleFunc("/decks/verbs.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestBuildIndexMergesLocalAndRemote(t *testing.T) {
	st := newTestStore(t)
	srv := newCatalogServer(t)
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, store.KeySavedDeck, model.SavedDeckRecord{
		Name:    "Meu Deck",
		Deck:    []model.Card{{Front: "Q", Back: "A"}},
		SavedAt: time.Now(),
	}))

	svc := NewService(st, srv.URL+"/decks/catalog.json", srv.Client())
	items, err := svc.BuildIndex(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)

	require.Equal(t, SourceLocal, items[0].Source)
	require.Equal(t, "Meu Deck", items[0].Title)
	require.Equal(t, 1, items[0].CardCount)
	require.Len(t, items[0].Cards, 1)

	require.Equal(t, SourceRemote, items[1].Source)
	require.Equal(t, "Capitals", items[1].Title)
	require.Equal(t, "capitals.json", items[1].File)
}

func TestBuildIndexOfflineDegradesToLocal(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, store.KeySavedDeck, model.SavedDeckRecord{
		Name: "Meu Deck",
		Deck: []model.Card{{Front: "Q", Back: "A"}},
	}))

	// Nothing listens on this address.
	svc := NewService(st, "http://127.0.0.1:1/catalog.json", &http.Client{Timeout: time.Second})
	items, err := svc.BuildIndex(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, SourceLocal, items[0].Source)
}

func TestBuildIndexNoLocalDeck(t *testing.T) {
	st := newTestStore(t)
	srv := newCatalogServer(t)

	svc := NewService(st, srv.URL+"/decks/catalog.json", srv.Client())
	items, err := svc.BuildIndex(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		require.Equal(t, SourceRemote, item.Source)
	}
}

func TestFetchDeck(t *testing.T) {
	st := newTestStore(t)
	srv := newCatalogServer(t)

	svc := NewService(st, srv.URL+"/decks/catalog.json", srv.Client())
	cards, err := svc.FetchDeck(context.Background(), "capitals.json")
	require.NoError(t, err)
	require.Equal(t, []model.Card{{Front: "France", Back: "Paris"}}, cards)
}

func TestFetchDeckNotArray(t *testing.T) {
	st := newTestStore(t)
	srv := newCatalogServer(t)

	svc := NewService(st, srv.URL+"/decks/catalog.json", srv.Client())
	_, err := svc.FetchDeck(context.Background(), "verbs.json")
	require.ErrorIs(t, err, ErrNotArray)
}

func TestFetchDeckMissingFile(t *testing.T) {
	st := newTestStore(t)
	srv := newCatalogServer(t)

	svc := NewService(st, srv.URL+"/decks/catalog.json", srv.Client())
	_, err := svc.FetchDeck(context.Background(), "missing.json")
	require.Error(t, err)
}

func TestIsActive(t *testing.T) {
	item := Item{Title: "Capitals"}
	require.True(t, IsActive(item, "Capitals"))
	require.False(t, IsActive(item, "capitals"))
	require.False(t, IsActive(item, ""))
}
