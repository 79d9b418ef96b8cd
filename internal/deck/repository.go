package deck

import (
	"context"
	"strings"
	"time"

	"flashdeck/internal/model"
	"flashdeck/internal/store"
)

// DefaultSavedName names a committed deck when the user left the field blank.
const DefaultSavedName = "Meu Deck Salvo"

// Status describes the outcome of restoring the persisted deck.
type Status int

const (
	// StatusNone means no deck was saved.
	StatusNone Status = iota
	// StatusRestored means the saved deck was loaded.
	StatusRestored
	// StatusError means the saved record existed but could not be read.
	StatusError
)

// Repository is the single source of truth for the currently active deck
// and its display name. Async load completions go through Begin/Adopt so a
// stale fetch never clobbers a newer selection.
type Repository struct {
	store *store.Store

	active []model.Card
	name   string
	gen    int
}

// NewRepository builds a repository over the given store.
func NewRepository(st *store.Store) *Repository {
	return &Repository{store: st}
}

// Active returns the current deck. Callers that mutate must copy first.
func (r *Repository) Active() []model.Card {
	return r.active
}

// Name returns the current deck's display name.
func (r *Repository) Name() string {
	return r.name
}

// HasDeck reports whether an active deck with at least one card is loaded.
func (r *Repository) HasDeck() bool {
	return len(r.active) > 0
}

// LoadPersisted restores the saved deck record if one exists. Corruption is
// reported as a status, never as an error: the app starts with an empty deck.
func (r *Repository) LoadPersisted(ctx context.Context) (Status, error) {
	var rec model.SavedDeckRecord
	found, err := r.store.Get(ctx, store.KeySavedDeck, &rec)
	if err != nil {
		return StatusNone, err
	}
	if !found {
		r.adopt(nil, "")
		return StatusNone, nil
	}
	if len(rec.Deck) == 0 {
		r.adopt(nil, "")
		return StatusError, nil
	}
	r.adopt(rec.Deck, rec.Name)
	return StatusRestored, nil
}

// ImportFromFile parses raw deck-file bytes and, on success, makes the
// parsed cards the active deck with a name derived from the filename.
func (r *Repository) ImportFromFile(filename string, raw []byte) (int, error) {
	cards, err := ParseCards(raw)
	if err != nil {
		return 0, err
	}
	r.adopt(cards, DeriveName(filename))
	return len(cards), nil
}

// CommitEdited cleans and persists an edited deck as the saved record and
// makes it active. Returns the cleaned cards that were stored.
func (r *Repository) CommitEdited(ctx context.Context, cards []model.Card, name string) ([]model.Card, error) {
	clean := Clean(cards)
	if len(clean) == 0 {
		return nil, ErrEmptyDeck
	}
	if strings.TrimSpace(name) == "" {
		name = DefaultSavedName
	}
	rec := model.SavedDeckRecord{Name: name, Deck: clean, SavedAt: time.Now()}
	if err := r.store.Set(ctx, store.KeySavedDeck, rec); err != nil {
		return nil, err
	}
	r.adopt(clean, name)
	return clean, nil
}

// SelectLocal synchronously swaps the active deck and name, invalidating
// any in-flight asynchronous load.
func (r *Repository) SelectLocal(cards []model.Card, name string) {
	r.adopt(cards, name)
}

// Begin marks the start of an asynchronous deck load and returns its
// generation token.
func (r *Repository) Begin() int {
	r.gen++
	return r.gen
}

// Adopt installs the result of an asynchronous load. A completion whose
// generation is no longer current is discarded and Adopt reports false.
func (r *Repository) Adopt(gen int, cards []model.Card, name string) bool {
	if gen != r.gen {
		return false
	}
	r.active = cards
	r.name = name
	return true
}

// adopt is the synchronous path: it also invalidates in-flight async loads.
func (r *Repository) adopt(cards []model.Card, name string) {
	r.gen++
	r.active = cards
	r.name = name
}
