package deck

import (
	"strings"

	"flashdeck/internal/model"
)

// Field selects which face of a card an edit targets.
type Field int

const (
	FieldFront Field = iota
	FieldBack
)

// Editor holds an in-memory working copy of a deck. It never aliases the
// repository's cards; changes only reach the repository through CommitEdited.
// A deck under edit always keeps at least one card, though that card may
// transiently have empty fields.
type Editor struct {
	working  []model.Card
	name     string
	selected int
}

// NewEditor returns an empty editor. Call StartCreate or StartEdit before use.
func NewEditor() *Editor {
	return &Editor{selected: -1}
}

// StartCreate seeds the editor with a single blank card.
func (e *Editor) StartCreate() {
	e.working = nil
	e.name = ""
	e.selected = -1
	e.AddCard()
}

// StartEdit loads a deep copy of the given cards and selects the first.
func (e *Editor) StartEdit(cards []model.Card, name string) {
	e.working = make([]model.Card, len(cards))
	copy(e.working, cards)
	e.name = strings.TrimSuffix(name, ".json")
	e.selected = 0
}

// Cards returns the working copy.
func (e *Editor) Cards() []model.Card {
	return e.working
}

// Name returns the working deck name.
func (e *Editor) Name() string {
	return e.name
}

// SetName updates the working deck name.
func (e *Editor) SetName(name string) {
	e.name = name
}

// Selected returns the index of the selected card, or -1 when empty.
func (e *Editor) Selected() int {
	return e.selected
}

// SelectedCard returns the selected card.
func (e *Editor) SelectedCard() model.Card {
	if e.selected < 0 || e.selected >= len(e.working) {
		return model.Card{}
	}
	return e.working[e.selected]
}

// Select moves the selection. Out-of-range indexes are ignored.
func (e *Editor) Select(index int) {
	if len(e.working) == 0 {
		return
	}
	if index < 0 || index >= len(e.working) {
		return
	}
	e.selected = index
}

// UpdateField replaces one face of the selected card.
func (e *Editor) UpdateField(field Field, value string) {
	if e.selected < 0 || e.selected >= len(e.working) {
		return
	}
	if field == FieldFront {
		e.working[e.selected].Front = value
		return
	}
	e.working[e.selected].Back = value
}

// AddCard appends a blank card and selects it.
func (e *Editor) AddCard() {
	e.working = append(e.working, model.Card{})
	e.selected = len(e.working) - 1
}

// DeleteSelected removes the selected card and re-selects its predecessor.
// Deleting the last remaining card is refused.
func (e *Editor) DeleteSelected() error {
	if len(e.working) <= 1 {
		return ErrMinimumCard
	}
	e.working = append(e.working[:e.selected], e.working[e.selected+1:]...)
	if e.selected > 0 {
		e.selected--
	}
	return nil
}

// Cleaned returns the working deck with invalid cards dropped.
func (e *Editor) Cleaned() ([]model.Card, error) {
	clean := Clean(e.working)
	if len(clean) == 0 {
		return nil, ErrEmptyDeck
	}
	return clean, nil
}

// Export serializes the cleaned working deck, leaving repository state alone.
func (e *Editor) Export() ([]byte, error) {
	return ExportJSON(e.working)
}
