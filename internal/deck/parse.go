// Package deck manages the active flashcard deck: import, persistence,
// editing, and export.
package deck

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"

	"flashdeck/internal/model"
)

// Import and validation failures.
var (
	ErrParse         = errors.New("file is not valid JSON")
	ErrNotArray      = errors.New("deck file must be a JSON array")
	ErrEmptyFile     = errors.New("deck file contains no cards")
	ErrMissingFields = errors.New("cards must have front and back fields")
	ErrEmptyDeck     = errors.New("deck has no valid cards")
	ErrMinimumCard   = errors.New("deck must keep at least one card")
)

// ParseCards decodes a deck file. The shape check deliberately samples only
// the first element; later elements are accepted as-is so that decks written
// by hand with occasional blanks still load.
func ParseCards(raw []byte) ([]model.Card, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, ErrParse
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, ErrNotArray
	}
	if len(arr) == 0 {
		return nil, ErrEmptyFile
	}
	first, ok := arr[0].(map[string]any)
	if !ok {
		return nil, ErrMissingFields
	}
	if !hasStringField(first, "front") || !hasStringField(first, "back") {
		return nil, ErrMissingFields
	}
	var cards []model.Card
	if err := json.Unmarshal(raw, &cards); err != nil {
		return nil, ErrParse
	}
	return cards, nil
}

func hasStringField(m map[string]any, key string) bool {
	s, ok := m[key].(string)
	return ok && s != ""
}

// Clean drops cards whose front or back is empty after trimming.
func Clean(cards []model.Card) []model.Card {
	out := make([]model.Card, 0, len(cards))
	for _, c := range cards {
		if c.Valid() {
			out = append(out, c)
		}
	}
	return out
}

// DeriveName turns a file path into a deck display name.
func DeriveName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ExportJSON serializes cleaned cards as a pretty-printed array.
func ExportJSON(cards []model.Card) ([]byte, error) {
	clean := Clean(cards)
	if len(clean) == 0 {
		return nil, ErrEmptyDeck
	}
	return json.MarshalIndent(clean, "", "  ")
}
