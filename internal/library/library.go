// Package library merges the saved local deck with a remote deck catalog
// into a selectable index.
package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"flashdeck/internal/model"
	"flashdeck/internal/store"
)

// DefaultCatalogURL points at the bundled public deck catalog.
const DefaultCatalogURL = "https://raw.githubusercontent.com/flashdeck-decks/catalog/main/catalog.json"

// ErrNotArray rejects a remote deck file that is not a JSON array.
var ErrNotArray = errors.New("remote deck is not a JSON array")

// Source distinguishes where a library item comes from.
type Source int

const (
	SourceLocal Source = iota
	SourceRemote
)

// Item is a selectable deck reference. Local items carry their cards; remote
// items carry the catalog file name to fetch on demand.
type Item struct {
	Source      Source
	Title       string
	Description string
	CardCount   int
	File        string
	Cards       []model.Card
}

// CatalogEntry is one row of the remote manifest.
type CatalogEntry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	File        string `json:"file"`
}

// Service resolves catalog and deck files over HTTP.
type Service struct {
	store      *store.Store
	client     *http.Client
	catalogURL string
}

// NewService builds a library service. An empty catalogURL selects the
// default catalog; a nil client gets a timeout-bounded default.
func NewService(st *store.Store, catalogURL string, client *http.Client) *Service {
	if catalogURL == "" {
		catalogURL = DefaultCatalogURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Service{store: st, client: client, catalogURL: catalogURL}
}

// BuildIndex combines the saved local deck (if any) with the remote catalog.
// Remote unavailability is expected offline behavior: the index degrades to
// local-only without an error.
func (s *Service) BuildIndex(ctx context.Context) ([]Item, error) {
	var items []Item

	var rec model.SavedDeckRecord
	found, err := s.store.Get(ctx, store.KeySavedDeck, &rec)
	if err != nil {
		return nil, err
	}
	if found && len(rec.Deck) > 0 {
		items = append(items, Item{
			Source:    SourceLocal,
			Title:     rec.Name,
			CardCount: len(rec.Deck),
			Cards:     rec.Deck,
		})
	}

	entries, err := s.FetchCatalog(ctx)
	if err != nil {
		return items, nil
	}
	for _, entry := range entries {
		items = append(items, Item{
			Source:      SourceRemote,
			Title:       entry.Title,
			Description: entry.Description,
			File:        entry.File,
		})
	}
	return items, nil
}

// FetchCatalog downloads and decodes the remote manifest.
func (s *Service) FetchCatalog(ctx context.Context) ([]CatalogEntry, error) {
	raw, err := s.fetch(ctx, s.catalogURL)
	if err != nil {
		return nil, err
	}
	var entries []CatalogEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return entries, nil
}

// FetchDeck downloads one cataloged deck file, resolved relative to the
// catalog URL. The body must be a JSON array of cards; individual cards are
// not re-validated.
func (s *Service) FetchDeck(ctx context.Context, file string) ([]model.Card, error) {
	deckURL, err := s.resolve(file)
	if err != nil {
		return nil, err
	}
	raw, err := s.fetch(ctx, deckURL)
	if err != nil {
		return nil, err
	}
	var cards []model.Card
	if err := json.Unmarshal(raw, &cards); err != nil {
		return nil, ErrNotArray
	}
	return cards, nil
}

// IsActive reports whether an item matches the active deck name. Used for
// display highlighting only.
func IsActive(item Item, activeName string) bool {
	return activeName != "" && item.Title == activeName
}

func (s *Service) resolve(file string) (string, error) {
	base, err := url.Parse(s.catalogURL)
	if err != nil {
		return "", fmt.Errorf("invalid catalog url: %w", err)
	}
	ref, err := url.Parse(file)
	if err != nil {
		return "", fmt.Errorf("invalid deck file reference: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}

func (s *Service) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
