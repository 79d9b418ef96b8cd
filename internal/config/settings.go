package config

import (
	"context"
	"errors"

	"flashdeck/internal/store"
)

// DefaultSpeedSeconds is the countdown budget used when nothing valid is stored.
const DefaultSpeedSeconds = 60

// ErrInvalidSeconds rejects a non-positive countdown budget.
var ErrInvalidSeconds = errors.New("speed mode seconds must be greater than zero")

// Settings holds runtime preferences persisted in the store.
type Settings struct {
	SpeedModeSeconds int `json:"speedModeSeconds"`
}

// LoadSettings reads persisted settings. Absent, corrupt, or invalid records
// fall back to defaults rather than failing.
func LoadSettings(ctx context.Context, st *store.Store) (Settings, error) {
	var s Settings
	found, err := st.Get(ctx, store.KeyConfig, &s)
	if err != nil {
		return Settings{}, err
	}
	if !found || s.SpeedModeSeconds <= 0 {
		return Settings{SpeedModeSeconds: DefaultSpeedSeconds}, nil
	}
	return s, nil
}

// SaveSettings validates and persists settings.
func SaveSettings(ctx context.Context, st *store.Store, s Settings) error {
	if s.SpeedModeSeconds <= 0 {
		return ErrInvalidSeconds
	}
	return st.Set(ctx, store.KeyConfig, s)
}
