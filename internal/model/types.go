// Package model defines shared data structures.
package model

import (
	"strings"
	"time"
)

// Mode selects how a study session is timed.
type Mode int

const (
	// ModeFree counts elapsed time up with no limit.
	ModeFree Mode = iota
	// ModeSpeed counts down from a configured budget and ends at zero.
	ModeSpeed
)

// String returns the config-file spelling of the mode.
func (m Mode) String() string {
	if m == ModeSpeed {
		return "speed"
	}
	return "free"
}

// ParseMode maps a config-file spelling to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free":
		return ModeFree, true
	case "speed":
		return ModeSpeed, true
	}
	return ModeFree, false
}

// Card is a single question/answer pair.
type Card struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Valid reports whether both faces are non-empty after trimming.
func (c Card) Valid() bool {
	return strings.TrimSpace(c.Front) != "" && strings.TrimSpace(c.Back) != ""
}

// SavedDeckRecord is the single persisted deck slot.
type SavedDeckRecord struct {
	Name    string    `json:"name"`
	Deck    []Card    `json:"deck"`
	SavedAt time.Time `json:"savedAt"`
}

// SessionStats counts per-card dispositions during one session.
type SessionStats struct {
	Correct int
	Wrong   int
	Skipped int
}

// Total returns the number of cards processed so far.
func (s SessionStats) Total() int {
	return s.Correct + s.Wrong + s.Skipped
}

// HistoryEntry summarizes a completed session.
type HistoryEntry struct {
	ID             string `json:"id"`
	Date           string `json:"date"`
	Deck           string `json:"deck"`
	Correct        int    `json:"correct"`
	Wrong          int    `json:"wrong"`
	ElapsedSeconds int    `json:"elapsedSeconds"`
}
