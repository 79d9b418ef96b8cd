// Package session runs one study pass over a shuffled deck copy.
package session

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"flashdeck/internal/history"
	"flashdeck/internal/model"
)

// DefaultDeckName labels history entries for decks that were never named.
const DefaultDeckName = "Deck Padrão"

var (
	// ErrEmptyDeck rejects starting a session without cards.
	ErrEmptyDeck = errors.New("cannot start a session with an empty deck")
	// ErrNotRunning rejects operations outside a running session.
	ErrNotRunning = errors.New("no session is running")
	// ErrAnswerHidden rejects judging a card before its answer was revealed.
	ErrAnswerHidden = errors.New("reveal the answer before judging")
)

// Phase is the session lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseFinished
)

// Outcome is the user's disposition for one card.
type Outcome int

const (
	OutcomeCorrect Outcome = iota
	OutcomeWrong
	OutcomeSkipped
)

// Result is the frozen summary of a finished session.
type Result struct {
	Correct int
	Wrong   int
	Skipped int
	Total   int
}

// Engine is the study-session state machine. It owns a private shuffled copy
// of the deck; the source deck is never mutated. Timing is tick-driven: the
// caller delivers one Tick per second carrying the generation token returned
// by Start, and ticks from superseded sessions are ignored. That keeps at
// most one logical timer alive by construction.
type Engine struct {
	log *history.Log
	rnd *rand.Rand

	id       string
	phase    Phase
	cards    []model.Card
	deckName string
	mode     model.Mode

	cursor      int
	revealed    bool
	showingBack bool
	stats       model.SessionStats

	elapsed   int
	remaining int
	timerGen  int
}

// New builds an engine that appends finished sessions to log. A nil rnd is
// replaced with a time-seeded source.
func New(log *history.Log, rnd *rand.Rand) *Engine {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{log: log, rnd: rnd}
}

// Start begins a new session over a shuffled copy of deck and returns the
// timer generation for this session. Any prior timer is invalidated first.
func (e *Engine) Start(deck []model.Card, name string, mode model.Mode, speedSeconds int) (int, error) {
	if len(deck) == 0 {
		return 0, ErrEmptyDeck
	}
	e.timerGen++

	cards := make([]model.Card, len(deck))
	copy(cards, deck)
	for i := len(cards) - 1; i > 0; i-- {
		j := e.rnd.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}

	e.id = uuid.NewString()
	e.phase = PhaseRunning
	e.cards = cards
	e.deckName = name
	e.mode = mode
	e.cursor = 0
	e.revealed = false
	e.showingBack = false
	e.stats = model.SessionStats{}
	e.elapsed = 0
	e.remaining = 0
	if mode == model.ModeSpeed {
		e.remaining = speedSeconds
	}
	return e.timerGen, nil
}

// Tick advances the session clock by one second. It reports whether the
// caller should schedule another tick; stale generations and non-running
// phases report false without touching state.
func (e *Engine) Tick(ctx context.Context, gen int) (bool, error) {
	if e.phase != PhaseRunning || gen != e.timerGen {
		return false, nil
	}
	e.elapsed++
	if e.mode == model.ModeSpeed {
		e.remaining--
		if e.remaining <= 0 {
			return false, e.finish(ctx)
		}
	}
	return true, nil
}

// Reveal flips the current card to its answer. Revealing twice is a no-op.
func (e *Engine) Reveal() {
	if e.phase != PhaseRunning || e.revealed {
		return
	}
	e.revealed = true
	e.showingBack = true
}

// ToggleReview flips between question and answer after a reveal, without
// affecting scoring or the reveal-once rule.
func (e *Engine) ToggleReview() {
	if e.phase != PhaseRunning || !e.revealed {
		return
	}
	e.showingBack = !e.showingBack
}

// Record registers the outcome for the current card and advances. Judging
// correct or wrong requires the answer to have been revealed; skipping is
// allowed at any time. Recording the last card finishes the session.
func (e *Engine) Record(ctx context.Context, outcome Outcome) error {
	if e.phase != PhaseRunning {
		return ErrNotRunning
	}
	switch outcome {
	case OutcomeCorrect:
		if !e.revealed {
			return ErrAnswerHidden
		}
		e.stats.Correct++
	case OutcomeWrong:
		if !e.revealed {
			return ErrAnswerHidden
		}
		e.stats.Wrong++
	case OutcomeSkipped:
		e.stats.Skipped++
	}
	e.cursor++
	e.revealed = false
	e.showingBack = false
	if e.cursor >= len(e.cards) {
		return e.finish(ctx)
	}
	return nil
}

// Quit ends the session early. Asking the user for confirmation is the
// caller's job; the engine only performs the transition.
func (e *Engine) Quit(ctx context.Context) error {
	if e.phase != PhaseRunning {
		return ErrNotRunning
	}
	return e.finish(ctx)
}

func (e *Engine) finish(ctx context.Context) error {
	e.timerGen++
	e.phase = PhaseFinished

	name := e.deckName
	if name == "" {
		name = DefaultDeckName
	}
	entry := model.HistoryEntry{
		ID:             e.id,
		Date:           time.Now().Format("02/01/2006 15:04"),
		Deck:           name,
		Correct:        e.stats.Correct,
		Wrong:          e.stats.Wrong,
		ElapsedSeconds: e.elapsed,
	}
	return e.log.Append(ctx, entry)
}

// Current returns the card under the cursor.
func (e *Engine) Current() (model.Card, bool) {
	if e.phase != PhaseRunning || e.cursor >= len(e.cards) {
		return model.Card{}, false
	}
	return e.cards[e.cursor], true
}

// Result freezes the session summary.
func (e *Engine) Result() Result {
	return Result{
		Correct: e.stats.Correct,
		Wrong:   e.stats.Wrong,
		Skipped: e.stats.Skipped,
		Total:   e.stats.Total(),
	}
}

// ID returns the session identifier.
func (e *Engine) ID() string { return e.id }

// Phase returns the lifecycle state.
func (e *Engine) Phase() Phase { return e.phase }

// Mode returns the timing mode of the session.
func (e *Engine) Mode() model.Mode { return e.mode }

// Stats returns the live counters.
func (e *Engine) Stats() model.SessionStats { return e.stats }

// Elapsed returns whole seconds since the session started.
func (e *Engine) Elapsed() int { return e.elapsed }

// Remaining returns whole seconds left in speed mode.
func (e *Engine) Remaining() int { return e.remaining }

// Revealed reports whether the current card's answer has been shown.
func (e *Engine) Revealed() bool { return e.revealed }

// ShowingBack reports which face of the current card is up.
func (e *Engine) ShowingBack() bool { return e.showingBack }

// Position returns the zero-based cursor and deck size.
func (e *Engine) Position() (int, int) {
	return e.cursor, len(e.cards)
}

// DeckName returns the name of the deck under study.
func (e *Engine) DeckName() string { return e.deckName }
