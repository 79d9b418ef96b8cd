package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"flashdeck/internal/config"
	"flashdeck/internal/deck"
	"flashdeck/internal/history"
	"flashdeck/internal/library"
	"flashdeck/internal/model"
	"flashdeck/internal/session"
	"flashdeck/internal/store"
)

type view int

const (
	viewMenu view = iota
	viewStudy
	viewResults
	viewEditor
	viewLibrary
	viewHistory
	viewSettings
)

type confirmAction int

const (
	confirmQuitSession confirmAction = iota
	confirmClearHistory
	confirmDiscardEditor
	confirmDeleteCard
)

const (
	focusName = iota
	focusFront
	focusBack
)

type tickMsg struct {
	gen int
}

type catalogMsg struct {
	items []library.Item
	err   error
}

type remoteDeckMsg struct {
	gen   int
	title string
	cards []model.Card
	err   error
}

type modalState struct {
	title       string
	message     string
	confirmText string
	action      confirmAction
	alert       bool
}

// Model implements the Bubble Tea study UI.
type Model struct {
	store    *store.Store
	repo     *deck.Repository
	editor   *deck.Editor
	engine   *session.Engine
	log      *history.Log
	lib      *library.Service
	settings config.Settings

	view   view
	width  int
	height int

	mode    model.Mode
	status  deck.Status
	infoMsg string

	timerGen int
	result   session.Result

	nameInput   textinput.Model
	frontInput  textinput.Model
	backInput   textinput.Model
	editorFocus int

	libItems   []library.Item
	libIndex   int
	libLoading bool
	spin       spinner.Model

	histTable   table.Model
	histSummary history.Summary
	histEmpty   bool

	secondsInput textinput.Model
	settingsErr  string

	modal *modalState
}

// NewModel constructs the study TUI model.
func NewModel(st *store.Store, repo *deck.Repository, ed *deck.Editor, eng *session.Engine, log *history.Log, lib *library.Service, settings config.Settings, status deck.Status, mode model.Mode) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		store:    st,
		repo:     repo,
		editor:   ed,
		engine:   eng,
		log:      log,
		lib:      lib,
		settings: settings,
		status:   status,
		mode:     mode,
		spin:     sp,
	}
	m.nameInput = newInput("Deck name", 64)
	m.frontInput = newInput("Question", 256)
	m.backInput = newInput("Answer", 256)
	m.secondsInput = newInput("Seconds", 5)
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	return in
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m.handleTick(msg)
	case catalogMsg:
		m.libLoading = false
		if msg.err != nil {
			logErrf("failed to build library index: %v\n", msg.err)
		}
		m.libItems = msg.items
		if m.libIndex >= len(m.libItems) {
			m.libIndex = 0
		}
		return m, nil
	case remoteDeckMsg:
		return m.handleRemoteDeck(msg)
	case spinner.TickMsg:
		if !m.libLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.modal != nil {
			return m.handleModalKey(msg)
		}
		switch m.view {
		case viewMenu:
			return m.updateMenu(msg)
		case viewStudy:
			return m.updateStudy(msg)
		case viewResults:
			return m.updateResults(msg)
		case viewEditor:
			return m.updateEditor(msg)
		case viewLibrary:
			return m.updateLibrary(msg)
		case viewHistory:
			return m.updateHistory(msg)
		case viewSettings:
			return m.updateSettings(msg)
		}
	}
	return m, nil
}

func (m *Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	again, err := m.engine.Tick(context.Background(), msg.gen)
	if err != nil {
		logErrf("failed to record session: %v\n", err)
	}
	if m.engine.Phase() == session.PhaseFinished && m.view == viewStudy {
		m.finishSession()
	}
	if again {
		return m, tickCmd(msg.gen)
	}
	return m, nil
}

func (m *Model) handleRemoteDeck(msg remoteDeckMsg) (tea.Model, tea.Cmd) {
	m.libLoading = false
	if msg.err != nil {
		// The previously active deck stays untouched.
		m.showAlert("Download failed", "Could not fetch the deck. Check your connection and try again.")
		return m, nil
	}
	if !m.repo.Adopt(msg.gen, msg.cards, msg.title) {
		// A newer selection won the race; drop this result.
		return m, nil
	}
	m.infoMsg = fmt.Sprintf("Deck: %s (%d cards)", msg.title, len(msg.cards))
	m.view = viewMenu
	return m, nil
}

func (m *Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal.alert {
		switch msg.String() {
		case "enter", "esc", " ":
			m.modal = nil
		}
		return m, nil
	}
	switch msg.String() {
	case "y", "enter":
		action := m.modal.action
		m.modal = nil
		return m.runConfirmed(action)
	case "n", "esc":
		m.modal = nil
	}
	return m, nil
}

func (m *Model) runConfirmed(action confirmAction) (tea.Model, tea.Cmd) {
	switch action {
	case confirmQuitSession:
		if err := m.engine.Quit(context.Background()); err != nil {
			logErrf("failed to quit session: %v\n", err)
		}
		m.finishSession()
	case confirmClearHistory:
		if err := m.log.Clear(context.Background()); err != nil {
			logErrf("failed to clear history: %v\n", err)
		}
		m.loadHistory()
	case confirmDiscardEditor:
		m.blurEditorInputs()
		m.view = viewMenu
	case confirmDeleteCard:
		if err := m.editor.DeleteSelected(); err != nil {
			m.showAlert("Not allowed", "The deck must keep at least 1 card.")
			return m, nil
		}
		m.syncEditorInputs()
	}
	return m, nil
}

func (m *Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "s", "enter":
		return m.startSession()
	case "m":
		if m.mode == model.ModeFree {
			m.mode = model.ModeSpeed
		} else {
			m.mode = model.ModeFree
		}
	case "n":
		m.editor.StartCreate()
		m.openEditor()
	case "e":
		if !m.repo.HasDeck() {
			m.showAlert("Attention", "No deck loaded to edit.")
			return m, nil
		}
		m.editor.StartEdit(m.repo.Active(), m.repo.Name())
		m.openEditor()
	case "l":
		return m.openLibrary()
	case "h":
		m.loadHistory()
		m.view = viewHistory
	case "o":
		m.secondsInput.SetValue(strconv.Itoa(m.settings.SpeedModeSeconds))
		m.secondsInput.Focus()
		m.settingsErr = ""
		m.view = viewSettings
	}
	return m, nil
}

func (m *Model) startSession() (tea.Model, tea.Cmd) {
	gen, err := m.engine.Start(m.repo.Active(), m.repo.Name(), m.mode, m.settings.SpeedModeSeconds)
	if err != nil {
		m.showAlert("Ops!", "No deck loaded to study.")
		return m, nil
	}
	m.timerGen = gen
	m.view = viewStudy
	return m, tickCmd(gen)
}

func (m *Model) finishSession() {
	m.result = m.engine.Result()
	m.view = viewResults
}

func (m *Model) updateStudy(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ", "enter":
		m.engine.Reveal()
	case "r":
		m.engine.ToggleReview()
	case "c":
		return m.record(session.OutcomeCorrect)
	case "w":
		return m.record(session.OutcomeWrong)
	case "s":
		return m.record(session.OutcomeSkipped)
	case "q", "esc":
		m.modal = &modalState{
			title:       "Quit the session?",
			message:     "Current progress will be recorded and you will return to the menu.",
			confirmText: "Quit",
			action:      confirmQuitSession,
		}
	}
	return m, nil
}

func (m *Model) record(outcome session.Outcome) (tea.Model, tea.Cmd) {
	if err := m.engine.Record(context.Background(), outcome); err != nil {
		// Judging before the reveal is ignored; the footer shows the keys.
		return m, nil
	}
	if m.engine.Phase() == session.PhaseFinished {
		m.finishSession()
	}
	return m, nil
}

func (m *Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", "q":
		m.infoMsg = ""
		m.view = viewMenu
	}
	return m, nil
}

func (m *Model) openEditor() {
	m.editorFocus = focusFront
	m.syncEditorInputs()
	m.view = viewEditor
}

func (m *Model) syncEditorInputs() {
	card := m.editor.SelectedCard()
	m.nameInput.SetValue(m.editor.Name())
	m.frontInput.SetValue(card.Front)
	m.backInput.SetValue(card.Back)
	m.applyEditorFocus()
}

func (m *Model) applyEditorFocus() {
	m.nameInput.Blur()
	m.frontInput.Blur()
	m.backInput.Blur()
	switch m.editorFocus {
	case focusName:
		m.nameInput.Focus()
	case focusFront:
		m.frontInput.Focus()
	case focusBack:
		m.backInput.Focus()
	}
}

func (m *Model) blurEditorInputs() {
	m.nameInput.Blur()
	m.frontInput.Blur()
	m.backInput.Blur()
}

func (m *Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.editorFocus = (m.editorFocus + 1) % 3
		m.applyEditorFocus()
		return m, nil
	case "shift+tab":
		m.editorFocus = (m.editorFocus + 2) % 3
		m.applyEditorFocus()
		return m, nil
	case "up":
		m.editor.Select(m.editor.Selected() - 1)
		m.syncEditorInputs()
		return m, nil
	case "down":
		m.editor.Select(m.editor.Selected() + 1)
		m.syncEditorInputs()
		return m, nil
	case "ctrl+a":
		m.editor.AddCard()
		m.editorFocus = focusFront
		m.syncEditorInputs()
		return m, nil
	case "ctrl+d":
		if len(m.editor.Cards()) <= 1 {
			m.showAlert("Not allowed", "The deck must keep at least 1 card.")
			return m, nil
		}
		m.modal = &modalState{
			title:       "Delete this card?",
			message:     "This cannot be undone.",
			confirmText: "Delete",
			action:      confirmDeleteCard,
		}
		return m, nil
	case "ctrl+s":
		return m.saveEditor()
	case "ctrl+e":
		return m.exportEditor()
	case "esc":
		m.modal = &modalState{
			title:       "Discard changes?",
			message:     "If you leave now, the deck will not be saved.",
			confirmText: "Leave without saving",
			action:      confirmDiscardEditor,
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.editorFocus {
	case focusName:
		m.nameInput, cmd = m.nameInput.Update(msg)
		m.editor.SetName(m.nameInput.Value())
	case focusFront:
		m.frontInput, cmd = m.frontInput.Update(msg)
		m.editor.UpdateField(deck.FieldFront, m.frontInput.Value())
	case focusBack:
		m.backInput, cmd = m.backInput.Update(msg)
		m.editor.UpdateField(deck.FieldBack, m.backInput.Value())
	}
	return m, cmd
}

func (m *Model) saveEditor() (tea.Model, tea.Cmd) {
	_, err := m.repo.CommitEdited(context.Background(), m.editor.Cards(), m.editor.Name())
	if err != nil {
		if errors.Is(err, deck.ErrEmptyDeck) {
			m.showAlert("Incomplete", "Add at least one complete question and answer.")
			return m, nil
		}
		m.showAlert("Save failed", "The deck could not be stored.")
		logErrf("failed to save deck: %v\n", err)
		return m, nil
	}
	m.blurEditorInputs()
	m.infoMsg = fmt.Sprintf("Deck: %s (%d cards)", m.repo.Name(), len(m.repo.Active()))
	m.view = viewMenu
	m.showAlert("Saved", "Deck stored in the app.")
	return m, nil
}

func (m *Model) exportEditor() (tea.Model, tea.Cmd) {
	raw, err := m.editor.Export()
	if err != nil {
		m.showAlert("Empty", "There is nothing to export.")
		return m, nil
	}
	name := strings.TrimSpace(m.editor.Name())
	if name == "" {
		name = "backup-deck"
	}
	path := name + ".json"
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		m.showAlert("Export failed", "The file could not be written.")
		logErrf("failed to export deck: %v\n", err)
		return m, nil
	}
	m.showAlert("Exported", "Deck written to "+path)
	return m, nil
}

func (m *Model) openLibrary() (tea.Model, tea.Cmd) {
	m.view = viewLibrary
	m.libLoading = true
	m.libItems = nil
	m.libIndex = 0
	return m, tea.Batch(m.spin.Tick, m.loadCatalogCmd())
}

func (m *Model) loadCatalogCmd() tea.Cmd {
	return func() tea.Msg {
		items, err := m.lib.BuildIndex(context.Background())
		return catalogMsg{items: items, err: err}
	}
}

func (m *Model) updateLibrary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.view = viewMenu
	case "up", "k":
		if m.libIndex > 0 {
			m.libIndex--
		}
	case "down", "j":
		if m.libIndex < len(m.libItems)-1 {
			m.libIndex++
		}
	case "enter":
		if m.libLoading || len(m.libItems) == 0 {
			return m, nil
		}
		item := m.libItems[m.libIndex]
		if item.Source == library.SourceLocal {
			m.repo.SelectLocal(item.Cards, item.Title)
			m.infoMsg = fmt.Sprintf("Deck: %s (%d cards)", item.Title, len(item.Cards))
			m.view = viewMenu
			return m, nil
		}
		gen := m.repo.Begin()
		m.libLoading = true
		return m, tea.Batch(m.spin.Tick, m.fetchDeckCmd(gen, item))
	}
	return m, nil
}

func (m *Model) fetchDeckCmd(gen int, item library.Item) tea.Cmd {
	return func() tea.Msg {
		cards, err := m.lib.FetchDeck(context.Background(), item.File)
		return remoteDeckMsg{gen: gen, title: item.Title, cards: cards, err: err}
	}
}

func (m *Model) loadHistory() {
	entries, err := m.log.List(context.Background())
	if err != nil {
		logErrf("failed to load history: %v\n", err)
		entries = nil
	}
	m.histEmpty = len(entries) == 0
	m.histSummary = history.Summarize(entries)
	m.histTable = buildHistoryTable(entries, m.height)
}

func (m *Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.view = viewMenu
		return m, nil
	case "x":
		if m.histEmpty {
			return m, nil
		}
		m.modal = &modalState{
			title:       "Clear all history?",
			message:     "Every recorded session will be removed.",
			confirmText: "Clear",
			action:      confirmClearHistory,
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.histTable, cmd = m.histTable.Update(msg)
	return m, cmd
}

func (m *Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.secondsInput.Blur()
		m.view = viewMenu
		return m, nil
	case "enter":
		n, err := strconv.Atoi(strings.TrimSpace(m.secondsInput.Value()))
		if err != nil || n <= 0 {
			m.settingsErr = "Enter a whole number greater than zero."
			return m, nil
		}
		s := config.Settings{SpeedModeSeconds: n}
		if err := config.SaveSettings(context.Background(), m.store, s); err != nil {
			m.settingsErr = "Could not save settings."
			logErrf("failed to save settings: %v\n", err)
			return m, nil
		}
		m.settings = s
		m.secondsInput.Blur()
		m.view = viewMenu
		return m, nil
	}
	var cmd tea.Cmd
	m.secondsInput, cmd = m.secondsInput.Update(msg)
	return m, cmd
}

func (m *Model) showAlert(title, message string) {
	m.modal = &modalState{title: title, message: message, alert: true}
}

func buildHistoryTable(entries []model.HistoryEntry, height int) table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 17},
		{Title: "Deck", Width: 22},
		{Title: "Correct", Width: 8},
		{Title: "Wrong", Width: 8},
		{Title: "Time", Width: 7},
	}
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.Row{
			e.Date,
			truncate(e.Deck, 22),
			strconv.Itoa(e.Correct),
			strconv.Itoa(e.Wrong),
			fmt.Sprintf("%ds", e.ElapsedSeconds),
		})
	}
	tableHeight := height - 8
	if tableHeight < 3 {
		tableHeight = 3
	}
	if tableHeight > len(rows)+1 {
		tableHeight = len(rows) + 1
	}
	return table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(tableHeight),
		table.WithFocused(true),
	)
}

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
