package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"flashdeck/internal/deck"
	"flashdeck/internal/history"
	"flashdeck/internal/library"
	"flashdeck/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true)
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B9BD5"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6BBE6B"))
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Background(lipgloss.Color("#2B4A6F"))
	cardStyle = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	timerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C89A3A")).
			Bold(true)
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.modal != nil {
		return m.renderModal()
	}
	var content string
	switch m.view {
	case viewMenu:
		content = m.renderMenu()
	case viewStudy:
		content = m.renderStudy()
	case viewResults:
		content = m.renderResults()
	case viewEditor:
		content = m.renderEditor()
	case viewLibrary:
		content = m.renderLibrary()
	case viewHistory:
		content = m.renderHistory()
	case viewSettings:
		content = m.renderSettings()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderModal() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.modal.title))
	b.WriteString("\n\n")
	b.WriteString(wrapText(m.modal.message, 46))
	b.WriteString("\n\n")
	if m.modal.alert {
		b.WriteString(footerStyle.Render("[enter] ok"))
	} else {
		confirm := m.modal.confirmText
		if confirm == "" {
			confirm = "Confirm"
		}
		b.WriteString(footerStyle.Render(fmt.Sprintf("[y] %s  [n] cancel", strings.ToLower(confirm))))
	}
	box := modalStyle.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) deckInfoLine() string {
	if m.infoMsg != "" {
		return successStyle.Render(m.infoMsg)
	}
	if m.repo.HasDeck() {
		return infoStyle.Render(fmt.Sprintf("Deck: %s (%d cards)", m.repo.Name(), len(m.repo.Active())))
	}
	switch m.status {
	case deck.StatusError:
		return wrongStyle.Render("Saved deck could not be read.")
	default:
		return mutedStyle.Render("No deck loaded. Create, import, or pick one from the library.")
	}
}

func (m *Model) renderMenu() string {
	modeLabel := "Free (no time limit)"
	if m.mode == model.ModeSpeed {
		modeLabel = fmt.Sprintf("Speed (%d seconds)", m.settings.SpeedModeSeconds)
	}
	lines := []string{
		titleStyle.Render("FLASHDECK"),
		"",
		m.deckInfoLine(),
		"",
		fmt.Sprintf("Mode: %s", infoStyle.Render(modeLabel)),
		"",
		"[s] start session",
		"[m] switch mode",
		"[n] new deck    [e] edit deck",
		"[l] library     [h] history",
		"[o] settings    [q] quit",
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderStudy() string {
	card, ok := m.engine.Current()
	if !ok {
		return mutedStyle.Render("Finishing...")
	}
	pos, total := m.engine.Position()
	stats := m.engine.Stats()

	header := fmt.Sprintf("%s  ·  card %d/%d  ·  %s %d  %s %d  %s %d",
		truncate(m.engine.DeckName(), 24),
		pos+1, total,
		successStyle.Render("✓"), stats.Correct,
		wrongStyle.Render("✗"), stats.Wrong,
		mutedStyle.Render("→"), stats.Skipped,
	)

	var timer string
	if m.engine.Mode() == model.ModeSpeed {
		timer = timerStyle.Render(fmt.Sprintf("%ds left", m.engine.Remaining()))
	} else {
		timer = timerStyle.Render(fmt.Sprintf("%ds", m.engine.Elapsed()))
	}

	face := card.Front
	label := "QUESTION"
	if m.engine.ShowingBack() {
		face = card.Back
		label = "ANSWER"
	}
	cardWidth := 44
	if m.width > 0 && m.width-10 < cardWidth {
		cardWidth = m.width - 10
	}
	body := mutedStyle.Render(label) + "\n\n" + wrapText(face, cardWidth)
	box := cardStyle.Render(body)

	return strings.Join([]string{
		mutedStyle.Render(header),
		timer,
		"",
		box,
		"",
		footerStyle.Render(m.studyFooter()),
	}, "\n")
}

func (m *Model) studyFooter() string {
	if !m.engine.Revealed() {
		return "[space] reveal  [s] skip  [q] quit"
	}
	return "[c] correct  [w] wrong  [s] skip  [r] review  [q] quit"
}

func (m *Model) renderResults() string {
	lines := []string{
		titleStyle.Render("Session results"),
		"",
		fmt.Sprintf("%s  %d", successStyle.Render("Correct"), m.result.Correct),
		fmt.Sprintf("%s    %d", wrongStyle.Render("Wrong"), m.result.Wrong),
		fmt.Sprintf("%s  %d", mutedStyle.Render("Skipped"), m.result.Skipped),
		"",
		fmt.Sprintf("Total  %d  ·  %ds", m.result.Total, m.engine.Elapsed()),
		"",
		footerStyle.Render("[enter] back to menu"),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderEditor() string {
	cards := m.editor.Cards()
	listWidth := 26

	var list []string
	list = append(list, mutedStyle.Render(fmt.Sprintf("Cards (%d)", len(cards))))
	for i, c := range cards {
		label := c.Front
		if strings.TrimSpace(label) == "" {
			label = "(empty)"
		}
		line := truncate(fmt.Sprintf("%d. %s", i+1, label), listWidth)
		if i == m.editor.Selected() {
			line = selectedStyle.Render(line)
		} else {
			line = mutedStyle.Render(line)
		}
		list = append(list, line)
	}
	left := lipgloss.NewStyle().Width(listWidth + 2).Render(strings.Join(list, "\n"))

	form := strings.Join([]string{
		mutedStyle.Render("Name"),
		m.nameInput.View(),
		"",
		mutedStyle.Render("Front"),
		m.frontInput.View(),
		"",
		mutedStyle.Render("Back"),
		m.backInput.View(),
	}, "\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, form)
	footer := footerStyle.Render(
		"[tab] field  [↑/↓] card  [ctrl+a] add  [ctrl+d] delete  [ctrl+s] save  [ctrl+e] export  [esc] cancel")
	return strings.Join([]string{
		titleStyle.Render("Deck editor"),
		"",
		body,
		"",
		footer,
	}, "\n")
}

func (m *Model) renderLibrary() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Library"))
	b.WriteString("\n\n")

	if m.libLoading {
		b.WriteString(m.spin.View())
		b.WriteString(mutedStyle.Render(" loading..."))
		b.WriteString("\n")
	} else if len(m.libItems) == 0 {
		b.WriteString(mutedStyle.Render("No decks available. Save one or go online."))
		b.WriteString("\n")
	}

	for i, item := range m.libItems {
		tag := "[remote]"
		if item.Source == library.SourceLocal {
			tag = "[local] "
		}
		line := fmt.Sprintf("%s %s", tag, item.Title)
		if item.Source == library.SourceLocal {
			line += fmt.Sprintf(" (%d cards)", item.CardCount)
		}
		if library.IsActive(item, m.repo.Name()) {
			line += " ●"
		}
		if i == m.libIndex {
			line = selectedStyle.Render(line)
		} else {
			line = mutedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
		if item.Description != "" {
			b.WriteString(footerStyle.Render("         " + truncate(item.Description, 48)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("[↑/↓] select  [enter] load  [esc] back"))
	return b.String()
}

func (m *Model) renderHistory() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("History"))
	b.WriteString("\n\n")
	if m.histEmpty {
		b.WriteString(mutedStyle.Render("No history found."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.histTable.View())
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(summaryLine(m.histSummary)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("[x] clear  [esc] back"))
	return b.String()
}

func summaryLine(s history.Summary) string {
	return fmt.Sprintf("%d sessions  ·  %d correct  ·  %d wrong  ·  %.0f%% accuracy  ·  %ds studied",
		s.Sessions, s.Correct, s.Wrong, s.Accuracy()*100, s.ElapsedSeconds)
}

func (m *Model) renderSettings() string {
	lines := []string{
		titleStyle.Render("Settings"),
		"",
		mutedStyle.Render("Speed mode duration (seconds)"),
		m.secondsInput.View(),
	}
	if m.settingsErr != "" {
		lines = append(lines, "", wrongStyle.Render(m.settingsErr))
	}
	lines = append(lines, "", footerStyle.Render("[enter] save  [esc] back"))
	return strings.Join(lines, "\n")
}
