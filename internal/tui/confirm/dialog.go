// Package confirm is the yes/no dialog shown before actions that cost many
// requests or throw away history.
package confirm

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/hound-tui/internal/ui"
)

type Action string

const (
	LoadEverything Action = "load-everything"
	DeleteSearch   Action = "delete-search"
	ClearHistory   Action = "clear-history"
)

// ResultMsg is sent once the dialog closes. Data is handed back untouched.
type ResultMsg struct {
	Action    Action
	Confirmed bool
	Data      any
}

type Model struct {
	action      Action
	title       string
	message     string
	data        any
	destructive bool
	width       int
	active      bool
	yes         bool
}

// New opens a dialog with Yes preselected.
func New(action Action, title, message string) Model {
	return Model{
		action:  action,
		title:   title,
		message: message,
		active:  true,
		yes:     true,
	}
}

// Destructive preselects No and draws the dialog in the failure color.
func (m Model) Destructive() Model {
	m.destructive = true
	m.yes = false
	return m
}

func (m Model) WithData(data any) Model {
	m.data = data
	return m
}

func (m *Model) SetWidth(w int) {
	m.width = w
}

func (m Model) IsActive() bool    { return m.active }
func (m Model) Action() Action    { return m.action }
func (m Model) YesSelected() bool { return m.yes }
func (m Model) Init() tea.Cmd     { return nil }

func (m Model) close(confirmed bool) (Model, tea.Cmd) {
	m.active = false
	result := ResultMsg{Action: m.action, Confirmed: confirmed, Data: m.data}
	return m, func() tea.Msg { return result }
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		return m.close(true)
	case "n", "N", "esc", "q":
		return m.close(false)
	case "enter":
		return m.close(m.yes)
	case "tab", "shift+tab", "left", "right", "h", "l":
		m.yes = !m.yes
	}
	return m, nil
}

func (m Model) View() string {
	if !m.active {
		return ""
	}

	accent := ui.ColorWarning
	if m.destructive {
		accent = ui.ColorFailure
	}

	width := 56
	if m.width > 0 && m.width-4 < width {
		width = max(m.width-4, 20)
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Width(width)

	title := lipgloss.NewStyle().Bold(true).Foreground(accent).Render(m.title)

	button := lipgloss.NewStyle().Padding(0, 1)
	selected := button.Bold(true).Foreground(lipgloss.Color("#F9FAFB"))
	yes, no := button.Foreground(ui.ColorMuted), button.Foreground(ui.ColorMuted)
	if m.yes {
		yes = selected.Background(ui.ColorSuccess)
	} else {
		no = selected.Background(ui.ColorFailure)
	}

	return box.Render(fmt.Sprintf("%s\n\n%s\n\n%s  %s\n\n%s",
		title, m.message,
		yes.Render("Yes"), no.Render("No"),
		ui.StyleMuted.Render("y/n to answer, tab to switch, esc to cancel")))
}
