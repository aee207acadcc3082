package searchview

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/hound-tui/internal/model"
	"github.com/altinukshini/hound-tui/internal/ui"
)

// Model is the query bar above the results. While active it takes every
// key; up and down walk back through earlier queries.
type Model struct {
	input   textinput.Model
	params  model.SearchParams
	recent  []string
	recall  int // -1 = editing a fresh query
	draft   string
	width   int
	active  bool
	loading bool
}

func New() Model {
	ti := textinput.New()
	ti.Placeholder = "Search (regular expression)"
	ti.Prompt = "/ "
	ti.CharLimit = 1024

	return Model{
		input:  ti,
		recall: -1,
	}
}

func (m *Model) Activate() tea.Cmd {
	m.active = true
	m.recall = -1
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) Deactivate() {
	m.active = false
	m.input.Blur()
}

func (m Model) IsActive() bool {
	return m.active
}

// Query returns the text typed into the bar.
func (m Model) Query() string {
	return m.input.Value()
}

// SetParams shows p as the current search without submitting it.
func (m *Model) SetParams(p model.SearchParams) {
	m.params = p
	m.input.SetValue(p.Query)
	m.input.CursorEnd()
}

// Params returns the shown search with the typed query.
func (m Model) Params() model.SearchParams {
	p := m.params
	p.Query = m.input.Value()
	return p
}

func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetRecent sets the queries reachable with up and down, newest first.
func (m *Model) SetRecent(queries []string) {
	m.recent = dedupe(queries)
	m.recall = -1
}

func dedupe(queries []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, q := range queries {
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}
	return out
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.active {
			return m, nil
		}
		switch {
		case msg.String() == "enter":
			m.Deactivate()
			return m, nil // parent dispatches the search
		case key.Matches(msg, ui.Keys.Back):
			m.Deactivate()
			return m, nil
		case key.Matches(msg, ui.Keys.HistoryPrev):
			m.step(1)
			return m, nil
		case key.Matches(msg, ui.Keys.HistoryNext):
			m.step(-1)
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 6
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// step moves through recent queries; positive is older.
func (m *Model) step(delta int) {
	if len(m.recent) == 0 {
		return
	}
	if m.recall == -1 {
		m.draft = m.input.Value()
	}
	next := m.recall + delta
	if next >= len(m.recent) {
		next = len(m.recent) - 1
	}
	if next < -1 {
		next = -1
	}
	m.recall = next
	if next == -1 {
		m.input.SetValue(m.draft)
	} else {
		m.input.SetValue(m.recent[next])
	}
	m.input.CursorEnd()
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(" " + m.input.View())
	if flags := ui.SearchFlags(m.params); flags != "" {
		b.WriteString("  " + ui.StyleMuted.Render(flags))
	}
	if m.loading {
		b.WriteString("  " + lipgloss.NewStyle().Foreground(ui.ColorWarning).Render("Searching..."))
	}
	return b.String()
}
