package filteroverlay

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/altinukshini/hound-tui/internal/model"
	"github.com/altinukshini/hound-tui/internal/params"
	"github.com/altinukshini/hound-tui/internal/ui"
)

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Options holds the advanced search settings chosen by the user.
type Options struct {
	IgnoreCase   bool
	Files        string
	ExcludeFiles string
	Repos        []string // empty = all repositories
}

// FromParams extracts the advanced settings of p.
func FromParams(p model.SearchParams) Options {
	return Options{
		IgnoreCase:   p.IgnoreCase,
		Files:        p.FilePathInclude,
		ExcludeFiles: p.FilePathExclude,
		Repos:        params.Repos(p.RepoFilter),
	}
}

// Apply returns p with the settings of o.
func (o Options) Apply(p model.SearchParams) model.SearchParams {
	p.IgnoreCase = o.IgnoreCase
	p.FilePathInclude = o.Files
	p.FilePathExclude = o.ExcludeFiles
	p.RepoFilter = "*"
	if len(o.Repos) > 0 {
		p.RepoFilter = strings.Join(o.Repos, ",")
	}
	return p
}

// IsEmpty returns true when every setting has its default.
func (o Options) IsEmpty() bool {
	return !o.IgnoreCase && o.Files == "" && o.ExcludeFiles == "" && len(o.Repos) == 0
}

// ---------------------------------------------------------------------------
// Result message
// ---------------------------------------------------------------------------

// ResultMsg is emitted when the user applies or cancels the overlay.
type ResultMsg struct {
	Applied bool
	Options Options
}

// ---------------------------------------------------------------------------
// Field enum
// ---------------------------------------------------------------------------

type field int

const (
	fieldIgnoreCase field = iota
	fieldFiles
	fieldExclude
	fieldRepos
	fieldCount
)

const maxSuggestions = 6

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// Model is the Bubble Tea model for the advanced search overlay.
type Model struct {
	active     bool
	focused    field
	ignoreCase bool
	files      textinput.Model
	exclude    textinput.Model
	repoQuery  textinput.Model
	repoNames  []string
	repos      []string
	suggestion int
	width      int
	height     int
}

// New creates an overlay pre-populated with current. repoNames are the
// repositories offered for selection. The overlay starts active.
func New(repoNames []string, current Options) Model {
	files := textinput.New()
	files.Placeholder = `e.g. \.go$`
	files.CharLimit = 256
	files.Width = 30
	files.SetValue(current.Files)

	exclude := textinput.New()
	exclude.Placeholder = "e.g. vendor/"
	exclude.CharLimit = 256
	exclude.Width = 30
	exclude.SetValue(current.ExcludeFiles)

	repoQuery := textinput.New()
	repoQuery.Placeholder = "type to find a repository"
	repoQuery.CharLimit = 128
	repoQuery.Width = 30

	return Model{
		active:     true,
		ignoreCase: current.IgnoreCase,
		files:      files,
		exclude:    exclude,
		repoQuery:  repoQuery,
		repoNames:  repoNames,
		repos:      append([]string(nil), current.Repos...),
	}
}

// IsActive reports whether the overlay is currently visible.
func (m Model) IsActive() bool { return m.active }

// SetSize stores terminal dimensions so the overlay can centre itself.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Init satisfies the tea.Model interface.
func (m Model) Init() tea.Cmd { return nil }

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

// Update handles key events while the overlay is active.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	// When a text input is focused, let it handle most keys first.
	if m.isTextFieldFocused() {
		switch keyMsg.String() {
		case "esc":
			m.active = false
			return m, emitResult(false, Options{})
		case "up":
			m.blurTextInputs()
			m.moveFocus(-1)
			return m, nil
		case "down":
			m.blurTextInputs()
			m.moveFocus(1)
			return m, nil
		case "tab":
			m.blurTextInputs()
			m.moveFocus(1)
			return m, m.focusCurrentTextInput()
		case "shift+tab":
			m.blurTextInputs()
			m.moveFocus(-1)
			return m, m.focusCurrentTextInput()
		}

		if m.focused == fieldRepos {
			return m.updateRepoQuery(keyMsg)
		}
		if keyMsg.String() == "enter" {
			m.blurTextInputs()
			return m, nil
		}

		// Forward to the active text input.
		var cmd tea.Cmd
		if m.focused == fieldFiles {
			m.files, cmd = m.files.Update(msg)
		} else {
			m.exclude, cmd = m.exclude.Update(msg)
		}
		return m, cmd
	}

	switch keyMsg.String() {
	case "j", "down", "tab":
		m.moveFocus(1)
		return m, nil
	case "k", "up", "shift+tab":
		m.moveFocus(-1)
		return m, nil

	// Toggle / enter text input.
	case "enter", "right", "l", " ":
		if m.focused == fieldIgnoreCase {
			m.ignoreCase = !m.ignoreCase
			return m, nil
		}
		return m, m.focusCurrentTextInput()

	// Drop the last selected repository.
	case "backspace":
		if m.focused == fieldRepos && len(m.repos) > 0 {
			m.repos = m.repos[:len(m.repos)-1]
		}
		return m, nil

	// Apply.
	case "a":
		m.active = false
		return m, emitResult(true, m.buildOptions())

	// Clear.
	case "c":
		m.ignoreCase = false
		m.files.SetValue("")
		m.exclude.SetValue("")
		m.repoQuery.SetValue("")
		m.repos = nil
		return m, nil

	// Cancel.
	case "esc":
		m.active = false
		return m, emitResult(false, Options{})
	}

	return m, nil
}

func (m Model) updateRepoQuery(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if s := m.Suggestions(); m.suggestion < len(s) {
			m.repos = append(m.repos, s[m.suggestion])
			m.repoQuery.SetValue("")
			m.suggestion = 0
		}
		return m, nil
	case "ctrl+n":
		if m.suggestion < len(m.Suggestions())-1 {
			m.suggestion++
		}
		return m, nil
	case "ctrl+p":
		if m.suggestion > 0 {
			m.suggestion--
		}
		return m, nil
	case "backspace":
		if m.repoQuery.Value() == "" && len(m.repos) > 0 {
			m.repos = m.repos[:len(m.repos)-1]
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.repoQuery, cmd = m.repoQuery.Update(msg)
	m.suggestion = 0
	return m, cmd
}

// Suggestions returns the unselected repositories best matching the typed
// repository query.
func (m Model) Suggestions() []string {
	chosen := make(map[string]bool, len(m.repos))
	for _, r := range m.repos {
		chosen[r] = true
	}

	var out []string
	query := strings.TrimSpace(m.repoQuery.Value())
	if query == "" {
		for _, name := range m.repoNames {
			if !chosen[name] {
				out = append(out, name)
			}
			if len(out) == maxSuggestions {
				break
			}
		}
		return out
	}

	for _, match := range fuzzy.Find(query, m.repoNames) {
		if !chosen[match.Str] {
			out = append(out, match.Str)
		}
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

// View renders the overlay.
func (m Model) View() string {
	if !m.active {
		return ""
	}

	labelStyle := lipgloss.NewStyle().Width(14).Foreground(ui.ColorMuted)
	focusedLabelStyle := lipgloss.NewStyle().Width(14).Bold(true).Foreground(ui.ColorPrimary)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F9FAFB"))
	allStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true)

	rows := make([]string, 0, int(fieldCount)+maxSuggestions)

	for f := field(0); f < fieldCount; f++ {
		ls := labelStyle
		if f == m.focused {
			ls = focusedLabelStyle
		}

		var label, value string
		switch f {
		case fieldIgnoreCase:
			label = "Ignore case:"
			if m.ignoreCase {
				value = valueStyle.Render("[x]")
			} else {
				value = allStyle.Render("[ ]")
			}
		case fieldFiles:
			label = "Files:"
			value = m.files.View()
		case fieldExclude:
			label = "Exclude:"
			value = m.exclude.View()
		case fieldRepos:
			label = "Repos:"
			if len(m.repos) == 0 {
				value = allStyle.Render("All repositories")
			} else {
				value = valueStyle.Render(strings.Join(m.repos, ", "))
			}
		}

		cursor := "  "
		if f == m.focused {
			cursor = lipgloss.NewStyle().Foreground(ui.ColorPrimary).Render("> ")
		}

		rows = append(rows, fmt.Sprintf("%s%s %s", cursor, ls.Render(label), value))
	}

	if m.repoQuery.Focused() {
		rows = append(rows, "                 "+m.repoQuery.View())
		for i, s := range m.Suggestions() {
			line := "                   " + s
			if i == m.suggestion {
				line = lipgloss.NewStyle().Foreground(ui.ColorPrimary).Render("                 > " + s)
			}
			rows = append(rows, line)
		}
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		MarginBottom(1).
		Render("Advanced Search")

	helpText := "a: apply  c: clear  esc: cancel"
	if m.repoQuery.Focused() {
		helpText = "enter: add  ctrl+n/p: pick  bksp: remove last  tab: next"
	}
	help := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		MarginTop(1).
		Render(helpText)

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		strings.Join(rows, "\n"),
		help,
	)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPrimary).
		Padding(1, 2).
		Width(64)

	box := boxStyle.Render(body)

	// Centre the box in the terminal.
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			box)
	}
	return box
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (m *Model) moveFocus(delta int) {
	next := int(m.focused) + delta
	if next < 0 {
		next = int(fieldCount) - 1
	}
	if next >= int(fieldCount) {
		next = 0
	}
	m.focused = field(next)
}

func (m Model) isTextFieldFocused() bool {
	return m.files.Focused() || m.exclude.Focused() || m.repoQuery.Focused()
}

func (m *Model) blurTextInputs() {
	m.files.Blur()
	m.exclude.Blur()
	m.repoQuery.Blur()
}

func (m *Model) focusCurrentTextInput() tea.Cmd {
	switch m.focused {
	case fieldFiles:
		return m.files.Focus()
	case fieldExclude:
		return m.exclude.Focus()
	case fieldRepos:
		m.suggestion = 0
		return m.repoQuery.Focus()
	}
	return nil
}

func (m Model) buildOptions() Options {
	return Options{
		IgnoreCase:   m.ignoreCase,
		Files:        strings.TrimSpace(m.files.Value()),
		ExcludeFiles: strings.TrimSpace(m.exclude.Value()),
		Repos:        append([]string(nil), m.repos...),
	}
}

func emitResult(applied bool, o Options) tea.Cmd {
	return func() tea.Msg {
		return ResultMsg{Applied: applied, Options: o}
	}
}
