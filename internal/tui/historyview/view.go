package historyview

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cli/go-gh/v2/pkg/text"

	"github.com/altinukshini/hound-tui/internal/history"
	"github.com/altinukshini/hound-tui/internal/ui"
)

type entryItem struct {
	entry history.Entry
	now   time.Time
}

func (e entryItem) Title() string {
	p := e.entry.Params()
	return fmt.Sprintf("%s  %s", p.Query, ui.StyleMuted.Render(ui.SearchFlags(p)))
}

func (e entryItem) Description() string {
	return fmt.Sprintf("%s  %s",
		text.Pluralize(e.entry.Repos, "repo"),
		text.RelativeTimeAgo(e.now, e.entry.At))
}

func (e entryItem) FilterValue() string {
	p := e.entry.Params()
	return p.Query + " " + p.FilePathInclude + " " + p.RepoFilter
}

type Model struct {
	list    list.Model
	entries []history.Entry
	now     func() time.Time
	width   int
	height  int
	loading bool
	err     error
}

func New() Model {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("search", "searches")
	l.SetFilteringEnabled(true)
	l.KeyMap.Filter = key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter"))
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "next page"))
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "prev page"))
	l.DisableQuitKeybindings()

	return Model{list: l, now: time.Now, loading: true}
}

func (m Model) SelectedEntry() *history.Entry {
	if item, ok := m.list.SelectedItem().(entryItem); ok {
		return &item.entry
	}
	return nil
}

// Recent returns the loaded entries, newest first.
func (m Model) Recent() []history.Entry {
	return m.entries
}

func (m Model) Len() int {
	return len(m.entries)
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.HistoryLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.entries = msg.Entries
		now := m.now()
		items := make([]list.Item, len(m.entries))
		for i, e := range m.entries {
			items[i] = entryItem{entry: e, now: now}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "f" && !m.IsFiltering() && len(m.list.Items()) > 0 {
			m.list.KeyMap.Filter.SetEnabled(true)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.loading {
		return "\n  Loading history..."
	}
	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v", m.err)
	}
	if len(m.entries) == 0 {
		return "\n  No searches yet"
	}
	return m.list.View()
}

func (m Model) IsFiltering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) HasActiveFilter() bool {
	return m.list.FilterState() != list.Unfiltered
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search again")),
		ui.Keys.Delete,
		ui.Keys.Clear,
	}
}
