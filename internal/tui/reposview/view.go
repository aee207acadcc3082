package reposview

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cli/go-gh/v2/pkg/text"

	"github.com/altinukshini/hound-tui/internal/model"
	"github.com/altinukshini/hound-tui/internal/ui"
)

// --- Custom delegate (avoids DefaultDelegate ANSI corruption during filtering) ---

type repoDelegate struct {
	selected *map[string]bool // pointer to the model's selection map
}

func (d repoDelegate) Height() int                             { return 2 }
func (d repoDelegate) Spacing() int                            { return 0 }
func (d repoDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d repoDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ri, ok := item.(repoItem)
	if !ok {
		return
	}

	sel := *d.selected
	mark := " "
	if sel[ri.info.Name] {
		mark = ui.StyleWarning.Render("●")
	}

	matches := ""
	if ri.files > 0 {
		matches = ui.StyleSuccess.Render(text.Pluralize(ri.files, "file"))
	}

	line1 := fmt.Sprintf(" %s %s  %s", mark, ui.StyleRepo.Render(ri.info.Name), matches)
	line2 := fmt.Sprintf("    %s", ui.StyleMuted.Render(text.Truncate(max(m.Width()-4, 1), ri.info.URL)))

	if index == m.Index() {
		hl := lipgloss.NewStyle().Background(ui.ColorHighlight).Width(m.Width())
		line1 = hl.Render(line1)
		line2 = hl.Render(line2)
	}

	fmt.Fprintf(w, "%s\n%s", line1, line2)
}

// --- Item ---

type repoItem struct {
	info  model.RepoInfo
	files int
}

func (r repoItem) FilterValue() string {
	return r.info.Name + " " + r.info.URL
}

// --- Model ---

type Model struct {
	list     list.Model
	repos    []model.RepoInfo
	selected map[string]bool
	width    int
	height   int
	loading  bool
	err      error
}

func New() Model {
	sel := make(map[string]bool)
	delegate := repoDelegate{selected: &sel}

	l := list.New(nil, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowFilter(true)
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("repository", "repositories")
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.KeyMap.Filter = key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter"))
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "next page"))
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "prev page"))
	l.DisableQuitKeybindings()

	return Model{
		list:     l,
		selected: sel,
		loading:  true,
	}
}

// SetRepos replaces the listed repositories, sorted by name. files holds
// the number of files with matches per repository in the current results.
// Selections of repositories that still exist are kept.
func (m *Model) SetRepos(repos map[string]model.RepoInfo, files map[string]int) tea.Cmd {
	m.loading = false
	m.err = nil
	m.repos = m.repos[:0]
	for _, info := range repos {
		m.repos = append(m.repos, info)
	}
	sort.Slice(m.repos, func(i, j int) bool { return m.repos[i].Name < m.repos[j].Name })

	for name := range m.selected {
		if _, ok := repos[name]; !ok {
			delete(m.selected, name)
		}
	}

	items := make([]list.Item, len(m.repos))
	for i, r := range m.repos {
		items[i] = repoItem{info: r, files: files[r.Name]}
	}
	return m.list.SetItems(items)
}

func (m *Model) SetError(err error) {
	m.loading = false
	m.err = err
}

func (m Model) SelectedRepo() *model.RepoInfo {
	if item, ok := m.list.SelectedItem().(repoItem); ok {
		return &item.info
	}
	return nil
}

// SelectedNames returns the multi-selected repository names, sorted.
func (m Model) SelectedNames() []string {
	var names []string
	for name := range m.selected {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m Model) SelectionCount() int {
	return len(m.selected)
}

func (m *Model) ClearSelection() {
	for k := range m.selected {
		delete(m.selected, k)
	}
}

// Select marks names as selected, ignoring unknown repositories.
func (m *Model) Select(names []string) {
	known := map[string]bool{}
	for _, r := range m.repos {
		known[r.Name] = true
	}
	for _, n := range names {
		if known[n] {
			m.selected[n] = true
		}
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The list's updateKeybindings can disable the filter binding (e.g.
		// after SetSize with zero items); re-enable it while items exist.
		if msg.String() == "f" && !m.IsFiltering() && len(m.list.Items()) > 0 {
			m.list.KeyMap.Filter.SetEnabled(true)
		}

		// Toggle selection with space (stay on current row)
		if msg.String() == " " && !m.IsFiltering() {
			if item, ok := m.list.SelectedItem().(repoItem); ok {
				name := item.info.Name
				if m.selected[name] {
					delete(m.selected, name)
				} else {
					m.selected[name] = true
				}
			}
			return m, nil
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
		return "\n  Loading repositories..."
	}
	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v", m.err)
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
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search selected")),
		ui.Keys.Select,
		ui.Keys.Filter,
		ui.Keys.Refresh,
	}
}
