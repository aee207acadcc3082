// Package resultview renders the accumulated search results: one block per
// repository, the coalesced context blocks of each file, and the rows that
// load further pages.
package resultview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/cli/go-gh/v2/pkg/text"

	"github.com/altinukshini/hound-tui/internal/highlight"
	"github.com/altinukshini/hound-tui/internal/model"
	"github.com/altinukshini/hound-tui/internal/pagination"
	"github.com/altinukshini/hound-tui/internal/results"
	"github.com/altinukshini/hound-tui/internal/ui"
)

type RowKind int

const (
	RowRepo RowKind = iota
	RowFile
	RowMore
	RowOtherRepos
)

type row struct {
	kind RowKind
	repo string
	file int
	line int // offset of the row's first line in the content
}

// Selection describes the row under the cursor.
type Selection struct {
	Kind     RowKind
	Repo     string
	Revision string
	Filename string
	// Line is the first matched line of the file, 0 for other rows.
	Line int
}

type fileKey struct {
	repo string
	file int
}

type Model struct {
	session    *results.Session
	viewport   viewport.Model
	rows       []row
	cursor     int
	collapsed  map[string]bool
	loading    map[string]bool
	loadingAll bool
	otherBusy  bool
	hyperlinks bool
	bodies     map[fileKey][]string
	width      int
	height     int
	ready      bool
}

func New(s *results.Session) Model {
	return Model{
		session:   s,
		collapsed: map[string]bool{},
		loading:   map[string]bool{},
		bodies:    map[fileKey][]string{},
	}
}

// SetHyperlinks turns pattern links into terminal hyperlinks.
func (m *Model) SetHyperlinks(on bool) {
	m.hyperlinks = on
	m.bodies = map[fileKey][]string{}
}

// Refresh rebuilds the content after the session changed, keeping the
// cursor on the same repository and file where possible.
func (m *Model) Refresh() {
	var keep *row
	if m.cursor < len(m.rows) {
		r := m.rows[m.cursor]
		keep = &r
	}
	m.bodies = map[fileKey][]string{}
	m.render()
	m.cursor = 0
	if keep != nil {
		for i, r := range m.rows {
			if r.kind == keep.kind && r.repo == keep.repo && r.file == keep.file {
				m.cursor = i
				break
			}
		}
	}
	m.render()
	m.follow()
}

// Reset clears per-search view state for a new search.
func (m *Model) Reset() {
	m.collapsed = map[string]bool{}
	m.loading = map[string]bool{}
	m.otherBusy = false
	m.cursor = 0
	m.viewport.GotoTop()
	m.Refresh()
}

func (m *Model) SetLoading(repo string, loading bool) {
	if loading {
		m.loading[repo] = true
	} else {
		delete(m.loading, repo)
	}
	m.render()
}

func (m *Model) SetLoadingOther(loading bool) {
	m.otherBusy = loading
	m.render()
}

func (m *Model) SetLoadingAll(loading bool) {
	m.loadingAll = loading
}

func (m Model) Selected() (Selection, bool) {
	if m.cursor >= len(m.rows) {
		return Selection{}, false
	}
	r := m.rows[m.cursor]
	sel := Selection{Kind: r.kind, Repo: r.repo}
	if r.kind == RowOtherRepos {
		return sel, true
	}
	repo, ok := m.session.Repo(r.repo)
	if !ok {
		return Selection{}, false
	}
	sel.Revision = repo.Revision
	if r.kind == RowFile && r.file < len(repo.Files) {
		f := repo.Files[r.file]
		sel.Filename = f.Filename
		if len(f.Matches) > 0 {
			sel.Line = f.Matches[0].LineNumber
		}
	}
	return sel, true
}

// ToggleSelected collapses or expands the repository under the cursor.
func (m *Model) ToggleSelected() {
	if m.cursor >= len(m.rows) || m.rows[m.cursor].kind == RowOtherRepos {
		return
	}
	repo := m.rows[m.cursor].repo
	m.collapsed[repo] = !m.collapsed[repo]
	m.moveToRepo(repo)
}

// ToggleAll collapses every repository, or expands them all when all are
// collapsed already.
func (m *Model) ToggleAll() {
	rs := m.session.Results()
	all := len(rs) > 0
	for _, r := range rs {
		if !m.collapsed[r.Name] {
			all = false
			break
		}
	}
	for _, r := range rs {
		m.collapsed[r.Name] = !all
	}
	repo := ""
	if m.cursor < len(m.rows) {
		repo = m.rows[m.cursor].repo
	}
	m.moveToRepo(repo)
}

func (m *Model) moveToRepo(repo string) {
	m.render()
	for i, r := range m.rows {
		if r.kind == RowRepo && r.repo == repo {
			m.cursor = i
			break
		}
	}
	m.render()
	m.follow()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, ui.Keys.Down):
			m.move(1)
		case key.Matches(msg, ui.Keys.Up):
			m.move(-1)
		case key.Matches(msg, ui.Keys.PageDown):
			m.viewport.PageDown()
			m.cursorToViewport()
		case key.Matches(msg, ui.Keys.PageUp):
			m.viewport.PageUp()
			m.cursorToViewport()
		case key.Matches(msg, ui.Keys.Top):
			m.move(-len(m.rows))
		case key.Matches(msg, ui.Keys.Bottom):
			m.move(len(m.rows))
		case key.Matches(msg, ui.Keys.Toggle):
			m.ToggleSelected()
		case key.Matches(msg, ui.Keys.ToggleAll):
			m.ToggleAll()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height
		}
		m.bodies = map[fileKey][]string{}
		m.render()
		m.follow()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) move(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.rows)-1)
	m.render()
	m.follow()
}

// follow scrolls so the cursor row is visible.
func (m *Model) follow() {
	if !m.ready || m.cursor >= len(m.rows) {
		return
	}
	line := m.rows[m.cursor].line
	if line < m.viewport.YOffset {
		m.viewport.SetYOffset(line)
	} else if line >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

// cursorToViewport puts the cursor on the first row visible after a page
// scroll.
func (m *Model) cursorToViewport() {
	for i, r := range m.rows {
		if r.line >= m.viewport.YOffset {
			m.cursor = i
			break
		}
	}
	offset := m.viewport.YOffset
	m.render()
	m.viewport.SetYOffset(offset)
}

// --- Rendering ---

func (m *Model) render() {
	lines, rows := m.build()
	m.rows = rows
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
	if m.cursor < len(m.rows) {
		at := m.rows[m.cursor].line
		lines[at] = ui.StyleCursor.Width(max(m.width, 1)).Render(ansi.Truncate(lines[at], max(m.width, 1), ""))
	}
	if m.ready {
		m.viewport.SetContent(strings.Join(lines, "\n"))
	}
}

func (m *Model) build() ([]string, []row) {
	var lines []string
	var rows []row

	add := func(r row, s string) {
		r.line = len(lines)
		rows = append(rows, r)
		lines = append(lines, m.clip(s))
	}

	if !m.session.Searched() {
		return []string{"", ui.StyleMuted.Render("  Press / to search")}, nil
	}
	rs := m.session.Results()
	if len(rs) == 0 {
		if m.session.Params().Query == "" {
			return []string{"", ui.StyleMuted.Render("  Press / to search")}, nil
		}
		return []string{"", ui.StyleMuted.Render("  No results")}, nil
	}

	for _, r := range rs {
		add(row{kind: RowRepo, repo: r.Name}, m.repoHeader(r))
		if m.collapsed[r.Name] {
			continue
		}
		for i, f := range r.Files {
			add(row{kind: RowFile, repo: r.Name, file: i}, "   "+ui.StyleFile.Render(f.Filename))
			lines = append(lines, m.fileBody(r.Name, i)...)
		}
		if next, ok := pagination.NextMatchPage(r); ok {
			add(row{kind: RowMore, repo: r.Name}, m.moreLabel(r, next))
		}
		lines = append(lines, "")
	}

	if m.session.HasOtherRepos() {
		n := m.session.Pagination().OtherRepos
		noun := "repositories"
		if n == 1 {
			noun = "repository"
		}
		label := fmt.Sprintf(" %s Search more results in %s other %s", ui.MoreIcon(m.otherBusy), ui.FormatNumber(n), noun)
		if m.otherBusy {
			label = " " + ui.MoreIcon(true) + " Searching other repositories..."
		}
		add(row{kind: RowOtherRepos}, label)
	}
	return lines, rows
}

func (m Model) repoHeader(r model.RepoResult) string {
	counts := text.Pluralize(r.FilesWithMatch, "file")
	if rem := r.Remaining(); rem > 0 {
		counts = fmt.Sprintf("%s of %s files", ui.FormatNumber(len(r.Files)), ui.FormatNumber(r.FilesWithMatch))
	}
	return fmt.Sprintf(" %s %s  %s", ui.FoldIcon(m.collapsed[r.Name]), ui.StyleRepo.Render(r.Name), ui.StyleMuted.Render(counts))
}

func (m Model) moreLabel(r model.RepoResult, next model.Range) string {
	n := r.Remaining()
	if !next.Open {
		n = next.End - next.Start
	}
	label := fmt.Sprintf("Load %s from %s", text.Pluralize(n, "more file"), r.Name)
	if m.loading[r.Name] {
		label = "Loading..."
	}
	return "   " + ui.MoreIcon(m.loading[r.Name]) + " " + ui.StyleInfo.Render(label)
}

func (m *Model) fileBody(repo string, file int) []string {
	k := fileKey{repo, file}
	if body, ok := m.bodies[k]; ok {
		return body
	}

	re := m.session.Regexp()
	rules := m.session.Rules(repo)
	var body []string
	for i, block := range m.session.Blocks(repo, file) {
		if i > 0 {
			body = append(body, "       "+ui.StyleMuted.Render("…"))
		}
		for _, l := range block {
			num := ui.StyleLineNumber.Render(fmt.Sprint(l.Number))
			if l.IsMatch {
				num = ui.StyleLineNumber.Foreground(ui.ColorWarning).Render(fmt.Sprint(l.Number))
			}
			spans := highlight.Compose(l, re, rules)
			body = append(body, m.clip(num+"  "+ui.RenderSpans(spans, m.hyperlinks)))
		}
	}
	m.bodies[k] = body
	return body
}

func (m Model) clip(s string) string {
	if m.width <= 0 {
		return s
	}
	return ansi.Truncate(s, m.width, "…")
}

func (m Model) View() string {
	if !m.ready {
		return ""
	}
	return m.viewport.View()
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{
		ui.Keys.MoreMatches,
		ui.Keys.OtherRepos,
		ui.Keys.Browse,
		ui.Keys.CopyPath,
		ui.Keys.Toggle,
	}
}
