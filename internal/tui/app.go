package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cli/go-gh/v2/pkg/browser"
	"github.com/cli/go-gh/v2/pkg/text"

	"github.com/altinukshini/hound-tui/internal/config"
	"github.com/altinukshini/hound-tui/internal/event"
	"github.com/altinukshini/hound-tui/internal/history"
	"github.com/altinukshini/hound-tui/internal/model"
	"github.com/altinukshini/hound-tui/internal/ops"
	"github.com/altinukshini/hound-tui/internal/params"
	"github.com/altinukshini/hound-tui/internal/repourl"
	"github.com/altinukshini/hound-tui/internal/results"
	"github.com/altinukshini/hound-tui/internal/tui/confirm"
	"github.com/altinukshini/hound-tui/internal/tui/filteroverlay"
	"github.com/altinukshini/hound-tui/internal/tui/historyview"
	"github.com/altinukshini/hound-tui/internal/tui/reposview"
	"github.com/altinukshini/hound-tui/internal/tui/resultview"
	"github.com/altinukshini/hound-tui/internal/tui/searchview"
	"github.com/altinukshini/hound-tui/internal/ui"
)

type View int

const (
	ViewResults View = iota
	ViewRepos
	ViewHistory
	viewCount
)

// ReposCache drops cached repository metadata so the next load hits the
// server.
type ReposCache interface {
	Invalidate() error
}

// searchMsg starts a search from inside Update.
type searchMsg struct {
	params model.SearchParams
}

// notices collects the status text published on the session's event
// buses. Handlers run inside Update, so no locking is needed.
type notices struct {
	status string
	dirty  bool
}

func (n *notices) set(format string, args ...any) {
	n.status = fmt.Sprintf(format, args...)
	n.dirty = true
}

type App struct {
	cfg     config.Config
	session *results.Session
	history *history.Store
	cache   ReposCache
	start   model.SearchParams

	// Views
	resultView    resultview.Model
	reposView     reposview.Model
	historyView   historyview.Model
	searchView    searchview.Model
	filterOverlay filteroverlay.Model
	confirmDialog confirm.Model

	notices *notices
	subs    []*event.Subscription

	openURL  func(string) error
	copyText func(string) error

	// State
	currentView View
	width       int
	height      int
	status      string
	loadingAll  bool
	showHelp    bool
}

// NewApp wires the views to session. store and cache may be nil. A
// non-empty start query is searched as soon as the program runs;
// otherwise the query bar opens pre-filled with start's options.
func NewApp(cfg config.Config, session *results.Session, store *history.Store, cache ReposCache, start model.SearchParams) App {
	a := App{
		cfg:         cfg,
		session:     session,
		history:     store,
		cache:       cache,
		start:       start,
		resultView:  resultview.New(session),
		reposView:   reposview.New(),
		historyView: historyview.New(),
		searchView:  searchview.New(),
		notices:     &notices{},
		currentView: ViewResults,
		status:      "Loading repositories...",
		copyText:    clipboard.WriteAll,
	}
	b := browser.New("", io.Discard, io.Discard)
	a.openURL = b.Browse

	a.resultView.SetHyperlinks(!cfg.Debug)
	a.searchView.SetParams(start)
	if start.Query == "" {
		a.searchView.Activate()
	}
	a.subs = subscribe(session, a.notices)
	return a
}

// Close detaches the app from the session's event buses.
func (a App) Close() {
	for _, s := range a.subs {
		s.Unsubscribe()
	}
}

func subscribe(s *results.Session, n *notices) []*event.Subscription {
	return []*event.Subscription{
		s.Events.WillSearch.Subscribe(func(e results.SearchStarted) {
			if e.Params.Query != "" {
				n.set("Searching for %q...", e.Params.Query)
			}
		}),
		s.Events.DidSearch.Subscribe(func(e results.SearchCompleted) {
			n.set("%s", searchSummary(e))
		}),
		s.Events.WillLoadMore.Subscribe(func(e results.MoreMatchesRequested) {
			n.set("Loading more files from %s...", e.Repo)
		}),
		s.Events.DidLoadMore.Subscribe(func(e results.MoreMatchesLoaded) {
			n.set("Loaded %s from %s", text.Pluralize(e.Added, "more file"), e.Repo)
		}),
		s.Events.WillLoadOtherRepos.Subscribe(func(results.OtherReposRequested) {
			n.set("Searching other repositories...")
		}),
		s.Events.DidLoadOtherRepos.Subscribe(func(e results.OtherReposLoaded) {
			n.set("Found %s", text.Pluralize(len(e.Added), "more repo"))
		}),
		s.Events.DidLoadRepos.Subscribe(func(e results.ReposLoaded) {
			n.set("%s indexed", text.Pluralize(len(e.Repos), "repo"))
		}),
		s.Events.DidError.Subscribe(func(f results.Failure) {
			if f.Repo != "" {
				n.set("Error: %s %s: %v", f.Op, f.Repo, f.Err)
				return
			}
			n.set("Error: %s: %v", f.Op, f.Err)
		}),
	}
}

func searchSummary(e results.SearchCompleted) string {
	if e.Params.Query == "" {
		return "Ready"
	}
	if len(e.Results) == 0 {
		return fmt.Sprintf("No results for %q", e.Params.Query)
	}
	files := 0
	for _, r := range e.Results {
		files += r.FilesWithMatch
	}
	summary := fmt.Sprintf("%s in %s", text.Pluralize(files, "file"), text.Pluralize(len(e.Results), "repo"))
	if e.Stats != nil {
		summary += fmt.Sprintf("  |  %s (server %s)", ui.FormatMillis(e.Stats.TotalDuration), ui.FormatMillis(e.Stats.ServerDuration))
	}
	return summary
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.run(a.session.LoadRepos()), a.fetchHistory()}
	if a.start.Query != "" {
		p := a.start
		cmds = append(cmds, func() tea.Msg { return searchMsg{params: p} })
	} else {
		cmds = append(cmds, textinput.Blink)
	}
	return tea.Batch(cmds...)
}

// --- Commands ---

// run performs call off the Update loop and hands the reply back.
func (a App) run(call results.Call) tea.Cmd {
	if call == nil {
		return nil
	}
	return func() tea.Msg {
		return ui.ReplyMsg{Reply: call()}
	}
}

func (a App) fetchHistory() tea.Cmd {
	store, server := a.history, a.cfg.Server
	return func() tea.Msg {
		if store == nil {
			return ui.HistoryLoadedMsg{}
		}
		entries, err := store.Recent(server, 0)
		return ui.HistoryLoadedMsg{Entries: entries, Err: err}
	}
}

func (a App) recordHistory() tea.Cmd {
	p := a.session.Params()
	if a.history == nil || p.Query == "" {
		return nil
	}
	store, server, repos := a.history, a.cfg.Server, len(a.session.Results())
	return func() tea.Msg {
		return ui.HistoryRecordedMsg{Err: store.Record(server, p, repos)}
	}
}

func (a App) deleteHistory(e history.Entry) tea.Cmd {
	store := a.history
	return func() tea.Msg {
		return ui.ActionResultMsg{Action: "delete search", Err: store.Delete(e)}
	}
}

func (a App) clearHistory() tea.Cmd {
	store, server := a.history, a.cfg.Server
	return func() tea.Msg {
		return ui.ActionResultMsg{Action: "clear history", Err: store.Clear(server)}
	}
}

func (a App) browse(url string) tea.Cmd {
	open := a.openURL
	return func() tea.Msg {
		return ui.ActionResultMsg{Action: "open " + url, Err: open(url)}
	}
}

func (a App) copy(what, s string) tea.Cmd {
	copyText := a.copyText
	return func() tea.Msg {
		return ui.ActionResultMsg{Action: "copy " + what, Err: copyText(s)}
	}
}

// --- Session actions ---

func (a *App) startSearch(p model.SearchParams) tea.Cmd {
	a.loadingAll = false
	a.resultView.SetLoadingAll(false)
	call, err := a.session.StartSearch(p)
	a.syncStatus()
	if err != nil {
		a.searchView.SetLoading(false)
		return nil
	}
	a.searchView.SetParams(a.session.Params())
	a.searchView.SetLoading(call != nil)
	a.currentView = ViewResults
	a.resultView.Reset()
	return a.run(call)
}

func (a *App) loadMore(repo string) tea.Cmd {
	if !a.session.HasMore(repo) {
		return nil
	}
	call, err := a.session.LoadMoreMatches(repo)
	a.syncStatus()
	if err != nil {
		a.status = fmt.Sprintf("Error: %v", err)
		return nil
	}
	a.resultView.SetLoading(repo, true)
	return a.run(call)
}

func (a *App) loadOtherRepos() tea.Cmd {
	if !a.session.HasOtherRepos() {
		return nil
	}
	call, err := a.session.LoadOtherRepos()
	a.syncStatus()
	if err != nil {
		a.status = fmt.Sprintf("Error: %v", err)
		return nil
	}
	a.resultView.SetLoadingOther(true)
	return a.run(call)
}

// loadNext issues the next request of a "load everything" run, one at a
// time so every reply is applied before the next page is derived.
func (a *App) loadNext() tea.Cmd {
	call, repo, err := ops.Next(a.session)
	a.syncStatus()
	if err != nil || call == nil {
		a.loadingAll = false
		a.resultView.SetLoadingAll(false)
		if err != nil {
			a.status = fmt.Sprintf("Error: %v", err)
		} else {
			a.status = "All results loaded"
		}
		return nil
	}
	if repo == "" {
		a.resultView.SetLoadingOther(true)
	} else {
		a.resultView.SetLoading(repo, true)
	}
	return a.run(call)
}

func (a *App) applyReply(r results.Reply) tea.Cmd {
	err := a.session.Apply(r)
	if errors.Is(err, results.ErrStaleReply) {
		return nil
	}
	a.syncStatus()

	var cmds []tea.Cmd
	switch r.Op {
	case results.OpSearch:
		a.searchView.SetLoading(false)
		if err == nil {
			cmds = append(cmds, a.recordHistory())
		}
	case results.OpMoreMatches:
		a.resultView.SetLoading(r.Repo, false)
	case results.OpOtherRepos:
		a.resultView.SetLoadingOther(false)
	}

	a.resultView.Refresh()
	switch {
	case r.Op == results.OpRepos && err != nil:
		a.reposView.SetError(err)
	case r.Op == results.OpRepos || a.session.RepoCount() > 0:
		cmds = append(cmds, a.reposView.SetRepos(a.session.Repos(), a.fileCounts()))
	}

	if a.loadingAll {
		if err != nil {
			a.loadingAll = false
			a.resultView.SetLoadingAll(false)
		} else if r.Op != results.OpRepos {
			cmds = append(cmds, a.loadNext())
		}
	}
	return tea.Batch(cmds...)
}

func (a App) fileCounts() map[string]int {
	counts := map[string]int{}
	for _, r := range a.session.Results() {
		counts[r.Name] = r.FilesWithMatch
	}
	return counts
}

func (a *App) syncStatus() {
	if a.notices.dirty {
		a.status = a.notices.status
		a.notices.dirty = false
	}
}

// --- Update ---

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	_, isKey := msg.(tea.KeyMsg)

	// Handle confirm dialog result (arrives AFTER dialog deactivates itself)
	if result, ok := msg.(confirm.ResultMsg); ok {
		if result.Confirmed {
			switch result.Action {
			case confirm.LoadEverything:
				a.loadingAll = true
				a.resultView.SetLoadingAll(true)
				cmds = append(cmds, a.loadNext())
			case confirm.DeleteSearch:
				if e, ok := result.Data.(history.Entry); ok {
					a.status = "Deleting search..."
					cmds = append(cmds, a.deleteHistory(e))
				}
			case confirm.ClearHistory:
				a.status = "Clearing history..."
				cmds = append(cmds, a.clearHistory())
			}
		}
		return &a, tea.Batch(cmds...)
	}

	// Handle confirmation dialog input (key events while dialog is showing)
	if isKey && a.confirmDialog.IsActive() {
		var cmd tea.Cmd
		a.confirmDialog, cmd = a.confirmDialog.Update(msg)
		return &a, cmd
	}

	// Handle advanced search overlay result
	if result, ok := msg.(filteroverlay.ResultMsg); ok {
		if result.Applied {
			p := result.Options.Apply(a.searchView.Params())
			a.searchView.SetParams(p)
			if p.Query != "" {
				cmds = append(cmds, a.startSearch(p))
			} else {
				cmds = append(cmds, a.searchView.Activate())
			}
		}
		return &a, tea.Batch(cmds...)
	}

	if isKey && a.filterOverlay.IsActive() {
		var cmd tea.Cmd
		a.filterOverlay, cmd = a.filterOverlay.Update(msg)
		return &a, cmd
	}

	// Query bar takes every key while it is open
	if keyMsg, ok := msg.(tea.KeyMsg); ok && a.searchView.IsActive() {
		var cmd tea.Cmd
		a.searchView, cmd = a.searchView.Update(msg)
		cmds = append(cmds, cmd)
		if keyMsg.String() == "enter" {
			cmds = append(cmds, a.startSearch(a.searchView.Params()))
		}
		return &a, tea.Batch(cmds...)
	}

	// Handle list filter mode: keys go directly to the filtering list,
	// skip app-level handlers (tab switching, quit, etc.)
	if isKey && a.isListFiltering() {
		var cmd tea.Cmd
		switch a.currentView {
		case ViewRepos:
			a.reposView, cmd = a.reposView.Update(msg)
		case ViewHistory:
			a.historyView, cmd = a.historyView.Update(msg)
		}
		return &a, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.propagateSize()
		return &a, nil

	case searchMsg:
		cmds = append(cmds, a.startSearch(msg.params))

	case ui.ReplyMsg:
		cmds = append(cmds, a.applyReply(msg.Reply))

	case ui.HistoryLoadedMsg:
		if msg.Err != nil {
			a.status = fmt.Sprintf("Error loading history: %v", msg.Err)
		}
		var queries []string
		for _, e := range msg.Entries {
			queries = append(queries, e.Params().Query)
		}
		a.searchView.SetRecent(queries)

	case ui.HistoryRecordedMsg:
		if msg.Err != nil {
			a.status = fmt.Sprintf("Error saving history: %v", msg.Err)
		} else {
			cmds = append(cmds, a.fetchHistory())
		}

	case ui.ActionResultMsg:
		if msg.Err != nil {
			a.status = fmt.Sprintf("Error: %s: %v", msg.Action, msg.Err)
		} else {
			a.status = fmt.Sprintf("%s: success", msg.Action)
			cmds = append(cmds, a.fetchHistory())
		}

	case ui.ConfigReloadedMsg:
		a.cfg.Timeout = msg.Config.Timeout
		a.cfg.HistorySize = msg.Config.HistorySize
		a.cfg.InitSearch = msg.Config.InitSearch
		if msg.Config.Server != a.cfg.Server {
			a.status = "Configuration reloaded (restart to change server)"
		} else {
			a.status = "Configuration reloaded"
		}

	case ui.StatusMsg:
		a.status = msg.Text

	case tea.KeyMsg:
		// Help overlay dismisses on any key
		if a.showHelp {
			a.showHelp = false
			return &a, nil
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return &a, tea.Quit

		case "?":
			a.showHelp = true
			return &a, nil

		case "tab":
			a.currentView = (a.currentView + 1) % viewCount
			return &a, nil
		case "shift+tab":
			a.currentView = (a.currentView + viewCount - 1) % viewCount
			return &a, nil
		case "1":
			a.currentView = ViewResults
			return &a, nil
		case "2":
			a.currentView = ViewRepos
			return &a, nil
		case "3":
			a.currentView = ViewHistory
			return &a, nil

		case "/":
			a.currentView = ViewResults
			return &a, a.searchView.Activate()

		case "a":
			a.filterOverlay = filteroverlay.New(a.session.RepoNames(), filteroverlay.FromParams(a.searchView.Params()))
			a.filterOverlay.SetSize(a.width, a.height)
			return &a, nil

		case "r":
			if a.cache != nil {
				if err := a.cache.Invalidate(); err != nil {
					a.status = fmt.Sprintf("Error: %v", err)
				}
			}
			a.status = "Reloading repositories..."
			return &a, a.run(a.session.LoadRepos())
		}

		switch a.currentView {
		case ViewResults:
			if cmd, handled := a.resultsKey(msg); handled {
				return &a, cmd
			}
		case ViewRepos:
			if cmd, handled := a.reposKey(msg); handled {
				return &a, cmd
			}
		case ViewHistory:
			if cmd, handled := a.historyKey(msg); handled {
				return &a, cmd
			}
		}
	}

	// Propagate to sub-views. Keys go only to the current tab; everything
	// else reaches every view.
	if _, isResize := msg.(tea.WindowSizeMsg); !isResize {
		var cmd tea.Cmd
		if isKey {
			switch a.currentView {
			case ViewResults:
				a.resultView, cmd = a.resultView.Update(msg)
			case ViewRepos:
				a.reposView, cmd = a.reposView.Update(msg)
			case ViewHistory:
				a.historyView, cmd = a.historyView.Update(msg)
			}
			cmds = append(cmds, cmd)
		} else {
			a.searchView, cmd = a.searchView.Update(msg)
			cmds = append(cmds, cmd)
			a.reposView, cmd = a.reposView.Update(msg)
			cmds = append(cmds, cmd)
			a.historyView, cmd = a.historyView.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return &a, tea.Batch(cmds...)
}

func (a *App) resultsKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	sel, ok := a.resultView.Selected()

	switch msg.String() {
	case "enter":
		if !ok {
			return nil, true
		}
		switch sel.Kind {
		case resultview.RowMore:
			return a.loadMore(sel.Repo), true
		case resultview.RowOtherRepos:
			return a.loadOtherRepos(), true
		case resultview.RowFile:
			return a.browseSelection(sel), true
		}
		a.resultView.ToggleSelected()
		return nil, true

	case "m":
		if ok && sel.Repo != "" {
			return a.loadMore(sel.Repo), true
		}
		return nil, true

	case "o":
		return a.loadOtherRepos(), true

	case "L":
		if a.loadingAll {
			return nil, true
		}
		pending := a.session.HasOtherRepos()
		for _, r := range a.session.Results() {
			pending = pending || a.session.HasMore(r.Name)
		}
		if !pending {
			a.status = "All results loaded"
			return nil, true
		}
		a.confirmDialog = confirm.New(confirm.LoadEverything,
			"Load Everything",
			"Load every remaining file and repository? Large result sets take many requests.",
		)
		a.confirmDialog.SetWidth(a.width)
		return nil, true

	case "b":
		if ok {
			return a.browseSelection(sel), true
		}
		return nil, true

	case "y":
		if ok && sel.Filename != "" {
			return a.copy("path", sel.Filename), true
		}
		return nil, true

	case "Y":
		if p := a.session.Params(); p.Query != "" {
			return a.copy("search link", params.Link(a.cfg.Server, p)), true
		}
		return nil, true
	}
	return nil, false
}

func (a *App) browseSelection(sel resultview.Selection) tea.Cmd {
	var url string
	switch sel.Kind {
	case resultview.RowFile:
		url = a.session.URLToRepo(sel.Repo, sel.Filename, sel.Line, sel.Revision)
	case resultview.RowRepo, resultview.RowMore:
		if info, ok := a.session.RepoInfo(sel.Repo); ok {
			url = repourl.Home(info)
		}
	}
	if url == "" {
		a.status = fmt.Sprintf("No web URL for %s", sel.Repo)
		return nil
	}
	return a.browse(url)
}

func (a *App) reposKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "enter":
		names := a.reposView.SelectedNames()
		if len(names) == 0 {
			if repo := a.reposView.SelectedRepo(); repo != nil {
				names = []string{repo.Name}
			}
		}
		if len(names) == 0 {
			return nil, true
		}
		p := a.searchView.Params()
		p.RepoFilter = strings.Join(names, ",")
		a.searchView.SetParams(p)
		a.currentView = ViewResults
		if p.Query == "" {
			return a.searchView.Activate(), true
		}
		return a.startSearch(p), true

	case "x":
		a.reposView.ClearSelection()
		return nil, true

	case "b":
		if repo := a.reposView.SelectedRepo(); repo != nil {
			if url := repourl.Home(*repo); url != "" {
				return a.browse(url), true
			}
			a.status = fmt.Sprintf("No web URL for %s", repo.Name)
		}
		return nil, true
	}
	return nil, false
}

func (a *App) historyKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if a.history == nil {
		return nil, false
	}
	switch msg.String() {
	case "enter":
		if e := a.historyView.SelectedEntry(); e != nil {
			return a.startSearch(e.Params()), true
		}
		return nil, true

	case "d":
		if e := a.historyView.SelectedEntry(); e != nil {
			a.confirmDialog = confirm.New(confirm.DeleteSearch,
				"Delete Search",
				fmt.Sprintf("Remove %q from history?", e.Params().Query),
			).WithData(*e).Destructive()
			a.confirmDialog.SetWidth(a.width)
		}
		return nil, true

	case "x":
		if a.historyView.Len() > 0 {
			a.confirmDialog = confirm.New(confirm.ClearHistory,
				"Clear History",
				fmt.Sprintf("Remove all %s for %s?", text.Pluralize(a.historyView.Len(), "search"), a.cfg.Server),
			).Destructive()
			a.confirmDialog.SetWidth(a.width)
		}
		return nil, true
	}
	return nil, false
}

func (a App) isListFiltering() bool {
	switch a.currentView {
	case ViewRepos:
		return a.reposView.IsFiltering()
	case ViewHistory:
		return a.historyView.IsFiltering()
	}
	return false
}

func (a *App) propagateSize() {
	// Total vertical budget:
	//   header(1) + tabs(1) + status(1) = 3 lines of chrome
	//   pane border top(1) + bottom(1) = 2 lines
	//   Inner content height = terminal height - 5
	contentH := a.height - 5
	if contentH < 2 {
		contentH = 2
	}
	innerW := a.width - 4
	if innerW < 1 {
		innerW = 1
	}

	// The query bar takes the first line of the results pane.
	a.searchView, _ = a.searchView.Update(
		tea.WindowSizeMsg{Width: innerW, Height: 1})
	a.resultView, _ = a.resultView.Update(
		tea.WindowSizeMsg{Width: innerW, Height: contentH - 1})
	a.reposView, _ = a.reposView.Update(
		tea.WindowSizeMsg{Width: innerW, Height: contentH})
	a.historyView, _ = a.historyView.Update(
		tea.WindowSizeMsg{Width: innerW, Height: contentH})
	a.filterOverlay.SetSize(a.width, a.height)
	a.confirmDialog.SetWidth(a.width)
}

// --- View ---

func (a App) View() string {
	header := RenderHeader(a.cfg.Server, a.session.RepoCount(), a.width)
	tabs := a.renderTabs()

	contentH := a.height - 5
	if contentH < 1 {
		contentH = 1
	}
	style := ui.StylePaneFocused.Width(a.width - 2).Height(contentH)

	var content string
	switch a.currentView {
	case ViewResults:
		content = style.Render(a.searchView.View() + "\n" + a.resultView.View())
	case ViewRepos:
		content = style.Render(a.reposView.View())
	case ViewHistory:
		content = style.Render(a.historyView.View())
	}

	if a.showHelp {
		content = a.renderHelp()
	} else if a.confirmDialog.IsActive() {
		content = a.confirmDialog.View()
	} else if a.filterOverlay.IsActive() {
		content = a.filterOverlay.View()
	}

	statusBar := RenderStatusBar(a.status, a.contextHints(), a.width)

	// Hard clamp: ensure content never overflows the terminal.
	// header(1) + tabs(1) + statusbar(1) = 3 lines of chrome.
	maxContentLines := a.height - 3
	if maxContentLines > 0 {
		lines := strings.Split(content, "\n")
		if len(lines) > maxContentLines {
			lines = lines[:maxContentLines]
			content = strings.Join(lines, "\n")
		}
	}

	return header + "\n" + tabs + "\n" + content + "\n" + statusBar
}

func (a App) renderTabs() string {
	tabStyle := lipgloss.NewStyle().Padding(0, 2)
	activeTab := tabStyle.Bold(true).Foreground(ui.ColorPrimary)
	inactiveTab := tabStyle.Foreground(ui.ColorMuted)

	resultsLabel := "[1] Results"
	if n := len(a.session.Results()); n > 0 {
		resultsLabel = fmt.Sprintf("[1] Results (%s)", text.Pluralize(n, "repo"))
	}
	reposLabel := "[2] Repos"
	if n := a.reposView.SelectionCount(); n > 0 {
		reposLabel = fmt.Sprintf("[2] Repos (%d selected)", n)
	}
	historyLabel := "[3] History"

	labels := []string{resultsLabel, reposLabel, historyLabel}
	rendered := make([]string, len(labels))
	for i, l := range labels {
		if View(i) == a.currentView {
			rendered[i] = activeTab.Render(l)
		} else {
			rendered[i] = inactiveTab.Render(l)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (a App) contextHints() string {
	if a.confirmDialog.IsActive() {
		return "y/n:confirm  esc:cancel"
	}
	if a.filterOverlay.IsActive() {
		return "tab:next field  a:apply  esc:cancel"
	}
	if a.searchView.IsActive() {
		return "enter:search  up/down:history  esc:close"
	}
	if a.isListFiltering() {
		return "enter:confirm  esc:cancel"
	}

	switch a.currentView {
	case ViewResults:
		if a.loadingAll {
			return "[LOADING ALL]  j/k:scroll  ?:help"
		}
		return "/:search  a:advanced  m:more  o:other repos  L:all  b:browse  y/Y:copy  space:fold  ?:help"
	case ViewRepos:
		return "space:select  enter:search selected  x:clear  f:filter  b:browse  r:reload  ?:help"
	case ViewHistory:
		return "enter:search again  d:delete  x:clear all  f:filter  ?:help"
	}
	return "?:help  q:quit"
}

func (a App) renderHelp() string {
	contentH := a.height - 5
	if contentH < 1 {
		contentH = 1
	}

	bold := lipgloss.NewStyle().Bold(true)
	key := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Width(14)
	desc := lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB"))

	row := func(k, d string) string {
		return "  " + key.Render(k) + desc.Render(d) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n" + bold.Render("  Navigation") + "\n\n")
	b.WriteString(row("1-3", "Switch tab: Results, Repos, History"))
	b.WriteString(row("tab", "Next tab"))
	b.WriteString(row("shift+tab", "Previous tab"))
	b.WriteString(row("j / k", "Move down / up"))
	b.WriteString(row("g / G", "Go to top / bottom"))
	b.WriteString(row("PgUp/PgDn", "Page up / page down"))
	b.WriteString(row("q", "Quit"))

	b.WriteString("\n" + bold.Render("  Search") + "\n\n")
	b.WriteString(row("/", "Edit the query"))
	b.WriteString(row("up / down", "Recall earlier queries"))
	b.WriteString(row("a", "Advanced: case, file filters, repositories"))
	b.WriteString(row("r", "Reload repositories"))

	b.WriteString("\n" + bold.Render("  Results") + "\n\n")
	b.WriteString(row("m", "Load more files from the repository"))
	b.WriteString(row("o", "Search more repositories"))
	b.WriteString(row("L", "Load everything"))
	b.WriteString(row("enter", "Load, open or fold the row"))
	b.WriteString(row("space / e", "Fold repository / all"))
	b.WriteString(row("b", "Open in browser"))
	b.WriteString(row("y", "Copy file path"))
	b.WriteString(row("Y", "Copy link to this search"))

	b.WriteString("\n" + bold.Render("  Repos") + "\n\n")
	b.WriteString(row("space", "Select repository"))
	b.WriteString(row("enter", "Search the selected repositories"))
	b.WriteString(row("x", "Clear selection"))
	b.WriteString(row("f", "Filter list"))

	b.WriteString("\n" + bold.Render("  History") + "\n\n")
	b.WriteString(row("enter", "Run the search again"))
	b.WriteString(row("d", "Delete entry"))
	b.WriteString(row("x", "Clear history"))

	b.WriteString("\n" + lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("  Press any key to close") + "\n")

	style := ui.StylePaneFocused.Width(a.width - 2).Height(contentH)
	return style.Render(b.String())
}
