package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/altinukshini/hound-tui/internal/api"
	"github.com/altinukshini/hound-tui/internal/config"
	"github.com/altinukshini/hound-tui/internal/history"
	"github.com/altinukshini/hound-tui/internal/model"
	"github.com/altinukshini/hound-tui/internal/results"
	"github.com/altinukshini/hound-tui/internal/tui/confirm"
	"github.com/altinukshini/hound-tui/internal/tui/filteroverlay"
	"github.com/altinukshini/hound-tui/internal/ui"
)

const testServer = "http://hound.test"

// fakeServer answers searches from a fixed set of repositories, honoring
// rng, rngRepos and the ^name$ filter the session sends for "load more".
type fakeServer struct {
	order    []string
	files    map[string]int
	repoPage int
	queries  []api.Query
	fail     error
}

func (f *fakeServer) Search(_ context.Context, q api.Query) (*model.SearchResponse, error) {
	f.queries = append(f.queries, q)
	if f.fail != nil {
		return nil, f.fail
	}

	names := f.order
	switch filter := q.RepoFilter; {
	case strings.HasPrefix(filter, "^"):
		names = []string{strings.NewReplacer("^", "", "$", "", `\`, "").Replace(filter)}
	case filter != "" && filter != "*":
		names = strings.Split(filter, ",")
	}

	start, limit := q.RepoRange.Start, q.RepoRange.End
	if limit == 0 {
		limit = f.repoPage
	}
	end := len(names)
	if limit > 0 {
		end = min(start+limit, len(names))
	}
	start = min(start, end)

	resp := &model.SearchResponse{}
	for _, name := range names[start:end] {
		total := f.files[name]
		lo, hi := q.LineRange.Start, q.LineRange.End
		if q.LineRange.Open || hi > total {
			hi = total
		}
		lo = min(lo, hi)
		var fs []model.FileResult
		for i := lo; i < hi; i++ {
			fs = append(fs, model.FileResult{
				Filename: fmt.Sprintf("src/file%d.go", i),
				Matches:  []model.RawMatch{{LineNumber: 12, Line: q.Query + " here"}},
			})
		}
		resp.Results = append(resp.Results, model.RepoResponse{Name: name, Revision: "abc123", Matches: fs, FilesWithMatch: total})
	}
	if rest := len(names) - end; rest > 0 {
		resp.ReposPagination = &model.ReposPagination{OtherRepos: rest, NextOffset: end, NextLimit: f.repoPage}
	}
	return resp, nil
}

func (f *fakeServer) Repos(context.Context) (map[string]model.RepoInfo, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	repos := map[string]model.RepoInfo{}
	for _, name := range f.order {
		repos[name] = model.RepoInfo{Name: name, URL: "https://github.com/example/" + name + ".git"}
	}
	return repos, nil
}

func (f *fakeServer) lastQuery(t *testing.T) api.Query {
	t.Helper()
	if len(f.queries) == 0 {
		t.Fatal("no search reached the server")
	}
	return f.queries[len(f.queries)-1]
}

type harness struct {
	app    App
	srv    *fakeServer
	store  *history.Store
	opened []string
	copied []string
}

func newHarness(t *testing.T, srv *fakeServer, start model.SearchParams) *harness {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"), 10)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	h := &harness{srv: srv, store: store}
	session := results.NewSession(srv)
	h.app = NewApp(config.Config{Server: testServer}, session, store, nil, start)
	h.app.openURL = func(u string) error {
		h.opened = append(h.opened, u)
		return nil
	}
	h.app.copyText = func(s string) error {
		h.copied = append(h.copied, s)
		return nil
	}
	t.Cleanup(h.app.Close)

	h.update(t, tea.WindowSizeMsg{Width: 120, Height: 40})
	h.drain(t, h.app.Init())
	return h
}

// update feeds msg to the app and runs every command it returns.
func (h *harness) update(t *testing.T, msg tea.Msg) {
	t.Helper()
	m, cmd := h.app.Update(msg)
	h.app = *m.(*App)
	h.drain(t, cmd)
}

// drain runs commands and feeds back the messages the app acts on. Other
// messages, such as cursor blinks, are dropped.
func (h *harness) drain(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			t.Fatal("commands did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case searchMsg, ui.ReplyMsg, ui.HistoryLoadedMsg, ui.HistoryRecordedMsg,
			ui.ActionResultMsg, confirm.ResultMsg, filteroverlay.ResultMsg:
			m, next := h.app.Update(msg)
			h.app = *m.(*App)
			queue = append(queue, next)
		}
	}
}

func (h *harness) press(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		h.update(t, msg)
	}
}

func names(rs []model.RepoResult) []string {
	var out []string
	for _, r := range rs {
		out = append(out, r.Name)
	}
	return out
}

func TestStartupSearch(t *testing.T) {
	srv := &fakeServer{order: []string{"hound", "zoekt"}, files: map[string]int{"hound": 2, "zoekt": 1}}
	h := newHarness(t, srv, model.SearchParams{Query: "foo"})

	if got := names(h.app.session.Results()); fmt.Sprint(got) != "[hound zoekt]" {
		t.Fatalf("results = %v, want [hound zoekt]", got)
	}
	if h.app.session.RepoCount() != 2 {
		t.Errorf("RepoCount() = %d, want 2", h.app.session.RepoCount())
	}
	if h.app.searchView.IsActive() {
		t.Error("query bar should stay closed when a query was given")
	}
	if !strings.Contains(h.app.status, "3 files in 2 repos") {
		t.Errorf("status = %q, want the search summary", h.app.status)
	}

	entries, err := h.store.Recent(testServer, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 || entries[0].Params().Query != "foo" || entries[0].Repos != 2 {
		t.Errorf("history = %+v, want one entry for foo", entries)
	}
	if h.app.historyView.Len() != 1 {
		t.Errorf("history view has %d entries, want 1", h.app.historyView.Len())
	}

	view := h.app.View()
	for _, want := range []string{"hound-tui | " + testServer, "[1] Results", "src/file0.go"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestQueryBarSubmitsSearch(t *testing.T) {
	srv := &fakeServer{order: []string{"hound"}, files: map[string]int{"hound": 1}}
	h := newHarness(t, srv, model.SearchParams{IgnoreCase: true})

	if !h.app.searchView.IsActive() {
		t.Fatal("query bar should open when no query was given")
	}
	if len(srv.queries) != 0 {
		t.Fatalf("%d searches before submitting, want 0", len(srv.queries))
	}

	h.press(t, "b", "a", "r", "enter")

	q := srv.lastQuery(t)
	if q.Query != "bar" || !q.IgnoreCase {
		t.Errorf("query = %+v, want bar with ignore case", q.SearchParams)
	}
	if h.app.searchView.IsActive() {
		t.Error("query bar should close after submitting")
	}
	if len(h.app.session.Results()) != 1 {
		t.Errorf("results = %v, want one repo", names(h.app.session.Results()))
	}
}

func TestInvalidPatternShowsError(t *testing.T) {
	srv := &fakeServer{order: []string{"hound"}, files: map[string]int{"hound": 1}}
	h := newHarness(t, srv, model.SearchParams{})

	h.press(t, "(", "enter")
	if len(srv.queries) != 0 {
		t.Error("an invalid pattern must not reach the server")
	}
	if !strings.HasPrefix(h.app.status, "Error") {
		t.Errorf("status = %q, want an error", h.app.status)
	}
}

func TestLoadMoreMatches(t *testing.T) {
	srv := &fakeServer{order: []string{"hound"}, files: map[string]int{"hound": 45}}
	h := newHarness(t, srv, model.SearchParams{Query: "foo"})

	r, _ := h.app.session.Repo("hound")
	if len(r.Files) != 20 {
		t.Fatalf("first page has %d files, want 20", len(r.Files))
	}

	h.press(t, "m")

	q := srv.lastQuery(t)
	if q.RepoFilter != "^hound$" || q.LineRange.String() != "20:" {
		t.Errorf("load more query = %s %s, want ^hound$ 20:", q.RepoFilter, q.LineRange)
	}
	r, _ = h.app.session.Repo("hound")
	if len(r.Files) != 45 {
		t.Errorf("loaded %d files, want 45", len(r.Files))
	}
	if !strings.Contains(h.app.status, "Loaded 25 more files from hound") {
		t.Errorf("status = %q", h.app.status)
	}
}

func TestLoadEverythingAfterConfirm(t *testing.T) {
	srv := &fakeServer{
		order:    []string{"a", "b", "c"},
		files:    map[string]int{"a": 30, "b": 5, "c": 50},
		repoPage: 1,
	}
	h := newHarness(t, srv, model.SearchParams{Query: "foo"})

	h.press(t, "L")
	if !h.app.confirmDialog.IsActive() {
		t.Fatal("L should ask for confirmation")
	}
	h.press(t, "y")

	if h.app.loadingAll {
		t.Error("loading should be finished")
	}
	if got := names(h.app.session.Results()); fmt.Sprint(got) != "[a b c]" {
		t.Errorf("results = %v, want [a b c]", got)
	}
	for _, r := range h.app.session.Results() {
		if len(r.Files) != srv.files[r.Name] {
			t.Errorf("%s: %d files loaded, want %d", r.Name, len(r.Files), srv.files[r.Name])
		}
	}
	if h.app.status != "All results loaded" {
		t.Errorf("status = %q", h.app.status)
	}
}

func TestBrowseAndCopy(t *testing.T) {
	srv := &fakeServer{order: []string{"hound"}, files: map[string]int{"hound": 1}}
	h := newHarness(t, srv, model.SearchParams{Query: "foo"})

	h.press(t, "b")
	h.press(t, "j", "b", "y", "Y")

	wantOpened := []string{
		"https://github.com/example/hound",
		"https://github.com/example/hound/blob/abc123/src/file0.go#L12",
	}
	if fmt.Sprint(h.opened) != fmt.Sprint(wantOpened) {
		t.Errorf("opened = %v, want %v", h.opened, wantOpened)
	}
	if len(h.copied) != 2 {
		t.Fatalf("copied = %v, want path and link", h.copied)
	}
	if h.copied[0] != "src/file0.go" {
		t.Errorf("copied path = %q", h.copied[0])
	}
	if !strings.HasPrefix(h.copied[1], testServer+"/?") || !strings.Contains(h.copied[1], "q=foo") {
		t.Errorf("copied link = %q", h.copied[1])
	}
}

func TestSearchSelectedRepos(t *testing.T) {
	srv := &fakeServer{order: []string{"hound", "zoekt"}, files: map[string]int{"hound": 1, "zoekt": 1}}
	h := newHarness(t, srv, model.SearchParams{Query: "foo"})

	h.press(t, "2", "space", "enter")

	if h.app.currentView != ViewResults {
		t.Errorf("currentView = %v, want results", h.app.currentView)
	}
	if q := srv.lastQuery(t); q.RepoFilter != "hound" {
		t.Errorf("RepoFilter = %q, want hound", q.RepoFilter)
	}
	if got := names(h.app.session.Results()); fmt.Sprint(got) != "[hound]" {
		t.Errorf("results = %v, want [hound]", got)
	}
}

func TestHistoryRerunAndDelete(t *testing.T) {
	srv := &fakeServer{order: []string{"hound"}, files: map[string]int{"hound": 1}}
	h := newHarness(t, srv, model.SearchParams{Query: "foo", IgnoreCase: true})
	before := len(srv.queries)

	h.press(t, "3", "enter")
	if len(srv.queries) != before+1 {
		t.Fatalf("enter on a history entry should search again")
	}
	if q := srv.lastQuery(t); q.Query != "foo" || !q.IgnoreCase {
		t.Errorf("rerun query = %+v", q.SearchParams)
	}

	h.press(t, "3", "d")
	if !h.app.confirmDialog.IsActive() {
		t.Fatal("d should ask for confirmation")
	}
	h.press(t, "y")

	entries, err := h.store.Recent(testServer, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("history = %+v, want empty", entries)
	}
	if h.app.historyView.Len() != 0 {
		t.Errorf("history view has %d entries, want 0", h.app.historyView.Len())
	}
}

func TestServerDownShowsError(t *testing.T) {
	srv := &fakeServer{order: []string{"hound"}, files: map[string]int{"hound": 1}, fail: errors.New("connection refused")}
	h := newHarness(t, srv, model.SearchParams{Query: "foo"})

	if !strings.HasPrefix(h.app.status, "Error") || !strings.Contains(h.app.status, "connection refused") {
		t.Errorf("status = %q, want the transport error", h.app.status)
	}
	if !strings.Contains(h.app.reposView.View(), "connection refused") {
		t.Error("repos tab should show the load error")
	}
}

func TestTabsCycle(t *testing.T) {
	srv := &fakeServer{order: []string{"hound"}, files: map[string]int{"hound": 1}}
	h := newHarness(t, srv, model.SearchParams{Query: "foo"})

	want := []View{ViewRepos, ViewHistory, ViewResults}
	for i, v := range want {
		h.update(t, tea.KeyMsg{Type: tea.KeyTab})
		if h.app.currentView != v {
			t.Errorf("tab %d: currentView = %v, want %v", i+1, h.app.currentView, v)
		}
	}
	h.update(t, tea.KeyMsg{Type: tea.KeyShiftTab})
	if h.app.currentView != ViewHistory {
		t.Errorf("shift+tab: currentView = %v, want history", h.app.currentView)
	}
}
