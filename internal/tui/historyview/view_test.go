package historyview

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/altinukshini/hound-tui/internal/history"
	"github.com/altinukshini/hound-tui/internal/model"
	"github.com/altinukshini/hound-tui/internal/params"
	"github.com/altinukshini/hound-tui/internal/ui"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func entry(q string, repos int, ago time.Duration) history.Entry {
	p := model.SearchParams{Query: q, RepoFilter: "*"}
	return history.Entry{Server: "http://localhost:6080", Link: params.Encode(p), Repos: repos, At: now.Add(-ago)}
}

func loaded(t *testing.T, entries ...history.Entry) Model {
	t.Helper()
	m := New()
	m.now = func() time.Time { return now }
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	m, _ = m.Update(ui.HistoryLoadedMsg{Entries: entries})
	return m
}

func TestLoadingAndEmpty(t *testing.T) {
	m := New()
	if !strings.Contains(m.View(), "Loading history") {
		t.Errorf("View() = %q, want loading message", m.View())
	}

	m = loaded(t)
	if !strings.Contains(m.View(), "No searches yet") {
		t.Errorf("View() = %q, want empty message", m.View())
	}
	if m.SelectedEntry() != nil {
		t.Error("SelectedEntry() should be nil without entries")
	}
}

func TestLoadError(t *testing.T) {
	m := New()
	m, _ = m.Update(ui.HistoryLoadedMsg{Err: errors.New("database locked")})
	if !strings.Contains(m.View(), "Error: database locked") {
		t.Errorf("View() = %q, want the error", m.View())
	}
}

func TestListsEntries(t *testing.T) {
	m := loaded(t,
		entry("newest", 3, 2*time.Hour),
		entry("older", 1, 48*time.Hour),
	)
	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}

	view := ansi.Strip(m.View())
	for _, want := range []string{"newest", "3 repos", "about 2 hours ago", "older", "1 repo"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	e := m.SelectedEntry()
	if e == nil || e.Params().Query != "newest" {
		t.Fatalf("SelectedEntry() = %+v, want newest", e)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if e := m.SelectedEntry(); e == nil || e.Params().Query != "older" {
		t.Errorf("after j SelectedEntry() = %+v, want older", e)
	}
}

func TestFilterKey(t *testing.T) {
	m := loaded(t, entry("alpha", 1, time.Hour), entry("beta", 1, time.Hour))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	if !m.IsFiltering() {
		t.Fatal("f should start filtering")
	}
	if !m.HasActiveFilter() {
		t.Error("HasActiveFilter() should be true while filtering")
	}
}

func TestPagingKeysLeaveLettersFree(t *testing.T) {
	m := loaded(t, entry("alpha", 1, time.Hour), entry("beta", 1, time.Hour))
	for _, r := range "db" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if e := m.SelectedEntry(); e == nil || e.Params().Query != "alpha" {
		t.Errorf("d and b moved the cursor: %+v", e)
	}
}
