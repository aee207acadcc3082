package confirm

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func result(t *testing.T, cmd tea.Cmd) ResultMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("closing the dialog returned no command")
	}
	msg, ok := cmd().(ResultMsg)
	if !ok {
		t.Fatalf("command produced %T, want ResultMsg", cmd())
	}
	return msg
}

func TestAnswers(t *testing.T) {
	tests := []struct {
		name        string
		destructive bool
		keys        []string
		want        bool
	}{
		{name: "y", keys: []string{"y"}, want: true},
		{name: "n", keys: []string{"n"}, want: false},
		{name: "esc", keys: []string{"esc"}, want: false},
		{name: "enter takes yes by default", keys: []string{"enter"}, want: true},
		{name: "enter on destructive takes no", destructive: true, keys: []string{"enter"}, want: false},
		{name: "tab then enter", destructive: true, keys: []string{"tab", "enter"}, want: true},
		{name: "y on destructive", destructive: true, keys: []string{"y"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(ClearHistory, "Clear History", "Remove all?")
			if tt.destructive {
				m = m.Destructive()
			}

			var cmd tea.Cmd
			for _, k := range tt.keys {
				m, cmd = m.Update(key(k))
			}
			if m.IsActive() {
				t.Fatal("dialog still active after answering")
			}
			got := result(t, cmd)
			if got.Confirmed != tt.want {
				t.Errorf("Confirmed = %v, want %v", got.Confirmed, tt.want)
			}
			if got.Action != ClearHistory {
				t.Errorf("Action = %q, want %q", got.Action, ClearHistory)
			}
		})
	}
}

func TestDataIsHandedBack(t *testing.T) {
	m := New(DeleteSearch, "Delete Search", "Remove it?").WithData(42)
	_, cmd := m.Update(key("y"))
	if got := result(t, cmd); got.Data != 42 {
		t.Errorf("Data = %v, want 42", got.Data)
	}
}

func TestIgnoresOtherMessages(t *testing.T) {
	m := New(LoadEverything, "Load Everything", "Sure?")
	m, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if cmd != nil || !m.IsActive() {
		t.Error("non-key messages should leave the dialog open")
	}
	m, cmd = m.Update(key("x"))
	if cmd != nil || !m.IsActive() {
		t.Error("unbound keys should leave the dialog open")
	}
}

func TestView(t *testing.T) {
	m := New(LoadEverything, "Load Everything", "Load every remaining file?")
	m.SetWidth(40)
	view := ansi.Strip(m.View())
	for _, want := range []string{"Load Everything", "Load every", "Yes", "No"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m, _ = m.Update(key("n"))
	if m.View() != "" {
		t.Error("closed dialog should render nothing")
	}
}
