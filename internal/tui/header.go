package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/cli/go-gh/v2/pkg/text"

	"github.com/altinukshini/hound-tui/internal/ui"
)

func RenderHeader(server string, repoCount int, width int) string {
	left := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("#F9FAFB")).
		Render(fmt.Sprintf(" hound-tui | %s", server))

	repos := ""
	if repoCount > 0 {
		repos = lipgloss.NewStyle().Foreground(ui.ColorSuccess).
			Render(text.Pluralize(repoCount, "repo") + " ")
	} else {
		repos = lipgloss.NewStyle().Foreground(ui.ColorWarning).
			Render("no repos ")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(repos)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#1F2937")).
		Width(width).
		Render(left + padding + repos)
}
