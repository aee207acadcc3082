package ui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorFailure   = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorInfo      = lipgloss.Color("#3B82F6")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorBorder    = lipgloss.Color("#374151")
	ColorHighlight = lipgloss.Color("#1F2937")

	StylePane = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StylePaneFocused = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9FAFB")).
			Background(ColorPrimary).
			Padding(0, 1)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleFailure = lipgloss.NewStyle().Foreground(ColorFailure)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)

	StyleMatch = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FCD34D")).
			Background(lipgloss.Color("#78350F"))

	StyleLink = lipgloss.NewStyle().
			Underline(true).
			Foreground(ColorInfo)

	StyleRepo       = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	StyleFile       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F9FAFB"))
	StyleLineNumber = lipgloss.NewStyle().Foreground(ColorMuted).Width(6).Align(lipgloss.Right)
	StyleCursor     = lipgloss.NewStyle().Background(ColorHighlight)
)

// FoldIcon marks a repository block as expanded or collapsed.
func FoldIcon(collapsed bool) string {
	if collapsed {
		return StyleMuted.Render("▸")
	}
	return StyleInfo.Render("▾")
}

// MoreIcon marks rows that load further results.
func MoreIcon(loading bool) string {
	if loading {
		return StyleWarning.Render("*")
	}
	return StyleInfo.Render("+")
}
