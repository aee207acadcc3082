package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/altinukshini/hound-tui/internal/model"
)

var printer = message.NewPrinter(language.English)

// FormatNumber renders n with thousands separators, e.g. 12,345.
func FormatNumber(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatMillis renders d as whole milliseconds, e.g. 1,204ms.
func FormatMillis(d time.Duration) string {
	return FormatNumber(int(d/time.Millisecond)) + "ms"
}

// FormatSize renders a byte count as B, KB, MB or GB.
func FormatSize(bytes int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(gb))
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// RenderSpans styles a composed line for the terminal. Emphasis uses
// StyleMatch; links use StyleLink wrapped in an OSC 8 hyperlink when
// hyperlinks is set. Tabs are expanded to four spaces.
func RenderSpans(spans []model.Span, hyperlinks bool) string {
	var b strings.Builder
	em, link := false, ""
	for _, s := range spans {
		switch s.Kind {
		case model.SpanEmphasisOpen:
			em = true
		case model.SpanEmphasisClose:
			em = false
		case model.SpanLinkOpen:
			link = s.Href
			if hyperlinks {
				b.WriteString(ansi.SetHyperlink(link))
			}
		case model.SpanLinkClose:
			if hyperlinks {
				b.WriteString(ansi.ResetHyperlink())
			}
			link = ""
		case model.SpanText:
			b.WriteString(spanStyle(em, link != "").Render(strings.ReplaceAll(s.Text, "\t", "    ")))
		}
	}
	return b.String()
}

func spanStyle(em, linked bool) lipgloss.Style {
	switch {
	case em && linked:
		return StyleMatch.Underline(true)
	case em:
		return StyleMatch
	case linked:
		return StyleLink
	default:
		return lipgloss.NewStyle()
	}
}

// SearchFlags summarizes the non-default options of a search, e.g.
// "-i files:\.go$".
func SearchFlags(p model.SearchParams) string {
	var parts []string
	if p.IgnoreCase {
		parts = append(parts, "-i")
	}
	if p.FilePathInclude != "" {
		parts = append(parts, "files:"+p.FilePathInclude)
	}
	if p.FilePathExclude != "" {
		parts = append(parts, "exclude:"+p.FilePathExclude)
	}
	if p.RepoFilter != "" && p.RepoFilter != "*" {
		parts = append(parts, "repos:"+p.RepoFilter)
	}
	return strings.Join(parts, " ")
}
