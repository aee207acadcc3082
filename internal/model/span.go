package model

import (
	"fmt"
	"html"
)

type SpanKind int

const (
	SpanText SpanKind = iota
	SpanEmphasisOpen
	SpanEmphasisClose
	SpanLinkOpen
	SpanLinkClose
)

func (k SpanKind) String() string {
	switch k {
	case SpanText:
		return "text"
	case SpanEmphasisOpen:
		return "em-open"
	case SpanEmphasisClose:
		return "em-close"
	case SpanLinkOpen:
		return "link-open"
	case SpanLinkClose:
		return "link-close"
	default:
		return fmt.Sprintf("SpanKind(%d)", int(k))
	}
}

// Span is one unit of an annotated line. Text holds raw line content for
// text spans; Href is set on link-open spans.
type Span struct {
	Kind SpanKind
	Text string
	Href string
}

// Markup renders the span as an HTML fragment. Text is escaped.
func (s Span) Markup() string {
	switch s.Kind {
	case SpanText:
		return html.EscapeString(s.Text)
	case SpanEmphasisOpen:
		return "<em>"
	case SpanEmphasisClose:
		return "</em>"
	case SpanLinkOpen:
		return `<a href="` + html.EscapeString(s.Href) + `" target="_blank" rel="noopener noreferrer">`
	case SpanLinkClose:
		return "</a>"
	}
	return ""
}
