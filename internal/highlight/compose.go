// Package highlight annotates a single result line with search-hit
// emphasis and pattern links.
//
// Links are always the outer element. When a highlighted range crosses a
// link edge the emphasis is closed before the edge and reopened after it,
// so the output is well nested however the two kinds of range overlap.
package highlight

import (
	"regexp"
	"sort"
	"strings"

	"github.com/altinukshini/hound-tui/internal/model"
)

type span struct {
	start, end int
	href       string
}

// Compose returns the spans for one line. Search hits are only marked on
// match lines and only when re is non-nil. Links from rules earlier in the
// list win over later ones; a link range that overlaps one already taken
// is dropped.
func Compose(line model.Line, re *regexp.Regexp, rules []model.PatternLinkRule) []model.Span {
	content := line.Content

	var hits []span
	if line.IsMatch && re != nil {
		for _, loc := range re.FindAllStringIndex(content, -1) {
			if loc[0] == loc[1] {
				continue
			}
			hits = append(hits, span{start: loc[0], end: loc[1]})
		}
	}
	links := linkRanges(content, rules)

	if len(hits) == 0 && len(links) == 0 {
		return []model.Span{{Kind: model.SpanText, Text: content}}
	}

	bounds := boundaries(len(content), hits, links)
	out := make([]model.Span, 0, 2*len(bounds))

	curHit, curLink := -1, -1
	for i, p := range bounds {
		nextHit, nextLink := -1, -1
		if p < len(content) {
			nextHit = covering(hits, p)
			nextLink = covering(links, p)
		}

		if curHit >= 0 && (nextHit != curHit || nextLink != curLink) {
			out = append(out, model.Span{Kind: model.SpanEmphasisClose})
			curHit = -1
		}
		if curLink >= 0 && nextLink != curLink {
			out = append(out, model.Span{Kind: model.SpanLinkClose})
			curLink = -1
		}
		if nextLink >= 0 && curLink != nextLink {
			out = append(out, model.Span{Kind: model.SpanLinkOpen, Href: links[nextLink].href})
			curLink = nextLink
		}
		if nextHit >= 0 && curHit != nextHit {
			out = append(out, model.Span{Kind: model.SpanEmphasisOpen})
			curHit = nextHit
		}

		if i+1 < len(bounds) {
			out = append(out, model.Span{Kind: model.SpanText, Text: content[p:bounds[i+1]]})
		}
	}
	return out
}

func linkRanges(content string, rules []model.PatternLinkRule) []span {
	var links []span
	for _, rule := range rules {
		if rule.Pattern == nil {
			continue
		}
		for _, loc := range rule.Pattern.FindAllStringIndex(content, -1) {
			if loc[0] == loc[1] || overlaps(links, loc[0], loc[1]) {
				continue
			}
			links = append(links, span{
				start: loc[0],
				end:   loc[1],
				href:  rule.Href(content[loc[0]:loc[1]]),
			})
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].start < links[j].start })
	return links
}

func overlaps(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && s.start < end {
			return true
		}
	}
	return false
}

// covering returns the index of the range containing p, or -1. Ranges
// never overlap each other.
func covering(spans []span, p int) int {
	for i, s := range spans {
		if s.start <= p && p < s.end {
			return i
		}
	}
	return -1
}

func boundaries(n int, groups ...[]span) []int {
	seen := map[int]bool{0: true, n: true}
	for _, g := range groups {
		for _, s := range g {
			seen[s.start] = true
			seen[s.end] = true
		}
	}
	out := make([]int, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// HTML renders spans as markup with every piece of line content escaped.
func HTML(spans []model.Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Markup())
	}
	return b.String()
}

// PlainText returns the line content the spans were built from.
func PlainText(spans []model.Span) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Kind == model.SpanText {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}
