package model

import "regexp"

// RepoInfo is the metadata the server publishes for one repository.
type RepoInfo struct {
	Name         string        `json:"-"`
	URL          string        `json:"url"`
	URLPattern   URLPattern    `json:"url-pattern"`
	PatternLinks []PatternLink `json:"pattern-links,omitempty"`
}

type URLPattern struct {
	BaseURL string `json:"base-url"`
	Anchor  string `json:"anchor"`
}

// PatternLink is the uncompiled form of a pattern-link rule as served by
// the repos endpoint.
type PatternLink struct {
	Pattern string `json:"pattern"`
	Link    string `json:"link"`
}

// PatternLinkRule turns every occurrence of Pattern into a link whose
// target is Template expanded against the matched text.
type PatternLinkRule struct {
	Pattern  *regexp.Regexp
	Template string
}

// Href expands the rule's template for one matched substring.
func (r PatternLinkRule) Href(matched string) string {
	return r.Pattern.ReplaceAllString(matched, r.Template)
}
