// Package params converts search parameters to and from the query string
// used in shareable search links.
package params

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/altinukshini/hound-tui/internal/model"
)

const (
	True  = "fosho"
	False = "nope"
)

// Defaults are the link values assumed when a key is absent.
var Defaults = model.SearchParams{RepoFilter: "*"}

// ParseBool accepts the values the server treats as true.
func ParseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "fosho", "true", "1":
		return true
	}
	return false
}

func FormatBool(b bool) string {
	if b {
		return True
	}
	return False
}

// Encode renders the user-facing fields of p as a query string. The
// context size is only written when set.
func Encode(p model.SearchParams) string {
	v := url.Values{}
	v.Set("q", p.Query)
	v.Set("i", FormatBool(p.IgnoreCase))
	v.Set("files", p.FilePathInclude)
	v.Set("excludeFiles", p.FilePathExclude)
	v.Set("repos", p.RepoFilter)
	if p.ContextLines > 0 {
		v.Set("ctx", strconv.Itoa(p.ContextLines))
	}
	return v.Encode()
}

// Decode parses a query string on top of defaults. A leading "?" is
// ignored. Pairs that do not have exactly one "=" are skipped and "+" is
// read as a space before percent-decoding.
func Decode(raw string, defaults model.SearchParams) model.SearchParams {
	p := defaults
	raw = strings.TrimPrefix(raw, "?")
	if raw == "" {
		return p
	}
	for _, pair := range strings.Split(raw, "&") {
		kv := strings.Split(pair, "=")
		if len(kv) != 2 {
			continue
		}
		key, err := url.PathUnescape(kv[0])
		if err != nil {
			continue
		}
		val, err := url.PathUnescape(strings.ReplaceAll(kv[1], "+", " "))
		if err != nil {
			continue
		}
		set(&p, key, val)
	}
	return p
}

func set(p *model.SearchParams, key, val string) {
	switch key {
	case "q":
		p.Query = val
	case "i":
		p.IgnoreCase = ParseBool(val)
	case "files":
		p.FilePathInclude = val
	case "excludeFiles":
		p.FilePathExclude = val
	case "repos":
		p.RepoFilter = val
	case "ctx":
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			p.ContextLines = n
		}
	}
}

// FromURL decodes the query string of a full search link.
func FromURL(rawURL string, defaults model.SearchParams) (model.SearchParams, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return defaults, err
	}
	return Decode(u.RawQuery, defaults), nil
}

// Link joins a server base URL and the encoded parameters.
func Link(base string, p model.SearchParams) string {
	return strings.TrimRight(base, "/") + "/?" + Encode(p)
}

// Repos splits a comma separated repo filter into names. "*" and the
// empty string mean every repository and yield nil.
func Repos(filter string) []string {
	filter = strings.TrimSpace(filter)
	if filter == "" || filter == "*" {
		return nil
	}
	var names []string
	for _, n := range strings.Split(filter, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}
