// Package repourl builds links to a file (and line) in a repository's web
// UI from the url and url-pattern the server reports for it.
package repourl

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/altinukshini/hound-tui/internal/model"
)

const (
	DefaultBaseURL = "{url}/blob/{rev}/{path}{anchor}"
	DefaultAnchor  = "#L{line}"
)

// sshRe matches git@host:project/repo and ssh://hg@host:port/project/repo.
var sshRe = regexp.MustCompile(`(git|hg)@(.*?)(:[0-9]+)?(:|/)(.*)(/)(.*)`)

// Parts are the values available to a url-pattern template.
type Parts struct {
	URL      string
	Hostname string
	Port     string
	Project  string
	Repo     string
	Path     string
	Rev      string
	Anchor   string
}

// Split derives the template values for path at line in repo. line <= 0
// means no anchor.
func Split(repo model.RepoInfo, path string, line int, rev string) Parts {
	pattern := withDefaults(repo.URLPattern)
	p := Parts{
		URL:  strings.TrimSuffix(repo.URL, ".git"),
		Path: path,
		Rev:  rev,
	}
	if p.Rev == "" {
		p.Rev = "HEAD"
	}
	if line > 0 {
		filename := path[strings.LastIndex(path, "/")+1:]
		p.Anchor = Expand(pattern.Anchor, map[string]string{
			"line":     strconv.Itoa(line),
			"filename": filename,
		})
	}

	// Wikis have no per-line links and drop the .md suffix from pages.
	if strings.HasSuffix(p.URL, ".wiki") {
		p.URL = strings.TrimSuffix(p.URL, ".wiki") + "/wiki"
		p.Path = strings.TrimSuffix(p.Path, ".md")
		p.Anchor = ""
	}

	if m := sshRe.FindStringSubmatch(p.URL); m != nil {
		p.Hostname = m[2]
		p.Port = m[3]
		p.Project = m[5]
		p.Repo = m[7]
		p.URL = "https://" + p.Hostname + p.Port + "/" + p.Project + "/" + p.Repo
	}
	return p
}

// Build returns the browse URL for path at line, or "" when the repository
// has no URL.
func Build(repo model.RepoInfo, path string, line int, rev string) string {
	if repo.URL == "" {
		return ""
	}
	p := Split(repo, path, line, rev)
	return Expand(withDefaults(repo.URLPattern).BaseURL, map[string]string{
		"url":      p.URL,
		"hostname": p.Hostname,
		"port":     p.Port,
		"project":  p.Project,
		"repo":     p.Repo,
		"path":     p.Path,
		"rev":      p.Rev,
		"anchor":   p.Anchor,
	})
}

// Home returns the web URL of the repository itself, or "" when it has no
// URL.
func Home(repo model.RepoInfo) string {
	if repo.URL == "" {
		return ""
	}
	return Split(repo, "", 0, "").URL
}

// Expand replaces every {name} in template with values[name]. Unknown
// names are left as they are.
func Expand(template string, values map[string]string) string {
	for name, v := range values {
		template = strings.ReplaceAll(template, "{"+name+"}", v)
	}
	return template
}

func withDefaults(p model.URLPattern) model.URLPattern {
	if p.BaseURL == "" {
		p.BaseURL = DefaultBaseURL
	}
	if p.Anchor == "" {
		p.Anchor = DefaultAnchor
	}
	return p
}
