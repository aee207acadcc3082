package cmd

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/altinukshini/hound-tui/internal/highlight"
	"github.com/altinukshini/hound-tui/internal/model"
	"github.com/altinukshini/hound-tui/internal/params"
	"github.com/altinukshini/hound-tui/internal/results"
	"github.com/altinukshini/hound-tui/internal/ui"
)

type outputFormat string

const (
	formatText outputFormat = "text"
	formatHTML outputFormat = "html"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
)

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(s)); f {
	case formatText, formatHTML, formatJSON, formatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, html, json or yaml)", s)
}

type lineOutput struct {
	Number  int    `json:"number" yaml:"number"`
	Content string `json:"content" yaml:"content"`
	Match   bool   `json:"match,omitempty" yaml:"match,omitempty"`
	HTML    string `json:"html,omitempty" yaml:"html,omitempty"`
}

type fileOutput struct {
	Filename string         `json:"filename" yaml:"filename"`
	URL      string         `json:"url,omitempty" yaml:"url,omitempty"`
	Blocks   [][]lineOutput `json:"blocks" yaml:"blocks"`
}

type repoOutput struct {
	Name           string       `json:"name" yaml:"name"`
	Revision       string       `json:"revision" yaml:"revision"`
	FilesWithMatch int          `json:"filesWithMatch" yaml:"filesWithMatch"`
	Files          []fileOutput `json:"files" yaml:"files"`
}

type searchOutput struct {
	Query      string       `json:"query" yaml:"query"`
	Link       string       `json:"link" yaml:"link"`
	DurationMS int64        `json:"durationMs,omitempty" yaml:"durationMs,omitempty"`
	OtherRepos int          `json:"otherRepos,omitempty" yaml:"otherRepos,omitempty"`
	Repos      []repoOutput `json:"repos" yaml:"repos"`
}

// collect turns the session's results into the structure the json and
// yaml formats print. Lines carry their composed markup.
func collect(s *results.Session, server string) searchOutput {
	out := searchOutput{
		Query: s.Params().Query,
		Link:  params.Link(server, s.Params()),
		Repos: []repoOutput{},
	}
	if st := s.Stats(); st != nil {
		out.DurationMS = st.TotalDuration.Milliseconds()
	}
	if pg := s.Pagination(); pg != nil {
		out.OtherRepos = pg.OtherRepos
	}

	re := s.Regexp()
	for _, r := range s.Results() {
		ro := repoOutput{Name: r.Name, Revision: r.Revision, FilesWithMatch: r.FilesWithMatch, Files: []fileOutput{}}
		rules := s.Rules(r.Name)
		for i, f := range r.Files {
			fo := fileOutput{Filename: f.Filename, Blocks: [][]lineOutput{}}
			for _, b := range s.Blocks(r.Name, i) {
				if fo.URL == "" && len(b) > 0 {
					fo.URL = s.URLToRepo(r.Name, f.Filename, firstMatch(b), r.Revision)
				}
				lines := make([]lineOutput, len(b))
				for j, l := range b {
					lines[j] = lineOutput{
						Number:  l.Number,
						Content: l.Content,
						Match:   l.IsMatch,
						HTML:    highlight.HTML(highlight.Compose(l, re, rules)),
					}
				}
				fo.Blocks = append(fo.Blocks, lines)
			}
			ro.Files = append(ro.Files, fo)
		}
		out.Repos = append(out.Repos, ro)
	}
	return out
}

func firstMatch(b model.LineBlock) int {
	for _, l := range b {
		if l.IsMatch {
			return l.Number
		}
	}
	return b.First()
}

// writeResults prints s in format. server is the base URL of the search
// link in json and yaml output.
func writeResults(w io.Writer, s *results.Session, server string, format outputFormat, color bool) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(collect(s, server))
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(collect(s, server)); err != nil {
			return err
		}
		return enc.Close()
	case formatHTML:
		return writeHTML(w, s)
	default:
		return writeText(w, s, color)
	}
}

// writeText prints results the way grep -n does: "12:" before a matching
// line, "11-" before context and "--" between blocks.
func writeText(w io.Writer, s *results.Session, color bool) error {
	re := s.Regexp()
	for _, r := range s.Results() {
		header := fmt.Sprintf("%s (%d of %d files)", r.Name, len(r.Files), r.FilesWithMatch)
		if color {
			header = ui.StyleRepo.Render(header)
		}
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}
		rules := s.Rules(r.Name)
		for i, f := range r.Files {
			name := f.Filename
			if color {
				name = ui.StyleFile.Render(name)
			}
			fmt.Fprintln(w, name)
			for bi, b := range s.Blocks(r.Name, i) {
				if bi > 0 {
					fmt.Fprintln(w, "--")
				}
				for _, l := range b {
					sep := "-"
					if l.IsMatch {
						sep = ":"
					}
					spans := highlight.Compose(l, re, rules)
					content := highlight.PlainText(spans)
					if color {
						content = ui.RenderSpans(spans, false)
					}
					fmt.Fprintf(w, "%6d%s %s\n", l.Number, sep, content)
				}
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// writeHTML prints a fragment: one section per repository with every line
// content escaped and matches wrapped in <em>.
func writeHTML(w io.Writer, s *results.Session) error {
	re := s.Regexp()
	var b strings.Builder
	for _, r := range s.Results() {
		fmt.Fprintf(&b, "<section class=\"repo\">\n<h2>%s</h2>\n", html.EscapeString(r.Name))
		rules := s.Rules(r.Name)
		for i, f := range r.Files {
			blocks := s.Blocks(r.Name, i)
			name := html.EscapeString(f.Filename)
			if len(blocks) > 0 {
				if u := s.URLToRepo(r.Name, f.Filename, firstMatch(blocks[0]), r.Revision); u != "" {
					name = fmt.Sprintf("<a href=\"%s\">%s</a>", html.EscapeString(u), name)
				}
			}
			fmt.Fprintf(&b, "<h3>%s</h3>\n", name)
			for _, block := range blocks {
				b.WriteString("<pre>")
				for _, l := range block {
					class := "line"
					if l.IsMatch {
						class = "line match"
					}
					fmt.Fprintf(&b, "<span class=\"%s\"><span class=\"lnum\">%d</span> %s</span>\n",
						class, l.Number, highlight.HTML(highlight.Compose(l, re, rules)))
				}
				b.WriteString("</pre>\n")
			}
		}
		b.WriteString("</section>\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
