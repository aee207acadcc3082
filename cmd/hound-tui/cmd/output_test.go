package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/altinukshini/hound-tui/internal/api"
	"github.com/altinukshini/hound-tui/internal/model"
	"github.com/altinukshini/hound-tui/internal/results"
)

type fakeTransport struct {
	resp  *model.SearchResponse
	repos map[string]model.RepoInfo
}

func (f *fakeTransport) Search(context.Context, api.Query) (*model.SearchResponse, error) {
	return f.resp, nil
}

func (f *fakeTransport) Repos(context.Context) (map[string]model.RepoInfo, error) {
	return f.repos, nil
}

func repoResp(name string, loaded, total int) model.RepoResponse {
	files := make([]model.FileResult, loaded)
	for i := range files {
		files[i] = model.FileResult{
			Filename: fmt.Sprintf("%s%d.go", name, i),
			Matches: []model.RawMatch{{
				LineNumber: 10 + i,
				Before:     []string{"package main"},
				Line:       "func foo() {}",
			}},
		}
	}
	return model.RepoResponse{Name: name, Revision: "abc", Matches: files, FilesWithMatch: total}
}

func newSession(t *testing.T) *results.Session {
	t.Helper()
	s := results.NewSession(&fakeTransport{
		resp: &model.SearchResponse{
			Results:         []model.RepoResponse{repoResp("a", 2, 4), repoResp("b", 1, 1)},
			ReposPagination: &model.ReposPagination{OtherRepos: 3, NextOffset: 2, NextLimit: 10},
		},
		repos: map[string]model.RepoInfo{
			"a": {URL: "https://github.com/example/a.git"},
			"b": {URL: "https://github.com/example/b.git"},
		},
	})
	require.NoError(t, s.Run(s.LoadRepos()))
	call, err := s.StartSearch(model.SearchParams{Query: "foo"})
	require.NoError(t, err)
	require.NoError(t, s.Run(call))
	return s
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    outputFormat
		wantErr bool
	}{
		{in: "text", want: formatText},
		{in: "JSON", want: formatJSON},
		{in: "yaml", want: formatYAML},
		{in: "html", want: formatHTML},
		{in: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResults(&buf, newSession(t), "http://localhost:6080", formatText, false))

	out := buf.String()
	assert.Contains(t, out, "a (2 of 4 files)\na0.go\n")
	assert.Contains(t, out, "     9- package main\n    10: func foo() {}\n")
	assert.Contains(t, out, "a1.go\n    10- package main\n    11: func foo() {}\n")
	assert.Contains(t, out, "b (1 of 1 files)\n")
	assert.NotContains(t, out, "\x1b[")
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResults(&buf, newSession(t), "http://localhost:6080", formatHTML, false))

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "<section class=\"repo\">"))
	assert.Contains(t, out, `<h3><a href="https://github.com/example/a/blob/abc/a0.go#L10">a0.go</a></h3>`)
	assert.Contains(t, out, `<span class="line match"><span class="lnum">10</span> func <em>foo</em>() {}</span>`)
	assert.Contains(t, out, `<span class="line"><span class="lnum">9</span> package main</span>`)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResults(&buf, newSession(t), "http://localhost:6080", formatJSON, false))

	var out searchOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "foo", out.Query)
	assert.True(t, strings.HasPrefix(out.Link, "http://localhost:6080/?"), out.Link)
	assert.Contains(t, out.Link, "q=foo")
	assert.Equal(t, 3, out.OtherRepos)
	require.Len(t, out.Repos, 2)

	a := out.Repos[0]
	assert.Equal(t, "a", a.Name)
	assert.Equal(t, 4, a.FilesWithMatch)
	require.Len(t, a.Files, 2)
	assert.Equal(t, "https://github.com/example/a/blob/abc/a0.go#L10", a.Files[0].URL)
	require.Len(t, a.Files[0].Blocks, 1)
	assert.Equal(t, []lineOutput{
		{Number: 9, Content: "package main", HTML: "package main"},
		{Number: 10, Content: "func foo() {}", Match: true, HTML: "func <em>foo</em>() {}"},
	}, a.Files[0].Blocks[0])
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResults(&buf, newSession(t), "http://localhost:6080", formatYAML, false))

	var out searchOutput
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out.Repos, 2)
	assert.Equal(t, "b", out.Repos[1].Name)
	assert.Equal(t, "b0.go", out.Repos[1].Files[0].Filename)
}

func TestSummaryAndPending(t *testing.T) {
	s := newSession(t)
	assert.True(t, strings.HasPrefix(summary(s), "5 files in 2 repos"), summary(s))
	assert.True(t, pending(s))

	empty := results.NewSession(&fakeTransport{resp: &model.SearchResponse{}})
	call, err := empty.StartSearch(model.SearchParams{Query: "nothing"})
	require.NoError(t, err)
	require.NoError(t, empty.Run(call))
	assert.Equal(t, `No results for "nothing"`, summary(empty))
	assert.False(t, pending(empty))
}
