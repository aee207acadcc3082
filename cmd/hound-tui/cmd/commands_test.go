package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altinukshini/hound-tui/internal/cache"
	"github.com/altinukshini/hound-tui/internal/config"
	"github.com/altinukshini/hound-tui/internal/history"
	"github.com/altinukshini/hound-tui/internal/model"
	"github.com/altinukshini/hound-tui/internal/params"
)

func TestStartParams(t *testing.T) {
	cfg := config.Config{InitSearch: model.SearchParams{RepoFilter: "hound", IgnoreCase: true}}

	tests := []struct {
		name string
		link string
		args []string
		want model.SearchParams
	}{
		{
			name: "defaults",
			want: model.SearchParams{RepoFilter: "hound", IgnoreCase: true},
		},
		{
			name: "query args",
			args: []string{"func", "main"},
			want: model.SearchParams{Query: "func main", RepoFilter: "hound", IgnoreCase: true},
		},
		{
			name: "link wins",
			link: "http://localhost:6080/?q=TODO&i=nope&files=%5C.go%24&repos=tui",
			args: []string{"ignored"},
			want: model.SearchParams{Query: "TODO", FilePathInclude: `\.go$`, RepoFilter: "tui"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := startParams(cfg, tt.link, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStartParamsBadLink(t *testing.T) {
	_, err := startParams(config.Config{}, "http://[::1", nil)
	assert.Error(t, err)
}

func TestPrintRepos(t *testing.T) {
	var buf bytes.Buffer
	err := printRepos(&buf, false, 0, map[string]model.RepoInfo{
		"tui":   {URL: "https://github.com/example/tui.git"},
		"hound": {URL: "https://github.com/example/hound.git"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "hound\thttps://github.com/example/hound.git\thttps://github.com/example/hound", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "tui\t"), lines[1])
}

func TestPrintReposEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRepos(&buf, false, 0, nil))
	assert.Equal(t, "No repositories indexed\n", buf.String())
}

func TestPrintHistory(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := model.SearchParams{Query: "TODO", IgnoreCase: true, RepoFilter: "*"}
	entries := []history.Entry{{Server: "http://localhost:6080", Link: params.Encode(p), Repos: 2, At: at}}

	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, false, 0, at.Add(time.Hour), "http://localhost:6080", entries))

	fields := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\t")
	require.Len(t, fields, 5)
	assert.Equal(t, "TODO", fields[0])
	assert.Equal(t, "-i", fields[1])
	assert.Equal(t, "2", fields[2])
	assert.Equal(t, "2026-03-01T12:00:00Z", fields[3])
	assert.Equal(t, params.Link("http://localhost:6080", p), fields[4])
}

func TestPrintCache(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []cache.CacheEntry{{
		CacheMeta: cache.CacheMeta{Server: "http://localhost:6080", RepoCount: 1200, StoredAt: now.Add(-2 * time.Hour)},
		Key:       "server-abc",
		Size:      2048,
	}}

	var buf bytes.Buffer
	require.NoError(t, printCache(&buf, false, 0, now, entries, 2048))
	assert.Equal(t, "http://localhost:6080\t1,200\tabout 2 hours ago\t2.0 KB\n", buf.String())
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "hound-tui "+version+"\n", buf.String())
}
