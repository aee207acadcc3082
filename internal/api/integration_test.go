package api

import (
	"context"
	"os"
	"testing"

	"github.com/altinukshini/hound-tui/internal/model"
)

func integrationClient(t *testing.T) *Client {
	t.Helper()
	server := os.Getenv("HOUND_TUI_INTEGRATION")
	if server == "" {
		t.Skip("Set HOUND_TUI_INTEGRATION=<server url> to run integration tests")
	}
	client, err := NewClient(Options{Server: server})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestIntegrationRepos(t *testing.T) {
	client := integrationClient(t)

	repos, err := client.Repos(context.Background())
	if err != nil {
		t.Fatalf("Repos: %v", err)
	}
	if len(repos) == 0 {
		t.Error("expected at least 1 repo")
	}
	for name, r := range repos {
		t.Logf("  %s %s", name, r.URL)
	}
}

func TestIntegrationSearch(t *testing.T) {
	client := integrationClient(t)

	resp, err := client.Search(context.Background(), Query{
		SearchParams: model.SearchParams{Query: "func", RepoFilter: "*", LineRange: model.Range{End: 5}},
		Stats:        true,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Error != "" {
		t.Fatalf("server error: %s", resp.Error)
	}

	t.Logf("Found results in %d repos", len(resp.Results))
	for _, r := range resp.Results {
		t.Logf("  %s: %d files with matches", r.Name, r.FilesWithMatch)
	}
}
