package api

import (
	"context"
	"fmt"

	"github.com/altinukshini/hound-tui/internal/model"
)

// Repos fetches the metadata of every indexed repository, keyed by name.
func (c *Client) Repos(ctx context.Context) (map[string]model.RepoInfo, error) {
	var resp model.ReposResponse
	if err := c.get(ctx, "repos", &resp); err != nil {
		return nil, fmt.Errorf("list repos: %w", err)
	}
	repos := make(map[string]model.RepoInfo, len(resp))
	for name, info := range resp {
		info.Name = name
		repos[name] = info
	}
	return repos, nil
}
