package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/altinukshini/hound-tui/internal/model"
	"github.com/altinukshini/hound-tui/internal/params"
)

// Query is one /api/v1/search request.
type Query struct {
	model.SearchParams
	Stats bool
}

func (q Query) QueryString() string {
	v := url.Values{}
	v.Set("q", q.Query)
	v.Set("i", params.FormatBool(q.IgnoreCase))
	if q.FilePathInclude != "" {
		v.Set("files", q.FilePathInclude)
	}
	if q.FilePathExclude != "" {
		v.Set("excludeFiles", q.FilePathExclude)
	}
	if q.RepoFilter != "" {
		v.Set("repos", q.RepoFilter)
	}
	if !q.LineRange.IsZero() {
		v.Set("rng", q.LineRange.String())
	}
	if !q.RepoRange.IsZero() {
		v.Set("rngRepos", q.RepoRange.String())
	}
	if q.ContextLines > 0 {
		v.Set("ctx", strconv.Itoa(q.ContextLines))
	}
	if q.Stats {
		v.Set("stats", params.True)
	}
	return "?" + v.Encode()
}

// Search runs a query. A query the server rejects is not an error here:
// it comes back with status 200 and the response's Error field set.
func (c *Client) Search(ctx context.Context, q Query) (*model.SearchResponse, error) {
	var resp model.SearchResponse
	if err := c.get(ctx, "search"+q.QueryString(), &resp); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return &resp, nil
}
