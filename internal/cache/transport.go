package cache

import (
	"context"
	"log"

	"github.com/altinukshini/hound-tui/internal/api"
	"github.com/altinukshini/hound-tui/internal/model"
)

// Transport is the part of the Hound client the cache sits in front of.
type Transport interface {
	Search(ctx context.Context, q api.Query) (*model.SearchResponse, error)
	Repos(ctx context.Context) (map[string]model.RepoInfo, error)
}

// CachingTransport answers Repos from the cache while the entry is fresh
// and stores every successful fetch. Searches always go to the server.
type CachingTransport struct {
	Transport
	cache  *ReposCache
	server string
}

func NewCachingTransport(t Transport, c *ReposCache, server string) *CachingTransport {
	return &CachingTransport{Transport: t, cache: c, server: server}
}

func (ct *CachingTransport) Repos(ctx context.Context) (map[string]model.RepoInfo, error) {
	if ct.cache.Fresh(ct.server) {
		repos, err := ct.cache.Load(ct.server)
		if err == nil {
			return repos, nil
		}
		log.Printf("cache: %v", err)
	}

	repos, err := ct.Transport.Repos(ctx)
	if err != nil {
		// Fall back to a stale entry.
		if cached, cerr := ct.cache.Load(ct.server); cerr == nil {
			log.Printf("cache: serving stale repos for %s: %v", ct.server, err)
			return cached, nil
		}
		return nil, err
	}
	if err := ct.cache.Store(ct.server, repos); err != nil {
		log.Printf("cache: store repos for %s: %v", ct.server, err)
	}
	return repos, nil
}

// Invalidate drops the entry so the next Repos call hits the server.
func (ct *CachingTransport) Invalidate() error {
	return ct.cache.DeleteEntry(ct.server)
}
