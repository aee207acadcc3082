package results

import (
	"github.com/altinukshini/hound-tui/internal/event"
	"github.com/altinukshini/hound-tui/internal/model"
)

type SearchStarted struct {
	Params model.SearchParams
}

type SearchCompleted struct {
	Params     model.SearchParams
	Results    []model.RepoResult
	Stats      *model.Stats
	Pagination *model.ReposPagination
}

type MoreMatchesRequested struct {
	Repo      string
	Range     model.Range
	Loaded    int
	Remaining int
}

type MoreMatchesLoaded struct {
	Repo    string
	Added   int
	Results []model.RepoResult
}

type OtherReposRequested struct {
	Range model.Range
}

type OtherReposLoaded struct {
	Added      []string
	Results    []model.RepoResult
	Pagination *model.ReposPagination
}

type ReposLoaded struct {
	Repos map[string]model.RepoInfo
}

// Failure is published for every request that ends in an error.
type Failure struct {
	Op   Op
	Repo string
	Err  error
}

// Events holds one bus per notification a Session publishes.
type Events struct {
	WillSearch         *event.Bus[SearchStarted]
	DidSearch          *event.Bus[SearchCompleted]
	WillLoadMore       *event.Bus[MoreMatchesRequested]
	DidLoadMore        *event.Bus[MoreMatchesLoaded]
	WillLoadOtherRepos *event.Bus[OtherReposRequested]
	DidLoadOtherRepos  *event.Bus[OtherReposLoaded]
	DidLoadRepos       *event.Bus[ReposLoaded]
	DidError           *event.Bus[Failure]
}

func newEvents() Events {
	return Events{
		WillSearch:         event.NewBus[SearchStarted]("will-search"),
		DidSearch:          event.NewBus[SearchCompleted]("did-search"),
		WillLoadMore:       event.NewBus[MoreMatchesRequested]("will-load-more"),
		DidLoadMore:        event.NewBus[MoreMatchesLoaded]("did-load-more"),
		WillLoadOtherRepos: event.NewBus[OtherReposRequested]("will-load-other-repos"),
		DidLoadOtherRepos:  event.NewBus[OtherReposLoaded]("did-load-other-repos"),
		DidLoadRepos:       event.NewBus[ReposLoaded]("did-load-repos"),
		DidError:           event.NewBus[Failure]("did-error"),
	}
}
