// Package pagination derives the range parameters for follow-up requests
// from what has already been loaded.
package pagination

import "github.com/altinukshini/hound-tui/internal/model"

// MaxMatchPage caps how many files one "load more" request asks for.
const MaxMatchPage = 2000

// NextMatchPage returns the rng window for the next batch of files in
// repo. The window is open-ended when it reaches the last file the server
// reported. ok is false when everything has been loaded.
func NextMatchPage(repo model.RepoResult) (r model.Range, ok bool) {
	start := len(repo.Files)
	needed := repo.FilesWithMatch - start
	if needed <= 0 {
		return model.Range{}, false
	}
	size := min(MaxMatchPage, needed)
	if size == needed {
		return model.Range{Start: start, Open: true}, true
	}
	return model.Range{Start: start, End: start + size}, true
}

// NextRepoPage returns the rngRepos window for the next page of
// repositories.
func NextRepoPage(p model.ReposPagination) model.Range {
	return model.Range{Start: p.NextOffset, End: p.NextLimit}
}

// HasOtherRepos reports whether the server said more repositories match.
func HasOtherRepos(p *model.ReposPagination) bool {
	return p != nil && p.OtherRepos > 0
}
