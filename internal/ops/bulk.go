// Package ops drives multi-page operations over a results session.
package ops

import (
	"context"
	"fmt"

	"github.com/altinukshini/hound-tui/internal/results"
)

type LoadResult struct {
	Pages int
	Added int
}

// LoadAllMatches requests pages of files for repo until every file with a
// match is loaded. onProgress receives the loaded and total file counts
// after each page. Cancelling ctx stops between pages.
func LoadAllMatches(ctx context.Context, s *results.Session, repo string, onProgress func(loaded, total int)) (*LoadResult, error) {
	result := &LoadResult{}

	for s.HasMore(repo) {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		before := loadedFiles(s, repo)
		call, err := s.LoadMoreMatches(repo)
		if err != nil {
			return result, err
		}
		if err := s.Run(call); err != nil {
			return result, fmt.Errorf("load more %s: %w", repo, err)
		}
		result.Pages++

		r, _ := s.Repo(repo)
		added := len(r.Files) - before
		result.Added += added
		if onProgress != nil {
			onProgress(len(r.Files), r.FilesWithMatch)
		}
		if added == 0 {
			// The server has nothing beyond what it reported.
			break
		}
	}
	return result, nil
}

func loadedFiles(s *results.Session, repo string) int {
	r, _ := s.Repo(repo)
	return len(r.Files)
}

// LoadAllRepos requests pages of other repositories until the server
// reports none left. onProgress receives the loaded repository count and
// that count plus the repositories still pending.
func LoadAllRepos(ctx context.Context, s *results.Session, onProgress func(loaded, total int)) (*LoadResult, error) {
	result := &LoadResult{}

	for s.HasOtherRepos() {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		before := len(s.Results())
		call, err := s.LoadOtherRepos()
		if err != nil {
			return result, err
		}
		if err := s.Run(call); err != nil {
			return result, fmt.Errorf("load other repos: %w", err)
		}
		result.Pages++

		loaded := len(s.Results())
		added := loaded - before
		result.Added += added
		if onProgress != nil {
			total := loaded
			if p := s.Pagination(); p != nil {
				total += p.OtherRepos
			}
			onProgress(loaded, total)
		}
		if added == 0 {
			break
		}
	}
	return result, nil
}

// LoadEverything loads every remaining repository, then every remaining
// file of each loaded repository.
func LoadEverything(ctx context.Context, s *results.Session, onProgress func(stage string, loaded, total int)) (*LoadResult, error) {
	progress := func(stage string) func(int, int) {
		if onProgress == nil {
			return nil
		}
		return func(loaded, total int) { onProgress(stage, loaded, total) }
	}

	result, err := LoadAllRepos(ctx, s, progress("repos"))
	if err != nil {
		return result, err
	}
	for _, r := range s.Results() {
		if !s.HasMore(r.Name) {
			continue
		}
		res, err := LoadAllMatches(ctx, s, r.Name, progress(r.Name))
		result.Pages += res.Pages
		result.Added += res.Added
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

// Next returns the request that brings s one page closer to fully loaded:
// other repositories first, then the first repository with files left.
// It returns a nil call when nothing remains. repo names the repository
// the call loads, or is empty for a page of other repositories.
func Next(s *results.Session) (call results.Call, repo string, err error) {
	if s.HasOtherRepos() {
		call, err = s.LoadOtherRepos()
		return call, "", err
	}
	for _, r := range s.Results() {
		if s.HasMore(r.Name) {
			call, err = s.LoadMoreMatches(r.Name)
			return call, r.Name, err
		}
	}
	return nil, "", nil
}
