package pagination

import (
	"testing"

	"github.com/altinukshini/hound-tui/internal/model"
)

func repoWith(loaded, total int) model.RepoResult {
	return model.RepoResult{Name: "r", Files: make([]model.FileResult, loaded), FilesWithMatch: total}
}

func TestNextMatchPage(t *testing.T) {
	tests := []struct {
		name   string
		loaded int
		total  int
		want   string
		ok     bool
	}{
		{"first of three thousand", 0, 3000, "0:2000", true},
		{"rest of three thousand", 2000, 3000, "2000:", true},
		{"small remainder", 20, 35, "20:", true},
		{"exactly one page", 0, 2000, "0:", true},
		{"one past a page", 0, 2001, "0:2000", true},
		{"all loaded", 35, 35, "", false},
		{"server under-reported", 40, 35, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := NextMatchPage(repoWith(tt.loaded, tt.total))
			if ok != tt.ok {
				t.Fatalf("NextMatchPage(%d of %d) ok = %v, want %v", tt.loaded, tt.total, ok, tt.ok)
			}
			if ok && r.String() != tt.want {
				t.Errorf("NextMatchPage(%d of %d) = %q, want %q", tt.loaded, tt.total, r.String(), tt.want)
			}
		})
	}
}

func TestNextMatchPageStaysWithinBounds(t *testing.T) {
	for total := 1; total <= 7000; total += 333 {
		for loaded := 0; loaded < total; loaded += 250 {
			r, ok := NextMatchPage(repoWith(loaded, total))
			if !ok {
				t.Errorf("NextMatchPage(%d of %d) found nothing to load", loaded, total)
				continue
			}
			if r.Start != loaded {
				t.Errorf("NextMatchPage(%d of %d) starts at %d", loaded, total, r.Start)
			}
			if r.Open {
				if total-loaded > MaxMatchPage {
					t.Errorf("NextMatchPage(%d of %d) left the page open past %d", loaded, total, MaxMatchPage)
				}
				continue
			}
			if r.End-r.Start > MaxMatchPage || r.End > total {
				t.Errorf("NextMatchPage(%d of %d) = %s out of bounds", loaded, total, r)
			}
		}
	}
}

func TestNextRepoPage(t *testing.T) {
	r := NextRepoPage(model.ReposPagination{OtherRepos: 12, NextOffset: 10, NextLimit: 5})
	if got := r.String(); got != "10:5" {
		t.Errorf("NextRepoPage() = %q, want %q", got, "10:5")
	}
}

func TestHasOtherRepos(t *testing.T) {
	tests := []struct {
		name string
		p    *model.ReposPagination
		want bool
	}{
		{"nil", nil, false},
		{"none left", &model.ReposPagination{}, false},
		{"one left", &model.ReposPagination{OtherRepos: 1}, true},
	}
	for _, tt := range tests {
		if got := HasOtherRepos(tt.p); got != tt.want {
			t.Errorf("HasOtherRepos(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
