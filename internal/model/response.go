package model

// SearchResponse is the JSON body of GET /api/v1/search. A request the
// server rejects still comes back with status 200 and Error set.
type SearchResponse struct {
	Error           string           `json:"Error,omitempty"`
	Results         []RepoResponse   `json:"Results"`
	Stats           *StatsResponse   `json:"Stats,omitempty"`
	ReposPagination *ReposPagination `json:"ReposPagination,omitempty"`
}

type RepoResponse struct {
	Name           string       `json:"Name"`
	Revision       string       `json:"Revision"`
	Matches        []FileResult `json:"Matches"`
	FilesWithMatch int          `json:"FilesWithMatch"`
}

// Repo converts the wire form into an aggregated result entry.
func (r RepoResponse) Repo() RepoResult {
	return RepoResult{
		Name:           r.Name,
		Revision:       r.Revision,
		Files:          r.Matches,
		FilesWithMatch: r.FilesWithMatch,
	}
}

type StatsResponse struct {
	Duration     int `json:"Duration"`
	ReposScanned int `json:"ReposScanned"`
	FilesOpened  int `json:"FilesOpened"`
}

// ReposResponse is the JSON body of GET /api/v1/repos.
type ReposResponse map[string]RepoInfo
