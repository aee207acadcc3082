package model

import (
	"strconv"
	"strings"
	"time"
)

// Range is a "start:end" window used for both the rng and rngRepos
// request parameters. Open means the end is left empty so the server
// returns everything from Start onwards.
type Range struct {
	Start int
	End   int
	Open  bool
}

func (r Range) String() string {
	if r.Open {
		return strconv.Itoa(r.Start) + ":"
	}
	return strconv.Itoa(r.Start) + ":" + strconv.Itoa(r.End)
}

// IsZero reports whether r is the unset range.
func (r Range) IsZero() bool {
	return r == Range{}
}

// ParseRange parses "start:end". Parts that are empty or not a
// non-negative integer are treated as 0, matching how the server reads
// them. An empty end yields an open range.
func ParseRange(s string) (Range, bool) {
	ix := strings.Index(s, ":")
	if ix < 0 {
		return Range{}, false
	}
	r := Range{Start: parseRangeInt(s[:ix])}
	if end := s[ix+1:]; end == "" {
		r.Open = true
	} else {
		r.End = parseRangeInt(end)
	}
	return r, true
}

func parseRangeInt(v string) int {
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0
	}
	return int(n)
}

// SearchParams describes one search request. Zero-valued ranges are
// filled in with defaults when the search is issued.
type SearchParams struct {
	Query           string
	IgnoreCase      bool
	FilePathInclude string
	FilePathExclude string
	RepoFilter      string
	LineRange       Range
	RepoRange       Range
	ContextLines    int // 0 lets the server pick its default
}

// RawMatch is one hit inside a file together with its context window.
type RawMatch struct {
	LineNumber int      `json:"LineNumber"`
	Before     []string `json:"Before"`
	Line       string   `json:"Line"`
	After      []string `json:"After"`
}

// Line is a single numbered source line in a rendered block.
type Line struct {
	Number  int
	Content string
	IsMatch bool
}

// LineBlock is a contiguous run of lines with at least one match.
type LineBlock []Line

// First returns the lowest line number in the block.
func (b LineBlock) First() int {
	if len(b) == 0 {
		return 0
	}
	return b[0].Number
}

// Last returns the highest line number in the block.
func (b LineBlock) Last() int {
	if len(b) == 0 {
		return 0
	}
	return b[len(b)-1].Number
}

type FileResult struct {
	Filename string     `json:"Filename"`
	Matches  []RawMatch `json:"Matches"`
}

type RepoResult struct {
	Name           string
	Revision       string
	Files          []FileResult
	FilesWithMatch int
}

// MatchCount returns the number of hits loaded for the repository.
func (r *RepoResult) MatchCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Matches)
	}
	return n
}

// Remaining returns how many files with matches have not been loaded yet.
func (r *RepoResult) Remaining() int {
	if n := r.FilesWithMatch - len(r.Files); n > 0 {
		return n
	}
	return 0
}

type Stats struct {
	ServerDuration time.Duration
	TotalDuration  time.Duration
	FilesOpened    int
	ReposScanned   int
}

type ReposPagination struct {
	OtherRepos int `json:"OtherRepos"`
	NextOffset int `json:"NextOffset"`
	NextLimit  int `json:"NextLimit"`
}
