// Package results accumulates search results across the initial search
// and the follow-up pages a user asks for.
//
// A Session is owned by one goroutine. Operations that need the server
// return a Call; the owner runs the Call wherever it likes (a Bubble Tea
// command, a worker) and passes the Reply back to Apply on its own
// goroutine. Calls touch nothing but the transport, so no locking is
// needed.
package results

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"time"

	"github.com/altinukshini/hound-tui/internal/api"
	"github.com/altinukshini/hound-tui/internal/highlight"
	"github.com/altinukshini/hound-tui/internal/model"
	"github.com/altinukshini/hound-tui/internal/pagination"
	"github.com/altinukshini/hound-tui/internal/repourl"
	"github.com/altinukshini/hound-tui/internal/search"
)

// DefaultLineRange is the first page of files requested per repository.
var DefaultLineRange = model.Range{End: 20}

// Transport performs the HTTP round trips. *api.Client implements it.
type Transport interface {
	Search(ctx context.Context, q api.Query) (*model.SearchResponse, error)
	Repos(ctx context.Context) (map[string]model.RepoInfo, error)
}

// Op identifies the request a Reply answers.
type Op int

const (
	OpSearch Op = iota
	OpMoreMatches
	OpOtherRepos
	OpRepos
)

func (o Op) String() string {
	switch o {
	case OpSearch:
		return "search"
	case OpMoreMatches:
		return "load more"
	case OpOtherRepos:
		return "load other repos"
	case OpRepos:
		return "load repos"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

type token struct {
	gen uint64
	seq uint64
}

// Reply carries the outcome of a Call back to the session.
type Reply struct {
	Op        Op
	Repo      string
	Params    model.SearchParams
	Response  *model.SearchResponse
	Repos     map[string]model.RepoInfo
	Err       error
	StartedAt time.Time

	token token
}

// Call performs one request. It is safe to run on any goroutine.
type Call func() Reply

type Option func(*Session)

// WithClock replaces time.Now for measuring total search time.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithContext sets the context every Call runs its request with.
func WithContext(ctx context.Context) Option {
	return func(s *Session) { s.ctx = ctx }
}

type Session struct {
	Events Events

	transport Transport
	ctx       context.Context
	now       func() time.Time

	params     model.SearchParams
	re         *regexp.Regexp
	results    []*model.RepoResult
	byRepo     map[string]*model.RepoResult
	stats      *model.Stats
	pagination *model.ReposPagination

	repos map[string]model.RepoInfo
	rules map[string][]model.PatternLinkRule

	gen        uint64
	seq        uint64
	moreSeq    map[string]uint64
	otherSeq   uint64
	reposSeq   uint64
	searchSeen bool
}

func NewSession(t Transport, opts ...Option) *Session {
	s := &Session{
		Events:    newEvents(),
		transport: t,
		ctx:       context.Background(),
		now:       time.Now,
		byRepo:    map[string]*model.RepoResult{},
		repos:     map[string]model.RepoInfo{},
		rules:     map[string][]model.PatternLinkRule{},
		moreSeq:   map[string]uint64{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run performs call on the calling goroutine and applies its reply.
func (s *Session) Run(call Call) error {
	if call == nil {
		return nil
	}
	return s.Apply(call())
}

func (s *Session) next() token {
	s.seq++
	return token{gen: s.gen, seq: s.seq}
}

func withDefaults(p model.SearchParams) model.SearchParams {
	if p.RepoFilter == "" {
		p.RepoFilter = "*"
	}
	if p.LineRange.IsZero() {
		p.LineRange = DefaultLineRange
	}
	p.RepoRange = model.Range{}
	return p
}

// StartSearch begins a fresh search, superseding every request still in
// flight. An empty query clears the results immediately and returns a nil
// Call. A query that is not a valid regular expression returns a
// *PatternError without contacting the server.
func (s *Session) StartSearch(p model.SearchParams) (Call, error) {
	p = withDefaults(p)

	var re *regexp.Regexp
	if p.Query != "" {
		var err error
		if re, err = search.CompileQuery(p.Query, p.IgnoreCase); err != nil {
			perr := &PatternError{Pattern: p.Query, Err: err}
			s.Events.DidError.Publish(Failure{Op: OpSearch, Err: perr})
			return nil, perr
		}
	}

	s.gen++
	s.moreSeq = map[string]uint64{}
	s.otherSeq = 0

	s.Events.WillSearch.Publish(SearchStarted{Params: p})

	if p.Query == "" {
		s.params = p
		s.re = nil
		s.reset()
		s.stats = nil
		s.pagination = nil
		s.searchSeen = true
		s.Events.DidSearch.Publish(SearchCompleted{Params: p})
		return nil, nil
	}

	s.params = p
	s.re = re

	return s.searchCall(OpSearch, "", p, s.next()), nil
}

func (s *Session) searchCall(op Op, repo string, p model.SearchParams, tok token) Call {
	ctx, t, started := s.ctx, s.transport, s.now()
	q := api.Query{SearchParams: p, Stats: op == OpSearch}
	return func() Reply {
		resp, err := t.Search(ctx, q)
		return Reply{Op: op, Repo: repo, Params: p, Response: resp, Err: err, StartedAt: started, token: tok}
	}
}

// LoadMoreMatches requests the next page of files for repo.
func (s *Session) LoadMoreMatches(repo string) (Call, error) {
	r, ok := s.byRepo[repo]
	if !ok {
		return nil, fmt.Errorf("load more %s: %w", repo, ErrUnknownRepo)
	}
	rng, ok := pagination.NextMatchPage(*r)
	if !ok {
		return nil, fmt.Errorf("load more %s: %w", repo, ErrNoMoreMatches)
	}

	p := s.params
	p.LineRange = rng
	p.RepoRange = model.Range{Start: 0, End: 1}
	p.RepoFilter = "^" + regexp.QuoteMeta(repo) + "$"

	s.Events.WillLoadMore.Publish(MoreMatchesRequested{
		Repo:      repo,
		Range:     rng,
		Loaded:    len(r.Files),
		Remaining: r.Remaining(),
	})

	tok := s.next()
	s.moreSeq[repo] = tok.seq
	return s.searchCall(OpMoreMatches, repo, p, tok), nil
}

// LoadOtherRepos requests the next page of repositories with matches.
func (s *Session) LoadOtherRepos() (Call, error) {
	if !pagination.HasOtherRepos(s.pagination) {
		return nil, ErrNoOtherRepos
	}
	rng := pagination.NextRepoPage(*s.pagination)
	p := s.params
	p.RepoRange = rng

	s.Events.WillLoadOtherRepos.Publish(OtherReposRequested{Range: rng})

	tok := s.next()
	s.otherSeq = tok.seq
	return s.searchCall(OpOtherRepos, "", p, tok), nil
}

// LoadRepos fetches repository metadata.
func (s *Session) LoadRepos() Call {
	s.seq++
	tok := token{seq: s.seq}
	s.reposSeq = tok.seq
	ctx, t := s.ctx, s.transport
	return func() Reply {
		repos, err := t.Repos(ctx)
		return Reply{Op: OpRepos, Repos: repos, Err: err, token: tok}
	}
}

func (s *Session) current(r Reply) bool {
	switch r.Op {
	case OpRepos:
		return r.token.seq == s.reposSeq
	case OpSearch:
		return r.token.gen == s.gen
	case OpMoreMatches:
		return r.token.gen == s.gen && s.moreSeq[r.Repo] == r.token.seq
	case OpOtherRepos:
		return r.token.gen == s.gen && s.otherSeq == r.token.seq
	}
	return false
}

// Apply merges a reply into the session and publishes the outcome. Errors
// leave the accumulated results untouched.
func (s *Session) Apply(r Reply) error {
	if !s.current(r) {
		log.Printf("results: dropping stale %s reply for %q", r.Op, r.Params.Query)
		return ErrStaleReply
	}

	if err := replyError(r); err != nil {
		s.Events.DidError.Publish(Failure{Op: r.Op, Repo: r.Repo, Err: err})
		return err
	}

	switch r.Op {
	case OpSearch:
		s.applySearch(r)
	case OpMoreMatches:
		delete(s.moreSeq, r.Repo)
		s.applyMoreMatches(r)
	case OpOtherRepos:
		s.otherSeq = 0
		s.applyOtherRepos(r)
	case OpRepos:
		s.applyRepos(r)
	}
	return nil
}

func replyError(r Reply) error {
	if r.Err != nil {
		return fmt.Errorf("%w: %w", ErrServerUnavailable, r.Err)
	}
	if r.Op == OpRepos {
		return nil
	}
	if r.Response == nil {
		return fmt.Errorf("%w: empty response", ErrServerUnavailable)
	}
	if r.Response.Error != "" {
		return &ServerError{Message: r.Response.Error}
	}
	return nil
}

func (s *Session) reset() {
	s.results = nil
	s.byRepo = map[string]*model.RepoResult{}
}

func (s *Session) add(rr model.RepoResponse) bool {
	if _, dup := s.byRepo[rr.Name]; dup {
		return false
	}
	repo := rr.Repo()
	s.results = append(s.results, &repo)
	s.byRepo[repo.Name] = &repo
	return true
}

func (s *Session) applySearch(r Reply) {
	resp := r.Response
	s.reset()
	for _, rr := range resp.Results {
		s.add(rr)
	}

	s.stats = &model.Stats{TotalDuration: s.now().Sub(r.StartedAt)}
	if st := resp.Stats; st != nil {
		s.stats.ServerDuration = time.Duration(st.Duration) * time.Millisecond
		s.stats.ReposScanned = st.ReposScanned
		s.stats.FilesOpened = st.FilesOpened
	}
	s.pagination = copyPagination(resp.ReposPagination)
	s.searchSeen = true

	s.Events.DidSearch.Publish(SearchCompleted{
		Params:     s.params,
		Results:    s.Results(),
		Stats:      s.Stats(),
		Pagination: s.Pagination(),
	})
}

func (s *Session) applyMoreMatches(r Reply) {
	repo := s.byRepo[r.Repo]
	added := 0
	if repo != nil {
		for _, rr := range r.Response.Results {
			if rr.Name != r.Repo {
				continue
			}
			repo.Files = append(repo.Files, rr.Matches...)
			added += len(rr.Matches)
		}
	}
	s.Events.DidLoadMore.Publish(MoreMatchesLoaded{Repo: r.Repo, Added: added, Results: s.Results()})
}

func (s *Session) applyOtherRepos(r Reply) {
	var added []string
	for _, rr := range r.Response.Results {
		if s.add(rr) {
			added = append(added, rr.Name)
		} else {
			log.Printf("results: %s already loaded, skipping", rr.Name)
		}
	}
	s.pagination = copyPagination(r.Response.ReposPagination)
	s.Events.DidLoadOtherRepos.Publish(OtherReposLoaded{
		Added:      added,
		Results:    s.Results(),
		Pagination: s.Pagination(),
	})
}

func (s *Session) applyRepos(r Reply) {
	s.SetRepos(r.Repos)
}

// SetRepos installs repository metadata, compiling each repository's
// pattern links, and publishes DidLoadRepos.
func (s *Session) SetRepos(repos map[string]model.RepoInfo) {
	s.repos = make(map[string]model.RepoInfo, len(repos))
	s.rules = make(map[string][]model.PatternLinkRule, len(repos))
	for name, info := range repos {
		info.Name = name
		s.repos[name] = info
		if len(info.PatternLinks) == 0 {
			continue
		}
		rules, err := highlight.CompileRules(info.PatternLinks)
		if err != nil {
			log.Printf("results: repo %s: %v", name, err)
		}
		s.rules[name] = rules
	}
	s.Events.DidLoadRepos.Publish(ReposLoaded{Repos: s.Repos()})
}

func copyPagination(p *model.ReposPagination) *model.ReposPagination {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Searched reports whether a search has completed since the session
// started.
func (s *Session) Searched() bool {
	return s.searchSeen
}

// Results returns the repositories in display order.
func (s *Session) Results() []model.RepoResult {
	out := make([]model.RepoResult, len(s.results))
	for i, r := range s.results {
		out[i] = *r
	}
	return out
}

func (s *Session) Repo(name string) (model.RepoResult, bool) {
	r, ok := s.byRepo[name]
	if !ok {
		return model.RepoResult{}, false
	}
	return *r, true
}

func (s *Session) Stats() *model.Stats {
	if s.stats == nil {
		return nil
	}
	c := *s.stats
	return &c
}

func (s *Session) Pagination() *model.ReposPagination {
	return copyPagination(s.pagination)
}

// Params returns the parameters of the current search, defaults applied.
func (s *Session) Params() model.SearchParams {
	return s.params
}

// Regexp returns the compiled query used to highlight hits, or nil.
func (s *Session) Regexp() *regexp.Regexp {
	return s.re
}

// Rules returns the compiled pattern links of repo.
func (s *Session) Rules(repo string) []model.PatternLinkRule {
	return s.rules[repo]
}

func (s *Session) RepoInfo(name string) (model.RepoInfo, bool) {
	info, ok := s.repos[name]
	return info, ok
}

func (s *Session) Repos() map[string]model.RepoInfo {
	out := make(map[string]model.RepoInfo, len(s.repos))
	for k, v := range s.repos {
		out[k] = v
	}
	return out
}

// RepoNames returns the known repository names, sorted.
func (s *Session) RepoNames() []string {
	names := make([]string, 0, len(s.repos))
	for name := range s.repos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidRepos keeps the names of known repositories, dropping duplicates.
func (s *Session) ValidRepos(names []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, n := range names {
		if _, ok := s.repos[n]; ok && !seen[n] {
			out = append(out, n)
		}
		seen[n] = true
	}
	return out
}

func (s *Session) RepoCount() int {
	return len(s.repos)
}

// HasMore reports whether repo has files left to load.
func (s *Session) HasMore(repo string) bool {
	r, ok := s.byRepo[repo]
	if !ok {
		return false
	}
	_, more := pagination.NextMatchPage(*r)
	return more
}

func (s *Session) HasOtherRepos() bool {
	return pagination.HasOtherRepos(s.pagination)
}

// URLToRepo links to path at line in repo's web UI, or "" when the
// repository's URL is unknown.
func (s *Session) URLToRepo(repo, path string, line int, rev string) string {
	info, ok := s.repos[repo]
	if !ok {
		return ""
	}
	return repourl.Build(info, path, line, rev)
}

// Blocks coalesces the matches of one file.
func (s *Session) Blocks(repo string, file int) []model.LineBlock {
	r, ok := s.byRepo[repo]
	if !ok || file < 0 || file >= len(r.Files) {
		return nil
	}
	return search.Coalesce(r.Files[file].Matches)
}
