package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/altinukshini/hound-tui/internal/model"
)

// ReposCache keeps the repository metadata of each server on disk so the
// TUI can start without waiting for /api/v1/repos.
type ReposCache struct {
	dir     string
	maxSize int64         // max total cache size in bytes
	ttl     time.Duration // cache entry TTL
}

// CacheMeta stores metadata about a cached server entry.
type CacheMeta struct {
	Server    string    `json:"server"`
	RepoCount int       `json:"repo_count"`
	StoredAt  time.Time `json:"stored_at"`
}

// CacheEntry represents a single cached server with computed fields.
type CacheEntry struct {
	CacheMeta
	Key          string
	LastAccessed time.Time
	Size         int64
	Path         string
}

const (
	reposFile = "repos.json"
	metaFile  = "meta.json"
)

func NewReposCache(dir string, maxSizeMB int, ttl time.Duration) (*ReposCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create repos cache dir: %w", err)
	}
	return &ReposCache{
		dir:     dir,
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		ttl:     ttl,
	}, nil
}

// Key turns a server URL into the directory name of its entry.
func Key(server string) string {
	s := strings.ToLower(server)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	var b strings.Builder
	for _, c := range s {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '.' {
			b.WriteRune(c)
		} else {
			b.WriteByte('-')
		}
	}
	return "server-" + strings.Trim(b.String(), "-")
}

func (rc *ReposCache) serverDir(server string) string {
	return filepath.Join(rc.dir, Key(server))
}

// Fresh reports whether server has an entry younger than the TTL.
func (rc *ReposCache) Fresh(server string) bool {
	info, err := os.Stat(filepath.Join(rc.serverDir(server), reposFile))
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < rc.ttl
}

// Store writes the repository metadata for server and its meta.json.
func (rc *ReposCache) Store(server string, repos map[string]model.RepoInfo) error {
	dir := rc.serverDir(server)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create server cache dir: %w", err)
	}
	data, err := json.Marshal(model.ReposResponse(repos))
	if err != nil {
		return fmt.Errorf("marshal repos: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, reposFile), data, 0o644); err != nil {
		return err
	}
	return rc.WriteMeta(server, CacheMeta{Server: server, RepoCount: len(repos), StoredAt: time.Now()})
}

// Load reads the cached repository metadata for server. Stale entries are
// returned too; use Fresh to decide whether to trust them.
func (rc *ReposCache) Load(server string) (map[string]model.RepoInfo, error) {
	data, err := os.ReadFile(filepath.Join(rc.serverDir(server), reposFile))
	if err != nil {
		return nil, err
	}
	var resp model.ReposResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode cached repos: %w", err)
	}
	repos := make(map[string]model.RepoInfo, len(resp))
	for name, info := range resp {
		info.Name = name
		repos[name] = info
	}
	return repos, nil
}

// Evict removes expired and oversized cache entries.
func (rc *ReposCache) Evict() error {
	type cacheEntry struct {
		path    string
		modTime time.Time
		size    int64
	}

	var entries []cacheEntry
	var totalSize int64

	dirs, err := os.ReadDir(rc.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		path := filepath.Join(rc.dir, d.Name())
		e := cacheEntry{path: path, modTime: dirLastAccessed(path), size: dirSize(path)}
		entries = append(entries, e)
		totalSize += e.size
	}

	// Evict expired entries
	now := time.Now()
	remaining := entries[:0]
	for _, e := range entries {
		if now.Sub(e.modTime) > rc.ttl {
			os.RemoveAll(e.path)
			totalSize -= e.size
		} else {
			remaining = append(remaining, e)
		}
	}
	entries = remaining

	// Evict oldest entries if over size cap
	if totalSize > rc.maxSize {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].modTime.Before(entries[j].modTime)
		})
		for _, e := range entries {
			if totalSize <= rc.maxSize {
				break
			}
			os.RemoveAll(e.path)
			totalSize -= e.size
		}
	}
	return nil
}

// WriteMeta writes meta.json in the entry's directory.
func (rc *ReposCache) WriteMeta(server string, meta CacheMeta) error {
	path := filepath.Join(rc.serverDir(server), metaFile)
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadMeta reads meta.json from a cache entry.
func (rc *ReposCache) ReadMeta(server string) (*CacheMeta, error) {
	return readMeta(rc.serverDir(server))
}

func readMeta(dir string) (*CacheMeta, error) {
	data, err := os.ReadFile(filepath.Join(dir, metaFile))
	if err != nil {
		return nil, err
	}
	var meta CacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// ListEntries scans the cache directory and returns all entries.
func (rc *ReposCache) ListEntries() ([]CacheEntry, error) {
	entries, err := os.ReadDir(rc.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var result []CacheEntry
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), "server-") {
			continue
		}
		dirPath := filepath.Join(rc.dir, e.Name())
		entry := CacheEntry{Key: e.Name(), Path: dirPath}
		if meta, err := readMeta(dirPath); err == nil {
			entry.CacheMeta = *meta
		}
		entry.Size = dirSize(dirPath)
		entry.LastAccessed = dirLastAccessed(dirPath)
		result = append(result, entry)
	}
	return result, nil
}

// DeleteEntry removes the entry of one server.
func (rc *ReposCache) DeleteEntry(server string) error {
	return os.RemoveAll(rc.serverDir(server))
}

// DeleteAll removes all cache entries.
func (rc *ReposCache) DeleteAll() error {
	entries, err := os.ReadDir(rc.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			os.RemoveAll(filepath.Join(rc.dir, e.Name()))
		}
	}
	return nil
}

// TotalSize returns total cache size in bytes.
func (rc *ReposCache) TotalSize() (int64, error) {
	var total int64
	err := filepath.Walk(rc.dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip errors
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return 0, err
	}
	return total, nil
}

func dirSize(path string) int64 {
	var size int64
	filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}

func dirLastAccessed(path string) time.Time {
	var latest time.Time
	filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
		return nil
	})
	return latest
}
