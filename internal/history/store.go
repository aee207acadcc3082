// Package history persists recent searches in a bbolt database. Each
// server gets its own bucket; entries are keyed by time so a cursor walks
// them oldest first.
package history

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/altinukshini/hound-tui/internal/model"
	"github.com/altinukshini/hound-tui/internal/params"
)

// DefaultLimit is how many searches are kept per server.
const DefaultLimit = 100

// Entry is one recorded search.
type Entry struct {
	Server string    `json:"server"`
	Link   string    `json:"link"`
	Repos  int       `json:"repos"`
	At     time.Time `json:"at"`
	key    []byte
}

// Params decodes the search parameters the entry was recorded with.
func (e Entry) Params() model.SearchParams {
	return params.Decode(e.Link, params.Defaults)
}

type Store struct {
	db    *bolt.DB
	limit int
	now   func() time.Time
}

// Open opens (or creates) the history database at path.
func Open(path string, limit int) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{db: db, limit: limit, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func timeKey(t time.Time) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(t.UnixNano()))
	return k
}

// Record stores a search for server. An earlier entry with the same
// parameters is replaced so each search appears once, at its latest time.
// Empty queries are not recorded.
func (s *Store) Record(server string, p model.SearchParams, repos int) error {
	if p.Query == "" {
		return nil
	}
	e := Entry{Server: server, Link: params.Encode(p), Repos: repos, At: s.now()}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(server))
		if err != nil {
			return err
		}

		var stale [][]byte
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var old Entry
			if json.Unmarshal(v, &old) == nil && old.Link == e.Link {
				stale = append(stale, append([]byte(nil), k...))
			}
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}

		if err := b.Put(timeKey(e.At), data); err != nil {
			return err
		}
		return trim(b, s.limit)
	})
}

func trim(b *bolt.Bucket, limit int) error {
	var keys [][]byte
	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		keys = append(keys, append([]byte(nil), k...))
	}
	if len(keys) <= limit {
		return nil
	}
	for _, k := range keys[:len(keys)-limit] {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// Recent returns up to n entries for server, newest first. n <= 0 returns
// all of them.
func (s *Store) Recent(server string, n int) ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(server))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if n > 0 && len(entries) == n {
				break
			}
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("unmarshal history entry: %w", err)
			}
			e.key = append([]byte(nil), k...)
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Delete removes a single entry returned by Recent.
func (s *Store) Delete(e Entry) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(e.Server))
		if b == nil || e.key == nil {
			return nil
		}
		return b.Delete(e.key)
	})
}

// Clear removes every entry for server. Clearing an unknown server is not
// an error.
func (s *Store) Clear(server string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(server))
		if err == bolt.ErrBucketNotFound {
			return nil // idempotent
		}
		return err
	})
}
