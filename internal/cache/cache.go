// Package cache is a file-based response cache keyed by query hash. It is a
// pure optimization layer: every read or write failure is logged at debug
// level and treated as a miss, never propagated.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// Store persists one JSON file per cache key under an environment-scoped
// directory. Entries are valid until the end of the calendar day in which
// they were written. No file locking: concurrent writers to the same key
// race and the last writer wins, acceptable for a single-operator CLI.
type Store struct {
	dir string
}

// entry is the versioned on-disk schema.
type entry struct {
	Data      json.RawMessage `json:"data"`
	CachedAt  int64           `json:"cached_at"`
	ExpiresAt int64           `json:"expires_at"`
}

// legacyEntry is the pre-versioning schema still accepted on read.
type legacyEntry struct {
	Issues    json.RawMessage `json:"issues"`
	Timestamp string          `json:"timestamp"`
}

// New scopes the store under root/<env> so test, development, and
// production runs never collide.
func New(root, env string) *Store {
	return &Store{dir: filepath.Join(root, env)}
}

// NewWithDir uses an explicit directory, bypassing environment scoping.
func NewWithDir(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the resolved cache directory.
func (s *Store) Dir() string {
	return s.dir
}

// Get returns the stored payload for key, or nil/false when the file is
// absent, unparseable, or expired.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	path := s.path(key)
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Debug().Str("key", key).Msg("Cache miss")
		return nil, false
	}

	data, expiry, ok := decode(raw)
	if !ok {
		log.Debug().Str("key", key).Msg("Corrupt cache entry, treating as miss")
		return nil, false
	}

	if time.Now().After(expiry) {
		log.Debug().Str("key", key).Time("expired", expiry).Msg("Cache entry expired")
		return nil, false
	}

	log.Debug().Str("key", key).Msg("Cache hit")
	return data, true
}

// Set writes payload under key, expiring at the end of today. It reports
// success; any I/O or marshal failure is swallowed as a no-op.
func (s *Store) Set(key string, payload any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Cache write skipped, payload not marshalable")
		return false
	}

	now := time.Now()
	raw, err := json.Marshal(entry{
		Data:      data,
		CachedAt:  now.Unix(),
		ExpiresAt: endOfDay(now).Unix(),
	})
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Cache write skipped")
		return false
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		log.Debug().Err(err).Str("dir", s.dir).Msg("Cache directory not writable")
		return false
	}
	if err := os.WriteFile(s.path(key), raw, 0644); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Cache write failed")
		return false
	}

	log.Debug().Str("key", key).Msg("Cache entry written")
	return true
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// decode accepts both the versioned schema and the legacy
// {issues, timestamp} format, returning the payload and its expiry.
func decode(raw []byte) (json.RawMessage, time.Time, bool) {
	var e entry
	if err := json.Unmarshal(raw, &e); err == nil && e.Data != nil {
		if e.ExpiresAt > 0 {
			return e.Data, time.Unix(e.ExpiresAt, 0), true
		}
		if e.CachedAt > 0 {
			return e.Data, endOfDay(time.Unix(e.CachedAt, 0)), true
		}
		// No timestamp at all: treat as already expired.
		return e.Data, time.Time{}, true
	}

	var le legacyEntry
	if err := json.Unmarshal(raw, &le); err == nil && le.Issues != nil {
		ts, err := time.Parse(time.RFC3339, le.Timestamp)
		if err != nil {
			return le.Issues, time.Time{}, true
		}
		return le.Issues, endOfDay(ts), true
	}

	return nil, time.Time{}, false
}

// endOfDay returns the last instant of t's calendar day in local time.
func endOfDay(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 999999999, local.Location())
}
