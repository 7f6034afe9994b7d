package cache

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned by Get when no entry exists for a key
var ErrNotFound = errors.New("cache entry not found")

// Storage defines the interface for cache operations
type Storage interface {
	Get(key string) (*Entry, error)
	Set(key string, content []byte) error
	IsExpired(key string, ttl time.Duration) (bool, error)
	Close() error
}

// Entry represents a cached item with its metadata
type Entry struct {
	Content   []byte    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Expired reports whether the entry is older than ttl at now.
func (e *Entry) Expired(ttl time.Duration, now time.Time) bool {
	return now.Sub(e.Timestamp) > ttl
}

// Backend names accepted by Open
const (
	BackendNone = "none"
	BackendFile = "file"
	BackendBolt = "bolt"
)

// Open returns the storage for backend rooted at dir. BackendNone returns a
// nil Storage and no error.
func Open(backend, dir string) (Storage, error) {
	switch backend {
	case "", BackendNone:
		return nil, nil
	case BackendFile:
		s, err := NewFileStorage(dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendBolt:
		s, err := OpenBoltStorage(dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", backend)
}

// KeyFromURL creates a cache key from a source URL. Scheme and host are
// lowercased and the fragment is dropped, so equivalent spellings share an
// entry. Anything that does not parse as a URL is used as is.
func KeyFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	return u.String()
}
