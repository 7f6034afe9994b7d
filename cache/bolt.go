package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	// BoltFileName is the database file created inside the cache directory
	BoltFileName = "cache.db"

	playlistsBucket = "playlists"
)

// BoltStorage implements Storage on a single BoltDB file. It is safe for
// concurrent use; bbolt serializes writers.
type BoltStorage struct {
	db  *bbolt.DB
	now func() time.Time
}

// OpenBoltStorage opens or creates the cache database in dir.
func OpenBoltStorage(dir string) (*BoltStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bbolt.Open(filepath.Join(dir, BoltFileName), 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	s, err := NewBoltStorage(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewBoltStorage wraps an open database, creating the bucket if needed.
func NewBoltStorage(db *bbolt.DB) (*BoltStorage, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}

	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(playlistsBucket))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	return &BoltStorage{db: db, now: time.Now}, nil
}

// Get retrieves a cached entry by key
func (s *BoltStorage) Get(key string) (*Entry, error) {
	var entry Entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(playlistsBucket))
		if bucket == nil {
			return errors.New("playlists bucket not found")
		}

		data := bucket.Get([]byte(key))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		// data is only valid inside the transaction; Unmarshal copies it
		if err := json.Unmarshal(data, &entry); err != nil {
			return fmt.Errorf("failed to unmarshal cache entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Set stores content in the cache with the current timestamp
func (s *BoltStorage) Set(key string, content []byte) error {
	data, err := json.Marshal(Entry{Content: content, Timestamp: s.now()})
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(playlistsBucket))
		if bucket == nil {
			return errors.New("playlists bucket not found")
		}
		return bucket.Put([]byte(key), data)
	})
}

// IsExpired checks if a cache entry has exceeded the TTL.
// A missing entry counts as expired.
func (s *BoltStorage) IsExpired(key string, ttl time.Duration) (bool, error) {
	entry, err := s.Get(key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("failed to check expiration: %w", err)
	}
	return entry.Expired(ttl, s.now()), nil
}

// Len returns the number of cached playlists.
func (s *BoltStorage) Len() (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(playlistsBucket))
		if bucket == nil {
			return errors.New("playlists bucket not found")
		}
		n = bucket.Stats().KeyN
		return nil
	})
	return n, err
}

// Close releases the database file lock.
func (s *BoltStorage) Close() error {
	return s.db.Close()
}
