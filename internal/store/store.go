// Package store persists the last successfully fetched catalogue so the
// browser can come up read-only when the feed is unreachable.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/gamemods/modhub/internal/domain"
)

const (
	snapshotBucket = "snapshot"
	catalogueKey   = "catalogue"
	fetchedAtKey   = "fetchedAt"
)

// SnapshotStore keeps exactly one catalogue snapshot plus its fetch time.
// With an empty directory it runs memory-only and Load always misses.
type SnapshotStore struct {
	db *bolt.DB
}

// Open creates or opens the snapshot database under dir. An empty dir yields
// a store without persistence.
func Open(dir string) (*SnapshotStore, error) {
	if dir == "" {
		return &SnapshotStore{}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot dir: %w", err)
	}

	db, err := bolt.Open(filepath.Join(dir, "modhub.db"), 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening snapshot db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(snapshotBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshot bucket: %w", err)
	}

	return &SnapshotStore{db: db}, nil
}

// Save replaces the stored snapshot with the given catalogue.
func (s *SnapshotStore) Save(c domain.Catalogue, fetchedAt time.Time) error {
	if s.db == nil {
		return nil
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding catalogue: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(snapshotBucket))
		if err := b.Put([]byte(catalogueKey), data); err != nil {
			return err
		}
		return b.Put([]byte(fetchedAtKey), []byte(fetchedAt.UTC().Format(time.RFC3339)))
	})
}

// Load returns the stored catalogue and its fetch time. The bool reports
// whether a snapshot existed.
func (s *SnapshotStore) Load() (domain.Catalogue, time.Time, bool) {
	if s.db == nil {
		return nil, time.Time{}, false
	}

	var (
		raw []byte
		ts  []byte
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(snapshotBucket))
		if v := b.Get([]byte(catalogueKey)); v != nil {
			raw = append([]byte(nil), v...)
		}
		if v := b.Get([]byte(fetchedAtKey)); v != nil {
			ts = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || raw == nil {
		return nil, time.Time{}, false
	}

	var c domain.Catalogue
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, time.Time{}, false
	}

	fetchedAt, err := time.Parse(time.RFC3339, string(ts))
	if err != nil {
		fetchedAt = time.Time{}
	}
	return c, fetchedAt, true
}

// Close releases the underlying database.
func (s *SnapshotStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
