// Package assetcache keeps fetched feed payloads and preview assets in a
// versioned on-disk cache. Bumping the configured version discards every
// entry written under older versions on the next open.
package assetcache

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
	"resty.dev/v3"
)

const bucketPrefix = "cache:"

// Cache stores response bodies keyed by URL inside a version-scoped bucket.
type Cache struct {
	db      *bolt.DB
	version string
	http    *resty.Client
	logger  *slog.Logger
}

// Open creates or opens the cache under dir and prunes buckets written by
// other cache versions.
func Open(dir, version string, logger *slog.Logger) (*Cache, error) {
	if dir == "" {
		return nil, fmt.Errorf("asset cache requires a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := bolt.Open(filepath.Join(dir, "assets.db"), 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening asset cache: %w", err)
	}

	c := &Cache{
		db:      db,
		version: version,
		http: resty.New().
			SetTimeout(20 * time.Second).
			SetRetryCount(1),
		logger: logger,
	}

	if err := c.activate(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// activate ensures the current version's bucket exists and deletes every
// bucket belonging to a different version.
func (c *Cache) activate() error {
	current := []byte(bucketPrefix + c.version)
	return c.db.Update(func(tx *bolt.Tx) error {
		var stale [][]byte
		err := tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			if strings.HasPrefix(string(name), bucketPrefix) && !bytes.Equal(name, current) {
				stale = append(stale, append([]byte(nil), name...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, name := range stale {
			c.logger.Info("pruning stale cache bucket", "bucket", string(name))
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
		}
		_, err = tx.CreateBucketIfNotExists(current)
		return err
	})
}

func (c *Cache) bucket() []byte { return []byte(bucketPrefix + c.version) }

func (c *Cache) get(url string) ([]byte, bool) {
	var data []byte
	c.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(c.bucket()).Get([]byte(url)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	return data, data != nil
}

func (c *Cache) put(url string, body []byte) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(c.bucket()).Put([]byte(url), body)
	})
}

func (c *Cache) fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode())
	}
	return []byte(resp.String()), nil
}

// Feed serves the cached payload immediately when present and refreshes the
// cache in the background. On a miss it fetches, caches and returns the live
// body. The bool reports whether the returned bytes came from the cache.
func (c *Cache) Feed(ctx context.Context, url string) ([]byte, bool, error) {
	if cached, ok := c.get(url); ok {
		go func() {
			bg, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := c.Revalidate(bg, url); err != nil {
				c.logger.Debug("background revalidation failed", "url", url, "error", err)
			}
		}()
		return cached, true, nil
	}

	body, err := c.fetch(ctx, url)
	if err != nil {
		return nil, false, err
	}
	if err := c.put(url, body); err != nil {
		c.logger.Warn("caching feed payload failed", "url", url, "error", err)
	}
	return body, false, nil
}

// Revalidate fetches the URL and replaces the cached copy on success.
func (c *Cache) Revalidate(ctx context.Context, url string) error {
	body, err := c.fetch(ctx, url)
	if err != nil {
		return err
	}
	return c.put(url, body)
}

// Asset serves preview assets cache-first: a hit never touches the network.
func (c *Cache) Asset(ctx context.Context, url string) ([]byte, bool, error) {
	if cached, ok := c.get(url); ok {
		return cached, true, nil
	}

	body, err := c.fetch(ctx, url)
	if err != nil {
		return nil, false, err
	}
	if err := c.put(url, body); err != nil {
		c.logger.Warn("caching asset failed", "url", url, "error", err)
	}
	return body, false, nil
}

// Precache warms the cache with the given URLs, skipping ones already stored.
// Individual failures are logged and do not stop the rest.
func (c *Cache) Precache(ctx context.Context, urls []string) {
	for _, url := range urls {
		if ctx.Err() != nil {
			return
		}
		if c.Cached(url) {
			continue
		}
		if _, _, err := c.Asset(ctx, url); err != nil {
			c.logger.Debug("precache skip", "url", url, "error", err)
		}
	}
}

// Cached reports whether a URL is already stored under the current version.
func (c *Cache) Cached(url string) bool {
	_, ok := c.get(url)
	return ok
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
