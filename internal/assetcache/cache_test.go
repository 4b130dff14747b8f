package assetcache

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openCache(t *testing.T, dir, version string) *Cache {
	t.Helper()

	c, err := Open(dir, version, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestAssetCacheFirst(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	c := openCache(t, t.TempDir(), "v1")

	body, fromCache, err := c.Asset(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, "image-bytes", string(body))

	body, fromCache, err = c.Asset(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, "image-bytes", string(body))

	assert.Equal(t, int32(1), hits.Load(), "a cache hit never refetches")
}

func TestFeedServesStaleAndRevalidates(t *testing.T) {
	t.Parallel()

	var body atomic.Value
	body.Store("first")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body.Load().(string)))
	}))
	defer srv.Close()

	c := openCache(t, t.TempDir(), "v1")

	got, fromCache, err := c.Feed(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, "first", string(got))

	body.Store("second")

	got, fromCache, err = c.Feed(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, "first", string(got), "stale body served immediately")

	// The background refresh eventually swaps in the new payload.
	require.Eventually(t, func() bool {
		cached, ok := c.get(srv.URL)
		return ok && string(cached) == "second"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestVersionBumpPrunesOldEntries(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	dir := t.TempDir()

	c1, err := Open(dir, "v1", slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	_, _, err = c1.Asset(context.Background(), srv.URL)
	require.NoError(t, err)
	require.True(t, c1.Cached(srv.URL))
	require.NoError(t, c1.Close())

	c2 := openCache(t, dir, "v2")
	assert.False(t, c2.Cached(srv.URL), "old version entries are dropped on open")
}

func TestPrecache(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		hits.Add(1)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := openCache(t, t.TempDir(), "v1")

	urls := []string{srv.URL + "/a", srv.URL + "/missing", srv.URL + "/b"}
	c.Precache(context.Background(), urls)

	assert.True(t, c.Cached(srv.URL+"/a"))
	assert.True(t, c.Cached(srv.URL+"/b"))
	assert.False(t, c.Cached(srv.URL+"/missing"), "failures are skipped, not cached")

	// Already-cached URLs are not refetched.
	c.Precache(context.Background(), urls[:1])
	assert.Equal(t, int32(2), hits.Load())
}
