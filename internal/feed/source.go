package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gamemods/modhub/internal/domain"
	"github.com/gamemods/modhub/internal/store"
)

// Result is the outcome of a catalogue load. Degraded marks a snapshot served
// because the live fetch failed.
type Result struct {
	Catalogue domain.Catalogue
	FetchedAt time.Time
	Degraded  bool
}

// Source loads the catalogue from the network with snapshot fallback. A new
// Load cancels any load still in flight; the superseded call returns
// domain.ErrSuperseded and its result must be discarded.
type Source struct {
	client *Client
	store  *store.SnapshotStore
	norm   *Normalizer
	logger *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	gen    uint64
}

// NewSource wires a feed client, snapshot store and normalizer together.
func NewSource(client *Client, snapshots *store.SnapshotStore, norm *Normalizer, logger *slog.Logger) *Source {
	return &Source{
		client: client,
		store:  snapshots,
		norm:   norm,
		logger: logger,
	}
}

// Load fetches a fresh catalogue, persisting it on success. On fetch failure
// it serves the stored snapshot when one exists, otherwise the fetch error.
func (s *Source) Load(ctx context.Context) (Result, error) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.gen++
	myGen := s.gen
	s.mu.Unlock()

	defer cancel()

	raw, err := s.client.fetch(loadCtx)

	s.mu.Lock()
	superseded := s.gen != myGen
	s.mu.Unlock()
	if superseded || (err != nil && loadCtx.Err() != nil && ctx.Err() == nil) {
		return Result{}, domain.ErrSuperseded
	}

	if err != nil {
		s.logger.Warn("feed fetch failed, trying snapshot", "error", err)
		if snap, fetchedAt, ok := s.store.Load(); ok {
			return Result{Catalogue: snap, FetchedAt: fetchedAt, Degraded: true}, nil
		}
		return Result{}, err
	}

	catalogue := s.norm.Normalize(raw)
	fetchedAt := time.Now()

	if err := s.store.Save(catalogue, fetchedAt); err != nil {
		s.logger.Warn("saving catalogue snapshot failed", "error", err)
	}

	s.logger.Info("catalogue loaded", "mods", len(catalogue))
	return Result{Catalogue: catalogue, FetchedAt: fetchedAt}, nil
}
