// Package catalog coordinates release fetches and holds the latest result.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hisame/anireleases/internal/media"
	"github.com/hisame/anireleases/internal/metrics"
)

// ErrSuperseded is returned by Refresh when a newer refresh canceled it.
var ErrSuperseded = errors.New("refresh superseded by a newer request")

// Fetcher is the part of the AniList client the catalog needs.
type Fetcher interface {
	FetchNew(ctx context.Context, mediaType media.Type, from, to time.Time) ([]media.Item, error)
}

// Snapshot is the result of one successful refresh. It is immutable: each
// refresh replaces the whole snapshot, nothing is updated in place.
type Snapshot struct {
	Items     []media.Item
	From      time.Time
	To        time.Time
	FetchedAt time.Time
}

// Service fetches releases for a date range and publishes them as the
// current snapshot. At most one refresh runs at a time; starting a new one
// cancels the previous via its context.
type Service struct {
	fetcher Fetcher
	metrics *metrics.Metrics
	log     *slog.Logger

	mu       sync.RWMutex
	snapshot *Snapshot

	refreshMu   sync.Mutex // guards cancelPrior
	cancelPrior context.CancelFunc
}

// NewService creates a catalog over the given fetcher.
func NewService(fetcher Fetcher, m *metrics.Metrics) *Service {
	return &Service{
		fetcher: fetcher,
		metrics: m,
		log:     slog.With("component", "catalog"),
	}
}

// Current returns the latest snapshot, or false when no fetch has succeeded
// yet.
func (s *Service) Current() (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.snapshot != nil
}

// Refresh fetches anime and manga released in [from, to], merges and sorts
// them, and installs the result as the current snapshot. Inverted bounds are
// swapped. On any failure the previous snapshot stays visible; no partial
// result is ever installed.
func (s *Service) Refresh(ctx context.Context, from, to time.Time) (*Snapshot, error) {
	if from.After(to) {
		from, to = to, from
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.refreshMu.Lock()
	if s.cancelPrior != nil {
		s.cancelPrior()
	}
	s.cancelPrior = cancel
	s.refreshMu.Unlock()

	s.log.Info("refreshing releases",
		"from", from.Format("2006-01-02"),
		"to", to.Format("2006-01-02"),
	)
	start := time.Now()

	anime, err := s.fetcher.FetchNew(ctx, media.TypeAnime, from, to)
	if err != nil {
		return nil, s.refreshFailed(ctx, "anime", err)
	}
	if ctx.Err() != nil {
		return nil, s.refreshFailed(ctx, "anime", ctx.Err())
	}

	manga, err := s.fetcher.FetchNew(ctx, media.TypeManga, from, to)
	if err != nil {
		return nil, s.refreshFailed(ctx, "manga", err)
	}
	if ctx.Err() != nil {
		return nil, s.refreshFailed(ctx, "manga", ctx.Err())
	}

	snap := &Snapshot{
		Items:     media.MergeAndSort(anime, manga),
		From:      from,
		To:        to,
		FetchedAt: time.Now(),
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	s.metrics.FetchesTotal.Inc()
	s.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	s.metrics.SnapshotItems.Set(float64(len(snap.Items)))

	s.log.Info("refresh complete",
		"items", len(snap.Items),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return snap, nil
}

func (s *Service) refreshFailed(ctx context.Context, stage string, err error) error {
	s.metrics.FetchErrorsTotal.Inc()
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		s.log.Info("refresh superseded", "stage", stage)
		return ErrSuperseded
	}
	s.log.Error("refresh failed", "stage", stage, "error", err)
	return fmt.Errorf("fetching %s releases: %w", stage, err)
}
