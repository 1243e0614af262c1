package source

import (
	"context"
	"errors"
	"log/slog"

	"github.com/evgengiga/dashbord/internal/common"
	"github.com/evgengiga/dashbord/internal/model"
	"github.com/evgengiga/dashbord/internal/service"
)

var _ service.DashboardFetcher = (*CachingFetcher)(nil)

// CachingFetcher stores every successful payload as a snapshot and, when
// offline fallback is enabled, serves the snapshot if the backend fails.
type CachingFetcher struct {
	next     service.DashboardFetcher
	store    service.SnapshotStore
	fallback bool
}

// NewCachingFetcher wraps next with snapshot storage.
func NewCachingFetcher(next service.DashboardFetcher, store service.SnapshotStore, fallback bool) *CachingFetcher {
	return &CachingFetcher{next: next, store: store, fallback: fallback}
}

// FetchDashboard fetches from the wrapped fetcher. Snapshots served in place
// of a failed fetch have Stale set. Authentication failures are never masked.
func (c *CachingFetcher) FetchDashboard(ctx context.Context, filters model.Filters) (*model.Payload, error) {
	payload, err := c.next.FetchDashboard(ctx, filters)
	if err == nil {
		if saveErr := c.store.SaveSnapshot(ctx, filters, payload); saveErr != nil {
			slog.Warn("Failed to save dashboard snapshot", "filters", filters.Key(), "error", saveErr)
		}
		return payload, nil
	}

	if !c.fallback || errors.Is(err, common.ErrUnauthorized) || errors.Is(err, common.ErrNoSession) ||
		errors.Is(err, context.Canceled) {
		return nil, err
	}

	snapshot, snapErr := c.store.GetSnapshot(ctx, filters)
	if snapErr != nil {
		if !errors.Is(snapErr, common.ErrNotFound) {
			slog.Warn("Failed to read dashboard snapshot", "filters", filters.Key(), "error", snapErr)
		}
		return nil, err
	}

	slog.Warn("Serving dashboard snapshot", "filters", filters.Key(), "fetched_at", snapshot.FetchedAt, "error", err)
	snapshot.Stale = true
	return snapshot, nil
}
