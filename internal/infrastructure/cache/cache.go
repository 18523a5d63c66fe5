package cache

import (
	"context"
	"time"
)

// ReportCache stores serialized analytics reports for a short TTL so that
// dashboard refreshes do not recompute the same month repeatedly. Reports
// are advisory, so a slightly stale entry is acceptable.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// NoopReportCache disables caching. Used when no Redis address is
// configured and in tests.
type NoopReportCache struct{}

func (NoopReportCache) Get(_ context.Context, _ string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NoopReportCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return nil
}
