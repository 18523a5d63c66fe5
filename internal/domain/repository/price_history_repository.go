package repository

import (
	"context"
	"time"

	"github.com/dukapos/duka-api/internal/domain/entity"
	"github.com/google/uuid"
)

// PriceHistoryRepository defines the append-only price-change log.
type PriceHistoryRepository interface {
	Append(ctx context.Context, change *entity.PriceChange) error
	// Latest returns the product's newest window by effective_from, or nil
	// when the product has no recorded price changes.
	Latest(ctx context.Context, productID uuid.UUID) (*entity.PriceChange, error)
	// ActiveAt returns the window containing the given instant, preferring
	// the most recent effective_from on overlap, or nil when no window
	// contains it.
	ActiveAt(ctx context.Context, productID uuid.UUID, at time.Time) (*entity.PriceChange, error)
}
