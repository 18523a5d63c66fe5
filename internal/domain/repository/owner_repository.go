package repository

import (
	"context"

	"github.com/dukapos/duka-api/internal/domain/entity"
	"github.com/google/uuid"
)

// OwnerRepository defines tenant account persistence
type OwnerRepository interface {
	Create(ctx context.Context, owner *entity.Owner) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Owner, error)
	GetByEmail(ctx context.Context, email string) (*entity.Owner, error)
}
