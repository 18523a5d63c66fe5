package repository

import (
	"context"
	"errors"

	"github.com/dukapos/duka-api/internal/domain/entity"
	domainRepo "github.com/dukapos/duka-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ownerRepository struct {
	db *gorm.DB
}

// NewOwnerRepository creates a new owner repository
func NewOwnerRepository(db *gorm.DB) domainRepo.OwnerRepository {
	return &ownerRepository{db: db}
}

func (r *ownerRepository) Create(ctx context.Context, owner *entity.Owner) error {
	return conn(ctx, r.db).Create(owner).Error
}

func (r *ownerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Owner, error) {
	var owner entity.Owner
	err := conn(ctx, r.db).First(&owner, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &owner, err
}

func (r *ownerRepository) GetByEmail(ctx context.Context, email string) (*entity.Owner, error) {
	var owner entity.Owner
	err := conn(ctx, r.db).First(&owner, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &owner, err
}
