package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dukapos/duka-api/internal/domain/entity"
	domainRepo "github.com/dukapos/duka-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	return conn(ctx, r.db).Create(receipt).Error
}

func (r *receiptRepository) CreateLines(ctx context.Context, lines []entity.ReceiptLine) error {
	if len(lines) == 0 {
		return nil
	}
	return conn(ctx, r.db).Create(&lines).Error
}

func (r *receiptRepository) GetWithLines(ctx context.Context, ownerID, id uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := conn(ctx, r.db).
		Preload("Lines").
		Preload("Lines.Product").
		First(&receipt, "owner_id = ? AND id = ?", ownerID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) SalesLines(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]domainRepo.SalesLineRow, error) {
	var rows []domainRepo.SalesLineRow

	// Explicit column list keeps the query valid under strict grouping and
	// avoids dragging full entities through the aggregation pipeline.
	err := conn(ctx, r.db).Raw(`
		SELECT
			r.id AS receipt_id,
			r.issued_at AS issued_at,
			r.discount_type AS receipt_discount_type,
			r.discount_value AS receipt_discount_value,
			l.id AS line_id,
			l.product_id AS product_id,
			p.category_id AS category_id,
			l.quantity AS quantity,
			l.discount_type AS line_discount_type,
			l.discount_value AS line_discount_value
		FROM receipt_lines l
		JOIN receipts r ON r.id = l.receipt_id
		JOIN products p ON p.id = l.product_id
		WHERE r.owner_id = ?
		AND r.issued_at >= ? AND r.issued_at < ?
		ORDER BY r.id, l.id
	`, ownerID, from, to).Scan(&rows).Error

	return rows, err
}
