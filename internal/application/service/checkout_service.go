package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dukapos/duka-api/internal/domain/entity"
	"github.com/dukapos/duka-api/internal/domain/enum"
	domainRepo "github.com/dukapos/duka-api/internal/domain/repository"
	"github.com/dukapos/duka-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// legacyVATRate is applied to the cost price of VAT-inclusive products.
// Carried over from the previous till system so printed receipts keep
// matching the books. The figure is informational and never added to the
// receipt total.
var legacyVATRate = decimal.NewFromFloat(0.12)

// CartItem is one requested product in a checkout.
type CartItem struct {
	ProductCode   string            `json:"prod_code" binding:"required"`
	Quantity      int               `json:"quantity"`
	DiscountType  enum.DiscountType `json:"discount_type"`
	DiscountValue float64           `json:"discount_value"`
}

// CheckoutInput is a full checkout request: the cart, the payment and an
// optional receipt-level discount.
type CheckoutInput struct {
	OwnerID       uuid.UUID
	AmountPaid    float64           `json:"amount_paid"`
	DiscountType  enum.DiscountType `json:"discount_type"`
	DiscountValue float64           `json:"discount_value"`
	Items         []CartItem        `json:"items" binding:"required"`
}

// CheckoutResult summarizes a completed sale for the receipt response.
// Amounts are in currency units.
type CheckoutResult struct {
	ReceiptID uuid.UUID `json:"receipt_id"`
	IssuedAt  time.Time `json:"issued_at"`
	SubTotal  float64   `json:"sub_total"`
	Discount  float64   `json:"discount"`
	VAT       float64   `json:"vat"`
	Total     float64   `json:"total"`
	Paid      float64   `json:"paid"`
	Change    float64   `json:"change"`
}

// CheckoutService turns a cart into a receipt and deducts the sold units
// from inventory, all inside one transaction.
type CheckoutService struct {
	receiptRepo domainRepo.ReceiptRepository
	productRepo domainRepo.ProductRepository
	inventory   *InventoryService
	txManager   domainRepo.TransactionManager
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	receiptRepo domainRepo.ReceiptRepository,
	productRepo domainRepo.ProductRepository,
	inventory *InventoryService,
	txManager domainRepo.TransactionManager,
) *CheckoutService {
	return &CheckoutService{
		receiptRepo: receiptRepo,
		productRepo: productRepo,
		inventory:   inventory,
		txManager:   txManager,
	}
}

// Checkout validates the cart, prices it, and commits the sale. Receipt,
// receipt lines and batch decrements persist together or not at all: any
// failure mid-cart, including insufficient stock on a later item, rolls
// back everything. Zero-quantity items are skipped. Lines are recorded per
// batch, so one cart item spanning two batches yields two lines.
func (s *CheckoutService) Checkout(ctx context.Context, input *CheckoutInput) (*CheckoutResult, error) {
	if input.AmountPaid <= 0 {
		return nil, apperror.NewBadRequestError("Payment amount is required")
	}
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Cart is empty")
	}
	if !input.DiscountType.OrNone().IsValid() {
		return nil, apperror.NewBadRequestError("Invalid receipt discount type")
	}
	if !DiscountValid(input.DiscountType, input.DiscountValue) {
		return nil, apperror.NewBadRequestError("Invalid receipt discount value")
	}

	codes := make([]string, 0, len(input.Items))
	seen := make(map[string]bool, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity < 0 {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Invalid quantity for %s", item.ProductCode))
		}
		if !item.DiscountType.OrNone().IsValid() {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Invalid discount type for %s", item.ProductCode))
		}
		if !DiscountValid(item.DiscountType, item.DiscountValue) {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Invalid discount value for %s", item.ProductCode))
		}
		if !seen[item.ProductCode] {
			seen[item.ProductCode] = true
			codes = append(codes, item.ProductCode)
		}
	}

	products, err := s.productRepo.GetByCodes(ctx, input.OwnerID, codes)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]*entity.Product, len(products))
	for i := range products {
		byCode[products[i].Code] = &products[i]
	}
	for _, code := range codes {
		if byCode[code] == nil {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", code))
		}
	}

	// Price the cart before touching inventory so an underpayment never
	// opens a transaction.
	subTotal := decimal.Zero
	vat := decimal.Zero
	for _, item := range input.Items {
		if item.Quantity == 0 {
			continue
		}
		product := byCode[item.ProductCode]
		lineSubtotal := product.SellingPrice * int64(item.Quantity)
		subTotal = subTotal.Add(LineNet(lineSubtotal, item.DiscountType, item.DiscountValue))
		if product.VATCategory == enum.VATInclusive {
			cost := decimal.NewFromInt(product.CostPrice * int64(item.Quantity))
			vat = vat.Add(cost.Mul(legacyVATRate))
		}
	}

	discount := ReceiptDiscount(subTotal, input.DiscountType, input.DiscountValue)
	total := subTotal.Sub(discount)
	paid := decimal.NewFromFloat(input.AmountPaid).Mul(oneHundred)
	if paid.LessThan(total) {
		return nil, apperror.NewBadRequestError("Amount paid is less than the total due")
	}

	// Deduct in product-ID order regardless of how the cart was arranged,
	// so concurrent checkouts sharing products lock their batches in the
	// same sequence instead of deadlocking.
	items := make([]CartItem, len(input.Items))
	copy(items, input.Items)
	sort.SliceStable(items, func(i, j int) bool {
		return byCode[items[i].ProductCode].ID.String() < byCode[items[j].ProductCode].ID.String()
	})

	now := time.Now()
	receipt := &entity.Receipt{
		OwnerID:       input.OwnerID,
		IssuedAt:      now,
		AmountPaid:    toCents(input.AmountPaid),
		DiscountType:  input.DiscountType.OrNone(),
		DiscountValue: input.DiscountValue,
	}

	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.receiptRepo.Create(txCtx, receipt); err != nil {
			return err
		}

		var lines []entity.ReceiptLine
		for _, item := range items {
			if item.Quantity == 0 {
				continue
			}
			product := byCode[item.ProductCode]
			takes, err := s.inventory.Deduct(txCtx, product, item.Quantity, now)
			if err != nil {
				return err
			}
			for _, take := range takes {
				lines = append(lines, entity.ReceiptLine{
					ReceiptID:     receipt.ID,
					BatchID:       take.BatchID,
					ProductID:     product.ID,
					Quantity:      take.Quantity,
					DiscountType:  item.DiscountType.OrNone(),
					DiscountValue: item.DiscountValue,
				})
			}
		}
		return s.receiptRepo.CreateLines(txCtx, lines)
	})
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{
		ReceiptID: receipt.ID,
		IssuedAt:  now,
		SubTotal:  centsToAmount(subTotal),
		Discount:  centsToAmount(discount),
		VAT:       centsToAmount(vat),
		Total:     centsToAmount(total),
		Paid:      input.AmountPaid,
		Change:    centsToAmount(paid.Sub(total)),
	}, nil
}

// GetReceipt returns one receipt with its lines.
func (s *CheckoutService) GetReceipt(ctx context.Context, ownerID, receiptID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetWithLines(ctx, ownerID, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}
