package service

import (
	"context"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/dukapos/duka-api/internal/domain/entity"
	"github.com/dukapos/duka-api/internal/domain/enum"
	"github.com/dukapos/duka-api/pkg/apperror"
	"github.com/google/uuid"
)

type checkoutFixture struct {
	svc         *CheckoutService
	productRepo *fakeProductRepo
	invRepo     *fakeInventoryRepo
	receiptRepo *fakeReceiptRepo
	ownerID     uuid.UUID
}

func newCheckoutFixture() *checkoutFixture {
	productRepo := newFakeProductRepo()
	invRepo := &fakeInventoryRepo{}
	receiptRepo := &fakeReceiptRepo{}
	tx := &fakeTxManager{stores: []snapshotter{invRepo, receiptRepo}}

	inventory := NewInventoryService(invRepo, productRepo, tx)
	svc := NewCheckoutService(receiptRepo, productRepo, inventory, tx)

	return &checkoutFixture{
		svc:         svc,
		productRepo: productRepo,
		invRepo:     invRepo,
		receiptRepo: receiptRepo,
		ownerID:     uuid.New(),
	}
}

func (f *checkoutFixture) addProduct(code string, sellingCents, costCents int64, vat enum.VATCategory) *entity.Product {
	return f.productRepo.add(&entity.Product{
		OwnerID:      f.ownerID,
		Code:         code,
		Name:         code,
		SellingPrice: sellingCents,
		CostPrice:    costCents,
		VATCategory:  vat,
	})
}

func (f *checkoutFixture) addBatch(productID uuid.UUID, qty int, expiresAt *time.Time, receivedAt time.Time) uuid.UUID {
	return f.invRepo.addBatch(&entity.InventoryBatch{
		OwnerID:    f.ownerID,
		ProductID:  productID,
		Quantity:   qty,
		ExpiresAt:  expiresAt,
		ReceivedAt: receivedAt,
	})
}

func days(n int) *time.Time {
	t := time.Now().Add(time.Duration(n) * 24 * time.Hour)
	return &t
}

func approx(got, want float64) bool {
	return math.Abs(got-want) < 0.005
}

func TestCheckoutDeductsNearestExpiryFirst(t *testing.T) {
	f := newCheckoutFixture()
	product := f.addProduct("SODA", 5000, 3000, enum.VATExempt)
	soon := f.addBatch(product.ID, 5, days(2), time.Now().Add(-48*time.Hour))
	later := f.addBatch(product.ID, 5, days(30), time.Now().Add(-24*time.Hour))

	result, err := f.svc.Checkout(context.Background(), &CheckoutInput{
		OwnerID:    f.ownerID,
		AmountPaid: 500,
		Items:      []CartItem{{ProductCode: "SODA", Quantity: 8}},
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if got := f.invRepo.quantity(soon); got != 0 {
		t.Errorf("nearest-expiry batch has %d left, want 0", got)
	}
	if got := f.invRepo.quantity(later); got != 2 {
		t.Errorf("later batch has %d left, want 2", got)
	}

	receipt, _ := f.receiptRepo.GetWithLines(context.Background(), f.ownerID, result.ReceiptID)
	if receipt == nil {
		t.Fatal("receipt not persisted")
	}
	if len(receipt.Lines) != 2 {
		t.Fatalf("one cart item over two batches should produce 2 lines, got %d", len(receipt.Lines))
	}
	if receipt.Lines[0].BatchID != soon || receipt.Lines[0].Quantity != 5 {
		t.Errorf("first line = batch %s qty %d, want nearest-expiry batch qty 5", receipt.Lines[0].BatchID, receipt.Lines[0].Quantity)
	}
	if receipt.Lines[1].BatchID != later || receipt.Lines[1].Quantity != 3 {
		t.Errorf("second line = batch %s qty %d, want later batch qty 3", receipt.Lines[1].BatchID, receipt.Lines[1].Quantity)
	}
}

func TestCheckoutNeverExpiringBatchesDrainLast(t *testing.T) {
	f := newCheckoutFixture()
	product := f.addProduct("RICE", 8000, 5000, enum.VATExempt)
	durable := f.addBatch(product.ID, 5, nil, time.Now().Add(-72*time.Hour))
	perishable := f.addBatch(product.ID, 5, days(10), time.Now())

	_, err := f.svc.Checkout(context.Background(), &CheckoutInput{
		OwnerID:    f.ownerID,
		AmountPaid: 500,
		Items:      []CartItem{{ProductCode: "RICE", Quantity: 6}},
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if got := f.invRepo.quantity(perishable); got != 0 {
		t.Errorf("perishable batch has %d left, want 0", got)
	}
	if got := f.invRepo.quantity(durable); got != 4 {
		t.Errorf("never-expiring batch has %d left, want 4", got)
	}
}

func TestCheckoutInsufficientStock(t *testing.T) {
	f := newCheckoutFixture()
	product := f.addProduct("BREAD", 6000, 4000, enum.VATExempt)
	batch := f.addBatch(product.ID, 8, days(3), time.Now())

	_, err := f.svc.Checkout(context.Background(), &CheckoutInput{
		OwnerID:    f.ownerID,
		AmountPaid: 1000,
		Items:      []CartItem{{ProductCode: "BREAD", Quantity: 10}},
	})
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	appErr := apperror.GetAppError(err)
	if appErr.Code != http.StatusConflict {
		t.Errorf("error code = %d, want %d", appErr.Code, http.StatusConflict)
	}

	if got := f.invRepo.quantity(batch); got != 8 {
		t.Errorf("failed checkout mutated stock: batch has %d, want 8", got)
	}
	if len(f.receiptRepo.receipts) != 0 {
		t.Errorf("failed checkout persisted %d receipts", len(f.receiptRepo.receipts))
	}
}

func TestCheckoutRollsBackWholeCartOnLateFailure(t *testing.T) {
	f := newCheckoutFixture()
	first := f.addProduct("TEA", 3000, 2000, enum.VATExempt)
	second := f.addProduct("SUGAR", 4000, 2500, enum.VATExempt)
	firstBatch := f.addBatch(first.ID, 10, days(5), time.Now())
	f.addBatch(second.ID, 2, days(5), time.Now())

	_, err := f.svc.Checkout(context.Background(), &CheckoutInput{
		OwnerID:    f.ownerID,
		AmountPaid: 1000,
		Items: []CartItem{
			{ProductCode: "TEA", Quantity: 3},
			{ProductCode: "SUGAR", Quantity: 5},
		},
	})
	if err == nil {
		t.Fatal("expected second cart item to fail")
	}

	if got := f.invRepo.quantity(firstBatch); got != 10 {
		t.Errorf("first item's deduction survived the rollback: batch has %d, want 10", got)
	}
	if len(f.receiptRepo.receipts) != 0 || len(f.receiptRepo.lines) != 0 {
		t.Error("rolled-back checkout left receipt rows behind")
	}
}

func TestCheckoutTotals(t *testing.T) {
	f := newCheckoutFixture()
	product := f.addProduct("CHEESE", 10000, 6000, enum.VATInclusive)
	f.addBatch(product.ID, 10, days(20), time.Now())

	// Two units at 100.00 with 10% off the line: net 180.00. A receipt
	// discount of 30.00 brings the total to 150.00.
	result, err := f.svc.Checkout(context.Background(), &CheckoutInput{
		OwnerID:       f.ownerID,
		AmountPaid:    200,
		DiscountType:  enum.DiscountAmount,
		DiscountValue: 30,
		Items: []CartItem{{
			ProductCode:   "CHEESE",
			Quantity:      2,
			DiscountType:  enum.DiscountPercentage,
			DiscountValue: 10,
		}},
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if !approx(result.SubTotal, 180) {
		t.Errorf("SubTotal = %v, want 180", result.SubTotal)
	}
	if !approx(result.Discount, 30) {
		t.Errorf("Discount = %v, want 30", result.Discount)
	}
	if !approx(result.Total, 150) {
		t.Errorf("Total = %v, want 150", result.Total)
	}
	if !approx(result.Change, 50) {
		t.Errorf("Change = %v, want 50", result.Change)
	}
	// VAT on the cost side of VAT-inclusive products: 60.00 * 2 * 0.12.
	if !approx(result.VAT, 14.40) {
		t.Errorf("VAT = %v, want 14.40", result.VAT)
	}
}

func TestCheckoutSkipsZeroQuantityItems(t *testing.T) {
	f := newCheckoutFixture()
	product := f.addProduct("SALT", 2000, 1000, enum.VATExempt)
	batch := f.addBatch(product.ID, 5, nil, time.Now())

	result, err := f.svc.Checkout(context.Background(), &CheckoutInput{
		OwnerID:    f.ownerID,
		AmountPaid: 10,
		Items: []CartItem{
			{ProductCode: "SALT", Quantity: 0},
		},
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if got := f.invRepo.quantity(batch); got != 5 {
		t.Errorf("zero-quantity item deducted stock: %d, want 5", got)
	}
	if result.Total != 0 {
		t.Errorf("Total = %v, want 0", result.Total)
	}
}

func TestCheckoutRejectsOutOfRangeDiscounts(t *testing.T) {
	f := newCheckoutFixture()
	product := f.addProduct("MAIZE", 5000, 3000, enum.VATExempt)
	batch := f.addBatch(product.ID, 10, nil, time.Now())

	// A 200% line discount would price the cart negative and hand back
	// more change than was paid.
	_, err := f.svc.Checkout(context.Background(), &CheckoutInput{
		OwnerID:    f.ownerID,
		AmountPaid: 1,
		Items: []CartItem{{
			ProductCode:   "MAIZE",
			Quantity:      2,
			DiscountType:  enum.DiscountPercentage,
			DiscountValue: 200,
		}},
	})
	if err == nil {
		t.Fatal("expected rejection of discount over 100 percent")
	}
	if appErr := apperror.GetAppError(err); appErr.Code != http.StatusBadRequest {
		t.Errorf("error code = %d, want %d", appErr.Code, http.StatusBadRequest)
	}

	// A negative receipt percentage would inflate the total instead of
	// reducing it.
	_, err = f.svc.Checkout(context.Background(), &CheckoutInput{
		OwnerID:       f.ownerID,
		AmountPaid:    200,
		DiscountType:  enum.DiscountPercentage,
		DiscountValue: -50,
		Items:         []CartItem{{ProductCode: "MAIZE", Quantity: 2}},
	})
	if err == nil {
		t.Fatal("expected rejection of negative discount value")
	}

	if got := f.invRepo.quantity(batch); got != 10 {
		t.Errorf("rejected checkouts deducted stock: batch has %d, want 10", got)
	}
	if len(f.receiptRepo.receipts) != 0 {
		t.Errorf("rejected checkouts persisted %d receipts", len(f.receiptRepo.receipts))
	}
}

func TestCheckoutDeductsInStableProductOrder(t *testing.T) {
	f := newCheckoutFixture()
	first := f.addProduct("FLOUR", 3000, 2000, enum.VATExempt)
	second := f.addProduct("BEANS", 4000, 2500, enum.VATExempt)
	if second.ID.String() < first.ID.String() {
		first, second = second, first
	}
	f.addBatch(first.ID, 5, nil, time.Now())
	f.addBatch(second.ID, 5, nil, time.Now())

	// The cart lists the products in reverse ID order; deduction still
	// runs lowest ID first so concurrent carts lock rows consistently.
	result, err := f.svc.Checkout(context.Background(), &CheckoutInput{
		OwnerID:    f.ownerID,
		AmountPaid: 100,
		Items: []CartItem{
			{ProductCode: second.Code, Quantity: 1},
			{ProductCode: first.Code, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	receipt, _ := f.receiptRepo.GetWithLines(context.Background(), f.ownerID, result.ReceiptID)
	if receipt == nil || len(receipt.Lines) != 2 {
		t.Fatalf("expected 2 receipt lines, got %+v", receipt)
	}
	if receipt.Lines[0].ProductID != first.ID || receipt.Lines[1].ProductID != second.ID {
		t.Error("deduction did not follow product-ID order")
	}
}

func TestCheckoutValidation(t *testing.T) {
	f := newCheckoutFixture()
	product := f.addProduct("JUICE", 5000, 3000, enum.VATExempt)
	f.addBatch(product.ID, 10, nil, time.Now())

	tests := []struct {
		name  string
		input *CheckoutInput
	}{
		{
			name:  "missing payment",
			input: &CheckoutInput{OwnerID: f.ownerID, Items: []CartItem{{ProductCode: "JUICE", Quantity: 1}}},
		},
		{
			name:  "empty cart",
			input: &CheckoutInput{OwnerID: f.ownerID, AmountPaid: 100},
		},
		{
			name: "negative quantity",
			input: &CheckoutInput{OwnerID: f.ownerID, AmountPaid: 100,
				Items: []CartItem{{ProductCode: "JUICE", Quantity: -1}}},
		},
		{
			name: "unknown product code",
			input: &CheckoutInput{OwnerID: f.ownerID, AmountPaid: 100,
				Items: []CartItem{{ProductCode: "NOPE", Quantity: 1}}},
		},
		{
			name: "invalid discount type",
			input: &CheckoutInput{OwnerID: f.ownerID, AmountPaid: 100, DiscountType: "half-off",
				Items: []CartItem{{ProductCode: "JUICE", Quantity: 1}}},
		},
		{
			name: "negative receipt discount value",
			input: &CheckoutInput{OwnerID: f.ownerID, AmountPaid: 100,
				DiscountType: enum.DiscountPercentage, DiscountValue: -50,
				Items: []CartItem{{ProductCode: "JUICE", Quantity: 1}}},
		},
		{
			name: "receipt percentage over 100",
			input: &CheckoutInput{OwnerID: f.ownerID, AmountPaid: 100,
				DiscountType: enum.DiscountPercentage, DiscountValue: 150,
				Items: []CartItem{{ProductCode: "JUICE", Quantity: 1}}},
		},
		{
			name: "negative item discount value",
			input: &CheckoutInput{OwnerID: f.ownerID, AmountPaid: 100,
				Items: []CartItem{{ProductCode: "JUICE", Quantity: 1,
					DiscountType: enum.DiscountAmount, DiscountValue: -5}}},
		},
		{
			name: "item percentage over 100",
			input: &CheckoutInput{OwnerID: f.ownerID, AmountPaid: 100,
				Items: []CartItem{{ProductCode: "JUICE", Quantity: 1,
					DiscountType: enum.DiscountPercentage, DiscountValue: 200}}},
		},
		{
			name: "underpayment",
			input: &CheckoutInput{OwnerID: f.ownerID, AmountPaid: 40,
				Items: []CartItem{{ProductCode: "JUICE", Quantity: 1}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Checkout(context.Background(), tt.input); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if len(f.receiptRepo.receipts) != 0 {
		t.Errorf("rejected checkouts persisted %d receipts", len(f.receiptRepo.receipts))
	}
}
