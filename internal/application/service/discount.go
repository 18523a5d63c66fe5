package service

import (
	"github.com/dukapos/duka-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Discount math is done in decimal cents so that the per-line allocation of
// a receipt-level discount reconciles exactly with the receipt total. The
// same helpers serve checkout (receipt totals) and analytics (net sales).

var oneHundred = decimal.NewFromInt(100)

// toCents converts a currency amount from the API boundary to integer cents.
func toCents(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(oneHundred).Round(0).IntPart()
}

// centsToAmount converts integer cents back to a currency amount.
func centsToAmount(cents decimal.Decimal) float64 {
	return cents.Div(oneHundred).Round(2).InexactFloat64()
}

// DiscountValid reports whether a discount value is in range for its
// type: never negative, and at most 100 for percentages.
func DiscountValid(discType enum.DiscountType, value float64) bool {
	if value < 0 {
		return false
	}
	return discType.OrNone() != enum.DiscountPercentage || value <= 100
}

// ItemDiscount returns the discount amount in cents for one line.
// percentage discounts apply against the subtotal; amount discounts are
// capped at the subtotal so a line can never go negative.
func ItemDiscount(subtotalCents int64, discType enum.DiscountType, value float64) decimal.Decimal {
	subtotal := decimal.NewFromInt(subtotalCents)

	switch discType.OrNone() {
	case enum.DiscountPercentage:
		return subtotal.Mul(decimal.NewFromFloat(value)).Div(oneHundred)
	case enum.DiscountAmount:
		amount := decimal.NewFromFloat(value).Mul(oneHundred)
		if amount.GreaterThan(subtotal) {
			return subtotal
		}
		return amount
	default:
		return decimal.Zero
	}
}

// LineNet returns the line amount in cents after its item-level discount.
func LineNet(subtotalCents int64, discType enum.DiscountType, value float64) decimal.Decimal {
	return decimal.NewFromInt(subtotalCents).Sub(ItemDiscount(subtotalCents, discType, value))
}

// ReceiptDiscount computes the receipt-level discount in cents against the
// post-item-discount subtotal. Amount discounts are capped at the subtotal.
func ReceiptDiscount(subtotalCents decimal.Decimal, discType enum.DiscountType, value float64) decimal.Decimal {
	switch discType.OrNone() {
	case enum.DiscountPercentage:
		return subtotalCents.Mul(decimal.NewFromFloat(value)).Div(oneHundred)
	case enum.DiscountAmount:
		amount := decimal.NewFromFloat(value).Mul(oneHundred)
		if amount.GreaterThan(subtotalCents) {
			return subtotalCents
		}
		return amount
	default:
		return decimal.Zero
	}
}

// AllocateReceiptDiscount splits a receipt-level discount across lines in
// proportion to each line's share of the post-item-discount subtotal. The
// last line with a non-zero net takes the remainder, so the shares always
// sum to the discount exactly. A zero subtotal allocates zero everywhere.
func AllocateReceiptDiscount(discount decimal.Decimal, lineNets []decimal.Decimal) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(lineNets))
	for i := range shares {
		shares[i] = decimal.Zero
	}

	subtotal := decimal.Zero
	for _, net := range lineNets {
		subtotal = subtotal.Add(net)
	}
	if subtotal.IsZero() || discount.IsZero() {
		return shares
	}

	last := -1
	for i, net := range lineNets {
		if !net.IsZero() {
			last = i
		}
	}

	allocated := decimal.Zero
	for i, net := range lineNets {
		if i == last {
			shares[i] = discount.Sub(allocated)
			break
		}
		shares[i] = discount.Mul(net).Div(subtotal)
		allocated = allocated.Add(shares[i])
	}
	return shares
}
