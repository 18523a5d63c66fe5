package enum

// DiscountType represents how a discount value is interpreted, both at
// line-item level and at receipt level.
type DiscountType string

const (
	DiscountNone       DiscountType = "none"
	DiscountPercentage DiscountType = "percentage"
	DiscountAmount     DiscountType = "amount"
)

// IsValid reports whether t is one of the known discount types.
func (t DiscountType) IsValid() bool {
	switch t {
	case DiscountNone, DiscountPercentage, DiscountAmount:
		return true
	}
	return false
}

// OrNone normalises an empty discount type to DiscountNone.
func (t DiscountType) OrNone() DiscountType {
	if t == "" {
		return DiscountNone
	}
	return t
}
