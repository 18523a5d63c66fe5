package enum

// VATCategory represents a product's VAT treatment at checkout.
type VATCategory string

const (
	VATInclusive VATCategory = "vat_inclusive"
	VATExempt    VATCategory = "vat_exempt"
)

// IsValid reports whether v is one of the known VAT categories.
func (v VATCategory) IsValid() bool {
	return v == VATInclusive || v == VATExempt
}
