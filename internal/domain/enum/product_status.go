package enum

// ProductStatus represents whether a product is sellable.
type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
)

// IsValid reports whether s is one of the known product statuses.
func (s ProductStatus) IsValid() bool {
	return s == ProductActive || s == ProductInactive
}
