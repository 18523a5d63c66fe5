package enum

// Disposition classifies a damaged-item record. A nil disposition on the
// record is treated the same as DispositionDamaged for loss accounting;
// stock returned to the supplier is not a loss.
type Disposition string

const (
	DispositionDamaged  Disposition = "Damaged"
	DispositionReturned Disposition = "Returned to Supplier"
)

// IsValid checks if the disposition is valid
func (d Disposition) IsValid() bool {
	switch d {
	case DispositionDamaged, DispositionReturned:
		return true
	}
	return false
}

// CountsAsLoss reports whether a record with this disposition contributes
// to damaged-stock analytics. The pointer form mirrors the nullable column.
func CountsAsLoss(d *Disposition) bool {
	return d == nil || *d == DispositionDamaged
}
