package engine

import (
	"github.com/efreitasn/minimarket/internal/domain"
)

// TotalsCalculator recomputes an order's derived money fields from its
// current lines and two flat policy constants. It is pure over the order's
// lines: calling it twice with no intervening mutation yields identical
// totals.
type TotalsCalculator struct {
	ShippingCostCents int64
	VATRateBps        int64
}

// NewTotalsCalculator creates a TotalsCalculator with the given flat
// shipping cost and VAT rate in basis points.
func NewTotalsCalculator(shippingCostCents, vatRateBps int64) *TotalsCalculator {
	return &TotalsCalculator{
		ShippingCostCents: shippingCostCents,
		VATRateBps:        vatRateBps,
	}
}

// Recalculate refreshes subtotal, shipping cost, VAT, and total on the
// order. VAT is charged over subtotal plus shipping, rounded half-up to the
// nearest cent.
func (c *TotalsCalculator) Recalculate(o *domain.Order) {
	var subtotal int64
	for _, l := range o.Lines {
		subtotal += l.Subtotal()
	}

	o.SubtotalCents = subtotal
	o.ShippingCostCents = c.ShippingCostCents
	o.VATCents = domain.MulBasisPoints(subtotal+c.ShippingCostCents, c.VATRateBps)
	o.TotalCents = subtotal + c.ShippingCostCents + o.VATCents
}
