package domain

import "time"

// Order is the cart/order aggregate. An order with IsConfirmed == false is
// the buyer's open cart; once confirmed it is terminal and no further line
// mutation is allowed. The four money fields are derived from the lines and
// cached; they are refreshed only by an explicit totals recalculation, which
// every public mutation path runs before returning.
type Order struct {
	OrderID           string
	BuyerID           string
	IsConfirmed       bool
	SubtotalCents     int64
	ShippingCostCents int64
	VATCents          int64
	TotalCents        int64
	Lines             []*OrderLine
	CreatedAt         time.Time
	ConfirmedAt       *time.Time
}

// OrderLine is one buyer-product reservation within an order. PriceCents is
// the catalog price captured at add time; checkout re-freezes it to the
// purchase-time catalog price on confirmation. There is never more than one
// line per product in an order.
type OrderLine struct {
	LineID     string
	SellerID   string
	ProductID  string
	Quantity   int64
	PriceCents int64
}

// Subtotal returns price × quantity for this line, in cents.
func (l *OrderLine) Subtotal() int64 {
	return l.PriceCents * l.Quantity
}

// Line returns the order's line for the given product, or nil if the
// product is not in the order.
func (o *Order) Line(productID string) *OrderLine {
	for _, l := range o.Lines {
		if l.ProductID == productID {
			return l
		}
	}
	return nil
}

// RemoveLine deletes the line for the given product, if present.
func (o *Order) RemoveLine(productID string) {
	for i, l := range o.Lines {
		if l.ProductID == productID {
			o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
			return
		}
	}
}
