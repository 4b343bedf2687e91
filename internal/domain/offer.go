package domain

import "time"

// Offer is a seller's priced, quantified stake in fulfilling a product.
// At most one offer exists per (seller, product) pair; the offer store
// enforces this with upsert semantics.
type Offer struct {
	OfferID          string
	SellerID         string
	ProductID        string
	Quantity         int64 // available units, reduced as checkouts reserve stock
	SellerPriceCents int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Seller represents a registered supplier.
type Seller struct {
	SellerID  string
	Name      string
	CreatedAt time.Time
}
