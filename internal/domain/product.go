package domain

import "time"

// Product is an immutable catalog entry. Price, quantity, and stock status
// are never stored on the product; they are derived live from the product's
// offers by the catalog read model.
type Product struct {
	ProductID string
	Name      string
	GTIN      string // optional, GTIN-13
	WeightKG  int64
	LengthMM  int64
	HeightMM  int64
	WidthMM   int64
	ImageURL  string // optional
	CreatedAt time.Time
}
