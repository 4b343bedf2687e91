package engine

import (
	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/store"
)

// Catalog is the read model for derived product attributes. Price and
// quantity are computed live from the product's current offers on every
// call; nothing is cached, so the result always reflects the latest
// committed offer state.
type Catalog struct {
	products  *store.ProductStore
	offers    *store.OfferStore
	marginBps int64
}

// NewCatalog creates a Catalog over the given stores. marginBps is the
// margin added on top of the average seller price, in basis points
// (1200 = 12%).
func NewCatalog(products *store.ProductStore, offers *store.OfferStore, marginBps int64) *Catalog {
	return &Catalog{
		products:  products,
		offers:    offers,
		marginBps: marginBps,
	}
}

// Price returns the product's catalog price in cents: the average of its
// offers' seller prices (rounded half-up to a cent) with the margin applied,
// rounded half-up again. It returns domain.ErrProductNotFound if the product
// does not exist or has no offers.
func (c *Catalog) Price(productID string) (int64, error) {
	if !c.products.Exists(productID) {
		return 0, domain.ErrProductNotFound
	}

	offers := c.offers.OffersFor(productID)
	if len(offers) == 0 {
		return 0, domain.ErrProductNotFound
	}

	prices := make([]int64, len(offers))
	for i, o := range offers {
		prices[i] = o.SellerPriceCents
	}
	avg := domain.AverageCents(prices)
	return domain.MulBasisPoints(avg, 10000+c.marginBps), nil
}

// Quantity returns the product's aggregate available quantity, the sum of
// its offers' quantities. It returns domain.ErrProductNotFound if the
// product does not exist.
func (c *Catalog) Quantity(productID string) (int64, error) {
	if !c.products.Exists(productID) {
		return 0, domain.ErrProductNotFound
	}
	return c.offers.Quantity(productID), nil
}

// InStock reports whether the product has any available quantity.
func (c *Catalog) InStock(productID string) (bool, error) {
	qty, err := c.Quantity(productID)
	if err != nil {
		return false, err
	}
	return qty > 0, nil
}
