package engine

import (
	"github.com/google/uuid"

	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/store"
)

// CartEngine implements cart line mutation against the order store,
// respecting the product's current stock ceiling. All mutations run through
// store.OrderStore.MutateOpen, so the totals recalculation is applied in the
// same critical section as the line change.
type CartEngine struct {
	orders   *store.OrderStore
	products *store.ProductStore
	offers   *store.OfferStore
	catalog  *Catalog
	policy   FulfillmentPolicy
}

// NewCartEngine creates a CartEngine with the given dependencies.
func NewCartEngine(
	orders *store.OrderStore,
	products *store.ProductStore,
	offers *store.OfferStore,
	catalog *Catalog,
	policy FulfillmentPolicy,
) *CartEngine {
	return &CartEngine{
		orders:   orders,
		products: products,
		offers:   offers,
		catalog:  catalog,
		policy:   policy,
	}
}

// AddOrUpdateLine applies a requested quantity for a product to the buyer's
// open cart (created if absent):
//
//   - product already in cart: 0 removes the line, a value within available
//     stock updates it, anything above fails with InsufficientStockError and
//     leaves the cart unmodified.
//   - product not in cart: 0 is a validation error, a value within available
//     stock inserts a new line at the current catalog price with a seller
//     chosen by the fulfillment policy, anything above fails with
//     InsufficientStockError.
//
// On any successful mutation the cart's totals are recomputed before the
// updated cart is returned.
func (e *CartEngine) AddOrUpdateLine(buyerID, productID string, requestedQty int64) (*domain.Order, error) {
	if requestedQty < 0 {
		return nil, &domain.ValidationError{Message: "quantity must be at least 0"}
	}

	product, err := e.products.Get(productID)
	if err != nil {
		return nil, err
	}

	return e.orders.MutateOpen(buyerID, func(o *domain.Order) (bool, error) {
		available, err := e.catalog.Quantity(productID)
		if err != nil {
			return false, err
		}

		if line := o.Line(productID); line != nil {
			switch {
			case requestedQty == 0:
				o.RemoveLine(productID)
				return true, nil
			case requestedQty <= available:
				line.Quantity = requestedQty
				return true, nil
			default:
				return false, &domain.InsufficientStockError{
					ProductID:   productID,
					ProductName: product.Name,
					Requested:   requestedQty,
					MaxQuantity: available,
				}
			}
		}

		if requestedQty == 0 {
			return false, &domain.ValidationError{Message: "invalid quantity, quantity must be at least 1"}
		}
		if requestedQty > available {
			return false, &domain.InsufficientStockError{
				ProductID:   productID,
				ProductName: product.Name,
				Requested:   requestedQty,
				MaxQuantity: available,
			}
		}

		price, err := e.catalog.Price(productID)
		if err != nil {
			return false, err
		}

		// Only sellers with stock on offer are eligible to fulfill. At
		// least one exists because requestedQty <= available and
		// requestedQty > 0.
		inStock := make([]*domain.Offer, 0)
		for _, offer := range e.offers.OffersFor(productID) {
			if offer.Quantity > 0 {
				inStock = append(inStock, offer)
			}
		}
		sellerID := e.policy.ChooseSeller(inStock)

		o.Lines = append(o.Lines, &domain.OrderLine{
			LineID:     uuid.New().String(),
			SellerID:   sellerID,
			ProductID:  productID,
			Quantity:   requestedQty,
			PriceCents: price,
		})
		return true, nil
	})
}
