package engine

import (
	"math/rand"

	"github.com/efreitasn/minimarket/internal/domain"
)

// FulfillmentPolicy selects the seller that will fulfill a new order line,
// given the product's offers with available stock. It exists so the
// placeholder random allocation below can be swapped for a real heuristic
// (seller performance, proximity, price) without touching the cart engine.
type FulfillmentPolicy interface {
	ChooseSeller(offers []*domain.Offer) string
}

// RandomFulfillment picks a fulfilling seller uniformly at random.
type RandomFulfillment struct{}

// ChooseSeller returns the seller_id of a uniformly random offer.
// offers must be non-empty.
func (RandomFulfillment) ChooseSeller(offers []*domain.Offer) string {
	return offers[rand.Intn(len(offers))].SellerID
}
