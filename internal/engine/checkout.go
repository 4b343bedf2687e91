package engine

import (
	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/store"
)

// StockAdjustment records one line changed by stock reconciliation at
// checkout time: the line was either clamped down to the remaining stock or
// removed because the product sold out entirely.
type StockAdjustment struct {
	ProductID        string
	PreviousQuantity int64
	NewQuantity      int64
	Removed          bool
}

// CheckoutEngine transitions a buyer's open cart into a confirmed order,
// reconciling the cart against live stock.
//
// releaseOnConflict controls what happens to stock already reserved for
// satisfiable lines when another line conflicts: false (the default wiring)
// keeps those reservations even though the checkout fails, so the buyer's
// re-invocation finds them held; true restores them, making the whole
// checkout all-or-nothing.
type CheckoutEngine struct {
	orders            *store.OrderStore
	offers            *store.OfferStore
	catalog           *Catalog
	releaseOnConflict bool
}

// NewCheckoutEngine creates a CheckoutEngine with the given dependencies.
func NewCheckoutEngine(
	orders *store.OrderStore,
	offers *store.OfferStore,
	catalog *Catalog,
	releaseOnConflict bool,
) *CheckoutEngine {
	return &CheckoutEngine{
		orders:            orders,
		offers:            offers,
		catalog:           catalog,
		releaseOnConflict: releaseOnConflict,
	}
}

// Checkout validates the buyer's open cart against live stock and either
// confirms it or reports what changed.
//
// The whole pass runs under the buyer's cart lock plus the stock locks of
// every product in the cart, acquired in sorted order. Stock decrements from
// concurrent checkouts of the same product are therefore serialized: a unit
// of stock can never be sold twice.
//
// Per line, against the live available quantity:
//
//   - available >= requested: the reservation commits, stock is consumed.
//   - 0 < available < requested: the line is clamped to the available
//     quantity (no stock consumed; the follow-up checkout reserves it).
//   - available == 0: the line is deleted.
//
// If any line was clamped or deleted, the mutated cart's totals are
// recomputed and the call fails with domain.ErrStockConflict; the cart stays
// open and the returned adjustments describe the changes. Otherwise every
// line's price is frozen to the current catalog price, totals are
// recomputed, and the order is confirmed.
func (e *CheckoutEngine) Checkout(buyerID string) (*domain.Order, []StockAdjustment, error) {
	var adjustments []StockAdjustment

	order, err := e.orders.MutateOpen(buyerID, func(o *domain.Order) (bool, error) {
		if len(o.Lines) == 0 || o.SubtotalCents <= 0 {
			return false, domain.ErrEmptyCart
		}

		productIDs := make([]string, len(o.Lines))
		for i, l := range o.Lines {
			productIDs[i] = l.ProductID
		}
		unlock := e.offers.LockProducts(productIDs)
		defer unlock()

		var reserved []store.Deduction
		var removed []string

		for _, line := range o.Lines {
			available := e.offers.Quantity(line.ProductID)

			switch {
			case available >= line.Quantity:
				reserved = append(reserved, e.offers.Reduce(line.ProductID, line.Quantity)...)
			case available > 0:
				adjustments = append(adjustments, StockAdjustment{
					ProductID:        line.ProductID,
					PreviousQuantity: line.Quantity,
					NewQuantity:      available,
				})
				line.Quantity = available
			default:
				adjustments = append(adjustments, StockAdjustment{
					ProductID:        line.ProductID,
					PreviousQuantity: line.Quantity,
					Removed:          true,
				})
				removed = append(removed, line.ProductID)
			}
		}

		if len(adjustments) > 0 {
			for _, productID := range removed {
				o.RemoveLine(productID)
			}
			if e.releaseOnConflict {
				e.offers.Restore(reserved)
			}
			return true, domain.ErrStockConflict
		}

		// No conflicts: freeze each line's purchase price to the current
		// catalog price before confirming. All prices are resolved before
		// any is applied; a line that cannot be priced fails the checkout
		// with the reservations rolled back and the cart untouched, rather
		// than confirming at a stale price.
		prices := make([]int64, len(o.Lines))
		for i, line := range o.Lines {
			price, err := e.catalog.Price(line.ProductID)
			if err != nil {
				e.offers.Restore(reserved)
				return false, err
			}
			prices[i] = price
		}
		for i, line := range o.Lines {
			line.PriceCents = prices[i]
		}

		e.orders.Confirm(o)
		return true, nil
	})

	return order, adjustments, err
}
