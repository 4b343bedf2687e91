package service

import (
	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/engine"
	"github.com/efreitasn/minimarket/internal/store"
)

// AddToCartRequest is the validated input for a cart line mutation.
type AddToCartRequest struct {
	ProductID string
	Quantity  int64
}

// LineView is one order line with its resolved display attributes. Price is
// the current catalog price while the order is open and the frozen purchase
// price once confirmed; Subtotal is the stored line price × quantity, which
// is what the order totals are computed from.
type LineView struct {
	LineID      string
	ProductID   string
	ProductName string
	SellerID    string
	Quantity    int64
	Price       int64 // cents
	Subtotal    int64 // cents
}

// CartView is an order with resolved line views.
type CartView struct {
	Order *domain.Order
	Lines []LineView
}

// CheckoutResult is the outcome of a checkout call. On a stock conflict,
// Cart is the reconciled (still open) cart and Adjustments lists what
// changed; on success Cart is the confirmed order and Adjustments is empty.
type CheckoutResult struct {
	Cart        *CartView
	Adjustments []engine.StockAdjustment
}

// CartService handles cart retrieval, line mutation, checkout, and the
// buyer's confirmed order history.
type CartService struct {
	orders   *store.OrderStore
	products *store.ProductStore
	catalog  *engine.Catalog
	cart     *engine.CartEngine
	checkout *engine.CheckoutEngine
}

// NewCartService creates a CartService with the given dependencies.
func NewCartService(
	orders *store.OrderStore,
	products *store.ProductStore,
	catalog *engine.Catalog,
	cart *engine.CartEngine,
	checkout *engine.CheckoutEngine,
) *CartService {
	return &CartService{
		orders:   orders,
		products: products,
		catalog:  catalog,
		cart:     cart,
		checkout: checkout,
	}
}

// GetCart returns the buyer's open cart, creating an empty one if none
// exists.
func (s *CartService) GetCart(buyerID string) *CartView {
	return s.buildView(s.orders.GetOrCreateOpen(buyerID))
}

// AddToCart applies the requested quantity for a product to the buyer's open
// cart and returns the updated cart.
func (s *CartService) AddToCart(buyerID string, req AddToCartRequest) (*CartView, error) {
	if req.ProductID == "" {
		return nil, &domain.ValidationError{Message: "product_id is required"}
	}

	order, err := s.cart.AddOrUpdateLine(buyerID, req.ProductID, req.Quantity)
	if err != nil {
		return nil, err
	}
	return s.buildView(order), nil
}

// Checkout attempts to confirm the buyer's open cart. On
// domain.ErrStockConflict the returned result carries the reconciled cart
// and the adjustments that were applied, so the caller can show the buyer
// what changed.
func (s *CartService) Checkout(buyerID string) (*CheckoutResult, error) {
	order, adjustments, err := s.checkout.Checkout(buyerID)
	if err != nil && order == nil {
		return nil, err
	}

	return &CheckoutResult{
		Cart:        s.buildView(order),
		Adjustments: adjustments,
	}, err
}

// ListOrders returns the buyer's confirmed orders, newest first, along with
// the total count.
func (s *CartService) ListOrders(buyerID string, page, limit int) ([]*CartView, int, error) {
	if page < 1 {
		return nil, 0, &domain.ValidationError{Message: "page must be a positive integer"}
	}
	if limit < 1 || limit > 100 {
		return nil, 0, &domain.ValidationError{Message: "limit must be between 1 and 100"}
	}

	orders, total := s.orders.ListConfirmed(buyerID, page, limit)
	views := make([]*CartView, len(orders))
	for i, o := range orders {
		views[i] = s.buildView(o)
	}
	return views, total, nil
}

// GetOrder returns one of the buyer's confirmed orders. Open carts are not
// reachable here; GET /cart is the only way to read the open cart.
func (s *CartService) GetOrder(buyerID, orderID string) (*CartView, error) {
	o, err := s.orders.GetConfirmed(buyerID, orderID)
	if err != nil {
		return nil, err
	}
	return s.buildView(o), nil
}

// buildView resolves display attributes for the order's lines. For open
// carts the displayed price is the live catalog price; for confirmed orders
// it is the frozen purchase price stored on the line.
func (s *CartService) buildView(o *domain.Order) *CartView {
	lines := make([]LineView, len(o.Lines))
	for i, l := range o.Lines {
		lv := LineView{
			LineID:    l.LineID,
			ProductID: l.ProductID,
			SellerID:  l.SellerID,
			Quantity:  l.Quantity,
			Price:     l.PriceCents,
			Subtotal:  l.Subtotal(),
		}
		if p, err := s.products.Get(l.ProductID); err == nil {
			lv.ProductName = p.Name
		}
		if !o.IsConfirmed {
			if price, err := s.catalog.Price(l.ProductID); err == nil {
				lv.Price = price
			}
		}
		lines[i] = lv
	}
	return &CartView{Order: o, Lines: lines}
}
