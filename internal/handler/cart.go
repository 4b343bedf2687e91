package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/engine"
	"github.com/efreitasn/minimarket/internal/service"
)

// CartHandler handles HTTP requests for cart and order endpoints.
type CartHandler struct {
	cartSvc *service.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartSvc *service.CartService) *CartHandler {
	return &CartHandler{cartSvc: cartSvc}
}

// addToCartRequest is the JSON request body for POST /cart/lines.
type addToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// lineResponse is a single order line in the cart response.
type lineResponse struct {
	LineID    string  `json:"line_id"`
	ProductID string  `json:"product_id"`
	Product   string  `json:"product"`
	SellerID  string  `json:"seller_id"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
	Subtotal  float64 `json:"subtotal"`
}

// cartResponse is the JSON representation of a cart or confirmed order.
type cartResponse struct {
	OrderID      string         `json:"order_id"`
	BuyerID      string         `json:"buyer_id"`
	IsConfirmed  bool           `json:"is_confirmed"`
	Subtotal     float64        `json:"subtotal"`
	ShippingCost float64        `json:"shipping_cost"`
	VAT          float64        `json:"vat"`
	Total        float64        `json:"total"`
	CreatedAt    string         `json:"created_at"`
	ConfirmedAt  *string        `json:"confirmed_at"`
	Lines        []lineResponse `json:"lines"`
}

// adjustmentResponse is one reconciled line in a stock conflict response.
type adjustmentResponse struct {
	ProductID        string `json:"product_id"`
	PreviousQuantity int64  `json:"previous_quantity"`
	NewQuantity      int64  `json:"new_quantity"`
	Removed          bool   `json:"removed"`
}

// stockConflictResponse is the 409 body for POST /cart/checkout when stock
// changed since items were added.
type stockConflictResponse struct {
	Error   string               `json:"error"`
	Message string               `json:"message"`
	Cart    cartResponse         `json:"cart"`
	Changes []adjustmentResponse `json:"changes"`
}

// orderListResponse is the JSON response for GET /orders.
type orderListResponse struct {
	Orders []cartResponse `json:"orders"`
	Total  int            `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
}

// GetCart handles GET /cart. It returns the buyer's open cart, creating one
// if none exists.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	view := h.cartSvc.GetCart(buyerID(r))
	WriteJSON(w, http.StatusOK, buildCartResponse(view))
}

// AddToCart handles POST /cart/lines.
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	view, err := h.cartSvc.AddToCart(buyerID(r), service.AddToCartRequest{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildCartResponse(view))
}

// Checkout handles POST /cart/checkout. A clean confirmation returns the
// confirmed order; a stock conflict returns 409 with the reconciled cart and
// the list of changes.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	result, err := h.cartSvc.Checkout(buyerID(r))
	if err != nil {
		if errors.Is(err, domain.ErrStockConflict) {
			WriteJSON(w, http.StatusConflict, stockConflictResponse{
				Error: "stock_conflict",
				Message: "some of your chosen items have since become out of stock or no longer have " +
					"sufficient quantity, please review your updated cart",
				Cart:    buildCartResponse(result.Cart),
				Changes: buildAdjustmentResponses(result.Adjustments),
			})
			return
		}
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildCartResponse(result.Cart))
}

// ListOrders handles GET /orders, the buyer's confirmed order history.
func (h *CartHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, limit, err := parsePagination(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	views, total, err := h.cartSvc.ListOrders(buyerID(r), page, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	orders := make([]cartResponse, len(views))
	for i, v := range views {
		orders[i] = buildCartResponse(v)
	}
	WriteJSON(w, http.StatusOK, orderListResponse{
		Orders: orders,
		Total:  total,
		Page:   page,
		Limit:  limit,
	})
}

// GetOrder handles GET /orders/{order_id}.
func (h *CartHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	view, err := h.cartSvc.GetOrder(buyerID(r), chi.URLParam(r, "order_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildCartResponse(view))
}

// parsePagination reads 1-based page/limit query params with defaults.
func parsePagination(r *http.Request) (page, limit int, err error) {
	page, limit = 1, 20
	if v := r.URL.Query().Get("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, &domain.ValidationError{Message: "page must be a positive integer"}
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, &domain.ValidationError{Message: "limit must be between 1 and 100"}
		}
	}
	return page, limit, nil
}

// buildCartResponse converts a cart view to its JSON representation.
func buildCartResponse(v *service.CartView) cartResponse {
	o := v.Order

	lines := make([]lineResponse, len(v.Lines))
	for i, l := range v.Lines {
		lines[i] = lineResponse{
			LineID:    l.LineID,
			ProductID: l.ProductID,
			Product:   l.ProductName,
			SellerID:  l.SellerID,
			Quantity:  l.Quantity,
			Price:     domain.CentsToDollars(l.Price),
			Subtotal:  domain.CentsToDollars(l.Subtotal),
		}
	}

	resp := cartResponse{
		OrderID:      o.OrderID,
		BuyerID:      o.BuyerID,
		IsConfirmed:  o.IsConfirmed,
		Subtotal:     domain.CentsToDollars(o.SubtotalCents),
		ShippingCost: domain.CentsToDollars(o.ShippingCostCents),
		VAT:          domain.CentsToDollars(o.VATCents),
		Total:        domain.CentsToDollars(o.TotalCents),
		CreatedAt:    o.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Lines:        lines,
	}
	if o.ConfirmedAt != nil {
		s := o.ConfirmedAt.UTC().Format("2006-01-02T15:04:05Z")
		resp.ConfirmedAt = &s
	}
	return resp
}

// buildAdjustmentResponses converts engine stock adjustments to their JSON
// representation.
func buildAdjustmentResponses(adjustments []engine.StockAdjustment) []adjustmentResponse {
	out := make([]adjustmentResponse, len(adjustments))
	for i, a := range adjustments {
		out[i] = adjustmentResponse{
			ProductID:        a.ProductID,
			PreviousQuantity: a.PreviousQuantity,
			NewQuantity:      a.NewQuantity,
			Removed:          a.Removed,
		}
	}
	return out
}
