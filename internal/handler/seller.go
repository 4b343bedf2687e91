package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/service"
)

// SellerHandler handles HTTP requests for seller and offer endpoints.
type SellerHandler struct {
	sellerSvc *service.SellerService
}

// NewSellerHandler creates a new SellerHandler.
func NewSellerHandler(sellerSvc *service.SellerService) *SellerHandler {
	return &SellerHandler{sellerSvc: sellerSvc}
}

// registerSellerRequest is the JSON request body for POST /sellers.
type registerSellerRequest struct {
	SellerID string `json:"seller_id"`
	Name     string `json:"name"`
}

// sellerResponse is the JSON representation of a seller.
type sellerResponse struct {
	SellerID  string `json:"seller_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// upsertOfferRequest is the JSON request body for
// PUT /products/{product_id}/offers.
type upsertOfferRequest struct {
	SellerID string  `json:"seller_id"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

// offerResponse is the JSON representation of an offer.
type offerResponse struct {
	OfferID   string  `json:"offer_id"`
	SellerID  string  `json:"seller_id"`
	ProductID string  `json:"product_id"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
}

// Register handles POST /sellers.
func (h *SellerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerSellerRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	seller, err := h.sellerSvc.Register(service.RegisterSellerRequest{
		SellerID: req.SellerID,
		Name:     req.Name,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, sellerResponse{
		SellerID:  seller.SellerID,
		Name:      seller.Name,
		CreatedAt: seller.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

// UpsertOffer handles PUT /products/{product_id}/offers.
func (h *SellerHandler) UpsertOffer(w http.ResponseWriter, r *http.Request) {
	var req upsertOfferRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	offer, err := h.sellerSvc.UpsertOffer(chi.URLParam(r, "product_id"), service.UpsertOfferRequest{
		SellerID: req.SellerID,
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, offerResponse{
		OfferID:   offer.OfferID,
		SellerID:  offer.SellerID,
		ProductID: offer.ProductID,
		Quantity:  offer.Quantity,
		Price:     domain.CentsToDollars(offer.SellerPriceCents),
	})
}
