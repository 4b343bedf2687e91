package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/store"
)

// RegisterSellerRequest is the validated input for seller registration.
type RegisterSellerRequest struct {
	SellerID string
	Name     string
}

// UpsertOfferRequest is the validated input for a seller's offer on a
// product. Price is in dollars as received over the wire.
type UpsertOfferRequest struct {
	SellerID string
	Quantity int64
	Price    float64
}

// SellerService handles seller registration and offer ingestion.
type SellerService struct {
	sellers  *store.SellerStore
	products *store.ProductStore
	offers   *store.OfferStore
}

// NewSellerService creates a SellerService with the given dependencies.
func NewSellerService(sellers *store.SellerStore, products *store.ProductStore, offers *store.OfferStore) *SellerService {
	return &SellerService{sellers: sellers, products: products, offers: offers}
}

// Register validates and stores a new seller.
func (s *SellerService) Register(req RegisterSellerRequest) (*domain.Seller, error) {
	if req.SellerID == "" {
		return nil, &domain.ValidationError{Message: "seller_id is required"}
	}
	if req.Name == "" {
		return nil, &domain.ValidationError{Message: "name is required"}
	}

	seller := &domain.Seller{
		SellerID:  req.SellerID,
		Name:      req.Name,
		CreatedAt: time.Now(),
	}
	if err := s.sellers.Create(seller); err != nil {
		return nil, err
	}
	return seller, nil
}

// UpsertOffer validates and stores the seller's offer for a product,
// replacing any previous offer from the same seller. Replacing is what
// keeps a seller from holding two concurrent offers on one product.
func (s *SellerService) UpsertOffer(productID string, req UpsertOfferRequest) (*domain.Offer, error) {
	if !s.sellers.Exists(req.SellerID) {
		return nil, domain.ErrSellerNotFound
	}
	if !s.products.Exists(productID) {
		return nil, domain.ErrProductNotFound
	}
	if req.Quantity < 0 {
		return nil, &domain.ValidationError{Message: "quantity must be at least 0"}
	}

	priceCents, err := domain.DollarsToCents(req.Price)
	if err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}
	if priceCents <= 0 {
		return nil, &domain.ValidationError{Message: "price must be greater than 0"}
	}

	offer := &domain.Offer{
		OfferID:          uuid.New().String(),
		SellerID:         req.SellerID,
		ProductID:        productID,
		Quantity:         req.Quantity,
		SellerPriceCents: priceCents,
		CreatedAt:        time.Now(),
	}
	s.offers.Upsert(offer)
	return offer, nil
}
