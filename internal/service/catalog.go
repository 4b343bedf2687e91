package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/engine"
	"github.com/efreitasn/minimarket/internal/store"
)

// CreateProductRequest is the validated input for product ingestion.
type CreateProductRequest struct {
	Name     string
	GTIN     string
	WeightKG int64
	LengthMM int64
	HeightMM int64
	WidthMM  int64
	ImageURL string
}

// ProductView is a product together with its derived attributes. Price is
// nil while the product has no offers.
type ProductView struct {
	Product  *domain.Product
	Price    *int64 // cents
	Quantity int64
	InStock  bool
}

// CatalogService handles product ingestion and catalog queries.
type CatalogService struct {
	products *store.ProductStore
	catalog  *engine.Catalog
}

// NewCatalogService creates a CatalogService with the given dependencies.
func NewCatalogService(products *store.ProductStore, catalog *engine.Catalog) *CatalogService {
	return &CatalogService{products: products, catalog: catalog}
}

// CreateProduct validates and stores a new product.
func (s *CatalogService) CreateProduct(req CreateProductRequest) (*ProductView, error) {
	if req.Name == "" {
		return nil, &domain.ValidationError{Message: "name is required"}
	}
	if req.GTIN != "" && !domain.ValidGTIN(req.GTIN) {
		return nil, &domain.ValidationError{Message: "gtin must be a valid GTIN-13"}
	}
	if req.WeightKG < 0 || req.LengthMM < 0 || req.HeightMM < 0 || req.WidthMM < 0 {
		return nil, &domain.ValidationError{Message: "dimensions must be non-negative"}
	}

	p := &domain.Product{
		ProductID: uuid.New().String(),
		Name:      req.Name,
		GTIN:      req.GTIN,
		WeightKG:  req.WeightKG,
		LengthMM:  req.LengthMM,
		HeightMM:  req.HeightMM,
		WidthMM:   req.WidthMM,
		ImageURL:  req.ImageURL,
		CreatedAt: time.Now(),
	}
	if err := s.products.Create(p); err != nil {
		return nil, err
	}
	return s.view(p), nil
}

// GetProduct returns a product with its derived price, quantity, and stock
// status.
func (s *CatalogService) GetProduct(productID string) (*ProductView, error) {
	p, err := s.products.Get(productID)
	if err != nil {
		return nil, err
	}
	return s.view(p), nil
}

// ListProducts returns products sorted by name for the requested page,
// along with the total count.
func (s *CatalogService) ListProducts(page, limit int) ([]*ProductView, int, error) {
	if page < 1 {
		return nil, 0, &domain.ValidationError{Message: "page must be a positive integer"}
	}
	if limit < 1 || limit > 100 {
		return nil, 0, &domain.ValidationError{Message: "limit must be between 1 and 100"}
	}

	products, total := s.products.List(page, limit)
	views := make([]*ProductView, len(products))
	for i, p := range products {
		views[i] = s.view(p)
	}
	return views, total, nil
}

func (s *CatalogService) view(p *domain.Product) *ProductView {
	v := &ProductView{Product: p}
	if price, err := s.catalog.Price(p.ProductID); err == nil {
		v.Price = &price
	}
	if qty, err := s.catalog.Quantity(p.ProductID); err == nil {
		v.Quantity = qty
		v.InStock = qty > 0
	}
	return v
}
