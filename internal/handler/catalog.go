package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/service"
)

// CatalogHandler handles HTTP requests for product endpoints.
type CatalogHandler struct {
	catalogSvc *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogSvc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// createProductRequest is the JSON request body for POST /products.
type createProductRequest struct {
	Name     string `json:"name"`
	GTIN     string `json:"gtin"`
	WeightKG int64  `json:"weight_kg"`
	LengthMM int64  `json:"length_mm"`
	HeightMM int64  `json:"height_mm"`
	WidthMM  int64  `json:"width_mm"`
	ImageURL string `json:"image"`
}

// productResponse is the JSON representation of a product with its derived
// attributes. Price is null while the product has no offers.
type productResponse struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	GTIN      *string  `json:"gtin"`
	WeightKG  int64    `json:"weight_kg"`
	LengthMM  int64    `json:"length_mm"`
	HeightMM  int64    `json:"height_mm"`
	WidthMM   int64    `json:"width_mm"`
	ImageURL  *string  `json:"image"`
	Price     *float64 `json:"price"`
	Quantity  int64    `json:"quantity"`
	InStock   bool     `json:"in_stock"`
	CreatedAt string   `json:"created_at"`
}

// productListResponse is the JSON response for GET /products.
type productListResponse struct {
	Products []productResponse `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// CreateProduct handles POST /products.
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	view, err := h.catalogSvc.CreateProduct(service.CreateProductRequest{
		Name:     req.Name,
		GTIN:     req.GTIN,
		WeightKG: req.WeightKG,
		LengthMM: req.LengthMM,
		HeightMM: req.HeightMM,
		WidthMM:  req.WidthMM,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildProductResponse(view))
}

// GetProduct handles GET /products/{product_id}.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	view, err := h.catalogSvc.GetProduct(chi.URLParam(r, "product_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildProductResponse(view))
}

// ListProducts handles GET /products.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, limit, err := parsePagination(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	views, total, err := h.catalogSvc.ListProducts(page, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	products := make([]productResponse, len(views))
	for i, v := range views {
		products[i] = buildProductResponse(v)
	}
	WriteJSON(w, http.StatusOK, productListResponse{
		Products: products,
		Total:    total,
		Page:     page,
		Limit:    limit,
	})
}

// buildProductResponse converts a product view to its JSON representation.
func buildProductResponse(v *service.ProductView) productResponse {
	p := v.Product

	resp := productResponse{
		ProductID: p.ProductID,
		Name:      p.Name,
		WeightKG:  p.WeightKG,
		LengthMM:  p.LengthMM,
		HeightMM:  p.HeightMM,
		WidthMM:   p.WidthMM,
		Quantity:  v.Quantity,
		InStock:   v.InStock,
		CreatedAt: p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if p.GTIN != "" {
		resp.GTIN = &p.GTIN
	}
	if p.ImageURL != "" {
		resp.ImageURL = &p.ImageURL
	}
	if v.Price != nil {
		price := domain.CentsToDollars(*v.Price)
		resp.Price = &price
	}
	return resp
}
