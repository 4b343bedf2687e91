package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/minimarket/internal/service"
)

// buyerIDKey is the context key under which the authenticated buyer id is
// stored by the requireBuyer middleware.
type buyerIDKey struct{}

// buyerID returns the buyer id placed on the request context by
// requireBuyer.
func buyerID(r *http.Request) string {
	id, _ := r.Context().Value(buyerIDKey{}).(string)
	return id
}

// NewRouter creates a chi router with all routes registered, request logging,
// and Content-Type validation middleware.
func NewRouter(
	catalogSvc *service.CatalogService,
	sellerSvc *service.SellerService,
	cartSvc *service.CartService,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))
	r.Use(contentTypeJSON)

	// Create handlers.
	catalogH := NewCatalogHandler(catalogSvc)
	sellerH := NewSellerHandler(sellerSvc)
	cartH := NewCartHandler(cartSvc)

	// Health check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Catalog routes.
	r.Post("/products", catalogH.CreateProduct)
	r.Get("/products", catalogH.ListProducts)
	r.Get("/products/{product_id}", catalogH.GetProduct)

	// Seller/supply routes.
	r.Post("/sellers", sellerH.Register)
	r.Put("/products/{product_id}/offers", sellerH.UpsertOffer)

	// Cart and order routes, scoped to the authenticated buyer.
	r.Group(func(r chi.Router) {
		r.Use(requireBuyer)
		r.Get("/cart", cartH.GetCart)
		r.Post("/cart/lines", cartH.AddToCart)
		r.Post("/cart/checkout", cartH.Checkout)
		r.Get("/orders", cartH.ListOrders)
		r.Get("/orders/{order_id}", cartH.GetOrder)
	})

	return r
}

// requireBuyer extracts the buyer id supplied by the upstream auth provider
// via the X-Buyer-ID header. The id is trusted without re-validation; a
// missing header is rejected.
func requireBuyer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Buyer-ID")
		if id == "" {
			WriteError(w, http.StatusUnauthorized, "unauthenticated", "X-Buyer-ID header is required")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), buyerIDKey{}, id)))
	})
}

// requestLogging returns middleware that logs each request's method, path,
// status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// contentTypeJSON is middleware that validates Content-Type for POST, PUT, and
// PATCH requests. If the Content-Type header doesn't start with
// "application/json", it returns 400 Bad Request before the handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
