package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/efreitasn/minimarket/internal/domain"
)

// WriteJSON writes a JSON response with the given status code and data.
// Sets Content-Type to application/json before writing the status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// errorResponse is the uniform error body: a machine-readable code plus a
// human-readable message.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes the uniform error body with the given status code.
func WriteError(w http.ResponseWriter, status int, errorCode, message string) {
	WriteJSON(w, status, errorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// insufficientStockResponse extends the error body with the product and the
// largest quantity that can still be satisfied, so the caller can retry
// with it.
type insufficientStockResponse struct {
	Error       string `json:"error"`
	Message     string `json:"message"`
	ProductID   string `json:"product_id"`
	MaxQuantity int64  `json:"max_quantity"`
}

// writeDomainError maps domain errors to HTTP responses. Handlers with
// endpoint-specific bodies (checkout's stock-conflict response) handle those
// before falling back to this.
func writeDomainError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		WriteJSON(w, http.StatusConflict, insufficientStockResponse{
			Error:       "insufficient_stock",
			Message:     stockErr.Error(),
			ProductID:   stockErr.ProductID,
			MaxQuantity: stockErr.MaxQuantity,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		WriteError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, domain.ErrSellerNotFound):
		WriteError(w, http.StatusNotFound, "seller_not_found", err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, domain.ErrSellerAlreadyExists):
		WriteError(w, http.StatusConflict, "seller_already_exists", err.Error())
	case errors.Is(err, domain.ErrGTINAlreadyExists):
		WriteError(w, http.StatusConflict, "gtin_already_exists", err.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		WriteError(w, http.StatusBadRequest, "empty_cart", "please make sure you have items in your cart")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// ParseJSON decodes the request body as JSON into v. Unknown fields are
// rejected so a mistyped field name (say, "quanity") fails loudly instead of
// silently applying a zero value. The two failure modes get distinct
// messages: one for a missing or non-JSON Content-Type, one for a body that
// does not decode.
func ParseJSON(r *http.Request, v any) error {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(ct, "application/json") {
		return errors.New("Content-Type must be application/json")
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("request body must be valid JSON matching the documented fields")
	}

	return nil
}
