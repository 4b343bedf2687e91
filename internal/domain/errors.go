package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrProductNotFound     = errors.New("product_not_found")
	ErrSellerNotFound      = errors.New("seller_not_found")
	ErrSellerAlreadyExists = errors.New("seller_already_exists")
	ErrGTINAlreadyExists   = errors.New("gtin_already_exists")
	ErrOrderNotFound       = errors.New("order_not_found")
	ErrEmptyCart           = errors.New("empty_cart")
	ErrStockConflict       = errors.New("stock_conflict")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InsufficientStockError is returned when a requested quantity exceeds the
// currently available stock for a product. MaxQuantity carries the largest
// quantity that could still be satisfied, so callers can retry with it.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int64
	MaxQuantity int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf(
		"requested quantity of product %s exceeds stock levels, maximum quantity is %d",
		e.ProductName, e.MaxQuantity,
	)
}
