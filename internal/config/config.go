package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the marketplace backend.
type Config struct {
	Port     int
	LogLevel string

	// ShippingCostCents is the flat shipping cost applied to every order.
	ShippingCostCents int64
	// VATRateBps is the VAT rate in basis points (2100 = 21%).
	VATRateBps int64
	// PriceMarginBps is the margin added on top of the average seller price
	// to derive the catalog price, in basis points (1200 = 12%).
	PriceMarginBps int64
	// ReleaseStockOnConflict controls whether stock reserved for satisfiable
	// lines is restored when a checkout fails with a stock conflict. The
	// default (false) keeps those reservations.
	ReleaseStockOnConflict bool

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. It returns an error for any invalid value.
func Load() (*Config, error) {
	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	shippingCost, err := getInt64("SHIPPING_COST_CENTS", 1500)
	if err != nil {
		return nil, fmt.Errorf("invalid SHIPPING_COST_CENTS: %w", err)
	}
	if shippingCost < 0 {
		return nil, fmt.Errorf("invalid SHIPPING_COST_CENTS: must be non-negative")
	}

	vatRate, err := getInt64("VAT_RATE_BPS", 2100)
	if err != nil {
		return nil, fmt.Errorf("invalid VAT_RATE_BPS: %w", err)
	}
	if vatRate < 0 {
		return nil, fmt.Errorf("invalid VAT_RATE_BPS: must be non-negative")
	}

	priceMargin, err := getInt64("PRICE_MARGIN_BPS", 1200)
	if err != nil {
		return nil, fmt.Errorf("invalid PRICE_MARGIN_BPS: %w", err)
	}
	if priceMargin < 0 {
		return nil, fmt.Errorf("invalid PRICE_MARGIN_BPS: must be non-negative")
	}

	releaseOnConflict, err := getBool("RELEASE_STOCK_ON_CONFLICT", false)
	if err != nil {
		return nil, fmt.Errorf("invalid RELEASE_STOCK_ON_CONFLICT: %w", err)
	}

	readTimeout, err := getDuration("READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := getDuration("WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := getDuration("IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	return &Config{
		Port:                   port,
		LogLevel:               logLevel,
		ShippingCostCents:      shippingCost,
		VATRateBps:             vatRate,
		PriceMarginBps:         priceMargin,
		ReleaseStockOnConflict: releaseOnConflict,
		ReadTimeout:            readTimeout,
		WriteTimeout:           writeTimeout,
		IdleTimeout:            idleTimeout,
		ShutdownTimeout:        shutdownTimeout,
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getInt64(key string, defaultVal int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func getBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.ParseBool(v)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
