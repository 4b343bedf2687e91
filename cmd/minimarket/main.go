package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/efreitasn/minimarket/internal/config"
	"github.com/efreitasn/minimarket/internal/engine"
	"github.com/efreitasn/minimarket/internal/handler"
	"github.com/efreitasn/minimarket/internal/service"
	"github.com/efreitasn/minimarket/internal/store"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load .env if present, then configuration from the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Instantiate stores. The order store couples every line mutation with
	// the totals recalculation.
	totals := engine.NewTotalsCalculator(cfg.ShippingCostCents, cfg.VATRateBps)
	productStore := store.NewProductStore()
	offerStore := store.NewOfferStore()
	sellerStore := store.NewSellerStore()
	orderStore := store.NewOrderStore(totals.Recalculate)

	// Engines.
	catalog := engine.NewCatalog(productStore, offerStore, cfg.PriceMarginBps)
	cartEngine := engine.NewCartEngine(orderStore, productStore, offerStore, catalog, engine.RandomFulfillment{})
	checkoutEngine := engine.NewCheckoutEngine(orderStore, offerStore, catalog, cfg.ReleaseStockOnConflict)

	// Services.
	catalogSvc := service.NewCatalogService(productStore, catalog)
	sellerSvc := service.NewSellerService(sellerStore, productStore, offerStore)
	cartSvc := service.NewCartService(orderStore, productStore, catalog, cartEngine, checkoutEngine)

	// Router.
	router := handler.NewRouter(catalogSvc, sellerSvc, cartSvc, logger)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
