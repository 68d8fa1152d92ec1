// Package main initializes and starts the storefront backend server,
// setting up configuration, logging, the database connection,
// repositories, services, handlers, and routing.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/thedinkardubey/sarvavihar-frontend/internal/config"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/db"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/logger"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/repository"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/server/handler/http"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Port
	dsn := options.DatabaseDSN

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(dsn)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Periodically remove expired session tokens.
	db.StartTokenCleaner(context.Background(), postgresDB, time.Hour, zapLogger)

	// Initialize repositories.
	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	productRepo := repository.NewPostgresProductRepository(postgresDB)
	cartRepo := repository.NewPostgresCartRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(authRepo)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{AuthService: authService}
	cartHandler := &http.CartHandler{CartService: cartService}
	productHandler := &http.ProductHandler{ProductService: productService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, cartHandler, productHandler, authService, zapLogger)

	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
