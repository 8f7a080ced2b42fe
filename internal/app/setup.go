// Package app contains the application setup for the store-manager service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pviana/store-manager/internal/config"
	"github.com/pviana/store-manager/internal/service"
	"github.com/pviana/store-manager/internal/store"
	"github.com/pviana/store-manager/internal/transport/rest"
	"github.com/pviana/store-manager/pkg/messaging"
	"github.com/pviana/store-manager/pkg/server"
	"go.mongodb.org/mongo-driver/mongo"
)

type Dependencies struct {
	ProductService service.ProductService
	SaleService    service.SaleService
	Logger         *slog.Logger
}

func SetupDependencies(db *mongo.Database, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	productStore := store.NewMongoProductStore(db)
	saleStore := store.NewMongoSaleStore(db)

	return &Dependencies{
		ProductService: service.NewProductService(productStore, logger),
		SaleService:    service.NewSaleService(saleStore, productStore, publisher, logger),
		Logger:         logger,
	}
}

// SetupHttpHandler initializes the HTTP routes for the store-manager application.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the store-manager application.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	mux.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Store Manager working!"))
	})
	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	productHandler := rest.NewProductHandler(deps.ProductService, deps.Logger)
	productHandler.RegisterRoutes(mux)

	saleHandler := rest.NewSaleHandler(deps.SaleService, deps.Logger)
	saleHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the store-manager application.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)
	return server.NewHTTPServer(cfg.HTTPServer, mux)
}
