package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/catalog-backend/api/controllers"
	"github.com/angelmondragon/catalog-backend/api/middleware"
	"github.com/angelmondragon/catalog-backend/internal/catalog"
	"github.com/angelmondragon/catalog-backend/pkg/config"
	"github.com/angelmondragon/catalog-backend/pkg/db"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
	"github.com/angelmondragon/catalog-backend/pkg/redis"
)

// NewRouter wires the HTTP surface: health probes, the product mutation and
// read endpoints, and the Prometheus scrape handler.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	catalogService catalog.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.ActorContext(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Post("/", controllers.AddProduct(catalogService, logg))
		r.Get("/", controllers.ListProducts(catalogService, logg))
		r.Get("/{productId}", controllers.SingleProduct(catalogService, logg))
		r.Put("/{productId}", controllers.UpdateProduct(catalogService, logg))
		r.Delete("/{productId}", controllers.RemoveProduct(catalogService, logg))
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
