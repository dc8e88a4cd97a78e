package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arjunmehra/shopkart-backend/api/controllers"
	"github.com/arjunmehra/shopkart-backend/api/middleware"
	checkoutsvc "github.com/arjunmehra/shopkart-backend/internal/checkout"
	ordersvc "github.com/arjunmehra/shopkart-backend/internal/orders"
	"github.com/arjunmehra/shopkart-backend/pkg/config"
	"github.com/arjunmehra/shopkart-backend/pkg/db"
	"github.com/arjunmehra/shopkart-backend/pkg/logger"
	"github.com/arjunmehra/shopkart-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	checkoutService checkoutsvc.Service,
	ordersService ordersvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	var redisP redis.Pinger
	if redisClient != nil {
		redisP = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity(logg))
		if redisClient != nil {
			r.Use(middleware.Idempotency(redisClient, logg))
		}

		r.Post("/checkout/quote", controllers.CheckoutQuote(checkoutService, logg))
		r.Post("/checkout", controllers.Checkout(checkoutService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(ordersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
			r.Post("/{orderId}/capture", controllers.CaptureOrderPayment(checkoutService, logg))
			r.Post("/{orderId}/cancel", controllers.CancelOrder(ordersService, logg))
		})
	})

	return r
}
