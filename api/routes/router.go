package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hardikpatel/shopkart-backend/api/controllers"
	"github.com/hardikpatel/shopkart-backend/api/middleware"
	"github.com/hardikpatel/shopkart-backend/internal/carts"
	"github.com/hardikpatel/shopkart-backend/internal/coupons"
	"github.com/hardikpatel/shopkart-backend/internal/inventory"
	"github.com/hardikpatel/shopkart-backend/internal/orders"
	"github.com/hardikpatel/shopkart-backend/internal/payments"
	"github.com/hardikpatel/shopkart-backend/internal/settings"
	"github.com/hardikpatel/shopkart-backend/internal/shipping"
	"github.com/hardikpatel/shopkart-backend/pkg/config"
	"github.com/hardikpatel/shopkart-backend/pkg/db"
	"github.com/hardikpatel/shopkart-backend/pkg/enums"
	"github.com/hardikpatel/shopkart-backend/pkg/logger"
	"github.com/hardikpatel/shopkart-backend/pkg/redis"
)

// Services bundles everything the router wires into controllers.
type Services struct {
	Settings  settings.Service
	Coupons   coupons.Service
	Shipping  shipping.Service
	Inventory inventory.Service
	Carts     carts.Service
	Orders    orders.Service
	Payments  payments.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	// Quote endpoints stay public so the storefront can price a cart
	// before the shopper signs in.
	r.Route("/api/public/v1", func(r chi.Router) {
		r.Get("/shipping/options", controllers.ShippingOptions(svcs.Shipping, logg))
		r.Post("/coupons/validate", controllers.CouponValidate(svcs.Coupons, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(svcs.Carts, logg))
			r.Put("/items", controllers.CartSetItem(svcs.Carts, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(svcs.Carts, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderPlace(svcs.Orders, logg))
			r.Get("/", controllers.OrderList(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.OrderGet(svcs.Orders, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/razorpay/order", controllers.PaymentCreateOrder(svcs.Payments, enums.PaymentMethodRazorpay, logg))
			r.Post("/cashfree/session", controllers.PaymentCreateOrder(svcs.Payments, enums.PaymentMethodCashfree, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))

			r.Route("/inventory", func(r chi.Router) {
				r.Post("/adjustments", controllers.InventoryAddStock(svcs.Inventory, logg))
				r.Get("/{productId}/movements", controllers.InventoryMovements(svcs.Inventory, logg))
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", controllers.SettingsGet(svcs.Settings, logg))
				r.Put("/", controllers.SettingsUpdate(svcs.Settings, logg))
			})
		})
	})

	return r
}
