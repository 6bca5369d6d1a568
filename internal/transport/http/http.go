package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/corray333/cloud-kitchen/internal/service/services/cartsvc"
	"github.com/corray333/cloud-kitchen/internal/service/services/checkoutsvc"
	"github.com/corray333/cloud-kitchen/internal/service/services/menusvc"
	"github.com/corray333/cloud-kitchen/internal/service/services/ordersvc"
	adminmenu "github.com/corray333/cloud-kitchen/internal/transport/http/admin_menu"
	adminorders "github.com/corray333/cloud-kitchen/internal/transport/http/admin_orders"
	carthttp "github.com/corray333/cloud-kitchen/internal/transport/http/cart"
	checkouthttp "github.com/corray333/cloud-kitchen/internal/transport/http/checkout"
	"github.com/corray333/cloud-kitchen/internal/transport/http/health"
	"github.com/corray333/cloud-kitchen/internal/transport/http/healthz"
	"github.com/corray333/cloud-kitchen/internal/transport/http/menu"
	"github.com/corray333/cloud-kitchen/internal/transport/http/orders"
	"github.com/corray333/cloud-kitchen/internal/transport/http/payment"
	"github.com/corray333/cloud-kitchen/internal/transport/http/swagger"
	"github.com/corray333/cloud-kitchen/internal/transport/http/tracking"
	"github.com/corray333/cloud-kitchen/pkg/http/middleware/session"
	"github.com/corray333/cloud-kitchen/pkg/http/middleware/trace"
	"github.com/corray333/cloud-kitchen/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
)

// Services are the use cases exposed over HTTP. Healthz is optional.
type Services struct {
	Menu     *menusvc.MenuService
	Cart     *cartsvc.CartService
	Checkout *checkoutsvc.CheckoutService
	Orders   *ordersvc.OrderService
	Healthz  http.Handler
}

type HTTPTransport struct {
	server   *http.Server
	router   *chi.Mux
	services Services
}

func NewHTTPTransport(services Services) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:   server,
		router:   router,
		services: services,
	}
}

// Handler exposes the router, mainly for httptest.
func (h *HTTPTransport) Handler() http.Handler {
	return h.router
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Get("/health", health.Health)
	if h.services.Healthz != nil {
		h.router.Method(http.MethodGet, healthz.Path, h.services.Healthz)
	}
	swagger.Mount(h.router)

	h.router.Route("/api", func(r chi.Router) {
		r.Use(trace.NewTraceMiddleware)

		r.Route("/v1", func(r chi.Router) {
			r.Get("/menu", h.listMenu)
			r.Get("/orders/{id}", h.getOrder)
		})

		r.Group(func(r chi.Router) {
			r.Use(session.NewSessionMiddleware)

			r.Get("/cart", h.viewCart)
			r.Delete("/cart", h.clearCart)
			r.Post("/cart/items", h.addCartItem)
			r.Put("/cart/items/{itemID}", h.updateCartItem)
			r.Delete("/cart/items/{itemID}", h.removeCartItem)

			r.Get("/checkout", h.getCheckout)
			r.Post("/checkout", h.stageCheckout)
			r.Post("/payment", h.pay)
		})

		r.Get("/track/{id}", h.trackOrder)
		r.Get("/orders/{id}/confirmation", h.getOrder)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/menu", h.adminListMenu)
			r.Post("/menu", h.adminCreateMenuItem)
			r.Get("/menu/{id}", h.adminGetMenuItem)
			r.Put("/menu/{id}", h.adminUpdateMenuItem)
			r.Delete("/menu/{id}", h.adminDeleteMenuItem)

			r.Get("/orders", h.adminListOrders)
			r.Get("/orders/{id}", h.adminGetOrder)
			r.Delete("/orders/{id}", h.adminDeleteOrder)
			r.Post("/orders/{id}/status", h.adminUpdateOrderStatus)
		})
	})
}

func (h *HTTPTransport) listMenu(w http.ResponseWriter, r *http.Request) {
	menu.ListMenu(w, r, h.services.Menu)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	orders.GetOrder(w, r, h.services.Orders)
}

func (h *HTTPTransport) viewCart(w http.ResponseWriter, r *http.Request) {
	carthttp.ViewCart(w, r, h.services.Cart)
}

func (h *HTTPTransport) clearCart(w http.ResponseWriter, r *http.Request) {
	carthttp.ClearCart(w, r, h.services.Cart)
}

func (h *HTTPTransport) addCartItem(w http.ResponseWriter, r *http.Request) {
	carthttp.AddItem(w, r, h.services.Cart)
}

func (h *HTTPTransport) updateCartItem(w http.ResponseWriter, r *http.Request) {
	carthttp.UpdateItem(w, r, h.services.Cart)
}

func (h *HTTPTransport) removeCartItem(w http.ResponseWriter, r *http.Request) {
	carthttp.RemoveItem(w, r, h.services.Cart)
}

func (h *HTTPTransport) getCheckout(w http.ResponseWriter, r *http.Request) {
	checkouthttp.GetCheckout(w, r, h.services.Checkout)
}

func (h *HTTPTransport) stageCheckout(w http.ResponseWriter, r *http.Request) {
	checkouthttp.StageCheckout(w, r, h.services.Checkout)
}

func (h *HTTPTransport) pay(w http.ResponseWriter, r *http.Request) {
	payment.Pay(w, r, h.services.Orders)
}

func (h *HTTPTransport) trackOrder(w http.ResponseWriter, r *http.Request) {
	tracking.TrackOrder(w, r, h.services.Orders)
}

func (h *HTTPTransport) adminListMenu(w http.ResponseWriter, r *http.Request) {
	adminmenu.ListItems(w, r, h.services.Menu)
}

func (h *HTTPTransport) adminCreateMenuItem(w http.ResponseWriter, r *http.Request) {
	adminmenu.CreateItem(w, r, h.services.Menu)
}

func (h *HTTPTransport) adminGetMenuItem(w http.ResponseWriter, r *http.Request) {
	adminmenu.GetItem(w, r, h.services.Menu)
}

func (h *HTTPTransport) adminUpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	adminmenu.UpdateItem(w, r, h.services.Menu)
}

func (h *HTTPTransport) adminDeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	adminmenu.DeleteItem(w, r, h.services.Menu)
}

func (h *HTTPTransport) adminListOrders(w http.ResponseWriter, r *http.Request) {
	adminorders.ListOrders(w, r, h.services.Orders)
}

func (h *HTTPTransport) adminGetOrder(w http.ResponseWriter, r *http.Request) {
	adminorders.GetOrder(w, r, h.services.Orders)
}

func (h *HTTPTransport) adminDeleteOrder(w http.ResponseWriter, r *http.Request) {
	adminorders.DeleteOrder(w, r, h.services.Orders)
}

func (h *HTTPTransport) adminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	adminorders.UpdateStatus(w, r, h.services.Orders)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:              "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
