// Package routes wires HTTP endpoints to controllers. The surface follows
// the original storefront API: flat paths at the root, not under /api.
package routes

import (
	"net/http"

	"github.com/boofino/boofino/app/controllers"
	"github.com/boofino/boofino/app/gql"
	"github.com/boofino/boofino/app/guard"
	"github.com/boofino/boofino/app/services"
	"github.com/boofino/boofino/pkg/logger"
	"github.com/boofino/boofino/pkg/metrics"
	"github.com/boofino/boofino/pkg/router"
	"github.com/boofino/boofino/pkg/storage"
	"github.com/boofino/boofino/pkg/ws"
)

// Deps bundles everything the route table needs.
type Deps struct {
	Auth     *services.AuthService
	Users    *services.UserService
	Catalog  *services.CatalogService
	Discount *services.DiscountService
	Checkout *services.CheckoutService
	Orders   *services.OrderService
	OrderHub *ws.Hub
}

// RegisterAPI mounts every route on the router.
func RegisterAPI(r *router.Router, d Deps) {
	authController := controllers.NewAuthController(d.Auth)
	userController := controllers.NewUserController(d.Users)
	schoolController := controllers.NewSchoolController(d.Catalog)
	productController := controllers.NewProductController(d.Catalog)
	discountController := controllers.NewDiscountController(d.Discount)
	checkoutController := controllers.NewCheckoutController(d.Checkout)
	orderController := controllers.NewOrderController(d.Orders)
	uploadController := controllers.NewUploadController()
	healthController := controllers.NewHealthController()
	// The order.created listener is registered once at process start, not
	// here: Build may run more than once and the event bus is global.
	feedController := controllers.NewFeedController(d.OrderHub)

	// Ops surface.
	r.Get("/healthz", "ops.healthz", healthController.Check)
	r.Get("/metrics", "ops.metrics", metrics.Handler())

	// Guest-only credential routes.
	guest := r.Group("", guard.RequireGuest)
	guest.Post("/register", "auth.register", authController.Register)
	guest.Post("/login", "auth.login", authController.Login)

	r.Get("/logout", "auth.logout", authController.Logout, guard.RequireAuth)

	// Public catalog.
	r.Get("/schools", "schools.index", schoolController.Index)
	r.Post("/search-schools", "schools.search", schoolController.Search)
	r.Post("/select-school", "schools.select", schoolController.Select)
	r.Post("/graphql", "gql.catalog", mountGraphQL(d.Catalog))
	r.Post("/discount", "discount.validate", discountController.Validate)

	// Authenticated storefront.
	authed := r.Group("", guard.RequireAuth)
	authed.Get("/user", "user.show", userController.Show)
	authed.Put("/user", "user.update", userController.Update)
	authed.Get("/products", "products.index", productController.Index)
	authed.Get("/product/{name}", "products.show", productController.Show)
	authed.Get("/search-products/{name}", "products.search", productController.Search)
	authed.Post("/buyproducts", "checkout.buy", checkoutController.Buy)
	authed.Get("/userorders", "orders.index", orderController.Index)
	authed.Get("/order/{trackingCode}", "orders.show", orderController.Show)
	authed.Post("/uploadimg", "upload.store", uploadController.Store)

	// Admin catalog management.
	admin := r.Group("", guard.RequireAdmin)
	admin.Post("/addproduct", "products.store", productController.Store)
	admin.Put("/editproduct/{name}", "products.update", productController.Update)
	admin.Delete("/deleteproduct/{name}", "products.destroy", productController.Destroy)
	admin.Delete("/deleteproducts", "products.destroy_batch", productController.DestroyBatch)
	admin.Get("/ws/orders", "orders.feed", feedController.Subscribe)

	// Fulfillment service surface, authenticated by service JWT.
	r.Put("/order/{trackingCode}/status", "orders.update_status", orderController.UpdateStatus, guard.ServiceAuth)

	// Local disk images.
	r.Mux().Handle("/static/*", http.StripPrefix("/static/",
		http.FileServer(http.Dir(storage.LocalRoot()))))
}

func mountGraphQL(catalog *services.CatalogService) http.HandlerFunc {
	schema, err := gql.NewSchema(catalog)
	if err != nil {
		logger.Error("graphql schema", "error", err)
		return func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "graphql unavailable", http.StatusInternalServerError)
		}
	}
	return gql.Handler(schema)
}
