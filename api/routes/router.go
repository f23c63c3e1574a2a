package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storelinehq/storeline-backend/api/controllers"
	"github.com/storelinehq/storeline-backend/api/middleware"
	authsvc "github.com/storelinehq/storeline-backend/internal/auth"
	cartsvc "github.com/storelinehq/storeline-backend/internal/cart"
	"github.com/storelinehq/storeline-backend/internal/catalog"
	"github.com/storelinehq/storeline-backend/internal/comments"
	"github.com/storelinehq/storeline-backend/internal/customers"
	"github.com/storelinehq/storeline-backend/internal/orders"
	"github.com/storelinehq/storeline-backend/pkg/config"
	"github.com/storelinehq/storeline-backend/pkg/enums"
	"github.com/storelinehq/storeline-backend/pkg/logger"
	"github.com/storelinehq/storeline-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	authService authsvc.Service,
	catalogService catalog.Service,
	commentsService comments.Service,
	cartService cartsvc.Service,
	customersService customers.Service,
	ordersService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Idempotency(redisClient, logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	adminOnly := middleware.RequireRole(enums.UserRoleAdmin.String(), logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).
				Post("/register", controllers.AuthRegister(authService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
				Post("/login", controllers.AuthLogin(authService, logg))
		})

		// Storefront browsing is open to everyone.
		r.Get("/categories", controllers.ListCategories(catalogService, logg))
		r.Get("/categories/{categoryId}", controllers.GetCategory(catalogService, logg))
		r.Get("/products", controllers.ListProducts(catalogService, logg))
		r.Get("/products/{productId}", controllers.GetProduct(catalogService, logg))
		r.Get("/products/{productId}/comments", controllers.ListComments(commentsService, logg))
		r.Post("/products/{productId}/comments", controllers.CreateComment(commentsService, logg))
		r.Get("/comments/{commentId}", controllers.GetComment(commentsService, logg))

		// Carts are anonymous, addressed by their id.
		r.Post("/carts", controllers.CreateCart(cartService, logg))
		r.Route("/carts/{cartId}", func(r chi.Router) {
			r.Get("/", controllers.GetCart(cartService, logg))
			r.Delete("/", controllers.DeleteCart(cartService, logg))
			r.Post("/items", controllers.AddCartItem(cartService, logg))
			r.Put("/items/{itemId}", controllers.UpdateCartItem(cartService, logg))
			r.Delete("/items/{itemId}", controllers.RemoveCartItem(cartService, logg))
		})

		// Catalog and comment writes are back office operations.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg), adminOnly)
			r.Post("/categories", controllers.CreateCategory(catalogService, logg))
			r.Put("/categories/{categoryId}", controllers.UpdateCategory(catalogService, logg))
			r.Delete("/categories/{categoryId}", controllers.DeleteCategory(catalogService, logg))
			r.Post("/products", controllers.CreateProduct(catalogService, logg))
			r.Put("/products/{productId}", controllers.UpdateProduct(catalogService, logg))
			r.Delete("/products/{productId}", controllers.DeleteProduct(catalogService, logg))
			r.Put("/comments/{commentId}", controllers.UpdateComment(commentsService, logg))
			r.Delete("/comments/{commentId}", controllers.DeleteComment(commentsService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/customers", func(r chi.Router) {
				r.Get("/me", controllers.CustomerProfile(customersService, logg))
				r.Put("/me", controllers.CustomerProfileUpdate(customersService, logg))

				r.Group(func(r chi.Router) {
					r.Use(adminOnly)
					r.Get("/", controllers.AdminListCustomers(customersService, logg))
					r.Get("/{customerId}", controllers.AdminGetCustomer(customersService, logg))
					r.Put("/{customerId}", controllers.AdminUpdateCustomer(customersService, logg))
				})
			})

			r.Post("/orders", controllers.Checkout(ordersService, logg))
			r.Get("/orders", controllers.ListOrders(ordersService, logg))
			r.Route("/orders/{orderId}", func(r chi.Router) {
				r.Get("/", controllers.GetOrder(ordersService, logg))
				r.Patch("/", controllers.UpdateOrder(ordersService, logg))
				r.Put("/", controllers.UpdateOrder(ordersService, logg))
				r.Delete("/", controllers.DeleteOrder(ordersService, logg))
			})
		})
	})

	return r
}
