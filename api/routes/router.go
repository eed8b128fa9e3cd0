package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/artesania-app/artesania-backend/api/controllers"
	"github.com/artesania-app/artesania-backend/api/middleware"
	"github.com/artesania-app/artesania-backend/internal/artisans"
	"github.com/artesania-app/artesania-backend/internal/auth"
	"github.com/artesania-app/artesania-backend/internal/categories"
	"github.com/artesania-app/artesania-backend/internal/orders"
	"github.com/artesania-app/artesania-backend/internal/products"
	"github.com/artesania-app/artesania-backend/internal/users"
	"github.com/artesania-app/artesania-backend/pkg/config"
	"github.com/artesania-app/artesania-backend/pkg/enums"
	"github.com/artesania-app/artesania-backend/pkg/logger"
	"github.com/artesania-app/artesania-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	Redis *redis.Client

	// Health probes, keyed by dependency name.
	Probes map[string]controllers.Pinger

	// ArtisanChecker re-reads approval status on artisan-only routes.
	ArtisanChecker middleware.ArtisanStatusChecker

	AuthService       auth.Service
	UsersService      users.Service
	ArtisansService   artisans.Service
	CategoriesService categories.Service
	ProductsService   products.Service
	OrdersService     orders.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	// A typed nil would defeat the middleware's nil check.
	var rateStore middleware.RateLimiterStore
	if deps.Redis != nil {
		rateStore = deps.Redis
	}

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

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Probes))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, rateStore, logg)).
				Post("/register", controllers.Register(deps.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).
				Post("/login", controllers.Login(deps.AuthService, logg))
		})

		// Public catalog surfaces.
		r.Get("/products", controllers.ListProducts(deps.ProductsService, logg))
		r.Get("/products/{productId}", controllers.GetProduct(deps.ProductsService, logg))
		r.Get("/artisans/{artisanId}", controllers.ArtisanStorefront(deps.ArtisansService, logg))

		// Authenticated surfaces.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Get("/me", controllers.Me(deps.UsersService, logg))
			r.Post("/me/addresses", controllers.AddAddress(deps.UsersService, logg))
			r.Get("/me/addresses", controllers.ListAddresses(deps.UsersService, logg))

			r.Post("/artisans/apply", controllers.ApplyArtisan(deps.ArtisansService, logg))

			// Catalog taxonomy. Reads are open to any signed-in role,
			// writes to admins and artisans.
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", controllers.ListCategories(deps.CategoriesService, logg))
				r.Get("/{categoryId}", controllers.GetCategory(deps.CategoriesService, logg))

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRoles(logg, enums.UserRoleAdmin, enums.UserRoleArtisan))

					r.Post("/", controllers.CreateCategory(deps.CategoriesService, logg))
					r.Patch("/{categoryId}", controllers.UpdateCategory(deps.CategoriesService, logg))
					r.Delete("/{categoryId}", controllers.DeleteCategory(deps.CategoriesService, logg))
				})
			})

			r.Post("/orders", controllers.CreateOrder(deps.OrdersService, logg))
			r.Get("/orders", controllers.ListMyOrders(deps.OrdersService, logg))
			r.Get("/orders/{orderId}", controllers.GetOrder(deps.OrdersService, logg))
			r.Post("/orders/{orderId}/cancel", controllers.CancelOrder(deps.OrdersService, logg))

			// Artisan console.
			r.Route("/artisan", func(r chi.Router) {
				r.Use(middleware.RequireRoles(logg, enums.UserRoleArtisan))

				r.Get("/dashboard", controllers.ArtisanDashboard(deps.ArtisansService, logg))
				r.Patch("/profile", controllers.UpdateArtisanProfile(deps.ArtisansService, logg))
				r.Get("/sales", controllers.ArtisanSales(deps.OrdersService, logg))

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireApprovedArtisan(deps.ArtisanChecker, logg))

					r.Get("/products", controllers.MyProducts(deps.ProductsService, logg))
					r.Post("/products", controllers.CreateProduct(deps.ProductsService, logg))
					r.Patch("/products/{productId}", controllers.UpdateProduct(deps.ProductsService, logg))
					r.Patch("/products/{productId}/status", controllers.UpdateProductStatus(deps.ProductsService, logg))
					r.Post("/products/{productId}/stock/increase", controllers.IncreaseProductStock(deps.ProductsService, logg))
					r.Post("/products/{productId}/stock/decrease", controllers.DecreaseProductStock(deps.ProductsService, logg))
					r.Post("/products/{productId}/images", controllers.UploadProductImage(deps.ProductsService, cfg.Uploads, logg))
					r.Put("/products/{productId}/categories/{categoryId}", controllers.AttachProductCategory(deps.ProductsService, logg))
					r.Delete("/products/{productId}/categories/{categoryId}", controllers.DetachProductCategory(deps.ProductsService, logg))
				})
			})

			// Admin console.
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRoles(logg, enums.UserRoleAdmin))

				r.Get("/users", controllers.AdminListUsers(deps.UsersService, logg))

				r.Get("/artisans/pending", controllers.AdminListPendingArtisans(deps.ArtisansService, logg))
				r.Post("/artisans/{artisanId}/approve", controllers.AdminApproveArtisan(deps.ArtisansService, logg))
				r.Post("/artisans/{artisanId}/reject", controllers.AdminRejectArtisan(deps.ArtisansService, logg))

				r.Patch("/orders/{orderId}/status", controllers.AdminUpdateOrderStatus(deps.OrdersService, logg))
			})
		})
	})

	return r
}
