package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jithuth/roneywo/api/controllers"
	"github.com/jithuth/roneywo/api/middleware"
	"github.com/jithuth/roneywo/internal/admins"
	internalauth "github.com/jithuth/roneywo/internal/auth"
	"github.com/jithuth/roneywo/internal/catalog"
	"github.com/jithuth/roneywo/internal/orders"
	"github.com/jithuth/roneywo/internal/users"
	"github.com/jithuth/roneywo/internal/wallets"
	"github.com/jithuth/roneywo/internal/wizard"
	"github.com/jithuth/roneywo/pkg/auth/session"
	"github.com/jithuth/roneywo/pkg/config"
	"github.com/jithuth/roneywo/pkg/db"
	"github.com/jithuth/roneywo/pkg/logger"
	"github.com/jithuth/roneywo/pkg/redis"
	"github.com/jithuth/roneywo/pkg/storage/bucket"
)

// Deps bundles everything the router needs.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Storage  bucket.Pinger
	Sessions session.AccessSessionChecker
	Registry *prometheus.Registry

	AuthService    internalauth.Service
	UsersService   users.Service
	AdminsService  admins.Service
	CatalogService catalog.Service
	WalletsService wallets.Service
	OrdersService  orders.Service
	WizardService  wizard.Service
}

// NewRouter assembles the full HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
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

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readinessDeps(deps)))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog/{kind}", controllers.PublicCatalog(deps.CatalogService, logg))
		r.Get("/wallets", controllers.ListWallets(deps.WalletsService, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
				Post("/login", controllers.Login(deps.AuthService, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
				Post("/register", controllers.Register(deps.AuthService, logg))
			r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).
				Post("/logout", controllers.Logout(deps.AuthService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

			r.Route("/wizard", func(r chi.Router) {
				r.Post("/", controllers.WizardStart(deps.WizardService, logg))
				r.Get("/", controllers.WizardGet(deps.WizardService, logg))
				r.Delete("/", controllers.WizardReset(deps.WizardService, logg))
				r.Put("/device", controllers.WizardSetDevice(deps.WizardService, logg))
				r.Post("/analyze", controllers.WizardAnalyze(deps.WizardService, logg))
				r.Post("/advance", controllers.WizardAdvance(deps.WizardService, logg))
				r.Put("/wallet", controllers.WizardSelectWallet(deps.WizardService, logg))
				r.Post("/submit", controllers.WizardSubmit(deps.WizardService, cfg.Wizard.MaxUploadBytes(), logg))
			})

			r.Get("/orders", controllers.MyOrders(deps.OrdersService, logg))
			r.Get("/orders/{orderId}", controllers.MyOrderDetail(deps.OrdersService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, deps.Sessions, logg),
			middleware.AdminOnly(deps.AdminsService, logg),
		)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrders(deps.OrdersService, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(deps.OrdersService, logg))
			r.Post("/{orderId}/status", controllers.AdminUpdateOrderStatus(deps.OrdersService, logg))
		})

		r.Get("/users", controllers.AdminUsers(deps.UsersService, logg))

		r.Route("/roles", func(r chi.Router) {
			r.Get("/", controllers.AdminRoles(deps.AdminsService, logg))
			r.Post("/", controllers.AdminPromote(deps.AdminsService, logg))
			r.Delete("/{userId}", controllers.AdminRevoke(deps.AdminsService, logg))
		})

		r.Route("/catalog/{kind}", func(r chi.Router) {
			r.Get("/", controllers.AdminCatalogList(deps.CatalogService, logg))
			r.Post("/", controllers.AdminCatalogCreate(deps.CatalogService, logg))
			r.Patch("/{id}", controllers.AdminCatalogUpdate(deps.CatalogService, logg))
			r.Delete("/{id}", controllers.AdminCatalogDelete(deps.CatalogService, logg))
		})
	})

	return r
}

func readinessDeps(deps Deps) map[string]controllers.Pinger {
	checks := map[string]controllers.Pinger{}
	if deps.DB != nil {
		checks["database"] = deps.DB
	}
	if deps.Redis != nil {
		checks["redis"] = deps.Redis
	}
	if deps.Storage != nil {
		checks["storage"] = deps.Storage
	}
	return checks
}
