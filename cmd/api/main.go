package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jithuth/roneywo/api/routes"
	"github.com/jithuth/roneywo/internal/admins"
	"github.com/jithuth/roneywo/internal/advisor"
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
	"github.com/jithuth/roneywo/pkg/metrics"
	"github.com/jithuth/roneywo/pkg/migrate"
	"github.com/jithuth/roneywo/pkg/redis"
	"github.com/jithuth/roneywo/pkg/storage/bucket"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "unlock-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "unlock-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	storageClient, err := bucket.NewClient(cfg.Storage)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap storage client", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	orderMetrics := metrics.NewOrderMetrics(registry)
	advisorMetrics := metrics.NewAdvisorMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())

	usersService, err := users.NewService(users.ServiceParams{Repo: usersRepo, Logger: logg})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	adminsService, err := admins.NewService(admins.ServiceParams{
		Repo:           admins.NewRepository(dbClient.DB()),
		Users:          usersRepo,
		BootstrapEmail: cfg.Admin.BootstrapEmail,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create admins service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repo:   catalog.NewRepository(dbClient.DB()),
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	walletsService, err := wallets.NewService(wallets.ServiceParams{
		Repo:   wallets.NewRepository(dbClient.DB()),
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wallets service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:    orders.NewRepository(dbClient.DB()),
		Tx:      dbClient,
		Gate:    adminsService,
		Metrics: orderMetrics,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	authService, err := internalauth.NewService(internalauth.ServiceParams{
		Users:    usersRepo,
		Sessions: sessionManager,
		JWT:      cfg.JWT,
		Password: cfg.Password,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	draftStore, err := wizard.NewStore(redisClient, cfg.Wizard.DraftTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create draft store", err)
		os.Exit(1)
	}

	wizardService, err := wizard.NewService(wizard.ServiceParams{
		Store:    draftStore,
		Advisor:  advisor.NewClient(cfg.Advisor, advisorMetrics, logg),
		Wallets:  walletsService,
		Orders:   ordersService,
		Users:    usersService,
		Uploader: storageClient,
		Config:   cfg.Wizard,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wizard service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting unlock api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			Storage:        storageClient,
			Sessions:       sessionManager,
			Registry:       registry,
			AuthService:    authService,
			UsersService:   usersService,
			AdminsService:  adminsService,
			CatalogService: catalogService,
			WalletsService: walletsService,
			OrdersService:  ordersService,
			WizardService:  wizardService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
