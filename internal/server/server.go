// Package server boots the application: config, stores, route table, and
// the HTTP (plus optional gRPC) listeners with graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boofino/boofino/app/controllers"
	"github.com/boofino/boofino/app/guard"
	"github.com/boofino/boofino/app/repositories"
	"github.com/boofino/boofino/app/routes"
	"github.com/boofino/boofino/app/services"
	"github.com/boofino/boofino/config"
	"github.com/boofino/boofino/pkg/cache"
	"github.com/boofino/boofino/pkg/database"
	grpcsrv "github.com/boofino/boofino/pkg/grpc"
	"github.com/boofino/boofino/pkg/logger"
	"github.com/boofino/boofino/pkg/metrics"
	"github.com/boofino/boofino/pkg/middleware"
	"github.com/boofino/boofino/pkg/reqid"
	"github.com/boofino/boofino/pkg/router"
	"github.com/boofino/boofino/pkg/session"
	"github.com/boofino/boofino/pkg/storage"
	"github.com/boofino/boofino/pkg/ws"
)

// Build assembles the router with all middleware and routes on top of open
// connections. Separated from Start so the CLI can print the route table
// and tests can mount the full stack against fakes.
func Build(users repositories.UserStore, deps routes.Deps) *router.Router {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.CORSOrigin())))
	r.Use(middleware.RateLimit(config.RateLimitMax(), config.RateLimitWindow()))
	r.Use(session.Middleware(session.DefaultOptions()))
	r.Use(guard.Resolve(users))

	routes.RegisterAPI(r, deps)
	return r
}

// Start runs the application until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if err := database.Connect(); err != nil {
		return err
	}
	defer database.Disconnect(context.Background())

	// Persist warnings and errors next to the data they describe.
	mongoLogs := logger.NewMongoHandler(database.DB, "app_logs")
	defer mongoLogs.Close()
	logger.SetHandler(logger.NewMultiHandler(logger.L.Handler(), mongoLogs))

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, using in-memory cache", "error", err)
	}

	storage.Connect()

	userRepo := repositories.NewUserRepository(database.DB)
	schoolRepo := repositories.NewSchoolRepository(database.DB)
	discountRepo := repositories.NewDiscountRepository(database.DB)
	orderRepo := repositories.NewOrderRepository(database.DB)
	txRunner := repositories.NewTxRunner(database.Client)

	orderHub := ws.NewHub()
	go orderHub.Run()
	ws.SetCheckOrigin(func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || origin == config.CORSOrigin()
	})
	// Registered here rather than in the route table so repeated Build
	// calls cannot stack duplicate listeners on the global event bus.
	controllers.NewFeedController(orderHub).ListenOrders()

	deps := routes.Deps{
		Auth:     services.NewAuthService(userRepo),
		Users:    services.NewUserService(userRepo),
		Catalog:  services.NewCatalogService(schoolRepo),
		Discount: services.NewDiscountService(discountRepo),
		Checkout: services.NewCheckoutService(userRepo, schoolRepo, orderRepo, txRunner),
		Orders:   services.NewOrderService(orderRepo),
		OrderHub: orderHub,
	}

	r := Build(userRepo, deps)

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if port := config.GRPCPort(); port != "" {
		health := controllers.NewHealthController()
		srv, _, err := grpcsrv.Start(port, health.Probe)
		if err != nil {
			return err
		}
		defer grpcsrv.Stop(srv)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", httpSrv.Addr, "env", config.AppEnv())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error("http shutdown", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}
