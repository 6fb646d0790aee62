package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/logging"
	cartrepo "storefront/internal/repository/cart"
	categoryrepo "storefront/internal/repository/category"
	productrepo "storefront/internal/repository/product"
	tokenrepo "storefront/internal/repository/token"
	cartsvc "storefront/internal/service/cart"
	categorysvc "storefront/internal/service/category"
	productsvc "storefront/internal/service/product"
	"storefront/internal/service/session"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New("api", cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	pricing, err := cfg.Pricing()
	if err != nil {
		logger.Fatal("parse pricing", zap.Error(err))
	}

	ctx := context.Background()
	backend, err := db.OpenBackend(ctx, cfg, true)
	if err != nil {
		logger.Fatal("open cart backend", zap.String("backend", cfg.CartBackend), zap.Error(err))
	}
	defer backend.Close()
	logger.Info("cart backend ready", zap.String("backend", backend.Name))

	productRepo := productrepo.NewHTTP(cfg.CatalogBaseURL, productrepo.NewHTTPClient(cfg.CatalogTimeout()), logger.Named("catalog"))
	productService := productsvc.New(productRepo)
	categoryService := categorysvc.New(categoryrepo.NewStatic())
	sessions := session.New(tokenrepo.NewKV(backend.Store), cfg.SessionTTL())

	registry := session.NewRegistry(func(ctx context.Context, sessionID string) *session.Workspace {
		key := session.CartKey(cfg.CartStorageKey, sessionID)
		sessionLogger := logger.With(zap.String("session", sessionID))
		return &session.Workspace{
			Cart: cartsvc.New(ctx, cartrepo.NewKV(backend.Store, key),
				cartsvc.WithLogger(sessionLogger.Named("cart")),
				cartsvc.WithPricing(pricing),
			),
			Feed: productsvc.NewFetcher(productRepo,
				productsvc.WithPageLimit(cfg.PageLimit),
				productsvc.WithFetcherLogger(sessionLogger.Named("feed")),
			),
		}
	}, session.WithIdleTimeout(cfg.WorkspaceIdle()), session.WithRegistryLogger(logger.Named("sessions")))

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go session.NewJanitor(registry, backend.Store, logger.Named("janitor")).Run(janitorCtx, sweepInterval(registry.IdleTimeout()))

	srv, err := httpserver.New(cfg.HTTPAddr, logger.Named("http"), httpserver.Deps{
		Sessions:    sessions,
		Workspaces:  registry,
		ProductSvc:  productService,
		CategorySvc: categoryService,
		Ready:       backend.Ping,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	stopJanitor()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}

// sweepInterval checks twice per idle period, at most once a minute.
func sweepInterval(idle time.Duration) time.Duration {
	if interval := idle / 2; interval > time.Minute {
		return interval
	}
	return time.Minute
}
