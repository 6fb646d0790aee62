package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logging"
	cartrepo "storefront/internal/repository/cart"
	"storefront/internal/seed"
	"storefront/internal/service/session"
)

func main() {
	sessionID := flag.String("session", "", "seed the cart of this session id instead of the default cart")
	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New("seed", cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	backend, err := db.OpenBackend(ctx, cfg, true)
	if err != nil {
		logger.Fatal("open cart backend", zap.Error(err))
	}
	defer backend.Close()

	key := session.CartKey(cfg.CartStorageKey, *sessionID)
	lines, err := seed.Apply(ctx, cartrepo.NewKV(backend.Store, key))
	if err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}
	logger.Info("seed applied",
		zap.String("backend", backend.Name),
		zap.String("key", key),
		zap.Int("lines", lines))
}
