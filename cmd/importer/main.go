package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/importer"
	"storefront/internal/logging"
	cartrepo "storefront/internal/repository/cart"
	cartsvc "storefront/internal/service/cart"
	"storefront/internal/service/session"
)

func main() {
	var (
		filePath  string
		sessionID string
	)
	flag.StringVar(&filePath, "file", "", "Path to cart CSV export (id,title,image,price,quantity)")
	flag.StringVar(&sessionID, "session", "", "Session id whose cart receives the lines; empty for the default cart")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New("importer", cfg.LogLevel)
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
		logger.Fatal("open cart backend", zap.Error(err))
	}
	defer backend.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	key := session.CartKey(cfg.CartStorageKey, sessionID)
	cart := cartsvc.New(ctx, cartrepo.NewKV(backend.Store, key),
		cartsvc.WithLogger(logger.Named("cart")),
		cartsvc.WithPricing(pricing),
	)

	start := time.Now()
	count, err := importer.NewCSVImporter(f, cart).Run(ctx)
	if err != nil {
		logger.Fatal("import failed", zap.Int("imported", count), zap.Error(err))
	}

	snap := cart.Snapshot()
	logger.Info("cart imported",
		zap.String("backend", backend.Name),
		zap.String("key", key),
		zap.Int("rows", count),
		zap.Int("lines", len(snap.Lines)),
		zap.Int("itemCount", snap.ItemCount),
		zap.String("total", snap.Total.StringFixed(2)),
		zap.Duration("took", time.Since(start).Truncate(time.Millisecond)))
}
