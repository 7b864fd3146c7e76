// Command seeder loads the development data set into the configured
// store, or wipes it with -d.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/autopro/internal/config"
	"github.com/iliyamo/autopro/internal/database"
	"github.com/iliyamo/autopro/internal/logging"
	"github.com/iliyamo/autopro/internal/seed"
)

func main() {
	destroy := flag.Bool("d", false, "destroy all data instead of importing")
	flag.Parse()

	cfg := config.Load()
	flush, err := logging.Setup(cfg)
	if err != nil {
		log.Fatalf("logger setup: %v", err)
	}
	defer flush()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	stores, err := database.OpenStores(ctx, cfg)
	if err != nil {
		zap.L().Fatal("open storage", zap.Error(err))
	}
	defer stores.Close()

	if *destroy {
		if err := seed.Destroy(ctx, stores); err != nil {
			zap.L().Fatal("destroy data", zap.Error(err))
		}
		zap.L().Info("data destroyed")
		return
	}

	data, err := seed.Default()
	if err != nil {
		zap.L().Fatal("load seed data", zap.Error(err))
	}
	if err := seed.Import(ctx, stores, data, cfg.BcryptCost); err != nil {
		zap.L().Fatal("import data", zap.Error(err))
	}
}
