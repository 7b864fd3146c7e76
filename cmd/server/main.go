package main // Entry point package

import (
	"context"
	"errors"
	"log" // fallback before the zap logger exists
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/iliyamo/autopro/internal/config"   // Internal config loader
	"github.com/iliyamo/autopro/internal/database" // Storage backends
	"github.com/iliyamo/autopro/internal/logging"
	"github.com/iliyamo/autopro/internal/queue"
	"github.com/iliyamo/autopro/internal/router" // Internal router setup
	"github.com/iliyamo/autopro/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config

	flush, err := logging.Setup(cfg)
	if err != nil {
		log.Fatalf("logger setup: %v", err)
	}
	defer flush()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Env,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
		}); err != nil {
			zap.L().Error("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := database.OpenStores(ctx, cfg)
	if err != nil {
		zap.L().Fatal("open storage", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			zap.L().Warn("storage close", zap.Error(err))
		}
	}()

	rdb := config.NewRedisClient() // nil when unavailable; cache and limiter pass through
	if rdb != nil {
		defer rdb.Close()
	}

	var pub service.AppointmentPublisher = service.NopPublisher{}
	if cfg.EventsOn {
		pub = service.NewAMQPPublisher(cfg.RabbitURL)
		go func() {
			if err := queue.StartAppointmentConsumer(ctx, cfg.RabbitURL, queue.DefaultLogPath); err != nil && !errors.Is(err, context.Canceled) {
				zap.L().Error("appointment consumer stopped", zap.Error(err))
			}
		}()
	}

	e := router.New(router.Deps{
		Cfg:       cfg,
		Stores:    stores,
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Publisher: pub,
	})

	addr := ":" + cfg.Port // Address string with port
	go func() {
		zap.L().Info("listening", zap.String("addr", addr), zap.String("db_driver", cfg.DBDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("server shutdown", zap.Error(err))
	}
}
