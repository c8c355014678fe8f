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

	"github.com/punchamoorthee/messops/internal/api"
	"github.com/punchamoorthee/messops/internal/cache"
	"github.com/punchamoorthee/messops/internal/config"
	"github.com/punchamoorthee/messops/internal/logging"
	"github.com/punchamoorthee/messops/internal/service"
	"github.com/punchamoorthee/messops/internal/store"
	"go.uber.org/zap"
)

// collaborators is what both store drivers provide.
type collaborators interface {
	service.StudentDirectory
	service.BookingStore
	service.RateSource
	service.MenuProvider
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("invalid timezone", zap.Error(err))
	}

	ctx := context.Background()

	// Initialize Layers
	var backend collaborators
	switch cfg.StoreDriver {
	case config.DriverMemory:
		mem := store.NewMemory()
		if err := store.SeedDefaults(ctx, mem); err != nil {
			logger.Fatal("seed memory store", zap.Error(err))
		}
		backend = mem
	default:
		pg, err := store.NewStore(ctx, cfg.DBSource, logger)
		if err != nil {
			logger.Fatal("unable to connect to database", zap.Error(err))
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Fatal("schema bootstrap", zap.Error(err))
		}
		backend = pg
	}

	var menu service.MenuProvider = backend
	if cfg.RedisAddr != "" {
		client, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		defer client.Close()
		menu = cache.NewMenuCache(client, backend, cfg.MenuCacheTTL, logger)
	}

	engine := service.NewBookingEngine(backend, backend, service.SystemClock{Location: loc}, logger)
	bulk := service.NewBulkOperator(engine, logger)
	billing := service.NewBillingAggregator(backend, backend, backend, logger)
	handler := api.NewHandler(engine, bulk, billing, menu, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver), zap.String("timezone", loc.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
