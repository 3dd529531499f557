package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/homekeep/backend/config"
	httpDelivery "github.com/homekeep/backend/internal/delivery/http"
	"github.com/homekeep/backend/internal/infrastructure/cache"
	"github.com/homekeep/backend/internal/infrastructure/catalog"
	"github.com/homekeep/backend/internal/infrastructure/database"
	"github.com/homekeep/backend/internal/logging"
	"github.com/homekeep/backend/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Server.Environment, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting homekeep backend",
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Driver),
		zap.Duration("cache_ttl", cfg.Cache.TTL))

	cat, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	resolver := usecase.NewPackageResolver(cat, logger.Named("resolver"))

	store, err := database.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	memoryCache := cache.NewMemoryCache(0)
	defer memoryCache.Close()

	shopping := usecase.NewShoppingService(store, memoryCache, logger.Named("shopping"), usecase.ShoppingServiceConfig{
		SummaryTTL:           cfg.Cache.TTL,
		ReconcileConcurrency: cfg.Reconcile.Concurrency,
	})

	handler := httpDelivery.NewHandler(resolver, shopping)
	router := httpDelivery.SetupRouter(cfg, handler, logger.Named("http"))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
