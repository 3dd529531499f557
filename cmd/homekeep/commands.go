package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/homekeep/backend/config"
	"github.com/homekeep/backend/internal/infrastructure/catalog"
	"github.com/homekeep/backend/internal/infrastructure/database"
	"github.com/homekeep/backend/internal/usecase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runResolve(cmd *cobra.Command, args []string) error {
	quantity, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid quantity %q: %w", args[1], err)
	}

	resolver, err := loadResolver()
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), resolver.ResolvePackage(args[0], quantity, args[2]))
}

func runPrice(cmd *cobra.Command, args []string) error {
	resolver, err := loadResolver()
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), resolver.EstimatedPriceRange(args[0]))
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(contextOf(cmd), timeout)
	defer cancel()

	var listID int64
	if !reconcileAll {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid list ID %q", args[0])
		}
		listID = id
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := database.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	// One-shot process: nothing to cache between calls.
	shopping := usecase.NewShoppingService(store, nil, logger, usecase.ShoppingServiceConfig{
		ReconcileConcurrency: cfg.Reconcile.Concurrency,
	})

	if reconcileAll {
		results, err := shopping.ReconcileAll(ctx)
		if err != nil {
			return err
		}
		logger.Debug("reconciled all lists", zap.Int("count", len(results)))
		return writeJSON(cmd.OutOrStdout(), results)
	}

	result, err := shopping.ReconcileListTotal(ctx, listID)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), result)
}

// loadResolver builds a resolver from --catalog, falling back to the
// configured catalog path and then the built-in tables
func loadResolver() (*usecase.PackageResolver, error) {
	path := catalogPath
	if path == "" {
		cfg, err := config.LoadCatalog()
		if err != nil {
			return nil, err
		}
		path = cfg.Path
	}

	cat, err := catalog.Open(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("catalog loaded", zap.String("path", path))

	return usecase.NewPackageResolver(cat, logger), nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
