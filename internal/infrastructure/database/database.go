package database

import (
	"context"
	"fmt"

	"github.com/homekeep/backend/config"
	"github.com/homekeep/backend/internal/domain"
	"github.com/homekeep/backend/internal/infrastructure/postgres"
	"github.com/homekeep/backend/internal/infrastructure/sqlite"
)

// Open returns the shopping list store selected by configuration
func Open(ctx context.Context, cfg config.StoreConfig) (domain.ShoppingListStore, error) {
	switch cfg.Driver {
	case "sqlite":
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "postgres":
		store, err := postgres.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}
