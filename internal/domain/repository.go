package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are encoded on Set and decoded into dest on Get.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ShoppingListRepository defines row-level access to shopping lists and items
type ShoppingListRepository interface {
	CreateList(ctx context.Context, name string) (*ShoppingList, error)
	GetList(ctx context.Context, id int64) (*ShoppingList, error)
	Lists(ctx context.Context) ([]ShoppingList, error)
	ListItems(ctx context.Context, listID int64) ([]ShoppingListItem, error)
	AddItem(ctx context.Context, item *ShoppingListItem) error
	UpdateItemCost(ctx context.Context, itemID int64, cost *float64) (*ShoppingListItem, error)
	DeleteItem(ctx context.Context, itemID int64) (*ShoppingListItem, error)
	UpdateListTotal(ctx context.Context, listID int64, total float64) error
}

// ShoppingListStore is a repository that can scope work in a transaction.
// Inside WithinTx, GetList locks the list row where the backend supports it.
type ShoppingListStore interface {
	ShoppingListRepository
	WithinTx(ctx context.Context, fn func(repo ShoppingListRepository) error) error
	Close() error
}
