package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/homekeep/backend/internal/domain"
	_ "modernc.org/sqlite" // Pure Go sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS shopping_lists (
	id                   INTEGER PRIMARY KEY AUTOINCREMENT,
	name                 TEXT     NOT NULL,
	total_estimated_cost REAL     NOT NULL DEFAULT 0,
	created_at           DATETIME NOT NULL,
	updated_at           DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS shopping_list_items (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	list_id        INTEGER NOT NULL REFERENCES shopping_lists(id) ON DELETE CASCADE,
	item_name      TEXT    NOT NULL,
	quantity       REAL    NOT NULL DEFAULT 0,
	unit           TEXT    NOT NULL DEFAULT '',
	estimated_cost NUMERIC NULL
);

CREATE INDEX IF NOT EXISTS idx_shopping_list_items_list_id ON shopping_list_items(list_id);
`

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Store persists shopping lists in a SQLite database file
type Store struct {
	*repository
	db *sql.DB
}

// Open creates the database file if needed, applies the schema and returns a store.
// Transactions take the write lock up front so concurrent reconciles serialize.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{
		repository: &repository{q: db},
		db:         db,
	}, nil
}

// DB exposes the underlying handle for maintenance scripts and tests
func (s *Store) DB() *sql.DB {
	return s.db
}

// WithinTx runs fn in a transaction, committing on success and rolling back on error
func (s *Store) WithinTx(ctx context.Context, fn func(repo domain.ShoppingListRepository) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", domain.ErrStoreFailure, err)
	}

	if err := fn(&repository{q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit transaction: %w", domain.ErrStoreFailure, err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// repository implements domain.ShoppingListRepository over a querier
type repository struct {
	q querier
}

func (r *repository) CreateList(ctx context.Context, name string) (*domain.ShoppingList, error) {
	now := time.Now().UTC()
	list := &domain.ShoppingList{Name: name, CreatedAt: now, UpdatedAt: now}

	err := r.q.QueryRowContext(ctx,
		`INSERT INTO shopping_lists (name, total_estimated_cost, created_at, updated_at)
		 VALUES (?, 0, ?, ?) RETURNING id`,
		name, now, now,
	).Scan(&list.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: insert shopping list: %w", domain.ErrStoreFailure, err)
	}

	return list, nil
}

func (r *repository) GetList(ctx context.Context, id int64) (*domain.ShoppingList, error) {
	var list domain.ShoppingList
	err := r.q.QueryRowContext(ctx,
		`SELECT id, name, total_estimated_cost, created_at, updated_at
		 FROM shopping_lists WHERE id = ?`, id,
	).Scan(&list.ID, &list.Name, &list.TotalEstimatedCost, &list.CreatedAt, &list.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrListNotFound
		}
		return nil, fmt.Errorf("%w: get shopping list %d: %w", domain.ErrStoreFailure, id, err)
	}

	return &list, nil
}

func (r *repository) Lists(ctx context.Context) ([]domain.ShoppingList, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, name, total_estimated_cost, created_at, updated_at
		 FROM shopping_lists ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: list shopping lists: %w", domain.ErrStoreFailure, err)
	}
	defer rows.Close()

	lists := []domain.ShoppingList{}
	for rows.Next() {
		var list domain.ShoppingList
		if err := rows.Scan(&list.ID, &list.Name, &list.TotalEstimatedCost, &list.CreatedAt, &list.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan shopping list: %w", domain.ErrStoreFailure, err)
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list shopping lists: %w", domain.ErrStoreFailure, err)
	}

	return lists, nil
}

func (r *repository) ListItems(ctx context.Context, listID int64) ([]domain.ShoppingListItem, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, list_id, item_name, quantity, unit, estimated_cost
		 FROM shopping_list_items WHERE list_id = ? ORDER BY id`, listID)
	if err != nil {
		return nil, fmt.Errorf("%w: list items for %d: %w", domain.ErrStoreFailure, listID, err)
	}
	defer rows.Close()

	items := []domain.ShoppingListItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list items for %d: %w", domain.ErrStoreFailure, listID, err)
	}

	return items, nil
}

func (r *repository) AddItem(ctx context.Context, item *domain.ShoppingListItem) error {
	var exists int
	err := r.q.QueryRowContext(ctx, `SELECT 1 FROM shopping_lists WHERE id = ?`, item.ListID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrListNotFound
		}
		return fmt.Errorf("%w: check shopping list %d: %w", domain.ErrStoreFailure, item.ListID, err)
	}

	err = r.q.QueryRowContext(ctx,
		`INSERT INTO shopping_list_items (list_id, item_name, quantity, unit, estimated_cost)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		item.ListID, item.ItemName, item.Quantity, item.Unit, costArg(item.EstimatedCost),
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("%w: insert item: %w", domain.ErrStoreFailure, err)
	}

	return nil
}

func (r *repository) UpdateItemCost(ctx context.Context, itemID int64, cost *float64) (*domain.ShoppingListItem, error) {
	row := r.q.QueryRowContext(ctx,
		`UPDATE shopping_list_items SET estimated_cost = ? WHERE id = ?
		 RETURNING id, list_id, item_name, quantity, unit, estimated_cost`,
		costArg(cost), itemID)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	return item, err
}

func (r *repository) DeleteItem(ctx context.Context, itemID int64) (*domain.ShoppingListItem, error) {
	row := r.q.QueryRowContext(ctx,
		`DELETE FROM shopping_list_items WHERE id = ?
		 RETURNING id, list_id, item_name, quantity, unit, estimated_cost`, itemID)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	return item, err
}

func (r *repository) UpdateListTotal(ctx context.Context, listID int64, total float64) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE shopping_lists SET total_estimated_cost = ?, updated_at = ? WHERE id = ?`,
		total, time.Now().UTC(), listID)
	if err != nil {
		return fmt.Errorf("%w: update total for %d: %w", domain.ErrStoreFailure, listID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: update total for %d: %w", domain.ErrStoreFailure, listID, err)
	}
	if n == 0 {
		return domain.ErrListNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanItem reads an item row. estimated_cost is untyped in SQLite, so the raw
// value goes through domain.ParseCost; sql.ErrNoRows is returned unwrapped.
func scanItem(row rowScanner) (*domain.ShoppingListItem, error) {
	var item domain.ShoppingListItem
	var rawCost interface{}
	if err := row.Scan(&item.ID, &item.ListID, &item.ItemName, &item.Quantity, &item.Unit, &rawCost); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: scan item: %w", domain.ErrStoreFailure, err)
	}
	item.EstimatedCost = domain.ParseCost(rawCost)
	return &item, nil
}

func costArg(cost *float64) interface{} {
	if cost == nil {
		return nil
	}
	return *cost
}
