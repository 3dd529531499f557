package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/homekeep/backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS shopping_lists (
	id                   BIGSERIAL PRIMARY KEY,
	name                 VARCHAR(255)   NOT NULL,
	total_estimated_cost NUMERIC(12, 2) NOT NULL DEFAULT 0,
	created_at           TIMESTAMPTZ    NOT NULL DEFAULT now(),
	updated_at           TIMESTAMPTZ    NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS shopping_list_items (
	id             BIGSERIAL PRIMARY KEY,
	list_id        BIGINT           NOT NULL REFERENCES shopping_lists(id) ON DELETE CASCADE,
	item_name      VARCHAR(255)     NOT NULL,
	quantity       DOUBLE PRECISION NOT NULL DEFAULT 0,
	unit           VARCHAR(64)      NOT NULL DEFAULT '',
	estimated_cost DOUBLE PRECISION NULL
);

-- Item costs keep full precision like the SQLite store; only totals are cents.
ALTER TABLE shopping_list_items ALTER COLUMN estimated_cost TYPE DOUBLE PRECISION;

CREATE INDEX IF NOT EXISTS idx_shopping_list_items_list_id ON shopping_list_items(list_id);
`

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists shopping lists in PostgreSQL
type Store struct {
	*repository
	pool *pgxpool.Pool
}

// Connect opens a connection pool, verifies it and initializes the schema
func Connect(ctx context.Context, dsn string) (*Store, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{
		repository: &repository{q: pool},
		pool:       pool,
	}, nil
}

// WithinTx runs fn in a transaction. Lists read through the transaction's
// repository are locked with SELECT ... FOR UPDATE until commit.
func (s *Store) WithinTx(ctx context.Context, fn func(repo domain.ShoppingListRepository) error) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return fn(&repository{q: tx, lockLists: true})
	})
}

// Close closes the pool
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// repository implements domain.ShoppingListRepository over a querier
type repository struct {
	q         querier
	lockLists bool
}

func (r *repository) CreateList(ctx context.Context, name string) (*domain.ShoppingList, error) {
	list := &domain.ShoppingList{Name: name}
	err := r.q.QueryRow(ctx,
		`INSERT INTO shopping_lists (name) VALUES ($1)
		 RETURNING id, total_estimated_cost::float8, created_at, updated_at`, name,
	).Scan(&list.ID, &list.TotalEstimatedCost, &list.CreatedAt, &list.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: insert shopping list: %w", domain.ErrStoreFailure, err)
	}
	return list, nil
}

func (r *repository) GetList(ctx context.Context, id int64) (*domain.ShoppingList, error) {
	query := `SELECT id, name, total_estimated_cost::float8, created_at, updated_at
		FROM shopping_lists WHERE id = $1`
	if r.lockLists {
		query += ` FOR UPDATE`
	}

	var list domain.ShoppingList
	err := r.q.QueryRow(ctx, query, id).
		Scan(&list.ID, &list.Name, &list.TotalEstimatedCost, &list.CreatedAt, &list.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrListNotFound
		}
		return nil, fmt.Errorf("%w: get shopping list %d: %w", domain.ErrStoreFailure, id, err)
	}
	return &list, nil
}

func (r *repository) Lists(ctx context.Context) ([]domain.ShoppingList, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, name, total_estimated_cost::float8, created_at, updated_at
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
	rows, err := r.q.Query(ctx,
		`SELECT id, list_id, item_name, quantity, unit, estimated_cost::float8
		 FROM shopping_list_items WHERE list_id = $1 ORDER BY id`, listID)
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
	err := r.q.QueryRow(ctx,
		`INSERT INTO shopping_list_items (list_id, item_name, quantity, unit, estimated_cost)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		item.ListID, item.ItemName, item.Quantity, item.Unit, item.EstimatedCost,
	).Scan(&item.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return domain.ErrListNotFound
		}
		return fmt.Errorf("%w: insert item: %w", domain.ErrStoreFailure, err)
	}
	return nil
}

func (r *repository) UpdateItemCost(ctx context.Context, itemID int64, cost *float64) (*domain.ShoppingListItem, error) {
	row := r.q.QueryRow(ctx,
		`UPDATE shopping_list_items SET estimated_cost = $1 WHERE id = $2
		 RETURNING id, list_id, item_name, quantity, unit, estimated_cost::float8`,
		cost, itemID)

	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	return item, err
}

func (r *repository) DeleteItem(ctx context.Context, itemID int64) (*domain.ShoppingListItem, error) {
	row := r.q.QueryRow(ctx,
		`DELETE FROM shopping_list_items WHERE id = $1
		 RETURNING id, list_id, item_name, quantity, unit, estimated_cost::float8`, itemID)

	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	return item, err
}

func (r *repository) UpdateListTotal(ctx context.Context, listID int64, total float64) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE shopping_lists SET total_estimated_cost = $1, updated_at = now() WHERE id = $2`,
		total, listID)
	if err != nil {
		return fmt.Errorf("%w: update total for %d: %w", domain.ErrStoreFailure, listID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListNotFound
	}
	return nil
}

// scanItem reads an item row; pgx.ErrNoRows is returned unwrapped
func scanItem(row pgx.Row) (*domain.ShoppingListItem, error) {
	var item domain.ShoppingListItem
	var cost *float64
	if err := row.Scan(&item.ID, &item.ListID, &item.ItemName, &item.Quantity, &item.Unit, &cost); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: scan item: %w", domain.ErrStoreFailure, err)
	}
	item.EstimatedCost = domain.ParseCost(cost)
	return &item, nil
}
