package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/homekeep/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ShoppingServiceConfig holds configuration for the shopping service
type ShoppingServiceConfig struct {
	SummaryTTL           time.Duration
	ReconcileConcurrency int
}

// ShoppingService manages shopping lists and keeps their cached totals honest
type ShoppingService struct {
	store       domain.ShoppingListStore
	cache       domain.CacheRepository
	logger      *zap.Logger
	summaryTTL  time.Duration
	concurrency int

	// generations counts invalidations per list so a summary read before a
	// mutation is never cached after it
	genMu       sync.Mutex
	generations map[int64]uint64
}

// NewShoppingService creates a new shopping service with dependencies
func NewShoppingService(
	store domain.ShoppingListStore,
	cache domain.CacheRepository,
	logger *zap.Logger,
	config ShoppingServiceConfig,
) *ShoppingService {
	if logger == nil {
		logger = zap.NewNop()
	}

	ttl := config.SummaryTTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}

	concurrency := config.ReconcileConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	return &ShoppingService{
		store:       store,
		cache:       cache,
		logger:      logger,
		summaryTTL:  ttl,
		concurrency: concurrency,
		generations: make(map[int64]uint64),
	}
}

// CreateList creates an empty shopping list
func (s *ShoppingService) CreateList(ctx context.Context, request *domain.CreateListRequest) (*domain.ShoppingList, error) {
	if request == nil || strings.TrimSpace(request.Name) == "" {
		return nil, domain.ErrInvalidRequest
	}

	list, err := s.store.CreateList(ctx, strings.TrimSpace(request.Name))
	if err != nil {
		return nil, err
	}

	s.logger.Info("created shopping list", zap.Int64("list_id", list.ID), zap.String("name", list.Name))
	return list, nil
}

// Lists returns every shopping list
func (s *ShoppingService) Lists(ctx context.Context) ([]domain.ShoppingList, error) {
	return s.store.Lists(ctx)
}

// GetListSummary returns a list with its items and computed total.
// Flow: check cache -> read store -> compute -> cache -> return
func (s *ShoppingService) GetListSummary(ctx context.Context, listID int64) (*domain.ListSummary, error) {
	key := summaryCacheKey(listID)

	if s.cache != nil {
		var cached domain.ListSummary
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	gen := s.generation(listID)

	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}

	items, err := s.store.ListItems(ctx, listID)
	if err != nil {
		return nil, err
	}

	total := ComputeTotal(items)
	summary := &domain.ListSummary{
		List:          *list,
		Items:         items,
		ComputedTotal: total,
		InSync:        RoundCents(list.TotalEstimatedCost) == total,
	}

	s.cacheSummary(ctx, listID, gen, summary)
	return summary, nil
}

// AddItem appends an item to a list. The list total is left as is until the
// next reconciliation.
func (s *ShoppingService) AddItem(ctx context.Context, listID int64, request *domain.AddItemRequest) (*domain.ShoppingListItem, error) {
	if request == nil || strings.TrimSpace(request.ItemName) == "" || request.Quantity < 0 {
		return nil, domain.ErrInvalidRequest
	}

	item := &domain.ShoppingListItem{
		ListID:        listID,
		ItemName:      strings.TrimSpace(request.ItemName),
		Quantity:      request.Quantity,
		Unit:          strings.TrimSpace(request.Unit),
		EstimatedCost: domain.ParseCost(request.EstimatedCost),
	}

	if err := s.store.AddItem(ctx, item); err != nil {
		return nil, err
	}

	s.invalidate(ctx, listID)
	return item, nil
}

// UpdateItemCost sets or clears an item's estimated cost
func (s *ShoppingService) UpdateItemCost(ctx context.Context, itemID int64, request *domain.UpdateItemCostRequest) (*domain.ShoppingListItem, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}

	item, err := s.store.UpdateItemCost(ctx, itemID, domain.ParseCost(request.EstimatedCost))
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, item.ListID)
	return item, nil
}

// DeleteItem removes an item from its list
func (s *ShoppingService) DeleteItem(ctx context.Context, itemID int64) error {
	item, err := s.store.DeleteItem(ctx, itemID)
	if err != nil {
		return err
	}

	s.invalidate(ctx, item.ListID)
	return nil
}

// ReconcileListTotal recomputes a list's total from its items and overwrites
// the stored value. The read and write share one transaction.
func (s *ShoppingService) ReconcileListTotal(ctx context.Context, listID int64) (*domain.ReconcileResult, error) {
	var result domain.ReconcileResult

	err := s.store.WithinTx(ctx, func(repo domain.ShoppingListRepository) error {
		list, err := repo.GetList(ctx, listID)
		if err != nil {
			return err
		}

		items, err := repo.ListItems(ctx, listID)
		if err != nil {
			return err
		}

		total := ComputeTotal(items)
		if err := repo.UpdateListTotal(ctx, listID, total); err != nil {
			return err
		}

		result = domain.ReconcileResult{
			ListID:        listID,
			ItemCount:     len(items),
			PreviousTotal: list.TotalEstimatedCost,
			NewTotal:      total,
			Updated:       true,
			Changed:       RoundCents(list.TotalEstimatedCost) != total,
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrListNotFound) {
			s.logger.Error("reconcile failed", zap.Int64("list_id", listID), zap.Error(err))
		}
		return nil, err
	}

	s.invalidate(ctx, listID)

	s.logger.Info("reconciled list total",
		zap.Int64("list_id", listID),
		zap.Int("items", result.ItemCount),
		zap.Float64("previous_total", result.PreviousTotal),
		zap.Float64("new_total", result.NewTotal),
		zap.Bool("changed", result.Changed))

	return &result, nil
}

// ReconcileAll reconciles every list, a bounded number at a time.
// Results follow the order of the stored lists.
func (s *ShoppingService) ReconcileAll(ctx context.Context) ([]domain.ReconcileResult, error) {
	lists, err := s.store.Lists(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]domain.ReconcileResult, len(lists))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, list := range lists {
		g.Go(func() error {
			res, err := s.ReconcileListTotal(gctx, list.ID)
			if err != nil {
				return fmt.Errorf("list %d: %w", list.ID, err)
			}
			results[i] = *res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// cacheSummary stores a summary unless the list was invalidated after gen
// was taken. The check and the write happen under genMu, and invalidate bumps
// the generation before deleting, so a stale summary cannot outlive a mutation.
func (s *ShoppingService) cacheSummary(ctx context.Context, listID int64, gen uint64, summary *domain.ListSummary) {
	if s.cache == nil {
		return
	}

	s.genMu.Lock()
	defer s.genMu.Unlock()

	if s.generations[listID] != gen {
		s.logger.Debug("list changed while reading summary, not caching", zap.Int64("list_id", listID))
		return
	}
	if err := s.cache.Set(ctx, summaryCacheKey(listID), summary, s.summaryTTL); err != nil {
		s.logger.Warn("failed to cache list summary", zap.Int64("list_id", listID), zap.Error(err))
	}
}

func (s *ShoppingService) generation(listID int64) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[listID]
}

// invalidate drops a cached summary; failures only cost freshness
func (s *ShoppingService) invalidate(ctx context.Context, listID int64) {
	s.genMu.Lock()
	s.generations[listID]++
	s.genMu.Unlock()

	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, summaryCacheKey(listID)); err != nil {
		s.logger.Warn("failed to invalidate list summary", zap.Int64("list_id", listID), zap.Error(err))
	}
}

// summaryCacheKey formats the cache key for a list summary.
// Format: "shopping:list:{id}"
func summaryCacheKey(listID int64) string {
	return fmt.Sprintf("shopping:list:%d", listID)
}
