package usecase

import (
	"fmt"
	"strconv"

	"github.com/homekeep/backend/internal/domain"
	"go.uber.org/zap"
)

// PackageTables is the source of package rules and price entries
type PackageTables interface {
	PackageRules() []domain.PackageRule
	PriceEntries() []domain.PriceEntry
}

// PackageResolver maps recipe quantities to store package sizes and price estimates.
// Safe for concurrent use; its tables are fixed at construction.
type PackageResolver struct {
	packages       map[string][]domain.PackageOption
	prices         map[string]domain.PriceRange
	packageMatcher *nameMatcher
	priceMatcher   *nameMatcher
	logger         *zap.Logger
}

// NewPackageResolver indexes the given tables for lookup
func NewPackageResolver(tables PackageTables, logger *zap.Logger) *PackageResolver {
	if logger == nil {
		logger = zap.NewNop()
	}

	rules := tables.PackageRules()
	packages := make(map[string][]domain.PackageOption, len(rules))
	ruleNames := make([]string, 0, len(rules))
	for _, rule := range rules {
		key := domain.NormalizeName(rule.Ingredient)
		if _, dup := packages[key]; dup || len(rule.Options) == 0 {
			continue
		}
		packages[key] = rule.Options
		ruleNames = append(ruleNames, key)
	}

	entries := tables.PriceEntries()
	prices := make(map[string]domain.PriceRange, len(entries))
	priceNames := make([]string, 0, len(entries))
	for _, entry := range entries {
		key := domain.NormalizeName(entry.Ingredient)
		if _, dup := prices[key]; dup {
			continue
		}
		prices[key] = entry.Range
		priceNames = append(priceNames, key)
	}

	return &PackageResolver{
		packages:       packages,
		prices:         prices,
		packageMatcher: newNameMatcher(ruleNames),
		priceMatcher:   newNameMatcher(priceNames),
		logger:         logger,
	}
}

// ResolvePackage translates a recipe quantity into the default retail package
// for the ingredient. Unknown ingredients keep the recipe quantity and unit.
func (r *PackageResolver) ResolvePackage(ingredient string, quantity float64, unit string) domain.ResolvedPackage {
	qty := formatQuantity(quantity)
	result := domain.ResolvedPackage{
		PackageSize:      qty,
		PackageUnit:      unit,
		OriginalQuantity: fmt.Sprintf("%s %s", qty, unit),
	}

	key, ok := r.packageMatcher.match(ingredient)
	if !ok {
		r.logger.Debug("no package rule", zap.String("ingredient", ingredient))
		return result
	}

	option := r.packages[key][0]
	result.PackageSize = option.Size
	result.PackageUnit = option.Unit
	result.Notes = option.Notes
	result.MatchedIngredient = key

	r.logger.Debug("resolved package",
		zap.String("ingredient", ingredient),
		zap.String("rule", key),
		zap.String("package", option.Size+" "+option.Unit))

	return result
}

// PackageOptions lists every known package for the ingredient, default first
func (r *PackageResolver) PackageOptions(ingredient string) ([]domain.PackageOption, bool) {
	key, ok := r.packageMatcher.match(ingredient)
	if !ok {
		return nil, false
	}
	return append([]domain.PackageOption(nil), r.packages[key]...), true
}

// EstimatedPriceRange returns the shelf price range for the ingredient,
// or domain.DefaultPriceRange when nothing matches
func (r *PackageResolver) EstimatedPriceRange(ingredient string) domain.PriceRange {
	key, ok := r.priceMatcher.match(ingredient)
	if !ok {
		return domain.DefaultPriceRange
	}
	return r.prices[key]
}

// formatQuantity renders a quantity with the fewest digits that round-trip (0.5, 3, 1.25)
func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
