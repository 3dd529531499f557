package usecase

import (
	"testing"

	"github.com/homekeep/backend/internal/domain"
	"github.com/homekeep/backend/internal/infrastructure/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticTables is an in-memory PackageTables for tests
type staticTables struct {
	rules  []domain.PackageRule
	prices []domain.PriceEntry
}

func (s staticTables) PackageRules() []domain.PackageRule { return s.rules }
func (s staticTables) PriceEntries() []domain.PriceEntry  { return s.prices }

func newDefaultResolver(t *testing.T) *PackageResolver {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return NewPackageResolver(cat, nil)
}

func TestResolvePackage(t *testing.T) {
	resolver := newDefaultResolver(t)

	tests := []struct {
		name       string
		ingredient string
		quantity   float64
		unit       string
		want       domain.ResolvedPackage
	}{
		{
			name:       "exact match uses first option",
			ingredient: "brown sugar",
			quantity:   0.5,
			unit:       "cup",
			want: domain.ResolvedPackage{
				PackageSize:       "1",
				PackageUnit:       "lb bag",
				Notes:             "Light or dark brown sugar",
				OriginalQuantity:  "0.5 cup",
				MatchedIngredient: "brown sugar",
			},
		},
		{
			name:       "case and whitespace are normalized",
			ingredient: "  Brown SUGAR ",
			quantity:   2,
			unit:       "Tbsp",
			want: domain.ResolvedPackage{
				PackageSize:       "1",
				PackageUnit:       "lb bag",
				Notes:             "Light or dark brown sugar",
				OriginalQuantity:  "2 Tbsp",
				MatchedIngredient: "brown sugar",
			},
		},
		{
			name:       "unknown ingredient keeps recipe quantity",
			ingredient: "UNKNOWN_XYZ",
			quantity:   3,
			unit:       "tbsp",
			want: domain.ResolvedPackage{
				PackageSize:      "3",
				PackageUnit:      "tbsp",
				OriginalQuantity: "3 tbsp",
			},
		},
		{
			name:       "name containing a key matches it",
			ingredient: "whole wheat flour",
			quantity:   2.25,
			unit:       "cups",
			want: domain.ResolvedPackage{
				PackageSize:       "5",
				PackageUnit:       "lb bag",
				Notes:             "All-purpose unless the recipe says otherwise",
				OriginalQuantity:  "2.25 cups",
				MatchedIngredient: "flour",
			},
		},
		{
			name:       "longest contained key wins",
			ingredient: "dark brown sugar",
			quantity:   1,
			unit:       "cup",
			want: domain.ResolvedPackage{
				PackageSize:       "1",
				PackageUnit:       "lb bag",
				Notes:             "Light or dark brown sugar",
				OriginalQuantity:  "1 cup",
				MatchedIngredient: "brown sugar",
			},
		},
		{
			name:       "key containing the name matches it",
			ingredient: "egg",
			quantity:   2,
			unit:       "large",
			want: domain.ResolvedPackage{
				PackageSize:       "12",
				PackageUnit:       "count carton",
				OriginalQuantity:  "2 large",
				MatchedIngredient: "eggs",
			},
		},
		{
			name:       "blank name never matches",
			ingredient: "   ",
			quantity:   1,
			unit:       "pinch",
			want: domain.ResolvedPackage{
				PackageSize:      "1",
				PackageUnit:      "pinch",
				OriginalQuantity: "1 pinch",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolver.ResolvePackage(tt.ingredient, tt.quantity, tt.unit)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePackage_FallbackProperty(t *testing.T) {
	resolver := newDefaultResolver(t)

	names := []string{"unobtainium", "zzz", "quinoa-free xylophone"}
	quantities := []float64{0, 0.333, 1, 12, 1.5e3}
	units := []string{"tbsp", "CUP", "", "g"}

	for _, name := range names {
		for _, q := range quantities {
			for _, unit := range units {
				got := resolver.ResolvePackage(name, q, unit)
				assert.Equal(t, unit, got.PackageUnit)
				assert.Equal(t, formatQuantity(q), got.PackageSize)
				assert.Equal(t, formatQuantity(q)+" "+unit, got.OriginalQuantity)
				assert.Empty(t, got.Notes)
			}
		}
	}
}

func TestEstimatedPriceRange(t *testing.T) {
	resolver := newDefaultResolver(t)

	tests := []struct {
		ingredient string
		want       domain.PriceRange
	}{
		{"pecans", domain.PriceRange{Min: 4.99, Max: 6.99}},
		{"Chopped Pecans", domain.PriceRange{Min: 4.99, Max: 6.99}},
		{"unobtainium", domain.PriceRange{Min: 1.00, Max: 3.00}},
		{"", domain.DefaultPriceRange},
	}

	for _, tt := range tests {
		t.Run(tt.ingredient, func(t *testing.T) {
			assert.Equal(t, tt.want, resolver.EstimatedPriceRange(tt.ingredient))
		})
	}
}

func TestPackageOptions(t *testing.T) {
	resolver := newDefaultResolver(t)

	options, ok := resolver.PackageOptions("brown sugar")
	require.True(t, ok)
	require.Len(t, options, 2)
	assert.Equal(t, "1", options[0].Size)
	assert.Equal(t, "2", options[1].Size)

	options[0].Size = "mutated"
	again, _ := resolver.PackageOptions("brown sugar")
	assert.Equal(t, "1", again[0].Size)

	_, ok = resolver.PackageOptions("unobtainium")
	assert.False(t, ok)
}

func TestNameMatcher_Precedence(t *testing.T) {
	// Insertion order is deliberately scrambled; results must not depend on it.
	matcher := newNameMatcher([]string{"sugar", "Olive Oil", "vegetable oil", "brown sugar", "flour", "bread flour", "oil"})

	tests := []struct {
		name    string
		input   string
		want    string
		matched bool
	}{
		{"exact", "sugar", "sugar", true},
		{"exact beats substring", "oil", "oil", true},
		{"longest contained key", "light brown sugar", "brown sugar", true},
		{"longest contained key over shorter", "unbleached bread flour", "bread flour", true},
		{"shortest containing key", "olive", "olive oil", true},
		{"normalized key", "  OLIVE OIL", "olive oil", true},
		{"contained beats containing", "sugars", "sugar", true},
		{"empty", "", "", false},
		{"blank", " \t", "", false},
		{"miss", "saffron", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := matcher.match(tt.input)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNameMatcher_TiesBreakLexicographically(t *testing.T) {
	a := newNameMatcher([]string{"pear", "peas"})
	b := newNameMatcher([]string{"peas", "pear"})

	gotA, _ := a.match("pea")
	gotB, _ := b.match("pea")
	assert.Equal(t, "pear", gotA)
	assert.Equal(t, gotA, gotB)

	c := newNameMatcher([]string{"ham", "egg"})
	got, ok := c.match("ham and egg")
	assert.True(t, ok)
	assert.Equal(t, "egg", got)
}

func TestNewPackageResolver_SkipsDuplicatesAndEmptyRules(t *testing.T) {
	resolver := NewPackageResolver(staticTables{
		rules: []domain.PackageRule{
			{Ingredient: "Rice", Options: []domain.PackageOption{{Size: "2", Unit: "lb bag"}}},
			{Ingredient: "rice", Options: []domain.PackageOption{{Size: "20", Unit: "lb sack"}}},
			{Ingredient: "saffron"},
		},
		prices: []domain.PriceEntry{
			{Ingredient: "rice", Range: domain.PriceRange{Min: 1, Max: 2}},
		},
	}, nil)

	got := resolver.ResolvePackage("rice", 1, "cup")
	assert.Equal(t, "2", got.PackageSize)
	assert.Equal(t, "lb bag", got.PackageUnit)

	got = resolver.ResolvePackage("saffron", 1, "pinch")
	assert.Equal(t, "pinch", got.PackageUnit)
	assert.Empty(t, got.MatchedIngredient)

	assert.Equal(t, domain.PriceRange{Min: 1, Max: 2}, resolver.EstimatedPriceRange("basmati rice"))
}
