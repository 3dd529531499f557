package domain

import "strings"

// PackageOption describes one retail package an ingredient is commonly sold in
type PackageOption struct {
	Size  string `json:"packageSize" yaml:"size"`
	Unit  string `json:"packageUnit" yaml:"unit"`
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// PackageRule maps an ingredient to its purchasable packages.
// The first option is the default.
type PackageRule struct {
	Ingredient string          `json:"ingredient" yaml:"ingredient"`
	Options    []PackageOption `json:"options" yaml:"options"`
}

// PriceRange is an estimated shelf price in currency units
type PriceRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// DefaultPriceRange is used when no price entry matches an ingredient
var DefaultPriceRange = PriceRange{Min: 1.00, Max: 3.00}

// Midpoint returns the center of the range
func (p PriceRange) Midpoint() float64 {
	return (p.Min + p.Max) / 2
}

// PriceEntry maps an ingredient to its estimated price range
type PriceEntry struct {
	Ingredient string     `json:"ingredient" yaml:"ingredient"`
	Range      PriceRange `json:"range" yaml:",inline"`
}

// ResolvedPackage is the result of translating a recipe quantity into
// something that can be bought in a store
type ResolvedPackage struct {
	PackageSize       string `json:"packageSize"`
	PackageUnit       string `json:"packageUnit"`
	Notes             string `json:"notes,omitempty"`
	OriginalQuantity  string `json:"originalQuantity"`
	MatchedIngredient string `json:"matchedIngredient,omitempty"`
}

// ResolveRequest represents a package resolution request
type ResolveRequest struct {
	Ingredient string  `json:"ingredient" binding:"required"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
}

// NormalizeName lowercases an ingredient name and trims surrounding whitespace
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
