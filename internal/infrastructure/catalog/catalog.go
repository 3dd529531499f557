package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/homekeep/backend/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

// Catalog holds the package rules and price entries loaded at startup.
// It is read-only once built.
type Catalog struct {
	packages []domain.PackageRule
	prices   []domain.PriceEntry
}

// document mirrors the YAML layout of a catalog file
type document struct {
	Packages []domain.PackageRule `yaml:"packages"`
	Prices   []domain.PriceEntry  `yaml:"prices"`
}

// Default returns the catalog embedded in the binary
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// Open loads the catalog at path, or the embedded one when path is empty
func Open(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// LoadFile reads a catalog from a YAML file on disk
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()

	return Load(f)
}

// Load decodes and validates a catalog from YAML
func Load(r io.Reader) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}

	if err := validate(&doc); err != nil {
		return nil, err
	}

	return &Catalog{
		packages: doc.Packages,
		prices:   doc.Prices,
	}, nil
}

// PackageRules returns a copy of the package rules in file order
func (c *Catalog) PackageRules() []domain.PackageRule {
	out := make([]domain.PackageRule, len(c.packages))
	for i, rule := range c.packages {
		out[i] = domain.PackageRule{
			Ingredient: rule.Ingredient,
			Options:    append([]domain.PackageOption(nil), rule.Options...),
		}
	}
	return out
}

// PriceEntries returns a copy of the price entries in file order
func (c *Catalog) PriceEntries() []domain.PriceEntry {
	return append([]domain.PriceEntry(nil), c.prices...)
}

func validate(doc *document) error {
	seen := make(map[string]bool, len(doc.Packages))
	for i, rule := range doc.Packages {
		key := domain.NormalizeName(rule.Ingredient)
		if key == "" {
			return fmt.Errorf("%w: package rule %d has no ingredient", domain.ErrInvalidCatalog, i)
		}
		if seen[key] {
			return fmt.Errorf("%w: duplicate package rule for %q", domain.ErrInvalidCatalog, key)
		}
		seen[key] = true

		if len(rule.Options) == 0 {
			return fmt.Errorf("%w: package rule %q has no options", domain.ErrInvalidCatalog, key)
		}
		for _, opt := range rule.Options {
			if opt.Size == "" || opt.Unit == "" {
				return fmt.Errorf("%w: package rule %q has an option without size or unit", domain.ErrInvalidCatalog, key)
			}
		}
	}

	seen = make(map[string]bool, len(doc.Prices))
	for i, entry := range doc.Prices {
		key := domain.NormalizeName(entry.Ingredient)
		if key == "" {
			return fmt.Errorf("%w: price entry %d has no ingredient", domain.ErrInvalidCatalog, i)
		}
		if seen[key] {
			return fmt.Errorf("%w: duplicate price entry for %q", domain.ErrInvalidCatalog, key)
		}
		seen[key] = true

		if entry.Range.Min < 0 || entry.Range.Min > entry.Range.Max {
			return fmt.Errorf("%w: price entry %q has range %.2f-%.2f", domain.ErrInvalidCatalog, key, entry.Range.Min, entry.Range.Max)
		}
	}

	return nil
}
