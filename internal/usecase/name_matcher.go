package usecase

import (
	"sort"
	"strings"

	"github.com/homekeep/backend/internal/domain"
)

// nameMatcher finds the table key that best fits a free-text ingredient name.
//
// Precedence:
//  1. exact match on the normalized name
//  2. keys contained in the name, longest first ("dark brown sugar" -> "brown sugar" over "sugar")
//  3. keys containing the name, shortest first ("oil" -> "olive oil" over "vegetable oil")
//  4. ties broken by lexicographic key order
//
// Blank names never match.
type nameMatcher struct {
	keys  []string // sorted
	exact map[string]bool
}

func newNameMatcher(names []string) *nameMatcher {
	m := &nameMatcher{
		keys:  make([]string, 0, len(names)),
		exact: make(map[string]bool, len(names)),
	}
	for _, name := range names {
		key := domain.NormalizeName(name)
		if key == "" || m.exact[key] {
			continue
		}
		m.exact[key] = true
		m.keys = append(m.keys, key)
	}
	sort.Strings(m.keys)
	return m
}

// match returns the matched key and whether anything matched
func (m *nameMatcher) match(name string) (string, bool) {
	normalized := domain.NormalizeName(name)
	if normalized == "" {
		return "", false
	}

	if m.exact[normalized] {
		return normalized, true
	}

	var contained, containing string
	for _, key := range m.keys {
		switch {
		case strings.Contains(normalized, key):
			// keys are sorted, so a strictly longer key is required to replace
			if len(key) > len(contained) {
				contained = key
			}
		case strings.Contains(key, normalized):
			if containing == "" || len(key) < len(containing) {
				containing = key
			}
		}
	}

	if contained != "" {
		return contained, true
	}
	if containing != "" {
		return containing, true
	}
	return "", false
}
