// Package catalog holds the immutable word-family reference data.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"wordcards/internal/models"
)

//go:embed data/word_families.json
var defaultFamilies []byte

var (
	ErrEmptyCatalog    = errors.New("catalog: no word families")
	ErrInvalidFamily   = errors.New("catalog: invalid word family")
	ErrDuplicateFamily = errors.New("catalog: duplicate family id")
)

// Catalog is a validated, read-only set of word families
type Catalog struct {
	families []models.WordFamily
	byID     map[string]models.WordFamily
}

// New validates families and builds a catalog keeping their order
func New(families []models.WordFamily) (*Catalog, error) {
	if len(families) == 0 {
		return nil, ErrEmptyCatalog
	}

	seen := make(map[string]struct{}, len(families))
	for _, family := range families {
		if family.ID == "" {
			return nil, fmt.Errorf("%w: empty id", ErrInvalidFamily)
		}
		if _, ok := seen[family.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFamily, family.ID)
		}
		seen[family.ID] = struct{}{}

		if len(family.Words) == 0 {
			return nil, fmt.Errorf("%w: %s has no words", ErrInvalidFamily, family.ID)
		}
		texts := family.WordTexts()
		if lo.Contains(texts, "") {
			return nil, fmt.Errorf("%w: %s has an empty word", ErrInvalidFamily, family.ID)
		}
		if dups := lo.FindDuplicates(texts); len(dups) > 0 {
			return nil, fmt.Errorf("%w: %s repeats %v", ErrInvalidFamily, family.ID, dups)
		}
	}

	families = lo.Map(families, func(f models.WordFamily, _ int) models.WordFamily { return f.Clone() })
	return &Catalog{
		families: families,
		byID:     lo.KeyBy(families, func(f models.WordFamily) string { return f.ID }),
	}, nil
}

// Default returns the embedded catalog of the built-in families
func Default() (*Catalog, error) {
	return Parse(defaultFamilies)
}

// Parse decodes a JSON array of word families
func Parse(data []byte) (*Catalog, error) {
	var families []models.WordFamily
	if err := json.Unmarshal(data, &families); err != nil {
		return nil, fmt.Errorf("failed to decode word families: %w", err)
	}
	return New(families)
}

// Families returns a copy of every family in declaration order
func (c *Catalog) Families() []models.WordFamily {
	return lo.Map(c.families, func(f models.WordFamily, _ int) models.WordFamily { return f.Clone() })
}

// Family looks up a family by id and returns a copy of it
func (c *Catalog) Family(id string) (models.WordFamily, bool) {
	family, ok := c.byID[id]
	if !ok {
		return models.WordFamily{}, false
	}
	return family.Clone(), true
}

// WordCount returns the number of words in a family, 0 when unknown
func (c *Catalog) WordCount(id string) int {
	return len(c.byID[id].Words)
}

// HasWord reports whether word belongs to the family
func (c *Catalog) HasWord(id, word string) bool {
	family, ok := c.byID[id]
	return ok && family.HasWord(word)
}

// TotalWords counts words across all families
func (c *Catalog) TotalWords() int {
	return lo.SumBy(c.families, func(f models.WordFamily) int { return len(f.Words) })
}
