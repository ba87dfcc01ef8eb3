// Package corpus compiles authored term and guide collections into an
// immutable, slug-indexed corpus and validates its cross-references.
package corpus

import (
	"errors"
	"fmt"

	"github.com/bobmcallan/metricsref/internal/models"
)

// Corpus is the merged, slug-indexed set of terms and guides. It is never
// modified after Build returns, so it can be shared between goroutines.
// Records returned from it share slices with the corpus and must be treated
// as read-only.
type Corpus struct {
	terms      []models.GlossaryTerm
	termIndex  map[string]int
	termSource map[string]string

	guides      []models.Guide
	guideIndex  map[string]int
	guideSource map[string]string

	duplicates []*models.Defect
}

// Build expands and merges term collections and guide collections in the
// order given. Records missing a required field fail the build; all such
// failures are returned together.
//
// A slug seen more than once is resolved last-write-wins: the later record
// takes the earlier record's position and a duplicate-slug defect is
// recorded for every overridden occurrence.
func Build(termCollections []models.TermCollection, guideCollections []models.GuideCollection) (*Corpus, error) {
	c := &Corpus{
		termIndex:   make(map[string]int),
		termSource:  make(map[string]string),
		guideIndex:  make(map[string]int),
		guideSource: make(map[string]string),
	}

	var errs []error
	for _, tc := range termCollections {
		defaults := TermDefaults{Category: tc.DefaultCategory, UpdatedAt: tc.DefaultUpdatedAt}
		for i, seed := range tc.Terms {
			if err := seed.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("term collection %s, entry %d: %w", tc.Name, i, err))
				continue
			}
			c.addTerm(tc.Name, ExpandSeed(seed, defaults))
		}
	}

	for _, gc := range guideCollections {
		for i, g := range gc.Guides {
			if err := g.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("guide collection %s, entry %d: %w", gc.Name, i, err))
				continue
			}
			c.addGuide(gc.Name, g)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

func (c *Corpus) addTerm(collection string, term models.GlossaryTerm) {
	if idx, ok := c.termIndex[term.Slug]; ok {
		c.duplicates = append(c.duplicates, duplicateDefect("term", term.Slug, c.termSource[term.Slug], collection))
		c.terms[idx] = term
		c.termSource[term.Slug] = collection
		return
	}
	c.termIndex[term.Slug] = len(c.terms)
	c.termSource[term.Slug] = collection
	c.terms = append(c.terms, term)
}

func (c *Corpus) addGuide(collection string, guide models.Guide) {
	if idx, ok := c.guideIndex[guide.Slug]; ok {
		c.duplicates = append(c.duplicates, duplicateDefect("guide", guide.Slug, c.guideSource[guide.Slug], collection))
		c.guides[idx] = guide
		c.guideSource[guide.Slug] = collection
		return
	}
	c.guideIndex[guide.Slug] = len(c.guides)
	c.guideSource[guide.Slug] = collection
	c.guides = append(c.guides, guide)
}

func duplicateDefect(kind, slug, previous, winner string) *models.Defect {
	return &models.Defect{
		Kind:    models.ErrDuplicateSlug,
		Source:  slug,
		Field:   "slug",
		Message: fmt.Sprintf("%s from collection %q overridden by collection %q", kind, previous, winner),
	}
}

// Terms returns all terms in collection order, then item order.
func (c *Corpus) Terms() []models.GlossaryTerm {
	return append([]models.GlossaryTerm(nil), c.terms...)
}

// Guides returns all guides in collection order, then item order.
func (c *Corpus) Guides() []models.Guide {
	return append([]models.Guide(nil), c.guides...)
}

// Term looks up a term by slug.
func (c *Corpus) Term(slug string) (models.GlossaryTerm, bool) {
	idx, ok := c.termIndex[slug]
	if !ok {
		return models.GlossaryTerm{}, false
	}
	return c.terms[idx], true
}

// Guide looks up a guide by slug.
func (c *Corpus) Guide(slug string) (models.Guide, bool) {
	idx, ok := c.guideIndex[slug]
	if !ok {
		return models.Guide{}, false
	}
	return c.guides[idx], true
}

// TermCollection returns the name of the collection that supplied the term.
func (c *Corpus) TermCollection(slug string) (string, bool) {
	name, ok := c.termSource[slug]
	return name, ok
}

// GuideCollection returns the name of the collection that supplied the guide.
func (c *Corpus) GuideCollection(slug string) (string, bool) {
	name, ok := c.guideSource[slug]
	return name, ok
}

// Duplicates returns one defect per overridden duplicate slug, in the order found.
func (c *Corpus) Duplicates() []*models.Defect {
	return append([]*models.Defect(nil), c.duplicates...)
}

// TermsByCategory groups terms by category. Known categories come first in
// their canonical order; any unknown category follows in first-seen order.
// Empty groups are omitted.
func (c *Corpus) TermsByCategory() []models.GlossaryCategory {
	groups := make(map[models.Category][]models.GlossaryTerm)
	var unknown []models.Category
	for _, term := range c.terms {
		if _, seen := groups[term.Category]; !seen && models.ValidateCategory(term.Category) != nil {
			unknown = append(unknown, term.Category)
		}
		groups[term.Category] = append(groups[term.Category], term)
	}

	var out []models.GlossaryCategory
	for _, cat := range append(models.Categories(), unknown...) {
		if terms := groups[cat]; len(terms) > 0 {
			out = append(out, models.GlossaryCategory{Name: cat, Terms: terms})
		}
	}
	return out
}
