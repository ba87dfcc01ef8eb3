package corpus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/metricsref/internal/models"
)

func seed(slug string, guides ...string) models.SeedTerm {
	return models.SeedTerm{
		Slug:              slug,
		Title:             slug,
		Description:       "About " + slug + ".",
		RelatedGuideSlugs: guides,
	}
}

func guide(slug string, terms ...string) models.Guide {
	return models.Guide{
		Slug:                 slug,
		Title:                slug,
		Description:          "Guide to " + slug,
		Category:             models.CategorySaaSMetrics,
		UpdatedAt:            "2025-05-01",
		Sections:             []models.Block{models.Heading(models.HeadingH2, "Intro"), models.Paragraph("text")},
		RelatedGlossarySlugs: terms,
	}
}

func collection(name string, seeds ...models.SeedTerm) models.TermCollection {
	return models.TermCollection{
		Name:             name,
		DefaultCategory:  models.CategorySaaSMetrics,
		DefaultUpdatedAt: "2025-01-15",
		Terms:            seeds,
	}
}

func TestBuild_PreservesCollectionOrder(t *testing.T) {
	c, err := Build([]models.TermCollection{
		collection("core", seed("mrr"), seed("arr")),
		collection("saas", seed("ltv")),
		collection("finance", seed("burn-rate"), seed("gross-margin")),
	}, []models.GuideCollection{
		{Name: "a", Guides: []models.Guide{guide("g2"), guide("g1")}},
		{Name: "b", Guides: []models.Guide{guide("g3")}},
	})
	require.NoError(t, err)

	var slugs []string
	for _, term := range c.Terms() {
		slugs = append(slugs, term.Slug)
	}
	assert.Equal(t, []string{"mrr", "arr", "ltv", "burn-rate", "gross-margin"}, slugs)

	var guideSlugs []string
	for _, g := range c.Guides() {
		guideSlugs = append(guideSlugs, g.Slug)
	}
	assert.Equal(t, []string{"g2", "g1", "g3"}, guideSlugs)
	assert.Empty(t, c.Duplicates())
}

func TestBuild_RoundTripLookup(t *testing.T) {
	seeds := []models.SeedTerm{seed("mrr", "g1"), seed("arr")}
	guides := []models.Guide{guide("g1", "mrr"), guide("g2")}
	tc := collection("core", seeds...)

	c, err := Build([]models.TermCollection{tc}, []models.GuideCollection{{Name: "guides", Guides: guides}})
	require.NoError(t, err)

	defaults := TermDefaults{Category: tc.DefaultCategory, UpdatedAt: tc.DefaultUpdatedAt}
	for _, s := range seeds {
		got, ok := c.Term(s.Slug)
		require.True(t, ok, "term %s", s.Slug)
		assert.Equal(t, ExpandSeed(s, defaults), got)

		name, ok := c.TermCollection(s.Slug)
		assert.True(t, ok)
		assert.Equal(t, "core", name)
	}
	for _, g := range guides {
		got, ok := c.Guide(g.Slug)
		require.True(t, ok, "guide %s", g.Slug)
		assert.Equal(t, g, got)
	}

	_, ok := c.Term("missing")
	assert.False(t, ok)
	_, ok = c.Guide("missing")
	assert.False(t, ok)
}

func TestBuild_DuplicateAcrossCollections(t *testing.T) {
	first := seed("gross-margin")
	first.Description = "First definition."
	second := seed("gross-margin")
	second.Description = "Second definition."

	c, err := Build([]models.TermCollection{
		collection("finance", seed("burn-rate"), first),
		collection("saas-extra", second, seed("roas")),
	}, nil)
	require.NoError(t, err)

	dups := c.Duplicates()
	require.Len(t, dups, 1, "exactly one duplicate-slug report")
	assert.True(t, errors.Is(dups[0], models.ErrDuplicateSlug))
	assert.Equal(t, "gross-margin", dups[0].Source)
	assert.Contains(t, dups[0].Message, `"finance"`)
	assert.Contains(t, dups[0].Message, `"saas-extra"`)

	// last write wins, at the first occurrence's position
	var slugs []string
	for _, term := range c.Terms() {
		slugs = append(slugs, term.Slug)
	}
	assert.Equal(t, []string{"burn-rate", "gross-margin", "roas"}, slugs)

	got, ok := c.Term("gross-margin")
	require.True(t, ok)
	assert.Equal(t, "Second definition.", got.Description)
	name, _ := c.TermCollection("gross-margin")
	assert.Equal(t, "saas-extra", name)
}

func TestBuild_DuplicateWithinCollection(t *testing.T) {
	c, err := Build([]models.TermCollection{
		collection("core", seed("cac"), seed("cac"), seed("cac")),
	}, nil)
	require.NoError(t, err)

	assert.Len(t, c.Terms(), 1)
	assert.Len(t, c.Duplicates(), 2, "one report per overridden occurrence")
}

func TestBuild_DuplicateGuides(t *testing.T) {
	older := guide("unit-economics")
	newer := guide("unit-economics")
	newer.Title = "Newer"

	c, err := Build(nil, []models.GuideCollection{
		{Name: "a", Guides: []models.Guide{older}},
		{Name: "b", Guides: []models.Guide{newer}},
	})
	require.NoError(t, err)

	require.Len(t, c.Guides(), 1)
	assert.Equal(t, "Newer", c.Guides()[0].Title)
	require.Len(t, c.Duplicates(), 1)
	assert.Contains(t, c.Duplicates()[0].Message, "guide")
}

func TestBuild_SlugUniqueness(t *testing.T) {
	c, err := Build([]models.TermCollection{
		collection("a", seed("x"), seed("y"), seed("x")),
		collection("b", seed("y"), seed("z")),
	}, nil)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, term := range c.Terms() {
		assert.False(t, seen[term.Slug], "slug %s appears twice", term.Slug)
		seen[term.Slug] = true
	}
	assert.Len(t, seen, 3)
}

func TestBuild_RejectsMissingRequiredFields(t *testing.T) {
	_, err := Build([]models.TermCollection{
		collection("core", seed("ok"), models.SeedTerm{Slug: "no-title", Description: "d"}, models.SeedTerm{Title: "No slug", Description: "d"}),
	}, []models.GuideCollection{
		{Name: "guides", Guides: []models.Guide{{Slug: "empty", Title: "Empty"}}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrMissingField))

	msg := err.Error()
	assert.Contains(t, msg, "term collection core, entry 1")
	assert.Contains(t, msg, "term collection core, entry 2")
	assert.Contains(t, msg, "guide collection guides, entry 0")
}

func TestBuild_SectionsNeverEmpty(t *testing.T) {
	c, err := Build([]models.TermCollection{collection("core", seed("a"), seed("b"))}, nil)
	require.NoError(t, err)

	for _, term := range c.Terms() {
		assert.GreaterOrEqual(t, len(term.Sections), 2, "term %s", term.Slug)
	}
}

func TestTermsByCategory(t *testing.T) {
	ads := seed("roas")
	ads.Category = models.CategoryPaidAds
	fin := seed("burn-rate")
	fin.Category = models.CategoryFinance
	odd := seed("quota")
	odd.Category = "sales-ops"

	c, err := Build([]models.TermCollection{
		collection("core", fin, seed("mrr"), ads, odd, seed("arr")),
	}, nil)
	require.NoError(t, err)

	groups := c.TermsByCategory()
	require.Len(t, groups, 4)
	assert.Equal(t, models.CategorySaaSMetrics, groups[0].Name)
	assert.Len(t, groups[0].Terms, 2)
	assert.Equal(t, "mrr", groups[0].Terms[0].Slug)
	assert.Equal(t, models.CategoryPaidAds, groups[1].Name)
	assert.Equal(t, models.CategoryFinance, groups[2].Name)
	assert.Equal(t, models.Category("sales-ops"), groups[3].Name)
}

func TestCorpusAccessorsReturnCopies(t *testing.T) {
	c, err := Build([]models.TermCollection{collection("core", seed("a"))}, nil)
	require.NoError(t, err)

	terms := c.Terms()
	terms[0] = models.GlossaryTerm{Slug: "mutated"}

	got, ok := c.Term("a")
	require.True(t, ok)
	assert.Equal(t, "a", got.Slug)
	assert.Equal(t, "a", c.Terms()[0].Slug)
}
