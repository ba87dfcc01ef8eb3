package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Category is the closed set of topical categories a term or guide belongs to.
type Category string

const (
	CategorySaaSMetrics Category = "saas-metrics"
	CategoryPaidAds     Category = "paid-ads"
	CategoryFinance     Category = "finance"
)

// Categories returns all valid categories in display order.
func Categories() []Category {
	return []Category{CategorySaaSMetrics, CategoryPaidAds, CategoryFinance}
}

// ValidateCategory returns an error if c is not a known category.
func ValidateCategory(c Category) error {
	for _, known := range Categories() {
		if c == known {
			return nil
		}
	}
	names := make([]string, 0, len(Categories()))
	for _, known := range Categories() {
		names = append(names, string(known))
	}
	return fmt.Errorf("invalid category %q: must be one of %s", c, strings.Join(names, ", "))
}

// DateLayout is the calendar date format used by updated_at fields.
const DateLayout = "2006-01-02"

// ValidateDate returns an error if s is not a YYYY-MM-DD calendar date.
func ValidateDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return nil
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidSlug reports whether s is lowercase, hyphen-separated and URL-safe.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// SeedTerm is the compact authoring shape a glossary term is written in.
// Sections are derived from it, never authored by hand.
type SeedTerm struct {
	Slug                   string   `json:"slug" toml:"slug"`
	Title                  string   `json:"title" toml:"title"`
	Description            string   `json:"description" toml:"description"`
	Category               Category `json:"category,omitempty" toml:"category,omitempty"`
	UpdatedAt              string   `json:"updated_at,omitempty" toml:"updated_at,omitempty"`
	Formula                string   `json:"formula,omitempty" toml:"formula,omitempty"`
	Example                string   `json:"example,omitempty" toml:"example,omitempty"`
	Bullets                []string `json:"bullets,omitempty" toml:"bullets,omitempty"`
	Mistakes               []string `json:"mistakes,omitempty" toml:"mistakes,omitempty"`
	FAQs                   []FAQ    `json:"faqs,omitempty" toml:"faqs,omitempty"`
	RelatedGuideSlugs      []string `json:"related_guide_slugs,omitempty" toml:"related_guide_slugs,omitempty"`
	RelatedCalculatorSlugs []string `json:"related_calculator_slugs,omitempty" toml:"related_calculator_slugs,omitempty"`
}

// Validate reports the first missing required field.
func (s SeedTerm) Validate() error {
	switch {
	case strings.TrimSpace(s.Slug) == "":
		return &Defect{Kind: ErrMissingField, Source: s.Title, Field: "slug", Message: "term seed has no slug"}
	case strings.TrimSpace(s.Title) == "":
		return &Defect{Kind: ErrMissingField, Source: s.Slug, Field: "title", Message: "term seed has no title"}
	case strings.TrimSpace(s.Description) == "":
		return &Defect{Kind: ErrMissingField, Source: s.Slug, Field: "description", Message: "term seed has no description"}
	}
	return nil
}

// GlossaryTerm is the canonical, renderable form of a glossary entry.
type GlossaryTerm struct {
	Slug                   string   `json:"slug"`
	Title                  string   `json:"title"`
	Description            string   `json:"description"`
	Category               Category `json:"category"`
	UpdatedAt              string   `json:"updated_at"`
	Sections               []Block  `json:"sections"`
	FAQs                   []FAQ    `json:"faqs,omitempty"`
	RelatedGuideSlugs      []string `json:"related_guide_slugs,omitempty"`
	RelatedCalculatorSlugs []string `json:"related_calculator_slugs,omitempty"`
}

// TermCollection is one authored file of term seeds sharing defaults.
type TermCollection struct {
	Name             string     `json:"name" toml:"name"`
	DefaultCategory  Category   `json:"default_category" toml:"default_category"`
	DefaultUpdatedAt string     `json:"default_updated_at" toml:"default_updated_at"`
	Terms            []SeedTerm `json:"terms" toml:"terms"`
}

// GlossaryCategory groups terms of one category for index pages.
type GlossaryCategory struct {
	Name  Category       `json:"name"`
	Terms []GlossaryTerm `json:"terms"`
}
