package corpus

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bobmcallan/metricsref/internal/models"
)

// Report is the outcome of validating a compiled corpus.
type Report struct {
	Terms   int              `json:"terms"`
	Guides  int              `json:"guides"`
	Defects []*models.Defect `json:"defects"`
}

// HasDefects reports whether any defect was found.
func (r *Report) HasDefects() bool {
	return len(r.Defects) > 0
}

// Filter returns the defects of the given kind.
func (r *Report) Filter(kind error) []*models.Defect {
	var out []*models.Defect
	for _, d := range r.Defects {
		if errors.Is(d, kind) {
			out = append(out, d)
		}
	}
	return out
}

// Counts returns the number of defects per kind.
func (r *Report) Counts() map[string]int {
	counts := make(map[string]int)
	for _, d := range r.Defects {
		counts[d.KindName()]++
	}
	return counts
}

// Validate checks every record of c against the content schema, then adds
// duplicate-slug defects and dangling references. All defects are collected;
// validation never stops at the first one.
func Validate(c *Corpus, r *Resolver) *Report {
	if r == nil {
		r = NewResolver(c)
	}
	report := &Report{Terms: len(c.terms), Guides: len(c.guides)}

	for _, term := range c.terms {
		report.Defects = append(report.Defects, validateTerm(term)...)
	}
	for _, guide := range c.guides {
		report.Defects = append(report.Defects, validateGuide(guide)...)
	}
	report.Defects = append(report.Defects, c.duplicates...)
	report.Defects = append(report.Defects, r.ValidateCorpus()...)

	return report
}

func validateTerm(t models.GlossaryTerm) []*models.Defect {
	defects := validateRecord(t.Slug, t.Category, t.UpdatedAt, t.Sections, t.FAQs)
	defects = append(defects, validateSlugList(t.Slug, "related_calculator_slugs", t.RelatedCalculatorSlugs)...)
	return defects
}

func validateGuide(g models.Guide) []*models.Defect {
	defects := validateRecord(g.Slug, g.Category, g.UpdatedAt, g.Sections, g.FAQs)
	defects = append(defects, validateSlugList(g.Slug, "related_calculator_slugs", g.RelatedCalculatorSlugs)...)

	for i, ex := range g.Examples {
		field := fmt.Sprintf("examples[%d]", i)
		if strings.TrimSpace(ex.Label) == "" {
			defects = append(defects, invalid(g.Slug, field, "example has no label"))
		}
		if strings.TrimSpace(ex.CalculatorSlug) == "" {
			defects = append(defects, invalid(g.Slug, field, "example has no calculator slug"))
		}
		seen := make(map[string]bool, len(ex.Params))
		for _, p := range ex.Params {
			if strings.TrimSpace(p.Name) == "" {
				defects = append(defects, invalid(g.Slug, field, "example param has no name"))
				continue
			}
			if seen[p.Name] {
				defects = append(defects, invalid(g.Slug, field, fmt.Sprintf("example param %q repeated", p.Name)))
			}
			seen[p.Name] = true
		}
	}
	return defects
}

func validateRecord(slug string, cat models.Category, updatedAt string, sections []models.Block, faqs []models.FAQ) []*models.Defect {
	var defects []*models.Defect

	if !models.ValidSlug(slug) {
		defects = append(defects, invalid(slug, "slug", "slug must be lowercase and hyphen-separated"))
	}
	if err := models.ValidateCategory(cat); err != nil {
		defects = append(defects, invalid(slug, "category", err.Error()))
	}
	if err := models.ValidateDate(updatedAt); err != nil {
		defects = append(defects, invalid(slug, "updated_at", err.Error()))
	}
	if len(sections) == 0 {
		defects = append(defects, &models.Defect{
			Kind:    models.ErrMissingField,
			Source:  slug,
			Field:   "sections",
			Message: "no sections",
		})
	}
	for i, block := range sections {
		if err := block.Validate(); err != nil {
			defects = append(defects, &models.Defect{
				Kind:    models.ErrMalformedBlock,
				Source:  slug,
				Field:   fmt.Sprintf("sections[%d]", i),
				Message: err.Error(),
			})
		}
	}
	for i, faq := range faqs {
		if strings.TrimSpace(faq.Question) == "" || strings.TrimSpace(faq.Answer) == "" {
			defects = append(defects, invalid(slug, fmt.Sprintf("faqs[%d]", i), "faq needs both a question and an answer"))
		}
	}
	return defects
}

// validateSlugList only rejects blank entries; calculator slugs belong to an
// external namespace.
func validateSlugList(source, field string, slugs []string) []*models.Defect {
	var defects []*models.Defect
	for i, s := range slugs {
		if strings.TrimSpace(s) == "" {
			defects = append(defects, invalid(source, fmt.Sprintf("%s[%d]", field, i), "blank slug"))
		}
	}
	return defects
}

func invalid(source, field, msg string) *models.Defect {
	return &models.Defect{Kind: models.ErrInvalidField, Source: source, Field: field, Message: msg}
}
