package corpus

import "github.com/bobmcallan/metricsref/internal/models"

// Section headings emitted by seed expansion, in emission order.
const (
	HeadingDefinition = "Definition"
	HeadingFormula    = "Formula"
	HeadingExample    = "Example"
	HeadingHowToUse   = "How to use it"
	HeadingMistakes   = "Common mistakes"
)

// TermDefaults supplies values for seed fields a collection leaves unset.
type TermDefaults struct {
	Category  models.Category
	UpdatedAt string
}

// ExpandSeed builds the canonical term for a seed. The section layout is fixed:
// Definition, Formula, Example, How to use it, Common mistakes. Optional
// sections whose source is empty are skipped.
func ExpandSeed(seed models.SeedTerm, defaults TermDefaults) models.GlossaryTerm {
	term := models.GlossaryTerm{
		Slug:                   seed.Slug,
		Title:                  seed.Title,
		Description:            seed.Description,
		Category:               seed.Category,
		UpdatedAt:              seed.UpdatedAt,
		FAQs:                   copyFAQs(seed.FAQs),
		RelatedGuideSlugs:      copyStrings(seed.RelatedGuideSlugs),
		RelatedCalculatorSlugs: copyStrings(seed.RelatedCalculatorSlugs),
	}
	if term.Category == "" {
		term.Category = defaults.Category
	}
	if term.UpdatedAt == "" {
		term.UpdatedAt = defaults.UpdatedAt
	}

	sections := []models.Block{
		models.Heading(models.HeadingH2, HeadingDefinition),
		models.Paragraph(seed.Description),
	}
	if seed.Formula != "" {
		sections = append(sections,
			models.Heading(models.HeadingH2, HeadingFormula),
			models.Paragraph(seed.Formula),
		)
	}
	if seed.Example != "" {
		sections = append(sections,
			models.Heading(models.HeadingH2, HeadingExample),
			models.Paragraph(seed.Example),
		)
	}
	if len(seed.Bullets) > 0 {
		sections = append(sections,
			models.Heading(models.HeadingH2, HeadingHowToUse),
			models.Bullets(seed.Bullets...),
		)
	}
	if len(seed.Mistakes) > 0 {
		sections = append(sections,
			models.Heading(models.HeadingH2, HeadingMistakes),
			models.Bullets(seed.Mistakes...),
		)
	}
	term.Sections = sections

	return term
}

func copyStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return append([]string(nil), s...)
}

func copyFAQs(f []models.FAQ) []models.FAQ {
	if len(f) == 0 {
		return nil
	}
	return append([]models.FAQ(nil), f...)
}
