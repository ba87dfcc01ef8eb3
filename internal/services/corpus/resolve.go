package corpus

import (
	"fmt"

	"github.com/bobmcallan/metricsref/internal/models"
)

// Resolver follows slug references between terms and guides of a compiled
// corpus. Calculator slugs are external and passed through untouched.
type Resolver struct {
	corpus *Corpus

	// inverse relations: target slug -> indexes of referencing records
	termReferrers  map[string][]int // guide slug -> term indexes
	guideReferrers map[string][]int // term slug -> guide indexes
}

// NewResolver indexes the inverse relations of c.
func NewResolver(c *Corpus) *Resolver {
	r := &Resolver{
		corpus:         c,
		termReferrers:  make(map[string][]int),
		guideReferrers: make(map[string][]int),
	}
	for i, term := range c.terms {
		for _, slug := range uniqueSlugs(term.RelatedGuideSlugs) {
			r.termReferrers[slug] = append(r.termReferrers[slug], i)
		}
	}
	for i, guide := range c.guides {
		for _, slug := range uniqueSlugs(guide.RelatedGlossarySlugs) {
			r.guideReferrers[slug] = append(r.guideReferrers[slug], i)
		}
	}
	return r
}

// ResolveTermRelations returns the guides a term points to, in declaration
// order. Slugs with no matching guide are skipped and reported.
func (r *Resolver) ResolveTermRelations(term models.GlossaryTerm) ([]models.Guide, []*models.Defect) {
	var guides []models.Guide
	var dangling []*models.Defect
	for _, slug := range term.RelatedGuideSlugs {
		guide, ok := r.corpus.Guide(slug)
		if !ok {
			dangling = append(dangling, danglingDefect(term.Slug, "related_guide_slugs", "guide", slug))
			continue
		}
		guides = append(guides, guide)
	}
	return guides, dangling
}

// ResolveGuideRelations returns the terms a guide points to, in declaration
// order. Slugs with no matching term are skipped and reported.
func (r *Resolver) ResolveGuideRelations(guide models.Guide) ([]models.GlossaryTerm, []*models.Defect) {
	var terms []models.GlossaryTerm
	var dangling []*models.Defect
	for _, slug := range guide.RelatedGlossarySlugs {
		term, ok := r.corpus.Term(slug)
		if !ok {
			dangling = append(dangling, danglingDefect(guide.Slug, "related_glossary_slugs", "term", slug))
			continue
		}
		terms = append(terms, term)
	}
	return terms, dangling
}

// ValidateCorpus returns every dangling reference in the corpus: terms first,
// then guides, each in corpus order and declaration order.
func (r *Resolver) ValidateCorpus() []*models.Defect {
	var dangling []*models.Defect
	for _, term := range r.corpus.terms {
		_, d := r.ResolveTermRelations(term)
		dangling = append(dangling, d...)
	}
	for _, guide := range r.corpus.guides {
		_, d := r.ResolveGuideRelations(guide)
		dangling = append(dangling, d...)
	}
	return dangling
}

// TermsReferencingGuide returns the terms that list slug as a related guide.
func (r *Resolver) TermsReferencingGuide(slug string) []models.GlossaryTerm {
	idxs := r.termReferrers[slug]
	if len(idxs) == 0 {
		return nil
	}
	terms := make([]models.GlossaryTerm, len(idxs))
	for i, idx := range idxs {
		terms[i] = r.corpus.terms[idx]
	}
	return terms
}

// GuidesReferencingTerm returns the guides that list slug as a related term.
func (r *Resolver) GuidesReferencingTerm(slug string) []models.Guide {
	idxs := r.guideReferrers[slug]
	if len(idxs) == 0 {
		return nil
	}
	guides := make([]models.Guide, len(idxs))
	for i, idx := range idxs {
		guides[i] = r.corpus.guides[idx]
	}
	return guides
}

func danglingDefect(source, field, kind, target string) *models.Defect {
	return &models.Defect{
		Kind:    models.ErrDanglingReference,
		Source:  source,
		Target:  target,
		Field:   field,
		Message: fmt.Sprintf("references unknown %s %q", kind, target),
	}
}

func uniqueSlugs(slugs []string) []string {
	if len(slugs) < 2 {
		return slugs
	}
	seen := make(map[string]struct{}, len(slugs))
	out := make([]string, 0, len(slugs))
	for _, s := range slugs {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
