package corpus

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/metricsref/internal/common"
	"github.com/bobmcallan/metricsref/internal/interfaces"
	"github.com/bobmcallan/metricsref/internal/models"
)

// Compilation is one compilation of the content source.
type Compilation struct {
	ID        string
	StartedAt time.Time
	Corpus    *Corpus
	Resolver  *Resolver
	Report    *Report
}

// Service loads authored content, compiles it and exports the result.
type Service struct {
	source interfaces.ContentSource
	export interfaces.ExportStore
	logger *common.Logger
}

// NewService creates a new corpus service. export may be nil when the caller
// never exports.
func NewService(source interfaces.ContentSource, export interfaces.ExportStore, logger *common.Logger) *Service {
	return &Service{
		source: source,
		export: export,
		logger: logger,
	}
}

// Compile loads every collection, builds the corpus and validates it.
// An error is returned only when content cannot be loaded or a record is
// missing a required field; content defects are reported in Compilation.Report.
func (s *Service) Compile(ctx context.Context) (*Compilation, error) {
	b := &Compilation{ID: uuid.NewString(), StartedAt: time.Now()}

	termCollections, err := s.source.TermCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load term collections: %w", err)
	}
	guideCollections, err := s.source.GuideCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load guide collections: %w", err)
	}

	c, err := Build(termCollections, guideCollections)
	if err != nil {
		s.logger.Error().Err(err).Str("build_id", b.ID).Msg("Corpus build rejected")
		return nil, fmt.Errorf("failed to build corpus: %w", err)
	}

	b.Corpus = c
	b.Resolver = NewResolver(c)
	b.Report = Validate(c, b.Resolver)

	for _, d := range b.Report.Defects {
		s.logger.Warn().
			Str("build_id", b.ID).
			Str("kind", d.KindName()).
			Str("source", d.Source).
			Str("target", d.Target).
			Str("field", d.Field).
			Msg(d.Message)
	}

	s.logger.Info().
		Str("build_id", b.ID).
		Int("term_collections", len(termCollections)).
		Int("guide_collections", len(guideCollections)).
		Int("terms", b.Report.Terms).
		Int("guides", b.Report.Guides).
		Int("defects", len(b.Report.Defects)).
		Dur("elapsed", time.Since(b.StartedAt)).
		Msg("Corpus compiled")

	return b, nil
}

// categoryIndex is the exported shape of one category grouping.
type categoryIndex struct {
	Category models.Category `json:"category"`
	Slugs    []string        `json:"slugs"`
}

// Export writes the compiled terms, guides, category index and report.
func (s *Service) Export(ctx context.Context, b *Compilation) error {
	if s.export == nil {
		return fmt.Errorf("no export store configured")
	}

	var categories []categoryIndex
	for _, group := range b.Corpus.TermsByCategory() {
		idx := categoryIndex{Category: group.Name}
		for _, t := range group.Terms {
			idx.Slugs = append(idx.Slugs, t.Slug)
		}
		categories = append(categories, idx)
	}

	artifacts := []struct {
		name string
		data interface{}
	}{
		{"terms", b.Corpus.Terms()},
		{"guides", b.Corpus.Guides()},
		{"categories", categories},
		{"report", b.Report},
	}
	for _, a := range artifacts {
		if err := s.export.WriteJSON(ctx, a.name, a.data); err != nil {
			return fmt.Errorf("failed to export %s: %w", a.name, err)
		}
	}

	s.logger.Info().Str("build_id", b.ID).Str("path", s.export.Path()).Msg("Corpus exported")
	return nil
}
