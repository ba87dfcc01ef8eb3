// Package interfaces defines storage contracts for metricsref
package interfaces

import (
	"context"

	"github.com/bobmcallan/metricsref/internal/models"
)

// ContentSource supplies authored content collections in build order.
type ContentSource interface {
	// TermCollections returns term seed collections in the order they merge.
	TermCollections(ctx context.Context) ([]models.TermCollection, error)

	// GuideCollections returns guide collections in the order they merge.
	GuideCollections(ctx context.Context) ([]models.GuideCollection, error)
}

// ExportStore persists compiled build artifacts.
type ExportStore interface {
	// WriteJSON writes v as indented JSON under name, replacing any previous file atomically.
	WriteJSON(ctx context.Context, name string, v interface{}) error

	// Path returns the output directory.
	Path() string
}
