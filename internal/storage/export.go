package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bobmcallan/metricsref/internal/common"
	"github.com/bobmcallan/metricsref/internal/interfaces"
)

// Compile-time interface check
var _ interfaces.ExportStore = (*ExportStore)(nil)

// ExportStore writes build artifacts as JSON files with optional versioning.
type ExportStore struct {
	basePath string
	versions int
	logger   *common.Logger
}

// NewExportStore creates the output directory if needed.
func NewExportStore(logger *common.Logger, config *common.BuildConfig) (*ExportStore, error) {
	versions := config.Versions
	if versions < 0 {
		versions = 0
	}

	if err := os.MkdirAll(config.OutputPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", config.OutputPath, err)
	}

	logger.Debug().Str("path", config.OutputPath).Int("versions", versions).Msg("ExportStore opened")
	return &ExportStore{
		basePath: config.OutputPath,
		versions: versions,
		logger:   logger,
	}, nil
}

// Path returns the output directory.
func (es *ExportStore) Path() string {
	return es.basePath
}

// sanitizeKey makes a key safe for use as a filename.
func (es *ExportStore) sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(key)
}

func (es *ExportStore) filePath(key string) string {
	return filepath.Join(es.basePath, es.sanitizeKey(key)+".json")
}

// WriteJSON marshals v to indented JSON and writes it atomically, rotating
// previous versions first when versioning is enabled.
func (es *ExportStore) WriteJSON(ctx context.Context, name string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := es.filePath(name)

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if es.versions > 0 {
		es.rotateVersions(target)
	}

	// Atomic write: temp file in the same directory, then rename
	tmpFile, err := os.CreateTemp(es.basePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	es.logger.Debug().Str("file", target).Int("bytes", len(data)).Msg("Artifact written")
	return nil
}

// rotateVersions shifts existing versions up and moves current to v1.
// v{N} -> deleted, v{N-1} -> v{N}, ..., v1 -> v2, current -> v1
func (es *ExportStore) rotateVersions(target string) {
	os.Remove(fmt.Sprintf("%s.v%d", target, es.versions))

	for i := es.versions; i > 1; i-- {
		src := fmt.Sprintf("%s.v%d", target, i-1)
		dst := fmt.Sprintf("%s.v%d", target, i)
		os.Rename(src, dst) // may not exist yet
	}

	if _, err := os.Stat(target); err == nil {
		os.Rename(target, fmt.Sprintf("%s.v1", target))
	}
}
