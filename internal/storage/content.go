// Package storage reads authored content collections and writes compiled
// build artifacts.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/metricsref/internal/common"
	"github.com/bobmcallan/metricsref/internal/interfaces"
	"github.com/bobmcallan/metricsref/internal/models"
)

// Compile-time interface check
var _ interfaces.ContentSource = (*FileSource)(nil)

const contentExt = ".toml"

// FileSource reads content collections from TOML files: one term collection
// per file under terms/, one guide collection per file under guides/.
type FileSource struct {
	termsPath   string
	guidesPath  string
	collections []string
	logger      *common.Logger
}

// NewFileSource creates a FileSource for the configured content root.
func NewFileSource(logger *common.Logger, config *common.ContentConfig) *FileSource {
	return &FileSource{
		termsPath:   config.TermsPath(),
		guidesPath:  config.GuidesPath(),
		collections: append([]string(nil), config.Collections...),
		logger:      logger,
	}
}

// TermCollections loads term collections. Configured collections come first
// in configured order; any other files follow in name order.
func (fs *FileSource) TermCollections(ctx context.Context) ([]models.TermCollection, error) {
	keys, err := listKeys(fs.termsPath)
	if err != nil {
		return nil, err
	}

	ordered, err := fs.orderCollections(keys)
	if err != nil {
		return nil, err
	}

	out := make([]models.TermCollection, 0, len(ordered))
	for _, key := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var tc models.TermCollection
		if err := readTOML(fs.termsPath, key, &tc); err != nil {
			return nil, err
		}
		if tc.Name == "" {
			tc.Name = key
		}
		fs.logger.Debug().Str("collection", tc.Name).Int("terms", len(tc.Terms)).Msg("Term collection loaded")
		out = append(out, tc)
	}
	return out, nil
}

// GuideCollections loads guide collections in file name order.
func (fs *FileSource) GuideCollections(ctx context.Context) ([]models.GuideCollection, error) {
	keys, err := listKeys(fs.guidesPath)
	if err != nil {
		return nil, err
	}

	out := make([]models.GuideCollection, 0, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var gc models.GuideCollection
		if err := readTOML(fs.guidesPath, key, &gc); err != nil {
			return nil, err
		}
		if gc.Name == "" {
			gc.Name = key
		}
		fs.logger.Debug().Str("collection", gc.Name).Int("guides", len(gc.Guides)).Msg("Guide collection loaded")
		out = append(out, gc)
	}
	return out, nil
}

func (fs *FileSource) orderCollections(keys []string) ([]string, error) {
	if len(fs.collections) == 0 {
		return keys, nil
	}

	available := make(map[string]bool, len(keys))
	for _, k := range keys {
		available[k] = true
	}

	ordered := make([]string, 0, len(keys))
	listed := make(map[string]bool, len(fs.collections))
	for _, name := range fs.collections {
		if !available[name] {
			return nil, fmt.Errorf("term collection '%s' not found in %s", name, fs.termsPath)
		}
		if listed[name] {
			continue
		}
		listed[name] = true
		ordered = append(ordered, name)
	}
	for _, k := range keys {
		if !listed[k] {
			fs.logger.Warn().Str("collection", k).Msg("Term collection not listed in config, merging last")
			ordered = append(ordered, k)
		}
	}
	return ordered, nil
}

// readTOML decodes one content file. Unknown keys are rejected so that a
// misspelt field is reported instead of silently dropped.
func readTOML(dir, key string, dest interface{}) error {
	path := filepath.Join(dir, key+contentExt)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("'%s' not found", key)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("unknown fields in %s:\n%s", path, strict.String())
		}
		var decErr *toml.DecodeError
		if errors.As(err, &decErr) {
			row, col := decErr.Position()
			return fmt.Errorf("failed to parse %s at %d:%d: %w", path, row, col, err)
		}
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// listKeys returns content file names without extension, sorted. A missing
// directory has no keys.
func listKeys(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, contentExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, contentExt))
	}
	sort.Strings(keys)
	return keys, nil
}
