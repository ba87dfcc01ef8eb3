// Package app wires configuration, logging, storage and the corpus service.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/metricsref/internal/common"
	"github.com/bobmcallan/metricsref/internal/services/corpus"
	"github.com/bobmcallan/metricsref/internal/storage"
)

// ErrBuildDefects is returned by Compile in strict mode when the corpus has content defects.
var ErrBuildDefects = errors.New("corpus has content defects")

// App holds the initialized configuration, logger and services.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	Source        *storage.FileSource
	CorpusService *corpus.Service
	StartupTime   time.Time

	export *storage.ExportStore
}

// Option customises App construction.
type Option func(*App)

// WithLogger replaces the logger built from config.
func WithLogger(l *common.Logger) Option {
	return func(a *App) { a.Logger = l }
}

// NewApp loads configuration and wires the content source and corpus service.
// configPath may be empty, in which case METRICSREF_CONFIG and then
// config/metricsref.toml are tried.
func NewApp(configPath string, opts ...Option) (*App, error) {
	common.LoadVersionFromFile()

	if configPath == "" {
		configPath = os.Getenv("METRICSREF_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join("config", "metricsref.toml")
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a := &App{
		Config:      config,
		StartupTime: time.Now(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.Logger == nil {
		a.Logger = common.NewLoggerFromConfig(config.Logging)
	}

	a.Source = storage.NewFileSource(a.Logger, &config.Content)
	a.CorpusService = corpus.NewService(a.Source, exportProxy{a}, a.Logger)

	return a, nil
}

// Compile builds and validates the corpus. In strict mode any content defect
// is returned as an error wrapping ErrBuildDefects alongside the compilation.
func (a *App) Compile(ctx context.Context) (*corpus.Compilation, error) {
	c, err := a.CorpusService.Compile(ctx)
	if err != nil {
		return nil, err
	}
	if a.Config.Build.Strict && c.Report.HasDefects() {
		return c, fmt.Errorf("%w: %d found", ErrBuildDefects, len(c.Report.Defects))
	}
	return c, nil
}

// Export writes a compilation to the configured output directory.
func (a *App) Export(ctx context.Context, c *corpus.Compilation) error {
	return a.CorpusService.Export(ctx, c)
}

// exportStore opens the export store on first use so that read-only
// commands never create the output directory.
func (a *App) exportStore() (*storage.ExportStore, error) {
	if a.export != nil {
		return a.export, nil
	}
	es, err := storage.NewExportStore(a.Logger, &a.Config.Build)
	if err != nil {
		return nil, err
	}
	a.export = es
	return es, nil
}

// exportProxy defers ExportStore creation until something is written.
type exportProxy struct{ a *App }

func (p exportProxy) WriteJSON(ctx context.Context, name string, v interface{}) error {
	es, err := p.a.exportStore()
	if err != nil {
		return err
	}
	return es.WriteJSON(ctx, name, v)
}

func (p exportProxy) Path() string {
	return p.a.Config.Build.OutputPath
}
