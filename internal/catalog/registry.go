package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"neon-studio/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Default catalog file names.
const (
	DefaultOptionsFile   = "premium_options.yaml"
	DefaultTemplatesFile = "templates.yaml"
)

// Files names the two documents that make up a catalog.
type Files struct {
	Options   string
	Templates string
}

// DefaultFiles returns the standard file names.
func DefaultFiles() Files {
	return Files{Options: DefaultOptionsFile, Templates: DefaultTemplatesFile}
}

// Registry holds the current catalog. Reads are lock-free; Reload builds a new
// snapshot and swaps it in only when both files load and validate.
type Registry struct {
	loader  Loader
	files   Files
	current atomic.Pointer[Catalog]
	reload  sync.Mutex
	logger  zerolog.Logger
}

// NewRegistry loads the catalog once and fails when that first load fails.
func NewRegistry(ctx context.Context, loader Loader, files Files, logger zerolog.Logger) (*Registry, error) {
	r := &Registry{
		loader: loader,
		files:  files,
		logger: logger.With().Str("component", "catalog-registry").Logger(),
	}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload fetches both files concurrently and replaces the current catalog. On any
// failure the previous catalog stays in place.
func (r *Registry) Reload(ctx context.Context) error {
	r.reload.Lock()
	defer r.reload.Unlock()

	var (
		options   []model.PremiumOption
		templates []model.Template
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := r.loader.Load(gctx, r.files.Options)
		if err != nil {
			return err
		}
		options, err = ParseOptions(data)
		return err
	})
	g.Go(func() error {
		data, err := r.loader.Load(gctx, r.files.Templates)
		if err != nil {
			return err
		}
		templates, err = ParseTemplates(data)
		return err
	})
	if err := g.Wait(); err != nil {
		r.logger.Error().Err(err).Msg("catalog reload failed, keeping previous catalog")
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	next, err := New(options, templates)
	if err != nil {
		r.logger.Error().Err(err).Msg("catalog validation failed, keeping previous catalog")
		return fmt.Errorf("failed to build catalog: %w", err)
	}

	r.current.Store(next)
	r.logger.Info().
		Int("premium_options", len(options)).
		Int("templates", len(templates)).
		Msg("catalog loaded")

	return nil
}

// Current returns the active catalog snapshot.
func (r *Registry) Current() *Catalog {
	return r.current.Load()
}

// PremiumOption looks up an add-on in the active catalog.
func (r *Registry) PremiumOption(id string) (model.PremiumOption, bool) {
	return r.Current().PremiumOption(id)
}
