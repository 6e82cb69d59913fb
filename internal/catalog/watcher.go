package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce coalesces the burst of events an editor produces on save.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a registry when catalog files in a local directory change.
type Watcher struct {
	registry *Registry
	watcher  *fsnotify.Watcher
	names    map[string]struct{}
	debounce time.Duration
	logger   zerolog.Logger
}

// NewWatcher watches dir for writes to the registry's catalog files.
func NewWatcher(registry *Registry, dir string, debounce time.Duration, logger zerolog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		registry: registry,
		watcher:  fw,
		names: map[string]struct{}{
			filepath.Base(registry.files.Options):   {},
			filepath.Base(registry.files.Templates): {},
		},
		debounce: debounce,
		logger:   logger.With().Str("component", "catalog-watcher").Str("dir", dir).Logger(),
	}, nil
}

// Run blocks until ctx is cancelled, reloading after each burst of relevant events.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	w.logger.Info().Msg("watching catalog files")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("catalog file changed")
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("file watcher error")

		case <-timer.C:
			if err := w.registry.Reload(ctx); err != nil {
				w.logger.Warn().Err(err).Msg("catalog reload after file change failed")
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	_, ok := w.names[filepath.Base(event.Name)]
	return ok
}
