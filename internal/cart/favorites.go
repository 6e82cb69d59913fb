package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"neon-studio/internal/model"
	"neon-studio/internal/store"
)

// Favorites is the list of saved designs, persisted the same way as the cart but
// under its own key.
type Favorites struct {
	mu      sync.Mutex
	storage store.Storage
	key     string
	opts    options
	designs []model.SavedDesign
}

// LoadFavorites restores the saved designs stored under key.
func LoadFavorites(ctx context.Context, storage store.Storage, key string, opts ...Option) (*Favorites, error) {
	f := &Favorites{
		storage: storage,
		key:     key,
		opts:    newOptions(opts),
	}

	data, err := storage.Load(ctx, key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}

	if err := f.opts.codec.Unmarshal(data, &f.designs); err != nil {
		return nil, fmt.Errorf("failed to decode favorites: %w", err)
	}
	return f, nil
}

// Save stores a copy of cfg under name. An empty name falls back to the design text.
func (f *Favorites) Save(ctx context.Context, name string, cfg model.Configuration) (model.SavedDesign, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = cfg.Text()
	}

	design := model.SavedDesign{
		ID:      f.opts.newID(),
		Name:    name,
		Config:  cfg.Clone(),
		SavedAt: f.opts.now().UTC(),
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.designs) >= model.MaxFavorites {
		return model.SavedDesign{}, model.ErrFavoritesFull
	}

	next := append(f.snapshot(), design)
	if err := f.commit(ctx, next); err != nil {
		return model.SavedDesign{}, err
	}
	return design, nil
}

// Remove deletes the saved design with the given id. Unknown ids are a no-op.
func (f *Favorites) Remove(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, d := range f.designs {
		if d.ID == id {
			next := f.snapshot()
			next = append(next[:i], next[i+1:]...)
			return f.commit(ctx, next)
		}
	}
	return nil
}

// List returns copies of the saved designs, oldest first.
func (f *Favorites) List() []model.SavedDesign {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.snapshot()
}

func (f *Favorites) snapshot() []model.SavedDesign {
	out := make([]model.SavedDesign, len(f.designs))
	for i, d := range f.designs {
		out[i] = d
		out[i].Config = d.Config.Clone()
	}
	return out
}

func (f *Favorites) commit(ctx context.Context, next []model.SavedDesign) error {
	data, err := f.opts.codec.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := f.storage.Save(ctx, f.key, data); err != nil {
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	f.designs = next
	return nil
}
