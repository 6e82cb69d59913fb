package service

import (
	"context"

	"neon-studio/internal/cart"
	"neon-studio/internal/model"
	"neon-studio/internal/store"

	"github.com/rs/zerolog"
)

// favoritesService implements FavoritesService.
type favoritesService struct {
	storage store.Storage
	opts    []cart.Option
	locks   *sessionLocks
	logger  zerolog.Logger
}

// NewFavoritesService creates a favorites service backed by storage.
func NewFavoritesService(storage store.Storage, logger zerolog.Logger, opts ...cart.Option) FavoritesService {
	return &favoritesService{
		storage: storage,
		opts:    opts,
		locks:   &sessionLocks{},
		logger:  logger.With().Str("service", "favorites").Logger(),
	}
}

// List returns the session's saved designs, oldest first.
func (s *favoritesService) List(ctx context.Context, sessionID string) ([]model.SavedDesign, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	f, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return f.List(), nil
}

// Save stores a validated copy of the requested configuration.
func (s *favoritesService) Save(ctx context.Context, sessionID string, req *model.SaveDesignRequest) (*model.SavedDesign, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	if req == nil || req.Config == nil {
		return nil, model.ErrMissingConfig
	}

	cfg := req.Config.Clone()
	if err := normalizeConfig("config", &cfg); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	f, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	design, err := f.Save(ctx, req.Name, cfg)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to save design")
		return nil, err
	}
	return &design, nil
}

// Remove deletes a saved design. Unknown ids are ignored.
func (s *favoritesService) Remove(ctx context.Context, sessionID, id string) error {
	if err := validateSessionID(sessionID); err != nil {
		return err
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	f, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := f.Remove(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Str("design_id", id).Msg("failed to remove design")
		return err
	}
	return nil
}

func (s *favoritesService) load(ctx context.Context, sessionID string) (*cart.Favorites, error) {
	f, err := cart.LoadFavorites(ctx, s.storage, cart.SessionFavoritesKey(sessionID), s.opts...)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load favorites")
		return nil, err
	}
	return f, nil
}
