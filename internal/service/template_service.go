package service

import (
	"context"

	"neon-studio/internal/catalog"
	"neon-studio/internal/model"

	"github.com/rs/zerolog"
)

// CatalogSource provides the catalog currently in effect.
type CatalogSource interface {
	Current() *catalog.Catalog
}

// templateService implements TemplateService.
type templateService struct {
	source CatalogSource
	logger zerolog.Logger
}

// NewTemplateService creates a template service reading from source.
func NewTemplateService(source CatalogSource, logger zerolog.Logger) TemplateService {
	return &templateService{
		source: source,
		logger: logger.With().Str("service", "template").Logger(),
	}
}

// List returns the templates in category. An empty category or "all" lists every
// template; an unknown category yields an empty list.
func (s *templateService) List(_ context.Context, category string) (*model.TemplateListResponse, error) {
	c := s.source.Current()
	templates := c.Templates(category)

	s.logger.Debug().
		Str("category", category).
		Int("count", len(templates)).
		Msg("templates listed")

	return &model.TemplateListResponse{
		Success:    true,
		Templates:  templates,
		Total:      len(templates),
		Categories: c.Categories(),
	}, nil
}
