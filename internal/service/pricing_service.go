package service

import (
	"context"

	"neon-studio/internal/model"
	"neon-studio/internal/pricing"

	"github.com/rs/zerolog"
)

// pricingService implements PricingService.
type pricingService struct {
	calculator *pricing.Calculator
	logger     zerolog.Logger
}

// NewPricingService creates a new pricing service.
func NewPricingService(calculator *pricing.Calculator, logger zerolog.Logger) PricingService {
	return &pricingService{
		calculator: calculator,
		logger:     logger.With().Str("service", "pricing").Logger(),
	}
}

// Calculate normalises a copy of the requested configuration and prices it.
func (s *pricingService) Calculate(_ context.Context, req *model.PriceRequest) (*model.PriceBreakdown, error) {
	if req == nil || req.Config == nil {
		return nil, model.ErrMissingConfig
	}

	cfg := req.Config.Clone()
	if err := normalizeConfig("config", &cfg); err != nil {
		return nil, err
	}

	breakdown, err := s.calculator.Calculate(cfg, req.PremiumOptions)
	if err != nil {
		return nil, err
	}

	if len(breakdown.IgnoredOptions) > 0 {
		s.logger.Debug().
			Strs("ignored_options", breakdown.IgnoredOptions).
			Msg("unknown premium options ignored")
	}

	return breakdown, nil
}
