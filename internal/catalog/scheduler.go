package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultReloadTimeout bounds one scheduled reload.
const DefaultReloadTimeout = 30 * time.Second

// Scheduler reloads a registry on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	logger  zerolog.Logger
}

// NewScheduler registers a reload job. spec uses the standard five-field cron
// syntax or descriptors such as "@every 10m".
func NewScheduler(registry *Registry, spec string, timeout time.Duration, logger zerolog.Logger) (*Scheduler, error) {
	if timeout <= 0 {
		timeout = DefaultReloadTimeout
	}

	s := &Scheduler{
		cron:    cron.New(),
		timeout: timeout,
		logger:  logger.With().Str("component", "catalog-scheduler").Logger(),
	}

	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := registry.Reload(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("scheduled catalog reload failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse reload schedule %q: %w", spec, err)
	}

	return s, nil
}

// Start runs the schedule in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Msg("catalog reload schedule started")
}

// Stop halts the schedule and waits for a running reload to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
	s.logger.Info().Msg("catalog reload schedule stopped")
}
