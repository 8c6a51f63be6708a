package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultRefreshSpec keeps every cache entry inside the staleness window.
const DefaultRefreshSpec = "@every 6h"

// Scheduler periodically refreshes all tracked wallets.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// NewScheduler wires a cron job that calls RefreshAll on the given spec.
// An empty spec uses DefaultRefreshSpec.
func NewScheduler(svc *Service, spec string, log zerolog.Logger) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultRefreshSpec
	}
	log = log.With().Str("component", "scheduler").Logger()

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
		defer cancel()
		if err := svc.RefreshAll(ctx); err != nil {
			log.Error().Err(err).Msg("scheduled refresh failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid refresh spec %q: %w", spec, err)
	}
	return &Scheduler{cron: c, log: log}, nil
}

// Start begins scheduling.
func (s *Scheduler) Start() {
	s.log.Info().Msg("refresh scheduler started")
	s.cron.Start()
}

// Stop stops scheduling and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("refresh scheduler stopped")
}
