package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Sweeper drops expired cache entries.
type Sweeper interface {
	Sweep() int
	Len() int
}

// Warmer preloads series for the whole catalog.
type Warmer interface {
	Warm(ctx context.Context) (int, error)
}

// Alerter delivers operator alerts.
type Alerter interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron    *cron.Cron
	Cache   Sweeper
	Warmer  Warmer
	Alerter Alerter
	Ctx     context.Context

	log zerolog.Logger
}

// NewScheduler creates a Scheduler whose cron specs are read in loc.
// Warmer and Alerter may be nil.
func NewScheduler(ctx context.Context, loc *time.Location, c Sweeper, w Warmer, a Alerter, log zerolog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Cache:   c,
		Warmer:  w,
		Alerter: a,
		Ctx:     ctx,
		log:     log.With().Str("component", "scheduler").Logger(),
	}
}

// RegisterAll registers the sweep task and, when warmupCron is non-empty,
// the warmup task.
func (s *Scheduler) RegisterAll(sweepCron, warmupCron string) error {
	if _, err := s.Cron.AddFunc(sweepCron, s.sweepTask); err != nil {
		return fmt.Errorf("register sweep task: %w", err)
	}
	if warmupCron == "" || s.Warmer == nil {
		return nil
	}
	if _, err := s.Cron.AddFunc(warmupCron, s.warmupTask); err != nil {
		return fmt.Errorf("register warmup task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunWarmupNow executes the warmup task immediately (WARMUP_ON_START).
func (s *Scheduler) RunWarmupNow() {
	s.warmupTask()
}

func (s *Scheduler) sweepTask() {
	removed := s.Cache.Sweep()
	s.log.Info().Int("removed", removed).Int("remaining", s.Cache.Len()).Msg("cache sweep")
}

func (s *Scheduler) warmupTask() {
	if s.Warmer == nil {
		return
	}
	s.log.Info().Msg("running warmup task")
	n, err := s.Warmer.Warm(s.Ctx)
	if err != nil {
		s.log.Error().Err(err).Int("loaded", n).Msg("warmup incomplete")
		s.trySend(fmt.Sprintf("⚠️ <b>Cache warmup incomplete</b>\n\nLoaded %d symbols\n%v", n, err))
		return
	}
	s.log.Info().Int("loaded", n).Msg("warmup complete")
}

func (s *Scheduler) trySend(text string) {
	if s.Alerter == nil {
		return
	}
	if err := s.Alerter.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}
