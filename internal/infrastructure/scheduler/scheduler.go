// Package scheduler runs the payment automations on a cron timetable,
// sharing the same service operations the admin routes trigger by hand.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/imusici/academy-system/internal/api/metrics"
	"github.com/imusici/academy-system/internal/core/ports"
	"github.com/imusici/academy-system/internal/infrastructure/config"
)

const jobTimeout = 2 * time.Minute

// Scheduler owns the cron runner. Start is a no-op when disabled.
type Scheduler struct {
	cfg      config.SchedulerConfig
	payments ports.PaymentService
	cron     *cron.Cron
	logger   zerolog.Logger
}

func New(cfg config.SchedulerConfig, payments ports.PaymentService, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		payments: payments,
		cron:     cron.New(),
		logger:   logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the configured jobs and launches the cron loop.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.logger.Info().Msg("scheduler disabled")
		return nil
	}

	if s.cfg.OverdueSpec != "" {
		if _, err := s.cron.AddFunc(s.cfg.OverdueSpec, s.runOverdueSweep); err != nil {
			return err
		}
	}
	if s.cfg.MonthlySpec != "" {
		if _, err := s.cron.AddFunc(s.cfg.MonthlySpec, s.runMonthlyGeneration); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info().
		Str("overdue_spec", s.cfg.OverdueSpec).
		Str("monthly_spec", s.cfg.MonthlySpec).
		Msg("scheduler started")
	return nil
}

// Stop halts the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runOverdueSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	count, err := s.payments.MarkOverdue(ctx)
	if err != nil {
		metrics.SchedulerRunsTotal.WithLabelValues("payments_overdue", "failure").Inc()
		s.logger.Error().Err(err).Msg("overdue sweep failed")
		return
	}

	metrics.SchedulerRunsTotal.WithLabelValues("payments_overdue", "success").Inc()
	metrics.PaymentsMarkedOverdueTotal.Add(float64(count))
	s.logger.Info().Int("count", count).Msg("overdue sweep completed")
}

func (s *Scheduler) runMonthlyGeneration() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	result, err := s.payments.GenerateMonthly(ctx, ports.GenerateMonthlyInput{})
	if err != nil {
		metrics.SchedulerRunsTotal.WithLabelValues("payments_monthly", "failure").Inc()
		s.logger.Error().Err(err).Msg("monthly payment generation failed")
		return
	}

	metrics.SchedulerRunsTotal.WithLabelValues("payments_monthly", "success").Inc()
	s.logger.Info().
		Str("month", result.Month).
		Int("created", result.Created).
		Msg("monthly payments generated")
}
