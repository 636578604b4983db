package worker

import (
	"context"
	"time"

	"ticket-purchase/internal/metrics"
	"ticket-purchase/internal/usecase"
	"ticket-purchase/pkg/utils"

	"go.uber.org/zap"
)

// Scheduler owns the background jobs: idempotency and payment cleanup on one
// cadence, the daily ticket submission sweep on another. Jobs stop when the
// context passed to Start is cancelled.
type Scheduler struct {
	service         *usecase.Service
	cleanupInterval time.Duration
	sweepInterval   time.Duration
	log             *zap.Logger
}

func NewScheduler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Scheduler {
	return &Scheduler{
		service:         service,
		cleanupInterval: config.Idempotency.CleanupInterval,
		sweepInterval:   config.Submission.SweepInterval,
		log:             log.With(zap.String("worker", "scheduler")),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	go s.runCleanup(ctx)
	go s.runSweep(ctx)

	s.log.Info("Background jobs started",
		zap.Duration("cleanup_interval", s.cleanupInterval),
		zap.Duration("sweep_interval", s.sweepInterval),
	)
}

func (s *Scheduler) runCleanup(ctx context.Context) {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.service.Idempotency.CleanupExpired(ctx)
			if err != nil {
				s.log.Error("Idempotency cleanup failed", zap.Error(err))
			} else {
				metrics.IdempotencyRecordsCleaned.Add(float64(removed))
			}

			if _, err := s.service.Payment.CleanupExpiredPayments(ctx); err != nil {
				s.log.Error("Payment expiry cleanup failed", zap.Error(err))
			}
		}
	}
}

func (s *Scheduler) runSweep(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.service.Submission.ExpireOverdue(ctx); err != nil {
				s.log.Error("Overdue submission expiry failed", zap.Error(err))
			}

			if err := s.service.Submission.RunDailySweep(ctx); err != nil {
				s.log.Error("Daily submission sweep failed", zap.Error(err))
			}
		}
	}
}
