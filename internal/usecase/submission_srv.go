package usecase

import (
	"context"
	"time"

	"ticket-purchase/internal/data/entity"
	"ticket-purchase/internal/data/repository"
	"ticket-purchase/internal/gateway"
	"ticket-purchase/internal/metrics"
	"ticket-purchase/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SubmissionResult reports what happened to the tickets of one purchase. The
// messages surface verbatim in the purchase response.
type SubmissionResult struct {
	Success   bool
	Submitted bool
	Message   string
}

func submissionScheduled() *SubmissionResult {
	return &SubmissionResult{
		Success: true,
		Message: "Purchase and booking confirmed successfully (tickets will be submitted 24 hours before visit)",
	}
}

func submissionSucceeded() *SubmissionResult {
	return &SubmissionResult{
		Success:   true,
		Submitted: true,
		Message:   "Purchase, booking confirmed, and tickets submitted successfully (ready for tomorrow's visit)",
	}
}

func submissionFailed() *SubmissionResult {
	return &SubmissionResult{
		Success: false,
		Message: "Purchase and booking confirmed, but ticket submission failed (will retry automatically)",
	}
}

type SubmissionService interface {
	Decide(visitDate time.Time) bool
	ProcessImmediate(ctx context.Context, booking *entity.Booking, attractionIDs []string) *SubmissionResult
	RunDailySweep(ctx context.Context) error
	ExpireOverdue(ctx context.Context) (int64, error)
}

type submissionService struct {
	repo      *repository.Repository
	ticketing gateway.TicketingGateway
	workers   int
	log       *zap.Logger
}

func NewSubmissionService(
	repo *repository.Repository,
	ticketing gateway.TicketingGateway,
	workers int,
	log *zap.Logger,
) SubmissionService {
	if workers < 1 {
		workers = 1
	}
	return &submissionService{
		repo:      repo,
		ticketing: ticketing,
		workers:   workers,
		log:       log.With(zap.String("service", "submission")),
	}
}

// Decide returns true when tickets must go out with the purchase itself, which
// happens only when the visit is tomorrow.
func (s *submissionService) Decide(visitDate time.Time) bool {
	return utils.ToDate(visitDate).Equal(utils.Tomorrow())
}

// ProcessImmediate submits tickets during the purchase flow. It never fails
// the purchase: a gateway or bookkeeping error downgrades to a FAILED ticket
// status that the daily sweep retries.
func (s *submissionService) ProcessImmediate(ctx context.Context, booking *entity.Booking, attractionIDs []string) *SubmissionResult {
	s.log.Info("Visit date is tomorrow, submitting tickets immediately",
		zap.String("booking_id", booking.ID.String()),
	)

	if err := s.ticketing.Submit(ctx, booking, attractionIDs); err != nil {
		s.log.Warn("Immediate ticket submission failed",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		s.recordOutcome(ctx, booking, false)
		metrics.TicketSubmissionsTotal.WithLabelValues("failed").Inc()
		return submissionFailed()
	}

	s.recordOutcome(ctx, booking, true)
	metrics.TicketSubmissionsTotal.WithLabelValues("submitted").Inc()

	s.log.Info("Tickets immediately submitted",
		zap.String("booking_id", booking.ID.String()),
	)

	return submissionSucceeded()
}

func (s *submissionService) recordOutcome(ctx context.Context, booking *entity.Booking, success bool) {
	status := entity.TicketsFailed
	var submittedAt *time.Time
	if success {
		status = entity.TicketsSubmitted
		now := time.Now()
		submittedAt = &now
	}

	if err := s.repo.Booking.UpdateTicketSubmission(ctx, booking.ID, status, submittedAt); err != nil {
		// A status bookkeeping failure must not fail the purchase.
		s.log.Error("Failed to update ticket submission status",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return
	}

	booking.TicketSubmissionStatus = status
	booking.TicketSubmittedAt = submittedAt
}

// RunDailySweep submits tickets for every confirmed booking whose visit is
// tomorrow and whose tickets are still outstanding. Bookings are processed by
// a bounded worker pool; one failure never blocks the rest.
func (s *submissionService) RunDailySweep(ctx context.Context) error {
	tomorrow := utils.Tomorrow()

	bookings, err := s.repo.Booking.FindForTicketSubmission(ctx, tomorrow)
	if err != nil {
		return err
	}

	if len(bookings) == 0 {
		s.log.Info("Daily sweep found no bookings to submit")
		return nil
	}

	s.log.Info("Daily sweep starting",
		zap.Int("bookings", len(bookings)),
		zap.String("visit_date", utils.FormatDate(tomorrow)),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, booking := range bookings {
		g.Go(func() error {
			s.submitOne(ctx, booking)
			return nil
		})
	}

	return g.Wait()
}

func (s *submissionService) submitOne(ctx context.Context, booking *entity.Booking) {
	order, err := s.repo.Order.FindByID(ctx, booking.OrderID)
	if err != nil || order == nil {
		s.log.Error("Sweep could not load order for booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return
	}

	if err := s.ticketing.Submit(ctx, booking, order.AttractionIDs()); err != nil {
		s.log.Warn("Sweep ticket submission failed",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		s.recordOutcome(ctx, booking, false)
		metrics.TicketSubmissionsTotal.WithLabelValues("failed").Inc()
		return
	}

	s.recordOutcome(ctx, booking, true)
	metrics.TicketSubmissionsTotal.WithLabelValues("submitted").Inc()
}

// ExpireOverdue marks tickets that missed their visit date as expired so the
// sweep stops retrying them.
func (s *submissionService) ExpireOverdue(ctx context.Context) (int64, error) {
	expired, err := s.repo.Booking.ExpireOverdue(ctx, utils.Today())
	if err != nil {
		return 0, err
	}

	if expired > 0 {
		s.log.Info("Expired overdue ticket submissions", zap.Int64("count", expired))
	}

	return expired, nil
}
