package usecase

import (
	"context"
	"time"

	"ticket-purchase/internal/data/entity"
	"ticket-purchase/internal/data/repository"
	"ticket-purchase/internal/dto/request"
	"ticket-purchase/internal/dto/response"
	"ticket-purchase/internal/gateway"
	"ticket-purchase/internal/metrics"
	"ticket-purchase/pkg/apperrors"
	"ticket-purchase/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PurchaseService interface {
	// PurchaseAndBook runs one exactly-once purchase. When the idempotency key
	// already completed, the cached response bytes come back instead of a fresh
	// result and no work is performed.
	PurchaseAndBook(ctx context.Context, idempotencyKey string, req *request.CreatePurchaseRequest) (*response.PurchaseResponse, []byte, error)
}

type purchaseService struct {
	tx          repository.TxManager
	repo        *repository.Repository
	idempotency IdempotencyService
	bookingGW   gateway.BookingGateway
	ticketing   gateway.TicketingGateway
	providers   map[entity.PaymentType]gateway.PaymentProvider
	pctx        gateway.ProcessingContext
	pricing     utils.PricingConfig
	workers     int
	log         *zap.Logger
}

func NewPurchaseService(
	tx repository.TxManager,
	repo *repository.Repository,
	idempotency IdempotencyService,
	bookingGW gateway.BookingGateway,
	ticketing gateway.TicketingGateway,
	providers map[entity.PaymentType]gateway.PaymentProvider,
	pctx gateway.ProcessingContext,
	pricing utils.PricingConfig,
	workers int,
	log *zap.Logger,
) PurchaseService {
	return &purchaseService{
		tx:          tx,
		repo:        repo,
		idempotency: idempotency,
		bookingGW:   bookingGW,
		ticketing:   ticketing,
		providers:   providers,
		pctx:        pctx,
		pricing:     pricing,
		workers:     workers,
		log:         log.With(zap.String("service", "purchase")),
	}
}

func (s *purchaseService) PurchaseAndBook(ctx context.Context, idempotencyKey string, req *request.CreatePurchaseRequest) (*response.PurchaseResponse, []byte, error) {
	started := time.Now()
	defer func() {
		metrics.PurchaseDuration.Observe(time.Since(started).Seconds())
	}()

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, nil, apperrors.Validation(utils.FormatValidationErrors(errs))
	}

	if req.HasBooking() {
		if req.DocumentType == nil || req.DocumentNumber == nil || *req.DocumentNumber == "" {
			return nil, nil, apperrors.Validation("document_type and document_number are required when visit_date is set")
		}
	}

	userID, err := utils.ParseUUID(req.UserID)
	if err != nil {
		return nil, nil, apperrors.Validation("invalid user ID format")
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}
	if user == nil {
		return nil, nil, apperrors.NotFound("User", req.UserID)
	}

	admission, err := s.idempotency.AdmitOrReplay(ctx, idempotencyKey, userID, req)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues("conflict").Inc()
		return nil, nil, err
	}
	if admission.Replayed {
		metrics.PurchasesTotal.WithLabelValues("replayed").Inc()
		return nil, admission.CachedResponse, nil
	}

	resp, err := s.performPurchase(ctx, userID, req)
	if err != nil {
		if failErr := s.idempotency.Fail(ctx, idempotencyKey, apperrors.MessageOf(err)); failErr != nil {
			s.log.Error("Failed to mark idempotency record as failed",
				zap.Error(failErr),
				zap.String("idempotency_key", idempotencyKey),
			)
		}
		metrics.PurchasesTotal.WithLabelValues("failed").Inc()
		return nil, nil, err
	}

	if err := s.idempotency.Complete(ctx, idempotencyKey, resp); err != nil {
		// The purchase itself committed. Log and return it anyway; the record
		// stays PROCESSING, so retries of this key conflict until the cleanup
		// sweep removes it. Blocking retries is the safe side here: a re-run
		// would create a second order.
		s.log.Error("Failed to cache purchase response",
			zap.Error(err),
			zap.String("idempotency_key", idempotencyKey),
		)
	}

	metrics.PurchasesTotal.WithLabelValues("completed").Inc()
	return resp, nil, nil
}

func (s *purchaseService) performPurchase(ctx context.Context, userID uuid.UUID, req *request.CreatePurchaseRequest) (*response.PurchaseResponse, error) {
	paymentType := entity.PaymentTypePayPal
	if req.PaymentMethod != "" {
		paymentType = entity.PaymentType(req.PaymentMethod)
	}

	var resp *response.PurchaseResponse

	err := s.tx.WithinTx(ctx, func(ctx context.Context, r *repository.Repository) error {
		orderSvc := NewOrderService(r, s.log)
		paymentSvc := NewPaymentService(r, s.providers, s.pctx, s.pricing, s.log)
		bookingSvc := NewBookingService(r, s.bookingGW, s.ticketing, s.log)
		submissionSvc := NewSubmissionService(r, s.ticketing, s.workers, s.log)

		order, err := orderSvc.CreateOrder(ctx, userID, paymentType, req.Tickets)
		if err != nil {
			return err
		}

		payment, err := paymentSvc.CreatePayment(ctx, order)
		if err != nil {
			return err
		}
		if err := paymentSvc.ProcessPayment(ctx, payment); err != nil {
			return err
		}

		var booking *entity.Booking
		var message string

		if req.HasBooking() {
			visitDate, err := utils.ParseDate(*req.VisitDate)
			if err != nil {
				return apperrors.Validation("invalid visit date format, expected YYYY-MM-DD")
			}

			booking, err = bookingSvc.Create(ctx, order.ID, userID, visitDate,
				entity.DocumentType(*req.DocumentType), *req.DocumentNumber)
			if err != nil {
				return err
			}

			if submissionSvc.Decide(booking.VisitDate) {
				result := submissionSvc.ProcessImmediate(ctx, booking, order.AttractionIDs())
				message = result.Message
			} else if booking.Status == entity.BookingStatusConfirmed {
				message = "Purchase and booking confirmed successfully (tickets will be submitted 24 hours before visit)"
			} else {
				message = "Purchase completed but booking is pending external confirmation"
			}
		} else {
			message = "Purchase completed successfully. You can book a visit date separately if needed."
			s.log.Info("Purchase-only completed", zap.String("order_id", order.ID.String()))
		}

		resp = &response.PurchaseResponse{
			Order:   response.OrderToResponse(order),
			Payment: response.PaymentToResponse(payment),
			Message: message,
		}
		if booking != nil {
			b := response.BookingToResponse(booking)
			resp.Booking = &b
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}
