package usecase

import (
	"ticket-purchase/internal/data/entity"
	"ticket-purchase/internal/data/repository"
	"ticket-purchase/internal/gateway"
	"ticket-purchase/pkg/database"
	"ticket-purchase/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Purchase    PurchaseService
	Order       OrderService
	Booking     BookingService
	Payment     PaymentService
	Submission  SubmissionService
	Idempotency IdempotencyService
}

func NewService(
	db database.PgxIface,
	config *utils.Config,
	bookingGW gateway.BookingGateway,
	ticketing gateway.TicketingGateway,
	providers map[entity.PaymentType]gateway.PaymentProvider,
	log *zap.Logger,
) *Service {
	repo := repository.NewRepository(db, log)
	tx := repository.NewTxManager(db, log)

	pctx := gateway.ProcessingContext{
		ReturnURL: config.PayPal.ReturnURL,
		CancelURL: config.PayPal.CancelURL,
	}

	idempotency := NewIdempotencyService(repo, config.Idempotency.TTL, log)

	return &Service{
		Purchase: NewPurchaseService(tx, repo, idempotency, bookingGW, ticketing,
			providers, pctx, config.Pricing, config.Submission.Workers, log),
		Order:       NewOrderService(repo, log),
		Booking:     NewBookingService(repo, bookingGW, ticketing, log),
		Payment:     NewPaymentService(repo, providers, pctx, config.Pricing, log),
		Submission:  NewSubmissionService(repo, ticketing, config.Submission.Workers, log),
		Idempotency: idempotency,
	}
}
