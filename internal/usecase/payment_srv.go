package usecase

import (
	"context"
	"time"

	"ticket-purchase/internal/data/entity"
	"ticket-purchase/internal/data/repository"
	"ticket-purchase/internal/dto/response"
	"ticket-purchase/internal/gateway"
	"ticket-purchase/pkg/apperrors"
	"ticket-purchase/pkg/utils"

	"go.uber.org/zap"
)

type PaymentService interface {
	CreatePayment(ctx context.Context, order *entity.Order) (*entity.Payment, error)
	ProcessPayment(ctx context.Context, payment *entity.Payment) error
	CapturePayment(ctx context.Context, providerOrderID, payerID string) (*response.PaymentResponse, error)
	CancelPayment(ctx context.Context, paymentID string) error
	CleanupExpiredPayments(ctx context.Context) (int, error)
	GetPayment(ctx context.Context, paymentID string) (*response.PaymentResponse, error)
	GetPaymentByOrder(ctx context.Context, orderID string) (*response.PaymentResponse, error)
	GetUserPayments(ctx context.Context, userID string) ([]response.PaymentResponse, error)
}

type paymentService struct {
	repo      *repository.Repository
	providers map[entity.PaymentType]gateway.PaymentProvider
	pctx      gateway.ProcessingContext
	pricing   utils.PricingConfig
	log       *zap.Logger
}

func NewPaymentService(
	repo *repository.Repository,
	providers map[entity.PaymentType]gateway.PaymentProvider,
	pctx gateway.ProcessingContext,
	pricing utils.PricingConfig,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		repo:      repo,
		providers: providers,
		pctx:      pctx,
		pricing:   pricing,
		log:       log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) provider(paymentType entity.PaymentType) (gateway.PaymentProvider, error) {
	provider, ok := s.providers[paymentType]
	if !ok {
		return nil, apperrors.BusinessRule(apperrors.CodeUnsupportedProvider,
			"unsupported payment method: "+string(paymentType))
	}
	return provider, nil
}

func (s *paymentService) CreatePayment(ctx context.Context, order *entity.Order) (*entity.Payment, error) {
	if _, err := s.provider(order.PaymentType); err != nil {
		return nil, err
	}

	now := time.Now()

	// A failed, cancelled, or expired attempt may be replaced; a live one not.
	existing, err := s.repo.Payment.FindByOrderID(ctx, order.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if existing != nil && !existing.CanBeRetried(now) {
		return nil, apperrors.BusinessRule(apperrors.CodePaymentAlreadyActive,
			"order already has an active payment")
	}
	payment := &entity.Payment{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderID:     order.ID,
		PaymentType: order.PaymentType,
		Status:      entity.PaymentStatusPending,
		Amount:      s.pricing.TicketPrice * float64(len(order.Items)),
		Currency:    s.pricing.Currency,
	}

	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		return nil, apperrors.Internal(err)
	}

	return payment, nil
}

// ProcessPayment hands the payment to its provider. A provider failure is hard:
// the error propagates so the caller can roll back the purchase.
func (s *paymentService) ProcessPayment(ctx context.Context, payment *entity.Payment) error {
	provider, err := s.provider(payment.PaymentType)
	if err != nil {
		return err
	}

	result, err := provider.Initiate(ctx, payment, s.pctx)
	if err != nil {
		payment.MarkFailed(err.Error(), time.Now())
		s.log.Error("Payment initiation failed",
			zap.Error(err),
			zap.String("payment_id", payment.ID.String()),
			zap.String("payment_type", string(payment.PaymentType)),
		)
		return err
	}

	now := time.Now()
	payment.MarkCreated(result.ProviderOrderID, now)
	if result.ApprovalURL != "" {
		payment.ApprovalURL = &result.ApprovalURL
	}
	if result.ClientSecret != "" {
		payment.ClientSecret = &result.ClientSecret
	}
	if result.ExpiresAt != nil {
		payment.ExpiresAt = result.ExpiresAt
	}

	if err := s.repo.Payment.Update(ctx, payment); err != nil {
		return apperrors.Internal(err)
	}

	s.log.Info("Payment initiated",
		zap.String("payment_id", payment.ID.String()),
		zap.String("provider_order_id", result.ProviderOrderID),
	)

	return nil
}

// CapturePayment finishes the redirect flow: the user approved at the provider
// and came back with the provider's order token.
func (s *paymentService) CapturePayment(ctx context.Context, providerOrderID, payerID string) (*response.PaymentResponse, error) {
	payment, err := s.repo.Payment.FindByProviderOrderID(ctx, providerOrderID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if payment == nil {
		return nil, apperrors.NotFound("Payment", providerOrderID)
	}

	if payment.IsCompleted() {
		resp := response.PaymentToResponse(payment)
		return &resp, nil
	}

	provider, err := s.provider(payment.PaymentType)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	payment.MarkApproved(payerID, now)

	result, err := provider.Capture(ctx, payment)
	if err != nil {
		s.log.Error("Payment capture failed",
			zap.Error(err),
			zap.String("payment_id", payment.ID.String()),
		)
		return nil, err
	}

	payment.MarkCompleted(result.CaptureID, time.Now())
	if result.PayerID != "" {
		payment.ProviderPayerID = &result.PayerID
	}

	if err := s.repo.Payment.Update(ctx, payment); err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.repo.Order.UpdateStatus(ctx, payment.OrderID, entity.OrderStatusConfirmed); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.log.Info("Payment captured",
		zap.String("payment_id", payment.ID.String()),
		zap.String("capture_id", result.CaptureID),
	)

	resp := response.PaymentToResponse(payment)
	return &resp, nil
}

func (s *paymentService) CancelPayment(ctx context.Context, paymentID string) error {
	id, err := utils.ParseUUID(paymentID)
	if err != nil {
		return apperrors.Validation("invalid payment ID format")
	}

	payment, err := s.repo.Payment.FindByID(ctx, id)
	if err != nil {
		return apperrors.Internal(err)
	}
	if payment == nil {
		return apperrors.NotFound("Payment", paymentID)
	}

	if payment.IsCompleted() {
		return apperrors.BusinessRule(apperrors.CodeCannotCancelCompleted,
			"completed payments cannot be cancelled")
	}

	provider, err := s.provider(payment.PaymentType)
	if err != nil {
		return err
	}

	if err := provider.Cancel(ctx, payment); err != nil {
		return err
	}

	payment.MarkCancelled("cancelled by user", time.Now())
	if err := s.repo.Payment.Update(ctx, payment); err != nil {
		return apperrors.Internal(err)
	}

	return nil
}

func (s *paymentService) CleanupExpiredPayments(ctx context.Context) (int, error) {
	payments, err := s.repo.Payment.FindExpiredCreated(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, payment := range payments {
		payment.MarkCancelled("payment expired", time.Now())
		if err := s.repo.Payment.Update(ctx, payment); err != nil {
			s.log.Error("Failed to cancel expired payment",
				zap.Error(err),
				zap.String("payment_id", payment.ID.String()),
			)
			continue
		}
		cancelled++
	}

	if cancelled > 0 {
		s.log.Info("Cancelled expired payments", zap.Int("count", cancelled))
	}

	return cancelled, nil
}

func (s *paymentService) GetPayment(ctx context.Context, paymentID string) (*response.PaymentResponse, error) {
	id, err := utils.ParseUUID(paymentID)
	if err != nil {
		return nil, apperrors.Validation("invalid payment ID format")
	}

	payment, err := s.repo.Payment.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if payment == nil {
		return nil, apperrors.NotFound("Payment", paymentID)
	}

	resp := response.PaymentToResponse(payment)
	return &resp, nil
}

func (s *paymentService) GetPaymentByOrder(ctx context.Context, orderID string) (*response.PaymentResponse, error) {
	id, err := utils.ParseUUID(orderID)
	if err != nil {
		return nil, apperrors.Validation("invalid order ID format")
	}

	payment, err := s.repo.Payment.FindByOrderID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if payment == nil {
		return nil, apperrors.NotFound("Payment", "order "+orderID)
	}

	resp := response.PaymentToResponse(payment)
	return &resp, nil
}

func (s *paymentService) GetUserPayments(ctx context.Context, userID string) ([]response.PaymentResponse, error) {
	id, err := utils.ParseUUID(userID)
	if err != nil {
		return nil, apperrors.Validation("invalid user ID format")
	}

	payments, err := s.repo.Payment.FindByUserID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	responses := make([]response.PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		responses = append(responses, response.PaymentToResponse(payment))
	}

	return responses, nil
}
