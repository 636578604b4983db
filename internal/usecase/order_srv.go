package usecase

import (
	"context"
	"time"

	"ticket-purchase/internal/data/entity"
	"ticket-purchase/internal/data/repository"
	"ticket-purchase/internal/dto/request"
	"ticket-purchase/internal/dto/response"
	"ticket-purchase/pkg/apperrors"
	"ticket-purchase/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, paymentType entity.PaymentType, tickets []request.TicketRequest) (*entity.Order, error)
	GetOrder(ctx context.Context, orderID string) (*response.OrderResponse, error)
	GetUserOrders(ctx context.Context, userID string) ([]response.OrderResponse, error)
}

type orderService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewOrderService(repo *repository.Repository, log *zap.Logger) OrderService {
	return &orderService{
		repo: repo,
		log:  log.With(zap.String("service", "order")),
	}
}

func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, paymentType entity.PaymentType, tickets []request.TicketRequest) (*entity.Order, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if user == nil {
		return nil, apperrors.NotFound("User", userID.String())
	}

	if len(tickets) != entity.TicketsPerOrder {
		return nil, apperrors.BusinessRule(apperrors.CodeInvalidTicketCount,
			"Must select exactly 4 tickets")
	}

	unfinished, err := s.repo.Order.CountUnfinishedByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if unfinished >= entity.MaxUnfinishedOrders {
		s.log.Warn("Unfinished order limit reached",
			zap.String("user_id", userID.String()),
			zap.Int64("unfinished", unfinished),
		)
		return nil, apperrors.BusinessRule(apperrors.CodeMaxUnfinishedOrdersExceeded,
			"Cannot have more than 4 unfinished orders")
	}

	now := time.Now()
	order := &entity.Order{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
		},
		OrderNumber: utils.GenerateOrderNumber(),
		UserID:      userID,
		Status:      entity.OrderStatusPending,
		PaymentType: paymentType,
	}

	items := make([]*entity.OrderItem, 0, len(tickets))
	for _, ticket := range tickets {
		items = append(items, &entity.OrderItem{
			BaseSimple: entity.BaseSimple{
				ID:        utils.GenerateUUID(),
				CreatedAt: now,
			},
			OrderID:        order.ID,
			AttractionID:   ticket.AttractionID,
			AttractionName: ticket.AttractionName,
		})
	}
	order.Items = items

	if err := s.repo.Order.Create(ctx, order); err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := s.repo.Order.CreateItems(ctx, items); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.log.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID.String()),
	)

	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID string) (*response.OrderResponse, error) {
	id, err := utils.ParseUUID(orderID)
	if err != nil {
		return nil, apperrors.Validation("invalid order ID format")
	}

	order, err := s.repo.Order.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if order == nil {
		return nil, apperrors.NotFound("Order", orderID)
	}

	resp := response.OrderToResponse(order)
	return &resp, nil
}

func (s *orderService) GetUserOrders(ctx context.Context, userID string) ([]response.OrderResponse, error) {
	id, err := utils.ParseUUID(userID)
	if err != nil {
		return nil, apperrors.Validation("invalid user ID format")
	}

	orders, err := s.repo.Order.FindByUserID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	responses := make([]response.OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, response.OrderToResponse(order))
	}

	return responses, nil
}
