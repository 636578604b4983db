package adaptor

import (
	"ticket-purchase/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Purchase *PurchaseHandler
	Order    *OrderHandler
	Booking  *BookingHandler
	Payment  *PaymentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Purchase: NewPurchaseHandler(service.Purchase, log),
		Order:    NewOrderHandler(service.Order, log),
		Booking:  NewBookingHandler(service.Booking, log),
		Payment:  NewPaymentHandler(service.Payment, log),
	}
}
