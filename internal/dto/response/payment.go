package response

import (
	"time"

	"ticket-purchase/internal/data/entity"
)

type PaymentResponse struct {
	ID              string               `json:"id"`
	OrderID         string               `json:"order_id"`
	PaymentType     entity.PaymentType   `json:"payment_type"`
	Status          entity.PaymentStatus `json:"status"`
	Amount          float64              `json:"amount"`
	Currency        string               `json:"currency"`
	ProviderOrderID *string              `json:"provider_order_id,omitempty"`
	ApprovalURL     *string              `json:"approval_url,omitempty"`
	ClientSecret    *string              `json:"client_secret,omitempty"`
	FailureReason   *string              `json:"failure_reason,omitempty"`
	CompletedAt     *time.Time           `json:"completed_at,omitempty"`
	ExpiresAt       *time.Time           `json:"expires_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

func PaymentToResponse(payment *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:              payment.ID.String(),
		OrderID:         payment.OrderID.String(),
		PaymentType:     payment.PaymentType,
		Status:          payment.Status,
		Amount:          payment.Amount,
		Currency:        payment.Currency,
		ProviderOrderID: payment.ProviderOrderID,
		ApprovalURL:     payment.ApprovalURL,
		ClientSecret:    payment.ClientSecret,
		FailureReason:   payment.FailureReason,
		CompletedAt:     payment.CompletedAt,
		ExpiresAt:       payment.ExpiresAt,
		CreatedAt:       payment.CreatedAt,
	}
}
