package gateway

import (
	"context"
	"time"

	"ticket-purchase/internal/data/entity"
)

// ProcessingContext carries the redirect URLs a provider needs to build its
// checkout session.
type ProcessingContext struct {
	ReturnURL string
	CancelURL string
}

// InitiateResult is what a provider hands back after creating a payment on its
// side. ApprovalURL is set for redirect flows (PayPal), ClientSecret for
// client-side confirmation flows (Stripe).
type InitiateResult struct {
	ProviderOrderID string
	ApprovalURL     string
	ClientSecret    string
	ExpiresAt       *time.Time
}

// CaptureResult is the outcome of capturing an approved payment.
type CaptureResult struct {
	CaptureID string
	PayerID   string
}

// PaymentProvider abstracts one external payment processor. Implementations
// translate between our payment entity and the provider's wire format.
type PaymentProvider interface {
	Type() entity.PaymentType
	Initiate(ctx context.Context, payment *entity.Payment, pctx ProcessingContext) (*InitiateResult, error)
	Capture(ctx context.Context, payment *entity.Payment) (*CaptureResult, error)
	Cancel(ctx context.Context, payment *entity.Payment) error
}
