package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentType string

const (
	PaymentTypePayPal PaymentType = "paypal"
	PaymentTypeStripe PaymentType = "stripe"
)

type PaymentStatus string

const (
	// PaymentStatusPending: payment row exists, provider not contacted yet.
	PaymentStatusPending PaymentStatus = "pending"
	// PaymentStatusCreated: provider accepted the payment, awaiting user approval.
	PaymentStatusCreated PaymentStatus = "created"
	// PaymentStatusApproved: user approved, ready to capture.
	PaymentStatusApproved PaymentStatus = "approved"
	// PaymentStatusCompleted: captured. Terminal, immutable.
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// Provider-side pending payments expire after this window.
const PaymentExpiry = 3 * time.Hour

type Payment struct {
	Base
	OrderID     uuid.UUID     `db:"order_id"`
	PaymentType PaymentType   `db:"payment_type"`
	Status      PaymentStatus `db:"status"`
	Amount      float64       `db:"amount"`
	Currency    string        `db:"currency"`

	// Provider correlation ids. PayPal fills ProviderOrderID/CaptureID/PayerID
	// and ApprovalURL; Stripe fills ProviderOrderID (intent id) and ClientSecret.
	ProviderOrderID   *string `db:"provider_order_id"`
	ProviderCaptureID *string `db:"provider_capture_id"`
	ProviderPayerID   *string `db:"provider_payer_id"`
	ApprovalURL       *string `db:"approval_url"`
	ClientSecret      *string `db:"client_secret"`

	FailureReason *string    `db:"failure_reason"`
	CompletedAt   *time.Time `db:"completed_at"`
	ExpiresAt     *time.Time `db:"expires_at"`
}

func (p *Payment) MarkCreated(providerOrderID string, now time.Time) {
	p.ProviderOrderID = &providerOrderID
	p.Status = PaymentStatusCreated
	expires := now.Add(PaymentExpiry)
	p.ExpiresAt = &expires
	p.UpdatedAt = now
}

func (p *Payment) MarkApproved(payerID string, now time.Time) {
	p.ProviderPayerID = &payerID
	p.Status = PaymentStatusApproved
	p.UpdatedAt = now
}

func (p *Payment) MarkCompleted(captureID string, now time.Time) {
	p.ProviderCaptureID = &captureID
	p.Status = PaymentStatusCompleted
	p.CompletedAt = &now
	p.UpdatedAt = now
}

func (p *Payment) MarkFailed(reason string, now time.Time) {
	p.Status = PaymentStatusFailed
	p.FailureReason = &reason
	p.UpdatedAt = now
}

func (p *Payment) MarkCancelled(reason string, now time.Time) {
	p.Status = PaymentStatusCancelled
	p.FailureReason = &reason
	p.UpdatedAt = now
}

func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}

func (p *Payment) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && p.ExpiresAt.Before(now)
}

// CanBeRetried reports whether a new payment attempt may replace this one.
func (p *Payment) CanBeRetried(now time.Time) bool {
	return p.Status == PaymentStatusFailed ||
		p.Status == PaymentStatusCancelled ||
		p.IsExpired(now)
}
