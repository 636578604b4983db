package gateway

import (
	"context"
	"sync"
	"time"

	"ticket-purchase/internal/data/entity"

	"github.com/google/uuid"
)

// BookingGatewayMock records booking calls in memory. Set the error fields to
// simulate gateway outages.
type BookingGatewayMock struct {
	lock sync.Mutex

	Made        []*entity.Booking
	Updated     []*entity.Booking
	UpdatedFrom []time.Time
	Cancelled   []*entity.Booking

	MakeErr   error
	UpdateErr error
	CancelErr error
}

func (m *BookingGatewayMock) Make(_ context.Context, booking *entity.Booking) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.MakeErr != nil {
		return m.MakeErr
	}
	m.Made = append(m.Made, booking)
	return nil
}

func (m *BookingGatewayMock) Update(_ context.Context, booking *entity.Booking, previousDate time.Time) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.Updated = append(m.Updated, booking)
	m.UpdatedFrom = append(m.UpdatedFrom, previousDate)
	return nil
}

func (m *BookingGatewayMock) Cancel(_ context.Context, booking *entity.Booking) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.CancelErr != nil {
		return m.CancelErr
	}
	m.Cancelled = append(m.Cancelled, booking)
	return nil
}

// TicketingGatewayMock records submitted tickets keyed by booking ID.
type TicketingGatewayMock struct {
	lock sync.Mutex

	Submissions map[uuid.UUID][]string
	SubmitErr   error
}

func (m *TicketingGatewayMock) Submit(_ context.Context, booking *entity.Booking, attractionIDs []string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.SubmitErr != nil {
		return m.SubmitErr
	}
	if m.Submissions == nil {
		m.Submissions = make(map[uuid.UUID][]string)
	}
	m.Submissions[booking.ID] = attractionIDs
	return nil
}

// PaymentProviderMock fakes one payment processor.
type PaymentProviderMock struct {
	lock sync.Mutex

	ProviderType entity.PaymentType

	Initiated []*entity.Payment
	Captured  []*entity.Payment
	Cancelled []*entity.Payment

	InitiateErr error
	CaptureErr  error
	CancelErr   error
}

func (m *PaymentProviderMock) Type() entity.PaymentType {
	if m.ProviderType == "" {
		return entity.PaymentTypePayPal
	}
	return m.ProviderType
}

func (m *PaymentProviderMock) Initiate(_ context.Context, payment *entity.Payment, _ ProcessingContext) (*InitiateResult, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.InitiateErr != nil {
		return nil, m.InitiateErr
	}
	m.Initiated = append(m.Initiated, payment)

	expiresAt := time.Now().Add(entity.PaymentExpiry)
	return &InitiateResult{
		ProviderOrderID: "MOCK-" + payment.OrderID.String(),
		ApprovalURL:     "https://payments.example.com/approve/" + payment.OrderID.String(),
		ExpiresAt:       &expiresAt,
	}, nil
}

func (m *PaymentProviderMock) Capture(_ context.Context, payment *entity.Payment) (*CaptureResult, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.CaptureErr != nil {
		return nil, m.CaptureErr
	}
	m.Captured = append(m.Captured, payment)
	return &CaptureResult{CaptureID: "CAP-" + payment.ID.String(), PayerID: "PAYER-MOCK"}, nil
}

func (m *PaymentProviderMock) Cancel(_ context.Context, payment *entity.Payment) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.CancelErr != nil {
		return m.CancelErr
	}
	m.Cancelled = append(m.Cancelled, payment)
	return nil
}
