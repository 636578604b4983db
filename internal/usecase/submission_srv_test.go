package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticket-purchase/internal/data/entity"
	"ticket-purchase/internal/gateway"
	"ticket-purchase/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addConfirmedBooking(f *fixture, visitDate time.Time) *entity.Booking {
	userID := uuid.New()
	order := &entity.Order{
		BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		OrderNumber: utils.GenerateOrderNumber(),
		UserID:      userID,
		Status:      entity.OrderStatusPending,
		PaymentType: entity.PaymentTypePayPal,
	}
	f.orders.orders[order.ID] = order
	f.orders.items[order.ID] = []*entity.OrderItem{
		{BaseSimple: entity.BaseSimple{ID: uuid.New()}, OrderID: order.ID, AttractionID: "ATTR-1", AttractionName: "One"},
		{BaseSimple: entity.BaseSimple{ID: uuid.New()}, OrderID: order.ID, AttractionID: "ATTR-2", AttractionName: "Two"},
	}

	booking := &entity.Booking{
		Base:                   entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		OrderID:                order.ID,
		UserID:                 userID,
		VisitDate:              visitDate,
		DocumentType:           entity.DocumentTypePassport,
		DocumentNumber:         "P123456789",
		Status:                 entity.BookingStatusConfirmed,
		TicketSubmissionStatus: entity.TicketsNotSubmitted,
	}
	f.bookings.bookings[booking.ID] = booking
	return booking
}

func TestDecide(t *testing.T) {
	f := newFixture()
	svc := NewSubmissionService(f.repo, &gateway.TicketingGatewayMock{}, 3, testLogger())

	assert.True(t, svc.Decide(utils.Tomorrow()))
	assert.False(t, svc.Decide(utils.Today()))
	assert.False(t, svc.Decide(utils.Today().AddDate(0, 0, 2)))
}

func TestProcessImmediate_Success(t *testing.T) {
	f := newFixture()
	ticketing := &gateway.TicketingGatewayMock{}
	svc := NewSubmissionService(f.repo, ticketing, 3, testLogger())
	booking := addConfirmedBooking(f, utils.Tomorrow())

	result := svc.ProcessImmediate(context.Background(), booking, []string{"ATTR-1", "ATTR-2"})

	assert.True(t, result.Success)
	assert.True(t, result.Submitted)
	assert.Equal(t, "Purchase, booking confirmed, and tickets submitted successfully (ready for tomorrow's visit)", result.Message)
	assert.Equal(t, entity.TicketsSubmitted, booking.TicketSubmissionStatus)
	assert.NotNil(t, booking.TicketSubmittedAt)
}

func TestProcessImmediate_FailureNeverErrors(t *testing.T) {
	f := newFixture()
	ticketing := &gateway.TicketingGatewayMock{SubmitErr: errors.New("down")}
	svc := NewSubmissionService(f.repo, ticketing, 3, testLogger())
	booking := addConfirmedBooking(f, utils.Tomorrow())

	result := svc.ProcessImmediate(context.Background(), booking, []string{"ATTR-1"})

	assert.False(t, result.Success)
	assert.Equal(t, "Purchase and booking confirmed, but ticket submission failed (will retry automatically)", result.Message)
	assert.Equal(t, entity.TicketsFailed, booking.TicketSubmissionStatus)
}

func TestRunDailySweep_SubmitsTomorrowsBookings(t *testing.T) {
	f := newFixture()
	ticketing := &gateway.TicketingGatewayMock{}
	svc := NewSubmissionService(f.repo, ticketing, 2, testLogger())

	due1 := addConfirmedBooking(f, utils.Tomorrow())
	due2 := addConfirmedBooking(f, utils.Tomorrow())
	due2.TicketSubmissionStatus = entity.TicketsFailed
	notDue := addConfirmedBooking(f, utils.Today().AddDate(0, 0, 5))
	alreadyDone := addConfirmedBooking(f, utils.Tomorrow())
	alreadyDone.TicketSubmissionStatus = entity.TicketsSubmitted

	require.NoError(t, svc.RunDailySweep(context.Background()))

	assert.Len(t, ticketing.Submissions, 2)
	assert.Contains(t, ticketing.Submissions, due1.ID)
	assert.Contains(t, ticketing.Submissions, due2.ID)
	assert.NotContains(t, ticketing.Submissions, notDue.ID)
	assert.NotContains(t, ticketing.Submissions, alreadyDone.ID)
	assert.Equal(t, entity.TicketsSubmitted, due1.TicketSubmissionStatus)
	assert.Equal(t, entity.TicketsSubmitted, due2.TicketSubmissionStatus)
}

func TestRunDailySweep_OneFailureDoesNotBlockOthers(t *testing.T) {
	f := newFixture()
	ticketing := &gateway.TicketingGatewayMock{SubmitErr: errors.New("down")}
	svc := NewSubmissionService(f.repo, ticketing, 2, testLogger())

	due1 := addConfirmedBooking(f, utils.Tomorrow())
	due2 := addConfirmedBooking(f, utils.Tomorrow())

	require.NoError(t, svc.RunDailySweep(context.Background()))

	assert.Equal(t, entity.TicketsFailed, due1.TicketSubmissionStatus)
	assert.Equal(t, entity.TicketsFailed, due2.TicketSubmissionStatus)
}

func TestExpireOverdue(t *testing.T) {
	f := newFixture()
	svc := NewSubmissionService(f.repo, &gateway.TicketingGatewayMock{}, 2, testLogger())

	overdue := addConfirmedBooking(f, utils.Today().AddDate(0, 0, -1))
	submitted := addConfirmedBooking(f, utils.Today().AddDate(0, 0, -1))
	submitted.TicketSubmissionStatus = entity.TicketsSubmitted
	upcoming := addConfirmedBooking(f, utils.Tomorrow())

	expired, err := svc.ExpireOverdue(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), expired)
	assert.Equal(t, entity.TicketsExpired, overdue.TicketSubmissionStatus)
	assert.Equal(t, entity.TicketsSubmitted, submitted.TicketSubmissionStatus)
	assert.Equal(t, entity.TicketsNotSubmitted, upcoming.TicketSubmissionStatus)
}
