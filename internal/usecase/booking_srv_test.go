package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticket-purchase/internal/data/entity"
	"ticket-purchase/internal/dto/request"
	"ticket-purchase/internal/gateway"
	"ticket-purchase/pkg/apperrors"
	"ticket-purchase/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingEnv struct {
	f         *fixture
	bookingGW *gateway.BookingGatewayMock
	ticketing *gateway.TicketingGatewayMock
	svc       BookingService
}

func newBookingEnv() *bookingEnv {
	f := newFixture()
	bookingGW := &gateway.BookingGatewayMock{}
	ticketing := &gateway.TicketingGatewayMock{}
	return &bookingEnv{
		f:         f,
		bookingGW: bookingGW,
		ticketing: ticketing,
		svc:       NewBookingService(f.repo, bookingGW, ticketing, testLogger()),
	}
}

func (e *bookingEnv) addOrder(userID uuid.UUID) *entity.Order {
	order := &entity.Order{
		BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		OrderNumber: utils.GenerateOrderNumber(),
		UserID:      userID,
		Status:      entity.OrderStatusPending,
		PaymentType: entity.PaymentTypePayPal,
	}
	e.f.orders.orders[order.ID] = order
	for i := 0; i < entity.TicketsPerOrder; i++ {
		e.f.orders.items[order.ID] = append(e.f.orders.items[order.ID], &entity.OrderItem{
			BaseSimple:     entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
			OrderID:        order.ID,
			AttractionID:   "ATTR-1",
			AttractionName: "Attraction",
		})
	}
	return order
}

func TestCreateBooking_Confirmed(t *testing.T) {
	env := newBookingEnv()
	user := env.f.addUser()
	order := env.addOrder(user.ID)

	booking, err := env.svc.Create(context.Background(), order.ID, user.ID,
		utils.Tomorrow(), entity.DocumentTypePassport, "P123456789")
	require.NoError(t, err)

	assert.Equal(t, entity.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, entity.TicketsNotSubmitted, booking.TicketSubmissionStatus)
	assert.Len(t, env.bookingGW.Made, 1)
}

func TestCreateBooking_GatewayFailureLeavesPending(t *testing.T) {
	env := newBookingEnv()
	env.bookingGW.MakeErr = errors.New("unavailable")
	user := env.f.addUser()
	order := env.addOrder(user.ID)

	booking, err := env.svc.Create(context.Background(), order.ID, user.ID,
		utils.Tomorrow(), entity.DocumentTypePassport, "P123456789")
	require.NoError(t, err)

	assert.Equal(t, entity.BookingStatusPending, booking.Status)
}

func TestCreateBooking_RejectsDuplicateOrder(t *testing.T) {
	env := newBookingEnv()
	user := env.f.addUser()
	order := env.addOrder(user.ID)

	_, err := env.svc.Create(context.Background(), order.ID, user.ID,
		utils.Tomorrow(), entity.DocumentTypePassport, "P123456789")
	require.NoError(t, err)

	_, err = env.svc.Create(context.Background(), order.ID, user.ID,
		utils.Today().AddDate(0, 0, 5), entity.DocumentTypePassport, "P123456789")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeBookingAlreadyExists, apperrors.CodeOf(err))
}

func TestCreateBooking_RejectsTodayAndPast(t *testing.T) {
	env := newBookingEnv()
	user := env.f.addUser()

	for _, visitDate := range []time.Time{utils.Today(), utils.Today().AddDate(0, 0, -1)} {
		order := env.addOrder(user.ID)
		_, err := env.svc.Create(context.Background(), order.ID, user.ID,
			visitDate, entity.DocumentTypePassport, "P123456789")
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeInvalidVisitDate, apperrors.CodeOf(err))
	}
}

func TestCreateBooking_OneBookingPerUserPerDay(t *testing.T) {
	env := newBookingEnv()
	user := env.f.addUser()
	first := env.addOrder(user.ID)
	second := env.addOrder(user.ID)
	visitDate := utils.Today().AddDate(0, 0, 3)

	_, err := env.svc.Create(context.Background(), first.ID, user.ID,
		visitDate, entity.DocumentTypePassport, "P123456789")
	require.NoError(t, err)

	_, err = env.svc.Create(context.Background(), second.ID, user.ID,
		visitDate, entity.DocumentTypePassport, "P123456789")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeOneBookingPerUserPerDay, apperrors.CodeOf(err))
}

func TestUpdateBooking_MovesVisitDate(t *testing.T) {
	env := newBookingEnv()
	user := env.f.addUser()
	order := env.addOrder(user.ID)

	booking, err := env.svc.Create(context.Background(), order.ID, user.ID,
		utils.Today().AddDate(0, 0, 3), entity.DocumentTypePassport, "P123456789")
	require.NoError(t, err)

	newDate := utils.FormatDate(utils.Today().AddDate(0, 0, 7))
	updated, err := env.svc.UpdateBooking(context.Background(), booking.ID.String(),
		&request.UpdateBookingRequest{VisitDate: newDate})
	require.NoError(t, err)

	assert.Equal(t, newDate, updated.VisitDate)
	assert.Equal(t, entity.BookingStatusConfirmed, updated.Status)
	assert.Len(t, env.bookingGW.Updated, 1)

	// The gateway must learn which date the booking vacated.
	require.Len(t, env.bookingGW.UpdatedFrom, 1)
	assert.True(t, env.bookingGW.UpdatedFrom[0].Equal(utils.Today().AddDate(0, 0, 3)))
}

func TestUpdateBooking_PastBookingRejected(t *testing.T) {
	env := newBookingEnv()
	user := env.f.addUser()
	order := env.addOrder(user.ID)

	booking, err := env.svc.Create(context.Background(), order.ID, user.ID,
		utils.Tomorrow(), entity.DocumentTypePassport, "P123456789")
	require.NoError(t, err)

	booking.VisitDate = utils.Today().AddDate(0, 0, -2)

	_, err = env.svc.UpdateBooking(context.Background(), booking.ID.String(),
		&request.UpdateBookingRequest{VisitDate: utils.FormatDate(utils.Tomorrow())})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeCannotUpdatePastBooking, apperrors.CodeOf(err))
}

func TestCancelBooking_GatewayFailureIsHard(t *testing.T) {
	env := newBookingEnv()
	user := env.f.addUser()
	order := env.addOrder(user.ID)

	booking, err := env.svc.Create(context.Background(), order.ID, user.ID,
		utils.Tomorrow(), entity.DocumentTypePassport, "P123456789")
	require.NoError(t, err)

	env.bookingGW.CancelErr = errors.New("unavailable")

	err = env.svc.CancelBooking(context.Background(), booking.ID.String())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindExternalService, apperrors.KindOf(err))
	assert.Equal(t, entity.BookingStatusConfirmed, env.f.bookings.bookings[booking.ID].Status)
}

func TestCancelBooking_Succeeds(t *testing.T) {
	env := newBookingEnv()
	user := env.f.addUser()
	order := env.addOrder(user.ID)

	booking, err := env.svc.Create(context.Background(), order.ID, user.ID,
		utils.Tomorrow(), entity.DocumentTypePassport, "P123456789")
	require.NoError(t, err)

	require.NoError(t, env.svc.CancelBooking(context.Background(), booking.ID.String()))
	assert.Equal(t, entity.BookingStatusCancelled, env.f.bookings.bookings[booking.ID].Status)
}

func TestSubmitTickets_Manual(t *testing.T) {
	env := newBookingEnv()
	user := env.f.addUser()
	order := env.addOrder(user.ID)

	booking, err := env.svc.Create(context.Background(), order.ID, user.ID,
		utils.Tomorrow(), entity.DocumentTypePassport, "P123456789")
	require.NoError(t, err)

	resp, err := env.svc.SubmitTickets(context.Background(), booking.ID.String())
	require.NoError(t, err)

	assert.Equal(t, entity.TicketsSubmitted, resp.TicketSubmissionStatus)
	assert.NotNil(t, resp.TicketSubmittedAt)
	assert.Len(t, env.ticketing.Submissions[booking.ID], entity.TicketsPerOrder)
}

func TestSubmitTickets_RequiresConfirmedBooking(t *testing.T) {
	env := newBookingEnv()
	env.bookingGW.MakeErr = errors.New("unavailable")
	user := env.f.addUser()
	order := env.addOrder(user.ID)

	booking, err := env.svc.Create(context.Background(), order.ID, user.ID,
		utils.Tomorrow(), entity.DocumentTypePassport, "P123456789")
	require.NoError(t, err)
	require.Equal(t, entity.BookingStatusPending, booking.Status)

	_, err = env.svc.SubmitTickets(context.Background(), booking.ID.String())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidBookingStatus, apperrors.CodeOf(err))
}

func TestSubmitTickets_AlreadySubmitted(t *testing.T) {
	env := newBookingEnv()
	user := env.f.addUser()
	order := env.addOrder(user.ID)

	booking, err := env.svc.Create(context.Background(), order.ID, user.ID,
		utils.Tomorrow(), entity.DocumentTypePassport, "P123456789")
	require.NoError(t, err)

	_, err = env.svc.SubmitTickets(context.Background(), booking.ID.String())
	require.NoError(t, err)

	_, err = env.svc.SubmitTickets(context.Background(), booking.ID.String())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeTicketsAlreadySubmitted, apperrors.CodeOf(err))
}

func TestSubmitTickets_GatewayFailureIsHard(t *testing.T) {
	env := newBookingEnv()
	user := env.f.addUser()
	order := env.addOrder(user.ID)

	booking, err := env.svc.Create(context.Background(), order.ID, user.ID,
		utils.Tomorrow(), entity.DocumentTypePassport, "P123456789")
	require.NoError(t, err)

	env.ticketing.SubmitErr = errors.New("unavailable")

	_, err = env.svc.SubmitTickets(context.Background(), booking.ID.String())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindExternalService, apperrors.KindOf(err))
	assert.Equal(t, entity.TicketsFailed, env.f.bookings.bookings[booking.ID].TicketSubmissionStatus)
}
