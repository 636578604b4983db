package usecase

import (
	"context"
	"testing"

	"ticket-purchase/internal/data/entity"
	"ticket-purchase/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder_Succeeds(t *testing.T) {
	f := newFixture()
	user := f.addUser()
	svc := NewOrderService(f.repo, testLogger())

	order, err := svc.CreateOrder(context.Background(), user.ID, entity.PaymentTypePayPal, fourTickets())
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Len(t, order.Items, 4)
	assert.Regexp(t, `^SP-\d{8}-\d{6}-\d{4}$`, order.OrderNumber)
	assert.Equal(t, []string{"ATTR-1", "ATTR-2", "ATTR-3", "ATTR-4"}, order.AttractionIDs())
}

func TestCreateOrder_UnknownUser(t *testing.T) {
	f := newFixture()
	svc := NewOrderService(f.repo, testLogger())

	_, err := svc.CreateOrder(context.Background(), uuid.New(), entity.PaymentTypePayPal, fourTickets())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestCreateOrder_WrongTicketCount(t *testing.T) {
	f := newFixture()
	user := f.addUser()
	svc := NewOrderService(f.repo, testLogger())

	_, err := svc.CreateOrder(context.Background(), user.ID, entity.PaymentTypePayPal, fourTickets()[:2])
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidTicketCount, apperrors.CodeOf(err))
}

func TestCreateOrder_UnfinishedOrderCap(t *testing.T) {
	f := newFixture()
	user := f.addUser()
	svc := NewOrderService(f.repo, testLogger())

	for i := 0; i < entity.MaxUnfinishedOrders; i++ {
		_, err := svc.CreateOrder(context.Background(), user.ID, entity.PaymentTypePayPal, fourTickets())
		require.NoError(t, err)
	}

	_, err := svc.CreateOrder(context.Background(), user.ID, entity.PaymentTypePayPal, fourTickets())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeMaxUnfinishedOrdersExceeded, apperrors.CodeOf(err))
}

func TestCreateOrder_FinishedOrdersDoNotCount(t *testing.T) {
	f := newFixture()
	user := f.addUser()
	svc := NewOrderService(f.repo, testLogger())

	for i := 0; i < entity.MaxUnfinishedOrders; i++ {
		order, err := svc.CreateOrder(context.Background(), user.ID, entity.PaymentTypePayPal, fourTickets())
		require.NoError(t, err)
		require.NoError(t, f.orders.UpdateStatus(context.Background(), order.ID, entity.OrderStatusFinished))
	}

	_, err := svc.CreateOrder(context.Background(), user.ID, entity.PaymentTypePayPal, fourTickets())
	assert.NoError(t, err)
}

func TestGetOrder(t *testing.T) {
	f := newFixture()
	user := f.addUser()
	svc := NewOrderService(f.repo, testLogger())

	order, err := svc.CreateOrder(context.Background(), user.ID, entity.PaymentTypeStripe, fourTickets())
	require.NoError(t, err)

	resp, err := svc.GetOrder(context.Background(), order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, resp.OrderNumber)
	assert.Equal(t, entity.PaymentTypeStripe, resp.PaymentType)
	assert.Len(t, resp.Items, 4)
}

func TestGetOrder_NotFound(t *testing.T) {
	f := newFixture()
	svc := NewOrderService(f.repo, testLogger())

	_, err := svc.GetOrder(context.Background(), uuid.New().String())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
