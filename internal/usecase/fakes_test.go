package usecase

import (
	"context"
	"sync"
	"time"

	"ticket-purchase/internal/data/entity"
	"ticket-purchase/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory repositories backing the service tests. They honor the same
// contracts as the pgx implementations, including ErrDuplicateKey on unique
// violations and (nil, nil) for missing rows.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*entity.Order
	items  map[uuid.UUID][]*entity.OrderItem
}

func (f *fakeOrderRepo) Create(_ context.Context, order *entity.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) CreateItems(_ context.Context, items []*entity.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range items {
		f.items[item.OrderID] = append(f.items[item.OrderID], item)
	}
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	order.Items = f.items[id]
	return order, nil
}

func (f *fakeOrderRepo) FindItemsByOrderID(_ context.Context, orderID uuid.UUID) ([]*entity.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[orderID], nil
}

func (f *fakeOrderRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var orders []*entity.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (f *fakeOrderRepo) CountUnfinishedByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, order := range f.orders {
		if order.UserID == userID && order.Status != entity.OrderStatusFinished {
			count++
		}
	}
	return count, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, orderID uuid.UUID, status entity.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if order, ok := f.orders[orderID]; ok {
		order.Status = status
	}
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*entity.Payment
	orders   *fakeOrderRepo
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments[payment.ID] = payment
	return nil
}

func (f *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payments[id], nil
}

func (f *fakePaymentRepo) FindByOrderID(_ context.Context, orderID uuid.UUID) (*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, payment := range f.payments {
		if payment.OrderID == orderID {
			return payment, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) FindByProviderOrderID(_ context.Context, providerOrderID string) (*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, payment := range f.payments {
		if payment.ProviderOrderID != nil && *payment.ProviderOrderID == providerOrderID {
			return payment, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var payments []*entity.Payment
	for _, payment := range f.payments {
		order, _ := f.orders.FindByID(ctx, payment.OrderID)
		if order != nil && order.UserID == userID {
			payments = append(payments, payment)
		}
	}
	return payments, nil
}

func (f *fakePaymentRepo) Update(_ context.Context, payment *entity.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments[payment.ID] = payment
	return nil
}

func (f *fakePaymentRepo) FindExpiredCreated(_ context.Context, now time.Time) ([]*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var payments []*entity.Payment
	for _, payment := range f.payments {
		if payment.Status == entity.PaymentStatusCreated && payment.IsExpired(now) {
			payments = append(payments, payment)
		}
	}
	return payments, nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.UserID == booking.UserID && b.VisitDate.Equal(booking.VisitDate) && b.Status != entity.BookingStatusCancelled {
			return repository.ErrDuplicateKey
		}
	}
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookings[id], nil
}

func (f *fakeBookingRepo) FindByOrderID(_ context.Context, orderID uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.OrderID == orderID {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) ExistsByOrderID(ctx context.Context, orderID uuid.UUID) (bool, error) {
	booking, _ := f.FindByOrderID(ctx, orderID)
	return booking != nil, nil
}

func (f *fakeBookingRepo) ExistsByUserIDAndVisitDate(_ context.Context, userID uuid.UUID, visitDate time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.UserID == userID && b.VisitDate.Equal(visitDate) && b.Status != entity.BookingStatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var bookings []*entity.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			bookings = append(bookings, b)
		}
	}
	if offset >= len(bookings) {
		return nil, nil
	}
	bookings = bookings[offset:]
	if limit < len(bookings) {
		bookings = bookings[:limit]
	}
	return bookings, nil
}

func (f *fakeBookingRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, b := range f.bookings {
		if b.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeBookingRepo) Update(_ context.Context, booking *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[bookingID]; ok {
		b.Status = status
	}
	return nil
}

func (f *fakeBookingRepo) UpdateTicketSubmission(_ context.Context, bookingID uuid.UUID, status entity.TicketSubmissionStatus, submittedAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[bookingID]; ok {
		b.TicketSubmissionStatus = status
		b.TicketSubmittedAt = submittedAt
	}
	return nil
}

func (f *fakeBookingRepo) FindForTicketSubmission(_ context.Context, visitDate time.Time) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var bookings []*entity.Booking
	for _, b := range f.bookings {
		if b.VisitDate.Equal(visitDate) && b.Status == entity.BookingStatusConfirmed &&
			(b.TicketSubmissionStatus == entity.TicketsNotSubmitted || b.TicketSubmissionStatus == entity.TicketsFailed) {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}

func (f *fakeBookingRepo) ExpireOverdue(_ context.Context, today time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var expired int64
	for _, b := range f.bookings {
		if b.VisitDate.Before(today) &&
			(b.TicketSubmissionStatus == entity.TicketsNotSubmitted || b.TicketSubmissionStatus == entity.TicketsFailed) {
			b.TicketSubmissionStatus = entity.TicketsExpired
			expired++
		}
	}
	return expired, nil
}

type fakeIdempotencyRepo struct {
	mu          sync.Mutex
	records     map[string]*entity.IdempotencyRecord
	completeErr error
}

func (f *fakeIdempotencyRepo) Create(_ context.Context, record *entity.IdempotencyRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.records[record.IdempotencyKey]; exists {
		return repository.ErrDuplicateKey
	}
	f.records[record.IdempotencyKey] = record
	return nil
}

func (f *fakeIdempotencyRepo) FindByKey(_ context.Context, key string) (*entity.IdempotencyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[key], nil
}

func (f *fakeIdempotencyRepo) Complete(_ context.Context, key string, responseData []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completeErr != nil {
		return f.completeErr
	}
	record := f.records[key]
	if record == nil || record.Status != entity.IdempotencyProcessing {
		return repository.ErrDuplicateKey
	}
	record.Status = entity.IdempotencyCompleted
	record.ResponseData = responseData
	return nil
}

func (f *fakeIdempotencyRepo) Fail(_ context.Context, key, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record := f.records[key]
	if record == nil || record.Status != entity.IdempotencyProcessing {
		return repository.ErrDuplicateKey
	}
	record.Status = entity.IdempotencyFailed
	record.ResponseData = []byte(reason)
	return nil
}

func (f *fakeIdempotencyRepo) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, key)
	return nil
}

func (f *fakeIdempotencyRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var removed int64
	for key, record := range f.records {
		if record.IsExpired(now) {
			delete(f.records, key)
			removed++
		}
	}
	return removed, nil
}

// fakeTxManager executes the function against the shared in-memory repository
// and counts rollbacks for assertions.
type fakeTxManager struct {
	repo      *repository.Repository
	rollbacks int
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, r *repository.Repository) error) error {
	if err := fn(ctx, m.repo); err != nil {
		m.rollbacks++
		return err
	}
	return nil
}

type fixture struct {
	repo     *repository.Repository
	tx       *fakeTxManager
	users    *fakeUserRepo
	orders   *fakeOrderRepo
	payments *fakePaymentRepo
	bookings *fakeBookingRepo
	idem     *fakeIdempotencyRepo
}

func newFixture() *fixture {
	users := &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
	orders := &fakeOrderRepo{
		orders: make(map[uuid.UUID]*entity.Order),
		items:  make(map[uuid.UUID][]*entity.OrderItem),
	}
	payments := &fakePaymentRepo{payments: make(map[uuid.UUID]*entity.Payment), orders: orders}
	bookings := &fakeBookingRepo{bookings: make(map[uuid.UUID]*entity.Booking)}
	idem := &fakeIdempotencyRepo{records: make(map[string]*entity.IdempotencyRecord)}

	repo := &repository.Repository{
		User:        users,
		Order:       orders,
		Payment:     payments,
		Booking:     bookings,
		Idempotency: idem,
	}

	return &fixture{
		repo:     repo,
		tx:       &fakeTxManager{repo: repo},
		users:    users,
		orders:   orders,
		payments: payments,
		bookings: bookings,
		idem:     idem,
	}
}

func (f *fixture) addUser() *entity.User {
	user := &entity.User{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		Email:      "visitor@example.com",
		Name:       "Visitor",
	}
	f.users.users[user.ID] = user
	return user
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
