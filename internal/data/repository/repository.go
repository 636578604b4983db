package repository

import (
	"context"
	"errors"

	"ticket-purchase/pkg/database"

	"go.uber.org/zap"
)

// ErrDuplicateKey surfaces unique-constraint violations that callers handle
// as business outcomes (idempotency key races, one-booking-per-day).
var ErrDuplicateKey = errors.New("duplicate key")

type Repository struct {
	User        UserRepository
	Order       OrderRepository
	Payment     PaymentRepository
	Booking     BookingRepository
	Idempotency IdempotencyRepository
}

// NewRepository builds all repositories over the given querier, which may be
// the shared pool or an open transaction.
func NewRepository(db database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:        NewUserRepository(db, log),
		Order:       NewOrderRepository(db, log),
		Payment:     NewPaymentRepository(db, log),
		Booking:     NewBookingRepository(db, log),
		Idempotency: NewIdempotencyRepository(db, log),
	}
}

// TxManager runs a function against a transaction-bound Repository. The local
// writes of one purchase attempt commit or roll back together; external
// gateway calls made inside fn are not covered and must be treated as
// compensatable side effects by the caller.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, r *Repository) error) error
}

type pgxTxManager struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTxManager(db database.PgxIface, log *zap.Logger) TxManager {
	return &pgxTxManager{db: db, log: log}
}

func (m *pgxTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, r *Repository) error) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		m.log.Error("Failed to begin transaction", zap.Error(err))
		return err
	}

	repo := NewRepository(tx, m.log)

	if err := fn(ctx, repo); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			m.log.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	return tx.Commit(ctx)
}
