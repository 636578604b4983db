package repository

import (
	"context"
	"fmt"
	"time"

	"ticket-purchase/internal/data/entity"
	"ticket-purchase/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Payment, error)
	FindByProviderOrderID(ctx context.Context, providerOrderID string) (*entity.Payment, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error
	FindExpiredCreated(ctx context.Context, now time.Time) ([]*entity.Payment, error)
}

type paymentRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPaymentRepository(db database.Querier, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

const paymentColumns = `id, order_id, payment_type, status, amount, currency,
	provider_order_id, provider_capture_id, provider_payer_id, approval_url, client_secret,
	failure_reason, created_at, updated_at, completed_at, expires_at`

func (r *paymentRepository) scanPayment(row pgx.Row) (*entity.Payment, error) {
	var payment entity.Payment
	err := row.Scan(
		&payment.ID,
		&payment.OrderID,
		&payment.PaymentType,
		&payment.Status,
		&payment.Amount,
		&payment.Currency,
		&payment.ProviderOrderID,
		&payment.ProviderCaptureID,
		&payment.ProviderPayerID,
		&payment.ApprovalURL,
		&payment.ClientSecret,
		&payment.FailureReason,
		&payment.CreatedAt,
		&payment.UpdatedAt,
		&payment.CompletedAt,
		&payment.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.OrderID,
		payment.PaymentType,
		payment.Status,
		payment.Amount,
		payment.Currency,
		payment.ProviderOrderID,
		payment.ProviderCaptureID,
		payment.ProviderPayerID,
		payment.ApprovalURL,
		payment.ClientSecret,
		payment.FailureReason,
		payment.CreatedAt,
		payment.UpdatedAt,
		payment.CompletedAt,
		payment.ExpiresAt,
	)

	if err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("order_id", payment.OrderID.String()),
			zap.String("payment_type", string(payment.PaymentType)),
		)
		return fmt.Errorf("create payment for order %s: %w", payment.OrderID.String(), err)
	}

	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := r.scanPayment(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by ID",
			zap.Error(err),
			zap.String("payment_id", id.String()),
		)
		return nil, fmt.Errorf("find payment by ID %s: %w", id.String(), err)
	}

	return payment, nil
}

func (r *paymentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1`

	payment, err := r.scanPayment(r.db.QueryRow(ctx, query, orderID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by order ID",
			zap.Error(err),
			zap.String("order_id", orderID.String()),
		)
		return nil, fmt.Errorf("find payment by order ID %s: %w", orderID.String(), err)
	}

	return payment, nil
}

func (r *paymentRepository) FindByProviderOrderID(ctx context.Context, providerOrderID string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE provider_order_id = $1`

	payment, err := r.scanPayment(r.db.QueryRow(ctx, query, providerOrderID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by provider order ID",
			zap.Error(err),
			zap.String("provider_order_id", providerOrderID),
		)
		return nil, fmt.Errorf("find payment by provider order ID %s: %w", providerOrderID, err)
	}

	return payment, nil
}

func (r *paymentRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Payment, error) {
	query := `
		SELECT p.id, p.order_id, p.payment_type, p.status, p.amount, p.currency,
			p.provider_order_id, p.provider_capture_id, p.provider_payer_id, p.approval_url, p.client_secret,
			p.failure_reason, p.created_at, p.updated_at, p.completed_at, p.expires_at
		FROM payments p
		JOIN orders o ON o.id = p.order_id
		WHERE o.user_id = $1
		ORDER BY p.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find payments by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find payments by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		payment, err := r.scanPayment(rows)
		if err != nil {
			r.log.Error("Failed to scan payment row", zap.Error(err))
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, payment)
	}

	return payments, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *entity.Payment) error {
	query := `
		UPDATE payments
		SET status = $2, provider_order_id = $3, provider_capture_id = $4, provider_payer_id = $5,
		    approval_url = $6, client_secret = $7, failure_reason = $8,
		    updated_at = $9, completed_at = $10, expires_at = $11
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.Status,
		payment.ProviderOrderID,
		payment.ProviderCaptureID,
		payment.ProviderPayerID,
		payment.ApprovalURL,
		payment.ClientSecret,
		payment.FailureReason,
		payment.UpdatedAt,
		payment.CompletedAt,
		payment.ExpiresAt,
	)

	if err != nil {
		r.log.Error("Failed to update payment",
			zap.Error(err),
			zap.String("payment_id", payment.ID.String()),
		)
		return fmt.Errorf("update payment %s: %w", payment.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("payment %s not found", payment.ID.String())
	}

	return nil
}

func (r *paymentRepository) FindExpiredCreated(ctx context.Context, now time.Time) ([]*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE status = $1 AND expires_at IS NOT NULL AND expires_at < $2
	`

	rows, err := r.db.Query(ctx, query, entity.PaymentStatusCreated, now)
	if err != nil {
		r.log.Error("Failed to find expired payments", zap.Error(err))
		return nil, fmt.Errorf("find expired payments: %w", err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		payment, err := r.scanPayment(rows)
		if err != nil {
			r.log.Error("Failed to scan payment row", zap.Error(err))
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, payment)
	}

	return payments, nil
}
