package repository

import (
	"context"
	"fmt"
	"time"

	"ticket-purchase/internal/data/entity"
	"ticket-purchase/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type IdempotencyRepository interface {
	Create(ctx context.Context, record *entity.IdempotencyRecord) error
	FindByKey(ctx context.Context, key string) (*entity.IdempotencyRecord, error)
	Complete(ctx context.Context, key string, responseData []byte) error
	Fail(ctx context.Context, key, reason string) error
	Delete(ctx context.Context, key string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type idempotencyRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewIdempotencyRepository(db database.Querier, log *zap.Logger) IdempotencyRepository {
	return &idempotencyRepository{
		db:  db,
		log: log.With(zap.String("repository", "idempotency")),
	}
}

func (r *idempotencyRepository) Create(ctx context.Context, record *entity.IdempotencyRecord) error {
	query := `
		INSERT INTO idempotency_records
			(id, idempotency_key, user_id, request_hash, response_data, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		record.ID,
		record.IdempotencyKey,
		record.UserID,
		record.RequestHash,
		record.ResponseData,
		record.Status,
		record.ExpiresAt,
		record.CreatedAt,
	)

	if err != nil {
		if database.IsUniqueViolation(err) {
			// Lost the insert race to a concurrent request with the same key.
			return ErrDuplicateKey
		}
		r.log.Error("Failed to create idempotency record",
			zap.Error(err),
			zap.String("idempotency_key", record.IdempotencyKey),
		)
		return fmt.Errorf("create idempotency record %s: %w", record.IdempotencyKey, err)
	}

	return nil
}

func (r *idempotencyRepository) FindByKey(ctx context.Context, key string) (*entity.IdempotencyRecord, error) {
	query := `
		SELECT id, idempotency_key, user_id, request_hash, response_data, status, expires_at, created_at
		FROM idempotency_records
		WHERE idempotency_key = $1
	`

	var record entity.IdempotencyRecord
	err := r.db.QueryRow(ctx, query, key).Scan(
		&record.ID,
		&record.IdempotencyKey,
		&record.UserID,
		&record.RequestHash,
		&record.ResponseData,
		&record.Status,
		&record.ExpiresAt,
		&record.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find idempotency record",
			zap.Error(err),
			zap.String("idempotency_key", key),
		)
		return nil, fmt.Errorf("find idempotency record %s: %w", key, err)
	}

	return &record, nil
}

func (r *idempotencyRepository) Complete(ctx context.Context, key string, responseData []byte) error {
	query := `
		UPDATE idempotency_records
		SET status = $2, response_data = $3
		WHERE idempotency_key = $1 AND status = $4
	`

	result, err := r.db.Exec(ctx, query, key, entity.IdempotencyCompleted, responseData, entity.IdempotencyProcessing)
	if err != nil {
		r.log.Error("Failed to complete idempotency record",
			zap.Error(err),
			zap.String("idempotency_key", key),
		)
		return fmt.Errorf("complete idempotency record %s: %w", key, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("idempotency record %s not in processing state", key)
	}

	return nil
}

func (r *idempotencyRepository) Fail(ctx context.Context, key, reason string) error {
	query := `
		UPDATE idempotency_records
		SET status = $2, response_data = $3
		WHERE idempotency_key = $1 AND status = $4
	`

	result, err := r.db.Exec(ctx, query, key, entity.IdempotencyFailed, []byte(reason), entity.IdempotencyProcessing)
	if err != nil {
		r.log.Error("Failed to mark idempotency record as failed",
			zap.Error(err),
			zap.String("idempotency_key", key),
		)
		return fmt.Errorf("fail idempotency record %s: %w", key, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("idempotency record %s not in processing state", key)
	}

	return nil
}

func (r *idempotencyRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM idempotency_records WHERE idempotency_key = $1`

	_, err := r.db.Exec(ctx, query, key)
	if err != nil {
		r.log.Error("Failed to delete idempotency record",
			zap.Error(err),
			zap.String("idempotency_key", key),
		)
		return fmt.Errorf("delete idempotency record %s: %w", key, err)
	}

	return nil
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM idempotency_records WHERE expires_at < $1`

	result, err := r.db.Exec(ctx, query, now)
	if err != nil {
		r.log.Error("Failed to delete expired idempotency records", zap.Error(err))
		return 0, fmt.Errorf("delete expired idempotency records: %w", err)
	}

	return result.RowsAffected(), nil
}
