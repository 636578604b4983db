package entity

import (
	"time"

	"github.com/google/uuid"
)

type IdempotencyStatus string

const (
	IdempotencyProcessing IdempotencyStatus = "processing"
	IdempotencyCompleted  IdempotencyStatus = "completed"
	IdempotencyFailed     IdempotencyStatus = "failed"
)

// IdempotencyRecord pins one execution per client-supplied key. The unique key
// constraint plus the processing status double as the cross-request lock.
type IdempotencyRecord struct {
	BaseSimple
	IdempotencyKey string            `db:"idempotency_key"`
	UserID         uuid.UUID         `db:"user_id"`
	RequestHash    string            `db:"request_hash"`
	ResponseData   []byte            `db:"response_data"`
	Status         IdempotencyStatus `db:"status"`
	ExpiresAt      time.Time         `db:"expires_at"`
}

func (r *IdempotencyRecord) IsExpired(now time.Time) bool {
	return r.ExpiresAt.Before(now)
}
