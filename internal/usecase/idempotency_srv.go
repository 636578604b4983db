package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ticket-purchase/internal/data/entity"
	"ticket-purchase/internal/data/repository"
	"ticket-purchase/pkg/apperrors"
	"ticket-purchase/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Admission is the verdict for one idempotency key. When Replayed is set the
// caller must return CachedResponse verbatim and perform no work.
type Admission struct {
	Replayed       bool
	CachedResponse []byte
}

type IdempotencyService interface {
	AdmitOrReplay(ctx context.Context, key string, userID uuid.UUID, payload any) (*Admission, error)
	Complete(ctx context.Context, key string, response any) error
	Fail(ctx context.Context, key, reason string) error
	CleanupExpired(ctx context.Context) (int64, error)
}

type idempotencyService struct {
	repo *repository.Repository
	ttl  time.Duration
	log  *zap.Logger
}

// NewIdempotencyService must be built over the shared pool, never a
// transaction: the processing record has to be visible to concurrent requests
// while the purchase transaction is still open.
func NewIdempotencyService(repo *repository.Repository, ttl time.Duration, log *zap.Logger) IdempotencyService {
	return &idempotencyService{
		repo: repo,
		ttl:  ttl,
		log:  log.With(zap.String("service", "idempotency")),
	}
}

func (s *idempotencyService) AdmitOrReplay(ctx context.Context, key string, userID uuid.UUID, payload any) (*Admission, error) {
	hash, err := utils.HashPayload(payload)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	record, err := s.repo.Idempotency.FindByKey(ctx, key)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if record != nil {
		if record.RequestHash != hash {
			s.log.Warn("Idempotency key reused with different payload",
				zap.String("idempotency_key", key),
			)
			return nil, apperrors.IdempotencyConflict(apperrors.CodeKeyReused,
				"idempotency key was already used with a different request")
		}

		if record.IsExpired(time.Now()) {
			return nil, apperrors.IdempotencyConflict(apperrors.CodeKeyExpired,
				"idempotency key has expired, use a new key")
		}

		switch record.Status {
		case entity.IdempotencyProcessing:
			return nil, apperrors.IdempotencyConflict(apperrors.CodeRequestInProgress,
				"a request with this idempotency key is already in progress")

		case entity.IdempotencyCompleted:
			s.log.Info("Replaying cached response",
				zap.String("idempotency_key", key),
			)
			return &Admission{Replayed: true, CachedResponse: record.ResponseData}, nil

		case entity.IdempotencyFailed:
			// A failed attempt releases the key for a retry.
			if err := s.repo.Idempotency.Delete(ctx, key); err != nil {
				return nil, apperrors.Internal(err)
			}
		}
	}

	now := time.Now()
	record = &entity.IdempotencyRecord{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
		},
		IdempotencyKey: key,
		UserID:         userID,
		RequestHash:    hash,
		Status:         entity.IdempotencyProcessing,
		ExpiresAt:      now.Add(s.ttl),
	}

	if err := s.repo.Idempotency.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// Lost the race against a concurrent request with the same key.
			return nil, apperrors.IdempotencyConflict(apperrors.CodeRequestInProgress,
				"a request with this idempotency key is already in progress")
		}
		return nil, apperrors.Internal(err)
	}

	return &Admission{}, nil
}

func (s *idempotencyService) Complete(ctx context.Context, key string, response any) error {
	data, err := json.Marshal(response)
	if err != nil {
		return apperrors.Internal(err)
	}

	if err := s.repo.Idempotency.Complete(ctx, key, data); err != nil {
		return apperrors.Internal(err)
	}

	return nil
}

// Fail transitions the record to FAILED and keeps the reason in the response
// column, where a later investigation can find it.
func (s *idempotencyService) Fail(ctx context.Context, key, reason string) error {
	if err := s.repo.Idempotency.Fail(ctx, key, reason); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *idempotencyService) CleanupExpired(ctx context.Context) (int64, error) {
	removed, err := s.repo.Idempotency.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		s.log.Info("Removed expired idempotency records", zap.Int64("count", removed))
	}

	return removed, nil
}
