package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/docgen-api/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey returns the unexpired record for key and user, or nil
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	// Create stores a new idempotency key
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes expired keys and reports how many were dropped
	DeleteExpired(ctx context.Context) (int64, error)
}
