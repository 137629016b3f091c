package services

import (
	"context"
	"errors"
	"time"

	"github.com/sahilchouksey/thats-my-college/utils/apperror"
	"gorm.io/gorm"
)

// TokenBlacklist records revoked token ids until they expire
type TokenBlacklist interface {
	RevokeToken(ctx context.Context, jti string, userID uint, expiresAt time.Time, reason string) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// EventPublisher receives domain events. Implementations must not block on
// or surface broker failures.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, entityID uint, payload any)
}

// lookupError maps a repository lookup failure onto the service error taxonomy
func lookupError(err error, notFound string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(notFound)
	}
	return apperror.Internal("Failed to load record", err)
}

// writeError maps a repository write failure onto the service error taxonomy
func writeError(err error, conflict, failed string) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.Conflict(conflict)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound("Record not found")
	default:
		return apperror.Internal(failed, err)
	}
}
