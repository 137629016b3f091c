package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sahilchouksey/thats-my-college/model"
	"github.com/sahilchouksey/thats-my-college/repository"
	"github.com/sahilchouksey/thats-my-college/utils/apperror"
	"github.com/sahilchouksey/thats-my-college/utils/audit"
	"go.uber.org/zap"
)

// CallbackResult is the outcome of a callback request. When the user already
// has the maximum number pending, Request is nil and IsCallbackRequestExists is set.
type CallbackResult struct {
	Request                 *model.CallbackRequest `json:"callback_request,omitempty"`
	IsCallbackRequestExists bool                   `json:"is_callback_request_exists"`
	Message                 string                 `json:"message"`
}

// CallbackService throttles and stores callback requests
type CallbackService struct {
	callbacks repository.CallbackRepository
	limit     int
	ttl       time.Duration
	now       func() time.Time
	log       *zap.Logger
}

// NewCallbackService creates a callback service allowing at most limit
// pending requests per user, each pending for ttl.
func NewCallbackService(callbacks repository.CallbackRepository, limit int, ttl time.Duration, log *zap.Logger) *CallbackService {
	return &CallbackService{
		callbacks: callbacks,
		limit:     limit,
		ttl:       ttl,
		now:       time.Now,
		log:       log,
	}
}

// Create records a callback request unless the user is at the limit
func (s *CallbackService) Create(ctx context.Context, userID uint, actor audit.Actor) (*CallbackResult, error) {
	expireAt := s.now().Add(s.ttl)

	created, pending, err := s.callbacks.CreateWithinLimit(ctx, userID, s.limit, expireAt, actor)
	if err != nil {
		return nil, lookupError(err, "User not found")
	}

	if created == nil {
		s.log.Info("callback request limit reached", zap.Uint("user_id", userID), zap.Int64("pending", pending))
		return &CallbackResult{
			IsCallbackRequestExists: true,
			Message:                 fmt.Sprintf("%d callback request already exists", pending),
		}, nil
	}

	return &CallbackResult{
		Request: created,
		Message: "Callback request created successfully",
	}, nil
}

// ListByUser returns the user's pending callback requests
func (s *CallbackService) ListByUser(ctx context.Context, userID uint) ([]model.CallbackRequest, error) {
	requests, err := s.callbacks.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("Failed to list callback requests", err)
	}
	if len(requests) == 0 {
		return nil, apperror.NotFound("No callback requests found for this user")
	}
	return requests, nil
}

// DeleteByUser removes the user's unexpired callback requests
func (s *CallbackService) DeleteByUser(ctx context.Context, userID uint, actor audit.Actor) (int64, error) {
	deleted, err := s.callbacks.DeleteByUser(ctx, userID, actor)
	if err != nil {
		return 0, apperror.Internal("Failed to delete callback requests", err)
	}
	if deleted == 0 {
		return 0, apperror.NotFound("No callback requests found for this user")
	}
	return deleted, nil
}

// PurgeExpired removes callback requests whose expiry has passed
func (s *CallbackService) PurgeExpired(ctx context.Context) (int64, error) {
	purged, err := s.callbacks.PurgeExpired(ctx, s.now())
	if err != nil {
		return 0, apperror.Internal("Failed to purge expired callback requests", err)
	}
	return purged, nil
}
