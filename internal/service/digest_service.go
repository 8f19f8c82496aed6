package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"issueradar/internal/apierr"
	"issueradar/internal/models"
)

// DigestRepository is the persistence contract for digest subscriptions.
type DigestRepository interface {
	FindByUserID(ctx context.Context, userID string) (models.DigestSubscription, bool, error)
	Upsert(ctx context.Context, sub models.DigestSubscription) error
	DeleteByUserID(ctx context.Context, userID string) error
}

// SubscribeRequest is the payload of POST /digest/subscribe.
type SubscribeRequest struct {
	Email     string            `json:"email"`
	Frequency string            `json:"frequency"`
	Filters   *models.FilterSet `json:"filters"`
}

// DigestService maintains digest subscription records. Actual delivery is a
// separate worker's job; nothing here sends email.
type DigestService interface {
	Subscribe(ctx context.Context, userID string, req SubscribeRequest) (models.DigestSubscription, error)
	Get(ctx context.Context, userID string) (models.DigestSubscription, error)
	Unsubscribe(ctx context.Context, userID string) error
}

type digestService struct {
	repo     DigestRepository
	profiles ProfileRepository
	now      func() time.Time
}

// NewDigestService wires the subscription and profile repositories. Profiles
// supply the default filters merged into new subscriptions.
func NewDigestService(repo DigestRepository, profiles ProfileRepository) DigestService {
	return &digestService{repo: repo, profiles: profiles, now: time.Now}
}

// Subscribe creates or replaces the caller's subscription. Filters are merged
// over the user's stored defaults via the pure MergeDefaults, so the shared
// default object is never touched.
func (s *digestService) Subscribe(ctx context.Context, userID string, req SubscribeRequest) (models.DigestSubscription, error) {
	details := map[string]string{}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		details["email"] = "a valid email address is required"
	}
	if !models.ValidFrequency(req.Frequency) {
		details["frequency"] = "must be one of: daily, weekly"
	}
	if len(details) > 0 {
		return models.DigestSubscription{}, apierr.Validation(details)
	}

	defaults := GlobalDefaultFilters
	if profile, ok, err := s.profiles.FindByUserID(ctx, userID); err != nil {
		return models.DigestSubscription{}, apierr.Internal(err)
	} else if ok {
		defaults = profile.DefaultFilters
	}

	overrides := models.FilterSet{}
	if req.Filters != nil {
		overrides = *req.Filters
	}

	sub := models.DigestSubscription{
		ID:        uuid.NewString(),
		UserID:    userID,
		Email:     req.Email,
		Frequency: req.Frequency,
		Filters:   MergeDefaults(defaults, overrides),
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}

	// Keep the original id and creation time when re-subscribing.
	if existing, ok, err := s.repo.FindByUserID(ctx, userID); err != nil {
		return models.DigestSubscription{}, apierr.Internal(err)
	} else if ok {
		sub.ID = existing.ID
		sub.CreatedAt = existing.CreatedAt
	}

	if err := s.repo.Upsert(ctx, sub); err != nil {
		return models.DigestSubscription{}, apierr.Internal(err)
	}
	return sub, nil
}

func (s *digestService) Get(ctx context.Context, userID string) (models.DigestSubscription, error) {
	sub, ok, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return models.DigestSubscription{}, apierr.Internal(err)
	}
	if !ok {
		return models.DigestSubscription{}, apierr.NotFound("digest subscription")
	}
	return sub, nil
}

func (s *digestService) Unsubscribe(ctx context.Context, userID string) error {
	if err := s.repo.DeleteByUserID(ctx, userID); err != nil {
		return apierr.Internal(err)
	}
	return nil
}
