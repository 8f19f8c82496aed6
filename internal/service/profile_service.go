package service

import (
	"context"
	"time"

	"issueradar/internal/apierr"
	"issueradar/internal/models"
)

// ProfileRepository is the persistence contract for user profiles.
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (models.UserProfile, bool, error)
	Upsert(ctx context.Context, profile models.UserProfile) error
}

// ProfileUpdate carries the mutable profile fields. Nil slices/pointers mean
// "leave unchanged" so PUT /profile can be partial.
type ProfileUpdate struct {
	Languages      []string          `json:"languages"`
	Topics         []string          `json:"topics"`
	FollowedRepos  []string          `json:"followedRepos"`
	FollowedOrgs   []string          `json:"followedOrgs"`
	DefaultFilters *models.FilterSet `json:"defaultFilters"`
	GitHubToken    *string           `json:"githubToken"`
}

// ProfileService reads and writes user preference state.
type ProfileService interface {
	Get(ctx context.Context, userID string) (models.UserProfile, error)
	Update(ctx context.Context, userID string, update ProfileUpdate) (models.UserProfile, error)
	Setup(ctx context.Context, userID string, update ProfileUpdate) (models.UserProfile, error)
}

type profileService struct {
	repo ProfileRepository
	now  func() time.Time
}

// NewProfileService returns a concrete implementation.
func NewProfileService(repo ProfileRepository) ProfileService {
	return &profileService{repo: repo, now: time.Now}
}

func (s *profileService) Get(ctx context.Context, userID string) (models.UserProfile, error) {
	profile, ok, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return models.UserProfile{}, apierr.Internal(err)
	}
	if !ok {
		return models.UserProfile{}, apierr.NotFound("profile")
	}
	return profile, nil
}

// Update applies a partial update to an existing profile. Missing profiles
// 404; use Setup for first-time creation.
func (s *profileService) Update(ctx context.Context, userID string, update ProfileUpdate) (models.UserProfile, error) {
	profile, ok, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return models.UserProfile{}, apierr.Internal(err)
	}
	if !ok {
		return models.UserProfile{}, apierr.NotFound("profile")
	}

	applyUpdate(&profile, update)
	profile.UpdatedAt = s.now()

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return models.UserProfile{}, apierr.Internal(err)
	}
	return profile, nil
}

// Setup creates the profile on first login, merging the global default
// filters under whatever the user supplied. Calling it again behaves like
// Update, so the endpoint stays idempotent.
func (s *profileService) Setup(ctx context.Context, userID string, update ProfileUpdate) (models.UserProfile, error) {
	profile, ok, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return models.UserProfile{}, apierr.Internal(err)
	}
	if !ok {
		profile = models.UserProfile{
			UserID:         userID,
			DefaultFilters: MergeDefaults(GlobalDefaultFilters, models.FilterSet{}),
			CreatedAt:      s.now(),
		}
	}

	applyUpdate(&profile, update)
	if update.DefaultFilters != nil {
		profile.DefaultFilters = MergeDefaults(GlobalDefaultFilters, *update.DefaultFilters)
	}
	profile.UpdatedAt = s.now()

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return models.UserProfile{}, apierr.Internal(err)
	}
	return profile, nil
}

func applyUpdate(profile *models.UserProfile, update ProfileUpdate) {
	if update.Languages != nil {
		profile.Languages = update.Languages
	}
	if update.Topics != nil {
		profile.Topics = update.Topics
	}
	if update.FollowedRepos != nil {
		profile.FollowedRepos = update.FollowedRepos
	}
	if update.FollowedOrgs != nil {
		profile.FollowedOrgs = update.FollowedOrgs
	}
	if update.DefaultFilters != nil {
		profile.DefaultFilters = *update.DefaultFilters
	}
	if update.GitHubToken != nil {
		profile.GitHubToken = *update.GitHubToken
	}
}

// GlobalDefaultFilters seeds new subscriptions and first-time profiles.
// MergeDefaults must never mutate it.
var GlobalDefaultFilters = models.FilterSet{
	Labels: []string{"good first issue"},
}

// MergeDefaults produces a new FilterSet with overrides layered on top of
// defaults. Both inputs are left untouched: slices are copied, never aliased,
// so the shared default object can never be mutated through a result.
func MergeDefaults(defaults, overrides models.FilterSet) models.FilterSet {
	merged := models.FilterSet{
		Languages:    copyOrDefault(overrides.Languages, defaults.Languages),
		Labels:       copyOrDefault(overrides.Labels, defaults.Labels),
		Orgs:         copyOrDefault(overrides.Orgs, defaults.Orgs),
		Repos:        copyOrDefault(overrides.Repos, defaults.Repos),
		BountyOnly:   overrides.BountyOnly || defaults.BountyOnly,
		FollowedOnly: overrides.FollowedOnly || defaults.FollowedOnly,
	}
	merged.MinStars = copyIntPtr(overrides.MinStars, defaults.MinStars)
	merged.MaxStars = copyIntPtr(overrides.MaxStars, defaults.MaxStars)
	return merged
}

func copyOrDefault(override, def []string) []string {
	src := override
	if src == nil {
		src = def
	}
	if src == nil {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

func copyIntPtr(override, def *int) *int {
	src := override
	if src == nil {
		src = def
	}
	if src == nil {
		return nil
	}
	v := *src
	return &v
}
