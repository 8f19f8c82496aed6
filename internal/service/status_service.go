package service

import (
	"context"
	"time"

	"issueradar/internal/apierr"
	"issueradar/internal/models"
)

// UserIssueRepository is the persistence contract for interaction records.
type UserIssueRepository interface {
	Find(ctx context.Context, id string) (models.UserIssue, bool, error)
	Upsert(ctx context.Context, record models.UserIssue) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID, status string, page, limit int) ([]models.UserIssue, int64, error)
}

// UserIssueList is the paginated payload of GET /user/issues.
type UserIssueList struct {
	Issues     []models.UserIssue `json:"issues"`
	Pagination models.Pagination  `json:"pagination"`
}

// StatusService maintains per-user issue interaction state
// (saved / started / done).
type StatusService interface {
	SetStatus(ctx context.Context, userID, repo string, issueNumber int, status string) (models.UserIssue, error)
	Save(ctx context.Context, userID, repo string, issueNumber int) (models.UserIssue, error)
	Unsave(ctx context.Context, userID, repo string, issueNumber int) error
	List(ctx context.Context, userID, status string, page, limit int) (UserIssueList, error)
}

type statusService struct {
	repo UserIssueRepository
	now  func() time.Time
}

// NewStatusService returns a concrete implementation.
func NewStatusService(repo UserIssueRepository) StatusService {
	return &statusService{repo: repo, now: time.Now}
}

// SetStatus upserts the interaction record. The status value is assumed
// validated by the handler; it is re-checked here because repositories must
// never see values outside the closed set.
func (s *statusService) SetStatus(ctx context.Context, userID, repo string, issueNumber int, status string) (models.UserIssue, error) {
	if !models.ValidStatus(status) {
		return models.UserIssue{}, apierr.Validation(map[string]string{
			"status": "must be one of: saved, started, done",
		})
	}

	record := models.UserIssue{
		ID:          models.UserIssueKey(userID, repo, issueNumber),
		UserID:      userID,
		IssueNumber: issueNumber,
		Repo:        repo,
		Status:      status,
		UpdatedAt:   s.now(),
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return models.UserIssue{}, apierr.Internal(err)
	}
	return record, nil
}

func (s *statusService) Save(ctx context.Context, userID, repo string, issueNumber int) (models.UserIssue, error) {
	return s.SetStatus(ctx, userID, repo, issueNumber, models.StatusSaved)
}

func (s *statusService) Unsave(ctx context.Context, userID, repo string, issueNumber int) error {
	if err := s.repo.Delete(ctx, models.UserIssueKey(userID, repo, issueNumber)); err != nil {
		return apierr.Internal(err)
	}
	return nil
}

// List returns the caller's tracked issues, optionally filtered to one
// status. Empty status means all statuses.
func (s *statusService) List(ctx context.Context, userID, status string, page, limit int) (UserIssueList, error) {
	if status != "" && !models.ValidStatus(status) {
		return UserIssueList{}, apierr.Validation(map[string]string{
			"status": "must be one of: saved, started, done",
		})
	}

	records, total, err := s.repo.ListByUser(ctx, userID, status, page, limit)
	if err != nil {
		return UserIssueList{}, apierr.Internal(err)
	}
	if records == nil {
		records = []models.UserIssue{}
	}

	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return UserIssueList{
		Issues: records,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}
