package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"issueradar/internal/apierr"
	"issueradar/internal/models"
)

type mockUserIssueRepo struct {
	mock.Mock
}

func (m *mockUserIssueRepo) Find(ctx context.Context, id string) (models.UserIssue, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.UserIssue), args.Bool(1), args.Error(2)
}

func (m *mockUserIssueRepo) Upsert(ctx context.Context, record models.UserIssue) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockUserIssueRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserIssueRepo) ListByUser(ctx context.Context, userID, status string, page, limit int) ([]models.UserIssue, int64, error) {
	args := m.Called(ctx, userID, status, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.UserIssue), args.Get(1).(int64), args.Error(2)
}

func TestSetStatus(t *testing.T) {
	repo := new(mockUserIssueRepo)
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(r models.UserIssue) bool {
		return r.ID == "u1:acme/widgets#7" &&
			r.Status == models.StatusStarted &&
			r.IssueNumber == 7 && r.Repo == "acme/widgets"
	})).Return(nil)

	svc := NewStatusService(repo)
	record, err := svc.SetStatus(context.Background(), "u1", "acme/widgets", 7, models.StatusStarted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusStarted, record.Status)
	repo.AssertExpectations(t)
}

func TestSetStatus_RejectsUnknownStatus(t *testing.T) {
	svc := NewStatusService(new(mockUserIssueRepo))
	_, err := svc.SetStatus(context.Background(), "u1", "acme/widgets", 7, "archived")

	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierr.CodeValidation, apiErr.Code)
	assert.Contains(t, apiErr.Details["status"], "saved, started, done")
}

func TestStatusList(t *testing.T) {
	repo := new(mockUserIssueRepo)
	repo.On("ListByUser", mock.Anything, "u1", models.StatusSaved, 1, 20).
		Return([]models.UserIssue{
			{ID: "u1:a/b#1", Status: models.StatusSaved},
		}, int64(41), nil)

	svc := NewStatusService(repo)
	list, err := svc.List(context.Background(), "u1", models.StatusSaved, 1, 20)
	require.NoError(t, err)

	assert.Len(t, list.Issues, 1)
	assert.Equal(t, int64(41), list.Pagination.Total)
	assert.Equal(t, 3, list.Pagination.TotalPages)
}

func TestStatusList_EmptyIsJSONArray(t *testing.T) {
	repo := new(mockUserIssueRepo)
	repo.On("ListByUser", mock.Anything, "u1", "", 1, 20).Return(nil, int64(0), nil)

	svc := NewStatusService(repo)
	list, err := svc.List(context.Background(), "u1", "", 1, 20)
	require.NoError(t, err)
	assert.NotNil(t, list.Issues)
	assert.Empty(t, list.Issues)
}
