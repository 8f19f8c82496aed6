package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"issueradar/internal/apierr"
	"issueradar/internal/models"
	"issueradar/internal/service"
)

// ---- mocks -----------------------------------------------------------------

type mockFeedService struct {
	mock.Mock
}

func (m *mockFeedService) Feed(ctx context.Context, userID string, filters models.FilterSet, opts models.FeedOptions) (models.FeedResponse, error) {
	args := m.Called(ctx, userID, filters, opts)
	return args.Get(0).(models.FeedResponse), args.Error(1)
}

func (m *mockFeedService) IssueDetail(ctx context.Context, userID, repo string, number int) (models.IssueDetailResponse, error) {
	args := m.Called(ctx, userID, repo, number)
	return args.Get(0).(models.IssueDetailResponse), args.Error(1)
}

type mockStatusService struct {
	mock.Mock
}

func (m *mockStatusService) SetStatus(ctx context.Context, userID, repo string, issueNumber int, status string) (models.UserIssue, error) {
	args := m.Called(ctx, userID, repo, issueNumber, status)
	return args.Get(0).(models.UserIssue), args.Error(1)
}

func (m *mockStatusService) Save(ctx context.Context, userID, repo string, issueNumber int) (models.UserIssue, error) {
	args := m.Called(ctx, userID, repo, issueNumber)
	return args.Get(0).(models.UserIssue), args.Error(1)
}

func (m *mockStatusService) Unsave(ctx context.Context, userID, repo string, issueNumber int) error {
	args := m.Called(ctx, userID, repo, issueNumber)
	return args.Error(0)
}

func (m *mockStatusService) List(ctx context.Context, userID, status string, page, limit int) (service.UserIssueList, error) {
	args := m.Called(ctx, userID, status, page, limit)
	return args.Get(0).(service.UserIssueList), args.Error(1)
}

// fakeSessions accepts the token "valid" for user "u1".
type fakeSessions struct{}

func (fakeSessions) FindByToken(_ context.Context, token string) (models.Session, bool, error) {
	if token == "valid" {
		return models.Session{Token: token, UserID: "u1"}, true, nil
	}
	return models.Session{}, false, nil
}

func newTestApp(feedSvc service.FeedService, statusSvc service.StatusService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apierr.ErrorHandler})
	RegisterRoutes(app, fakeSessions{}, feedSvc, statusSvc, nil, nil)
	return app
}

type errorEnvelope struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func doRequest(t *testing.T, app *fiber.App, method, target, token, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeError(t *testing.T, raw []byte) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

// ---- tests -----------------------------------------------------------------

func TestFeed_RequiresSession(t *testing.T) {
	app := newTestApp(new(mockFeedService), new(mockStatusService))

	resp, raw := doRequest(t, app, http.MethodGet, "/api/v1/issues", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", decodeError(t, raw).Error.Code)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/v1/issues", "bogus", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFeed_HappyPath(t *testing.T) {
	feedSvc := new(mockFeedService)
	feedSvc.On("Feed", mock.Anything, "u1",
		mock.MatchedBy(func(f models.FilterSet) bool {
			return len(f.Languages) == 2 && f.Languages[0] == "go" && f.BountyOnly
		}),
		mock.MatchedBy(func(o models.FeedOptions) bool {
			return o.Page == 2 && o.Limit == 10 && o.SortBy == "score" && o.SortOrder == "desc"
		}),
	).Return(models.FeedResponse{
		Issues:     []models.EnrichedIssue{},
		Pagination: models.Pagination{Page: 2, Limit: 10},
	}, nil)

	app := newTestApp(feedSvc, new(mockStatusService))
	resp, _ := doRequest(t, app, http.MethodGet,
		"/api/v1/issues?languages=go,rust&bountyOnly=true&page=2&limit=10", "valid", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	feedSvc.AssertExpectations(t)
}

func TestFeed_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		target string
		field  string
	}{
		{"limit above feed cap", "/api/v1/issues?limit=101", "limit"},
		{"non-integer minStars", "/api/v1/issues?minStars=many", "minStars"},
		{"min above max", "/api/v1/issues?minStars=100&maxStars=10", "minStars"},
		{"unknown sortBy", "/api/v1/issues?sortBy=magic", "sortBy"},
		{"unknown sortOrder", "/api/v1/issues?sortOrder=sideways", "sortOrder"},
		{"bad bool", "/api/v1/issues?bountyOnly=yes", "bountyOnly"},
		{"malformed repo entry", "/api/v1/issues?repos=not-a-repo", "repos"},
	}

	app := newTestApp(new(mockFeedService), new(mockStatusService))
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := doRequest(t, app, http.MethodGet, tc.target, "valid", "")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			env := decodeError(t, raw)
			assert.Equal(t, "validation_failed", env.Error.Code)
			assert.Contains(t, env.Error.Details, tc.field)
		})
	}
}

func TestGetIssue_MissingRepoParam(t *testing.T) {
	app := newTestApp(new(mockFeedService), new(mockStatusService))

	resp, raw := doRequest(t, app, http.MethodGet, "/api/v1/issues/1347", "valid", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	env := decodeError(t, raw)
	assert.Equal(t, "missing_context", env.Error.Code)
	// The corrective example must reference the requested issue id.
	assert.Contains(t, env.Error.Details["example"], "1347")
}

func TestGetIssue(t *testing.T) {
	feedSvc := new(mockFeedService)
	feedSvc.On("IssueDetail", mock.Anything, "u1", "acme/widgets", 7).
		Return(models.IssueDetailResponse{
			Issue: models.EnrichedIssue{RawIssue: models.RawIssue{ID: 101, Number: 7}},
		}, nil)

	app := newTestApp(feedSvc, new(mockStatusService))
	resp, _ := doRequest(t, app, http.MethodGet, "/api/v1/issues/7?repo=acme/widgets", "valid", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	feedSvc.AssertExpectations(t)
}

func TestGetIssue_UpstreamNotFound(t *testing.T) {
	feedSvc := new(mockFeedService)
	feedSvc.On("IssueDetail", mock.Anything, "u1", "acme/gone", 9).
		Return(models.IssueDetailResponse{}, apierr.NotFound("upstream resource"))

	app := newTestApp(feedSvc, new(mockStatusService))
	resp, _ := doRequest(t, app, http.MethodGet, "/api/v1/issues/9?repo=acme/gone", "valid", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSetStatus_RejectsUnknownValue(t *testing.T) {
	statusSvc := new(mockStatusService)
	statusSvc.On("SetStatus", mock.Anything, "u1", "acme/widgets", 7, "archived").
		Return(models.UserIssue{}, apierr.Validation(map[string]string{
			"status": "must be one of: saved, started, done",
		}))

	app := newTestApp(new(mockFeedService), statusSvc)
	resp, raw := doRequest(t, app, http.MethodPut, "/api/v1/issues/7/status", "valid",
		`{"status": "archived", "repo": "acme/widgets"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, raw).Error.Details["status"], "saved, started, done")
}

func TestSaveAndUnsave(t *testing.T) {
	statusSvc := new(mockStatusService)
	statusSvc.On("Save", mock.Anything, "u1", "acme/widgets", 7).
		Return(models.UserIssue{Status: models.StatusSaved}, nil)
	statusSvc.On("Unsave", mock.Anything, "u1", "acme/widgets", 7).Return(nil)

	app := newTestApp(new(mockFeedService), statusSvc)

	resp, _ := doRequest(t, app, http.MethodPost, "/api/v1/issues/7/save?repo=acme/widgets", "valid", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodDelete, "/api/v1/issues/7/save?repo=acme/widgets", "valid", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	statusSvc.AssertExpectations(t)
}

func TestUserIssuesList_LimitCap(t *testing.T) {
	app := newTestApp(new(mockFeedService), new(mockStatusService))

	// The status listings cap at 50, tighter than the feed's 100.
	resp, raw := doRequest(t, app, http.MethodGet, "/api/v1/user/issues?limit=51", "valid", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, raw).Error.Details["limit"], "50")
}

func TestUserIssuesList(t *testing.T) {
	statusSvc := new(mockStatusService)
	statusSvc.On("List", mock.Anything, "u1", "saved", 1, 20).
		Return(service.UserIssueList{
			Issues:     []models.UserIssue{{Status: models.StatusSaved}},
			Pagination: models.Pagination{Page: 1, Limit: 20, Total: 1, TotalPages: 1},
		}, nil)

	app := newTestApp(new(mockFeedService), statusSvc)
	resp, _ := doRequest(t, app, http.MethodGet, "/api/v1/user/issues/saved", "valid", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	statusSvc.AssertExpectations(t)
}

func TestUserIssuesList_BadStatus(t *testing.T) {
	app := newTestApp(new(mockFeedService), new(mockStatusService))

	resp, raw := doRequest(t, app, http.MethodGet, "/api/v1/user/issues?status=archived", "valid", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, raw).Error.Details, "status")
}
