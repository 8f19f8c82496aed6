package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issueradar/internal/apierr"
)

// newTestClient points a Client at a mock HTTP server.
func newTestClient(server *httptest.Server) *Client {
	return &Client{
		http:    server.Client(),
		baseURL: server.URL,
		token:   "fallback-token",
	}
}

func TestSearchIssues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/issues", r.URL.Path)
		assert.Equal(t, "is:issue is:open", r.URL.Query().Get("q"))
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{
			"total_count": 2,
			"items": [
				{
					"id": 101, "number": 7, "title": "Fix leak",
					"body": null,
					"state": "open",
					"labels": [{"name": "bounty"}, {"name": null}],
					"comments": 3,
					"assignee": null,
					"html_url": "https://github.com/acme/widgets/issues/7",
					"repository_url": "https://api.github.com/repos/acme/widgets",
					"created_at": "2026-01-02T03:04:05Z",
					"updated_at": "2026-02-01T00:00:00Z"
				},
				{"title": "missing id and number, must be skipped"}
			]
		}`)
	}))
	defer server.Close()

	c := newTestClient(server)
	issues, total, err := c.SearchIssues(context.Background(), "is:issue is:open", 1, 100, "user-token")
	require.NoError(t, err)

	assert.Equal(t, 2, total)
	require.Len(t, issues, 1) // malformed item dropped

	issue := issues[0]
	assert.Equal(t, int64(101), issue.ID)
	assert.Equal(t, 7, issue.Number)
	assert.Equal(t, "", issue.Body) // null coerced
	assert.Equal(t, []string{"bounty"}, issue.Labels)
	assert.Equal(t, "https://api.github.com/repos/acme/widgets", issue.RepositoryURL)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), issue.CreatedAt)
}

func TestSearchIssues_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message": "rate limit exceeded"}`)
	}))
	defer server.Close()

	c := newTestClient(server)
	_, _, err := c.SearchIssues(context.Background(), "is:issue is:open", 1, 100, "")

	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierr.CodeUpstream, apiErr.Code)
	assert.Contains(t, apiErr.Message, "403")
}

func TestGetIssue_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(server)
	_, err := c.GetIssue(context.Background(), "acme/gone", 1, "")

	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierr.CodeNotFound, apiErr.Code)
}

func TestGetIssue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/issues/7", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"id": 101, "number": 7, "title": "Fix leak", "state": "open"}`)
	}))
	defer server.Close()

	c := newTestClient(server)
	issue, err := c.GetIssue(context.Background(), "acme/widgets", 7, "")
	require.NoError(t, err)
	assert.Equal(t, "Fix leak", issue.Title)
	// repository_url absent from the single-issue payload: derived instead
	assert.Equal(t, server.URL+"/repos/acme/widgets", issue.RepositoryURL)
}

func TestFetchRepositoryDetails_DeduplicatesURLs(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"full_name": "acme%s", "stargazers_count": 42, "language": "Go",
			"owner": {"login": "acme", "type": "Organization"}}`, r.URL.Path)
	}))
	defer server.Close()

	c := newTestClient(server)
	urlA := server.URL + "/repos/acme/a"
	urlB := server.URL + "/repos/acme/b"

	// Same repo referenced by many issues must be fetched exactly once.
	details, err := c.FetchRepositoryDetails(context.Background(),
		[]string{urlA, urlB, urlA, urlA, "", urlB}, "")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	require.Len(t, details, 2)
	assert.Equal(t, 42, details[urlA].Stars)
	assert.Equal(t, "Go", details[urlA].Language)
	assert.Equal(t, "Organization", details[urlA].OwnerType)
}

func TestFetchRepositoryDetails_MissingRepoIsSkipped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/acme/gone" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"full_name": "acme/here", "stargazers_count": 1}`)
	}))
	defer server.Close()

	c := newTestClient(server)
	details, err := c.FetchRepositoryDetails(context.Background(),
		[]string{server.URL + "/repos/acme/gone", server.URL + "/repos/acme/here"}, "")
	require.NoError(t, err)

	require.Len(t, details, 1)
	_, ok := details[server.URL+"/repos/acme/here"]
	assert.True(t, ok)
}

func TestFetchRepositoryDetails_UpstreamFailureAborts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := newTestClient(server)
	_, err := c.FetchRepositoryDetails(context.Background(), []string{server.URL + "/repos/a/b"}, "")

	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierr.CodeUpstream, apiErr.Code)
}

func TestAddHeaders_FallbackToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer fallback-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"total_count": 0, "items": []}`)
	}))
	defer server.Close()

	c := newTestClient(server)
	_, _, err := c.SearchIssues(context.Background(), "is:issue is:open", 1, 10, "")
	require.NoError(t, err)
}
