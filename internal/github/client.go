// Package github is a minimal wrapper around GitHub's REST API v3.
// It is intentionally light—just the endpoints the feed engine requires:
// issue search, repository detail, and single-issue lookup. Raw payloads are
// validated and coerced here so the rest of the service only ever sees fully
// populated models.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"issueradar/internal/apierr"
	"issueradar/internal/models"
)

// detailConcurrency bounds the repository-detail fan-out so one feed request
// cannot flood the upstream API.
const detailConcurrency = 5

// Client issues authenticated requests against the GitHub REST API.
type Client struct {
	http    *http.Client
	baseURL string
	token   string // server-wide fallback, used when the caller passes ""
}

// NewClient returns a ready-to-use GitHub API client.
// token may be an empty string, but you will be subject to very low rate-limits.
func NewClient(token string) *Client {
	return &Client{
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: "https://api.github.com",
		token:   token,
	}
}

// ---- wire types ------------------------------------------------------------
//
// Pointers mark fields GitHub reports as null; they are coerced to zero
// values before leaving this package.

type searchResponse struct {
	TotalCount *int        `json:"total_count"`
	Items      []issueItem `json:"items"`
}

type issueItem struct {
	ID     *int64  `json:"id"`
	Number *int    `json:"number"`
	Title  *string `json:"title"`
	Body   *string `json:"body"`
	State  *string `json:"state"`
	Labels []struct {
		Name *string `json:"name"`
	} `json:"labels"`
	Comments *int `json:"comments"`
	Assignee *struct {
		Login string `json:"login"`
	} `json:"assignee"`
	HTMLURL       *string `json:"html_url"`
	RepositoryURL *string `json:"repository_url"`
	CreatedAt     *string `json:"created_at"`
	UpdatedAt     *string `json:"updated_at"`
}

type repoItem struct {
	FullName *string `json:"full_name"`
	Language *string `json:"language"`
	Stars    *int    `json:"stargazers_count"`
	Forks    *int    `json:"forks_count"`
	Open     *int    `json:"open_issues_count"`
	Owner    *struct {
		Login string `json:"login"`
		Type  string `json:"type"`
	} `json:"owner"`
	UpdatedAt *string `json:"updated_at"`
}

// ---- public API ------------------------------------------------------------

// SearchIssues runs one page of the issue search and returns the decoded
// items plus the upstream total count. Non-2xx responses become
// apierr.Upstream errors; rate-limit handling and retries are left to the
// HTTP client and are deliberately not done here.
func (c *Client) SearchIssues(ctx context.Context, query string, page, perPage int, token string) ([]models.RawIssue, int, error) {
	u := fmt.Sprintf("%s/search/issues?q=%s&page=%d&per_page=%d",
		c.baseURL, url.QueryEscape(query), page, perPage)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	c.addHeaders(req, token)

	var sr searchResponse
	if err := c.do(req, &sr); err != nil {
		return nil, 0, err
	}

	issues := make([]models.RawIssue, 0, len(sr.Items))
	for _, item := range sr.Items {
		issue, ok := coerceIssue(item)
		if !ok {
			// Malformed item: skip rather than poison the whole page.
			continue
		}
		issues = append(issues, issue)
	}

	total := len(issues)
	if sr.TotalCount != nil {
		total = *sr.TotalCount
	}
	return issues, total, nil
}

// GetIssue retrieves a single issue by number. The repo full name is required
// because GitHub has no global issue lookup by id alone.
func (c *Client) GetIssue(ctx context.Context, repo string, number int, token string) (models.RawIssue, error) {
	u := fmt.Sprintf("%s/repos/%s/issues/%d", c.baseURL, escapeRepo(repo), number)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return models.RawIssue{}, err
	}
	c.addHeaders(req, token)

	var item issueItem
	if err := c.do(req, &item); err != nil {
		return models.RawIssue{}, err
	}

	issue, ok := coerceIssue(item)
	if !ok {
		return models.RawIssue{}, apierr.Upstream(http.StatusOK, "issue payload missing required fields")
	}
	if issue.RepositoryURL == "" {
		issue.RepositoryURL = fmt.Sprintf("%s/repos/%s", c.baseURL, repo)
	}
	return issue, nil
}

// GetRepository fetches repository metadata from its API URL (as referenced
// by search results via repository_url).
func (c *Client) GetRepository(ctx context.Context, repoURL, token string) (models.RepositoryDetail, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, repoURL, nil)
	if err != nil {
		return models.RepositoryDetail{}, err
	}
	c.addHeaders(req, token)

	var item repoItem
	if err := c.do(req, &item); err != nil {
		return models.RepositoryDetail{}, err
	}
	return coerceRepo(item), nil
}

// GetRepositoryByName fetches repository metadata by "owner/name".
func (c *Client) GetRepositoryByName(ctx context.Context, fullName, token string) (models.RepositoryDetail, error) {
	return c.GetRepository(ctx, fmt.Sprintf("%s/repos/%s", c.baseURL, escapeRepo(fullName)), token)
}

// FetchRepositoryDetails resolves every distinct repository URL in repoURLs
// concurrently (bounded fan-out) and returns a URL-keyed map. Duplicate URLs
// are fetched once. A repository whose detail fetch 404s is simply absent
// from the map; any other failure aborts the whole batch.
func (c *Client) FetchRepositoryDetails(ctx context.Context, repoURLs []string, token string) (map[string]models.RepositoryDetail, error) {
	seen := make(map[string]struct{}, len(repoURLs))
	unique := make([]string, 0, len(repoURLs))
	for _, u := range repoURLs {
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}

	var mu sync.Mutex
	details := make(map[string]models.RepositoryDetail, len(unique))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(detailConcurrency)
	for _, repoURL := range unique {
		repoURL := repoURL
		g.Go(func() error {
			detail, err := c.GetRepository(ctx, repoURL, token)
			if err != nil {
				var apiErr *apierr.Error
				if errors.As(err, &apiErr) && apiErr.Code == apierr.CodeNotFound {
					return nil // repo deleted between search and detail fetch
				}
				return err
			}
			mu.Lock()
			details[repoURL] = detail
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return details, nil
}

// ---- internals -------------------------------------------------------------

// addHeaders sets authentication and Accept headers. An explicit per-request
// token wins over the client's fallback token.
func (c *Client) addHeaders(req *http.Request, token string) {
	req.Header.Set("Accept", "application/vnd.github+json")
	if token == "" {
		token = c.token
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("User-Agent", "issueradar-api")
}

// do executes the HTTP request and decodes JSON into v.
// 404 maps to apierr.NotFound, any other non-2xx to apierr.Upstream.
func (c *Client) do(req *http.Request, v interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return apierr.Upstream(0, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apierr.NotFound("upstream resource")
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apierr.Upstream(resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return apierr.Upstream(resp.StatusCode, "malformed JSON payload: "+err.Error())
	}
	return nil
}

// coerceIssue validates an issue payload and coerces nullable fields.
// Items without an id, number, or title are rejected.
func coerceIssue(item issueItem) (models.RawIssue, bool) {
	if item.ID == nil || item.Number == nil || item.Title == nil {
		return models.RawIssue{}, false
	}

	issue := models.RawIssue{
		ID:     *item.ID,
		Number: *item.Number,
		Title:  *item.Title,
	}
	if item.Body != nil {
		issue.Body = *item.Body
	}
	if item.State != nil {
		issue.State = *item.State
	}
	if item.Comments != nil {
		issue.Comments = *item.Comments
	}
	if item.Assignee != nil {
		issue.Assignee = item.Assignee.Login
	}
	if item.HTMLURL != nil {
		issue.HTMLURL = *item.HTMLURL
	}
	if item.RepositoryURL != nil {
		issue.RepositoryURL = *item.RepositoryURL
	}
	for _, l := range item.Labels {
		if l.Name != nil {
			issue.Labels = append(issue.Labels, *l.Name)
		}
	}
	issue.CreatedAt = parseTime(item.CreatedAt)
	issue.UpdatedAt = parseTime(item.UpdatedAt)
	return issue, true
}

// coerceRepo fills a RepositoryDetail from a repo payload; missing numeric
// fields become 0 and a null language stays empty.
func coerceRepo(item repoItem) models.RepositoryDetail {
	var detail models.RepositoryDetail
	if item.FullName != nil {
		detail.FullName = *item.FullName
	}
	if item.Language != nil {
		detail.Language = *item.Language
	}
	if item.Stars != nil {
		detail.Stars = *item.Stars
	}
	if item.Forks != nil {
		detail.Forks = *item.Forks
	}
	if item.Open != nil {
		detail.OpenIssues = *item.Open
	}
	if item.Owner != nil {
		detail.OwnerLogin = item.Owner.Login
		detail.OwnerType = item.Owner.Type
	}
	detail.UpdatedAt = parseTime(item.UpdatedAt)
	return detail
}

func parseTime(s *string) time.Time {
	if s == nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// escapeRepo path-escapes each segment of "owner/name" without escaping the
// separator itself.
func escapeRepo(fullName string) string {
	parts := strings.Split(fullName, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
