package service

import (
	"context"
	"log"
	"strings"
	"time"

	"issueradar/internal/apierr"
	"issueradar/internal/models"
)

// ---- Collaborator contracts ------------------------------------------------

// IssueSearcher is the engine's only network dependency, implemented by the
// GitHub client.
type IssueSearcher interface {
	SearchIssues(ctx context.Context, query string, page, perPage int, token string) ([]models.RawIssue, int, error)
	FetchRepositoryDetails(ctx context.Context, repoURLs []string, token string) (map[string]models.RepositoryDetail, error)
	GetIssue(ctx context.Context, repo string, number int, token string) (models.RawIssue, error)
	GetRepositoryByName(ctx context.Context, fullName, token string) (models.RepositoryDetail, error)
}

// ProfileStore supplies stored user preferences, read-only from the engine's
// perspective.
type ProfileStore interface {
	FindByUserID(ctx context.Context, userID string) (models.UserProfile, bool, error)
}

// StatusReader looks up a user's recorded interaction with one issue.
type StatusReader interface {
	Find(ctx context.Context, id string) (models.UserIssue, bool, error)
}

// ---- Service interface + implementation ------------------------------------

// FeedService produces the personalized issue feed and single-issue lookups.
type FeedService interface {
	Feed(ctx context.Context, userID string, filters models.FilterSet, opts models.FeedOptions) (models.FeedResponse, error)
	IssueDetail(ctx context.Context, userID, repo string, number int) (models.IssueDetailResponse, error)
}

type feedService struct {
	profiles ProfileStore
	statuses StatusReader
	gh       IssueSearcher
	pageSize int // upstream fetch window per feed request
	now      func() time.Time
}

// NewFeedService wires the engine's collaborators. pageSize caps how many
// search results one feed request pulls before local pagination.
func NewFeedService(profiles ProfileStore, statuses StatusReader, gh IssueSearcher, pageSize int) FeedService {
	return &feedService{
		profiles: profiles,
		statuses: statuses,
		gh:       gh,
		pageSize: pageSize,
		now:      time.Now,
	}
}

// Feed runs the full pipeline: query build, search, repo-detail join,
// post-filter, classification, scoring, sort, paginate. All state is
// request-scoped; nothing computed here is ever persisted.
func (s *feedService) Feed(ctx context.Context, userID string, filters models.FilterSet, opts models.FeedOptions) (models.FeedResponse, error) {
	profile, ok, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return models.FeedResponse{}, apierr.Internal(err)
	}
	// Credential check happens before any upstream call.
	if !ok || profile.GitHubToken == "" {
		return models.FeedResponse{}, apierr.MissingCredential()
	}

	if filters.FollowedOnly {
		filters = withFollowed(filters, profile)
	}

	query := BuildQuery(filters)
	log.Printf("[Feed] user=%s query=%q", userID, query)

	raw, _, err := s.gh.SearchIssues(ctx, query, 1, s.pageSize, profile.GitHubToken)
	if err != nil {
		return models.FeedResponse{}, err
	}

	enriched, err := s.enrich(ctx, raw, profile.GitHubToken)
	if err != nil {
		return models.FeedResponse{}, err
	}

	now := s.now()
	for i := range enriched {
		enriched[i].IsBounty = IsBounty(enriched[i].RawIssue)
		enriched[i].Score = Score(enriched[i], now)
		enriched[i].MatchScore, enriched[i].MatchReasons = MatchScore(enriched[i], profile)
	}

	filtered := FilterIssues(enriched, filters)
	SortIssues(filtered, opts.SortBy, opts.SortOrder)
	page, meta := Paginate(filtered, opts.Page, opts.Limit)

	return models.FeedResponse{
		Issues:     page,
		Pagination: meta,
		Filters:    filters,
	}, nil
}

// IssueDetail fetches one issue directly (the upstream has no global lookup
// by id, hence the required repo), enriches it, and attaches the caller's
// personalization and interaction state.
func (s *feedService) IssueDetail(ctx context.Context, userID, repo string, number int) (models.IssueDetailResponse, error) {
	profile, hasProfile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return models.IssueDetailResponse{}, apierr.Internal(err)
	}

	raw, err := s.gh.GetIssue(ctx, repo, number, profile.GitHubToken)
	if err != nil {
		return models.IssueDetailResponse{}, err
	}

	issue := models.EnrichedIssue{RawIssue: raw}
	detail, err := s.gh.GetRepositoryByName(ctx, repo, profile.GitHubToken)
	if err != nil {
		// Non-fatal: serve the issue with the repo name alone rather than
		// failing the whole lookup over missing metadata.
		log.Printf("[Feed] repo detail fetch failed for %s: %v", repo, err)
		detail = models.RepositoryDetail{FullName: repo}
	}
	issue.Repository = detail
	issue.IsBounty = IsBounty(issue.RawIssue)
	issue.Score = Score(issue, s.now())

	resp := models.IssueDetailResponse{
		Personalization: models.Personalization{
			MatchReasons: []string{},
			HasProfile:   hasProfile,
		},
	}
	if hasProfile {
		issue.MatchScore, issue.MatchReasons = MatchScore(issue, profile)
		resp.Personalization.MatchScore = issue.MatchScore
		if issue.MatchReasons != nil {
			resp.Personalization.MatchReasons = issue.MatchReasons
		}
	}
	resp.Issue = issue

	if status, found, err := s.statuses.Find(ctx, models.UserIssueKey(userID, repo, number)); err == nil && found {
		resp.UserStatus = &status
	} else if err != nil {
		return models.IssueDetailResponse{}, apierr.Internal(err)
	}

	return resp, nil
}

// ---- helpers ---------------------------------------------------------------

// enrich joins each raw issue with its repository detail. Detail fetches are
// deduplicated by repository URL and fanned out by the client; an issue whose
// repository vanished keeps a stub detail derived from the URL.
func (s *feedService) enrich(ctx context.Context, raw []models.RawIssue, token string) ([]models.EnrichedIssue, error) {
	urls := make([]string, 0, len(raw))
	for _, issue := range raw {
		urls = append(urls, issue.RepositoryURL)
	}

	details, err := s.gh.FetchRepositoryDetails(ctx, urls, token)
	if err != nil {
		return nil, err
	}

	enriched := make([]models.EnrichedIssue, 0, len(raw))
	for _, issue := range raw {
		detail, found := details[issue.RepositoryURL]
		if !found {
			detail = models.RepositoryDetail{FullName: repoNameFromURL(issue.RepositoryURL)}
		}
		enriched = append(enriched, models.EnrichedIssue{
			RawIssue:   issue,
			Repository: detail,
		})
	}
	return enriched, nil
}

// withFollowed folds the profile's followed repos and orgs into a copy of the
// filter set; the incoming value is never mutated.
func withFollowed(f models.FilterSet, profile models.UserProfile) models.FilterSet {
	f.Repos = appendMissing(f.Repos, profile.FollowedRepos)
	f.Orgs = appendMissing(f.Orgs, profile.FollowedOrgs)
	return f
}

// appendMissing returns a fresh slice with extras appended unless already
// present (case-insensitive).
func appendMissing(base, extras []string) []string {
	out := make([]string, 0, len(base)+len(extras))
	out = append(out, base...)
	for _, e := range extras {
		if !containsFold(out, e) {
			out = append(out, e)
		}
	}
	return out
}

// repoNameFromURL extracts "owner/name" from an API repository URL.
func repoNameFromURL(u string) string {
	const marker = "/repos/"
	if i := strings.Index(u, marker); i >= 0 {
		return u[i+len(marker):]
	}
	return u
}
