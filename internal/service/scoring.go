package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"issueradar/internal/models"
)

// Relevance bonuses. Star tiers are mutually exclusive: a 1500-star repo gets
// +30, not +50.
const (
	bountyBonus    = 50
	starsHighBonus = 30 // stars > 1000
	starsMidBonus  = 20 // stars > 100
	freshBonus     = 20 // updated within a day
	recentBonus    = 10 // updated within a week
)

// Score computes the relevance score for one enriched issue. Recency is
// measured against now in fractional days, so identical issues score
// differently across requests as time passes; scores are never persisted.
func Score(issue models.EnrichedIssue, now time.Time) int {
	score := 0

	if issue.IsBounty {
		score += bountyBonus
	}

	switch stars := issue.Repository.Stars; {
	case stars > 1000:
		score += starsHighBonus
	case stars > 100:
		score += starsMidBonus
	}

	switch days := now.Sub(issue.UpdatedAt).Hours() / 24; {
	case days < 1:
		score += freshBonus
	case days < 7:
		score += recentBonus
	}

	return score
}

// MatchScore measures profile-to-issue affinity on an axis independent from
// the relevance score. Each satisfied signal appends a human-readable reason,
// always in the order: language, followed repo, followed org, topic matches.
// Matching is case-insensitive over the profile's case-sensitive storage.
func MatchScore(issue models.EnrichedIssue, profile models.UserProfile) (int, []string) {
	score := 0
	var reasons []string

	if lang := issue.Repository.Language; lang != "" && containsFold(profile.Languages, lang) {
		score += 30
		reasons = append(reasons, fmt.Sprintf("Written in %s, one of your primary languages", lang))
	}

	if repo := issue.Repository.FullName; repo != "" && containsFold(profile.FollowedRepos, repo) {
		score += 25
		reasons = append(reasons, fmt.Sprintf("From %s, a repository you follow", repo))
	}

	if owner := issue.Repository.OwnerLogin; owner != "" && containsFold(profile.FollowedOrgs, owner) {
		score += 25
		reasons = append(reasons, fmt.Sprintf("From %s, an organization you follow", owner))
	}

	haystack := strings.ToLower(issue.Title + " " + issue.Body)
	topicMatches := 0
	for _, topic := range profile.Topics {
		t := strings.ToLower(topic)
		if t != "" && strings.Contains(haystack, t) {
			topicMatches++
			score += 10
		}
	}
	if topicMatches > 0 {
		reasons = append(reasons, fmt.Sprintf("Mentions %d of your topics", topicMatches))
	}

	return score, reasons
}

// SortIssues orders issues in place. The sort is stable and sortOrder flips
// the comparison, never the final slice, so equal elements keep their fetch
// order under both asc and desc.
func SortIssues(issues []models.EnrichedIssue, sortBy, sortOrder string) {
	less := lessFunc(sortBy)
	if sortOrder == models.SortOrderDesc {
		asc := less
		less = func(a, b models.EnrichedIssue) bool { return asc(b, a) }
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return less(issues[i], issues[j])
	})
}

// lessFunc returns a strict ascending comparison for the given sort key.
// Unknown keys fall back to score.
func lessFunc(sortBy string) func(a, b models.EnrichedIssue) bool {
	switch sortBy {
	case models.SortByStars:
		return func(a, b models.EnrichedIssue) bool { return a.Repository.Stars < b.Repository.Stars }
	case models.SortByOpenedAt:
		return func(a, b models.EnrichedIssue) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case models.SortByUpdatedAt:
		return func(a, b models.EnrichedIssue) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	default:
		return func(a, b models.EnrichedIssue) bool { return a.Score < b.Score }
	}
}

// containsFold reports whether set contains s under case-insensitive
// comparison.
func containsFold(set []string, s string) bool {
	for _, v := range set {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
