package service

import (
	"strings"

	"issueradar/internal/models"
)

// FilterIssues applies the filters GitHub's search grammar cannot express:
// language (derived from repository metadata) and star bounds. It is pure and
// order-preserving; surviving records are never mutated.
func FilterIssues(issues []models.EnrichedIssue, f models.FilterSet) []models.EnrichedIssue {
	out := make([]models.EnrichedIssue, 0, len(issues))
	for _, issue := range issues {
		if !matchesLanguages(issue.Repository, f.Languages) {
			continue
		}
		if !matchesStars(issue.Repository.Stars, f.MinStars, f.MaxStars) {
			continue
		}
		out = append(out, issue)
	}
	return out
}

// matchesLanguages passes when any requested language either equals the
// repository's primary language (case-insensitive) or appears as a substring
// of the repository full name. The name heuristic is intentional: repos named
// "awesome-golang-tools" encode their language even when GitHub's detected
// primary language disagrees.
func matchesLanguages(repo models.RepositoryDetail, languages []string) bool {
	if len(languages) == 0 {
		return true
	}
	repoName := strings.ToLower(repo.FullName)
	repoLang := strings.ToLower(repo.Language)
	for _, lang := range languages {
		want := strings.ToLower(lang)
		if want == "" {
			continue
		}
		if repoLang != "" && repoLang == want {
			return true
		}
		if strings.Contains(repoName, want) {
			return true
		}
	}
	return false
}

// matchesStars checks min <= stars <= max for whichever bounds are set.
// A repository with no star count on file counts as 0 stars.
func matchesStars(stars int, min, max *int) bool {
	if min != nil && stars < *min {
		return false
	}
	if max != nil && stars > *max {
		return false
	}
	return true
}
