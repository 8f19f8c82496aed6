package service

import (
	"fmt"
	"strings"

	"issueradar/internal/models"
)

// BuildQuery translates a normalized filter set into GitHub's search grammar.
// It always returns a syntactically valid query, degrading to the bare
// "is:issue is:open" when no filters are set.
//
// Language is deliberately excluded: the search grammar cannot filter issues
// by repository language, so that happens in the post-filter stage instead.
//
// Label, org, and repo terms are conjunctive—GitHub ANDs repeated qualifiers.
// Callers needing "any of these orgs" semantics must issue separate requests;
// a known limitation.
func BuildQuery(f models.FilterSet) string {
	parts := []string{"is:issue", "is:open"}

	if f.BountyOnly {
		parts = append(parts, `label:bounty OR label:reward OR label:paid OR "bounty" OR "reward" OR "paid"`)
	}
	for _, label := range f.Labels {
		parts = append(parts, fmt.Sprintf("label:%q", label))
	}
	for _, org := range f.Orgs {
		parts = append(parts, fmt.Sprintf("org:%q", org))
	}
	for _, repo := range f.Repos {
		parts = append(parts, fmt.Sprintf("repo:%q", repo))
	}

	return strings.Join(parts, " ")
}
