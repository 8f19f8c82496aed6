package service

import (
	"strings"

	"issueradar/internal/models"
)

// bountyTerms are matched exactly against lower-cased label names and as
// substrings of the lower-cased title.
var bountyTerms = []string{"bounty", "reward", "paid"}

// IsBounty reports whether an issue appears to carry a monetary incentive.
//
// This is a heuristic with known false positives (a title saying "no reward
// expected" still matches). Tightening it is a product decision; keep the
// classifier isolated here so the heuristic can be swapped without touching
// scoring.
func IsBounty(issue models.RawIssue) bool {
	for _, label := range issue.Labels {
		name := strings.ToLower(label)
		for _, term := range bountyTerms {
			if name == term {
				return true
			}
		}
	}

	title := strings.ToLower(issue.Title)
	for _, term := range bountyTerms {
		if strings.Contains(title, term) {
			return true
		}
	}
	return false
}
