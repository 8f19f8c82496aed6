package models

import "time"

// RawIssue captures the fields we care about from GitHub's search API.
// Nullable upstream fields (body, assignee) are coerced to zero values at the
// fetch boundary so downstream code never deals with pointers.
type RawIssue struct {
	ID            int64     `json:"id"`
	Number        int       `json:"number"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	Labels        []string  `json:"labels"`
	State         string    `json:"state"`
	Comments      int       `json:"comments"`
	Assignee      string    `json:"assignee,omitempty"` // login, empty when unassigned
	HTMLURL       string    `json:"htmlUrl"`
	RepositoryURL string    `json:"-"` // API URL of the owning repo, used for the detail join
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// RepositoryDetail is the slice of repository metadata the engine needs for
// post-filtering and scoring.
type RepositoryDetail struct {
	FullName   string    `json:"fullName"`
	Language   string    `json:"language,omitempty"` // primary language, empty when GitHub reports null
	Stars      int       `json:"stars"`
	Forks      int       `json:"forks"`
	OpenIssues int       `json:"openIssues"`
	OwnerLogin string    `json:"ownerLogin"`
	OwnerType  string    `json:"ownerType"` // "User" | "Organization"
	UpdatedAt  time.Time `json:"updatedAt"`
}

// EnrichedIssue is the engine's output unit: a raw issue joined with its
// repository plus the derived classification and scoring fields. It is built
// fresh per request and never persisted.
type EnrichedIssue struct {
	RawIssue
	Repository   RepositoryDetail `json:"repository"`
	IsBounty     bool             `json:"isBounty"`
	Score        int              `json:"score"`
	MatchScore   int              `json:"matchScore"`
	MatchReasons []string         `json:"matchReasons,omitempty"`
}
