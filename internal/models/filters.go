package models

// FilterSet is the normalized filter state for one feed request. Absent
// fields impose no constraint: a nil slice or nil pointer means "open
// filter", never "match nothing".
type FilterSet struct {
	Languages    []string `bson:"languages,omitempty"     json:"languages,omitempty"`
	Labels       []string `bson:"labels,omitempty"        json:"labels,omitempty"`
	MinStars     *int     `bson:"min_stars,omitempty"     json:"minStars,omitempty"`
	MaxStars     *int     `bson:"max_stars,omitempty"     json:"maxStars,omitempty"`
	Orgs         []string `bson:"orgs,omitempty"          json:"orgs,omitempty"`
	Repos        []string `bson:"repos,omitempty"         json:"repos,omitempty"`
	BountyOnly   bool     `bson:"bounty_only,omitempty"   json:"bountyOnly"`
	FollowedOnly bool     `bson:"followed_only,omitempty" json:"followedOnly"`
}

// Sort keys accepted by the feed endpoint.
const (
	SortByScore     = "score"
	SortByStars     = "stars"
	SortByOpenedAt  = "openedAt"
	SortByUpdatedAt = "updatedAt"

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// FeedOptions carries pagination and ordering for one feed request.
type FeedOptions struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Pagination is the derived page metadata; total and totalPages are computed
// per request, never stored.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// FeedResponse is the public payload of GET /issues.
type FeedResponse struct {
	Issues     []EnrichedIssue `json:"issues"`
	Pagination Pagination      `json:"pagination"`
	Filters    FilterSet       `json:"filters"`
}

// Personalization reports profile affinity for a single issue.
type Personalization struct {
	MatchScore   int      `json:"matchScore"`
	MatchReasons []string `json:"matchReasons"`
	HasProfile   bool     `json:"hasProfile"`
}

// IssueDetailResponse is the public payload of GET /issues/:id.
type IssueDetailResponse struct {
	Issue           EnrichedIssue   `json:"issue"`
	Personalization Personalization `json:"personalization"`
	UserStatus      *UserIssue      `json:"userStatus,omitempty"`
}
