package models

import "time"

// UserProfile stores a user's declared preferences. Sets are kept exactly as
// the user entered them; the engine matches against them case-insensitively
// instead of normalizing storage.
type UserProfile struct {
	UserID         string    `bson:"_id"             json:"userId"`
	Languages      []string  `bson:"languages"       json:"languages"`
	Topics         []string  `bson:"topics"          json:"topics"`
	FollowedRepos  []string  `bson:"followed_repos"  json:"followedRepos"` // "owner/name"
	FollowedOrgs   []string  `bson:"followed_orgs"   json:"followedOrgs"`
	DefaultFilters FilterSet `bson:"default_filters" json:"defaultFilters"`
	GitHubToken    string    `bson:"github_token"    json:"-"` // write-only over the API
	CreatedAt      time.Time `bson:"created_at"      json:"createdAt"`
	UpdatedAt      time.Time `bson:"updated_at"      json:"updatedAt"`
}

// Session is a record written by the external login flow. The API only ever
// reads these; issuance and revocation live outside this service.
type Session struct {
	Token     string    `bson:"_id"        json:"-"`
	UserID    string    `bson:"user_id"    json:"userId"`
	ExpiresAt time.Time `bson:"expires_at" json:"expiresAt"`
}
