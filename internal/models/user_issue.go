package models

import (
	"strconv"
	"time"
)

// Interaction states a user can record against an issue. Closed set; anything
// else fails validation.
const (
	StatusSaved   = "saved"
	StatusStarted = "started"
	StatusDone    = "done"
)

// ValidStatus reports whether s is one of the accepted interaction states.
func ValidStatus(s string) bool {
	switch s {
	case StatusSaved, StatusStarted, StatusDone:
		return true
	}
	return false
}

// UserIssue records one user's interaction state with one issue.
// The _id is "<userID>:<repo>#<issueNumber>" so upserts are naturally
// idempotent per user+issue.
type UserIssue struct {
	ID          string    `bson:"_id"          json:"-"`
	UserID      string    `bson:"user_id"      json:"-"`
	IssueNumber int       `bson:"issue_number" json:"issueNumber"`
	Repo        string    `bson:"repo"         json:"repo"` // "owner/name"
	Status      string    `bson:"status"       json:"status"`
	UpdatedAt   time.Time `bson:"updated_at"   json:"updatedAt"`
}

// UserIssueKey builds the composite _id for a user-issue record.
func UserIssueKey(userID, repo string, issueNumber int) string {
	return userID + ":" + repo + "#" + strconv.Itoa(issueNumber)
}
