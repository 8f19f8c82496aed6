package models

import "time"

// Digest frequencies accepted by POST /digest/subscribe.
const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
)

// ValidFrequency reports whether f is an accepted digest frequency.
func ValidFrequency(f string) bool {
	return f == FrequencyDaily || f == FrequencyWeekly
}

// DigestSubscription records a user's wish to receive an email digest of
// their feed. Delivery itself is handled by a separate worker; this service
// only maintains the records.
type DigestSubscription struct {
	ID        string    `bson:"_id"        json:"id"`
	UserID    string    `bson:"user_id"    json:"-"`
	Email     string    `bson:"email"      json:"email"`
	Frequency string    `bson:"frequency"  json:"frequency"`
	Filters   FilterSet `bson:"filters"    json:"filters"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
