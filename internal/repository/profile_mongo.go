package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"issueradar/internal/models"
)

// ProfileMongo provides Mongo-backed persistence for user profiles.
type ProfileMongo struct {
	col *mongo.Collection
}

// NewProfileRepository returns a ProfileMongo operating on the "profiles"
// collection.
func NewProfileRepository(db *mongo.Database) *ProfileMongo {
	return &ProfileMongo{
		col: db.Collection("profiles"),
	}
}

// FindByUserID fetches a profile by user id. A missing document is reported
// through the bool, not an error, so callers can distinguish "no profile yet"
// from storage failures.
func (r *ProfileMongo) FindByUserID(ctx context.Context, userID string) (models.UserProfile, bool, error) {
	var profile models.UserProfile
	err := r.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.UserProfile{}, false, nil
	}
	if err != nil {
		return models.UserProfile{}, false, err
	}
	return profile, true, nil
}

// Upsert inserts or replaces the profile with the same _id.
func (r *ProfileMongo) Upsert(ctx context.Context, profile models.UserProfile) error {
	_, err := r.col.ReplaceOne(
		ctx,
		bson.M{"_id": profile.UserID},
		profile,
		options.Replace().SetUpsert(true),
	)
	return err
}
