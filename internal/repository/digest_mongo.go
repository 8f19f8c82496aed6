package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"issueradar/internal/models"
)

// DigestMongo provides Mongo-backed persistence for digest subscriptions.
// One subscription per user.
type DigestMongo struct {
	col *mongo.Collection
}

// NewDigestRepository returns a DigestMongo operating on the
// "digest_subscriptions" collection.
func NewDigestRepository(db *mongo.Database) *DigestMongo {
	return &DigestMongo{
		col: db.Collection("digest_subscriptions"),
	}
}

// FindByUserID fetches the user's subscription, if any.
func (r *DigestMongo) FindByUserID(ctx context.Context, userID string) (models.DigestSubscription, bool, error) {
	var sub models.DigestSubscription
	err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&sub)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.DigestSubscription{}, false, nil
	}
	if err != nil {
		return models.DigestSubscription{}, false, err
	}
	return sub, true, nil
}

// Upsert inserts or replaces the subscription keyed by user id.
func (r *DigestMongo) Upsert(ctx context.Context, sub models.DigestSubscription) error {
	_, err := r.col.ReplaceOne(
		ctx,
		bson.M{"user_id": sub.UserID},
		sub,
		options.Replace().SetUpsert(true),
	)
	return err
}

// DeleteByUserID removes the user's subscription; removing a non-existent
// subscription is not an error.
func (r *DigestMongo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"user_id": userID})
	return err
}
