package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"issueradar/internal/models"
)

// UserIssueMongo provides Mongo-backed persistence for per-user issue
// interaction records (saved / started / done).
type UserIssueMongo struct {
	col *mongo.Collection
}

// NewUserIssueRepository returns a UserIssueMongo operating on the
// "user_issues" collection.
func NewUserIssueRepository(db *mongo.Database) *UserIssueMongo {
	return &UserIssueMongo{
		col: db.Collection("user_issues"),
	}
}

// Find fetches a record by its composite id ("user:owner/name#number").
func (r *UserIssueMongo) Find(ctx context.Context, id string) (models.UserIssue, bool, error) {
	var record models.UserIssue
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.UserIssue{}, false, nil
	}
	if err != nil {
		return models.UserIssue{}, false, err
	}
	return record, true, nil
}

// Upsert inserts or replaces the record with the same _id, making repeated
// status writes idempotent per user+issue.
func (r *UserIssueMongo) Upsert(ctx context.Context, record models.UserIssue) error {
	_, err := r.col.ReplaceOne(
		ctx,
		bson.M{"_id": record.ID},
		record,
		options.Replace().SetUpsert(true),
	)
	return err
}

// Delete removes the record; deleting a record that never existed is not an
// error.
func (r *UserIssueMongo) Delete(ctx context.Context, id string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ListByUser returns one page of a user's records, newest interaction first,
// plus the total count for pagination metadata. An empty status matches all
// statuses.
func (r *UserIssueMongo) ListByUser(ctx context.Context, userID, status string, page, limit int) ([]models.UserIssue, int64, error) {
	filter := bson.M{"user_id": userID}
	if status != "" {
		filter["status"] = status
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var records []models.UserIssue
	if err := cur.All(ctx, &records); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
