package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"issueradar/internal/models"
)

// SessionMongo reads session records written by the external login flow.
// This service never creates or revokes sessions.
type SessionMongo struct {
	col *mongo.Collection
}

// NewSessionRepository returns a SessionMongo operating on the "sessions"
// collection.
func NewSessionRepository(db *mongo.Database) *SessionMongo {
	return &SessionMongo{
		col: db.Collection("sessions"),
	}
}

// FindByToken looks up a session by its bearer token.
func (r *SessionMongo) FindByToken(ctx context.Context, token string) (models.Session, bool, error) {
	var session models.Session
	err := r.col.FindOne(ctx, bson.M{"_id": token}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Session{}, false, nil
	}
	if err != nil {
		return models.Session{}, false, err
	}
	return session, true, nil
}
