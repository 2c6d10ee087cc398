package mongodb

import (
	"context"
	"errors"
	"time"

	"booking-system/internal/auth/adapter/security"
	"booking-system/internal/auth/domain/model"
	apperrors "booking-system/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionsCollectionName = "sessions"

// MongoSessionStore implements the SessionStore interface using MongoDB,
// one document per active session keyed by the opaque identifier.
type MongoSessionStore struct {
	db       *mongo.Database
	sessions *mongo.Collection
	ttl      time.Duration
	now      func() time.Time
}

// NewMongoSessionStore creates a session store backed by the sessions
// collection and ensures its TTL index.
func NewMongoSessionStore(db *mongo.Database, ttl time.Duration) (*MongoSessionStore, error) {
	store := &MongoSessionStore{
		db:       db,
		sessions: db.Collection(sessionsCollectionName),
		ttl:      ttl,
		now:      time.Now,
	}

	// TTL index so MongoDB reaps expired sessions on its own. The monitor
	// runs on a coarse interval, so Get still checks expiry explicitly.
	expiresAtIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := store.sessions.Indexes().CreateOne(context.Background(), expiresAtIndex); err != nil {
		return nil, apperrors.NewInfrastructureError("failed to create session TTL index").
			WithComponent("mongodb.session_store").WithCause(err)
	}

	return store, nil
}

// Create allocates a new session record and persists it.
func (s *MongoSessionStore) Create(ctx context.Context, userID, displayName string) (*model.Session, error) {
	id, err := security.GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := &model.Session{
		ID:          id,
		UserID:      userID,
		DisplayName: displayName,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}

	if _, err := s.sessions.InsertOne(ctx, session); err != nil {
		return nil, apperrors.NewInfrastructureError("failed to persist session").
			WithComponent("mongodb.session_store").WithCause(err)
	}

	return session, nil
}

// Get resolves a session by its opaque identifier. A document past its
// expiry that the TTL monitor has not reaped yet is treated as absent.
func (s *MongoSessionStore) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, apperrors.ErrSessionNotFound
	}

	var session model.Session
	err := s.sessions.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, err
	}

	if session.IsExpired(s.now()) {
		// Eager reap; the TTL index would catch it eventually.
		_, _ = s.sessions.DeleteOne(ctx, bson.M{"_id": sessionID})
		return nil, apperrors.ErrSessionNotFound
	}

	return &session, nil
}

// Destroy removes a session. Removing an absent session is a no-op.
func (s *MongoSessionStore) Destroy(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if _, err := s.sessions.DeleteOne(ctx, bson.M{"_id": sessionID}); err != nil {
		return apperrors.NewInfrastructureError("failed to destroy session").
			WithComponent("mongodb.session_store").WithCause(err)
	}
	return nil
}
