package repository

import (
	"context"

	"booking-system/internal/auth/domain/model"
)

// SessionStore defines the persisted session lifecycle. Implementations must
// survive process restart and must never return a session past its expiry.
type SessionStore interface {
	// Create allocates and persists a new session for the given user and
	// returns it with its opaque identifier populated.
	Create(ctx context.Context, userID, displayName string) (*model.Session, error)

	// Get resolves a session by its opaque identifier. Absent or expired
	// sessions yield errors.ErrSessionNotFound.
	Get(ctx context.Context, sessionID string) (*model.Session, error)

	// Destroy removes a session. Destroying an absent session is a no-op.
	Destroy(ctx context.Context, sessionID string) error
}
