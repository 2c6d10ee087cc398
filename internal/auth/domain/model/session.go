package model

import "time"

// Session binds an opaque client-held token to a user identity and an expiry.
// A session without a UserID is anonymous and never passes the auth gate.
type Session struct {
	ID          string    `json:"id" bson:"_id"`
	UserID      string    `json:"user_id" bson:"user_id,omitempty"`
	DisplayName string    `json:"display_name" bson:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	ExpiresAt   time.Time `json:"expires_at" bson:"expires_at"`
}

// IsAuthenticated reports whether the session is bound to a user.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != ""
}

// IsExpired reports whether the session has passed its expiry at the given time.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
