package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking represents a reserved time slot. The owner never changes after
// creation; the record is deleted either explicitly by its owner or by the
// expiration sweeper once its date has passed.
type Booking struct {
	ObjectID  primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ID        string             `json:"id" bson:"-"`
	Date      time.Time          `json:"date" bson:"date"`
	UserID    string             `json:"user_id" bson:"user_id"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// IsOwnedBy reports whether the booking belongs to the given user.
func (b *Booking) IsOwnedBy(userID string) bool {
	return b != nil && userID != "" && b.UserID == userID
}

// IsExpired reports whether the booking's date lies strictly before the
// given time.
func (b *Booking) IsExpired(now time.Time) bool {
	return b.Date.Before(now)
}
