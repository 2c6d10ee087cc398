package repository

import (
	"context"
	"time"

	"booking-system/internal/booking/domain/model"
)

// BookingRepository defines the interface for booking persistence operations.
// Absent bookings yield errors.ErrBookingNotFound from the lookup and delete
// operations.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Booking, error)
	FirstByUser(ctx context.Context, userID string) (*model.Booking, error)
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes every booking whose date lies strictly before
	// the given instant in a single batched operation and reports how many
	// records were removed.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
