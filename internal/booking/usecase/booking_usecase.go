package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booking-system/internal/booking/domain/model"
	"booking-system/internal/booking/domain/repository"
	apperrors "booking-system/internal/shared/errors"
)

// Usecase-level sentinels, re-exported from the shared taxonomy.
var (
	ErrBookingNotFound = apperrors.ErrBookingNotFound
	ErrNotOwner        = apperrors.ErrNotOwner
	ErrDateRequired    = errors.New("booking date is required")
)

// BookingUsecaseInterface defines the contract for booking use cases.
type BookingUsecaseInterface interface {
	CreateBooking(ctx context.Context, ownerID string, date time.Time) (*model.Booking, error)
	GetBooking(ctx context.Context, id string) (*model.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]*model.Booking, error)
	FirstUserBooking(ctx context.Context, userID string) (*model.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}

// BookingUsecase implements the booking logic.
type BookingUsecase struct {
	repo repository.BookingRepository
}

// NewBookingUsecase creates a new instance of BookingUsecase.
func NewBookingUsecase(repo repository.BookingRepository) *BookingUsecase {
	return &BookingUsecase{repo: repo}
}

// CreateBooking creates a booking owned by the given user. No per-user or
// per-date uniqueness is enforced; overlapping slots are an accepted policy.
func (uc *BookingUsecase) CreateBooking(ctx context.Context, ownerID string, date time.Time) (*model.Booking, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner is required")
	}
	if date.IsZero() {
		return nil, ErrDateRequired
	}

	booking := &model.Booking{
		Date:   date,
		UserID: ownerID,
	}

	if err := uc.repo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return booking, nil
}

// GetBooking retrieves a booking by its identifier.
func (uc *BookingUsecase) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// ListUserBookings returns the bookings owned by the given user.
func (uc *BookingUsecase) ListUserBookings(ctx context.Context, userID string) ([]*model.Booking, error) {
	bookings, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// FirstUserBooking returns the user's soonest booking.
func (uc *BookingUsecase) FirstUserBooking(ctx context.Context, userID string) (*model.Booking, error) {
	booking, err := uc.repo.FirstByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// DeleteBooking removes a booking by its identifier.
func (uc *BookingUsecase) DeleteBooking(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return nil
}

// Ensure BookingUsecase implements BookingUsecaseInterface
var _ BookingUsecaseInterface = (*BookingUsecase)(nil)
