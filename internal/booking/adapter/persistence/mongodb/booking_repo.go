package mongodb

import (
	"context"
	"errors"
	"time"

	"booking-system/internal/booking/domain/model"
	apperrors "booking-system/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const bookingsCollectionName = "bookings"

// MongoBookingRepository implements the BookingRepository interface using MongoDB
type MongoBookingRepository struct {
	db       *mongo.Database
	bookings *mongo.Collection
}

// NewMongoBookingRepository creates a new MongoDB booking repository and
// ensures its indexes.
func NewMongoBookingRepository(db *mongo.Database) (*MongoBookingRepository, error) {
	repo := &MongoBookingRepository{
		db:       db,
		bookings: db.Collection(bookingsCollectionName),
	}

	ctx := context.Background()

	// Date index: the sweeper's bulk delete and date-ordered listings both
	// range over it.
	dateIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "date", Value: 1}},
	}
	if _, err := repo.bookings.Indexes().CreateOne(ctx, dateIndex); err != nil {
		return nil, apperrors.NewInfrastructureError("failed to create date index").
			WithComponent("mongodb.booking_repo").WithCause(err)
	}

	// Owner index for per-user listings.
	userIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	}
	if _, err := repo.bookings.Indexes().CreateOne(ctx, userIndex); err != nil {
		return nil, apperrors.NewInfrastructureError("failed to create user index").
			WithComponent("mongodb.booking_repo").WithCause(err)
	}

	return repo, nil
}

// Create inserts a new booking and populates its generated identifier.
func (r *MongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if booking == nil {
		return errors.New("booking cannot be nil")
	}
	if booking.UserID == "" {
		return errors.New("booking owner cannot be empty")
	}

	booking.CreatedAt = time.Now()
	if booking.ObjectID.IsZero() {
		booking.ObjectID = primitive.NewObjectID()
	}

	if _, err := r.bookings.InsertOne(ctx, booking); err != nil {
		return err
	}

	booking.ID = booking.ObjectID.Hex()
	return nil
}

// GetByID retrieves a booking by its identifier.
func (r *MongoBookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrBookingNotFound
	}

	var booking model.Booking
	err = r.bookings.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, err
	}

	booking.ID = booking.ObjectID.Hex()
	return &booking, nil
}

// ListByUser returns all bookings owned by the given user, soonest first.
func (r *MongoBookingRepository) ListByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.bookings.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bookings := make([]*model.Booking, 0)
	for cursor.Next(ctx) {
		var booking model.Booking
		if err := cursor.Decode(&booking); err != nil {
			return nil, err
		}
		booking.ID = booking.ObjectID.Hex()
		bookings = append(bookings, &booking)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

// FirstByUser returns the user's soonest booking.
func (r *MongoBookingRepository) FirstByUser(ctx context.Context, userID string) (*model.Booking, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: 1}})

	var booking model.Booking
	err := r.bookings.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, err
	}

	booking.ID = booking.ObjectID.Hex()
	return &booking, nil
}

// Delete removes a booking by its identifier. Deleting an absent booking
// yields ErrBookingNotFound.
func (r *MongoBookingRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrBookingNotFound
	}

	result, err := r.bookings.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrBookingNotFound
	}

	return nil
}

// DeleteExpired removes every booking dated strictly before the given
// instant in a single bulk operation.
func (r *MongoBookingRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.bookings.DeleteMany(ctx, bson.M{"date": bson.M{"$lt": before}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
