package mongodb

import (
	"context"
	"errors"
	"time"

	"booking-system/internal/auth/domain/model"
	apperrors "booking-system/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollectionName = "users"

// MongoUserRepository implements the UserRepository interface using MongoDB
type MongoUserRepository struct {
	db    *mongo.Database
	users *mongo.Collection
}

// NewMongoUserRepository creates a new MongoDB user repository and ensures
// its indexes.
func NewMongoUserRepository(db *mongo.Database) (*MongoUserRepository, error) {
	repo := &MongoUserRepository{
		db:    db,
		users: db.Collection(usersCollectionName),
	}

	ctx := context.Background()

	// Email index for users (unique)
	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.users.Indexes().CreateOne(ctx, emailIndex); err != nil {
		return nil, apperrors.NewInfrastructureError("failed to create email index").
			WithComponent("mongodb.user_repo").WithCause(err)
	}

	// ID index for UUID lookups. Sparse because legacy documents may only
	// carry an ObjectID.
	idIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetSparse(true),
	}
	if _, err := repo.users.Indexes().CreateOne(ctx, idIndex); err != nil {
		return nil, apperrors.NewInfrastructureError("failed to create id index").
			WithComponent("mongodb.user_repo").WithCause(err)
	}

	return repo, nil
}

// CreateUser creates a new user in the database
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if user.ID == "" {
		user.ID = primitive.NewObjectID().Hex()
	}

	doc := bson.M{
		"id":            user.ID,
		"user":          user.Name,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"created_at":    user.CreatedAt,
		"updated_at":    user.UpdatedAt,
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrEmailTaken
		}
		return err
	}

	return nil
}

// GetUserByEmail retrieves a user by email
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}

	var user model.User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if user.ID == "" && !user.ObjectID.IsZero() {
		user.ID = user.ObjectID.Hex()
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, errors.New("user ID cannot be empty")
	}

	var user model.User
	var err error

	// Documents created by this repository carry a string id field; fall back
	// to the ObjectID for documents imported from the old deployment.
	err = r.users.FindOne(ctx, bson.M{"id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if objectID, objErr := primitive.ObjectIDFromHex(id); objErr == nil {
			err = r.users.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
		}
	}

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if user.ID == "" && !user.ObjectID.IsZero() {
		user.ID = user.ObjectID.Hex()
	}

	return &user, nil
}
