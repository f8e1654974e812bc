package mongo

import (
	"context"
	"errors"
	"log"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const userCollectionName = "users"

// mongoUserRepository implements the repository.UserRepository interface using MongoDB.
type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
// It expects a connected *mongo.Database instance.
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(userCollectionName),
	}
}

// Create inserts a new user into the database.
func (r *mongoUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" || user.PasswordHash == "" || user.Role == "" {
		return primitive.NilObjectID, errors.New("user email, password hash, and role are required")
	}

	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		// email carries a unique index
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByEmail retrieves a user by their email address.
func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	filter := bson.M{"email": email}

	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by their MongoDB ObjectID.
func (r *mongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var user domain.User
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile overwrites the free-form profile fields of a user.
func (r *mongoUserRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	if user.ID == primitive.NilObjectID {
		return errors.New("user ID is required for update")
	}

	user.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":       user.Name,
			"phone":      user.Phone,
			"country":    user.Country,
			"gender":     user.Gender,
			"pictureUrl": user.PictureURL,
			"updatedAt":  user.UpdatedAt,
			// email, role and passwordHash are not profile fields
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureUserIndexes creates necessary indexes for the users collection.
// Call this once during application startup.
func EnsureUserIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
