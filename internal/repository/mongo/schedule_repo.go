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

const scheduleCollectionName = "schedule_entries"

// insertion order; ObjectID hex ids break createdAt ties
var scheduleSort = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}

// mongoScheduleRepository implements repository.ScheduleRepository
type mongoScheduleRepository struct {
	collection *mongo.Collection
}

// NewMongoScheduleRepository creates a new schedule repository backed by MongoDB.
func NewMongoScheduleRepository(db *mongo.Database) repository.ScheduleRepository {
	return &mongoScheduleRepository{
		collection: db.Collection(scheduleCollectionName),
	}
}

// Create inserts a new schedule entry. Duplicate slots are allowed.
func (r *mongoScheduleRepository) Create(ctx context.Context, entry *domain.ScheduleEntry) error {
	if entry.UserID == "" || entry.RecipeID == "" || entry.Date == "" || entry.MealType == "" {
		return errors.New("schedule entry requires userId, date, mealType and recipeId")
	}
	if entry.ID == "" {
		entry.ID = primitive.NewObjectID().Hex()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// FindMeals returns the entries of one meal slot.
func (r *mongoScheduleRepository) FindMeals(ctx context.Context, userID string, date domain.Date, mealType domain.MealType) ([]domain.ScheduleEntry, error) {
	filter := bson.M{
		"userId":   userID,
		"date":     date,
		"mealType": mealType,
	}
	return r.find(ctx, filter)
}

// FindDay returns all entries of a user's day across meal types.
func (r *mongoScheduleRepository) FindDay(ctx context.Context, userID string, date domain.Date) ([]domain.ScheduleEntry, error) {
	return r.find(ctx, bson.M{"userId": userID, "date": date})
}

func (r *mongoScheduleRepository) find(ctx context.Context, filter bson.M) ([]domain.ScheduleEntry, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(scheduleSort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []domain.ScheduleEntry{}
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Delete removes an entry, ensuring it belongs to the specified user.
func (r *mongoScheduleRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// missing or owned by someone else
		return repository.ErrNotFound
	}
	return nil
}

// EnsureScheduleIndexes creates necessary indexes. Call during startup.
func EnsureScheduleIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Not unique: a slot may hold several recipes.
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "date", Value: 1},
				{Key: "mealType", Value: 1},
				{Key: "createdAt", Value: 1},
			},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
