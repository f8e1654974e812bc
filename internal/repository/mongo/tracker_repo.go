package mongo

import (
	"context"
	"errors"
	"log"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const trackerCollectionName = "tracker_records"

// mongoTrackerRepository implements repository.TrackerRepository
type mongoTrackerRepository struct {
	collection *mongo.Collection
}

// NewMongoTrackerRepository creates a new tracker repository backed by MongoDB.
func NewMongoTrackerRepository(db *mongo.Database) repository.TrackerRepository {
	return &mongoTrackerRepository{
		collection: db.Collection(trackerCollectionName),
	}
}

func trackerKey(userID string, date domain.Date) bson.M {
	return bson.M{"userId": userID, "date": date}
}

// Upsert replaces the whole row for the record's (userId, date).
func (r *mongoTrackerRepository) Upsert(ctx context.Context, record *domain.TrackerRecord) error {
	if record.UserID == "" || record.Date == "" {
		return errors.New("tracker record requires userId and date")
	}
	record.UpdatedAt = time.Now().UTC()

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, trackerKey(record.UserID, record.Date), record, opts)
	return err
}

// GetByDate retrieves the record for one day.
func (r *mongoTrackerRepository) GetByDate(ctx context.Context, userID string, date domain.Date) (*domain.TrackerRecord, error) {
	var record domain.TrackerRecord
	err := r.collection.FindOne(ctx, trackerKey(userID, date)).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// GetRange returns the user's records between from and to inclusive, oldest first.
func (r *mongoTrackerRepository) GetRange(ctx context.Context, userID string, from, to domain.Date) ([]domain.TrackerRecord, error) {
	filter := bson.M{"userId": userID}
	bounds := bson.M{}
	if from != "" {
		bounds["$gte"] = from
	}
	if to != "" {
		bounds["$lte"] = to
	}
	if len(bounds) > 0 {
		filter["date"] = bounds
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []domain.TrackerRecord{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// IncrementWater adds delta glasses server-side so concurrent increments
// never overwrite each other.
func (r *mongoTrackerRepository) IncrementWater(ctx context.Context, userID string, date domain.Date, delta int) (*domain.TrackerRecord, error) {
	update := bson.M{
		"$inc":         bson.M{"waterIntake": delta},
		"$set":         bson.M{"updatedAt": time.Now().UTC()},
		"$setOnInsert": bson.M{"weight": 0.0, "caloriesIntake": 0.0},
	}
	return r.applyAtomic(ctx, userID, date, update)
}

// AddCalories adds amount to caloriesIntake server-side.
func (r *mongoTrackerRepository) AddCalories(ctx context.Context, userID string, date domain.Date, amount float64) (*domain.TrackerRecord, error) {
	update := bson.M{
		"$inc":         bson.M{"caloriesIntake": amount},
		"$set":         bson.M{"updatedAt": time.Now().UTC()},
		"$setOnInsert": bson.M{"weight": 0.0, "waterIntake": 0},
	}
	return r.applyAtomic(ctx, userID, date, update)
}

func (r *mongoTrackerRepository) applyAtomic(ctx context.Context, userID string, date domain.Date, update bson.M) (*domain.TrackerRecord, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var record domain.TrackerRecord
	err := r.collection.FindOneAndUpdate(ctx, trackerKey(userID, date), update, opts).Decode(&record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// EnsureTrackerIndexes creates necessary indexes. Call during startup.
func EnsureTrackerIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// one row per user and day; also serves range scans
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
