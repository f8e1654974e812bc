package mongo

import (
	"context"
	"log"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const savedRecipeCollectionName = "saved_recipes"

// mongoSavedRecipeRepository implements repository.SavedRecipeRepository
type mongoSavedRecipeRepository struct {
	collection *mongo.Collection
}

// NewMongoSavedRecipeRepository creates a new saved-recipe repository backed by MongoDB.
func NewMongoSavedRecipeRepository(db *mongo.Database) repository.SavedRecipeRepository {
	return &mongoSavedRecipeRepository{
		collection: db.Collection(savedRecipeCollectionName),
	}
}

func savedKey(userID, recipeID string) bson.M {
	return bson.M{"userId": userID, "recipeId": recipeID}
}

// Exists reports whether the user has saved the recipe.
func (r *mongoSavedRecipeRepository) Exists(ctx context.Context, userID, recipeID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, savedKey(userID, recipeID), options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Add saves the pair. Saving twice keeps the original savedAt.
func (r *mongoSavedRecipeRepository) Add(ctx context.Context, userID, recipeID string) error {
	update := bson.M{"$setOnInsert": bson.M{"savedAt": time.Now().UTC()}}
	_, err := r.collection.UpdateOne(ctx, savedKey(userID, recipeID), update, options.Update().SetUpsert(true))
	return err
}

// Remove deletes the pair; removing an absent pair is not an error.
func (r *mongoSavedRecipeRepository) Remove(ctx context.Context, userID, recipeID string) error {
	_, err := r.collection.DeleteOne(ctx, savedKey(userID, recipeID))
	return err
}

// ListByUser returns the user's saved recipes, oldest first.
func (r *mongoSavedRecipeRepository) ListByUser(ctx context.Context, userID string) ([]domain.SavedRecipe, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "savedAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	saved := []domain.SavedRecipe{}
	if err = cursor.All(ctx, &saved); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return saved, nil
}

// EnsureSavedRecipeIndexes creates necessary indexes. Call during startup.
func EnsureSavedRecipeIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "recipeId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
