package mongo

import (
	"context"
	"errors"
	"log"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const recipeCollectionName = "recipes"

// mongoRecipeRepository implements repository.RecipeRepository
type mongoRecipeRepository struct {
	collection *mongo.Collection
}

// NewMongoRecipeRepository creates a new Recipe repository backed by MongoDB.
func NewMongoRecipeRepository(db *mongo.Database) repository.RecipeRepository {
	return &mongoRecipeRepository{
		collection: db.Collection(recipeCollectionName),
	}
}

// GetAll returns every recipe in natural collection order.
func (r *mongoRecipeRepository) GetAll(ctx context.Context) ([]domain.Recipe, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	recipes := []domain.Recipe{}
	if err = cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return recipes, nil
}

// GetByID retrieves a recipe by its ID.
func (r *mongoRecipeRepository) GetByID(ctx context.Context, id string) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&recipe)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// Set replaces the document stored under recipe.ID, inserting it if absent.
// A reused ID overwrites the previous recipe.
func (r *mongoRecipeRepository) Set(ctx context.Context, recipe *domain.Recipe) error {
	if recipe.ID == "" {
		return errors.New("recipe ID is required")
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": recipe.ID}, recipe, opts)
	return err
}

// Delete removes a recipe by ID.
func (r *mongoRecipeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureRecipeIndexes creates necessary indexes for the recipes collection.
func EnsureRecipeIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// "My Recipes"
			Keys:    bson.D{{Key: "authorId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
