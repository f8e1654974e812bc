package repository

import (
	"context"
	"recipehub/meal-planner/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository stores accounts and their profiles.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// UpdateProfile overwrites the profile attributes; email, role and
	// password hash are left untouched.
	UpdateProfile(ctx context.Context, user *domain.User) error
}

// RecipeRepository is the remote recipe collection.
type RecipeRepository interface {
	GetAll(ctx context.Context) ([]domain.Recipe, error)
	GetByID(ctx context.Context, id string) (*domain.Recipe, error)
	// Set writes the recipe under its ID, replacing any existing document.
	Set(ctx context.Context, recipe *domain.Recipe) error
	Delete(ctx context.Context, id string) error
}

// ScheduleRepository stores meal-slot entries. Results are in insertion order.
type ScheduleRepository interface {
	Create(ctx context.Context, entry *domain.ScheduleEntry) error
	FindMeals(ctx context.Context, userID string, date domain.Date, mealType domain.MealType) ([]domain.ScheduleEntry, error)
	FindDay(ctx context.Context, userID string, date domain.Date) ([]domain.ScheduleEntry, error)
	// Delete removes the entry only if it belongs to userID.
	Delete(ctx context.Context, userID, id string) error
}

// TrackerRepository stores one TrackerRecord per (user, date).
type TrackerRepository interface {
	// Upsert replaces the row for (record.UserID, record.Date).
	Upsert(ctx context.Context, record *domain.TrackerRecord) error
	GetByDate(ctx context.Context, userID string, date domain.Date) (*domain.TrackerRecord, error)
	// GetRange returns records with from <= date <= to in ascending date
	// order. An empty bound is open.
	GetRange(ctx context.Context, userID string, from, to domain.Date) ([]domain.TrackerRecord, error)
	// IncrementWater and AddCalories apply the delta atomically, creating a
	// default row first if none exists, and return the resulting row.
	IncrementWater(ctx context.Context, userID string, date domain.Date, delta int) (*domain.TrackerRecord, error)
	AddCalories(ctx context.Context, userID string, date domain.Date, amount float64) (*domain.TrackerRecord, error)
}

// SavedRecipeRepository stores (user, recipe) bookmark pairs.
type SavedRecipeRepository interface {
	Exists(ctx context.Context, userID, recipeID string) (bool, error)
	// Add and Remove are idempotent.
	Add(ctx context.Context, userID, recipeID string) error
	Remove(ctx context.Context, userID, recipeID string) error
	ListByUser(ctx context.Context, userID string) ([]domain.SavedRecipe, error)
}
