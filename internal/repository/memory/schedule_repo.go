package memory

import (
	"context"
	"errors"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/repository"
	"slices"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleRepository implements repository.ScheduleRepository in memory.
type ScheduleRepository struct {
	faults
	mu      sync.RWMutex
	entries []domain.ScheduleEntry
}

func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{}
}

func (r *ScheduleRepository) Create(ctx context.Context, entry *domain.ScheduleEntry) error {
	if err := r.fault(); err != nil {
		return err
	}
	if entry.UserID == "" || entry.RecipeID == "" || entry.Date == "" || entry.MealType == "" {
		return errors.New("schedule entry requires userId, date, mealType and recipeId")
	}
	if entry.ID == "" {
		entry.ID = primitive.NewObjectID().Hex()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	r.entries = append(r.entries, *entry)
	r.mu.Unlock()
	return nil
}

func (r *ScheduleRepository) FindMeals(ctx context.Context, userID string, date domain.Date, mealType domain.MealType) ([]domain.ScheduleEntry, error) {
	return r.find(func(e domain.ScheduleEntry) bool {
		return e.UserID == userID && e.Date == date && e.MealType == mealType
	})
}

func (r *ScheduleRepository) FindDay(ctx context.Context, userID string, date domain.Date) ([]domain.ScheduleEntry, error) {
	return r.find(func(e domain.ScheduleEntry) bool {
		return e.UserID == userID && e.Date == date
	})
}

func (r *ScheduleRepository) find(match func(domain.ScheduleEntry) bool) ([]domain.ScheduleEntry, error) {
	if err := r.fault(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.ScheduleEntry{}
	for _, e := range r.entries {
		if match(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *ScheduleRepository) Delete(ctx context.Context, userID, id string) error {
	if err := r.fault(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i := slices.IndexFunc(r.entries, func(e domain.ScheduleEntry) bool {
		return e.ID == id && e.UserID == userID
	})
	if i < 0 {
		return repository.ErrNotFound
	}
	r.entries = slices.Delete(r.entries, i, i+1)
	return nil
}
