package memory

import (
	"context"
	"recipehub/meal-planner/internal/domain"
	"slices"
	"sync"
	"time"
)

// SavedRecipeRepository implements repository.SavedRecipeRepository in memory.
type SavedRecipeRepository struct {
	faults
	mu    sync.RWMutex
	saved []domain.SavedRecipe
}

func NewSavedRecipeRepository() *SavedRecipeRepository {
	return &SavedRecipeRepository{}
}

func (r *SavedRecipeRepository) index(userID, recipeID string) int {
	return slices.IndexFunc(r.saved, func(s domain.SavedRecipe) bool {
		return s.UserID == userID && s.RecipeID == recipeID
	})
}

func (r *SavedRecipeRepository) Exists(ctx context.Context, userID, recipeID string) (bool, error) {
	if err := r.fault(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index(userID, recipeID) >= 0, nil
}

func (r *SavedRecipeRepository) Add(ctx context.Context, userID, recipeID string) error {
	if err := r.fault(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index(userID, recipeID) >= 0 {
		return nil
	}
	r.saved = append(r.saved, domain.SavedRecipe{UserID: userID, RecipeID: recipeID, SavedAt: time.Now().UTC()})
	return nil
}

func (r *SavedRecipeRepository) Remove(ctx context.Context, userID, recipeID string) error {
	if err := r.fault(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.index(userID, recipeID); i >= 0 {
		r.saved = slices.Delete(r.saved, i, i+1)
	}
	return nil
}

func (r *SavedRecipeRepository) ListByUser(ctx context.Context, userID string) ([]domain.SavedRecipe, error) {
	if err := r.fault(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.SavedRecipe{}
	for _, s := range r.saved {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}
