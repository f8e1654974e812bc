package memory

import (
	"context"
	"errors"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/repository"
	"slices"
	"sync"
)

// RecipeRepository implements repository.RecipeRepository in memory.
// GetAll returns recipes in first-insertion order.
type RecipeRepository struct {
	faults
	mu      sync.RWMutex
	order   []string
	recipes map[string]domain.Recipe
}

func NewRecipeRepository(seed ...domain.Recipe) *RecipeRepository {
	r := &RecipeRepository{recipes: make(map[string]domain.Recipe)}
	for i := range seed {
		_ = r.Set(context.Background(), &seed[i])
	}
	return r
}

func cloneRecipe(rc domain.Recipe) domain.Recipe {
	rc.Ingredients = slices.Clone(rc.Ingredients)
	rc.Instructions = slices.Clone(rc.Instructions)
	return rc
}

func (r *RecipeRepository) GetAll(ctx context.Context) ([]domain.Recipe, error) {
	if err := r.fault(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Recipe, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneRecipe(r.recipes[id]))
	}
	return out, nil
}

func (r *RecipeRepository) GetByID(ctx context.Context, id string) (*domain.Recipe, error) {
	if err := r.fault(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rc, ok := r.recipes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rc = cloneRecipe(rc)
	return &rc, nil
}

func (r *RecipeRepository) Set(ctx context.Context, recipe *domain.Recipe) error {
	if err := r.fault(); err != nil {
		return err
	}
	if recipe.ID == "" {
		return errors.New("recipe ID is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.recipes[recipe.ID]; !ok {
		r.order = append(r.order, recipe.ID)
	}
	r.recipes[recipe.ID] = cloneRecipe(*recipe)
	return nil
}

func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	if err := r.fault(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.recipes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.recipes, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
	return nil
}
