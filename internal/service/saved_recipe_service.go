package service

import (
	"context"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/repository"
	"sync"
)

// SavedRecipeService manages a user's bookmarked recipes.
type SavedRecipeService interface {
	IsSaved(ctx context.Context, userID, recipeID string) (bool, error)
	// Save and Unsave are idempotent.
	Save(ctx context.Context, userID, recipeID string) error
	Unsave(ctx context.Context, userID, recipeID string) error
	// Toggle flips membership and returns the new state.
	Toggle(ctx context.Context, userID, recipeID string) (bool, error)
	// ListSaved returns the saved recipes known to the recipe cache, oldest
	// bookmark first, narrowed by q.
	ListSaved(ctx context.Context, userID string, q RecipeQuery) ([]domain.Recipe, error)
}

type savedRecipeService struct {
	savedRepo repository.SavedRecipeRepository
	store     RecipeStore

	// serialises read-then-write toggles within this process
	toggleMu sync.Mutex
}

// NewSavedRecipeService creates a new instance of savedRecipeService.
func NewSavedRecipeService(savedRepo repository.SavedRecipeRepository, store RecipeStore) SavedRecipeService {
	return &savedRecipeService{savedRepo: savedRepo, store: store}
}

func validatePair(userID, recipeID string) error {
	if userID == "" || recipeID == "" {
		return validationErrorf("user id and recipe id are required")
	}
	return nil
}

func (s *savedRecipeService) IsSaved(ctx context.Context, userID, recipeID string) (bool, error) {
	if err := validatePair(userID, recipeID); err != nil {
		return false, err
	}
	ok, err := s.savedRepo.Exists(ctx, userID, recipeID)
	if err != nil {
		return false, transportError("check saved recipe", err)
	}
	return ok, nil
}

func (s *savedRecipeService) Save(ctx context.Context, userID, recipeID string) error {
	if err := validatePair(userID, recipeID); err != nil {
		return err
	}
	return transportError("save recipe", s.savedRepo.Add(ctx, userID, recipeID))
}

func (s *savedRecipeService) Unsave(ctx context.Context, userID, recipeID string) error {
	if err := validatePair(userID, recipeID); err != nil {
		return err
	}
	return transportError("unsave recipe", s.savedRepo.Remove(ctx, userID, recipeID))
}

func (s *savedRecipeService) Toggle(ctx context.Context, userID, recipeID string) (bool, error) {
	s.toggleMu.Lock()
	defer s.toggleMu.Unlock()

	saved, err := s.IsSaved(ctx, userID, recipeID)
	if err != nil {
		return false, err
	}
	if saved {
		return false, s.Unsave(ctx, userID, recipeID)
	}
	return true, s.Save(ctx, userID, recipeID)
}

func (s *savedRecipeService) ListSaved(ctx context.Context, userID string, q RecipeQuery) ([]domain.Recipe, error) {
	if userID == "" {
		return nil, validationErrorf("user id is required")
	}
	saved, err := s.savedRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, transportError("list saved recipes", err)
	}

	recipes := make([]domain.Recipe, 0, len(saved))
	for _, sr := range saved {
		// recipes deleted since they were saved are skipped
		if r, ok := s.store.GetByID(sr.RecipeID); ok {
			recipes = append(recipes, *r)
		}
	}
	return FilterRecipes(recipes, q), nil
}
