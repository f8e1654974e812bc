package service

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/repository"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var ErrRecipeNotFound = errors.New("recipe not found")

// RecipeStore is a read-through cache of the whole recipe collection.
// Reads are served from the last refreshed snapshot only.
type RecipeStore interface {
	// Refresh fetches every recipe and swaps the cache in one step.
	Refresh(ctx context.Context) ([]domain.Recipe, error)
	// EnsureFresh refreshes when the cache is missing, invalidated by a
	// write, or older than maxAge.
	EnsureFresh(ctx context.Context, maxAge time.Duration) error
	Recipes() []domain.Recipe
	// Categories lists distinct category values in first-seen order.
	Categories() []string
	GetByID(id string) (*domain.Recipe, bool)
	Search(q RecipeQuery) []domain.Recipe
	Trending(q RecipeQuery, rng *rand.Rand) []domain.Recipe
	// AddRecipe writes the recipe under its ID, overwriting any recipe that
	// already uses it. An empty ID gets a new UUID.
	AddRecipe(ctx context.Context, recipe *domain.Recipe) error
	DeleteRecipe(ctx context.Context, id string) error
}

// recipeSnapshot is immutable once published.
type recipeSnapshot struct {
	recipes    []domain.Recipe
	byID       map[string]int
	categories []string
	fetchedAt  time.Time
}

func newRecipeSnapshot(recipes []domain.Recipe, fetchedAt time.Time) *recipeSnapshot {
	snap := &recipeSnapshot{
		recipes:    recipes,
		byID:       make(map[string]int, len(recipes)),
		categories: []string{},
		fetchedAt:  fetchedAt,
	}
	seen := make(map[string]bool)
	for i, r := range recipes {
		snap.byID[r.ID] = i
		if !seen[r.Category] {
			seen[r.Category] = true
			snap.categories = append(snap.categories, r.Category)
		}
	}
	return snap
}

const refreshTimeout = 30 * time.Second

type recipeStore struct {
	repo     repository.RecipeRepository
	snapshot atomic.Pointer[recipeSnapshot]
	stale    atomic.Bool
	refresh  singleflight.Group
	now      func() time.Time
}

// NewRecipeStore creates an empty store; call Refresh before reading.
func NewRecipeStore(repo repository.RecipeRepository) RecipeStore {
	return &recipeStore{repo: repo, now: time.Now}
}

func (s *recipeStore) current() *recipeSnapshot {
	if snap := s.snapshot.Load(); snap != nil {
		return snap
	}
	return newRecipeSnapshot(nil, time.Time{})
}

func (s *recipeStore) Refresh(ctx context.Context) ([]domain.Recipe, error) {
	// Concurrent callers share one backend fetch, so it must outlive the
	// caller that started it.
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
	defer cancel()
	v, err, _ := s.refresh.Do("all", func() (interface{}, error) {
		// Cleared before the fetch so a write racing with it marks the
		// new snapshot stale again.
		s.stale.Store(false)
		recipes, err := s.repo.GetAll(fetchCtx)
		if err != nil {
			s.stale.Store(true)
			return nil, transportError("refresh recipes", err)
		}
		snap := newRecipeSnapshot(recipes, s.now())
		s.snapshot.Store(snap)
		log.Printf("INFO: Recipe cache refreshed: %d recipes, %d categories", len(snap.recipes), len(snap.categories))
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneRecipes(v.(*recipeSnapshot).recipes), nil
}

func (s *recipeStore) EnsureFresh(ctx context.Context, maxAge time.Duration) error {
	snap := s.snapshot.Load()
	if snap != nil && !s.stale.Load() && (maxAge <= 0 || s.now().Sub(snap.fetchedAt) < maxAge) {
		return nil
	}
	_, err := s.Refresh(ctx)
	return err
}

func (s *recipeStore) Recipes() []domain.Recipe {
	return cloneRecipes(s.current().recipes)
}

func (s *recipeStore) Categories() []string {
	cats := s.current().categories
	out := make([]string, len(cats))
	copy(out, cats)
	return out
}

func (s *recipeStore) GetByID(id string) (*domain.Recipe, bool) {
	snap := s.current()
	i, ok := snap.byID[id]
	if !ok {
		return nil, false
	}
	r := cloneRecipe(snap.recipes[i])
	return &r, true
}

func (s *recipeStore) Search(q RecipeQuery) []domain.Recipe {
	return cloneRecipes(FilterRecipes(s.current().recipes, q))
}

func (s *recipeStore) Trending(q RecipeQuery, rng *rand.Rand) []domain.Recipe {
	return ShuffleRecipes(s.Search(q), rng)
}

func (s *recipeStore) AddRecipe(ctx context.Context, recipe *domain.Recipe) error {
	if recipe == nil {
		return validationErrorf("recipe is required")
	}
	if recipe.ID == "" {
		recipe.ID = uuid.NewString()
	}
	if err := s.repo.Set(ctx, recipe); err != nil {
		return transportError("add recipe "+recipe.ID, err)
	}
	// The cached snapshot keeps serving until the next refresh.
	s.stale.Store(true)
	return nil
}

func (s *recipeStore) DeleteRecipe(ctx context.Context, id string) error {
	if id == "" {
		return validationErrorf("recipe id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecipeNotFound
		}
		return transportError("delete recipe "+id, err)
	}
	s.stale.Store(true)
	return nil
}

func cloneRecipe(r domain.Recipe) domain.Recipe {
	r.Ingredients = slices.Clone(r.Ingredients)
	r.Instructions = slices.Clone(r.Instructions)
	return r
}

func cloneRecipes(in []domain.Recipe) []domain.Recipe {
	out := make([]domain.Recipe, len(in))
	for i, r := range in {
		out[i] = cloneRecipe(r)
	}
	return out
}
