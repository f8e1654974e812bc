package service

import (
	"context"
	"errors"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/repository/memory"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeStoreServesNothingBeforeRefresh(t *testing.T) {
	store := NewRecipeStore(memory.NewRecipeRepository(sampleRecipes()...))

	_, ok := store.GetByID("r1")
	assert.False(t, ok)
	assert.Empty(t, store.Recipes())
	assert.Empty(t, store.Categories())
}

func TestRecipeStoreRefresh(t *testing.T) {
	ctx := context.Background()
	store := NewRecipeStore(memory.NewRecipeRepository(sampleRecipes()...))

	got, err := store.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r3", "r4"}, ids(got))

	// distinct, first-seen order, empty category included
	assert.Equal(t, []string{"Salad", "Dinner", ""}, store.Categories())

	r, ok := store.GetByID("r2")
	require.True(t, ok)
	assert.Equal(t, "Beef Stew", r.Title)

	assert.Equal(t, []string{"r1", "r3"}, ids(store.Search(RecipeQuery{Text: "chicken"})))
}

func TestRecipeStoreRefreshFailureKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRecipeRepository(sampleRecipes()...)
	store := NewRecipeStore(repo)
	_, err := store.Refresh(ctx)
	require.NoError(t, err)

	repo.FailWith(errors.New("unreachable"))
	_, err = store.Refresh(ctx)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Len(t, store.Recipes(), 4)
}

func TestRecipeStoreAddRecipe(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRecipeRepository(sampleRecipes()...)
	store := NewRecipeStore(repo)
	_, err := store.Refresh(ctx)
	require.NoError(t, err)

	t.Run("assigns an id when empty", func(t *testing.T) {
		r := &domain.Recipe{Title: "Pancakes", Category: "Breakfast"}
		require.NoError(t, store.AddRecipe(ctx, r))
		assert.NotEmpty(t, r.ID)

		stored, err := repo.GetByID(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, "Pancakes", stored.Title)
	})

	t.Run("overwrites the whole recipe", func(t *testing.T) {
		require.NoError(t, store.AddRecipe(ctx, &domain.Recipe{ID: "r2", Title: "Lamb Stew"}))
		stored, err := repo.GetByID(ctx, "r2")
		require.NoError(t, err)
		assert.Equal(t, "Lamb Stew", stored.Title)
		assert.Empty(t, stored.Category)
		assert.Empty(t, stored.AuthorID)
	})

	t.Run("cache changes only after refresh", func(t *testing.T) {
		r, _ := store.GetByID("r2")
		assert.Equal(t, "Beef Stew", r.Title)

		require.NoError(t, store.EnsureFresh(ctx, time.Hour))
		r, _ = store.GetByID("r2")
		assert.Equal(t, "Lamb Stew", r.Title)
	})

	t.Run("transport error is returned", func(t *testing.T) {
		repo.FailWith(errors.New("unreachable"))
		defer repo.FailWith(nil)
		err := store.AddRecipe(ctx, &domain.Recipe{ID: "r9"})
		assert.True(t, IsTransport(err))
	})
}

func TestRecipeStoreEnsureFreshHonoursMaxAge(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRecipeRepository(sampleRecipes()...)
	s := NewRecipeStore(repo).(*recipeStore)
	clock := time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	require.NoError(t, s.EnsureFresh(ctx, time.Minute))
	assert.Len(t, s.Recipes(), 4)

	// a write behind the store's back is invisible until the cache expires
	require.NoError(t, repo.Set(ctx, &domain.Recipe{ID: "r5", Title: "Soup"}))
	require.NoError(t, s.EnsureFresh(ctx, time.Minute))
	assert.Len(t, s.Recipes(), 4)

	clock = clock.Add(2 * time.Minute)
	require.NoError(t, s.EnsureFresh(ctx, time.Minute))
	assert.Len(t, s.Recipes(), 5)
}

func TestRecipeStoreDeleteRecipe(t *testing.T) {
	ctx := context.Background()
	store := NewRecipeStore(memory.NewRecipeRepository(sampleRecipes()...))

	require.NoError(t, store.DeleteRecipe(ctx, "r1"))
	assert.ErrorIs(t, store.DeleteRecipe(ctx, "r1"), ErrRecipeNotFound)
	assert.ErrorIs(t, store.DeleteRecipe(ctx, ""), ErrValidation)

	require.NoError(t, store.EnsureFresh(ctx, 0))
	_, ok := store.GetByID("r1")
	assert.False(t, ok)
}

func TestRecipeStoreConcurrentReadsDuringRefresh(t *testing.T) {
	ctx := context.Background()
	store := NewRecipeStore(memory.NewRecipeRepository(sampleRecipes()...))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = store.Refresh(ctx)
		}()
		go func() {
			defer wg.Done()
			// every snapshot is complete or absent, never partial
			n := len(store.Recipes())
			assert.Contains(t, []int{0, 4}, n)
		}()
	}
	wg.Wait()
	assert.Len(t, store.Recipes(), 4)
}

func TestRecipeStoreReadsDoNotAliasTheSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewRecipeStore(memory.NewRecipeRepository(domain.Recipe{
		ID:           "r1",
		Title:        "Spaghetti",
		Ingredients:  []domain.Ingredient{{Name: "pasta", Amount: "200g"}},
		Instructions: []string{"boil"},
	}))
	_, err := store.Refresh(ctx)
	require.NoError(t, err)

	r, ok := store.GetByID("r1")
	require.True(t, ok)
	r.Ingredients[0].Name = "rice"
	r.Instructions[0] = "fry"

	listed := store.Recipes()
	listed[0].Ingredients[0].Amount = "1kg"

	found := store.Search(RecipeQuery{Text: "spag"})
	found[0].Instructions[0] = "bake"

	again, ok := store.GetByID("r1")
	require.True(t, ok)
	assert.Equal(t, []domain.Ingredient{{Name: "pasta", Amount: "200g"}}, again.Ingredients)
	assert.Equal(t, []string{"boil"}, again.Instructions)
}

// ctxRecipeRepo fails GetAll once its context is done, like a real driver.
type ctxRecipeRepo struct {
	*memory.RecipeRepository
}

func (r ctxRecipeRepo) GetAll(ctx context.Context) ([]domain.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.RecipeRepository.GetAll(ctx)
}

func TestRecipeStoreRefreshOutlivesCancelledCaller(t *testing.T) {
	store := NewRecipeStore(ctxRecipeRepo{memory.NewRecipeRepository(sampleRecipes()...)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := store.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r3", "r4"}, ids(got))
}
