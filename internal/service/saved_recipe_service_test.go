package service

import (
	"context"
	"recipehub/meal-planner/internal/repository/memory"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSavedFixture(t *testing.T) (SavedRecipeService, *memory.SavedRecipeRepository) {
	t.Helper()
	store := NewRecipeStore(memory.NewRecipeRepository(sampleRecipes()...))
	_, err := store.Refresh(context.Background())
	require.NoError(t, err)
	repo := memory.NewSavedRecipeRepository()
	return NewSavedRecipeService(repo, store), repo
}

func TestSavedRecipeToggle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSavedFixture(t)

	saved, err := svc.Toggle(ctx, "u1", "r1")
	require.NoError(t, err)
	assert.True(t, saved)

	ok, err := svc.IsSaved(ctx, "u1", "r1")
	require.NoError(t, err)
	assert.True(t, ok)

	saved, err = svc.Toggle(ctx, "u1", "r1")
	require.NoError(t, err)
	assert.False(t, saved)

	ok, err = svc.IsSaved(ctx, "u1", "r1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSavedRecipeSaveAndUnsaveAreIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, repo := newSavedFixture(t)

	require.NoError(t, svc.Save(ctx, "u1", "r1"))
	require.NoError(t, svc.Save(ctx, "u1", "r1"))
	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Unsave(ctx, "u1", "r1"))
	require.NoError(t, svc.Unsave(ctx, "u1", "r1"))
	ok, err := svc.IsSaved(ctx, "u1", "r1")
	require.NoError(t, err)
	assert.False(t, ok)

	// other users are unaffected
	require.NoError(t, svc.Save(ctx, "u2", "r1"))
	ok, err = svc.IsSaved(ctx, "u1", "r1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSavedRecipeListSaved(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSavedFixture(t)
	for _, id := range []string{"r3", "r1", "gone", "r2"} {
		require.NoError(t, svc.Save(ctx, "u1", id))
	}

	got, err := svc.ListSaved(ctx, "u1", RecipeQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"r3", "r1", "r2"}, ids(got))

	got, err = svc.ListSaved(ctx, "u1", RecipeQuery{Text: "chicken"})
	require.NoError(t, err)
	assert.Equal(t, []string{"r3", "r1"}, ids(got))
}

func TestSavedRecipeErrors(t *testing.T) {
	ctx := context.Background()
	svc, repo := newSavedFixture(t)

	_, err := svc.Toggle(ctx, "", "r1")
	assert.ErrorIs(t, err, ErrValidation)

	repo.FailWith(errUnreachable)
	_, err = svc.IsSaved(ctx, "u1", "r1")
	assert.True(t, IsTransport(err))
	assert.True(t, IsTransport(svc.Save(ctx, "u1", "r1")))
}
