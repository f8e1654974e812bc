package service

import (
	"math/rand/v2"
	"recipehub/meal-planner/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleRecipes() []domain.Recipe {
	return []domain.Recipe{
		{ID: "r1", Title: "Chicken Salad", AuthorID: "u1", Category: "Salad"},
		{ID: "r2", Title: "Beef Stew", AuthorID: "u2", Category: "Dinner"},
		{ID: "r3", Title: "Grilled chicken", AuthorID: "u2", Category: "Dinner"},
		{ID: "r4", Title: "Oatmeal", AuthorID: "u1", Category: ""},
	}
}

func ids(recipes []domain.Recipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.ID
	}
	return out
}

func TestFilterRecipes(t *testing.T) {
	all := sampleRecipes()

	tests := []struct {
		name string
		q    RecipeQuery
		want []string
	}{
		{"empty query matches all", RecipeQuery{}, []string{"r1", "r2", "r3", "r4"}},
		{"blank text matches all", RecipeQuery{Text: "   "}, []string{"r1", "r2", "r3", "r4"}},
		{"text ignores case and spaces", RecipeQuery{Text: "  CHICKEN "}, []string{"r1", "r3"}},
		{"author", RecipeQuery{AuthorID: "u1"}, []string{"r1", "r4"}},
		{"category is exact", RecipeQuery{Category: "Dinner"}, []string{"r2", "r3"}},
		{"category is case sensitive", RecipeQuery{Category: "dinner"}, []string{}},
		{"all criteria combine", RecipeQuery{Text: "chick", AuthorID: "u2", Category: "Dinner"}, []string{"r3"}},
		{"no match", RecipeQuery{Text: "pizza"}, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterRecipes(all, tc.q)
			assert.NotNil(t, got)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestFilterRecipesIsIdempotent(t *testing.T) {
	q := RecipeQuery{Text: "chicken", Category: "Dinner"}
	once := FilterRecipes(sampleRecipes(), q)
	assert.Equal(t, once, FilterRecipes(once, q))
}

func TestFilterRecipesEmptyInput(t *testing.T) {
	assert.Empty(t, FilterRecipes(nil, RecipeQuery{Text: "x"}))
}

func TestShuffleRecipesIsSeededAndLeavesInputAlone(t *testing.T) {
	all := sampleRecipes()
	before := ids(all)

	a := ShuffleRecipes(all, rand.New(rand.NewPCG(7, 7)))
	b := ShuffleRecipes(all, rand.New(rand.NewPCG(7, 7)))

	assert.Equal(t, ids(a), ids(b))
	assert.ElementsMatch(t, before, ids(a))
	assert.Equal(t, before, ids(all))
}

func TestFilterRecipesTitleAndCategory(t *testing.T) {
	all := []domain.Recipe{
		{ID: "a", Title: "Spaghetti", Category: "Dinner"},
		{ID: "b", Title: "Spicy Noodles", Category: "Lunch"},
		{ID: "c", Title: "Pancakes", Category: "Breakfast"},
	}

	assert.Equal(t, []string{"a", "b"}, ids(FilterRecipes(all, RecipeQuery{Text: "sp"})))
	assert.Empty(t, FilterRecipes(all, RecipeQuery{Text: "sp", Category: "Breakfast"}))
}
