package service

import (
	"math/rand/v2"
	"recipehub/meal-planner/internal/domain"
	"slices"
	"strings"
)

// RecipeQuery selects recipes from a list. Empty fields are not applied.
type RecipeQuery struct {
	// Text must appear in the title, ignoring case and surrounding spaces.
	Text string
	// AuthorID restricts the result to one author ("My Recipes").
	AuthorID string
	// Category must equal the recipe category exactly.
	Category string
}

// FilterRecipes returns the recipes of all that match q, in their original
// order. It never fails; no match yields an empty slice.
func FilterRecipes(all []domain.Recipe, q RecipeQuery) []domain.Recipe {
	needle := strings.ToLower(strings.TrimSpace(q.Text))
	out := make([]domain.Recipe, 0, len(all))
	for _, r := range all {
		if q.AuthorID != "" && r.AuthorID != q.AuthorID {
			continue
		}
		if q.Category != "" && r.Category != q.Category {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(r.Title), needle) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ShuffleRecipes returns a shuffled copy of recipes for the "trending"
// listing. Pass a seeded rng for reproducible order.
func ShuffleRecipes(recipes []domain.Recipe, rng *rand.Rand) []domain.Recipe {
	out := slices.Clone(recipes)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
