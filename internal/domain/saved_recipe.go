package domain

import "time"

// SavedRecipe records that a user bookmarked a recipe.
type SavedRecipe struct {
	UserID   string    `bson:"userId" json:"userId"`
	RecipeID string    `bson:"recipeId" json:"recipeId"`
	SavedAt  time.Time `bson:"savedAt" json:"savedAt"`
}
