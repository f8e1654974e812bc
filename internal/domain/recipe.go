package domain

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Name     string `bson:"name" json:"name"`
	Amount   string `bson:"amount" json:"amount"` // free text, usually grams
	Calories int    `bson:"calories" json:"calories"`
}

// Recipe is a user-authored dish. The ID never changes once created; writes
// replace the whole document.
type Recipe struct {
	ID            string       `bson:"_id" json:"id"`
	Title         string       `bson:"title" json:"title"`
	Description   string       `bson:"description" json:"description"`
	Ingredients   []Ingredient `bson:"ingredients" json:"ingredients"`
	CookTime      string       `bson:"cookTime" json:"cookTime"` // display label, e.g. "25 min"
	Servings      int          `bson:"servings" json:"servings"`
	TotalCalories int          `bson:"totalCalories" json:"totalCalories"`
	AuthorID      string       `bson:"authorId" json:"authorId"`
	ImageURL      string       `bson:"imageUrl" json:"imageUrl"`
	Category      string       `bson:"category" json:"category"`
	Instructions  []string     `bson:"instructions" json:"instructions"`
}
