package domain

import (
	"fmt"
	"time"
)

// MealType names a slot within a day.
type MealType string

const (
	MealBreakfast MealType = "Breakfast"
	MealLunch     MealType = "Lunch"
	MealDinner    MealType = "Dinner"
	MealSnacks    MealType = "Snacks"
)

// MealTypes lists the slots in display order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnacks}

// ParseMealType accepts the exact slot names only.
func ParseMealType(s string) (MealType, error) {
	for _, m := range MealTypes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid meal type %q", s)
}

// ScheduleEntry places a recipe into a user's meal slot. Several entries may
// share the same (user, date, meal type); a slot can hold many dishes.
type ScheduleEntry struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	Date      Date      `bson:"date" json:"date"`
	MealType  MealType  `bson:"mealType" json:"mealType"`
	RecipeID  string    `bson:"recipeId" json:"recipeId"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
