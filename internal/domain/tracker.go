package domain

import "time"

// TrackerRecord holds a user's body metrics for one calendar day. The
// (UserID, Date) pair is the key; writes replace the whole row.
type TrackerRecord struct {
	UserID         string    `bson:"userId" json:"userId" db:"user_id"`
	Date           Date      `bson:"date" json:"date" db:"date"`
	Weight         float64   `bson:"weight" json:"weight" db:"weight"`
	WaterIntake    int       `bson:"waterIntake" json:"waterIntake" db:"water_intake"` // glasses
	CaloriesIntake float64   `bson:"caloriesIntake" json:"caloriesIntake" db:"calories_intake"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt" db:"updated_at"`
}
