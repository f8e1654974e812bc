package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an account plus its free-form profile. Its hex ID is the opaque
// user id the rest of the domain refers to (recipe authorId, schedule and
// tracker userId).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Country      string             `bson:"country,omitempty" json:"country,omitempty"`
	Gender       string             `bson:"gender,omitempty" json:"gender,omitempty"`
	PictureURL   string             `bson:"pictureUrl,omitempty" json:"pictureUrl,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
