package model

import (
	"time"

	gutils "github.com/Laisky/go-utils/v6"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User registered account
type User struct {
	// ID unique identifier for the user
	ID primitive.ObjectID `bson:"_id,omitempty" json:"mongo_id"`
	// CreatedAt registration time
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	// Email login account, unique
	Email string `bson:"email" json:"email"`
	// Password hashed password, SHA1 hex for compatibility with
	// previously stored records
	Password string `bson:"password" json:"password"`
}

// GetID get id
func (u *User) GetID() string {
	return u.ID.Hex()
}

// NewUser create a new user
func NewUser() *User {
	return &User{
		ID:        primitive.NewObjectID(),
		CreatedAt: gutils.Clock.GetUTCNow(),
	}
}
