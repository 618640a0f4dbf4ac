package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an application user stored in MongoDB
type User struct {
	ID                 primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Username           string             `json:"username" bson:"username"`
	Email              string             `json:"email" bson:"email"`
	Password           string             `json:"-" bson:"password,omitempty"` // Hashed; empty for OAuth-only accounts
	Bio                string             `json:"bio" bson:"bio"`
	ProfilePicUrl      string             `json:"profilePicUrl" bson:"profilePicUrl"`
	ProfilePicPublicID string             `json:"-" bson:"profilePicPublicId,omitempty"`
	Role               string             `json:"role" bson:"role"`
	Followers          []string           `json:"followers" bson:"followers"`
	Following          []string           `json:"following" bson:"following"`
	Skills             []string           `json:"skills" bson:"skills"`
	RegistrationDate   time.Time          `json:"registrationDate" bson:"registrationDate"`
}

// CreateUserRequest defines the request body for registering a user
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Bio      string `json:"bio,omitempty" validate:"omitempty,max=300"`
}

// UpdateUserRequest defines the request body for updating a profile
type UpdateUserRequest struct {
	Username string   `json:"username,omitempty" validate:"omitempty,min=2,max=50"`
	Bio      string   `json:"bio,omitempty" validate:"omitempty,max=300"`
	Skills   []string `json:"skills,omitempty"`
}

// LoginRequest defines the request body for password login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"userRole"`
	jwt.RegisteredClaims
}
