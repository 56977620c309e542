package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
)

type User struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string        `bson:"name" json:"name"`
	Email       string        `bson:"email" json:"email"`
	Password    string        `bson:"password" json:"-"`
	Role        Role          `bson:"role" json:"role"`
	Deactivated bool          `bson:"deactivated" json:"deactivated"`
	IsDeleted   bool          `bson:"isDeleted" json:"is_deleted"`
	DeletedAt   *time.Time    `bson:"deletedAt,omitempty" json:"deleted_at,omitempty"`
	CreatedAt   time.Time     `bson:"createdAt" json:"created_at"`
}

// for registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Role     Role   `json:"role" validate:"omitempty,oneof=user admin seller"`
}

// for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// for login response
type LoginResponse struct {
	Success        bool   `json:"success"`
	Token          string `json:"token,omitempty"`
	ExpiresIn      int    `json:"expires_in,omitempty"`
	RemainingTries int    `json:"remaining_tries,omitempty"`
	RetryAfter     int    `json:"retry_after,omitempty"`
	Message        string `json:"message,omitempty"`
}

// admin-side user update; nil fields stay untouched
type UpdateUserRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Role        *Role   `json:"role,omitempty" validate:"omitempty,oneof=user admin seller"`
	Deactivated *bool   `json:"deactivated,omitempty"`
}

type UserFilter struct {
	Search string
	Role   Role
}

// JWT claims structure
type Claims struct {
	UserID bson.ObjectID `json:"user_id"`
	Email  string        `json:"email"`
	Role   Role          `json:"role"`
	jwt.RegisteredClaims
}
