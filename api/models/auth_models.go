// api/models/auth_models.go
package models

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/Annany2002/recipe-backend/internal/domain"
)

// --- User Request/Response Structs ---

// SignupRequest defines the structure for the signup request body
type SignupRequest struct {
	FirstName string `json:"firstName" binding:"required,trimmed_required"`
	LastName  string `json:"lastName" binding:"required,trimmed_required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=7,notpassword"`
	Age       *int   `json:"age" binding:"omitnil,gte=0"`
}

// LoginRequest defines the structure for the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest carries a profile patch. Nil fields are left untouched.
type UpdateUserRequest struct {
	FirstName *string `json:"firstName" binding:"omitnil,trimmed_required"`
	LastName  *string `json:"lastName" binding:"omitnil,trimmed_required"`
	Email     *string `json:"email" binding:"omitnil,email"`
	Password  *string `json:"password" binding:"omitnil,min=7,notpassword"`
	Age       *int    `json:"age" binding:"omitnil,gte=0"`
}

// AuthResponse is returned by signup and login
type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// --- JWT Claims ---

// CustomClaims includes standard claims and our custom userID claim for JWT
type CustomClaims struct {
	UserID string `json:"userID"`
	jwt.RegisteredClaims
}
