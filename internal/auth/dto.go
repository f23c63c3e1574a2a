package auth

import (
	"github.com/google/uuid"

	"github.com/storelinehq/storeline-backend/pkg/enums"
)

// RegisterInput captures the payload for account creation.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginInput captures the credentials for a login attempt.
type LoginInput struct {
	Email    string
	Password string
}

// UserDTO is the identity shape returned after auth operations.
type UserDTO struct {
	ID         uuid.UUID      `json:"id"`
	Email      string         `json:"email"`
	FirstName  string         `json:"first_name"`
	LastName   string         `json:"last_name"`
	Role       enums.UserRole `json:"role"`
	CustomerID *uuid.UUID     `json:"customer_id,omitempty"`
}

// AuthResult bundles the minted token with the authenticated user.
type AuthResult struct {
	AccessToken string  `json:"access_token"`
	User        UserDTO `json:"user"`
}
