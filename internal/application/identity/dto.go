package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/identity"
	"github.com/pms/backend/internal/infrastructure/auth"
)

// =============================================================================
// Auth DTOs
// =============================================================================

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// RefreshRequest exchanges a refresh token for a new token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest rotates the caller's password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// LoginResponse carries the token pair and the authenticated user
type LoginResponse struct {
	User   *UserResponse   `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// =============================================================================
// User DTOs
// =============================================================================

// CreateUserRequest represents the request to create a user
type CreateUserRequest struct {
	Email    string     `json:"email" binding:"required,email"`
	Name     string     `json:"name" binding:"required,max=200"`
	Phone    string     `json:"phone" binding:"omitempty,max=32"`
	Password string     `json:"password" binding:"required,min=8"`
	Role     string     `json:"role" binding:"required,oneof=ADMIN MANAGER OWNER"`
	OwnerID  *uuid.UUID `json:"owner_id"`
}

// UpdateUserRequest represents the request to update a user
type UpdateUserRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=200"`
	Phone *string `json:"phone" binding:"omitempty,max=32"`
	Role  *string `json:"role" binding:"omitempty,oneof=ADMIN MANAGER OWNER"`
}

// ResetPasswordRequest sets a user's password by admin action
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

// UserListFilter represents query filters for listing users
type UserListFilter struct {
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=ADMIN MANAGER OWNER"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone,omitempty"`
	Role        string     `json:"role"`
	Active      bool       `json:"active"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToUserResponse converts a domain user to a response DTO
func ToUserResponse(u *identity.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Phone:       u.Phone,
		Role:        string(u.Role),
		Active:      u.Active,
		OwnerID:     u.OwnerID,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
