package http

import (
	"time"

	"github.com/mirateia/stagetime-backend/internal/pkg/request"
	"github.com/mirateia/stagetime-backend/internal/user"
)

// UserTag holds minimal user info for embedding in other responses.
type UserTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
	IsProvider  bool   `json:"is_provider"`
	StageName   string `json:"stage_name"`
	Craft       string `json:"craft"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName *string    `json:"display_name"`
	IsProvider  bool       `json:"is_provider"`
	StageName   *string    `json:"stage_name,omitempty"`
	Craft       *string    `json:"craft,omitempty"`
	Bio         *string    `json:"bio,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		IsProvider:  u.IsProvider,
		StageName:   u.StageName,
		Craft:       u.Craft,
		Bio:         u.Bio,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// ProviderResponse is the public view of a provider profile (no email).
type ProviderResponse struct {
	ID        string  `json:"id"`
	StageName *string `json:"stage_name"`
	Craft     *string `json:"craft"`
	Bio       *string `json:"bio,omitempty"`
}

func NewProviderResponse(u *user.User) ProviderResponse {
	return ProviderResponse{
		ID:        u.ID,
		StageName: u.StageName,
		Craft:     u.Craft,
		Bio:       u.Bio,
	}
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	StageName   *string `json:"stage_name"`
	Craft       *string `json:"craft"`
	Bio         *string `json:"bio"`
}

// ListProvidersRequest defines query parameters for the provider directory.
type ListProvidersRequest struct {
	request.ListParams
	StageName string `form:"stage_name"`
	Craft     string `form:"craft"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=created_at stage_name"`
}
