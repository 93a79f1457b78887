package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailAlreadyUsed   = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrNotProvider        = errors.New("user is not a provider")
)

// User represents an account in the marketplace. Providers (artists, studios,
// engineers) and clients share the same table; provider-only profile fields
// are nullable.
type User struct {
	ID            string // UUID
	Email         string
	PasswordHash  string
	DisplayName   *string
	IsProvider    bool
	StageName     *string // Provider profile: public name
	Craft         *string // Provider profile: e.g. "mixing engineer"
	Bio           *string
	CreatedAt     time.Time
	LastLoginAt   *time.Time
	IsActive      bool
	IsSystemAdmin bool
}

// Filter defines filter options for listing users and providers.
type Filter struct {
	Email      string
	StageName  string
	Craft      string
	IsProvider *bool
	IsActive   *bool // Pointer to distinguish between false and not set

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
