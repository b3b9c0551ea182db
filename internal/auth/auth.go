package auth

import (
	"errors"
)

// Strategy names, as reported by Strategy.Name.
const (
	StrategyEmailPassword = "email_password"
	StrategyGoogle        = "google"
	StrategyTelegram      = "telegram"
)

// Permission scopes the backend grants.
const (
	ScopeOwn  = "own"
	ScopeAll  = "all"
	ScopeTeam = "team"
)

const TokenTypeBearer = "Bearer"

var ErrNotInitialized = errors.New("PermissionService is not initialized. Call Initialize() first.")

// AuthTokens is replaced wholesale on login and refresh.
type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
}

type UserProfile struct {
	ID        int64   `json:"id"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
	Language  string  `json:"language"`
	Timezone  string  `json:"timezone"`
}

// User is the principal returned by the `me` query.
type User struct {
	ID         int64        `json:"id"`
	Email      string       `json:"email"`
	Username   string       `json:"username"`
	IsActive   bool         `json:"isActive"`
	IsVerified bool         `json:"isVerified"`
	Profile    *UserProfile `json:"profile,omitempty"`
}

type Permission struct {
	ID       int64  `json:"id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Scope    string `json:"scope"`
	RoleID   int64  `json:"roleId"`
}

type Role struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	Permissions []Permission `json:"permissions"`
}

type AuthResponse struct {
	User   User       `json:"user"`
	Tokens AuthTokens `json:"tokens"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// StorageError reports a rejected write to the token medium.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "Failed to " + e.Op + " authentication tokens"
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
