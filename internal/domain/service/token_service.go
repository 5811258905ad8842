package service

import (
	"frutas/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
)

// Claims mirrors the access token issued by the external identity provider.
type Claims struct {
	Email        string       `json:"email"`
	Role         string       `json:"role,omitempty"`
	AppMetadata  AppMetadata  `json:"app_metadata"`
	UserMetadata UserMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

// AppMetadata carries provider-managed authorization data.
type AppMetadata struct {
	Roles []string `json:"roles,omitempty"`
}

// UserMetadata carries user-editable profile data.
type UserMetadata struct {
	Name string `json:"name,omitempty"`
}

// TokenService validates access tokens. Tokens are issued elsewhere.
type TokenService interface {
	// ValidateToken verifies signature, expiry, issuer and audience and returns the caller.
	ValidateToken(tokenString string) (*entity.Principal, error)
}
