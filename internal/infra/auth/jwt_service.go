// Package auth verifies access tokens issued by the external identity provider.
package auth

import (
	"frutas/config"
	"frutas/internal/domain/entity"
	"frutas/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrInvalidToken wraps every verification failure so callers map one error to 401.
var ErrInvalidToken = errors.New("invalid access token")

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret  []byte
	options []jwt.ParserOption
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.Auth == nil || cfg.Auth.Secret == "" {
		return nil, errors.New("auth secret must be provided")
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Auth.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.Auth.Issuer))
	}
	if cfg.Auth.Audience != "" {
		options = append(options, jwt.WithAudience(cfg.Auth.Audience))
	}

	return &jwtService{
		secret:  []byte(cfg.Auth.Secret),
		options: options,
	}, nil
}

// ValidateToken verifies the token and maps its claims onto a principal.
func (s *jwtService) ValidateToken(tokenString string) (*entity.Principal, error) {
	claims := &service.Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	}, s.options...)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, "subject is not a uuid")
	}

	return &entity.Principal{
		UserID: userID,
		Email:  claims.Email,
		Name:   claims.UserMetadata.Name,
		Roles:  resolveRoles(claims),
	}, nil
}

// resolveRoles merges app_metadata.roles and the top-level role claim.
// Provider-internal values such as "authenticated" are ignored; everyone is at least a user.
func resolveRoles(claims *service.Claims) entity.Roles {
	roles := entity.RolesFromStrings(claims.AppMetadata.Roles)
	if role := entity.Role(claims.Role); role.IsValid() && !roles.Contains(role) {
		roles = append(roles, role)
	}
	if !roles.Contains(entity.RoleUser) {
		roles = append(roles, entity.RoleUser)
	}

	return roles
}
