package middleware

import (
	"log/slog"
	"strings"

	"frutas/internal/delivery/api/response"
	deliverycontext "frutas/internal/delivery/context"
	"frutas/internal/domain/entity"
	"frutas/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const principalKey = "principal"

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	TokenService service.TokenService
	Logger       *slog.Logger
}

// AuthMiddleware authenticates bearer tokens issued by the identity provider.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	logger   *slog.Logger
}

func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: params.TokenService, logger: params.Logger}
}

// Authenticate rejects the request unless it carries a valid access token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, "Authorization header is missing")
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || strings.TrimSpace(tokenString) == "" {
			return response.Unauthorized(c, "Invalid token format, must be Bearer token")
		}

		principal, err := m.tokenSvc.ValidateToken(strings.TrimSpace(tokenString))
		if err != nil {
			deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).
				DebugContext(c.Request().Context(), "Rejected access token", slog.Any("error", err))

			return response.Unauthorized(c, "Invalid or expired token")
		}

		c.Set(principalKey, principal)
		c.SetRequest(c.Request().WithContext(deliverycontext.WithPrincipal(c.Request().Context(), principal)))

		return next(c)
	}
}

// RequireRoles lets the request through when the caller holds any of roles.
// It must be used after Authenticate.
func (m *AuthMiddleware) RequireRoles(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := GetPrincipal(c)
			if !ok {
				return response.Forbidden(c, "Permission denied: role information missing")
			}

			if !principal.Roles.ContainsAny(roles...) {
				return response.Forbidden(c, "Permission denied: insufficient role")
			}

			return next(c)
		}
	}
}

// GetPrincipal returns the caller set by Authenticate.
func GetPrincipal(c echo.Context) (*entity.Principal, bool) {
	principal, ok := c.Get(principalKey).(*entity.Principal)

	return principal, ok && principal != nil
}

// GetUserID returns the caller's user ID set by Authenticate.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	principal, ok := GetPrincipal(c)
	if !ok || principal.UserID == uuid.Nil {
		return uuid.Nil, false
	}

	return principal.UserID, true
}
