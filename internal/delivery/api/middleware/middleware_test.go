package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"frutas/internal/delivery/api/response"
	"frutas/internal/domain/entity"
	domainerrors "frutas/internal/domain/errors"
	mocksvc "frutas/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *response.ErrorInfo {
	t.Helper()

	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)

	return body.Error
}

func newAuthEcho(t *testing.T, tokens *mocksvc.MockTokenService, roles ...entity.Role) *echo.Echo {
	t.Helper()

	auth := NewAuthMiddleware(AuthMiddlewareParams{TokenService: tokens, Logger: newDiscardLogger()})

	e := echo.New()
	g := e.Group("", auth.Authenticate)
	if len(roles) > 0 {
		g.Use(auth.RequireRoles(roles...))
	}
	g.GET("/whoami", func(c echo.Context) error {
		userID, ok := GetUserID(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}

		return c.String(http.StatusOK, userID.String())
	})

	return e
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		header     string
		setup      func(m *mocksvc.MockTokenService)
		wantStatus int
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{
			name:   "invalid token",
			header: "Bearer broken",
			setup: func(m *mocksvc.MockTokenService) {
				m.On("ValidateToken", "broken").Return(nil, errors.New("signature is invalid"))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "valid token",
			header: "Bearer good",
			setup: func(m *mocksvc.MockTokenService) {
				m.On("ValidateToken", "good").
					Return(&entity.Principal{UserID: userID, Roles: entity.Roles{entity.RoleUser}}, nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := mocksvc.NewMockTokenService(t)
			if tt.setup != nil {
				tt.setup(tokens)
			}
			e := newAuthEcho(t, tokens)

			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userID.String(), rec.Body.String())
			} else {
				info := decodeError(t, rec)
				assert.Equal(t, "UNAUTHORIZED", info.Code)
			}
		})
	}
}

func TestAuthMiddleware_RequireRoles(t *testing.T) {
	tokens := mocksvc.NewMockTokenService(t)
	tokens.On("ValidateToken", "customer").
		Return(&entity.Principal{UserID: uuid.New(), Roles: entity.Roles{entity.RoleUser}}, nil)
	tokens.On("ValidateToken", "cashier").
		Return(&entity.Principal{UserID: uuid.New(), Roles: entity.Roles{entity.RoleUser, entity.RoleOperator}}, nil)

	e := newAuthEcho(t, tokens, entity.RoleOperator, entity.RoleAdmin)

	forbidden := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	forbidden.Header.Set(echo.HeaderAuthorization, "Bearer customer")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, forbidden)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, rec).Code)

	allowed := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	allowed.Header.Set(echo.HeaderAuthorization, "Bearer cashier")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, allowed)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestErrorMiddleware_HandleHTTPError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantDetails any
	}{
		{
			name:        "app error keeps client details",
			err:         errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("cart must contain at least one item")),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "VALIDATION_FAILED",
			wantDetails: "cart must contain at least one item",
		},
		{
			name:       "database error hides details",
			err:        domainerrors.NewDatabaseExecuteError(errors.New("pq: connection refused"), "failed to claim receipt"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "DATABASE_EXECUTE_FAILED",
		},
		{
			name:       "echo error",
			err:        echo.ErrMethodNotAllowed,
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   "HTTP_ERROR",
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.HTTPErrorHandler = NewErrorMiddleware(newDiscardLogger()).HandleHTTPError
			e.GET("/fail", func(echo.Context) error { return tt.err })

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			info := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.Equal(t, tt.wantDetails, info.Details)
		})
	}
}

type recordingObserver struct {
	method, route, status string
}

func (r *recordingObserver) ObserveHTTP(method, route, status string, _ float64) {
	r.method, r.route, r.status = method, route, status
}

func TestMetrics(t *testing.T) {
	observer := &recordingObserver{}

	e := echo.New()
	e.Use(Metrics(observer))
	e.GET("/api/v1/rewards/:id", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/rewards/42", nil))

	assert.Equal(t, "GET", observer.method)
	assert.Equal(t, "/api/v1/rewards/:id", observer.route)
	assert.Equal(t, "204", observer.status)
}
