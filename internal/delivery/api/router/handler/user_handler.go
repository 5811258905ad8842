package handler

import (
	"log/slog"
	"net/http"

	"frutas/internal/delivery/api/response"
	"frutas/internal/delivery/api/validator"
	"frutas/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	UserUC usecase.UserUsecase
	Logger *slog.Logger
}

// UserHandler holds the administrator operations on user accounts.
type UserHandler struct {
	userUC usecase.UserUsecase
	logger *slog.Logger
}

func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{
		userUC: params.UserUC,
		logger: params.Logger,
	}
}

type SetPointsRequest struct {
	Points *int `json:"points" validate:"required,gte=0"`
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	opts, err := listOptions(c)
	if err != nil {
		return response.BindingError(c, "Invalid pagination parameters")
	}

	users, err := h.userUC.ListUsers(c.Request().Context(), opts)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, mapSlice(users, newUserResponse))
}

// SetPoints overwrites a balance; the difference is written to the ledger.
func (h *UserHandler) SetPoints(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "Invalid user ID")
	}

	var req SetPointsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid points input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, validator.Problems(err))
	}

	user, err := h.userUC.SetPoints(c.Request().Context(), id, *req.Points)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newUserResponse(user))
}
