package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"frutas/internal/delivery/api/response"
	"frutas/internal/delivery/api/validator"
	"frutas/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// MenuHandlerParams holds dependencies for MenuHandler, injected by Fx.
type MenuHandlerParams struct {
	fx.In

	MenuUC usecase.MenuUsecase
	Logger *slog.Logger
}

// MenuHandler serves the menu item catalog.
type MenuHandler struct {
	menuUC usecase.MenuUsecase
	logger *slog.Logger
}

func NewMenuHandler(params MenuHandlerParams) *MenuHandler {
	return &MenuHandler{
		menuUC: params.MenuUC,
		logger: params.Logger,
	}
}

// MenuItemRequest is the body of create and update. Metrics accept JSON numbers or strings.
type MenuItemRequest struct {
	Category   string          `json:"category" validate:"required,max=64"`
	Name       string          `json:"name" validate:"required,max=128"`
	CO2Saved   decimal.Decimal `json:"co2_saved"`
	WaterSaved decimal.Decimal `json:"water_saved"`
	LandSaved  decimal.Decimal `json:"land_saved"`
}

func (r *MenuItemRequest) toInput() *usecase.MenuItemInput {
	return &usecase.MenuItemInput{
		Category:   r.Category,
		Name:       r.Name,
		CO2Saved:   r.CO2Saved,
		WaterSaved: r.WaterSaved,
		LandSaved:  r.LandSaved,
	}
}

func (h *MenuHandler) ListMenuItems(c echo.Context) error {
	items, err := h.menuUC.ListMenuItems(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, mapSlice(items, newMenuItemResponse))
}

func (h *MenuHandler) GetMenuItem(c echo.Context) error {
	id, err := parseMenuItemID(c)
	if err != nil {
		return response.BindingError(c, "Invalid menu item ID")
	}

	item, err := h.menuUC.GetMenuItem(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newMenuItemResponse(item))
}

func (h *MenuHandler) CreateMenuItem(c echo.Context) error {
	var req MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid menu item input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, validator.Problems(err))
	}

	item, err := h.menuUC.CreateMenuItem(c.Request().Context(), req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, newMenuItemResponse(item))
}

func (h *MenuHandler) UpdateMenuItem(c echo.Context) error {
	id, err := parseMenuItemID(c)
	if err != nil {
		return response.BindingError(c, "Invalid menu item ID")
	}

	var req MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid menu item input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, validator.Problems(err))
	}

	item, err := h.menuUC.UpdateMenuItem(c.Request().Context(), id, req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newMenuItemResponse(item))
}

func (h *MenuHandler) DeleteMenuItem(c echo.Context) error {
	id, err := parseMenuItemID(c)
	if err != nil {
		return response.BindingError(c, "Invalid menu item ID")
	}

	if err := h.menuUC.DeleteMenuItem(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func parseMenuItemID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
