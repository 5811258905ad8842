package handler

import (
	"log/slog"
	"net/http"

	"frutas/internal/delivery/api/middleware"
	"frutas/internal/delivery/api/response"
	"frutas/internal/delivery/api/validator"
	"frutas/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// MeHandlerParams holds dependencies for MeHandler, injected by Fx.
type MeHandlerParams struct {
	fx.In

	UserUC    usecase.UserUsecase
	ReceiptUC usecase.ReceiptUsecase
	RewardUC  usecase.RewardUsecase
	Logger    *slog.Logger
}

// MeHandler serves the caller's own profile, balance and history.
type MeHandler struct {
	userUC    usecase.UserUsecase
	receiptUC usecase.ReceiptUsecase
	rewardUC  usecase.RewardUsecase
	logger    *slog.Logger
}

func NewMeHandler(params MeHandlerParams) *MeHandler {
	return &MeHandler{
		userUC:    params.UserUC,
		receiptUC: params.ReceiptUC,
		rewardUC:  params.RewardUC,
		logger:    params.Logger,
	}
}

type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required,max=128"`
	Email string `json:"email" validate:"required,email"`
}

// GetMe mirrors the identity provider profile on first call.
func (h *MeHandler) GetMe(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Invalid user ID in token")
	}

	user, err := h.userUC.EnsureUser(c.Request().Context(), principal)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newUserResponse(user))
}

func (h *MeHandler) UpdateMe(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Invalid user ID in token")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid profile input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, validator.Problems(err))
	}

	ctx := c.Request().Context()
	if _, err := h.userUC.EnsureUser(ctx, principal); err != nil {
		return response.HandleAppError(c, err)
	}

	user, err := h.userUC.UpdateProfile(ctx, principal.UserID, &usecase.UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newUserResponse(user))
}

func (h *MeHandler) ListMyReceipts(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Invalid user ID in token")
	}

	opts, err := listOptions(c)
	if err != nil {
		return response.BindingError(c, "Invalid pagination parameters")
	}

	receipts, err := h.receiptUC.ListUserReceipts(c.Request().Context(), userID, opts)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, mapSlice(receipts, newReceiptResponse))
}

func (h *MeHandler) ListMyLedger(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Invalid user ID in token")
	}

	opts, err := listOptions(c)
	if err != nil {
		return response.BindingError(c, "Invalid pagination parameters")
	}

	entries, err := h.userUC.ListLedger(c.Request().Context(), userID, opts)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, mapSlice(entries, newLedgerEntryResponse))
}

func (h *MeHandler) ListMyRedemptions(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Invalid user ID in token")
	}

	redemptions, err := h.rewardUC.ListUserRedemptions(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, mapSlice(redemptions, newRedemptionResponse))
}
