package handler

import (
	"log/slog"
	"net/http"

	"frutas/internal/delivery/api/middleware"
	"frutas/internal/delivery/api/response"
	"frutas/internal/delivery/api/validator"
	"frutas/internal/domain/entity"
	"frutas/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RewardHandlerParams holds dependencies for RewardHandler, injected by Fx.
type RewardHandlerParams struct {
	fx.In

	RewardUC usecase.RewardUsecase
	UserUC   usecase.UserUsecase
	Logger   *slog.Logger
}

type RewardHandler struct {
	rewardUC usecase.RewardUsecase
	userUC   usecase.UserUsecase
	logger   *slog.Logger
}

func NewRewardHandler(params RewardHandlerParams) *RewardHandler {
	return &RewardHandler{
		rewardUC: params.RewardUC,
		userUC:   params.UserUC,
		logger:   params.Logger,
	}
}

type RewardRequest struct {
	Name           string `json:"name" validate:"required,max=128"`
	Description    string `json:"description" validate:"max=1024"`
	ImageURL       string `json:"image_url" validate:"omitempty,url"`
	PointsRequired int    `json:"points_required" validate:"required,gt=0"`
	Available      *bool  `json:"available"`
}

func (r *RewardRequest) toInput() *usecase.RewardInput {
	available := true
	if r.Available != nil {
		available = *r.Available
	}

	return &usecase.RewardInput{
		Name:           r.Name,
		Description:    r.Description,
		ImageURL:       r.ImageURL,
		PointsRequired: r.PointsRequired,
		Available:      available,
	}
}

type RedeemRewardResponse struct {
	Redemption *RedemptionResponse `json:"redemption"`
	NewBalance int                 `json:"new_balance"`
}

// ListRewards shows only available rewards unless an admin asks for ?all=true.
func (h *RewardHandler) ListRewards(c echo.Context) error {
	onlyAvailable := true
	if principal, ok := middleware.GetPrincipal(c); ok && principal.Roles.Contains(entity.RoleAdmin) && c.QueryParam("all") == "true" {
		onlyAvailable = false
	}

	rewards, err := h.rewardUC.ListRewards(c.Request().Context(), onlyAvailable)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, mapSlice(rewards, newRewardResponse))
}

func (h *RewardHandler) RedeemReward(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Invalid user ID in token")
	}

	rewardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "Invalid reward ID")
	}

	ctx := c.Request().Context()
	if _, err := h.userUC.EnsureUser(ctx, principal); err != nil {
		return response.HandleAppError(c, err)
	}

	result, err := h.rewardUC.RedeemReward(ctx, principal.UserID, rewardID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, &RedeemRewardResponse{
		Redemption: newRedemptionResponse(result.Redemption),
		NewBalance: result.NewBalance,
	})
}

func (h *RewardHandler) CreateReward(c echo.Context) error {
	var req RewardRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid reward input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, validator.Problems(err))
	}

	reward, err := h.rewardUC.CreateReward(c.Request().Context(), req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, newRewardResponse(reward))
}

func (h *RewardHandler) UpdateReward(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "Invalid reward ID")
	}

	var req RewardRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid reward input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, validator.Problems(err))
	}

	reward, err := h.rewardUC.UpdateReward(c.Request().Context(), id, req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newRewardResponse(reward))
}
