package handler

import (
	"time"

	"frutas/internal/domain/entity"
	"frutas/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// listOptions reads ?limit= and ?offset= with sane bounds.
func listOptions(c echo.Context) (repository.ListOptions, error) {
	opts := repository.ListOptions{Limit: defaultPageSize}
	if err := echo.QueryParamsBinder(c).
		Int("limit", &opts.Limit).
		Int("offset", &opts.Offset).
		BindError(); err != nil {
		return opts, err
	}

	if opts.Limit <= 0 {
		opts.Limit = defaultPageSize
	}
	if opts.Limit > maxPageSize {
		opts.Limit = maxPageSize
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	return opts, nil
}

type MenuItemResponse struct {
	ID         int64           `json:"id"`
	Category   string          `json:"category"`
	Name       string          `json:"name"`
	CO2Saved   decimal.Decimal `json:"co2_saved"`
	WaterSaved decimal.Decimal `json:"water_saved"`
	LandSaved  decimal.Decimal `json:"land_saved"`
	Points     int             `json:"points"`
}

func newMenuItemResponse(item *entity.MenuItem) *MenuItemResponse {
	return &MenuItemResponse{
		ID:         item.ID,
		Category:   item.Category,
		Name:       item.Name,
		CO2Saved:   item.CO2Saved,
		WaterSaved: item.WaterSaved,
		LandSaved:  item.LandSaved,
		Points:     entity.CalculatePoints(item.CO2Saved, item.WaterSaved, item.LandSaved),
	}
}

type ReceiptLineResponse struct {
	MenuItemID   int64           `json:"menu_item_id"`
	MenuItemName string          `json:"menu_item_name"`
	Quantity     int             `json:"quantity"`
	CO2Saved     decimal.Decimal `json:"co2_saved"`
	WaterSaved   decimal.Decimal `json:"water_saved"`
	LandSaved    decimal.Decimal `json:"land_saved"`
}

type ReceiptResponse struct {
	ID              uuid.UUID              `json:"id"`
	Code            string                 `json:"code"`
	ClaimURL        string                 `json:"claim_url,omitempty"`
	UserID          *uuid.UUID             `json:"user_id"`
	TotalCO2Saved   decimal.Decimal        `json:"total_co2_saved"`
	TotalWaterSaved decimal.Decimal        `json:"total_water_saved"`
	TotalLandSaved  decimal.Decimal        `json:"total_land_saved"`
	PointsEarned    int                    `json:"points_earned"`
	Lines           []*ReceiptLineResponse `json:"lines,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	ClaimedAt       *time.Time             `json:"claimed_at"`
}

func newReceiptResponse(receipt *entity.Receipt) *ReceiptResponse {
	lines := make([]*ReceiptLineResponse, 0, len(receipt.Lines))
	for _, line := range receipt.Lines {
		lines = append(lines, &ReceiptLineResponse{
			MenuItemID:   line.MenuItemID,
			MenuItemName: line.MenuItemName,
			Quantity:     line.Quantity,
			CO2Saved:     line.CO2Saved,
			WaterSaved:   line.WaterSaved,
			LandSaved:    line.LandSaved,
		})
	}

	return &ReceiptResponse{
		ID:              receipt.ID,
		Code:            receipt.Code,
		UserID:          receipt.UserID,
		TotalCO2Saved:   receipt.TotalCO2Saved,
		TotalWaterSaved: receipt.TotalWaterSaved,
		TotalLandSaved:  receipt.TotalLandSaved,
		PointsEarned:    receipt.PointsEarned,
		Lines:           lines,
		CreatedAt:       receipt.CreatedAt,
		ClaimedAt:       receipt.ClaimedAt,
	}
}

type RewardResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	ImageURL       string    `json:"image_url,omitempty"`
	PointsRequired int       `json:"points_required"`
	Available      bool      `json:"available"`
}

func newRewardResponse(reward *entity.Reward) *RewardResponse {
	return &RewardResponse{
		ID:             reward.ID,
		Name:           reward.Name,
		Description:    reward.Description,
		ImageURL:       reward.ImageURL,
		PointsRequired: reward.PointsRequired,
		Available:      reward.Available,
	}
}

type RedemptionResponse struct {
	ID          uuid.UUID `json:"id"`
	RewardID    uuid.UUID `json:"reward_id"`
	PointsSpent int       `json:"points_spent"`
	RedeemedAt  time.Time `json:"redeemed_at"`
}

func newRedemptionResponse(redemption *entity.RewardRedemption) *RedemptionResponse {
	return &RedemptionResponse{
		ID:          redemption.ID,
		RewardID:    redemption.RewardID,
		PointsSpent: redemption.PointsSpent,
		RedeemedAt:  redemption.RedeemedAt,
	}
}

type UserResponse struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      entity.Role `json:"role"`
	Points    int         `json:"points"`
	CreatedAt time.Time   `json:"created_at"`
}

func newUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		Points:    user.Points,
		CreatedAt: user.CreatedAt,
	}
}

type LedgerEntryResponse struct {
	Delta        int                 `json:"delta"`
	BalanceAfter int                 `json:"balance_after"`
	Reason       entity.LedgerReason `json:"reason"`
	ReferenceID  *uuid.UUID          `json:"reference_id,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

func newLedgerEntryResponse(entry *entity.LedgerEntry) *LedgerEntryResponse {
	return &LedgerEntryResponse{
		Delta:        entry.Delta,
		BalanceAfter: entry.BalanceAfter,
		Reason:       entry.Reason,
		ReferenceID:  entry.ReferenceID,
		CreatedAt:    entry.CreatedAt,
	}
}

// mapSlice converts a slice of entities with the given response constructor.
func mapSlice[E, R any](in []E, fn func(E) R) []R {
	out := make([]R, 0, len(in))
	for _, e := range in {
		out = append(out, fn(e))
	}

	return out
}
