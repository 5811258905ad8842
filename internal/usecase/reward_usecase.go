package usecase

import (
	"context"

	"frutas/internal/domain/entity"

	"github.com/google/uuid"
)

// RewardUsecase manages the reward catalog and point redemptions.
type RewardUsecase interface {
	ListRewards(ctx context.Context, onlyAvailable bool) ([]*entity.Reward, error)
	GetReward(ctx context.Context, id uuid.UUID) (*entity.Reward, error)
	CreateReward(ctx context.Context, input *RewardInput) (*entity.Reward, error)
	UpdateReward(ctx context.Context, id uuid.UUID, input *RewardInput) (*entity.Reward, error)

	// RedeemReward debits the reward cost atomically; the balance never goes below zero.
	RedeemReward(ctx context.Context, userID, rewardID uuid.UUID) (*RedeemResult, error)

	ListUserRedemptions(ctx context.Context, userID uuid.UUID) ([]*entity.RewardRedemption, error)
}

// RewardInput defines the editable fields of a reward.
type RewardInput struct {
	Name           string
	Description    string
	ImageURL       string
	PointsRequired int
	Available      bool
}

// RedeemResult is the stored redemption and the balance after the debit.
type RedeemResult struct {
	Redemption *entity.RewardRedemption
	NewBalance int
}
