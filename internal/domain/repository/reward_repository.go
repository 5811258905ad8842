package repository

import (
	"context"
	"errors"

	"frutas/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrRewardNotFound is returned when a reward does not exist.
var ErrRewardNotFound = errors.New("reward not found")

// RewardRepository persists the reward catalog and redemptions.
type RewardRepository interface {
	// List returns rewards ordered by points required; onlyAvailable filters out disabled ones.
	List(ctx context.Context, onlyAvailable bool) ([]*entity.Reward, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reward, error)
	Create(ctx context.Context, reward *entity.Reward) error
	Update(ctx context.Context, reward *entity.Reward) error

	// CreateRedemption inserts a user_rewards row.
	CreateRedemption(ctx context.Context, redemption *entity.RewardRedemption) error

	// ListRedemptionsByUser returns a user's redemptions, newest first.
	ListRedemptionsByUser(ctx context.Context, userID uuid.UUID) ([]*entity.RewardRedemption, error)
}
