package postgres

import (
	"context"
	"time"

	"frutas/internal/domain/entity"
	domainerrors "frutas/internal/domain/errors"
	"frutas/internal/domain/repository"
	"frutas/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// rewardRepository implements the repository.RewardRepository interface.
type rewardRepository struct {
	db *gorm.DB
}

// NewRewardRepository is the constructor for rewardRepository.
func NewRewardRepository(db *gorm.DB) repository.RewardRepository {
	return &rewardRepository{
		db: db,
	}
}

func (repo *rewardRepository) List(ctx context.Context, onlyAvailable bool) ([]*entity.Reward, error) {
	var rewardModels []*model.RewardModel

	db := repo.db.WithContext(ctx)
	if onlyAvailable {
		db = db.Where("available = ?", true)
	}

	if err := db.
		Order("points_required ASC").
		Order("name ASC").
		Find(&rewardModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list rewards")
	}

	rewards := make([]*entity.Reward, 0, len(rewardModels))
	for _, rewardM := range rewardModels {
		rewards = append(rewards, toRewardDomain(rewardM))
	}

	return rewards, nil
}

func (repo *rewardRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reward, error) {
	var rewardM model.RewardModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rewardM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRewardNotFound
		}

		return nil, errors.Wrap(err, "failed to find reward by ID")
	}

	return toRewardDomain(&rewardM), nil
}

func (repo *rewardRepository) Create(ctx context.Context, reward *entity.Reward) error {
	rewardM := fromRewardDomain(reward)

	if err := repo.db.WithContext(ctx).Create(rewardM).Error; err != nil {
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("points required must be positive")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create reward")
	}

	reward.ID = rewardM.ID
	reward.CreatedAt = rewardM.CreatedAt
	reward.UpdatedAt = rewardM.UpdatedAt

	return nil
}

func (repo *rewardRepository) Update(ctx context.Context, reward *entity.Reward) error {
	result := repo.db.WithContext(ctx).
		Model(&model.RewardModel{}).
		Where("id = ?", reward.ID).
		Updates(map[string]any{
			"name":            reward.Name,
			"description":     reward.Description,
			"image_url":       reward.ImageURL,
			"points_required": reward.PointsRequired,
			"available":       reward.Available,
			"updated_at":      time.Now().UTC(),
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update reward")
	}

	if result.RowsAffected == 0 {
		return repository.ErrRewardNotFound
	}

	return nil
}

func (repo *rewardRepository) CreateRedemption(ctx context.Context, redemption *entity.RewardRedemption) error {
	redemptionM := &model.UserRewardModel{
		ID:          redemption.ID,
		UserID:      redemption.UserID,
		RewardID:    redemption.RewardID,
		PointsSpent: redemption.PointsSpent,
		RedeemedAt:  redemption.RedeemedAt,
	}

	if err := repo.db.WithContext(ctx).Omit("User", "Reward").Create(redemptionM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrRewardNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create reward redemption")
	}

	redemption.ID = redemptionM.ID

	return nil
}

func (repo *rewardRepository) ListRedemptionsByUser(ctx context.Context, userID uuid.UUID) ([]*entity.RewardRedemption, error) {
	var redemptionModels []*model.UserRewardModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("redeemed_at DESC").
		Find(&redemptionModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list reward redemptions")
	}

	redemptions := make([]*entity.RewardRedemption, 0, len(redemptionModels))
	for _, m := range redemptionModels {
		redemptions = append(redemptions, &entity.RewardRedemption{
			ID:          m.ID,
			UserID:      m.UserID,
			RewardID:    m.RewardID,
			PointsSpent: m.PointsSpent,
			RedeemedAt:  m.RedeemedAt,
		})
	}

	return redemptions, nil
}

// toRewardDomain converts a GORM RewardModel to a domain Reward entity.
func toRewardDomain(data *model.RewardModel) *entity.Reward {
	if data == nil {
		return nil
	}

	return &entity.Reward{
		ID:             data.ID,
		Name:           data.Name,
		Description:    data.Description,
		ImageURL:       data.ImageURL,
		PointsRequired: data.PointsRequired,
		Available:      data.Available,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

// fromRewardDomain converts a domain Reward entity to a GORM RewardModel.
func fromRewardDomain(data *entity.Reward) *model.RewardModel {
	if data == nil {
		return nil
	}

	return &model.RewardModel{
		ID:             data.ID,
		Name:           data.Name,
		Description:    data.Description,
		ImageURL:       data.ImageURL,
		PointsRequired: data.PointsRequired,
		Available:      data.Available,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}
