package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"frutas/internal/domain/constants"
	"frutas/internal/domain/entity"
	domainerrors "frutas/internal/domain/errors"
	"frutas/internal/domain/repository"
	"frutas/internal/domain/service"
	"frutas/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// rewardService implements the RewardUsecase interface.
type rewardService struct {
	txManager  repository.TransactionManager
	rewardRepo repository.RewardRepository
	publisher  service.EventPublisher
	metrics    service.LoyaltyMetrics
	now        func() time.Time
	logger     *slog.Logger
}

// RewardServiceParams holds dependencies for RewardService, injected by Fx.
type RewardServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	RewardRepo repository.RewardRepository
	Publisher  service.EventPublisher
	Metrics    service.LoyaltyMetrics
	Logger     *slog.Logger
}

// NewRewardService is the constructor for rewardService.
func NewRewardService(params RewardServiceParams) usecase.RewardUsecase {
	return &rewardService{
		txManager:  params.TxManager,
		rewardRepo: params.RewardRepo,
		publisher:  params.Publisher,
		metrics:    params.Metrics,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     params.Logger,
	}
}

func (srv *rewardService) ListRewards(ctx context.Context, onlyAvailable bool) ([]*entity.Reward, error) {
	rewards, err := srv.rewardRepo.List(ctx, onlyAvailable)
	if err != nil {
		return nil, persistenceError(err, "failed to list rewards")
	}

	return rewards, nil
}

func (srv *rewardService) GetReward(ctx context.Context, id uuid.UUID) (*entity.Reward, error) {
	reward, err := srv.rewardRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrRewardNotFound) {
		return nil, errors.WithStack(domainerrors.ErrRewardNotFound)
	}
	if err != nil {
		return nil, persistenceError(err, "failed to get reward")
	}

	return reward, nil
}

func (srv *rewardService) CreateReward(ctx context.Context, input *usecase.RewardInput) (*entity.Reward, error) {
	if err := validateReward(input); err != nil {
		return nil, err
	}

	reward := &entity.Reward{
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		ImageURL:       input.ImageURL,
		PointsRequired: input.PointsRequired,
		Available:      input.Available,
	}
	if err := srv.rewardRepo.Create(ctx, reward); err != nil {
		return nil, persistenceError(err, "failed to create reward")
	}

	contextLogger(ctx, srv.logger).InfoContext(ctx, "Reward created",
		slog.String("reward_id", reward.ID.String()),
		slog.Int("points_required", reward.PointsRequired),
	)

	return reward, nil
}

func (srv *rewardService) UpdateReward(ctx context.Context, id uuid.UUID, input *usecase.RewardInput) (*entity.Reward, error) {
	if err := validateReward(input); err != nil {
		return nil, err
	}

	var updated *entity.Reward

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		rewardRepo := repoFactory.NewRewardRepository()

		reward, err := rewardRepo.FindByID(ctx, id)
		if errors.Is(err, repository.ErrRewardNotFound) {
			return errors.WithStack(domainerrors.ErrRewardNotFound)
		}
		if err != nil {
			return errors.Wrap(err, "failed to find reward")
		}

		reward.Name = strings.TrimSpace(input.Name)
		reward.Description = input.Description
		reward.ImageURL = input.ImageURL
		reward.PointsRequired = input.PointsRequired
		reward.Available = input.Available

		if err := rewardRepo.Update(ctx, reward); err != nil {
			return errors.Wrap(err, "failed to update reward")
		}
		updated = reward

		return nil
	})
	if err != nil {
		return nil, persistenceError(err, "failed to update reward")
	}

	return updated, nil
}

func validateReward(input *usecase.RewardInput) error {
	var problems []string
	if strings.TrimSpace(input.Name) == "" {
		problems = append(problems, "name is required")
	}
	if input.PointsRequired <= 0 {
		problems = append(problems, "points_required must be positive")
	}
	if len(problems) > 0 {
		return validationError(problems)
	}

	return nil
}

// RedeemReward spends the reward cost with a guarded debit so concurrent redemptions cannot overdraw.
func (srv *rewardService) RedeemReward(ctx context.Context, userID, rewardID uuid.UUID) (*usecase.RedeemResult, error) {
	logger := contextLogger(ctx, srv.logger)

	var result *usecase.RedeemResult

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		rewardRepo := repoFactory.NewRewardRepository()
		userRepo := repoFactory.NewUserRepository()

		// 1. The reward must exist and be on offer
		reward, err := rewardRepo.FindByID(ctx, rewardID)
		if errors.Is(err, repository.ErrRewardNotFound) {
			return errors.WithStack(domainerrors.ErrRewardNotFound)
		}
		if err != nil {
			return errors.Wrap(err, "failed to find reward")
		}
		if !reward.Available {
			return errors.WithStack(domainerrors.ErrRewardUnavailable)
		}

		// 2. Debit only when the balance covers the cost
		if err := userRepo.DecrementPointsIfSufficient(ctx, userID, reward.PointsRequired); err != nil {
			switch {
			case errors.Is(err, repository.ErrUserNotFound):
				return errors.WithStack(domainerrors.ErrUserNotFound)
			case errors.Is(err, repository.ErrInsufficientPoints):
				return errors.WithStack(domainerrors.ErrInsufficientPoints)
			default:
				return errors.Wrap(err, "failed to debit points")
			}
		}

		// 3. Record the redemption and the balance change
		redemption := &entity.RewardRedemption{
			UserID:      userID,
			RewardID:    reward.ID,
			PointsSpent: reward.PointsRequired,
			RedeemedAt:  srv.now(),
		}
		if err := rewardRepo.CreateRedemption(ctx, redemption); err != nil {
			return errors.Wrap(err, "failed to record redemption")
		}

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to read balance")
		}

		if err := repoFactory.NewLedgerRepository().Append(ctx, &entity.LedgerEntry{
			UserID:       userID,
			Delta:        -reward.PointsRequired,
			BalanceAfter: user.Points,
			Reason:       entity.LedgerReasonRewardRedemption,
			ReferenceID:  &redemption.ID,
			CreatedAt:    redemption.RedeemedAt,
		}); err != nil {
			return errors.Wrap(err, "failed to append ledger entry")
		}

		result = &usecase.RedeemResult{Redemption: redemption, NewBalance: user.Points}

		return nil
	})
	if err != nil {
		return nil, persistenceError(err, "failed to redeem reward")
	}

	logger.InfoContext(ctx, "Reward redeemed",
		slog.String("reward_id", rewardID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("points_spent", result.Redemption.PointsSpent),
		slog.Int("balance", result.NewBalance),
	)
	srv.metrics.RewardRedeemed(result.Redemption.PointsSpent)
	publishEvent(ctx, srv.publisher, logger, &service.LoyaltyEvent{
		EventType:  constants.EventRewardRedeemed,
		UserID:     userID.String(),
		RewardID:   rewardID.String(),
		Delta:      -result.Redemption.PointsSpent,
		Balance:    result.NewBalance,
		OccurredAt: result.Redemption.RedeemedAt,
	})

	return result, nil
}

func (srv *rewardService) ListUserRedemptions(ctx context.Context, userID uuid.UUID) ([]*entity.RewardRedemption, error) {
	redemptions, err := srv.rewardRepo.ListRedemptionsByUser(ctx, userID)
	if err != nil {
		return nil, persistenceError(err, "failed to list redemptions")
	}

	return redemptions, nil
}
