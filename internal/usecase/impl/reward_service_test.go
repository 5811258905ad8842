package impl

import (
	"context"
	"testing"
	"time"

	"frutas/internal/domain/constants"
	"frutas/internal/domain/entity"
	domainerrors "frutas/internal/domain/errors"
	"frutas/internal/domain/repository"
	"frutas/internal/domain/service"
	mockrepo "frutas/internal/mocks/repository"
	mocksvc "frutas/internal/mocks/service"
	"frutas/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type rewardServiceFixture struct {
	service    *rewardService
	txManager  *mockrepo.PassthroughTxManager
	rewardRepo *mockrepo.MockRewardRepository
	userRepo   *mockrepo.MockUserRepository
	ledgerRepo *mockrepo.MockLedgerRepository
	publisher  *mocksvc.MockEventPublisher
	metrics    *mocksvc.MockLoyaltyMetrics
	now        time.Time
}

func createTestRewardService(t *testing.T) *rewardServiceFixture {
	fx := &rewardServiceFixture{
		rewardRepo: mockrepo.NewMockRewardRepository(t),
		userRepo:   mockrepo.NewMockUserRepository(t),
		ledgerRepo: mockrepo.NewMockLedgerRepository(t),
		publisher:  mocksvc.NewMockEventPublisher(t),
		metrics:    mocksvc.NewMockLoyaltyMetrics(t),
		now:        time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
	}
	fx.txManager = &mockrepo.PassthroughTxManager{Factory: &mockrepo.Factory{
		Users:   fx.userRepo,
		Rewards: fx.rewardRepo,
		Ledger:  fx.ledgerRepo,
	}}

	srv := NewRewardService(RewardServiceParams{
		TxManager:  fx.txManager,
		RewardRepo: fx.rewardRepo,
		Publisher:  fx.publisher,
		Metrics:    fx.metrics,
		Logger:     newDiscardLogger(),
	}).(*rewardService)
	srv.now = func() time.Time { return fx.now }
	fx.service = srv

	return fx
}

func TestRewardService_RedeemReward_Success(t *testing.T) {
	fx := createTestRewardService(t)
	ctx := context.Background()
	userID := uuid.New()
	rewardID := uuid.New()
	redemptionID := uuid.New()

	fx.rewardRepo.On("FindByID", ctx, rewardID).
		Return(&entity.Reward{ID: rewardID, Name: "Smoothie", PointsRequired: 500, Available: true}, nil)
	fx.userRepo.On("DecrementPointsIfSufficient", ctx, userID, 500).Return(nil)
	fx.rewardRepo.On("CreateRedemption", ctx, mock.AnythingOfType("*entity.RewardRedemption")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.RewardRedemption).ID = redemptionID
		}).
		Return(nil)
	fx.userRepo.On("FindByID", ctx, userID).Return(&entity.User{ID: userID, Points: 473}, nil)
	fx.ledgerRepo.On("Append", ctx, mock.MatchedBy(func(e *entity.LedgerEntry) bool {
		return e.Delta == -500 && e.BalanceAfter == 473 &&
			e.Reason == entity.LedgerReasonRewardRedemption && *e.ReferenceID == redemptionID
	})).Return(nil)
	fx.metrics.On("RewardRedeemed", 500)
	fx.publisher.On("Publish", ctx, mock.MatchedBy(func(e *service.LoyaltyEvent) bool {
		return e.EventType == constants.EventRewardRedeemed && e.Delta == -500 && e.Balance == 473
	})).Return(nil)

	result, err := fx.service.RedeemReward(ctx, userID, rewardID)
	require.NoError(t, err)

	assert.Equal(t, 473, result.NewBalance)
	assert.Equal(t, 500, result.Redemption.PointsSpent)
	assert.Equal(t, fx.now, result.Redemption.RedeemedAt)
}

func TestRewardService_RedeemReward_InsufficientPoints(t *testing.T) {
	fx := createTestRewardService(t)
	ctx := context.Background()
	userID := uuid.New()
	rewardID := uuid.New()

	fx.rewardRepo.On("FindByID", ctx, rewardID).
		Return(&entity.Reward{ID: rewardID, PointsRequired: 500, Available: true}, nil)
	fx.userRepo.On("DecrementPointsIfSufficient", ctx, userID, 500).Return(repository.ErrInsufficientPoints)

	_, err := fx.service.RedeemReward(ctx, userID, rewardID)
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientPoints)

	appErr, ok := domainerrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode())
}

func TestRewardService_RedeemReward_Unavailable(t *testing.T) {
	fx := createTestRewardService(t)
	ctx := context.Background()
	rewardID := uuid.New()

	fx.rewardRepo.On("FindByID", ctx, rewardID).
		Return(&entity.Reward{ID: rewardID, PointsRequired: 500, Available: false}, nil)

	_, err := fx.service.RedeemReward(ctx, uuid.New(), rewardID)
	assert.ErrorIs(t, err, domainerrors.ErrRewardUnavailable)
}

func TestRewardService_RedeemReward_UnknownReward(t *testing.T) {
	fx := createTestRewardService(t)
	ctx := context.Background()
	rewardID := uuid.New()

	fx.rewardRepo.On("FindByID", ctx, rewardID).Return(nil, repository.ErrRewardNotFound)

	_, err := fx.service.RedeemReward(ctx, uuid.New(), rewardID)
	assert.ErrorIs(t, err, domainerrors.ErrRewardNotFound)
}

func TestRewardService_RedeemReward_UnknownUser(t *testing.T) {
	fx := createTestRewardService(t)
	ctx := context.Background()
	userID := uuid.New()
	rewardID := uuid.New()

	fx.rewardRepo.On("FindByID", ctx, rewardID).
		Return(&entity.Reward{ID: rewardID, PointsRequired: 10, Available: true}, nil)
	fx.userRepo.On("DecrementPointsIfSufficient", ctx, userID, 10).Return(repository.ErrUserNotFound)

	_, err := fx.service.RedeemReward(ctx, userID, rewardID)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestRewardService_CreateReward_Validation(t *testing.T) {
	fx := createTestRewardService(t)

	_, err := fx.service.CreateReward(context.Background(), &usecase.RewardInput{Name: " ", PointsRequired: 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	assert.Contains(t, err.Error(), "name is required; points_required must be positive")
}

func TestRewardService_UpdateReward(t *testing.T) {
	fx := createTestRewardService(t)
	ctx := context.Background()
	rewardID := uuid.New()

	fx.rewardRepo.On("FindByID", ctx, rewardID).
		Return(&entity.Reward{ID: rewardID, Name: "Old", PointsRequired: 100, Available: true}, nil)
	fx.rewardRepo.On("Update", ctx, mock.MatchedBy(func(r *entity.Reward) bool {
		return r.Name == "Tote bag" && r.PointsRequired == 1200 && !r.Available
	})).Return(nil)

	reward, err := fx.service.UpdateReward(ctx, rewardID, &usecase.RewardInput{
		Name:           " Tote bag ",
		PointsRequired: 1200,
		Available:      false,
	})
	require.NoError(t, err)
	assert.Equal(t, "Tote bag", reward.Name)
	assert.False(t, reward.Available)
}
