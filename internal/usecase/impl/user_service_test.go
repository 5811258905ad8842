package impl

import (
	"context"
	"testing"
	"time"

	"frutas/internal/domain/entity"
	domainerrors "frutas/internal/domain/errors"
	"frutas/internal/domain/repository"
	mockrepo "frutas/internal/mocks/repository"
	"frutas/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type userServiceFixture struct {
	service    *userService
	txManager  *mockrepo.PassthroughTxManager
	userRepo   *mockrepo.MockUserRepository
	ledgerRepo *mockrepo.MockLedgerRepository
}

func createTestUserService(t *testing.T) *userServiceFixture {
	fx := &userServiceFixture{
		userRepo:   mockrepo.NewMockUserRepository(t),
		ledgerRepo: mockrepo.NewMockLedgerRepository(t),
	}
	fx.txManager = &mockrepo.PassthroughTxManager{Factory: &mockrepo.Factory{
		Users:  fx.userRepo,
		Ledger: fx.ledgerRepo,
	}}

	srv := NewUserService(UserServiceParams{
		TxManager:  fx.txManager,
		UserRepo:   fx.userRepo,
		LedgerRepo: fx.ledgerRepo,
		Logger:     newDiscardLogger(),
	}).(*userService)
	srv.now = func() time.Time { return time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC) }
	fx.service = srv

	return fx
}

func TestUserService_EnsureUser(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	id := uuid.New()

	principal := &entity.Principal{
		UserID: id,
		Email:  "ana@example.com",
		Name:   "Ana",
		Roles:  entity.Roles{entity.RoleUser, entity.RoleOperator},
	}

	fx.userRepo.On("CreateIfNotExists", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.ID == id && u.Role == entity.RoleOperator && u.Points == 0
	})).Return(nil)
	fx.userRepo.On("FindByID", ctx, id).Return(&entity.User{ID: id, Points: 40}, nil)

	user, err := fx.service.EnsureUser(ctx, principal)
	require.NoError(t, err)
	assert.Equal(t, 40, user.Points)
}

func TestUserService_GetUser_NotFound(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	id := uuid.New()

	fx.userRepo.On("FindByID", ctx, id).Return(nil, repository.ErrUserNotFound)

	_, err := fx.service.GetUser(ctx, id)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestUserService_UpdateProfile_Validation(t *testing.T) {
	fx := createTestUserService(t)

	_, err := fx.service.UpdateProfile(context.Background(), uuid.New(), &usecase.UpdateProfileInput{
		Name:  "",
		Email: "not-an-email",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "email must be a valid address")
}

func TestUserService_UpdateProfile(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	id := uuid.New()

	fx.userRepo.On("UpdateProfile", ctx, id, "Ana Paula", "ana@example.com").Return(nil)
	fx.userRepo.On("FindByID", ctx, id).Return(&entity.User{ID: id, Name: "Ana Paula", Email: "ana@example.com"}, nil)

	user, err := fx.service.UpdateProfile(ctx, id, &usecase.UpdateProfileInput{
		Name:  " Ana Paula ",
		Email: "ana@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Paula", user.Name)
}

func TestUserService_SetPoints(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	id := uuid.New()

	fx.userRepo.On("FindByID", ctx, id).Return(&entity.User{ID: id, Points: 120}, nil)
	fx.userRepo.On("CompareAndSetPoints", ctx, id, 120, 50).Return(nil)
	fx.ledgerRepo.On("Append", ctx, mock.MatchedBy(func(e *entity.LedgerEntry) bool {
		return e.Delta == -70 && e.BalanceAfter == 50 && e.Reason == entity.LedgerReasonAdminAdjustment
	})).Return(nil)

	user, err := fx.service.SetPoints(ctx, id, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, user.Points)
}

func TestUserService_SetPoints_Unchanged(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	id := uuid.New()

	fx.userRepo.On("FindByID", ctx, id).Return(&entity.User{ID: id, Points: 50}, nil)

	user, err := fx.service.SetPoints(ctx, id, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, user.Points)
	fx.ledgerRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestUserService_SetPoints_RetriesOnConflict(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	id := uuid.New()

	fx.userRepo.On("FindByID", ctx, id).Return(&entity.User{ID: id, Points: 120}, nil).Once()
	fx.userRepo.On("CompareAndSetPoints", ctx, id, 120, 0).Return(repository.ErrPointsConflict).Once()
	fx.userRepo.On("FindByID", ctx, id).Return(&entity.User{ID: id, Points: 1093}, nil).Once()
	fx.userRepo.On("CompareAndSetPoints", ctx, id, 1093, 0).Return(nil).Once()
	fx.ledgerRepo.On("Append", ctx, mock.MatchedBy(func(e *entity.LedgerEntry) bool {
		return e.Delta == -1093
	})).Return(nil)

	user, err := fx.service.SetPoints(ctx, id, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, user.Points)
	assert.Equal(t, 2, fx.txManager.Calls)
}

func TestUserService_SetPoints_GivesUp(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	id := uuid.New()

	fx.userRepo.On("FindByID", ctx, id).Return(&entity.User{ID: id, Points: 1}, nil)
	fx.userRepo.On("CompareAndSetPoints", ctx, id, 1, 2).Return(repository.ErrPointsConflict)

	_, err := fx.service.SetPoints(ctx, id, 2)
	assert.ErrorIs(t, err, domainerrors.ErrTransactionFailed)
	assert.Equal(t, maxSetPointsAttempts, fx.txManager.Calls)
}

func TestUserService_SetPoints_Negative(t *testing.T) {
	fx := createTestUserService(t)

	_, err := fx.service.SetPoints(context.Background(), uuid.New(), -1)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	assert.Zero(t, fx.txManager.Calls)
}
