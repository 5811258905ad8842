// Package usecase provides testify mocks of the application use cases.
package usecase

import (
	"context"
	"testing"

	"frutas/internal/domain/entity"
	"frutas/internal/domain/repository"
	"frutas/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockMenuUsecase is a mock of usecase.MenuUsecase.
type MockMenuUsecase struct {
	mock.Mock
}

// NewMockMenuUsecase creates the mock and asserts its expectations on cleanup.
func NewMockMenuUsecase(t *testing.T) *MockMenuUsecase {
	m := &MockMenuUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockMenuUsecase) ListMenuItems(ctx context.Context, category string) ([]*entity.MenuItem, error) {
	args := m.Called(ctx, category)
	items, _ := args.Get(0).([]*entity.MenuItem)

	return items, args.Error(1)
}

func (m *MockMenuUsecase) GetMenuItem(ctx context.Context, id int64) (*entity.MenuItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*entity.MenuItem)

	return item, args.Error(1)
}

func (m *MockMenuUsecase) CreateMenuItem(ctx context.Context, input *usecase.MenuItemInput) (*entity.MenuItem, error) {
	args := m.Called(ctx, input)
	item, _ := args.Get(0).(*entity.MenuItem)

	return item, args.Error(1)
}

func (m *MockMenuUsecase) UpdateMenuItem(ctx context.Context, id int64, input *usecase.MenuItemInput) (*entity.MenuItem, error) {
	args := m.Called(ctx, id, input)
	item, _ := args.Get(0).(*entity.MenuItem)

	return item, args.Error(1)
}

func (m *MockMenuUsecase) DeleteMenuItem(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMenuUsecase) SeedMenuItems(ctx context.Context, inputs []*usecase.MenuItemInput) (int, error) {
	args := m.Called(ctx, inputs)

	return args.Int(0), args.Error(1)
}

// MockReceiptUsecase is a mock of usecase.ReceiptUsecase.
type MockReceiptUsecase struct {
	mock.Mock
}

// NewMockReceiptUsecase creates the mock and asserts its expectations on cleanup.
func NewMockReceiptUsecase(t *testing.T) *MockReceiptUsecase {
	m := &MockReceiptUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockReceiptUsecase) FinalizeReceipt(ctx context.Context, lines []usecase.ReceiptLineInput) (*entity.Receipt, error) {
	args := m.Called(ctx, lines)
	receipt, _ := args.Get(0).(*entity.Receipt)

	return receipt, args.Error(1)
}

func (m *MockReceiptUsecase) ClaimReceipt(ctx context.Context, code string, userID uuid.UUID) (*usecase.ClaimResult, error) {
	args := m.Called(ctx, code, userID)
	result, _ := args.Get(0).(*usecase.ClaimResult)

	return result, args.Error(1)
}

func (m *MockReceiptUsecase) GetReceipt(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	args := m.Called(ctx, id)
	receipt, _ := args.Get(0).(*entity.Receipt)

	return receipt, args.Error(1)
}

func (m *MockReceiptUsecase) ListReceipts(ctx context.Context, opts repository.ListOptions) ([]*entity.Receipt, error) {
	args := m.Called(ctx, opts)
	receipts, _ := args.Get(0).([]*entity.Receipt)

	return receipts, args.Error(1)
}

func (m *MockReceiptUsecase) ListUserReceipts(ctx context.Context, userID uuid.UUID, opts repository.ListOptions) ([]*entity.Receipt, error) {
	args := m.Called(ctx, userID, opts)
	receipts, _ := args.Get(0).([]*entity.Receipt)

	return receipts, args.Error(1)
}

func (m *MockReceiptUsecase) ReceiptQR(ctx context.Context, code string) ([]byte, error) {
	args := m.Called(ctx, code)
	png, _ := args.Get(0).([]byte)

	return png, args.Error(1)
}

// MockRewardUsecase is a mock of usecase.RewardUsecase.
type MockRewardUsecase struct {
	mock.Mock
}

// NewMockRewardUsecase creates the mock and asserts its expectations on cleanup.
func NewMockRewardUsecase(t *testing.T) *MockRewardUsecase {
	m := &MockRewardUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRewardUsecase) ListRewards(ctx context.Context, onlyAvailable bool) ([]*entity.Reward, error) {
	args := m.Called(ctx, onlyAvailable)
	rewards, _ := args.Get(0).([]*entity.Reward)

	return rewards, args.Error(1)
}

func (m *MockRewardUsecase) GetReward(ctx context.Context, id uuid.UUID) (*entity.Reward, error) {
	args := m.Called(ctx, id)
	reward, _ := args.Get(0).(*entity.Reward)

	return reward, args.Error(1)
}

func (m *MockRewardUsecase) CreateReward(ctx context.Context, input *usecase.RewardInput) (*entity.Reward, error) {
	args := m.Called(ctx, input)
	reward, _ := args.Get(0).(*entity.Reward)

	return reward, args.Error(1)
}

func (m *MockRewardUsecase) UpdateReward(ctx context.Context, id uuid.UUID, input *usecase.RewardInput) (*entity.Reward, error) {
	args := m.Called(ctx, id, input)
	reward, _ := args.Get(0).(*entity.Reward)

	return reward, args.Error(1)
}

func (m *MockRewardUsecase) RedeemReward(ctx context.Context, userID, rewardID uuid.UUID) (*usecase.RedeemResult, error) {
	args := m.Called(ctx, userID, rewardID)
	result, _ := args.Get(0).(*usecase.RedeemResult)

	return result, args.Error(1)
}

func (m *MockRewardUsecase) ListUserRedemptions(ctx context.Context, userID uuid.UUID) ([]*entity.RewardRedemption, error) {
	args := m.Called(ctx, userID)
	redemptions, _ := args.Get(0).([]*entity.RewardRedemption)

	return redemptions, args.Error(1)
}

// MockUserUsecase is a mock of usecase.UserUsecase.
type MockUserUsecase struct {
	mock.Mock
}

// NewMockUserUsecase creates the mock and asserts its expectations on cleanup.
func NewMockUserUsecase(t *testing.T) *MockUserUsecase {
	m := &MockUserUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockUserUsecase) EnsureUser(ctx context.Context, principal *entity.Principal) (*entity.User, error) {
	args := m.Called(ctx, principal)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserUsecase) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserUsecase) ListUsers(ctx context.Context, opts repository.ListOptions) ([]*entity.User, error) {
	args := m.Called(ctx, opts)
	users, _ := args.Get(0).([]*entity.User)

	return users, args.Error(1)
}

func (m *MockUserUsecase) UpdateProfile(ctx context.Context, id uuid.UUID, input *usecase.UpdateProfileInput) (*entity.User, error) {
	args := m.Called(ctx, id, input)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserUsecase) SetPoints(ctx context.Context, id uuid.UUID, points int) (*entity.User, error) {
	args := m.Called(ctx, id, points)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserUsecase) ListLedger(ctx context.Context, userID uuid.UUID, opts repository.ListOptions) ([]*entity.LedgerEntry, error) {
	args := m.Called(ctx, userID, opts)
	entries, _ := args.Get(0).([]*entity.LedgerEntry)

	return entries, args.Error(1)
}
