// Package repository provides testify mocks of the domain repository interfaces.
package repository

import (
	"context"
	"testing"
	"time"

	"frutas/internal/domain/entity"
	"frutas/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

// NewMockUserRepository creates the mock and asserts its expectations on cleanup.
func NewMockUserRepository(t *testing.T) *MockUserRepository {
	m := &MockUserRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, opts repository.ListOptions) ([]*entity.User, error) {
	args := m.Called(ctx, opts)
	users, _ := args.Get(0).([]*entity.User)

	return users, args.Error(1)
}

func (m *MockUserRepository) CreateIfNotExists(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) error {
	return m.Called(ctx, id, name, email).Error(0)
}

func (m *MockUserRepository) IncrementPoints(ctx context.Context, id uuid.UUID, delta int) error {
	return m.Called(ctx, id, delta).Error(0)
}

func (m *MockUserRepository) DecrementPointsIfSufficient(ctx context.Context, id uuid.UUID, amount int) error {
	return m.Called(ctx, id, amount).Error(0)
}

func (m *MockUserRepository) CompareAndSetPoints(ctx context.Context, id uuid.UUID, current, next int) error {
	return m.Called(ctx, id, current, next).Error(0)
}

// MockMenuItemRepository is a mock of repository.MenuItemRepository.
type MockMenuItemRepository struct {
	mock.Mock
}

// NewMockMenuItemRepository creates the mock and asserts its expectations on cleanup.
func NewMockMenuItemRepository(t *testing.T) *MockMenuItemRepository {
	m := &MockMenuItemRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockMenuItemRepository) List(ctx context.Context) ([]*entity.MenuItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]*entity.MenuItem)

	return items, args.Error(1)
}

func (m *MockMenuItemRepository) ListByCategory(ctx context.Context, category string) ([]*entity.MenuItem, error) {
	args := m.Called(ctx, category)
	items, _ := args.Get(0).([]*entity.MenuItem)

	return items, args.Error(1)
}

func (m *MockMenuItemRepository) FindByID(ctx context.Context, id int64) (*entity.MenuItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*entity.MenuItem)

	return item, args.Error(1)
}

func (m *MockMenuItemRepository) FindByIDs(ctx context.Context, ids []int64) ([]*entity.MenuItem, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]*entity.MenuItem)

	return items, args.Error(1)
}

func (m *MockMenuItemRepository) Create(ctx context.Context, item *entity.MenuItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockMenuItemRepository) Update(ctx context.Context, item *entity.MenuItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockMenuItemRepository) Upsert(ctx context.Context, item *entity.MenuItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockMenuItemRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockReceiptRepository is a mock of repository.ReceiptRepository.
type MockReceiptRepository struct {
	mock.Mock
}

// NewMockReceiptRepository creates the mock and asserts its expectations on cleanup.
func NewMockReceiptRepository(t *testing.T) *MockReceiptRepository {
	m := &MockReceiptRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockReceiptRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)

	return args.Bool(0), args.Error(1)
}

func (m *MockReceiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	return m.Called(ctx, receipt).Error(0)
}

func (m *MockReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	args := m.Called(ctx, id)
	receipt, _ := args.Get(0).(*entity.Receipt)

	return receipt, args.Error(1)
}

func (m *MockReceiptRepository) FindByCode(ctx context.Context, code string) (*entity.Receipt, error) {
	args := m.Called(ctx, code)
	receipt, _ := args.Get(0).(*entity.Receipt)

	return receipt, args.Error(1)
}

func (m *MockReceiptRepository) FindUnclaimedByCode(ctx context.Context, code string) (*entity.Receipt, error) {
	args := m.Called(ctx, code)
	receipt, _ := args.Get(0).(*entity.Receipt)

	return receipt, args.Error(1)
}

func (m *MockReceiptRepository) SetUserIDIfNull(ctx context.Context, receiptID, userID uuid.UUID, claimedAt time.Time) error {
	return m.Called(ctx, receiptID, userID, claimedAt).Error(0)
}

func (m *MockReceiptRepository) ListByUser(ctx context.Context, userID uuid.UUID, opts repository.ListOptions) ([]*entity.Receipt, error) {
	args := m.Called(ctx, userID, opts)
	receipts, _ := args.Get(0).([]*entity.Receipt)

	return receipts, args.Error(1)
}

func (m *MockReceiptRepository) List(ctx context.Context, opts repository.ListOptions) ([]*entity.Receipt, error) {
	args := m.Called(ctx, opts)
	receipts, _ := args.Get(0).([]*entity.Receipt)

	return receipts, args.Error(1)
}

// MockRewardRepository is a mock of repository.RewardRepository.
type MockRewardRepository struct {
	mock.Mock
}

// NewMockRewardRepository creates the mock and asserts its expectations on cleanup.
func NewMockRewardRepository(t *testing.T) *MockRewardRepository {
	m := &MockRewardRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRewardRepository) List(ctx context.Context, onlyAvailable bool) ([]*entity.Reward, error) {
	args := m.Called(ctx, onlyAvailable)
	rewards, _ := args.Get(0).([]*entity.Reward)

	return rewards, args.Error(1)
}

func (m *MockRewardRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reward, error) {
	args := m.Called(ctx, id)
	reward, _ := args.Get(0).(*entity.Reward)

	return reward, args.Error(1)
}

func (m *MockRewardRepository) Create(ctx context.Context, reward *entity.Reward) error {
	return m.Called(ctx, reward).Error(0)
}

func (m *MockRewardRepository) Update(ctx context.Context, reward *entity.Reward) error {
	return m.Called(ctx, reward).Error(0)
}

func (m *MockRewardRepository) CreateRedemption(ctx context.Context, redemption *entity.RewardRedemption) error {
	return m.Called(ctx, redemption).Error(0)
}

func (m *MockRewardRepository) ListRedemptionsByUser(ctx context.Context, userID uuid.UUID) ([]*entity.RewardRedemption, error) {
	args := m.Called(ctx, userID)
	redemptions, _ := args.Get(0).([]*entity.RewardRedemption)

	return redemptions, args.Error(1)
}

// MockLedgerRepository is a mock of repository.LedgerRepository.
type MockLedgerRepository struct {
	mock.Mock
}

// NewMockLedgerRepository creates the mock and asserts its expectations on cleanup.
func NewMockLedgerRepository(t *testing.T) *MockLedgerRepository {
	m := &MockLedgerRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockLedgerRepository) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockLedgerRepository) ListByUser(ctx context.Context, userID uuid.UUID, opts repository.ListOptions) ([]*entity.LedgerEntry, error) {
	args := m.Called(ctx, userID, opts)
	entries, _ := args.Get(0).([]*entity.LedgerEntry)

	return entries, args.Error(1)
}
