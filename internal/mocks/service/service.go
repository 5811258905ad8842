// Package service provides testify mocks of the domain service interfaces.
package service

import (
	"context"
	"testing"

	"frutas/internal/domain/entity"
	"frutas/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockReceiptCodeGenerator is a mock of service.ReceiptCodeGenerator.
type MockReceiptCodeGenerator struct {
	mock.Mock
}

// NewMockReceiptCodeGenerator creates the mock and asserts its expectations on cleanup.
func NewMockReceiptCodeGenerator(t *testing.T) *MockReceiptCodeGenerator {
	m := &MockReceiptCodeGenerator{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockReceiptCodeGenerator) Generate(ctx context.Context) (string, error) {
	args := m.Called(ctx)

	return args.String(0), args.Error(1)
}

func (m *MockReceiptCodeGenerator) GenerateBounded(ctx context.Context, attempts int) (string, error) {
	args := m.Called(ctx, attempts)

	return args.String(0), args.Error(1)
}

// MockQRCodeService is a mock of service.QRCodeService.
type MockQRCodeService struct {
	mock.Mock
}

// NewMockQRCodeService creates the mock and asserts its expectations on cleanup.
func NewMockQRCodeService(t *testing.T) *MockQRCodeService {
	m := &MockQRCodeService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockQRCodeService) ClaimURL(code string) string {
	return m.Called(code).String(0)
}

func (m *MockQRCodeService) GenerateReceiptQR(code string) ([]byte, error) {
	args := m.Called(code)
	png, _ := args.Get(0).([]byte)

	return png, args.Error(1)
}

// MockEventPublisher is a mock of service.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

// NewMockEventPublisher creates the mock and asserts its expectations on cleanup.
func NewMockEventPublisher(t *testing.T) *MockEventPublisher {
	m := &MockEventPublisher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockEventPublisher) Publish(ctx context.Context, event *service.LoyaltyEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}

// MockArtifactStore is a mock of service.ArtifactStore.
type MockArtifactStore struct {
	mock.Mock
}

// NewMockArtifactStore creates the mock and asserts its expectations on cleanup.
func NewMockArtifactStore(t *testing.T) *MockArtifactStore {
	m := &MockArtifactStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockArtifactStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	return m.Called(ctx, key, data, contentType).Error(0)
}

func (m *MockArtifactStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)

	return data, args.Error(1)
}

func (m *MockArtifactStore) Close() error {
	return m.Called().Error(0)
}

// MockTokenService is a mock of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

// NewMockTokenService creates the mock and asserts its expectations on cleanup.
func NewMockTokenService(t *testing.T) *MockTokenService {
	m := &MockTokenService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenService) ValidateToken(tokenString string) (*entity.Principal, error) {
	args := m.Called(tokenString)
	principal, _ := args.Get(0).(*entity.Principal)

	return principal, args.Error(1)
}

// MockLoyaltyMetrics is a mock of service.LoyaltyMetrics.
type MockLoyaltyMetrics struct {
	mock.Mock
}

// NewMockLoyaltyMetrics creates the mock and asserts its expectations on cleanup.
func NewMockLoyaltyMetrics(t *testing.T) *MockLoyaltyMetrics {
	m := &MockLoyaltyMetrics{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockLoyaltyMetrics) ReceiptFinalized(points int) { m.Called(points) }
func (m *MockLoyaltyMetrics) ReceiptClaimed(points int)   { m.Called(points) }
func (m *MockLoyaltyMetrics) RewardRedeemed(points int)   { m.Called(points) }
func (m *MockLoyaltyMetrics) CodeCollision()              { m.Called() }
