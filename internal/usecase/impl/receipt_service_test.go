package impl

import (
	"context"
	"testing"
	"time"

	"frutas/config"
	"frutas/internal/domain/constants"
	"frutas/internal/domain/entity"
	domainerrors "frutas/internal/domain/errors"
	"frutas/internal/domain/repository"
	"frutas/internal/domain/service"
	mockrepo "frutas/internal/mocks/repository"
	mocksvc "frutas/internal/mocks/service"
	"frutas/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type receiptServiceFixture struct {
	service       *receiptService
	txManager     *mockrepo.PassthroughTxManager
	menuItemRepo  *mockrepo.MockMenuItemRepository
	receiptRepo   *mockrepo.MockReceiptRepository
	userRepo      *mockrepo.MockUserRepository
	ledgerRepo    *mockrepo.MockLedgerRepository
	codeGenerator *mocksvc.MockReceiptCodeGenerator
	qrCodeService *mocksvc.MockQRCodeService
	artifacts     *mocksvc.MockArtifactStore
	publisher     *mocksvc.MockEventPublisher
	metrics       *mocksvc.MockLoyaltyMetrics
	now           time.Time
}

func createTestReceiptService(t *testing.T) *receiptServiceFixture {
	fx := &receiptServiceFixture{
		menuItemRepo:  mockrepo.NewMockMenuItemRepository(t),
		receiptRepo:   mockrepo.NewMockReceiptRepository(t),
		userRepo:      mockrepo.NewMockUserRepository(t),
		ledgerRepo:    mockrepo.NewMockLedgerRepository(t),
		codeGenerator: mocksvc.NewMockReceiptCodeGenerator(t),
		qrCodeService: mocksvc.NewMockQRCodeService(t),
		artifacts:     mocksvc.NewMockArtifactStore(t),
		publisher:     mocksvc.NewMockEventPublisher(t),
		metrics:       mocksvc.NewMockLoyaltyMetrics(t),
		now:           time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	fx.txManager = &mockrepo.PassthroughTxManager{Factory: &mockrepo.Factory{
		Users:    fx.userRepo,
		Receipts: fx.receiptRepo,
		Ledger:   fx.ledgerRepo,
	}}

	srv := NewReceiptService(ReceiptServiceParams{
		TxManager:     fx.txManager,
		MenuItemRepo:  fx.menuItemRepo,
		ReceiptRepo:   fx.receiptRepo,
		CodeGenerator: fx.codeGenerator,
		QRCodeService: fx.qrCodeService,
		Artifacts:     fx.artifacts,
		Publisher:     fx.publisher,
		Metrics:       fx.metrics,
		Config:        &config.Config{Receipt: &config.ReceiptConfig{CodeAttempts: 4, FinalizeAttempts: 2}},
		Logger:        newDiscardLogger(),
	}).(*receiptService)
	srv.now = func() time.Time { return fx.now }
	fx.service = srv

	return fx
}

func benedict() *entity.MenuItem {
	return &entity.MenuItem{
		ID:         7,
		Category:   "Breakfast",
		Name:       "Benedict del Genesis",
		CO2Saved:   dec("1.04"),
		WaterSaved: dec("835"),
		LandSaved:  dec("0.68"),
	}
}

func (fx *receiptServiceFixture) expectArchive(code string) {
	png := []byte("png-" + code)
	fx.qrCodeService.On("GenerateReceiptQR", code).Return(png, nil).Once()
	fx.artifacts.On("Put", mock.Anything, service.ReceiptQRKey(code), png, "image/png").Return(nil).Once()
}

func TestReceiptService_FinalizeReceipt_Success(t *testing.T) {
	fx := createTestReceiptService(t)
	ctx := context.Background()

	fx.menuItemRepo.On("FindByIDs", ctx, []int64{7}).Return([]*entity.MenuItem{benedict()}, nil)
	fx.codeGenerator.On("GenerateBounded", ctx, 4).Return("AB123456", nil).Once()
	fx.receiptRepo.On("Create", ctx, mock.AnythingOfType("*entity.Receipt")).Return(nil).Once()
	fx.metrics.On("ReceiptFinalized", 973).Once()
	fx.expectArchive("AB123456")

	receipt, err := fx.service.FinalizeReceipt(ctx, []usecase.ReceiptLineInput{{MenuItemID: 7, Quantity: 1}})
	require.NoError(t, err)

	assert.Equal(t, "AB123456", receipt.Code)
	assert.Equal(t, 973, receipt.PointsEarned)
	assert.Nil(t, receipt.UserID)
	require.Len(t, receipt.Lines, 1)
	assert.Equal(t, "Benedict del Genesis", receipt.Lines[0].MenuItemName)
	assert.True(t, dec("1.04").Equal(receipt.TotalCO2Saved))
	assert.True(t, dec("835").Equal(receipt.TotalWaterSaved))
	assert.True(t, dec("0.68").Equal(receipt.TotalLandSaved))
	assert.Equal(t, 1, fx.txManager.Calls)
}

func TestReceiptService_FinalizeReceipt_ArchiveFailureIsIgnored(t *testing.T) {
	fx := createTestReceiptService(t)
	ctx := context.Background()

	fx.menuItemRepo.On("FindByIDs", ctx, []int64{7}).Return([]*entity.MenuItem{benedict()}, nil)
	fx.codeGenerator.On("GenerateBounded", ctx, 4).Return("AB123456", nil)
	fx.receiptRepo.On("Create", ctx, mock.Anything).Return(nil)
	fx.metrics.On("ReceiptFinalized", 973)
	fx.qrCodeService.On("GenerateReceiptQR", "AB123456").Return([]byte("png"), nil)
	fx.artifacts.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket down"))

	receipt, err := fx.service.FinalizeReceipt(ctx, []usecase.ReceiptLineInput{{MenuItemID: 7, Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, "AB123456", receipt.Code)
}

func TestReceiptService_FinalizeReceipt_Validation(t *testing.T) {
	tests := []struct {
		name    string
		lines   []usecase.ReceiptLineInput
		details string
	}{
		{name: "empty cart", lines: nil, details: "at least one item"},
		{name: "zero quantity", lines: []usecase.ReceiptLineInput{{MenuItemID: 1, Quantity: 0}}, details: "items[0].quantity"},
		{name: "quantity above limit", lines: []usecase.ReceiptLineInput{{MenuItemID: 1, Quantity: 100}}, details: "between 1 and 99"},
		{
			name:    "duplicated item",
			lines:   []usecase.ReceiptLineInput{{MenuItemID: 1, Quantity: 1}, {MenuItemID: 1, Quantity: 2}},
			details: "items[1].menu_item_id 1 is duplicated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestReceiptService(t)

			_, err := fx.service.FinalizeReceipt(context.Background(), tt.lines)
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
			assert.Contains(t, err.Error(), tt.details)
			assert.Zero(t, fx.txManager.Calls)
		})
	}
}

func TestReceiptService_FinalizeReceipt_UnknownMenuItems(t *testing.T) {
	fx := createTestReceiptService(t)
	ctx := context.Background()

	fx.menuItemRepo.On("FindByIDs", ctx, []int64{7, 8, 9}).Return([]*entity.MenuItem{benedict()}, nil)

	_, err := fx.service.FinalizeReceipt(ctx, []usecase.ReceiptLineInput{
		{MenuItemID: 7, Quantity: 1},
		{MenuItemID: 8, Quantity: 1},
		{MenuItemID: 9, Quantity: 1},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	assert.Contains(t, err.Error(), "unknown menu_item_id: 8, 9")
	assert.Zero(t, fx.txManager.Calls)
}

func TestReceiptService_FinalizeReceipt_RetriesOnDuplicateCode(t *testing.T) {
	fx := createTestReceiptService(t)
	ctx := context.Background()

	fx.menuItemRepo.On("FindByIDs", ctx, []int64{7}).Return([]*entity.MenuItem{benedict()}, nil)
	fx.codeGenerator.On("GenerateBounded", ctx, 4).Return("AB123456", nil).Once()
	fx.codeGenerator.On("GenerateBounded", ctx, 4).Return("CD654321", nil).Once()
	fx.receiptRepo.On("Create", ctx, mock.MatchedBy(func(r *entity.Receipt) bool { return r.Code == "AB123456" })).
		Return(repository.ErrDuplicateReceiptCode).Once()
	fx.receiptRepo.On("Create", ctx, mock.MatchedBy(func(r *entity.Receipt) bool { return r.Code == "CD654321" })).
		Return(nil).Once()
	fx.metrics.On("CodeCollision").Once()
	fx.metrics.On("ReceiptFinalized", 973).Once()
	fx.expectArchive("CD654321")

	receipt, err := fx.service.FinalizeReceipt(ctx, []usecase.ReceiptLineInput{{MenuItemID: 7, Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, "CD654321", receipt.Code)
	assert.Equal(t, 2, fx.txManager.Calls)
}

func TestReceiptService_FinalizeReceipt_CollisionBudgetExhausted(t *testing.T) {
	fx := createTestReceiptService(t)
	ctx := context.Background()

	fx.menuItemRepo.On("FindByIDs", ctx, []int64{7}).Return([]*entity.MenuItem{benedict()}, nil)
	fx.codeGenerator.On("GenerateBounded", ctx, 4).Return("AB123456", nil).Times(2)
	fx.receiptRepo.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicateReceiptCode).Times(2)
	fx.metrics.On("CodeCollision").Times(2)

	_, err := fx.service.FinalizeReceipt(ctx, []usecase.ReceiptLineInput{{MenuItemID: 7, Quantity: 1}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrCodeGenerationFailed)
}

func TestReceiptService_FinalizeReceipt_GeneratorGivesUp(t *testing.T) {
	fx := createTestReceiptService(t)
	ctx := context.Background()

	fx.menuItemRepo.On("FindByIDs", ctx, []int64{7}).Return([]*entity.MenuItem{benedict()}, nil)
	fx.codeGenerator.On("GenerateBounded", ctx, 4).
		Return("", domainerrors.ErrCodeGenerationFailed.WrapMessage("no free code after 4 attempts"))

	_, err := fx.service.FinalizeReceipt(ctx, []usecase.ReceiptLineInput{{MenuItemID: 7, Quantity: 1}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrCodeGenerationFailed)
	assert.Zero(t, fx.txManager.Calls)
}

func TestReceiptService_FinalizeReceipt_DatabaseError(t *testing.T) {
	fx := createTestReceiptService(t)
	ctx := context.Background()

	fx.menuItemRepo.On("FindByIDs", ctx, []int64{7}).Return([]*entity.MenuItem{benedict()}, nil)
	fx.codeGenerator.On("GenerateBounded", ctx, 4).Return("AB123456", nil)
	fx.receiptRepo.On("Create", ctx, mock.Anything).Return(errors.New("connection reset"))

	_, err := fx.service.FinalizeReceipt(ctx, []usecase.ReceiptLineInput{{MenuItemID: 7, Quantity: 1}})
	require.Error(t, err)

	appErr, ok := domainerrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", appErr.ErrorCode())
}

func TestReceiptService_ClaimReceipt_Success(t *testing.T) {
	fx := createTestReceiptService(t)
	ctx := context.Background()
	userID := uuid.New()
	receiptID := uuid.New()

	fx.receiptRepo.On("FindUnclaimedByCode", ctx, "AB123456").
		Return(&entity.Receipt{ID: receiptID, Code: "AB123456", PointsEarned: 973}, nil)
	fx.receiptRepo.On("SetUserIDIfNull", ctx, receiptID, userID, fx.now).Return(nil)
	fx.userRepo.On("IncrementPoints", ctx, userID, 973).Return(nil)
	fx.userRepo.On("FindByID", ctx, userID).Return(&entity.User{ID: userID, Points: 1000}, nil)
	fx.ledgerRepo.On("Append", ctx, mock.MatchedBy(func(e *entity.LedgerEntry) bool {
		return e.Delta == 973 && e.BalanceAfter == 1000 &&
			e.Reason == entity.LedgerReasonReceiptClaim && *e.ReferenceID == receiptID
	})).Return(nil)
	fx.metrics.On("ReceiptClaimed", 973)
	fx.publisher.On("Publish", ctx, mock.MatchedBy(func(e *service.LoyaltyEvent) bool {
		return e.EventType == constants.EventReceiptClaimed && e.UserID == userID.String() && e.Balance == 1000
	})).Return(nil)

	result, err := fx.service.ClaimReceipt(ctx, "  ab123456 ", userID)
	require.NoError(t, err)

	assert.Equal(t, 1000, result.NewBalance)
	assert.Equal(t, userID, *result.Receipt.UserID)
	assert.Equal(t, fx.now, *result.Receipt.ClaimedAt)
}

func TestReceiptService_ClaimReceipt_PublishFailureIsIgnored(t *testing.T) {
	fx := createTestReceiptService(t)
	ctx := context.Background()
	userID := uuid.New()
	receiptID := uuid.New()

	fx.receiptRepo.On("FindUnclaimedByCode", ctx, "AB123456").
		Return(&entity.Receipt{ID: receiptID, Code: "AB123456", PointsEarned: 10}, nil)
	fx.receiptRepo.On("SetUserIDIfNull", ctx, receiptID, userID, fx.now).Return(nil)
	fx.userRepo.On("IncrementPoints", ctx, userID, 10).Return(nil)
	fx.userRepo.On("FindByID", ctx, userID).Return(&entity.User{ID: userID, Points: 10}, nil)
	fx.ledgerRepo.On("Append", ctx, mock.Anything).Return(nil)
	fx.metrics.On("ReceiptClaimed", 10)
	fx.publisher.On("Publish", ctx, mock.Anything).Return(errors.New("broker unavailable"))

	result, err := fx.service.ClaimReceipt(ctx, "AB123456", userID)
	require.NoError(t, err)
	assert.Equal(t, 10, result.NewBalance)
}

func TestReceiptService_ClaimReceipt_MalformedCode(t *testing.T) {
	fx := createTestReceiptService(t)

	for _, code := range []string{"", "A1234567", "ABC12345", "AB12345", "AB-23456"} {
		_, err := fx.service.ClaimReceipt(context.Background(), code, uuid.New())
		assert.ErrorIs(t, err, domainerrors.ErrReceiptNotClaimable, code)
	}
	assert.Zero(t, fx.txManager.Calls)
}

func TestReceiptService_ClaimReceipt_NotClaimable(t *testing.T) {
	fx := createTestReceiptService(t)
	ctx := context.Background()

	fx.receiptRepo.On("FindUnclaimedByCode", ctx, "ZZ000000").Return(nil, repository.ErrReceiptNotFound)

	_, err := fx.service.ClaimReceipt(ctx, "ZZ000000", uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrReceiptNotClaimable)
}

func TestReceiptService_ClaimReceipt_LostRace(t *testing.T) {
	fx := createTestReceiptService(t)
	ctx := context.Background()
	userID := uuid.New()
	receiptID := uuid.New()

	fx.receiptRepo.On("FindUnclaimedByCode", ctx, "AB123456").
		Return(&entity.Receipt{ID: receiptID, Code: "AB123456", PointsEarned: 5}, nil)
	fx.receiptRepo.On("SetUserIDIfNull", ctx, receiptID, userID, fx.now).Return(repository.ErrReceiptAlreadyClaimed)

	_, err := fx.service.ClaimReceipt(ctx, "AB123456", userID)
	assert.ErrorIs(t, err, domainerrors.ErrReceiptNotClaimable)
}

func TestReceiptService_ClaimReceipt_UnknownUser(t *testing.T) {
	fx := createTestReceiptService(t)
	ctx := context.Background()
	userID := uuid.New()
	receiptID := uuid.New()

	fx.receiptRepo.On("FindUnclaimedByCode", ctx, "AB123456").
		Return(&entity.Receipt{ID: receiptID, Code: "AB123456", PointsEarned: 5}, nil)
	fx.receiptRepo.On("SetUserIDIfNull", ctx, receiptID, userID, fx.now).Return(nil)
	fx.userRepo.On("IncrementPoints", ctx, userID, 5).Return(repository.ErrUserNotFound)

	_, err := fx.service.ClaimReceipt(ctx, "AB123456", userID)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestReceiptService_GetReceipt_NotFound(t *testing.T) {
	fx := createTestReceiptService(t)
	ctx := context.Background()
	id := uuid.New()

	fx.receiptRepo.On("FindByID", ctx, id).Return(nil, repository.ErrReceiptNotFound)

	_, err := fx.service.GetReceipt(ctx, id)
	assert.ErrorIs(t, err, domainerrors.ErrReceiptNotFound)
}

func TestReceiptService_ReceiptQR(t *testing.T) {
	t.Run("archived image", func(t *testing.T) {
		fx := createTestReceiptService(t)
		ctx := context.Background()

		fx.receiptRepo.On("FindByCode", ctx, "AB123456").Return(&entity.Receipt{Code: "AB123456"}, nil)
		fx.artifacts.On("Get", ctx, "receipts/AB123456.png").Return([]byte("archived"), nil)

		png, err := fx.service.ReceiptQR(ctx, "ab123456")
		require.NoError(t, err)
		assert.Equal(t, []byte("archived"), png)
	})

	t.Run("rendered when not archived", func(t *testing.T) {
		fx := createTestReceiptService(t)
		ctx := context.Background()

		fx.receiptRepo.On("FindByCode", ctx, "AB123456").Return(&entity.Receipt{Code: "AB123456"}, nil)
		fx.artifacts.On("Get", ctx, "receipts/AB123456.png").Return(nil, errors.New("not found"))
		fx.qrCodeService.On("GenerateReceiptQR", "AB123456").Return([]byte("fresh"), nil)

		png, err := fx.service.ReceiptQR(ctx, "AB123456")
		require.NoError(t, err)
		assert.Equal(t, []byte("fresh"), png)
	})

	t.Run("unknown code", func(t *testing.T) {
		fx := createTestReceiptService(t)
		ctx := context.Background()

		fx.receiptRepo.On("FindByCode", ctx, "AB123456").Return(nil, repository.ErrReceiptNotFound)

		_, err := fx.service.ReceiptQR(ctx, "AB123456")
		assert.ErrorIs(t, err, domainerrors.ErrReceiptNotFound)
	})
}
