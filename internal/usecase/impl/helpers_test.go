package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"frutas/internal/domain/entity"
	"frutas/internal/infra/artifact"
	"frutas/internal/infra/metrics"
	"frutas/internal/infra/persistence/postgres"
	"frutas/internal/infra/persistence/sqlitetest"
	"frutas/internal/infra/pubsub"
	"frutas/internal/infra/qrcode"
	"frutas/internal/infra/receiptcode"
	"frutas/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// loyaltyFixture wires the real services over an in-memory database.
type loyaltyFixture struct {
	db       *gorm.DB
	receipts usecase.ReceiptUsecase
	rewards  usecase.RewardUsecase
	users    usecase.UserUsecase
	menu     usecase.MenuUsecase
}

func newLoyaltyFixture(t *testing.T) *loyaltyFixture {
	t.Helper()

	db := sqlitetest.Open(t)
	logger := newDiscardLogger()

	txManager := postgres.NewTransactionManager(db)
	userRepo := postgres.NewUserRepository(db)
	menuItemRepo := postgres.NewMenuItemRepository(db)
	receiptRepo := postgres.NewReceiptRepository(db)
	rewardRepo := postgres.NewRewardRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)

	artifacts, err := artifact.Open(context.Background(), "mem://", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = artifacts.Close() })

	publisher := pubsub.NewNoopPublisher(logger)

	return &loyaltyFixture{
		db: db,
		receipts: NewReceiptService(ReceiptServiceParams{
			TxManager:     txManager,
			MenuItemRepo:  menuItemRepo,
			ReceiptRepo:   receiptRepo,
			CodeGenerator: receiptcode.NewGenerator(receiptRepo, logger),
			QRCodeService: qrcode.NewQRCodeService(128, "M", ""),
			Artifacts:     artifacts,
			Publisher:     publisher,
			Metrics:       metrics.Noop{},
			Logger:        logger,
		}),
		rewards: NewRewardService(RewardServiceParams{
			TxManager:  txManager,
			RewardRepo: rewardRepo,
			Publisher:  publisher,
			Metrics:    metrics.Noop{},
			Logger:     logger,
		}),
		users: NewUserService(UserServiceParams{
			TxManager:  txManager,
			UserRepo:   userRepo,
			LedgerRepo: ledgerRepo,
			Logger:     logger,
		}),
		menu: NewMenuService(MenuServiceParams{
			TxManager:    txManager,
			MenuItemRepo: menuItemRepo,
			Logger:       logger,
		}),
	}
}

func (f *loyaltyFixture) seedBenedict(t *testing.T) *entity.MenuItem {
	t.Helper()

	item, err := f.menu.CreateMenuItem(context.Background(), &usecase.MenuItemInput{
		Category:   "Breakfast",
		Name:       "Benedict del Genesis",
		CO2Saved:   dec("1.04"),
		WaterSaved: dec("835"),
		LandSaved:  dec("0.68"),
	})
	require.NoError(t, err)

	return item
}

func (f *loyaltyFixture) seedUser(t *testing.T) *entity.User {
	t.Helper()

	user, err := f.users.EnsureUser(context.Background(), &entity.Principal{
		UserID: uuid.New(),
		Email:  "eve@example.com",
		Name:   "Eve",
		Roles:  entity.Roles{entity.RoleUser},
	})
	require.NoError(t, err)

	return user
}
