package impl

import (
	"context"
	"sync"
	"testing"

	"frutas/internal/domain/entity"
	domainerrors "frutas/internal/domain/errors"
	"frutas/internal/domain/repository"
	"frutas/internal/infra/persistence/model"
	"frutas/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLoyalty_FinalizeAndClaim(t *testing.T) {
	f := newLoyaltyFixture(t)
	ctx := context.Background()
	item := f.seedBenedict(t)
	user := f.seedUser(t)

	receipt, err := f.receipts.FinalizeReceipt(ctx, []usecase.ReceiptLineInput{{MenuItemID: item.ID, Quantity: 1}})
	require.NoError(t, err)
	assert.True(t, entity.IsValidReceiptCode(receipt.Code))
	assert.Equal(t, 973, receipt.PointsEarned)

	result, err := f.receipts.ClaimReceipt(ctx, receipt.Code, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 973, result.NewBalance)

	_, err = f.receipts.ClaimReceipt(ctx, receipt.Code, user.ID)
	assert.ErrorIs(t, err, domainerrors.ErrReceiptNotClaimable)

	stored, err := f.receipts.GetReceipt(ctx, receipt.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.UserID)
	assert.Equal(t, user.ID, *stored.UserID)
	assert.NotNil(t, stored.ClaimedAt)

	mine, err := f.receipts.ListUserReceipts(ctx, user.ID, repository.ListOptions{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	entries, err := f.users.ListLedger(ctx, user.ID, repository.ListOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.LedgerReasonReceiptClaim, entries[0].Reason)
	assert.Equal(t, 973, entries[0].BalanceAfter)

	png, err := f.receipts.ReceiptQR(ctx, receipt.Code)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}

func TestLoyalty_ReceiptKeepsCatalogSnapshot(t *testing.T) {
	f := newLoyaltyFixture(t)
	ctx := context.Background()
	item := f.seedBenedict(t)

	receipt, err := f.receipts.FinalizeReceipt(ctx, []usecase.ReceiptLineInput{{MenuItemID: item.ID, Quantity: 2}})
	require.NoError(t, err)

	_, err = f.menu.UpdateMenuItem(ctx, item.ID, &usecase.MenuItemInput{
		Category:   item.Category,
		Name:       "Benedict Reloaded",
		CO2Saved:   dec("9"),
		WaterSaved: dec("9"),
		LandSaved:  dec("9"),
	})
	require.NoError(t, err)

	stored, err := f.receipts.GetReceipt(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, receipt.PointsEarned, stored.PointsEarned)
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, "Benedict del Genesis", stored.Lines[0].MenuItemName)
	assert.True(t, dec("1.04").Equal(stored.Lines[0].CO2Saved))

	err = f.menu.DeleteMenuItem(ctx, item.ID)
	assert.ErrorIs(t, err, domainerrors.ErrMenuItemInUse)
}

func TestLoyalty_FinalizeIsAtomic(t *testing.T) {
	f := newLoyaltyFixture(t)
	ctx := context.Background()
	item := f.seedBenedict(t)

	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:fail_lines", func(tx *gorm.DB) {
		if tx.Statement.Table == "receipt_lines" {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))

	_, err := f.receipts.FinalizeReceipt(ctx, []usecase.ReceiptLineInput{{MenuItemID: item.ID, Quantity: 1}})
	require.Error(t, err)

	var receipts int64
	require.NoError(t, f.db.Model(&model.ReceiptModel{}).Count(&receipts).Error)
	assert.Zero(t, receipts)
}

func TestLoyalty_ConcurrentClaimCreditsOnce(t *testing.T) {
	f := newLoyaltyFixture(t)
	ctx := context.Background()
	item := f.seedBenedict(t)
	user := f.seedUser(t)

	receipt, err := f.receipts.FinalizeReceipt(ctx, []usecase.ReceiptLineInput{{MenuItemID: item.ID, Quantity: 1}})
	require.NoError(t, err)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := f.receipts.ClaimReceipt(ctx, receipt.Code, user.ID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domainerrors.ErrReceiptNotClaimable):
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, rejected)

	stored, err := f.users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 973, stored.Points)
}

func TestLoyalty_ConcurrentRedeemNeverOverdraws(t *testing.T) {
	f := newLoyaltyFixture(t)
	ctx := context.Background()
	user := f.seedUser(t)

	_, err := f.users.SetPoints(ctx, user.ID, 1000)
	require.NoError(t, err)

	reward, err := f.rewards.CreateReward(ctx, &usecase.RewardInput{Name: "Smoothie", PointsRequired: 300, Available: true})
	require.NoError(t, err)

	const workers = 5
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		succeeded    int
		insufficient int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := f.rewards.RedeemReward(ctx, user.ID, reward.ID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domainerrors.ErrInsufficientPoints):
				insufficient++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 2, insufficient)

	stored, err := f.users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Points)

	redemptions, err := f.rewards.ListUserRedemptions(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, redemptions, 3)

	entries, err := f.users.ListLedger(ctx, user.ID, repository.ListOptions{Limit: 50})
	require.NoError(t, err)
	total := 0
	for _, entry := range entries {
		total += entry.Delta
	}
	assert.Equal(t, stored.Points, total)
}

// interleaveBeforeUpdate runs write inside the same transaction right before the
// first UPDATE on table, as if a competing transaction had committed in between.
func interleaveBeforeUpdate(t *testing.T, db *gorm.DB, table string, write func(tx *gorm.DB) error) {
	t.Helper()

	var once sync.Once
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:interleave_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table != table {
			return
		}
		once.Do(func() {
			if err := write(tx.Session(&gorm.Session{NewDB: true})); err != nil {
				_ = tx.AddError(err)
			}
		})
	}))
}

func TestLoyalty_ClaimLosesRaceAfterRead(t *testing.T) {
	f := newLoyaltyFixture(t)
	ctx := context.Background()
	item := f.seedBenedict(t)
	user := f.seedUser(t)
	rival := f.seedUser(t)

	receipt, err := f.receipts.FinalizeReceipt(ctx, []usecase.ReceiptLineInput{{MenuItemID: item.ID, Quantity: 1}})
	require.NoError(t, err)

	interleaveBeforeUpdate(t, f.db, "receipts", func(tx *gorm.DB) error {
		return tx.Exec("UPDATE receipts SET user_id = ? WHERE id = ?", rival.ID, receipt.ID).Error
	})

	_, err = f.receipts.ClaimReceipt(ctx, receipt.Code, user.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrReceiptNotClaimable))

	stored, err := f.users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.Points)

	entries, err := f.users.ListLedger(ctx, user.ID, repository.ListOptions{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, entries)

	// The interleaved write rolled back with the failed claim, so the code is still claimable.
	result, err := f.receipts.ClaimReceipt(ctx, receipt.Code, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 973, result.NewBalance)
}

func TestLoyalty_RedeemLosesRaceAfterRead(t *testing.T) {
	f := newLoyaltyFixture(t)
	ctx := context.Background()
	user := f.seedUser(t)

	_, err := f.users.SetPoints(ctx, user.ID, 500)
	require.NoError(t, err)

	reward, err := f.rewards.CreateReward(ctx, &usecase.RewardInput{Name: "Smoothie", PointsRequired: 300, Available: true})
	require.NoError(t, err)

	interleaveBeforeUpdate(t, f.db, "users", func(tx *gorm.DB) error {
		return tx.Exec("UPDATE users SET points = ? WHERE id = ?", 100, user.ID).Error
	})

	_, err = f.rewards.RedeemReward(ctx, user.ID, reward.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientPoints))

	stored, err := f.users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 500, stored.Points)

	redemptions, err := f.rewards.ListUserRedemptions(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, redemptions)
}
