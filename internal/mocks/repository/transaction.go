package repository

import (
	"context"

	"frutas/internal/domain/repository"
)

// Factory hands out fixed repository mocks; nil fields panic when used, which flags unexpected access.
type Factory struct {
	Users     repository.UserRepository
	MenuItems repository.MenuItemRepository
	Receipts  repository.ReceiptRepository
	Rewards   repository.RewardRepository
	Ledger    repository.LedgerRepository
}

func (f *Factory) NewUserRepository() repository.UserRepository         { return f.Users }
func (f *Factory) NewMenuItemRepository() repository.MenuItemRepository { return f.MenuItems }
func (f *Factory) NewReceiptRepository() repository.ReceiptRepository   { return f.Receipts }
func (f *Factory) NewRewardRepository() repository.RewardRepository     { return f.Rewards }
func (f *Factory) NewLedgerRepository() repository.LedgerRepository     { return f.Ledger }

// PassthroughTxManager runs the callback directly against Factory and counts invocations.
type PassthroughTxManager struct {
	Factory *Factory
	Calls   int
}

func (tm *PassthroughTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	tm.Calls++

	return fn(tm.Factory)
}
