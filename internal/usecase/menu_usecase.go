package usecase

import (
	"context"

	"frutas/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// MenuUsecase exposes the menu catalog.
type MenuUsecase interface {
	// ListMenuItems returns the whole catalog, or one category when category is not empty.
	ListMenuItems(ctx context.Context, category string) ([]*entity.MenuItem, error)
	GetMenuItem(ctx context.Context, id int64) (*entity.MenuItem, error)
	CreateMenuItem(ctx context.Context, input *MenuItemInput) (*entity.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id int64, input *MenuItemInput) (*entity.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id int64) error

	// SeedMenuItems upserts a catalog by (category, name) in one transaction.
	SeedMenuItems(ctx context.Context, inputs []*MenuItemInput) (int, error)
}

// MenuItemInput defines the editable fields of a menu item.
type MenuItemInput struct {
	Category   string
	Name       string
	CO2Saved   decimal.Decimal
	WaterSaved decimal.Decimal
	LandSaved  decimal.Decimal
}
