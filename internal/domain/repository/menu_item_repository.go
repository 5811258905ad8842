package repository

import (
	"context"
	"errors"

	"frutas/internal/domain/entity"
)

var (
	// ErrMenuItemNotFound is returned when a menu item does not exist.
	ErrMenuItemNotFound = errors.New("menu item not found")
	// ErrMenuItemInUse is returned when deleting an item referenced by receipt lines.
	ErrMenuItemInUse = errors.New("menu item referenced by receipts")
	// ErrDuplicateMenuItem is returned when category and name collide with another item.
	ErrDuplicateMenuItem = errors.New("duplicate menu item")
)

// MenuItemRepository persists the menu catalog.
type MenuItemRepository interface {
	// List returns all items ordered by category then name.
	List(ctx context.Context) ([]*entity.MenuItem, error)

	// ListByCategory returns the items of one category ordered by name.
	ListByCategory(ctx context.Context, category string) ([]*entity.MenuItem, error)

	FindByID(ctx context.Context, id int64) (*entity.MenuItem, error)

	// FindByIDs returns the existing items among ids; missing ids are simply absent.
	FindByIDs(ctx context.Context, ids []int64) ([]*entity.MenuItem, error)

	Create(ctx context.Context, item *entity.MenuItem) error
	Update(ctx context.Context, item *entity.MenuItem) error

	// Upsert creates the item or updates the one with the same category and name.
	Upsert(ctx context.Context, item *entity.MenuItem) error

	Delete(ctx context.Context, id int64) error
}
