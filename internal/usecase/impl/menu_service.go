package impl

import (
	"context"
	"log/slog"
	"strings"

	"frutas/internal/domain/entity"
	domainerrors "frutas/internal/domain/errors"
	"frutas/internal/domain/repository"
	"frutas/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// menuService implements the MenuUsecase interface.
type menuService struct {
	txManager    repository.TransactionManager
	menuItemRepo repository.MenuItemRepository
	logger       *slog.Logger
}

// MenuServiceParams holds dependencies for MenuService, injected by Fx.
type MenuServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	MenuItemRepo repository.MenuItemRepository
	Logger       *slog.Logger
}

// NewMenuService is the constructor for menuService.
func NewMenuService(params MenuServiceParams) usecase.MenuUsecase {
	return &menuService{
		txManager:    params.TxManager,
		menuItemRepo: params.MenuItemRepo,
		logger:       params.Logger,
	}
}

func (srv *menuService) ListMenuItems(ctx context.Context, category string) ([]*entity.MenuItem, error) {
	var (
		items []*entity.MenuItem
		err   error
	)

	if category = strings.TrimSpace(category); category != "" {
		items, err = srv.menuItemRepo.ListByCategory(ctx, category)
	} else {
		items, err = srv.menuItemRepo.List(ctx)
	}
	if err != nil {
		return nil, persistenceError(err, "failed to list menu items")
	}

	return items, nil
}

func (srv *menuService) GetMenuItem(ctx context.Context, id int64) (*entity.MenuItem, error) {
	item, err := srv.menuItemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapMenuItemError(err, "failed to get menu item")
	}

	return item, nil
}

func (srv *menuService) CreateMenuItem(ctx context.Context, input *usecase.MenuItemInput) (*entity.MenuItem, error) {
	item, err := newMenuItem(input)
	if err != nil {
		return nil, err
	}

	if err := srv.menuItemRepo.Create(ctx, item); err != nil {
		return nil, mapMenuItemError(err, "failed to create menu item")
	}

	contextLogger(ctx, srv.logger).InfoContext(ctx, "Menu item created",
		slog.Int64("menu_item_id", item.ID),
		slog.String("category", item.Category),
	)

	return item, nil
}

// UpdateMenuItem changes the catalog only; finalized receipts keep their snapshots.
func (srv *menuService) UpdateMenuItem(ctx context.Context, id int64, input *usecase.MenuItemInput) (*entity.MenuItem, error) {
	item, err := newMenuItem(input)
	if err != nil {
		return nil, err
	}
	item.ID = id

	var updated *entity.MenuItem

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		menuItemRepo := repoFactory.NewMenuItemRepository()

		if err := menuItemRepo.Update(ctx, item); err != nil {
			return err
		}

		stored, err := menuItemRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		updated = stored

		return nil
	})
	if err != nil {
		return nil, mapMenuItemError(err, "failed to update menu item")
	}

	return updated, nil
}

// DeleteMenuItem refuses items that any receipt line references.
func (srv *menuService) DeleteMenuItem(ctx context.Context, id int64) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.NewMenuItemRepository().Delete(ctx, id)
	})
	if err != nil {
		return mapMenuItemError(err, "failed to delete menu item")
	}

	contextLogger(ctx, srv.logger).InfoContext(ctx, "Menu item deleted", slog.Int64("menu_item_id", id))

	return nil
}

// SeedMenuItems validates every input before writing any of them.
func (srv *menuService) SeedMenuItems(ctx context.Context, inputs []*usecase.MenuItemInput) (int, error) {
	items := make([]*entity.MenuItem, 0, len(inputs))
	for i, input := range inputs {
		item, err := newMenuItem(input)
		if err != nil {
			return 0, errors.Wrapf(err, "item %d", i)
		}
		items = append(items, item)
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		menuItemRepo := repoFactory.NewMenuItemRepository()
		for _, item := range items {
			if err := menuItemRepo.Upsert(ctx, item); err != nil {
				return errors.Wrapf(err, "failed to upsert %s/%s", item.Category, item.Name)
			}
		}

		return nil
	})
	if err != nil {
		return 0, persistenceError(err, "failed to seed menu items")
	}

	return len(items), nil
}

// newMenuItem enforces positive metrics and whole liters of water.
func newMenuItem(input *usecase.MenuItemInput) (*entity.MenuItem, error) {
	var problems []string

	category := strings.TrimSpace(input.Category)
	name := strings.TrimSpace(input.Name)

	if category == "" {
		problems = append(problems, "category is required")
	}
	if name == "" {
		problems = append(problems, "name is required")
	}
	if !input.CO2Saved.IsPositive() {
		problems = append(problems, "co2_saved must be positive")
	}
	if !input.WaterSaved.IsPositive() || !input.WaterSaved.IsInteger() {
		problems = append(problems, "water_saved must be a positive whole number of liters")
	}
	if !input.LandSaved.IsPositive() {
		problems = append(problems, "land_saved must be positive")
	}
	if len(problems) > 0 {
		return nil, validationError(problems)
	}

	return &entity.MenuItem{
		Category:   category,
		Name:       name,
		CO2Saved:   input.CO2Saved,
		WaterSaved: input.WaterSaved,
		LandSaved:  input.LandSaved,
	}, nil
}

func mapMenuItemError(err error, message string) error {
	switch {
	case errors.Is(err, repository.ErrMenuItemNotFound):
		return errors.WithStack(domainerrors.ErrMenuItemNotFound)
	case errors.Is(err, repository.ErrMenuItemInUse):
		return errors.WithStack(domainerrors.ErrMenuItemInUse)
	case errors.Is(err, repository.ErrDuplicateMenuItem):
		return errors.WithStack(domainerrors.ErrMenuItemExists)
	default:
		return persistenceError(err, message)
	}
}
