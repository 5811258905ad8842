package postgres

import (
	"context"
	"time"

	"frutas/internal/domain/entity"
	"frutas/internal/domain/repository"
	"frutas/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// menuItemRepository implements the repository.MenuItemRepository interface.
type menuItemRepository struct {
	db *gorm.DB
}

// NewMenuItemRepository is the constructor for menuItemRepository.
func NewMenuItemRepository(db *gorm.DB) repository.MenuItemRepository {
	return &menuItemRepository{
		db: db,
	}
}

func (repo *menuItemRepository) List(ctx context.Context) ([]*entity.MenuItem, error) {
	var itemModels []*model.MenuItemModel

	if err := repo.db.WithContext(ctx).
		Order("category ASC").
		Order("name ASC").
		Find(&itemModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list menu items")
	}

	return toMenuItemDomains(itemModels), nil
}

func (repo *menuItemRepository) ListByCategory(ctx context.Context, category string) ([]*entity.MenuItem, error) {
	var itemModels []*model.MenuItemModel

	if err := repo.db.WithContext(ctx).
		Where("category = ?", category).
		Order("name ASC").
		Find(&itemModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list menu items by category")
	}

	return toMenuItemDomains(itemModels), nil
}

func (repo *menuItemRepository) FindByID(ctx context.Context, id int64) (*entity.MenuItem, error) {
	var itemM model.MenuItemModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&itemM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMenuItemNotFound
		}

		return nil, errors.Wrap(err, "failed to find menu item by ID")
	}

	return toMenuItemDomain(&itemM), nil
}

func (repo *menuItemRepository) FindByIDs(ctx context.Context, ids []int64) ([]*entity.MenuItem, error) {
	if len(ids) == 0 {
		return []*entity.MenuItem{}, nil
	}

	var itemModels []*model.MenuItemModel

	if err := repo.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&itemModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find menu items by IDs")
	}

	return toMenuItemDomains(itemModels), nil
}

func (repo *menuItemRepository) Create(ctx context.Context, item *entity.MenuItem) error {
	itemM := fromMenuItemDomain(item)

	if err := repo.db.WithContext(ctx).Create(itemM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateMenuItem
		}

		return errors.Wrap(err, "failed to create menu item")
	}

	item.ID = itemM.ID
	item.CreatedAt = itemM.CreatedAt
	item.UpdatedAt = itemM.UpdatedAt

	return nil
}

func (repo *menuItemRepository) Update(ctx context.Context, item *entity.MenuItem) error {
	result := repo.db.WithContext(ctx).
		Model(&model.MenuItemModel{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"category":    item.Category,
			"name":        item.Name,
			"co2_saved":   item.CO2Saved,
			"water_saved": item.WaterSaved,
			"land_saved":  item.LandSaved,
			"updated_at":  time.Now().UTC(),
		})

	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrDuplicateMenuItem
		}

		return errors.Wrap(result.Error, "failed to update menu item")
	}

	if result.RowsAffected == 0 {
		return repository.ErrMenuItemNotFound
	}

	return nil
}

// Upsert keys on (category, name) so reseeding a catalog refreshes the metrics in place.
func (repo *menuItemRepository) Upsert(ctx context.Context, item *entity.MenuItem) error {
	itemM := fromMenuItemDomain(item)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"co2_saved", "water_saved", "land_saved", "updated_at"}),
		}).
		Create(itemM).Error; err != nil {
		return errors.Wrap(err, "failed to upsert menu item")
	}

	item.ID = itemM.ID

	return nil
}

// Delete refuses to remove items that finalized receipts still point at.
func (repo *menuItemRepository) Delete(ctx context.Context, id int64) error {
	var refs int64
	if err := repo.db.WithContext(ctx).
		Model(&model.ReceiptLineModel{}).
		Where("menu_item_id = ?", id).
		Count(&refs).Error; err != nil {
		return errors.Wrap(err, "failed to count menu item references")
	}

	if refs > 0 {
		return repository.ErrMenuItemInUse
	}

	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.MenuItemModel{})

	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return repository.ErrMenuItemInUse
		}

		return errors.Wrap(result.Error, "failed to delete menu item")
	}

	if result.RowsAffected == 0 {
		return repository.ErrMenuItemNotFound
	}

	return nil
}

func toMenuItemDomains(itemModels []*model.MenuItemModel) []*entity.MenuItem {
	items := make([]*entity.MenuItem, 0, len(itemModels))
	for _, itemM := range itemModels {
		items = append(items, toMenuItemDomain(itemM))
	}

	return items
}

// toMenuItemDomain converts a GORM MenuItemModel to a domain MenuItem entity.
func toMenuItemDomain(data *model.MenuItemModel) *entity.MenuItem {
	if data == nil {
		return nil
	}

	return &entity.MenuItem{
		ID:         data.ID,
		Category:   data.Category,
		Name:       data.Name,
		CO2Saved:   data.CO2Saved,
		WaterSaved: data.WaterSaved,
		LandSaved:  data.LandSaved,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

// fromMenuItemDomain converts a domain MenuItem entity to a GORM MenuItemModel.
func fromMenuItemDomain(data *entity.MenuItem) *model.MenuItemModel {
	if data == nil {
		return nil
	}

	return &model.MenuItemModel{
		ID:         data.ID,
		Category:   data.Category,
		Name:       data.Name,
		CO2Saved:   data.CO2Saved,
		WaterSaved: data.WaterSaved,
		LandSaved:  data.LandSaved,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}
