package postgres

import (
	"context"
	"time"

	"frutas/internal/domain/entity"
	domainerrors "frutas/internal/domain/errors"
	"frutas/internal/domain/repository"
	"frutas/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// receiptRepository implements the repository.ReceiptRepository interface.
type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository is the constructor for receiptRepository.
func NewReceiptRepository(db *gorm.DB) repository.ReceiptRepository {
	return &receiptRepository{
		db: db,
	}
}

// CodeExists checks every receipt ever written, so codes are unique for the lifetime of the system.
func (repo *receiptRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.ReceiptModel{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check receipt code")
	}

	return count > 0, nil
}

// Create inserts the receipt row first and then its lines. Callers run it inside a transaction.
func (repo *receiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	receiptM := fromReceiptDomain(receipt)
	db := repo.db.WithContext(ctx)

	if err := db.Omit("Lines").Create(receiptM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateReceiptCode
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("receipt violates a table constraint")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create receipt")
	}

	for i := range receiptM.Lines {
		receiptM.Lines[i].ReceiptID = receiptM.ID
	}

	if len(receiptM.Lines) > 0 {
		if err := db.Omit("MenuItem").Create(&receiptM.Lines).Error; err != nil {
			if isForeignKeyConstraintViolation(err) {
				return repository.ErrMenuItemNotFound
			}

			return domainerrors.NewDatabaseExecuteError(err, "failed to create receipt lines")
		}
	}

	receipt.ID = receiptM.ID
	receipt.CreatedAt = receiptM.CreatedAt
	for i, line := range receipt.Lines {
		line.ID = receiptM.Lines[i].ID
		line.ReceiptID = receiptM.ID
	}

	return nil
}

func (repo *receiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	return repo.findOne(ctx, "id = ?", id)
}

func (repo *receiptRepository) FindByCode(ctx context.Context, code string) (*entity.Receipt, error) {
	return repo.findOne(ctx, "code = ?", code)
}

func (repo *receiptRepository) FindUnclaimedByCode(ctx context.Context, code string) (*entity.Receipt, error) {
	return repo.findOne(ctx, "code = ? AND user_id IS NULL", code)
}

// SetUserIDIfNull is the claim's linearization point: only one caller can flip user_id from NULL.
func (repo *receiptRepository) SetUserIDIfNull(ctx context.Context, receiptID, userID uuid.UUID, claimedAt time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ReceiptModel{}).
		Where("id = ? AND user_id IS NULL", receiptID).
		Updates(map[string]any{
			"user_id":    userID,
			"claimed_at": claimedAt,
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to claim receipt")
	}

	if result.RowsAffected == 0 {
		return repository.ErrReceiptAlreadyClaimed
	}

	return nil
}

func (repo *receiptRepository) ListByUser(ctx context.Context, userID uuid.UUID, opts repository.ListOptions) ([]*entity.Receipt, error) {
	return repo.list(ctx, opts, "user_id = ?", userID)
}

func (repo *receiptRepository) List(ctx context.Context, opts repository.ListOptions) ([]*entity.Receipt, error) {
	return repo.list(ctx, opts)
}

func (repo *receiptRepository) findOne(ctx context.Context, query string, args ...any) (*entity.Receipt, error) {
	var receiptM model.ReceiptModel

	if err := repo.db.WithContext(ctx).
		Preload("Lines", orderLines).
		Where(query, args...).
		First(&receiptM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReceiptNotFound
		}

		return nil, errors.Wrap(err, "failed to find receipt")
	}

	return toReceiptDomain(&receiptM), nil
}

func (repo *receiptRepository) list(ctx context.Context, opts repository.ListOptions, conds ...any) ([]*entity.Receipt, error) {
	var receiptModels []*model.ReceiptModel

	db := paginate(repo.db.WithContext(ctx), opts).Preload("Lines", orderLines)
	if len(conds) > 0 {
		db = db.Where(conds[0], conds[1:]...)
	}

	if err := db.
		Order("created_at DESC").
		Find(&receiptModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list receipts")
	}

	receipts := make([]*entity.Receipt, 0, len(receiptModels))
	for _, receiptM := range receiptModels {
		receipts = append(receipts, toReceiptDomain(receiptM))
	}

	return receipts, nil
}

func orderLines(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// toReceiptDomain converts a GORM ReceiptModel and its lines to a domain Receipt entity.
func toReceiptDomain(data *model.ReceiptModel) *entity.Receipt {
	if data == nil {
		return nil
	}

	lines := make([]*entity.ReceiptLine, 0, len(data.Lines))
	for i := range data.Lines {
		line := &data.Lines[i]
		lines = append(lines, &entity.ReceiptLine{
			ID:           line.ID,
			ReceiptID:    line.ReceiptID,
			Position:     line.Position,
			MenuItemID:   line.MenuItemID,
			MenuItemName: line.MenuItemName,
			Quantity:     line.Quantity,
			CO2Saved:     line.CO2Saved,
			WaterSaved:   line.WaterSaved,
			LandSaved:    line.LandSaved,
		})
	}

	return &entity.Receipt{
		ID:              data.ID,
		Code:            data.Code,
		UserID:          data.UserID,
		TotalCO2Saved:   data.TotalCO2Saved,
		TotalWaterSaved: data.TotalWaterSaved,
		TotalLandSaved:  data.TotalLandSaved,
		PointsEarned:    data.PointsEarned,
		Lines:           lines,
		CreatedAt:       data.CreatedAt,
		ClaimedAt:       data.ClaimedAt,
	}
}

// fromReceiptDomain converts a domain Receipt entity to a GORM ReceiptModel.
func fromReceiptDomain(data *entity.Receipt) *model.ReceiptModel {
	if data == nil {
		return nil
	}

	lines := make([]model.ReceiptLineModel, 0, len(data.Lines))
	for _, line := range data.Lines {
		lines = append(lines, model.ReceiptLineModel{
			ID:           line.ID,
			ReceiptID:    line.ReceiptID,
			Position:     line.Position,
			MenuItemID:   line.MenuItemID,
			MenuItemName: line.MenuItemName,
			Quantity:     line.Quantity,
			CO2Saved:     line.CO2Saved,
			WaterSaved:   line.WaterSaved,
			LandSaved:    line.LandSaved,
		})
	}

	return &model.ReceiptModel{
		ID:              data.ID,
		Code:            data.Code,
		UserID:          data.UserID,
		TotalCO2Saved:   data.TotalCO2Saved,
		TotalWaterSaved: data.TotalWaterSaved,
		TotalLandSaved:  data.TotalLandSaved,
		PointsEarned:    data.PointsEarned,
		Lines:           lines,
		CreatedAt:       data.CreatedAt,
		ClaimedAt:       data.ClaimedAt,
	}
}
