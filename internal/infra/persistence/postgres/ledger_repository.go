package postgres

import (
	"context"

	"frutas/internal/domain/entity"
	domainerrors "frutas/internal/domain/errors"
	"frutas/internal/domain/repository"
	"frutas/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ledgerRepository implements the repository.LedgerRepository interface.
type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository is the constructor for ledgerRepository.
func NewLedgerRepository(db *gorm.DB) repository.LedgerRepository {
	return &ledgerRepository{
		db: db,
	}
}

// Append writes one balance change; rows are never updated afterwards.
func (repo *ledgerRepository) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	entryM := &model.PointLedgerModel{
		ID:           entry.ID,
		UserID:       entry.UserID,
		Delta:        entry.Delta,
		BalanceAfter: entry.BalanceAfter,
		Reason:       string(entry.Reason),
		ReferenceID:  entry.ReferenceID,
		CreatedAt:    entry.CreatedAt,
	}

	if err := repo.db.WithContext(ctx).Create(entryM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to append ledger entry")
	}

	entry.ID = entryM.ID
	entry.CreatedAt = entryM.CreatedAt

	return nil
}

func (repo *ledgerRepository) ListByUser(ctx context.Context, userID uuid.UUID, opts repository.ListOptions) ([]*entity.LedgerEntry, error) {
	var entryModels []*model.PointLedgerModel

	if err := paginate(repo.db.WithContext(ctx), opts).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&entryModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list ledger entries")
	}

	entries := make([]*entity.LedgerEntry, 0, len(entryModels))
	for _, m := range entryModels {
		entries = append(entries, &entity.LedgerEntry{
			ID:           m.ID,
			UserID:       m.UserID,
			Delta:        m.Delta,
			BalanceAfter: m.BalanceAfter,
			Reason:       entity.LedgerReason(m.Reason),
			ReferenceID:  m.ReferenceID,
			CreatedAt:    m.CreatedAt,
		})
	}

	return entries, nil
}
