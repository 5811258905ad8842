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
	"gorm.io/gorm/clause"
)

// userRepository implements the repository.UserRepository interface.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{
		db: db,
	}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by ID")
	}

	return toUserDomain(&userM), nil
}

// List returns users ordered by creation time.
func (repo *userRepository) List(ctx context.Context, opts repository.ListOptions) ([]*entity.User, error) {
	var userModels []*model.UserModel

	if err := paginate(repo.db.WithContext(ctx), opts).
		Order("created_at ASC").
		Find(&userModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	users := make([]*entity.User, 0, len(userModels))
	for _, userM := range userModels {
		users = append(users, toUserDomain(userM))
	}

	return users, nil
}

// CreateIfNotExists inserts the user and leaves an existing row untouched.
func (repo *userRepository) CreateIfNotExists(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(userM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	return nil
}

// UpdateProfile changes name and email only.
func (repo *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":       name,
			"email":      email,
			"updated_at": time.Now().UTC(),
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update user profile")
	}

	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// IncrementPoints adds delta to the balance in a single statement.
func (repo *userRepository) IncrementPoints(ctx context.Context, id uuid.UUID, delta int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"points":     gorm.Expr("points + ?", delta),
			"updated_at": time.Now().UTC(),
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to increment points")
	}

	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// DecrementPointsIfSufficient subtracts amount only while the balance covers it.
func (repo *userRepository) DecrementPointsIfSufficient(ctx context.Context, id uuid.UUID, amount int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ? AND points >= ?", id, amount).
		Updates(map[string]any{
			"points":     gorm.Expr("points - ?", amount),
			"updated_at": time.Now().UTC(),
		})

	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return repository.ErrInsufficientPoints
		}

		return errors.Wrap(result.Error, "failed to decrement points")
	}

	if result.RowsAffected == 0 {
		return repo.missingOr(ctx, id, repository.ErrInsufficientPoints)
	}

	return nil
}

// CompareAndSetPoints overwrites the balance only if it still equals current.
func (repo *userRepository) CompareAndSetPoints(ctx context.Context, id uuid.UUID, current, next int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ? AND points = ?", id, current).
		Updates(map[string]any{
			"points":     next,
			"updated_at": time.Now().UTC(),
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to set points")
	}

	if result.RowsAffected == 0 {
		return repo.missingOr(ctx, id, repository.ErrPointsConflict)
	}

	return nil
}

// missingOr tells apart a guarded update that missed because the user is absent.
func (repo *userRepository) missingOr(ctx context.Context, id uuid.UUID, fallback error) error {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return errors.Wrap(err, "failed to check user existence")
	}

	if count == 0 {
		return repository.ErrUserNotFound
	}

	return fallback
}

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:        data.ID,
		Email:     data.Email,
		Name:      data.Name,
		Role:      entity.Role(data.Role),
		Points:    data.Points,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:        data.ID,
		Email:     data.Email,
		Name:      data.Name,
		Role:      data.Role.String(),
		Points:    data.Points,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func paginate(db *gorm.DB, opts repository.ListOptions) *gorm.DB {
	if opts.Limit > 0 {
		db = db.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		db = db.Offset(opts.Offset)
	}

	return db
}
