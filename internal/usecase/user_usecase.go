package usecase

import (
	"context"

	"frutas/internal/domain/entity"
	"frutas/internal/domain/repository"

	"github.com/google/uuid"
)

// UserUsecase defines profile and balance operations.
type UserUsecase interface {
	// EnsureUser mirrors the authenticated identity into the users table when it is missing.
	EnsureUser(ctx context.Context, principal *entity.Principal) (*entity.User, error)

	GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
	ListUsers(ctx context.Context, opts repository.ListOptions) ([]*entity.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input *UpdateProfileInput) (*entity.User, error)

	// SetPoints overrides a balance and records the difference in the ledger.
	SetPoints(ctx context.Context, id uuid.UUID, points int) (*entity.User, error)

	ListLedger(ctx context.Context, userID uuid.UUID, opts repository.ListOptions) ([]*entity.LedgerEntry, error)
}

// UpdateProfileInput defines the data required to update a user profile.
type UpdateProfileInput struct {
	Name  string
	Email string
}
