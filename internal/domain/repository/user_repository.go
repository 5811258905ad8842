// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"frutas/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrPointsConflict is returned when a compare-and-swap balance update lost the race.
var ErrPointsConflict = errors.New("points balance changed concurrently")

// ErrInsufficientPoints is returned when a conditional debit matched the user but not the balance guard.
var ErrInsufficientPoints = errors.New("insufficient points")

// UserRepository defines the standard operations for user persistence.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// List returns users ordered by creation time.
	List(ctx context.Context, opts ListOptions) ([]*entity.User, error)

	// CreateIfNotExists inserts the user unless a row with the same ID exists.
	CreateIfNotExists(ctx context.Context, user *entity.User) error

	// UpdateProfile changes name and email only.
	UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) error

	// IncrementPoints atomically adds delta (>= 0) to the balance.
	IncrementPoints(ctx context.Context, id uuid.UUID, delta int) error

	// DecrementPointsIfSufficient atomically subtracts amount when the balance covers it.
	// Returns ErrInsufficientPoints when the user exists but the balance is too low.
	DecrementPointsIfSufficient(ctx context.Context, id uuid.UUID, amount int) error

	// CompareAndSetPoints sets the balance to next only if it still equals current.
	// Returns ErrPointsConflict when the balance moved in between.
	CompareAndSetPoints(ctx context.Context, id uuid.UUID, current, next int) error
}
