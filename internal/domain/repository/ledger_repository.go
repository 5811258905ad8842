package repository

import (
	"context"

	"frutas/internal/domain/entity"

	"github.com/google/uuid"
)

// LedgerRepository appends and lists point balance changes.
type LedgerRepository interface {
	Append(ctx context.Context, entry *entity.LedgerEntry) error

	// ListByUser returns entries newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]*entity.LedgerEntry, error)
}
