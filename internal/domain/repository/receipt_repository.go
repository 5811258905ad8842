package repository

import (
	"context"
	"errors"
	"time"

	"frutas/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrReceiptNotFound is returned when no receipt matches the lookup.
	ErrReceiptNotFound = errors.New("receipt not found")
	// ErrDuplicateReceiptCode is returned when an insert hits the unique index on receipts.code.
	ErrDuplicateReceiptCode = errors.New("duplicate receipt code")
	// ErrReceiptAlreadyClaimed is returned when the conditional claim update matched no row.
	ErrReceiptAlreadyClaimed = errors.New("receipt already claimed")
)

// ReceiptRepository persists receipts together with their lines.
type ReceiptRepository interface {
	// CodeExists reports whether any receipt, claimed or not, uses the code.
	CodeExists(ctx context.Context, code string) (bool, error)

	// Create inserts the receipt and all of its lines.
	Create(ctx context.Context, receipt *entity.Receipt) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	FindByCode(ctx context.Context, code string) (*entity.Receipt, error)

	// FindUnclaimedByCode returns the receipt only while user_id is still NULL.
	FindUnclaimedByCode(ctx context.Context, code string) (*entity.Receipt, error)

	// SetUserIDIfNull binds the receipt to userID only if it is still unclaimed.
	SetUserIDIfNull(ctx context.Context, receiptID, userID uuid.UUID, claimedAt time.Time) error

	// ListByUser returns the receipts claimed by a user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]*entity.Receipt, error)

	// List returns all receipts, newest first.
	List(ctx context.Context, opts ListOptions) ([]*entity.Receipt, error)
}
