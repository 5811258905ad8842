// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"frutas/internal/domain/entity"
	"frutas/internal/domain/repository"

	"github.com/google/uuid"
)

// ReceiptUsecase covers the point-of-sale and customer sides of a receipt.
type ReceiptUsecase interface {
	// FinalizeReceipt turns a cart into a persisted, unclaimed receipt with a fresh code.
	FinalizeReceipt(ctx context.Context, lines []ReceiptLineInput) (*entity.Receipt, error)

	// ClaimReceipt binds an unclaimed receipt to the user and credits its points exactly once.
	ClaimReceipt(ctx context.Context, code string, userID uuid.UUID) (*ClaimResult, error)

	GetReceipt(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	ListReceipts(ctx context.Context, opts repository.ListOptions) ([]*entity.Receipt, error)
	ListUserReceipts(ctx context.Context, userID uuid.UUID, opts repository.ListOptions) ([]*entity.Receipt, error)

	// ReceiptQR returns the PNG printed on the receipt with the given code.
	ReceiptQR(ctx context.Context, code string) ([]byte, error)
}

// --- Input DTOs ---

// ReceiptLineInput is one cart line as sent by the point of sale.
type ReceiptLineInput struct {
	MenuItemID int64 `json:"menu_item_id"`
	Quantity   int   `json:"quantity"`
}

// --- Output DTOs ---

// ClaimResult is the claimed receipt and the balance right after crediting it.
type ClaimResult struct {
	Receipt    *entity.Receipt
	NewBalance int
}
