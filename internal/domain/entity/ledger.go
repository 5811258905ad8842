package entity

import (
	"time"

	"github.com/google/uuid"
)

// LedgerReason classifies the cause of a balance change.
type LedgerReason string

const (
	LedgerReasonReceiptClaim     LedgerReason = "receipt_claim"
	LedgerReasonRewardRedemption LedgerReason = "reward_redemption"
	LedgerReasonAdminAdjustment  LedgerReason = "admin_adjustment"
)

// LedgerEntry is an append-only record of one change to a user's point balance.
type LedgerEntry struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Delta        int
	BalanceAfter int
	Reason       LedgerReason
	ReferenceID  *uuid.UUID // receipt or redemption that caused the change
	CreatedAt    time.Time
}
