package model

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// All lists every table model in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&UserModel{},
		&MenuItemModel{},
		&ReceiptModel{},
		&ReceiptLineModel{},
		&RewardModel{},
		&UserRewardModel{},
		&PointLedgerModel{},
	}
}

func assignUUID(id *uuid.UUID) error {
	if *id != uuid.Nil {
		return nil
	}

	generated, err := uuid.NewV7()
	if err != nil {
		return errors.Wrap(err, "failed to generate uuid")
	}
	*id = generated

	return nil
}
