package entity

import (
	"time"

	"github.com/google/uuid"
)

// Reward is something a user can exchange points for.
type Reward struct {
	ID             uuid.UUID
	Name           string
	Description    string
	ImageURL       string
	PointsRequired int
	Available      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RewardRedemption records that a user spent points on a reward.
type RewardRedemption struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	RewardID    uuid.UUID
	PointsSpent int
	RedeemedAt  time.Time
}
