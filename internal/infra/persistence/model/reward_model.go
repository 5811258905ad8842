package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RewardModel mirrors the 'rewards' table.
// Available carries no column default so that inserting false is not replaced by GORM.
type RewardModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"type:varchar(255);not null"`
	Description    string    `gorm:"type:text"`
	ImageURL       string    `gorm:"type:varchar(512)"`
	PointsRequired int       `gorm:"not null;check:chk_rewards_points_positive,points_required > 0"`
	Available      bool      `gorm:"not null;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (RewardModel) TableName() string {
	return "rewards"
}

// BeforeCreate assigns a time-ordered UUID when none is set.
func (m *RewardModel) BeforeCreate(_ *gorm.DB) error {
	return assignUUID(&m.ID)
}

// UserRewardModel mirrors the 'user_rewards' table, one row per redemption.
type UserRewardModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	RewardID    uuid.UUID `gorm:"type:uuid;not null;index"`
	PointsSpent int       `gorm:"not null"`
	RedeemedAt  time.Time `gorm:"not null"`

	User   *UserModel   `gorm:"foreignKey:UserID"`
	Reward *RewardModel `gorm:"foreignKey:RewardID"`
}

// TableName explicitly sets the table name for GORM.
func (UserRewardModel) TableName() string {
	return "user_rewards"
}

// BeforeCreate assigns a time-ordered UUID when none is set.
func (m *UserRewardModel) BeforeCreate(_ *gorm.DB) error {
	return assignUUID(&m.ID)
}
