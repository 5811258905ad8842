package service

import (
	"context"
	"time"
)

// LoyaltyEvent is published after a balance-changing transaction commits.
type LoyaltyEvent struct {
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	EventType  string    `json:"event_type"`
	UserID     string    `json:"user_id"`
	ReceiptID  string    `json:"receipt_id,omitempty"`
	RewardID   string    `json:"reward_id,omitempty"`
	Code       string    `json:"code,omitempty"`
	Delta      int       `json:"delta"`
	Balance    int       `json:"balance"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// Publish sends a loyalty event for downstream consumers
	Publish(ctx context.Context, event *LoyaltyEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
