package pubsub

import (
	"strconv"

	"frutas/internal/domain/service"
)

// eventAttributes are copied onto every message so subscriptions can filter without decoding Data.
func eventAttributes(event *service.LoyaltyEvent) map[string]string {
	attributes := map[string]string{
		"event_type": event.EventType,
		"user_id":    event.UserID,
		"delta":      strconv.Itoa(event.Delta),
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}
	if event.ReceiptID != "" {
		attributes["receipt_id"] = event.ReceiptID
	}
	if event.RewardID != "" {
		attributes["reward_id"] = event.RewardID
	}

	return attributes
}
