package constants

// Pub/Sub providers
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Loyalty event types carried in the "event_type" message attribute
const (
	EventReceiptClaimed = "receipt.claimed"
	EventRewardRedeemed = "reward.redeemed"
)
