package service

// LoyaltyMetrics records business counters for receipts and rewards.
type LoyaltyMetrics interface {
	ReceiptFinalized(points int)
	ReceiptClaimed(points int)
	RewardRedeemed(points int)
	CodeCollision()
}
