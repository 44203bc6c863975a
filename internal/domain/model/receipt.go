package model

// PaymentReceipt summarises a settled payment.
type PaymentReceipt struct {
	PointsIssued      uint32
	Balance           uint32
	TotalPointsIssued uint32
}

// RedemptionReceipt summarises a settled redemption.
type RedemptionReceipt struct {
	Reward  uint64
	Balance uint32
}
