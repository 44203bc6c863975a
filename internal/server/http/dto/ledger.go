package dto

// PaymentRequest describes a customer payment to a merchant.
type PaymentRequest struct {
	Merchant string `json:"merchant"`
	Customer string `json:"customer"`
	Token    string `json:"token"`
	Amount   uint64 `json:"amount"`
}

// PaymentResponse reports points credited by a payment.
type PaymentResponse struct {
	PointsIssued      uint32 `json:"points_issued"`
	Balance           uint32 `json:"balance"`
	TotalPointsIssued uint32 `json:"total_points_issued"`
}

// PointsResponse reports a customer balance.
type PointsResponse struct {
	Wallet  string `json:"wallet"`
	Balance uint32 `json:"balance"`
}

// RedemptionRequest describes points exchanged for reward tokens.
type RedemptionRequest struct {
	Merchant    string `json:"merchant"`
	Customer    string `json:"customer"`
	Points      uint32 `json:"points"`
	RewardToken string `json:"reward_token"`
}

// RedemptionResponse reports the reward paid out.
type RedemptionResponse struct {
	Reward  uint64 `json:"reward"`
	Balance uint32 `json:"balance"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}
