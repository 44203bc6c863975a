package dto

import "time"

// RegisterMerchantRequest describes merchant registration payload.
type RegisterMerchantRequest struct {
	Wallet         string `json:"wallet"`
	Name           string `json:"name"`
	PointsRatio    uint32 `json:"points_ratio"`
	RedemptionRate uint32 `json:"redemption_rate"`
}

// RatesRequest describes a rate update.
type RatesRequest struct {
	PointsRatio    uint32 `json:"points_ratio"`
	RedemptionRate uint32 `json:"redemption_rate"`
}

// MerchantResponse is the public merchant record.
type MerchantResponse struct {
	Wallet            string    `json:"wallet"`
	Name              string    `json:"name"`
	PointsRatio       uint32    `json:"points_ratio"`
	RedemptionRate    uint32    `json:"redemption_rate"`
	TotalPointsIssued uint32    `json:"total_points_issued"`
	RegisteredAt      time.Time `json:"registered_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
