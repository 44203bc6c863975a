package model

import "time"

// Merchant is a registered merchant record kept in the registry scope.
type Merchant struct {
	Wallet            string
	Name              string
	PointsRatio       uint32
	RedemptionRate    uint32
	TotalPointsIssued uint32
	RegisteredAt      time.Time
	UpdatedAt         time.Time
}
