package models

import (
	"gorm.io/gorm"
)

// Wallet holds an organization's platform balance in cents. Ledger
// arithmetic beyond the service-fee deduction is external to this
// service.
type Wallet struct {
	gorm.Model
	OrganizationID uint  `json:"organization_id" gorm:"uniqueIndex;not null"`
	BalanceCents   int64 `json:"balance_cents" gorm:"not null;default:0"`
}

// TripSettlement records the service fees deducted for a completed
// trip. The unique trip_id index makes fee deduction idempotent.
type TripSettlement struct {
	gorm.Model
	TripID          uint  `json:"trip_id" gorm:"uniqueIndex;not null"`
	ShipperFeeCents int64 `json:"shipper_fee_cents" gorm:"not null"`
	CarrierFeeCents int64 `json:"carrier_fee_cents" gorm:"not null"`
}
