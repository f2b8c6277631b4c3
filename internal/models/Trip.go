// internal/models/trip.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TripStatus string

const (
	TripAssigned      TripStatus = "ASSIGNED"
	TripPickupPending TripStatus = "PICKUP_PENDING"
	TripInTransit     TripStatus = "IN_TRANSIT"
	TripDelivered     TripStatus = "DELIVERED"
	TripCompleted     TripStatus = "COMPLETED"
	TripCancelled     TripStatus = "CANCELLED"
	TripException     TripStatus = "EXCEPTION"
)

// Trip is the execution record pairing one truck with one load. Trips
// are created only by request approval, never directly.
type Trip struct {
	gorm.Model
	Reference    string     `json:"reference" gorm:"uniqueIndex;not null"`
	LoadID       uint       `json:"load_id" gorm:"index;not null"`
	TruckID      uint       `json:"truck_id" gorm:"index;not null"`
	CarrierOrgID uint       `json:"carrier_org_id" gorm:"index;not null"`
	ShipperOrgID uint       `json:"shipper_org_id" gorm:"index;not null"`
	Status       TripStatus `json:"status" gorm:"type:varchar(16);not null;default:'ASSIGNED';index"`

	// Delivery audit fields, recorded on the DELIVERED transition.
	ReceiverName  string     `json:"receiver_name"`
	ReceiverPhone string     `json:"receiver_phone"`
	CompletedAt   *time.Time `json:"completed_at"`

	Load  *Load  `gorm:"foreignKey:LoadID" json:"load,omitempty"`
	Truck *Truck `gorm:"foreignKey:TruckID" json:"truck,omitempty"`
}

// NewTripReference returns the public reference stamped on a trip when
// the approval transaction creates it.
func NewTripReference() string {
	return "TR-" + uuid.NewString()[:8]
}
