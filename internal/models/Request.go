// internal/models/request.go
package models

import (
	"time"

	"gorm.io/gorm"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
	RequestExpired  RequestStatus = "EXPIRED"
)

// RequestKind distinguishes the two directions of the proposal
// protocol: a carrier asking for a load, or a shipper asking for a
// truck.
type RequestKind string

const (
	RequestKindLoad  RequestKind = "LOAD_REQUEST"
	RequestKindTruck RequestKind = "TRUCK_REQUEST"
)

// RequestCore carries the fields shared by both request directions.
// A PENDING request past ExpiresAt is treated as expired wherever it
// is read; there is no background sweeper.
type RequestCore struct {
	LoadID        uint          `json:"load_id" gorm:"index;not null"`
	TruckID       uint          `json:"truck_id" gorm:"index;not null"`
	CarrierOrgID  uint          `json:"carrier_org_id" gorm:"index;not null"`
	ShipperOrgID  uint          `json:"shipper_org_id" gorm:"index;not null"`
	RequestedByID uint          `json:"requested_by_id" gorm:"not null"`
	Status        RequestStatus `json:"status" gorm:"type:varchar(16);not null;default:'PENDING';index"`
	Notes         string        `json:"notes"`
	ResponseNotes string        `json:"response_notes"`
	ExpiresAt     time.Time     `json:"expires_at"`
	RespondedAt   *time.Time    `json:"responded_at"`
}

// LoadRequest is carrier-initiated: "I want this load for my truck."
// The shipper owning the load responds.
type LoadRequest struct {
	gorm.Model
	RequestCore `gorm:"embedded"`

	Load  *Load  `gorm:"foreignKey:LoadID" json:"load,omitempty"`
	Truck *Truck `gorm:"foreignKey:TruckID" json:"truck,omitempty"`
}

// TruckRequest is shipper-initiated: "I want this truck for my load."
// The carrier owning the truck responds.
type TruckRequest struct {
	gorm.Model
	RequestCore `gorm:"embedded"`

	Load  *Load  `gorm:"foreignKey:LoadID" json:"load,omitempty"`
	Truck *Truck `gorm:"foreignKey:TruckID" json:"truck,omitempty"`
}
