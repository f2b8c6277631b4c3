package models

import (
	"gorm.io/gorm"
)

type OrgKind string

const (
	OrgKindShipper OrgKind = "SHIPPER"
	OrgKindCarrier OrgKind = "CARRIER"
)

type OrgVerification string

const (
	OrgVerificationPending  OrgVerification = "PENDING"
	OrgVerificationVerified OrgVerification = "VERIFIED"
	OrgVerificationRejected OrgVerification = "REJECTED"
)

// Organization is a shipper or carrier company. Carriers own trucks,
// shippers own loads; users act on behalf of exactly one organization.
type Organization struct {
	gorm.Model
	Name         string          `json:"name" binding:"required" gorm:"not null"`
	Kind         OrgKind         `json:"kind" gorm:"type:varchar(16);not null;index"`
	Verification OrgVerification `json:"verification" gorm:"type:varchar(16);not null;default:'PENDING'"`
	ContactEmail string          `json:"contact_email" gorm:"unique"`
	ContactPhone string          `json:"contact_phone"`

	// Associations
	Users  []User  `gorm:"foreignKey:OrganizationID" json:"users,omitempty"`
	Trucks []Truck `gorm:"foreignKey:CarrierOrgID" json:"trucks,omitempty"`
	Loads  []Load  `gorm:"foreignKey:ShipperOrgID" json:"loads,omitempty"`
}
