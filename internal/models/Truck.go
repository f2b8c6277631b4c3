// internal/models/truck.go
package models

import (
	"gorm.io/gorm"
)

type TruckApproval string

const (
	TruckApprovalPending  TruckApproval = "PENDING"
	TruckApprovalApproved TruckApproval = "APPROVED"
	TruckApprovalRejected TruckApproval = "REJECTED"
)

type Truck struct {
	gorm.Model
	RegistrationNo string        `json:"registration_no" gorm:"unique;not null"`
	TruckType      string        `json:"truck_type"` // e.g. "FLATBED", "BOX", "REEFER"
	CapacityKg     float64       `json:"capacity_kg"`
	CarrierOrgID   uint          `json:"carrier_org_id" gorm:"index;not null"`
	Approval       TruckApproval `json:"approval" gorm:"type:varchar(16);not null;default:'PENDING'"`

	CarrierOrg *Organization `gorm:"foreignKey:CarrierOrgID" json:"carrier_org,omitempty"`
}
