// internal/models/load.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoadStatus string

const (
	LoadDraft     LoadStatus = "DRAFT"
	LoadPosted    LoadStatus = "POSTED"
	LoadUnposted  LoadStatus = "UNPOSTED"
	LoadAssigned  LoadStatus = "ASSIGNED"
	LoadInTransit LoadStatus = "IN_TRANSIT"
	LoadDelivered LoadStatus = "DELIVERED"
	LoadCompleted LoadStatus = "COMPLETED"
	LoadCancelled LoadStatus = "CANCELLED"
	LoadException LoadStatus = "EXCEPTION"
)

// Load is a shipment owned by a shipper organization. Once a load is
// ASSIGNED its status is driven by trip synchronization only.
type Load struct {
	gorm.Model
	Reference        string     `json:"reference" gorm:"uniqueIndex;not null"`
	ShipperOrgID     uint       `json:"shipper_org_id" gorm:"index;not null"`
	PickupCity       string     `json:"pickup_city" binding:"required"`
	DropoffCity      string     `json:"dropoff_city" binding:"required"`
	CargoDescription string     `json:"cargo_description"`
	WeightKg         float64    `json:"weight_kg"`
	Status           LoadStatus `json:"status" gorm:"type:varchar(16);not null;default:'DRAFT';index"`
	PostedAt         *time.Time `json:"posted_at"`

	// Proof-of-delivery flags gate trip completion; the image itself
	// lives in external object storage.
	PodSubmitted   bool       `json:"pod_submitted" gorm:"not null;default:false"`
	PodSubmittedAt *time.Time `json:"pod_submitted_at"`
	PodVerified    bool       `json:"pod_verified" gorm:"not null;default:false"`
	PodVerifiedAt  *time.Time `json:"pod_verified_at"`
	PodImageURL    string     `json:"pod_image_url"`

	ShipperOrg *Organization `gorm:"foreignKey:ShipperOrgID" json:"shipper_org,omitempty"`
}

// NewLoadReference returns the public tracking reference stamped on a
// load at creation.
func NewLoadReference() string {
	return "LD-" + uuid.NewString()[:8]
}
