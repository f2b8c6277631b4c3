package models

import (
	"time"

	"gorm.io/gorm"
)

type PostingStatus string

const (
	PostingActive   PostingStatus = "ACTIVE"
	PostingUnposted PostingStatus = "UNPOSTED"
	PostingExpired  PostingStatus = "EXPIRED"
)

// TruckPosting advertises a truck's availability. At most one ACTIVE
// posting may exist per truck; the partial unique index backing that
// guard is created in config.InitDB.
type TruckPosting struct {
	gorm.Model
	TruckID         uint          `json:"truck_id" gorm:"index;not null"`
	CarrierOrgID    uint          `json:"carrier_org_id" gorm:"index;not null"`
	Status          PostingStatus `json:"status" gorm:"type:varchar(16);not null;default:'ACTIVE'"`
	OriginCity      string        `json:"origin_city"`
	DestinationCity string        `json:"destination_city"`
	AvailableFrom   time.Time     `json:"available_from"`
	ExpiresAt       time.Time     `json:"expires_at"`

	Truck *Truck `gorm:"foreignKey:TruckID" json:"truck,omitempty"`
}
