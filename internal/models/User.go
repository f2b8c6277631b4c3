package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name           string `json:"name"`
	Email          string `json:"email" gorm:"unique"`
	Password       string `json:"password"`
	Phone          string `json:"phone"`
	Role           string `json:"role"`   // "SHIPPER", "CARRIER", "DISPATCHER", "ADMIN", "SUPER_ADMIN"
	Status         string `json:"status"` // "ACTIVE", "PENDING_VERIFICATION", "SUSPENDED"
	OrganizationID uint   `json:"organization_id" gorm:"index"` // zero while membership is pending

	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}
