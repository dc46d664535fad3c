package models

import "github.com/google/uuid"

type Contact struct {
	BaseUUIDModel
	DealershipID uuid.UUID `gorm:"type:uuid;not null;index"  json:"dealershipId"`
	Name         string    `gorm:"type:text;not null"        json:"name"`
	Company      string    `gorm:"type:text"                 json:"company"`
	Category     string    `gorm:"type:text;default:vendor"  json:"category"`
	Phone        string    `gorm:"type:text"                 json:"phone"`
	Email        string    `gorm:"type:text"                 json:"email"`
	Notes        string    `gorm:"type:text"                 json:"notes"`
	IsActive     bool      `gorm:"type:bool;default:true"    json:"isActive"`
}
