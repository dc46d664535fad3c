package models

import "github.com/google/uuid"

type LocationType string

const (
	LocationTypeLot     LocationType = "lot"
	LocationTypeBay     LocationType = "bay"
	LocationTypeOffsite LocationType = "offsite"
)

type Location struct {
	BaseUUIDModel
	DealershipID uuid.UUID    `gorm:"type:uuid;not null;index" json:"dealershipId"`
	Name         string       `gorm:"type:text;not null"       json:"name"`
	Type         LocationType `gorm:"type:text;default:lot"    json:"type"`
	Capacity     int          `gorm:"type:int;default:0"       json:"capacity"`
	IsActive     bool         `gorm:"type:bool;default:true"   json:"isActive"`
}
