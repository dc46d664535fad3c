package models

type Dealership struct {
	BaseUUIDModel
	Name     string `gorm:"type:text;not null"      json:"name"`
	Slug     string `gorm:"type:text;uniqueIndex"   json:"slug"`
	City     string `gorm:"type:text"               json:"city"`
	State    string `gorm:"type:text"               json:"state"`
	IsActive bool   `gorm:"type:bool;default:true"  json:"isActive"`
}
