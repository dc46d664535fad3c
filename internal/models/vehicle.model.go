package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type VehicleStatus string

const (
	VehicleStatusIntake  VehicleStatus = "intake"
	VehicleStatusInRecon VehicleStatus = "in-recon"
	VehicleStatusReady   VehicleStatus = "ready"
	VehicleStatusSold    VehicleStatus = "sold"
)

type Vehicle struct {
	BaseUUIDModel
	DealershipID uuid.UUID     `gorm:"type:uuid;not null;index"       json:"dealershipId"`
	StockNumber  string        `gorm:"type:text;not null;index"       json:"stockNumber"`
	VIN          string        `gorm:"column:vin;type:text;index"     json:"vin"`
	Year         int           `gorm:"type:int"                       json:"year"`
	Make         string        `gorm:"type:text"                      json:"make"`
	Model        string        `gorm:"type:text"                      json:"model"`
	Trim         string        `gorm:"type:text"                      json:"trim"`
	Color        string        `gorm:"type:text"                      json:"color"`
	Odometer     int           `gorm:"type:int"                       json:"odometer"`
	Status       VehicleStatus `gorm:"type:text;default:intake;index" json:"status"`
	LocationID   *uuid.UUID    `gorm:"type:uuid;index"                json:"locationId,omitempty"`

	AcquisitionCost decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"acquisitionCost"`
	ReconCost       decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"reconCost"`
	ListPrice       decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"listPrice"`

	PhotoURLs  datatypes.JSON `gorm:"type:jsonb" json:"photoUrls,omitempty"`
	AcquiredAt *time.Time     `gorm:"type:timestamp" json:"acquiredAt,omitempty"`

	Location *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
}

// VehicleUpdateRequest carries partial vehicle updates; nil fields are untouched.
type VehicleUpdateRequest struct {
	StockNumber     *string          `json:"stockNumber,omitempty"`
	VIN             *string          `json:"vin,omitempty"`
	Year            *int             `json:"year,omitempty"`
	Make            *string          `json:"make,omitempty"`
	Model           *string          `json:"model,omitempty"`
	Trim            *string          `json:"trim,omitempty"`
	Color           *string          `json:"color,omitempty"`
	Odometer        *int             `json:"odometer,omitempty"`
	Status          *VehicleStatus   `json:"status,omitempty"`
	LocationID      *uuid.UUID       `json:"locationId,omitempty"`
	AcquisitionCost *decimal.Decimal `json:"acquisitionCost,omitempty"`
	ReconCost       *decimal.Decimal `json:"reconCost,omitempty"`
	ListPrice       *decimal.Decimal `json:"listPrice,omitempty"`
}

func (v *Vehicle) ApplyUpdate(req VehicleUpdateRequest) {
	if req.StockNumber != nil {
		v.StockNumber = *req.StockNumber
	}
	if req.VIN != nil {
		v.VIN = *req.VIN
	}
	if req.Year != nil {
		v.Year = *req.Year
	}
	if req.Make != nil {
		v.Make = *req.Make
	}
	if req.Model != nil {
		v.Model = *req.Model
	}
	if req.Trim != nil {
		v.Trim = *req.Trim
	}
	if req.Color != nil {
		v.Color = *req.Color
	}
	if req.Odometer != nil {
		v.Odometer = *req.Odometer
	}
	if req.Status != nil {
		v.Status = *req.Status
	}
	if req.LocationID != nil {
		v.LocationID = req.LocationID
	}
	if req.AcquisitionCost != nil {
		v.AcquisitionCost = *req.AcquisitionCost
	}
	if req.ReconCost != nil {
		v.ReconCost = *req.ReconCost
	}
	if req.ListPrice != nil {
		v.ListPrice = *req.ListPrice
	}
}
