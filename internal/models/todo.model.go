package models

import (
	"time"

	"github.com/google/uuid"
)

type Todo struct {
	BaseUUIDModel
	DealershipID uuid.UUID  `gorm:"type:uuid;not null;index" json:"dealershipId"`
	VehicleID    *uuid.UUID `gorm:"type:uuid;index"          json:"vehicleId,omitempty"`
	AssignedTo   *uuid.UUID `gorm:"type:uuid;index"          json:"assignedTo,omitempty"`
	Title        string     `gorm:"type:text;not null"       json:"title"`
	Description  string     `gorm:"type:text"                json:"description"`
	DueAt        *time.Time `gorm:"type:timestamp"           json:"dueAt,omitempty"`
	IsDone       bool       `gorm:"type:bool;default:false"  json:"isDone"`
	CompletedAt  *time.Time `gorm:"type:timestamp"           json:"completedAt,omitempty"`
}
