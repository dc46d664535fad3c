package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Canonical rating-label keys. Every settings document carries exactly
// these four; missing ones are backfilled from defaults on read.
const (
	RatingKeyGreat          = "great"
	RatingKeyFair           = "fair"
	RatingKeyNeedsAttention = "needs-attention"
	RatingKeyNotChecked     = "not-checked"
)

// CanonicalRatingKeys in display order.
func CanonicalRatingKeys() []string {
	return []string{RatingKeyGreat, RatingKeyFair, RatingKeyNeedsAttention, RatingKeyNotChecked}
}

// InspectionSettings is the stored per-dealership settings row. The four
// document columns are opaque JSONB; merging with defaults happens on read.
type InspectionSettings struct {
	BaseUUIDModel
	DealershipID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"dealershipId"`
	Sections            datatypes.JSON `gorm:"type:jsonb"                     json:"sections"`
	RatingLabels        datatypes.JSON `gorm:"type:jsonb"                     json:"ratingLabels"`
	GlobalSettings      datatypes.JSON `gorm:"type:jsonb"                     json:"globalSettings"`
	CustomerPdfSettings datatypes.JSON `gorm:"type:jsonb"                     json:"customerPdfSettings"`
}

// SettingsDocument is the fully-merged, always-valid settings document the
// rest of the system consumes.
type SettingsDocument struct {
	ID                  string              `json:"id"`
	DealershipID        string              `json:"dealershipId,omitempty"`
	Sections            []InspectionSection `json:"sections"`
	RatingLabels        []RatingLabel       `json:"ratingLabels"`
	GlobalSettings      GlobalSettings      `json:"globalSettings"`
	CustomerPdfSettings CustomerPdfSettings `json:"customerPdfSettings"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

type InspectionSection struct {
	Key               string           `json:"key"`
	Label             string           `json:"label"`
	Description       string           `json:"description,omitempty"`
	Icon              string           `json:"icon,omitempty"`
	Color             string           `json:"color,omitempty"`
	IsActive          bool             `json:"isActive"`
	IsCustomerVisible bool             `json:"isCustomerVisible"`
	Order             int              `json:"order"`
	Items             []InspectionItem `json:"items"`
}

type InspectionItem struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	IsRequired  bool   `json:"isRequired"`
	IsActive    bool   `json:"isActive"`
	Order       int    `json:"order"`
}

type RatingLabel struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

type GlobalSettings struct {
	AutoGenerateTeamNotes      bool `json:"autoGenerateTeamNotes"`
	RequireCompletedBeforeSale bool `json:"requireCompletedBeforeSale"`
	ShowInactiveSections       bool `json:"showInactiveSections"`
}

type CustomerPdfSettings struct {
	ShowPhotos          bool   `json:"showPhotos"`
	ShowComments        bool   `json:"showComments"`
	ShowDetailedRatings bool   `json:"showDetailedRatings"`
	FooterText          string `json:"footerText"`
}

// SectionUpdateRequest carries partial section updates; nil fields are
// untouched. Items are replaced only through the item operations.
type SectionUpdateRequest struct {
	Label             *string `json:"label,omitempty"`
	Description       *string `json:"description,omitempty"`
	Icon              *string `json:"icon,omitempty"`
	Color             *string `json:"color,omitempty"`
	IsActive          *bool   `json:"isActive,omitempty"`
	IsCustomerVisible *bool   `json:"isCustomerVisible,omitempty"`
	Order             *int    `json:"order,omitempty"`
}

type ItemUpdateRequest struct {
	Label       *string `json:"label,omitempty"`
	Description *string `json:"description,omitempty"`
	IsRequired  *bool   `json:"isRequired,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
	Order       *int    `json:"order,omitempty"`
}

type GlobalSettingsUpdateRequest struct {
	AutoGenerateTeamNotes      *bool `json:"autoGenerateTeamNotes,omitempty"`
	RequireCompletedBeforeSale *bool `json:"requireCompletedBeforeSale,omitempty"`
	ShowInactiveSections       *bool `json:"showInactiveSections,omitempty"`
}

type CustomerPdfSettingsUpdateRequest struct {
	ShowPhotos          *bool   `json:"showPhotos,omitempty"`
	ShowComments        *bool   `json:"showComments,omitempty"`
	ShowDetailedRatings *bool   `json:"showDetailedRatings,omitempty"`
	FooterText          *string `json:"footerText,omitempty"`
}

type RatingLabelUpdateRequest struct {
	Label *string `json:"label,omitempty"`
	Color *string `json:"color,omitempty"`
}

// ActiveSectionKeys returns the ordered keys of active sections; this is
// the canonical key list used for progress and the empty document shape.
func (d SettingsDocument) ActiveSectionKeys() []string {
	keys := make([]string, 0, len(d.Sections))
	for _, section := range d.Sections {
		if section.IsActive {
			keys = append(keys, section.Key)
		}
	}
	return keys
}

// FindSection returns the section with the given id-like key, or nil.
func (d *SettingsDocument) FindSection(key string) *InspectionSection {
	for i := range d.Sections {
		if d.Sections[i].Key == key {
			return &d.Sections[i]
		}
	}
	return nil
}
