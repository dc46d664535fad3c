package inspections

import (
	"time"

	. "recondo/internal/models"

	"github.com/google/uuid"
)

// DefaultSections is the canonical reconditioning checklist shipped to every
// dealership until they customize it.
func DefaultSections() []InspectionSection {
	return []InspectionSection{
		{
			Key:               "mechanical",
			Label:             "Mechanical",
			Description:       "Engine, transmission and drivetrain",
			Icon:              "wrench",
			Color:             "#2563eb",
			IsActive:          true,
			IsCustomerVisible: true,
			Order:             1,
			Items: []InspectionItem{
				{ID: "engine-oil", Label: "Engine oil and filter", IsRequired: true, IsActive: true, Order: 1},
				{ID: "fluid-levels", Label: "Fluid levels", IsRequired: true, IsActive: true, Order: 2},
				{ID: "belts-hoses", Label: "Belts and hoses", IsRequired: false, IsActive: true, Order: 3},
				{ID: "transmission", Label: "Transmission operation", IsRequired: true, IsActive: true, Order: 4},
			},
		},
		{
			Key:               "brakes",
			Label:             "Brakes & Suspension",
			Description:       "Pads, rotors, shocks and alignment",
			Icon:              "disc",
			Color:             "#dc2626",
			IsActive:          true,
			IsCustomerVisible: true,
			Order:             2,
			Items: []InspectionItem{
				{ID: "brake-pads", Label: "Brake pad thickness", IsRequired: true, IsActive: true, Order: 1},
				{ID: "rotors", Label: "Rotor condition", IsRequired: true, IsActive: true, Order: 2},
				{ID: "suspension", Label: "Suspension components", IsRequired: false, IsActive: true, Order: 3},
			},
		},
		{
			Key:               "tires",
			Label:             "Tires & Wheels",
			Icon:              "circle",
			Color:             "#0f766e",
			IsActive:          true,
			IsCustomerVisible: true,
			Order:             3,
			Items: []InspectionItem{
				{ID: "tread-depth", Label: "Tread depth", IsRequired: true, IsActive: true, Order: 1},
				{ID: "tire-wear", Label: "Even wear pattern", IsRequired: false, IsActive: true, Order: 2},
				{ID: "wheel-condition", Label: "Wheel condition", IsRequired: false, IsActive: true, Order: 3},
			},
		},
		{
			Key:               "exterior",
			Label:             "Exterior",
			Description:       "Body, paint and glass",
			Icon:              "car",
			Color:             "#7c3aed",
			IsActive:          true,
			IsCustomerVisible: true,
			Order:             4,
			Items: []InspectionItem{
				{ID: "paint-body", Label: "Paint and body panels", IsRequired: true, IsActive: true, Order: 1},
				{ID: "glass", Label: "Windshield and glass", IsRequired: true, IsActive: true, Order: 2},
				{ID: "lights", Label: "Exterior lights", IsRequired: true, IsActive: true, Order: 3},
			},
		},
		{
			Key:               "interior",
			Label:             "Interior",
			Icon:              "armchair",
			Color:             "#b45309",
			IsActive:          true,
			IsCustomerVisible: true,
			Order:             5,
			Items: []InspectionItem{
				{ID: "upholstery", Label: "Seats and upholstery", IsRequired: false, IsActive: true, Order: 1},
				{ID: "dash-controls", Label: "Dash and controls", IsRequired: true, IsActive: true, Order: 2},
				{ID: "hvac", Label: "Heating and A/C", IsRequired: true, IsActive: true, Order: 3},
				{ID: "odors", Label: "Odor check", IsRequired: false, IsActive: true, Order: 4},
			},
		},
		{
			Key:               "electrical",
			Label:             "Electrical",
			Icon:              "zap",
			Color:             "#ca8a04",
			IsActive:          true,
			IsCustomerVisible: false,
			Order:             6,
			Items: []InspectionItem{
				{ID: "battery", Label: "Battery health", IsRequired: true, IsActive: true, Order: 1},
				{ID: "charging", Label: "Charging system", IsRequired: false, IsActive: true, Order: 2},
				{ID: "infotainment", Label: "Infotainment and connectivity", IsRequired: false, IsActive: true, Order: 3},
			},
		},
		{
			Key:               "emissions",
			Label:             "Emissions",
			Description:       "State inspection and emissions readiness",
			Icon:              "cloud",
			Color:             "#4b5563",
			IsActive:          true,
			IsCustomerVisible: true,
			Order:             7,
			Items: []InspectionItem{
				{ID: "obd-codes", Label: "OBD-II codes", IsRequired: true, IsActive: true, Order: 1},
				{ID: "emissions-test", Label: "Emissions test passed", IsRequired: true, IsActive: true, Order: 2},
			},
		},
		{
			Key:               "road-test",
			Label:             "Road Test",
			Icon:              "route",
			Color:             "#059669",
			IsActive:          true,
			IsCustomerVisible: true,
			Order:             8,
			Items: []InspectionItem{
				{ID: "drive-quality", Label: "Drive quality", IsRequired: true, IsActive: true, Order: 1},
				{ID: "noises", Label: "Unusual noises", IsRequired: true, IsActive: true, Order: 2},
			},
		},
	}
}

// DefaultRatingLabels returns the four canonical rating labels in display order.
func DefaultRatingLabels() []RatingLabel {
	return []RatingLabel{
		{Key: RatingKeyGreat, Label: "Great", Color: "#16a34a"},
		{Key: RatingKeyFair, Label: "Fair", Color: "#ca8a04"},
		{Key: RatingKeyNeedsAttention, Label: "Needs Attention", Color: "#dc2626"},
		{Key: RatingKeyNotChecked, Label: "Not Checked", Color: "#9ca3af"},
	}
}

func DefaultGlobalSettings() GlobalSettings {
	return GlobalSettings{
		AutoGenerateTeamNotes:      true,
		RequireCompletedBeforeSale: true,
		ShowInactiveSections:       false,
	}
}

func DefaultCustomerPdfSettings() CustomerPdfSettings {
	return CustomerPdfSettings{
		ShowPhotos:          true,
		ShowComments:        true,
		ShowDetailedRatings: false,
		FooterText:          "Inspection performed by our certified reconditioning team.",
	}
}

// DefaultSettingsDocument builds a complete default settings document with a
// fresh id and timestamps.
func DefaultSettingsDocument(dealershipID uuid.UUID) SettingsDocument {
	now := time.Now()
	return SettingsDocument{
		ID:                  uuid.New().String(),
		DealershipID:        dealershipID.String(),
		Sections:            DefaultSections(),
		RatingLabels:        DefaultRatingLabels(),
		GlobalSettings:      DefaultGlobalSettings(),
		CustomerPdfSettings: DefaultCustomerPdfSettings(),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}
