package seed

import (
	"time"

	"recondo/config"
	"recondo/internal/logger"
	. "recondo/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

// Seed loads a development data set: one dealership with a small team,
// a handful of locations, and vehicles in various stages of recon.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	var dealership Dealership
	if err := db.First(&dealership, "slug = ?", "main-street-motors").Error; err != nil {
		return log.Err("default dealership missing, run migrations first", err)
	}

	users := []User{
		{
			DealershipID: dealership.ID,
			FirstName:    "Admin",
			LastName:     "User",
			Email:        stringPtr("admin@example.com"),
			Role:         "manager",
			IsAdmin:      true,
			OIDCUserID:   "dev-admin",
		},
		{
			DealershipID: dealership.ID,
			FirstName:    "Terry",
			LastName:     "Nguyen",
			Email:        stringPtr("terry.nguyen@example.com"),
			Role:         "tech",
			OIDCUserID:   "dev-terry",
		},
		{
			DealershipID: dealership.ID,
			FirstName:    "Dana",
			LastName:     "Ibarra",
			Email:        stringPtr("dana.ibarra@example.com"),
			Role:         "detailer",
			OIDCUserID:   "dev-dana",
		},
	}

	for i := range users {
		var existing User
		if err := db.First(&existing, "oidc_user_id = ?", users[i].OIDCUserID).Error; err == nil {
			continue
		}
		if err := db.Create(&users[i]).Error; err != nil {
			return log.Err("failed to seed user", err, "email", users[i].Email)
		}
	}

	locations := []Location{
		{DealershipID: dealership.ID, Name: "Front Lot", Type: LocationTypeLot, Capacity: 40, IsActive: true},
		{DealershipID: dealership.ID, Name: "Service Bay 1", Type: LocationTypeBay, Capacity: 1, IsActive: true},
		{DealershipID: dealership.ID, Name: "Body Shop (Offsite)", Type: LocationTypeOffsite, Capacity: 10, IsActive: true},
	}

	for i := range locations {
		var existing Location
		err := db.First(&existing, "dealership_id = ? AND name = ?", dealership.ID, locations[i].Name).Error
		if err == nil {
			locations[i] = existing
			continue
		}
		if err := db.Create(&locations[i]).Error; err != nil {
			return log.Err("failed to seed location", err, "name", locations[i].Name)
		}
	}

	acquired := time.Now().AddDate(0, 0, -12)
	vehicles := []Vehicle{
		{
			DealershipID:    dealership.ID,
			StockNumber:     "A1001",
			VIN:             "1HGCM82633A004352",
			Year:            2021,
			Make:            "Honda",
			Model:           "Accord",
			Color:           "Silver",
			Odometer:        34200,
			Status:          VehicleStatusInRecon,
			LocationID:      &locations[1].ID,
			AcquisitionCost: decimal.NewFromInt(18500),
			ListPrice:       decimal.NewFromInt(22990),
			AcquiredAt:      &acquired,
		},
		{
			DealershipID:    dealership.ID,
			StockNumber:     "A1002",
			VIN:             "5YJ3E1EA7KF317000",
			Year:            2019,
			Make:            "Tesla",
			Model:           "Model 3",
			Color:           "White",
			Odometer:        51800,
			Status:          VehicleStatusIntake,
			LocationID:      &locations[0].ID,
			AcquisitionCost: decimal.NewFromInt(24100),
			ListPrice:       decimal.NewFromInt(28450),
		},
		{
			DealershipID:    dealership.ID,
			StockNumber:     "A1003",
			VIN:             "1FTEW1EP5JKE00001",
			Year:            2018,
			Make:            "Ford",
			Model:           "F-150",
			Trim:            "XLT",
			Color:           "Blue",
			Odometer:        68900,
			Status:          VehicleStatusReady,
			LocationID:      &locations[0].ID,
			AcquisitionCost: decimal.NewFromInt(21000),
			ReconCost:       decimal.NewFromInt(1450),
			ListPrice:       decimal.NewFromInt(26995),
		},
	}

	for i := range vehicles {
		var existing Vehicle
		err := db.First(&existing, "dealership_id = ? AND stock_number = ?", dealership.ID, vehicles[i].StockNumber).Error
		if err == nil {
			continue
		}
		if err := db.Create(&vehicles[i]).Error; err != nil {
			return log.Err("failed to seed vehicle", err, "stockNumber", vehicles[i].StockNumber)
		}
	}

	contacts := []Contact{
		{
			DealershipID: dealership.ID,
			Name:         "Riley's Glass Repair",
			Company:      "Riley Auto Glass",
			Category:     "vendor",
			Phone:        "555-0142",
			IsActive:     true,
		},
		{
			DealershipID: dealership.ID,
			Name:         "Metro Auction House",
			Company:      "Metro Auctions",
			Category:     "auction",
			Phone:        "555-0177",
			Email:        "sales@metroauctions.example.com",
			IsActive:     true,
		},
	}

	for i := range contacts {
		var existing Contact
		err := db.First(&existing, "dealership_id = ? AND name = ?", dealership.ID, contacts[i].Name).Error
		if err == nil {
			continue
		}
		if err := db.Create(&contacts[i]).Error; err != nil {
			return log.Err("failed to seed contact", err, "name", contacts[i].Name)
		}
	}

	log.Info("Development data seeded")
	return nil
}
