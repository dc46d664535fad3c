package initialize

import (
	"recondo/config"
	"recondo/internal/logger"
	. "recondo/internal/models"

	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeDealership(db, log); err != nil {
		return log.Err("failed to initialize dealership", err)
	}

	log.Info("Table initialization complete")
	return nil
}

// initializeDealership guarantees at least one active dealership exists.
// First-login user provisioning assigns new users to the first active
// dealership and fails hard without one.
func initializeDealership(db *gorm.DB, log logger.Logger) error {
	var count int64
	if err := db.Model(&Dealership{}).Count(&count).Error; err != nil {
		return log.Err("failed to count dealerships", err)
	}
	if count > 0 {
		log.Debug("Dealerships already present", "count", count)
		return nil
	}

	dealership := Dealership{
		Name:     "Main Street Motors",
		Slug:     "main-street-motors",
		IsActive: true,
	}
	if err := db.Create(&dealership).Error; err != nil {
		return log.Err("failed to create default dealership", err)
	}

	log.Info("Created default dealership", "dealershipID", dealership.ID)
	return nil
}
