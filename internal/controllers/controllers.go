package controllers

import (
	"recondo/internal/database"
	"recondo/internal/events"
	"recondo/internal/repositories"
	"recondo/internal/services"

	authController "recondo/internal/controllers/auth"
	"recondo/internal/controllers/inspections"
	vehicleController "recondo/internal/controllers/vehicles"
)

type Controllers struct {
	Auth               authController.AuthControllerInterface
	Vehicle            vehicleController.VehicleControllerInterface
	InspectionSettings *inspections.SettingsController
	InspectionData     *inspections.DataController
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	db database.DB,
) Controllers {
	settingsController := inspections.NewSettingsController(repos.InspectionSettings)

	return Controllers{
		Auth:               authController.New(services, repos, db),
		Vehicle:            vehicleController.New(repos, eventBus),
		InspectionSettings: settingsController,
		InspectionData:     inspections.NewDataController(repos.Inspection, settingsController, eventBus),
	}
}
