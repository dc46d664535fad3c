package repositories

import (
	"recondo/internal/database"
)

type Repository struct {
	Dealership         DealershipRepository
	User               UserRepository
	Vehicle            VehicleRepository
	Location           LocationRepository
	Contact            ContactRepository
	Todo               TodoRepository
	InspectionSettings InspectionSettingsRepository
	Inspection         InspectionRepository
}

func New(db database.DB) Repository {
	return Repository{
		Dealership:         NewDealershipRepository(db),
		User:               NewUserRepository(db),
		Vehicle:            NewVehicleRepository(db),
		Location:           NewLocationRepository(db),
		Contact:            NewContactRepository(db),
		Todo:               NewTodoRepository(db),
		InspectionSettings: NewInspectionSettingsRepository(db),
		Inspection:         NewInspectionRepository(db),
	}
}
