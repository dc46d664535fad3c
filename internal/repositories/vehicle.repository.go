package repositories

import (
	"context"
	"errors"
	"recondo/internal/database"
	"recondo/internal/logger"
	. "recondo/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VehicleFilter narrows vehicle listings; zero values mean no filtering.
type VehicleFilter struct {
	Status     VehicleStatus
	LocationID *uuid.UUID
	Search     string
}

type VehicleRepository interface {
	GetByID(ctx context.Context, dealershipID, id uuid.UUID) (*Vehicle, error)
	List(ctx context.Context, dealershipID uuid.UUID, filter VehicleFilter) ([]*Vehicle, error)
	ListIDs(ctx context.Context, dealershipID uuid.UUID) ([]uuid.UUID, error)
	Create(ctx context.Context, vehicle *Vehicle) error
	Update(ctx context.Context, vehicle *Vehicle) error
	Delete(ctx context.Context, dealershipID, id uuid.UUID) (bool, error)
}

type vehicleRepository struct {
	db  database.DB
	log logger.Logger
}

func NewVehicleRepository(db database.DB) VehicleRepository {
	return &vehicleRepository{
		db:  db,
		log: logger.New("vehicleRepository"),
	}
}

func (r *vehicleRepository) GetByID(ctx context.Context, dealershipID, id uuid.UUID) (*Vehicle, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	var vehicle Vehicle
	err := r.db.SQLWithContext(ctx).
		Preload("Location").
		Where("dealership_id = ? AND id = ?", dealershipID, id).
		First(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get vehicle", err, "vehicleID", id)
	}

	return &vehicle, nil
}

func (r *vehicleRepository) List(
	ctx context.Context,
	dealershipID uuid.UUID,
	filter VehicleFilter,
) ([]*Vehicle, error) {
	log := r.log.TraceFromContext(ctx).Function("List")

	query := r.db.SQLWithContext(ctx).
		Preload("Location").
		Where("dealership_id = ?", dealershipID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.LocationID != nil {
		query = query.Where("location_id = ?", filter.LocationID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"stock_number ILIKE ? OR vin ILIKE ? OR make ILIKE ? OR model ILIKE ?",
			like, like, like, like,
		)
	}

	var vehicles []*Vehicle
	if err := query.Order("created_at DESC").Find(&vehicles).Error; err != nil {
		return nil, log.Err("failed to list vehicles", err, "dealershipID", dealershipID)
	}

	return vehicles, nil
}

func (r *vehicleRepository) ListIDs(ctx context.Context, dealershipID uuid.UUID) ([]uuid.UUID, error) {
	log := r.log.TraceFromContext(ctx).Function("ListIDs")

	var ids []uuid.UUID
	err := r.db.SQLWithContext(ctx).
		Model(&Vehicle{}).
		Where("dealership_id = ?", dealershipID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, log.Err("failed to list vehicle ids", err, "dealershipID", dealershipID)
	}

	return ids, nil
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *Vehicle) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(vehicle).Error; err != nil {
		return log.Err("failed to create vehicle", err, "stockNumber", vehicle.StockNumber)
	}

	log.Info("Vehicle created", "vehicleID", vehicle.ID, "stockNumber", vehicle.StockNumber)
	return nil
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *Vehicle) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(vehicle).Error; err != nil {
		return log.Err("failed to update vehicle", err, "vehicleID", vehicle.ID)
	}

	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, dealershipID, id uuid.UUID) (bool, error) {
	log := r.log.TraceFromContext(ctx).Function("Delete")

	result := r.db.SQLWithContext(ctx).
		Where("dealership_id = ? AND id = ?", dealershipID, id).
		Delete(&Vehicle{})
	if result.Error != nil {
		return false, log.Err("failed to delete vehicle", result.Error, "vehicleID", id)
	}

	return result.RowsAffected > 0, nil
}
