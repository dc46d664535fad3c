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

type LocationRepository interface {
	GetByID(ctx context.Context, dealershipID, id uuid.UUID) (*Location, error)
	List(ctx context.Context, dealershipID uuid.UUID) ([]*Location, error)
	Create(ctx context.Context, location *Location) error
	Update(ctx context.Context, location *Location) error
	Delete(ctx context.Context, dealershipID, id uuid.UUID) (bool, error)
}

type locationRepository struct {
	db  database.DB
	log logger.Logger
}

func NewLocationRepository(db database.DB) LocationRepository {
	return &locationRepository{
		db:  db,
		log: logger.New("locationRepository"),
	}
}

func (r *locationRepository) GetByID(ctx context.Context, dealershipID, id uuid.UUID) (*Location, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	var location Location
	err := r.db.SQLWithContext(ctx).
		Where("dealership_id = ? AND id = ?", dealershipID, id).
		First(&location).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get location", err, "locationID", id)
	}

	return &location, nil
}

func (r *locationRepository) List(ctx context.Context, dealershipID uuid.UUID) ([]*Location, error) {
	log := r.log.TraceFromContext(ctx).Function("List")

	var locations []*Location
	err := r.db.SQLWithContext(ctx).
		Where("dealership_id = ?", dealershipID).
		Order("name ASC").
		Find(&locations).Error
	if err != nil {
		return nil, log.Err("failed to list locations", err, "dealershipID", dealershipID)
	}

	return locations, nil
}

func (r *locationRepository) Create(ctx context.Context, location *Location) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(location).Error; err != nil {
		return log.Err("failed to create location", err, "name", location.Name)
	}

	return nil
}

func (r *locationRepository) Update(ctx context.Context, location *Location) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(location).Error; err != nil {
		return log.Err("failed to update location", err, "locationID", location.ID)
	}

	return nil
}

func (r *locationRepository) Delete(ctx context.Context, dealershipID, id uuid.UUID) (bool, error) {
	log := r.log.TraceFromContext(ctx).Function("Delete")

	result := r.db.SQLWithContext(ctx).
		Where("dealership_id = ? AND id = ?", dealershipID, id).
		Delete(&Location{})
	if result.Error != nil {
		return false, log.Err("failed to delete location", result.Error, "locationID", id)
	}

	return result.RowsAffected > 0, nil
}
