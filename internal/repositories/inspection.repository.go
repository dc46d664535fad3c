package repositories

import (
	"context"
	"errors"
	"recondo/internal/database"
	"recondo/internal/logger"
	. "recondo/internal/models"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	CHECKLIST_CACHE_PREFIX = "vehicle_checklist"
	CHECKLIST_CACHE_EXPIRY = 24 * time.Hour
)

type InspectionRepository interface {
	// GetByVehicleID returns the stored inspection row or (nil, nil) when
	// the vehicle has none yet.
	GetByVehicleID(ctx context.Context, vehicleID uuid.UUID) (*VehicleInspection, error)

	// Save upserts the vehicle's inspection row. Data and Notes live on the
	// same row, so one call lands both in a single write.
	Save(ctx context.Context, inspection *VehicleInspection) error

	ListByDealership(ctx context.Context, dealershipID uuid.UUID) ([]*VehicleInspection, error)

	// UpsertChecklist writes the denormalized per-vehicle checklist record,
	// keyed by vehicle id.
	UpsertChecklist(ctx context.Context, checklist *VehicleChecklist) error

	GetChecklist(ctx context.Context, vehicleID uuid.UUID) (*VehicleChecklist, error)
	ListChecklists(ctx context.Context, dealershipID uuid.UUID) ([]*VehicleChecklist, error)
}

type inspectionRepository struct {
	db    database.DB
	cache database.CacheClient
	log   logger.Logger
}

func NewInspectionRepository(db database.DB) InspectionRepository {
	return &inspectionRepository{
		db:    db,
		cache: db.Cache.Settings,
		log:   logger.New("inspectionRepository"),
	}
}

func (r *inspectionRepository) GetByVehicleID(
	ctx context.Context,
	vehicleID uuid.UUID,
) (*VehicleInspection, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByVehicleID")

	var inspection VehicleInspection
	err := r.db.SQLWithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		First(&inspection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get vehicle inspection", err, "vehicleID", vehicleID)
	}

	return &inspection, nil
}

func (r *inspectionRepository) Save(ctx context.Context, inspection *VehicleInspection) error {
	log := r.log.TraceFromContext(ctx).Function("Save")

	var existing VehicleInspection
	err := r.db.SQLWithContext(ctx).
		Where("vehicle_id = ?", inspection.VehicleID).
		First(&existing).Error

	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return log.Err("failed to look up vehicle inspection", err, "vehicleID", inspection.VehicleID)
		}
		if err := r.db.SQLWithContext(ctx).Create(inspection).Error; err != nil {
			return log.Err("failed to create vehicle inspection", err, "vehicleID", inspection.VehicleID)
		}
		return nil
	}

	inspection.ID = existing.ID
	inspection.CreatedAt = existing.CreatedAt
	if err := r.db.SQLWithContext(ctx).Save(inspection).Error; err != nil {
		return log.Err("failed to update vehicle inspection", err, "vehicleID", inspection.VehicleID)
	}

	return nil
}

func (r *inspectionRepository) ListByDealership(
	ctx context.Context,
	dealershipID uuid.UUID,
) ([]*VehicleInspection, error) {
	log := r.log.TraceFromContext(ctx).Function("ListByDealership")

	var inspections []*VehicleInspection
	err := r.db.SQLWithContext(ctx).
		Where("dealership_id = ?", dealershipID).
		Find(&inspections).Error
	if err != nil {
		return nil, log.Err("failed to list vehicle inspections", err, "dealershipID", dealershipID)
	}

	return inspections, nil
}

func (r *inspectionRepository) UpsertChecklist(ctx context.Context, checklist *VehicleChecklist) error {
	log := r.log.TraceFromContext(ctx).Function("UpsertChecklist")

	err := r.db.SQLWithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "vehicle_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"progress", "badge", "sections_completed", "sections_total",
				"section_statuses", "updated_at",
			}),
		}).
		Create(checklist).Error
	if err != nil {
		return log.Err("failed to upsert vehicle checklist", err, "vehicleID", checklist.VehicleID)
	}

	r.mirrorChecklistToCache(ctx, checklist)

	return nil
}

func (r *inspectionRepository) GetChecklist(
	ctx context.Context,
	vehicleID uuid.UUID,
) (*VehicleChecklist, error) {
	log := r.log.TraceFromContext(ctx).Function("GetChecklist")

	var checklist VehicleChecklist
	err := r.db.SQLWithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		First(&checklist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get vehicle checklist", err, "vehicleID", vehicleID)
	}

	return &checklist, nil
}

func (r *inspectionRepository) ListChecklists(
	ctx context.Context,
	dealershipID uuid.UUID,
) ([]*VehicleChecklist, error) {
	log := r.log.TraceFromContext(ctx).Function("ListChecklists")

	var checklists []*VehicleChecklist
	err := r.db.SQLWithContext(ctx).
		Where("dealership_id = ?", dealershipID).
		Order("updated_at DESC").
		Find(&checklists).Error
	if err != nil {
		return nil, log.Err("failed to list vehicle checklists", err, "dealershipID", dealershipID)
	}

	return checklists, nil
}

func (r *inspectionRepository) mirrorChecklistToCache(ctx context.Context, checklist *VehicleChecklist) {
	log := r.log.TraceFromContext(ctx).Function("mirrorChecklistToCache")

	err := database.NewCacheBuilder(r.cache, checklist.VehicleID).
		WithContext(ctx).
		WithHash(CHECKLIST_CACHE_PREFIX).
		WithStruct(checklist).
		WithTTL(CHECKLIST_CACHE_EXPIRY).
		Set()
	if err != nil {
		log.Warn("failed to mirror checklist to cache", "vehicleID", checklist.VehicleID, "error", err)
	}
}
