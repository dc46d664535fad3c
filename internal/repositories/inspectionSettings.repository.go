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
)

const (
	SETTINGS_CACHE_PREFIX = "inspection_settings"
	SETTINGS_CACHE_EXPIRY = 24 * time.Hour
)

type InspectionSettingsRepository interface {
	// GetByDealershipID returns the stored settings row, (nil, nil) when the
	// dealership has none, and falls back to the cache mirror when the
	// primary store is unreachable.
	GetByDealershipID(ctx context.Context, dealershipID uuid.UUID) (*InspectionSettings, error)

	// Upsert writes the canonical row (one per dealership) and best-effort
	// mirrors it to the cache; a mirror failure never fails the save.
	Upsert(ctx context.Context, settings *InspectionSettings) error

	// Replace drops the dealership's existing row and writes a fresh one
	// with a new id. Used by import and reset, which must not reuse the
	// previous settings id.
	Replace(ctx context.Context, settings *InspectionSettings) error
}

type inspectionSettingsRepository struct {
	db    database.DB
	cache database.CacheClient
	log   logger.Logger
}

func NewInspectionSettingsRepository(db database.DB) InspectionSettingsRepository {
	return &inspectionSettingsRepository{
		db:    db,
		cache: db.Cache.Settings,
		log:   logger.New("inspectionSettingsRepository"),
	}
}

func (r *inspectionSettingsRepository) GetByDealershipID(
	ctx context.Context,
	dealershipID uuid.UUID,
) (*InspectionSettings, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByDealershipID")

	var settings InspectionSettings
	err := r.db.SQLWithContext(ctx).
		Where("dealership_id = ?", dealershipID).
		First(&settings).Error
	if err == nil {
		return &settings, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	// Primary store unreachable; try the cache mirror before giving up.
	log.Warn("settings read failed, trying cache mirror", "dealershipID", dealershipID, "error", err)

	var cached InspectionSettings
	found, cacheErr := database.NewCacheBuilder(r.cache, dealershipID).
		WithContext(ctx).
		WithHash(SETTINGS_CACHE_PREFIX).
		Get(&cached)
	if cacheErr != nil {
		log.Warn("settings cache mirror read failed", "dealershipID", dealershipID, "error", cacheErr)
	}
	if found {
		log.Info("Settings served from cache mirror", "dealershipID", dealershipID)
		return &cached, nil
	}

	return nil, log.Err("failed to get inspection settings", err, "dealershipID", dealershipID)
}

func (r *inspectionSettingsRepository) Upsert(ctx context.Context, settings *InspectionSettings) error {
	log := r.log.TraceFromContext(ctx).Function("Upsert")

	var existing InspectionSettings
	err := r.db.SQLWithContext(ctx).
		Where("dealership_id = ?", settings.DealershipID).
		First(&existing).Error

	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return log.Err("failed to look up inspection settings", err, "dealershipID", settings.DealershipID)
		}
		if err := r.db.SQLWithContext(ctx).Create(settings).Error; err != nil {
			return log.Err("failed to create inspection settings", err, "dealershipID", settings.DealershipID)
		}
	} else {
		settings.ID = existing.ID
		settings.CreatedAt = existing.CreatedAt
		if err := r.db.SQLWithContext(ctx).Save(settings).Error; err != nil {
			return log.Err("failed to update inspection settings", err, "dealershipID", settings.DealershipID)
		}
	}

	r.mirrorToCache(ctx, settings)

	return nil
}

func (r *inspectionSettingsRepository) Replace(ctx context.Context, settings *InspectionSettings) error {
	log := r.log.TraceFromContext(ctx).Function("Replace")

	err := r.db.SQLWithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Unscoped().
			Where("dealership_id = ?", settings.DealershipID).
			Delete(&InspectionSettings{}).Error; err != nil {
			return err
		}
		return tx.Create(settings).Error
	})
	if err != nil {
		return log.Err("failed to replace inspection settings", err, "dealershipID", settings.DealershipID)
	}

	r.mirrorToCache(ctx, settings)

	return nil
}

func (r *inspectionSettingsRepository) mirrorToCache(ctx context.Context, settings *InspectionSettings) {
	log := r.log.TraceFromContext(ctx).Function("mirrorToCache")

	err := database.NewCacheBuilder(r.cache, settings.DealershipID).
		WithContext(ctx).
		WithHash(SETTINGS_CACHE_PREFIX).
		WithStruct(settings).
		WithTTL(SETTINGS_CACHE_EXPIRY).
		Set()
	if err != nil {
		log.Warn("failed to mirror settings to cache", "dealershipID", settings.DealershipID, "error", err)
	}
}
