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

type DealershipRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Dealership, error)
	GetBySlug(ctx context.Context, slug string) (*Dealership, error)
	ListActive(ctx context.Context) ([]*Dealership, error)
	Create(ctx context.Context, dealership *Dealership) error
	Update(ctx context.Context, dealership *Dealership) error
}

type dealershipRepository struct {
	db  database.DB
	log logger.Logger
}

func NewDealershipRepository(db database.DB) DealershipRepository {
	return &dealershipRepository{
		db:  db,
		log: logger.New("dealershipRepository"),
	}
}

func (r *dealershipRepository) GetByID(ctx context.Context, id uuid.UUID) (*Dealership, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	var dealership Dealership
	err := r.db.SQLWithContext(ctx).First(&dealership, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get dealership", err, "dealershipID", id)
	}

	return &dealership, nil
}

func (r *dealershipRepository) GetBySlug(ctx context.Context, slug string) (*Dealership, error) {
	log := r.log.TraceFromContext(ctx).Function("GetBySlug")

	var dealership Dealership
	err := r.db.SQLWithContext(ctx).Where("slug = ?", slug).First(&dealership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get dealership by slug", err, "slug", slug)
	}

	return &dealership, nil
}

func (r *dealershipRepository) ListActive(ctx context.Context) ([]*Dealership, error) {
	log := r.log.TraceFromContext(ctx).Function("ListActive")

	var dealerships []*Dealership
	err := r.db.SQLWithContext(ctx).
		Where("is_active = true").
		Order("name ASC").
		Find(&dealerships).Error
	if err != nil {
		return nil, log.Err("failed to list dealerships", err)
	}

	return dealerships, nil
}

func (r *dealershipRepository) Create(ctx context.Context, dealership *Dealership) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(dealership).Error; err != nil {
		return log.Err("failed to create dealership", err, "slug", dealership.Slug)
	}

	return nil
}

func (r *dealershipRepository) Update(ctx context.Context, dealership *Dealership) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(dealership).Error; err != nil {
		return log.Err("failed to update dealership", err, "dealershipID", dealership.ID)
	}

	return nil
}
