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

type ContactRepository interface {
	GetByID(ctx context.Context, dealershipID, id uuid.UUID) (*Contact, error)
	List(ctx context.Context, dealershipID uuid.UUID, category string) ([]*Contact, error)
	Create(ctx context.Context, contact *Contact) error
	Update(ctx context.Context, contact *Contact) error
	Delete(ctx context.Context, dealershipID, id uuid.UUID) (bool, error)
}

type contactRepository struct {
	db  database.DB
	log logger.Logger
}

func NewContactRepository(db database.DB) ContactRepository {
	return &contactRepository{
		db:  db,
		log: logger.New("contactRepository"),
	}
}

func (r *contactRepository) GetByID(ctx context.Context, dealershipID, id uuid.UUID) (*Contact, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	var contact Contact
	err := r.db.SQLWithContext(ctx).
		Where("dealership_id = ? AND id = ?", dealershipID, id).
		First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get contact", err, "contactID", id)
	}

	return &contact, nil
}

func (r *contactRepository) List(
	ctx context.Context,
	dealershipID uuid.UUID,
	category string,
) ([]*Contact, error) {
	log := r.log.TraceFromContext(ctx).Function("List")

	query := r.db.SQLWithContext(ctx).Where("dealership_id = ?", dealershipID)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var contacts []*Contact
	if err := query.Order("name ASC").Find(&contacts).Error; err != nil {
		return nil, log.Err("failed to list contacts", err, "dealershipID", dealershipID)
	}

	return contacts, nil
}

func (r *contactRepository) Create(ctx context.Context, contact *Contact) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(contact).Error; err != nil {
		return log.Err("failed to create contact", err, "name", contact.Name)
	}

	return nil
}

func (r *contactRepository) Update(ctx context.Context, contact *Contact) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(contact).Error; err != nil {
		return log.Err("failed to update contact", err, "contactID", contact.ID)
	}

	return nil
}

func (r *contactRepository) Delete(ctx context.Context, dealershipID, id uuid.UUID) (bool, error) {
	log := r.log.TraceFromContext(ctx).Function("Delete")

	result := r.db.SQLWithContext(ctx).
		Where("dealership_id = ? AND id = ?", dealershipID, id).
		Delete(&Contact{})
	if result.Error != nil {
		return false, log.Err("failed to delete contact", result.Error, "contactID", id)
	}

	return result.RowsAffected > 0, nil
}
