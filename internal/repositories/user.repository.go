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

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByOIDCUserID(ctx context.Context, oidcUserID string) (*User, error)
	ListByDealership(ctx context.Context, dealershipID uuid.UUID) ([]*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUserRepository(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	var user User
	err := r.db.SQLWithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get user", err, "userID", id)
	}

	return &user, nil
}

func (r *userRepository) GetByOIDCUserID(ctx context.Context, oidcUserID string) (*User, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByOIDCUserID")

	var user User
	err := r.db.SQLWithContext(ctx).Where("oidc_user_id = ?", oidcUserID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get user by OIDC id", err)
	}

	return &user, nil
}

func (r *userRepository) ListByDealership(ctx context.Context, dealershipID uuid.UUID) ([]*User, error) {
	log := r.log.TraceFromContext(ctx).Function("ListByDealership")

	var users []*User
	err := r.db.SQLWithContext(ctx).
		Where("dealership_id = ?", dealershipID).
		Order("last_name ASC, first_name ASC").
		Find(&users).Error
	if err != nil {
		return nil, log.Err("failed to list users", err, "dealershipID", dealershipID)
	}

	return users, nil
}

func (r *userRepository) Create(ctx context.Context, user *User) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(user).Error; err != nil {
		return log.Err("failed to create user", err, "oidcUserID", user.OIDCUserID)
	}

	log.Info("User created", "userID", user.ID, "dealershipID", user.DealershipID)
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *User) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(user).Error; err != nil {
		return log.Err("failed to update user", err, "userID", user.ID)
	}

	return nil
}
