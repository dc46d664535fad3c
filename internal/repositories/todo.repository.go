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

type TodoRepository interface {
	GetByID(ctx context.Context, dealershipID, id uuid.UUID) (*Todo, error)
	List(ctx context.Context, dealershipID uuid.UUID, vehicleID *uuid.UUID, includeDone bool) ([]*Todo, error)
	Create(ctx context.Context, todo *Todo) error
	Update(ctx context.Context, todo *Todo) error
	Delete(ctx context.Context, dealershipID, id uuid.UUID) (bool, error)
	DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type todoRepository struct {
	db  database.DB
	log logger.Logger
}

func NewTodoRepository(db database.DB) TodoRepository {
	return &todoRepository{
		db:  db,
		log: logger.New("todoRepository"),
	}
}

func (r *todoRepository) GetByID(ctx context.Context, dealershipID, id uuid.UUID) (*Todo, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	var todo Todo
	err := r.db.SQLWithContext(ctx).
		Where("dealership_id = ? AND id = ?", dealershipID, id).
		First(&todo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get todo", err, "todoID", id)
	}

	return &todo, nil
}

func (r *todoRepository) List(
	ctx context.Context,
	dealershipID uuid.UUID,
	vehicleID *uuid.UUID,
	includeDone bool,
) ([]*Todo, error) {
	log := r.log.TraceFromContext(ctx).Function("List")

	query := r.db.SQLWithContext(ctx).Where("dealership_id = ?", dealershipID)
	if vehicleID != nil {
		query = query.Where("vehicle_id = ?", vehicleID)
	}
	if !includeDone {
		query = query.Where("is_done = false")
	}

	var todos []*Todo
	if err := query.Order("due_at ASC NULLS LAST, created_at DESC").Find(&todos).Error; err != nil {
		return nil, log.Err("failed to list todos", err, "dealershipID", dealershipID)
	}

	return todos, nil
}

func (r *todoRepository) Create(ctx context.Context, todo *Todo) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(todo).Error; err != nil {
		return log.Err("failed to create todo", err, "title", todo.Title)
	}

	return nil
}

func (r *todoRepository) Update(ctx context.Context, todo *Todo) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(todo).Error; err != nil {
		return log.Err("failed to update todo", err, "todoID", todo.ID)
	}

	return nil
}

func (r *todoRepository) Delete(ctx context.Context, dealershipID, id uuid.UUID) (bool, error) {
	log := r.log.TraceFromContext(ctx).Function("Delete")

	result := r.db.SQLWithContext(ctx).
		Where("dealership_id = ? AND id = ?", dealershipID, id).
		Delete(&Todo{})
	if result.Error != nil {
		return false, log.Err("failed to delete todo", result.Error, "todoID", id)
	}

	return result.RowsAffected > 0, nil
}

func (r *todoRepository) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	log := r.log.TraceFromContext(ctx).Function("DeleteCompletedBefore")

	result := r.db.SQLWithContext(ctx).
		Where("is_done = true AND completed_at < ?", cutoff).
		Delete(&Todo{})
	if result.Error != nil {
		return 0, log.Err("failed to delete completed todos", result.Error)
	}

	return result.RowsAffected, nil
}
