package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"recondo/internal/models"
	"recondo/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeTodoRepo struct {
	deleteCutoff time.Time
	deleteCount  int64
	deleteErr    error
	deleteCalled bool
}

func (f *fakeTodoRepo) GetByID(ctx context.Context, dealershipID, id uuid.UUID) (*models.Todo, error) {
	return nil, nil
}

func (f *fakeTodoRepo) List(ctx context.Context, dealershipID uuid.UUID, vehicleID *uuid.UUID, includeDone bool) ([]*models.Todo, error) {
	return nil, nil
}

func (f *fakeTodoRepo) Create(ctx context.Context, todo *models.Todo) error { return nil }

func (f *fakeTodoRepo) Update(ctx context.Context, todo *models.Todo) error { return nil }

func (f *fakeTodoRepo) Delete(ctx context.Context, dealershipID, id uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeTodoRepo) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.deleteCalled = true
	f.deleteCutoff = cutoff
	return f.deleteCount, f.deleteErr
}

func TestTodoCleanupJob_Name(t *testing.T) {
	job := NewTodoCleanupJob(&fakeTodoRepo{})
	assert.Equal(t, "todo-cleanup", job.Name())
	assert.Equal(t, services.NightlyCleanup, job.Schedule())
}

func TestTodoCleanupJob_Execute(t *testing.T) {
	repo := &fakeTodoRepo{deleteCount: 4}
	job := NewTodoCleanupJob(repo)

	err := job.Execute(context.Background())
	assert.NoError(t, err)
	assert.True(t, repo.deleteCalled)

	// Cutoff lands one retention period in the past
	expected := time.Now().Add(-completedTodoRetention)
	assert.WithinDuration(t, expected, repo.deleteCutoff, 5*time.Second)
}

func TestTodoCleanupJob_ExecuteError(t *testing.T) {
	repo := &fakeTodoRepo{deleteErr: errors.New("connection refused")}
	job := NewTodoCleanupJob(repo)

	err := job.Execute(context.Background())
	assert.Error(t, err)
}

func TestChecklistRebuildJob_Name(t *testing.T) {
	job := &ChecklistRebuildJob{}
	assert.Equal(t, "checklist-rebuild", job.Name())
	assert.Equal(t, services.Nightly, job.Schedule())
}
