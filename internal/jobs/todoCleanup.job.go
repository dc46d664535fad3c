package jobs

import (
	"context"
	"time"

	"recondo/internal/logger"
	"recondo/internal/repositories"
	"recondo/internal/services"
)

// Completed todos older than this are purged by the nightly cleanup.
const completedTodoRetention = 30 * 24 * time.Hour

// TodoCleanupJob removes long-completed todos so vehicle task lists stay
// focused on current work.
type TodoCleanupJob struct {
	todoRepo repositories.TodoRepository
	log      logger.Logger
}

func NewTodoCleanupJob(todoRepo repositories.TodoRepository) *TodoCleanupJob {
	return &TodoCleanupJob{
		todoRepo: todoRepo,
		log:      logger.New("todoCleanupJob"),
	}
}

func (j *TodoCleanupJob) Name() string {
	return "todo-cleanup"
}

func (j *TodoCleanupJob) Schedule() services.Schedule {
	return services.NightlyCleanup
}

func (j *TodoCleanupJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	cutoff := time.Now().Add(-completedTodoRetention)
	removed, err := j.todoRepo.DeleteCompletedBefore(ctx, cutoff)
	if err != nil {
		return log.Err("failed to delete completed todos", err)
	}

	log.Info("Todo cleanup completed", "removed", removed, "cutoff", cutoff)
	return nil
}
