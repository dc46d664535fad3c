package jobs

import (
	"context"

	"recondo/internal/controllers/inspections"
	"recondo/internal/logger"
	"recondo/internal/repositories"
	"recondo/internal/services"
)

// ChecklistRebuildJob recomputes every dealership's denormalized vehicle
// checklists from the stored inspection documents. The per-save refresh is
// best-effort, so this nightly pass repairs any record that drifted.
type ChecklistRebuildJob struct {
	dealershipRepo repositories.DealershipRepository
	dataController *inspections.DataController
	log            logger.Logger
}

func NewChecklistRebuildJob(
	dealershipRepo repositories.DealershipRepository,
	dataController *inspections.DataController,
) *ChecklistRebuildJob {
	return &ChecklistRebuildJob{
		dealershipRepo: dealershipRepo,
		dataController: dataController,
		log:            logger.New("checklistRebuildJob"),
	}
}

func (j *ChecklistRebuildJob) Name() string {
	return "checklist-rebuild"
}

func (j *ChecklistRebuildJob) Schedule() services.Schedule {
	return services.Nightly
}

func (j *ChecklistRebuildJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	dealerships, err := j.dealershipRepo.ListActive(ctx)
	if err != nil {
		return log.Err("failed to list dealerships for rebuild", err)
	}

	total := 0
	for _, dealership := range dealerships {
		rebuilt, rebuildErr := j.dataController.RebuildChecklists(ctx, dealership.ID)
		if rebuildErr != nil {
			log.Warn("checklist rebuild failed for dealership",
				"dealershipID", dealership.ID, "error", rebuildErr)
			continue
		}
		total += rebuilt
	}

	log.Info("Checklist rebuild completed", "dealerships", len(dealerships), "rebuilt", total)
	return nil
}
