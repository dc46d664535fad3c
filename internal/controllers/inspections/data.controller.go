package inspections

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"recondo/internal/events"
	"recondo/internal/logger"
	. "recondo/internal/models"
	"recondo/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ErrNoteTextRequired rejects manual notes with no text before any lookup
// or write happens.
var ErrNoteTextRequired = errors.New("note text is required")

// EventPublisher is the slice of the event bus the inspection controllers
// need. Publishing is always best-effort; a broken bus never fails a save.
type EventPublisher interface {
	PublishDealershipUpdate(messageType events.MessageType, dealershipID uuid.UUID, data map[string]any) error
}

// DataController owns per-vehicle inspection data and the team note feed.
// Saves write data and notes in one repository call so the audit trail can
// never drift from the ratings it describes.
type DataController struct {
	inspectionRepo repositories.InspectionRepository
	settings       *SettingsController
	eventBus       EventPublisher
	log            logger.Logger
}

func NewDataController(
	inspectionRepo repositories.InspectionRepository,
	settings *SettingsController,
	eventBus EventPublisher,
) *DataController {
	return &DataController{
		inspectionRepo: inspectionRepo,
		settings:       settings,
		eventBus:       eventBus,
		log:            logger.New("inspectionDataController"),
	}
}

// GetData returns the vehicle's inspection document. A vehicle with no row
// yet gets the canonical empty shape keyed by the dealership's active
// sections; a row with an unreadable document is served as the empty shape
// rather than an error.
func (c *DataController) GetData(
	ctx context.Context,
	dealershipID, vehicleID uuid.UUID,
) (InspectionDocument, error) {
	log := c.log.TraceFromContext(ctx).Function("GetData")

	row, err := c.inspectionRepo.GetByVehicleID(ctx, vehicleID)
	if err != nil {
		return InspectionDocument{}, err
	}

	if row == nil {
		settings := c.settings.GetSettings(ctx, dealershipID)
		return NewInspectionDocument(settings.ActiveSectionKeys()), nil
	}

	doc, err := row.Document()
	if err != nil {
		log.Warn("stored inspection document unreadable, serving empty shape",
			"vehicleID", vehicleID, "error", err)
		settings := c.settings.GetSettings(ctx, dealershipID)
		return NewInspectionDocument(settings.ActiveSectionKeys()), nil
	}

	return doc, nil
}

// SaveData persists the full inspection document for a vehicle. Rating
// changes against the previously stored document are reconciled into team
// notes, and data plus notes land in one write. Concurrent saves are
// last-write-wins on the whole document. The denormalized checklist and the
// live-update event are refreshed best-effort after the write.
func (c *DataController) SaveData(
	ctx context.Context,
	dealershipID, vehicleID uuid.UUID,
	doc InspectionDocument,
	author string,
) (InspectionDocument, []TeamNote, error) {
	log := c.log.TraceFromContext(ctx).Function("SaveData")

	doc.Normalize()

	row, err := c.inspectionRepo.GetByVehicleID(ctx, vehicleID)
	if err != nil {
		return InspectionDocument{}, nil, err
	}

	old := NewInspectionDocument(nil)
	var existingNotes []TeamNote
	if row != nil {
		if stored, docErr := row.Document(); docErr == nil {
			old = stored
		} else {
			log.Warn("previous inspection document unreadable, reconciling against empty",
				"vehicleID", vehicleID, "error", docErr)
		}
		if notes, notesErr := row.TeamNotes(); notesErr == nil {
			existingNotes = notes
		} else {
			log.Warn("stored team notes unreadable, starting fresh",
				"vehicleID", vehicleID, "error", notesErr)
		}
	}

	settings := c.settings.GetSettings(ctx, dealershipID)

	var fresh []TeamNote
	if settings.GlobalSettings.AutoGenerateTeamNotes {
		fresh = ReconcileNotes(old, doc, author, time.Now())
	}
	notes := PrependNotes(existingNotes, fresh)

	rawData, err := json.Marshal(doc)
	if err != nil {
		return InspectionDocument{}, nil, log.Err("failed to encode inspection document", err, "vehicleID", vehicleID)
	}
	rawNotes, err := json.Marshal(notes)
	if err != nil {
		return InspectionDocument{}, nil, log.Err("failed to encode team notes", err, "vehicleID", vehicleID)
	}

	inspection := &VehicleInspection{
		DealershipID: dealershipID,
		VehicleID:    vehicleID,
		Data:         datatypes.JSON(rawData),
		Notes:        datatypes.JSON(rawNotes),
	}
	if row != nil {
		inspection.ID = row.ID
		inspection.CreatedAt = row.CreatedAt
	}

	if err := c.inspectionRepo.Save(ctx, inspection); err != nil {
		return InspectionDocument{}, nil, err
	}

	c.refreshChecklist(ctx, dealershipID, vehicleID, doc, settings.ActiveSectionKeys())
	c.publish(events.INSPECTION_UPDATED, dealershipID, map[string]any{
		"vehicleId": vehicleID.String(),
	})

	return doc, notes, nil
}

// AddNote prepends a manual note to the vehicle's feed without touching the
// inspection data.
func (c *DataController) AddNote(
	ctx context.Context,
	dealershipID, vehicleID uuid.UUID,
	text, author, category string,
) (*TeamNote, error) {
	log := c.log.TraceFromContext(ctx).Function("AddNote")

	if text == "" {
		log.Warn("Rejected empty note", "vehicleID", vehicleID)
		return nil, ErrNoteTextRequired
	}

	row, err := c.inspectionRepo.GetByVehicleID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	data := datatypes.JSON(nil)
	var existingNotes []TeamNote
	if row != nil {
		data = row.Data
		if notes, notesErr := row.TeamNotes(); notesErr == nil {
			existingNotes = notes
		}
	}

	note := TeamNote{
		ID:        uuid.New().String(),
		Text:      text,
		Author:    author,
		Category:  category,
		CreatedAt: time.Now(),
	}
	notes := PrependNotes(existingNotes, []TeamNote{note})

	rawNotes, err := json.Marshal(notes)
	if err != nil {
		return nil, log.Err("failed to encode team notes", err, "vehicleID", vehicleID)
	}

	inspection := &VehicleInspection{
		DealershipID: dealershipID,
		VehicleID:    vehicleID,
		Data:         data,
		Notes:        datatypes.JSON(rawNotes),
	}
	if row != nil {
		inspection.ID = row.ID
		inspection.CreatedAt = row.CreatedAt
	}

	if err := c.inspectionRepo.Save(ctx, inspection); err != nil {
		return nil, err
	}

	c.publish(events.NOTE_ADDED, dealershipID, map[string]any{
		"vehicleId": vehicleID.String(),
		"noteId":    note.ID,
	})

	return &note, nil
}

// GetNotes returns the vehicle's team note feed, newest first. A vehicle
// with no inspection row has an empty feed.
func (c *DataController) GetNotes(
	ctx context.Context,
	vehicleID uuid.UUID,
) ([]TeamNote, error) {
	log := c.log.TraceFromContext(ctx).Function("GetNotes")

	row, err := c.inspectionRepo.GetByVehicleID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return []TeamNote{}, nil
	}

	notes, err := row.TeamNotes()
	if err != nil {
		log.Warn("stored team notes unreadable", "vehicleID", vehicleID, "error", err)
		return []TeamNote{}, nil
	}
	return notes, nil
}

// GetChecklist returns the vehicle's denormalized progress record, computing
// and mirroring it on the fly when no record exists yet.
func (c *DataController) GetChecklist(
	ctx context.Context,
	dealershipID, vehicleID uuid.UUID,
) (*VehicleChecklist, error) {
	checklist, err := c.inspectionRepo.GetChecklist(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if checklist != nil {
		return checklist, nil
	}

	doc, err := c.GetData(ctx, dealershipID, vehicleID)
	if err != nil {
		return nil, err
	}

	settings := c.settings.GetSettings(ctx, dealershipID)
	checklist, err = buildChecklist(dealershipID, vehicleID, doc, settings.ActiveSectionKeys())
	if err != nil {
		return nil, err
	}

	// Mirror for the next read; serving the computed record matters more
	// than the mirror landing.
	if upsertErr := c.inspectionRepo.UpsertChecklist(ctx, checklist); upsertErr != nil {
		c.log.TraceFromContext(ctx).Function("GetChecklist").
			Warn("failed to store computed checklist", "vehicleID", vehicleID, "error", upsertErr)
	}

	return checklist, nil
}

func (c *DataController) ListChecklists(
	ctx context.Context,
	dealershipID uuid.UUID,
) ([]*VehicleChecklist, error) {
	return c.inspectionRepo.ListChecklists(ctx, dealershipID)
}

// RebuildChecklists recomputes every vehicle checklist for a dealership from
// the stored inspection documents. Used by the nightly consistency job.
func (c *DataController) RebuildChecklists(ctx context.Context, dealershipID uuid.UUID) (int, error) {
	log := c.log.TraceFromContext(ctx).Function("RebuildChecklists")

	rows, err := c.inspectionRepo.ListByDealership(ctx, dealershipID)
	if err != nil {
		return 0, err
	}

	settings := c.settings.GetSettings(ctx, dealershipID)
	keys := settings.ActiveSectionKeys()

	rebuilt := 0
	for _, row := range rows {
		doc, docErr := row.Document()
		if docErr != nil {
			log.Warn("skipping vehicle with unreadable document", "vehicleID", row.VehicleID, "error", docErr)
			continue
		}

		checklist, buildErr := buildChecklist(dealershipID, row.VehicleID, doc, keys)
		if buildErr != nil {
			log.Warn("failed to build checklist", "vehicleID", row.VehicleID, "error", buildErr)
			continue
		}
		if upsertErr := c.inspectionRepo.UpsertChecklist(ctx, checklist); upsertErr != nil {
			log.Warn("failed to store rebuilt checklist", "vehicleID", row.VehicleID, "error", upsertErr)
			continue
		}
		rebuilt++
	}

	return rebuilt, nil
}

func (c *DataController) refreshChecklist(
	ctx context.Context,
	dealershipID, vehicleID uuid.UUID,
	doc InspectionDocument,
	canonicalKeys []string,
) {
	log := c.log.TraceFromContext(ctx).Function("refreshChecklist")

	checklist, err := buildChecklist(dealershipID, vehicleID, doc, canonicalKeys)
	if err != nil {
		log.Warn("failed to build checklist", "vehicleID", vehicleID, "error", err)
		return
	}
	if err := c.inspectionRepo.UpsertChecklist(ctx, checklist); err != nil {
		log.Warn("checklist refresh failed after save", "vehicleID", vehicleID, "error", err)
	}
}

func (c *DataController) publish(messageType events.MessageType, dealershipID uuid.UUID, data map[string]any) {
	if c.eventBus == nil {
		return
	}
	if err := c.eventBus.PublishDealershipUpdate(messageType, dealershipID, data); err != nil {
		c.log.Function("publish").Warn("failed to publish event", "type", messageType, "error", err)
	}
}

// buildChecklist reduces a document to the denormalized progress record.
func buildChecklist(
	dealershipID, vehicleID uuid.UUID,
	doc InspectionDocument,
	canonicalKeys []string,
) (*VehicleChecklist, error) {
	statuses := SectionStatuses(doc, canonicalKeys)

	completed := 0
	for _, status := range statuses {
		if status == StatusCompleted {
			completed++
		}
	}

	rawStatuses, err := json.Marshal(statuses)
	if err != nil {
		return nil, err
	}

	return &VehicleChecklist{
		DealershipID:      dealershipID,
		VehicleID:         vehicleID,
		Progress:          ComputeProgress(doc, canonicalKeys),
		Badge:             string(ComputeBadge(statuses)),
		SectionsCompleted: completed,
		SectionsTotal:     len(canonicalKeys),
		SectionStatuses:   datatypes.JSON(rawStatuses),
	}, nil
}
