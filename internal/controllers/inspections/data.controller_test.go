package inspections

import (
	"context"
	"encoding/json"
	"testing"

	"recondo/internal/events"
	. "recondo/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakeInspectionRepo struct {
	rows         map[uuid.UUID]*VehicleInspection
	checklists   map[uuid.UUID]*VehicleChecklist
	saves        int
	checklistErr error
}

func newFakeInspectionRepo() *fakeInspectionRepo {
	return &fakeInspectionRepo{
		rows:       map[uuid.UUID]*VehicleInspection{},
		checklists: map[uuid.UUID]*VehicleChecklist{},
	}
}

func (f *fakeInspectionRepo) GetByVehicleID(
	_ context.Context,
	vehicleID uuid.UUID,
) (*VehicleInspection, error) {
	row, ok := f.rows[vehicleID]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (f *fakeInspectionRepo) Save(_ context.Context, inspection *VehicleInspection) error {
	f.saves++
	if inspection.ID == uuid.Nil {
		inspection.ID = uuid.New()
	}
	copied := *inspection
	f.rows[inspection.VehicleID] = &copied
	return nil
}

func (f *fakeInspectionRepo) ListByDealership(
	_ context.Context,
	dealershipID uuid.UUID,
) ([]*VehicleInspection, error) {
	var rows []*VehicleInspection
	for _, row := range f.rows {
		if row.DealershipID == dealershipID {
			copied := *row
			rows = append(rows, &copied)
		}
	}
	return rows, nil
}

func (f *fakeInspectionRepo) UpsertChecklist(_ context.Context, checklist *VehicleChecklist) error {
	if f.checklistErr != nil {
		return f.checklistErr
	}
	copied := *checklist
	f.checklists[checklist.VehicleID] = &copied
	return nil
}

func (f *fakeInspectionRepo) GetChecklist(
	_ context.Context,
	vehicleID uuid.UUID,
) (*VehicleChecklist, error) {
	checklist, ok := f.checklists[vehicleID]
	if !ok {
		return nil, nil
	}
	copied := *checklist
	return &copied, nil
}

func (f *fakeInspectionRepo) ListChecklists(
	_ context.Context,
	dealershipID uuid.UUID,
) ([]*VehicleChecklist, error) {
	var checklists []*VehicleChecklist
	for _, checklist := range f.checklists {
		if checklist.DealershipID == dealershipID {
			copied := *checklist
			checklists = append(checklists, &copied)
		}
	}
	return checklists, nil
}

type fakePublisher struct {
	published []events.MessageType
}

func (f *fakePublisher) PublishDealershipUpdate(
	messageType events.MessageType,
	_ uuid.UUID,
	_ map[string]any,
) error {
	f.published = append(f.published, messageType)
	return nil
}

func newDataFixture() (*DataController, *fakeInspectionRepo, *fakePublisher, uuid.UUID, uuid.UUID) {
	inspectionRepo := newFakeInspectionRepo()
	publisher := &fakePublisher{}
	settings := NewSettingsController(&fakeSettingsRepo{})
	controller := NewDataController(inspectionRepo, settings, publisher)
	return controller, inspectionRepo, publisher, uuid.New(), uuid.New()
}

func TestGetDataEmptyShape(t *testing.T) {
	controller, _, _, dealershipID, vehicleID := newDataFixture()

	doc, err := controller.GetData(context.Background(), dealershipID, vehicleID)
	require.NoError(t, err)

	assert.Len(t, doc.Sections, len(DefaultSections()), "one empty list per active section")
	for key, items := range doc.Sections {
		assert.NotNil(t, items, "section %s", key)
		assert.Empty(t, items)
	}
	assert.NotNil(t, doc.CustomSections)
	assert.NotNil(t, doc.SectionNotes)
}

func TestSaveDataFirstSave(t *testing.T) {
	controller, repo, publisher, dealershipID, vehicleID := newDataFixture()
	ctx := context.Background()

	doc := NewInspectionDocument([]string{"brakes"})
	doc.Sections["brakes"] = []RatedItem{
		{ID: "brake-pads", Label: "Brake pad thickness", Rating: RatingFair},
	}

	saved, notes, err := controller.SaveData(ctx, dealershipID, vehicleID, doc, "KD")
	require.NoError(t, err)

	assert.Equal(t, doc.Sections, saved.Sections)
	require.Len(t, notes, 1)
	assert.Equal(t, "Brake pad thickness rated as Fair", notes[0].Text)
	assert.Equal(t, "KD", notes[0].Author)

	assert.Equal(t, 1, repo.saves, "data and notes land in one write")
	assert.Contains(t, publisher.published, events.INSPECTION_UPDATED)

	row := repo.rows[vehicleID]
	require.NotNil(t, row)
	storedNotes, err := row.TeamNotes()
	require.NoError(t, err)
	assert.Len(t, storedNotes, 1, "notes persisted on the same row as the data")
}

func TestSaveDataReconcilesAgainstStored(t *testing.T) {
	controller, _, _, dealershipID, vehicleID := newDataFixture()
	ctx := context.Background()

	first := NewInspectionDocument([]string{"brakes"})
	first.Sections["brakes"] = []RatedItem{
		{ID: "brake-pads", Label: "Brake pad thickness", Rating: RatingFair},
	}
	_, _, err := controller.SaveData(ctx, dealershipID, vehicleID, first, "KD")
	require.NoError(t, err)

	second := NewInspectionDocument([]string{"brakes"})
	second.Sections["brakes"] = []RatedItem{
		{ID: "brake-pads", Label: "Brake pad thickness", Rating: RatingGreat},
	}
	_, notes, err := controller.SaveData(ctx, dealershipID, vehicleID, second, "MB")
	require.NoError(t, err)

	require.Len(t, notes, 2, "fresh note prepended ahead of the existing one")
	assert.Equal(t, "Brake pad thickness changed from Fair to Great", notes[0].Text)
	assert.Equal(t, "MB", notes[0].Author)
	assert.Equal(t, "Brake pad thickness rated as Fair", notes[1].Text)
}

func TestSaveDataLastWriteWins(t *testing.T) {
	controller, repo, _, dealershipID, vehicleID := newDataFixture()
	ctx := context.Background()

	first := NewInspectionDocument([]string{"brakes", "tires"})
	first.Sections["brakes"] = []RatedItem{{ID: "brake-pads", Rating: RatingGreat}}
	first.Sections["tires"] = []RatedItem{{ID: "tread-depth", Rating: RatingGreat}}
	_, _, err := controller.SaveData(ctx, dealershipID, vehicleID, first, "KD")
	require.NoError(t, err)

	second := NewInspectionDocument([]string{"brakes"})
	second.Sections["brakes"] = []RatedItem{{ID: "brake-pads", Rating: RatingFair}}
	_, _, err = controller.SaveData(ctx, dealershipID, vehicleID, second, "MB")
	require.NoError(t, err)

	stored, err := repo.rows[vehicleID].Document()
	require.NoError(t, err)
	assert.NotContains(t, stored.Sections, "tires", "the whole document is replaced")
	assert.Equal(t, RatingFair, stored.Sections["brakes"][0].Rating)
}

func TestSaveDataSkipsNotesWhenDisabled(t *testing.T) {
	inspectionRepo := newFakeInspectionRepo()
	settingsRepo := &fakeSettingsRepo{
		row: &InspectionSettings{
			GlobalSettings: datatypes.JSON(`{"autoGenerateTeamNotes": false}`),
		},
	}
	controller := NewDataController(inspectionRepo, NewSettingsController(settingsRepo), nil)

	doc := NewInspectionDocument([]string{"brakes"})
	doc.Sections["brakes"] = []RatedItem{{ID: "brake-pads", Rating: RatingFair}}

	_, notes, err := controller.SaveData(context.Background(), uuid.New(), uuid.New(), doc, "KD")
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestSaveDataRefreshesChecklist(t *testing.T) {
	controller, repo, _, dealershipID, vehicleID := newDataFixture()
	ctx := context.Background()

	keys := DefaultSettingsDocument(dealershipID).ActiveSectionKeys()
	doc := NewInspectionDocument(keys)
	doc.Sections["brakes"] = []RatedItem{
		{ID: "brake-pads", Rating: RatingGreat},
		{ID: "rotors", Rating: RatingGreat},
	}

	_, _, err := controller.SaveData(ctx, dealershipID, vehicleID, doc, "KD")
	require.NoError(t, err)

	checklist := repo.checklists[vehicleID]
	require.NotNil(t, checklist)
	assert.Equal(t, 13, checklist.Progress, "1 of 8 sections rounds to 13")
	assert.Equal(t, 1, checklist.SectionsCompleted)
	assert.Equal(t, len(keys), checklist.SectionsTotal)
	assert.Equal(t, string(BadgeNotStarted), checklist.Badge)
}

func TestSaveDataSurvivesChecklistFailure(t *testing.T) {
	controller, repo, _, dealershipID, vehicleID := newDataFixture()
	repo.checklistErr = assert.AnError

	doc := NewInspectionDocument([]string{"brakes"})
	doc.Sections["brakes"] = []RatedItem{{ID: "brake-pads", Rating: RatingGreat}}

	_, _, err := controller.SaveData(context.Background(), dealershipID, vehicleID, doc, "KD")

	assert.NoError(t, err, "checklist mirror is best-effort")
	assert.Equal(t, 1, repo.saves)
}

func TestSaveDataTranslatesRatingSynonyms(t *testing.T) {
	controller, repo, _, dealershipID, vehicleID := newDataFixture()
	ctx := context.Background()

	payload := []byte(`{
		"emissions": [
			{"id": "obd-codes", "label": "OBD-II codes", "rating": "great"},
			{"id": "evap", "label": "EVAP system", "rating": "great"}
		],
		"customSections": {},
		"sectionNotes": {}
	}`)
	var doc InspectionDocument
	require.NoError(t, json.Unmarshal(payload, &doc))

	saved, notes, err := controller.SaveData(ctx, dealershipID, vehicleID, doc, "KD")
	require.NoError(t, err)

	assert.Equal(t, RatingGreat, saved.Sections["emissions"][0].Rating)
	assert.Equal(t, RatingGreat, saved.Sections["emissions"][1].Rating)

	stored, err := repo.rows[vehicleID].Document()
	require.NoError(t, err)
	assert.Equal(t, RatingGreat, stored.Sections["emissions"][0].Rating, "synonyms never persisted")

	require.Len(t, notes, 2)
	assert.Equal(t, "OBD-II codes rated as Great", notes[0].Text)
	assert.Equal(t, "EVAP system rated as Great", notes[1].Text)

	checklist := repo.checklists[vehicleID]
	require.NotNil(t, checklist)
	assert.Equal(t, 1, checklist.SectionsCompleted, "fully synonym-rated section counts as completed")
}

func TestAddNote(t *testing.T) {
	controller, repo, publisher, dealershipID, vehicleID := newDataFixture()
	ctx := context.Background()

	doc := NewInspectionDocument([]string{"brakes"})
	doc.Sections["brakes"] = []RatedItem{{ID: "brake-pads", Rating: RatingFair}}
	_, _, err := controller.SaveData(ctx, dealershipID, vehicleID, doc, "KD")
	require.NoError(t, err)

	note, err := controller.AddNote(ctx, dealershipID, vehicleID, "Waiting on parts", "MB", "brakes")
	require.NoError(t, err)
	require.NotNil(t, note)

	notes, err := controller.GetNotes(ctx, vehicleID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "Waiting on parts", notes[0].Text, "manual note lands newest-first")
	assert.Contains(t, publisher.published, events.NOTE_ADDED)

	stored, err := repo.rows[vehicleID].Document()
	require.NoError(t, err)
	assert.Equal(t, RatingFair, stored.Sections["brakes"][0].Rating, "data untouched by note append")
}

func TestAddNoteRequiresText(t *testing.T) {
	controller, repo, _, dealershipID, vehicleID := newDataFixture()

	note, err := controller.AddNote(context.Background(), dealershipID, vehicleID, "", "MB", "")

	assert.ErrorIs(t, err, ErrNoteTextRequired)
	assert.Nil(t, note)
	assert.Equal(t, 0, repo.saves)
}

func TestAddNoteBeforeAnyInspection(t *testing.T) {
	controller, _, _, dealershipID, vehicleID := newDataFixture()
	ctx := context.Background()

	note, err := controller.AddNote(ctx, dealershipID, vehicleID, "Fresh arrival", "KD", "")
	require.NoError(t, err)
	require.NotNil(t, note)

	notes, err := controller.GetNotes(ctx, vehicleID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Fresh arrival", notes[0].Text)
}

func TestGetNotesEmptyWithoutRow(t *testing.T) {
	controller, _, _, _, vehicleID := newDataFixture()

	notes, err := controller.GetNotes(context.Background(), vehicleID)

	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.NotNil(t, notes)
}

func TestGetChecklistComputesWhenMissing(t *testing.T) {
	controller, repo, _, dealershipID, vehicleID := newDataFixture()
	ctx := context.Background()

	doc := NewInspectionDocument([]string{"brakes"})
	doc.Sections["brakes"] = []RatedItem{{ID: "brake-pads", Rating: RatingGreat}}
	_, _, err := controller.SaveData(ctx, dealershipID, vehicleID, doc, "KD")
	require.NoError(t, err)

	// Drop the mirror to force recomputation from the document.
	delete(repo.checklists, vehicleID)

	checklist, err := controller.GetChecklist(ctx, dealershipID, vehicleID)
	require.NoError(t, err)
	require.NotNil(t, checklist)
	assert.Equal(t, 1, checklist.SectionsCompleted)
	assert.Contains(t, repo.checklists, vehicleID, "computed record is mirrored back")
}

func TestRebuildChecklists(t *testing.T) {
	controller, repo, _, dealershipID, _ := newDataFixture()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		vehicleID := uuid.New()
		doc := NewInspectionDocument([]string{"brakes"})
		doc.Sections["brakes"] = []RatedItem{{ID: "brake-pads", Rating: RatingGreat}}
		_, _, err := controller.SaveData(ctx, dealershipID, vehicleID, doc, "KD")
		require.NoError(t, err)
	}
	repo.checklists = map[uuid.UUID]*VehicleChecklist{}

	rebuilt, err := controller.RebuildChecklists(ctx, dealershipID)

	require.NoError(t, err)
	assert.Equal(t, 3, rebuilt)
	assert.Len(t, repo.checklists, 3)
}
