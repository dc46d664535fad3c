package inspections

import (
	"context"
	"errors"
	"testing"

	. "recondo/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettingsRepo struct {
	row      *InspectionSettings
	getErr   error
	saveErr  error
	upserts  int
	replaces int
}

func (f *fakeSettingsRepo) GetByDealershipID(
	_ context.Context,
	_ uuid.UUID,
) (*InspectionSettings, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.row == nil {
		return nil, nil
	}
	row := *f.row
	return &row, nil
}

func (f *fakeSettingsRepo) Upsert(_ context.Context, settings *InspectionSettings) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.upserts++
	if f.row != nil {
		settings.ID = f.row.ID
		settings.CreatedAt = f.row.CreatedAt
	}
	if settings.ID == uuid.Nil {
		settings.ID = uuid.New()
	}
	row := *settings
	f.row = &row
	return nil
}

func (f *fakeSettingsRepo) Replace(_ context.Context, settings *InspectionSettings) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.replaces++
	if settings.ID == uuid.Nil {
		settings.ID = uuid.New()
	}
	row := *settings
	f.row = &row
	return nil
}

func newSettingsFixture() (*SettingsController, *fakeSettingsRepo, uuid.UUID) {
	repo := &fakeSettingsRepo{}
	return NewSettingsController(repo), repo, uuid.New()
}

func TestGetSettingsDefaultsWhenAbsent(t *testing.T) {
	controller, _, dealershipID := newSettingsFixture()

	doc := controller.GetSettings(context.Background(), dealershipID)

	assert.Equal(t, DefaultSections(), doc.Sections)
	assert.Equal(t, DefaultRatingLabels(), doc.RatingLabels)
	assert.Equal(t, DefaultGlobalSettings(), doc.GlobalSettings)
	assert.Equal(t, DefaultCustomerPdfSettings(), doc.CustomerPdfSettings)
	assert.Equal(t, dealershipID.String(), doc.DealershipID)
}

func TestGetSettingsDefaultsWhenReadFails(t *testing.T) {
	controller, repo, dealershipID := newSettingsFixture()
	repo.getErr = errors.New("connection refused")

	doc := controller.GetSettings(context.Background(), dealershipID)

	assert.Equal(t, DefaultSections(), doc.Sections)
	assert.Len(t, doc.RatingLabels, 4)
}

func TestGetSettingsIdempotent(t *testing.T) {
	controller, repo, dealershipID := newSettingsFixture()

	saved, err := controller.SaveSettings(
		context.Background(),
		dealershipID,
		DefaultSettingsDocument(dealershipID),
	)
	require.NoError(t, err)
	require.Equal(t, 1, repo.upserts)

	first := controller.GetSettings(context.Background(), dealershipID)
	second := controller.GetSettings(context.Background(), dealershipID)

	assert.Equal(t, first, second)
	assert.Equal(t, saved.ID, first.ID)
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	controller, _, dealershipID := newSettingsFixture()
	ctx := context.Background()

	doc := DefaultSettingsDocument(dealershipID)
	doc.Sections[0].Label = "Powertrain"
	doc.GlobalSettings.AutoGenerateTeamNotes = false

	_, err := controller.SaveSettings(ctx, dealershipID, doc)
	require.NoError(t, err)

	loaded := controller.GetSettings(ctx, dealershipID)
	assert.Equal(t, "Powertrain", loaded.Sections[0].Label)
	assert.False(t, loaded.GlobalSettings.AutoGenerateTeamNotes)
}

func TestAddSection(t *testing.T) {
	controller, _, dealershipID := newSettingsFixture()
	ctx := context.Background()

	doc, err := controller.AddSection(ctx, dealershipID, InspectionSection{
		Label:    "Detailing",
		IsActive: true,
	})
	require.NoError(t, err)

	added := doc.Sections[len(doc.Sections)-1]
	assert.Equal(t, "Detailing", added.Label)
	assert.NotEmpty(t, added.Key, "missing key is generated")
	assert.Equal(t, len(DefaultSections())+1, added.Order, "missing order slots at the end")
	assert.NotNil(t, added.Items)

	loaded := controller.GetSettings(ctx, dealershipID)
	assert.NotNil(t, loaded.FindSection(added.Key))
}

func TestAddSectionDuplicateKey(t *testing.T) {
	controller, repo, dealershipID := newSettingsFixture()

	_, err := controller.AddSection(context.Background(), dealershipID, InspectionSection{
		Key:   "brakes",
		Label: "Brakes again",
	})

	assert.Error(t, err)
	assert.Equal(t, 0, repo.upserts)
}

func TestUpdateSection(t *testing.T) {
	controller, _, dealershipID := newSettingsFixture()
	ctx := context.Background()

	label := "Brakes and Chassis"
	active := false
	section, err := controller.UpdateSection(ctx, dealershipID, "brakes", SectionUpdateRequest{
		Label:    &label,
		IsActive: &active,
	})
	require.NoError(t, err)
	require.NotNil(t, section)

	assert.Equal(t, "Brakes and Chassis", section.Label)
	assert.False(t, section.IsActive)

	loaded := controller.GetSettings(ctx, dealershipID)
	assert.Equal(t, "Brakes and Chassis", loaded.FindSection("brakes").Label)
	assert.Equal(t, "Mechanical", loaded.FindSection("mechanical").Label, "other sections untouched")
}

func TestUpdateSectionReorders(t *testing.T) {
	controller, _, dealershipID := newSettingsFixture()
	ctx := context.Background()

	order := 0
	_, err := controller.UpdateSection(ctx, dealershipID, "road-test", SectionUpdateRequest{
		Order: &order,
	})
	require.NoError(t, err)

	loaded := controller.GetSettings(ctx, dealershipID)
	assert.Equal(t, "road-test", loaded.Sections[0].Key)
}

func TestUpdateSectionUnknownKey(t *testing.T) {
	controller, repo, dealershipID := newSettingsFixture()

	section, err := controller.UpdateSection(
		context.Background(), dealershipID, "no-such-section", SectionUpdateRequest{},
	)

	assert.NoError(t, err)
	assert.Nil(t, section)
	assert.Equal(t, 0, repo.upserts)
}

func TestDeleteSection(t *testing.T) {
	controller, _, dealershipID := newSettingsFixture()
	ctx := context.Background()

	deleted, err := controller.DeleteSection(ctx, dealershipID, "emissions")
	require.NoError(t, err)
	assert.True(t, deleted)

	loaded := controller.GetSettings(ctx, dealershipID)
	assert.Nil(t, loaded.FindSection("emissions"))
	assert.Len(t, loaded.Sections, len(DefaultSections())-1)
}

func TestDeleteSectionNonexistent(t *testing.T) {
	controller, repo, dealershipID := newSettingsFixture()

	deleted, err := controller.DeleteSection(context.Background(), dealershipID, "no-such-section")

	assert.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, 0, repo.upserts, "nothing persisted for a miss")
}

func TestAddItem(t *testing.T) {
	controller, _, dealershipID := newSettingsFixture()
	ctx := context.Background()

	item, err := controller.AddItem(ctx, dealershipID, "tires", InspectionItem{
		Label:    "Spare tire present",
		IsActive: true,
	})
	require.NoError(t, err)
	require.NotNil(t, item)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, 4, item.Order, "defaults slot after existing items")

	loaded := controller.GetSettings(ctx, dealershipID)
	items := loaded.FindSection("tires").Items
	assert.Equal(t, item.ID, items[len(items)-1].ID)
}

func TestAddItemUnknownSection(t *testing.T) {
	controller, _, dealershipID := newSettingsFixture()

	item, err := controller.AddItem(context.Background(), dealershipID, "no-such-section", InspectionItem{})

	assert.NoError(t, err)
	assert.Nil(t, item)
}

func TestUpdateItem(t *testing.T) {
	controller, _, dealershipID := newSettingsFixture()
	ctx := context.Background()

	required := false
	item, err := controller.UpdateItem(ctx, dealershipID, "tires", "tread-depth", ItemUpdateRequest{
		IsRequired: &required,
	})
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.False(t, item.IsRequired)

	missing, err := controller.UpdateItem(ctx, dealershipID, "tires", "no-such-item", ItemUpdateRequest{})
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeleteItem(t *testing.T) {
	controller, _, dealershipID := newSettingsFixture()
	ctx := context.Background()

	deleted, err := controller.DeleteItem(ctx, dealershipID, "tires", "tire-wear")
	require.NoError(t, err)
	assert.True(t, deleted)

	loaded := controller.GetSettings(ctx, dealershipID)
	for _, item := range loaded.FindSection("tires").Items {
		assert.NotEqual(t, "tire-wear", item.ID)
	}

	deleted, err = controller.DeleteItem(ctx, dealershipID, "tires", "tire-wear")
	assert.NoError(t, err)
	assert.False(t, deleted)
}

func TestReorderItems(t *testing.T) {
	controller, _, dealershipID := newSettingsFixture()
	ctx := context.Background()

	ok, err := controller.ReorderItems(ctx, dealershipID, "tires", []string{
		"wheel-condition", "tread-depth", "tire-wear",
	})
	require.NoError(t, err)
	assert.True(t, ok)

	loaded := controller.GetSettings(ctx, dealershipID)
	items := loaded.FindSection("tires").Items

	require.Len(t, items, 3)
	assert.Equal(t, "wheel-condition", items[0].ID)
	assert.Equal(t, 1, items[0].Order)
	assert.Equal(t, "tread-depth", items[1].ID)
	assert.Equal(t, 2, items[1].Order)
	assert.Equal(t, "tire-wear", items[2].ID)
	assert.Equal(t, 3, items[2].Order)
}

func TestReorderItemsUnknownSection(t *testing.T) {
	controller, _, dealershipID := newSettingsFixture()

	ok, err := controller.ReorderItems(context.Background(), dealershipID, "no-such-section", nil)

	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateRatingLabel(t *testing.T) {
	controller, _, dealershipID := newSettingsFixture()
	ctx := context.Background()

	text := "Excellent"
	label, err := controller.UpdateRatingLabel(ctx, dealershipID, RatingKeyGreat, RatingLabelUpdateRequest{
		Label: &text,
	})
	require.NoError(t, err)
	require.NotNil(t, label)
	assert.Equal(t, "Excellent", label.Label)
	assert.Equal(t, RatingKeyGreat, label.Key)

	loaded := controller.GetSettings(ctx, dealershipID)
	assert.Equal(t, "Excellent", loaded.RatingLabels[0].Label)
	assert.Len(t, loaded.RatingLabels, 4, "canonical key set never changes")
}

func TestUpdateRatingLabelUnknownKey(t *testing.T) {
	controller, _, dealershipID := newSettingsFixture()

	label, err := controller.UpdateRatingLabel(
		context.Background(), dealershipID, "amazing", RatingLabelUpdateRequest{},
	)

	assert.NoError(t, err)
	assert.Nil(t, label)
}

func TestUpdateGlobalSettingsPartial(t *testing.T) {
	controller, _, dealershipID := newSettingsFixture()
	ctx := context.Background()

	disabled := false
	settings, err := controller.UpdateGlobalSettings(ctx, dealershipID, GlobalSettingsUpdateRequest{
		AutoGenerateTeamNotes: &disabled,
	})
	require.NoError(t, err)

	assert.False(t, settings.AutoGenerateTeamNotes)
	assert.True(t, settings.RequireCompletedBeforeSale, "untouched field keeps its value")
}

func TestUpdateCustomerPdfSettingsPartial(t *testing.T) {
	controller, _, dealershipID := newSettingsFixture()
	ctx := context.Background()

	footer := "Serviced by Main Street Motors"
	settings, err := controller.UpdateCustomerPdfSettings(ctx, dealershipID, CustomerPdfSettingsUpdateRequest{
		FooterText: &footer,
	})
	require.NoError(t, err)

	assert.Equal(t, footer, settings.FooterText)
	assert.True(t, settings.ShowPhotos)
}

func TestExportImportRoundTrip(t *testing.T) {
	controller, _, dealershipID := newSettingsFixture()
	ctx := context.Background()

	label := "Brakes Deluxe"
	_, err := controller.UpdateSection(ctx, dealershipID, "brakes", SectionUpdateRequest{Label: &label})
	require.NoError(t, err)

	exported, err := controller.ExportSettings(ctx, dealershipID)
	require.NoError(t, err)

	before := controller.GetSettings(ctx, dealershipID)

	imported, err := controller.ImportSettings(ctx, dealershipID, exported)
	require.NoError(t, err)

	assert.Equal(t, before.Sections, imported.Sections)
	assert.Equal(t, before.RatingLabels, imported.RatingLabels)
	assert.Equal(t, before.GlobalSettings, imported.GlobalSettings)
	assert.Equal(t, before.CustomerPdfSettings, imported.CustomerPdfSettings)
	assert.NotEqual(t, before.ID, imported.ID, "import never reuses the previous settings id")
}

func TestImportSettingsMergesDefaults(t *testing.T) {
	controller, _, dealershipID := newSettingsFixture()
	ctx := context.Background()

	// All four keys present but sparse: empty lists and partial objects
	payload := []byte(`{
		"sections": [],
		"ratingLabels": [],
		"globalSettings": {"autoGenerateTeamNotes": true},
		"customerPdfSettings": {"showPhotos": true}
	}`)

	imported, err := controller.ImportSettings(ctx, dealershipID, payload)
	require.NoError(t, err)

	defaults := DefaultSettingsDocument(dealershipID)
	assert.Equal(t, defaults.Sections, imported.Sections, "empty section list falls back to defaults")
	assert.Equal(t, defaults.RatingLabels, imported.RatingLabels)
	assert.True(t, imported.GlobalSettings.RequireCompletedBeforeSale, "missing flags keep their defaults")
	assert.Equal(t, defaults.CustomerPdfSettings.FooterText, imported.CustomerPdfSettings.FooterText)
}

func TestImportSettingsMissingKey(t *testing.T) {
	controller, repo, dealershipID := newSettingsFixture()

	payload := []byte(`{"sections": [], "ratingLabels": [], "globalSettings": {}}`)

	_, err := controller.ImportSettings(context.Background(), dealershipID, payload)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "customerPdfSettings")
	assert.Equal(t, 0, repo.replaces, "nothing persisted on a rejected import")
}

func TestImportSettingsNotAnObject(t *testing.T) {
	controller, repo, dealershipID := newSettingsFixture()

	_, err := controller.ImportSettings(context.Background(), dealershipID, []byte(`[1, 2, 3]`))

	assert.Error(t, err)
	assert.Equal(t, 0, repo.replaces)
}

func TestResetSettings(t *testing.T) {
	controller, repo, dealershipID := newSettingsFixture()
	ctx := context.Background()

	label := "Custom"
	_, err := controller.UpdateSection(ctx, dealershipID, "brakes", SectionUpdateRequest{Label: &label})
	require.NoError(t, err)
	customized := controller.GetSettings(ctx, dealershipID)

	reset, err := controller.ResetSettings(ctx, dealershipID)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.replaces)
	assert.Equal(t, DefaultSections(), reset.Sections)
	assert.NotEqual(t, customized.ID, reset.ID)

	loaded := controller.GetSettings(ctx, dealershipID)
	assert.Equal(t, "Brakes & Suspension", loaded.FindSection("brakes").Label)
}
