package inspections

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"recondo/internal/logger"
	. "recondo/internal/models"
	"recondo/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SettingsController owns the per-dealership inspection settings document.
// Reads always return a complete, merged document; a dealership with no row
// (or an unreadable one) gets the shipped defaults.
type SettingsController struct {
	settingsRepo repositories.InspectionSettingsRepository
	log          logger.Logger
}

func NewSettingsController(settingsRepo repositories.InspectionSettingsRepository) *SettingsController {
	return &SettingsController{
		settingsRepo: settingsRepo,
		log:          logger.New("settingsController"),
	}
}

// GetSettings returns the merged settings document for the dealership. It
// never returns an error: a missing row or a failed read yields the default
// document so inspection screens always have something to render.
func (c *SettingsController) GetSettings(ctx context.Context, dealershipID uuid.UUID) SettingsDocument {
	log := c.log.TraceFromContext(ctx).Function("GetSettings")

	row, err := c.settingsRepo.GetByDealershipID(ctx, dealershipID)
	if err != nil {
		log.Warn("settings unavailable, serving defaults", "dealershipID", dealershipID, "error", err)
		return DefaultSettingsDocument(dealershipID)
	}
	if row == nil {
		return DefaultSettingsDocument(dealershipID)
	}

	return mergeRow(row)
}

// SaveSettings persists the full document as-is.
func (c *SettingsController) SaveSettings(
	ctx context.Context,
	dealershipID uuid.UUID,
	doc SettingsDocument,
) (SettingsDocument, error) {
	doc.DealershipID = dealershipID.String()
	if err := c.persist(ctx, dealershipID, &doc); err != nil {
		return SettingsDocument{}, err
	}
	return doc, nil
}

// AddSection appends a section with a generated key when none is provided and
// an order slot at the end when none is provided, then re-sorts.
func (c *SettingsController) AddSection(
	ctx context.Context,
	dealershipID uuid.UUID,
	section InspectionSection,
) (SettingsDocument, error) {
	doc := c.GetSettings(ctx, dealershipID)

	if section.Key == "" {
		section.Key = uuid.New().String()
	}
	if doc.FindSection(section.Key) != nil {
		return SettingsDocument{}, fmt.Errorf("section %q already exists", section.Key)
	}
	if section.Order == 0 {
		section.Order = len(doc.Sections) + 1
	}
	if section.Items == nil {
		section.Items = []InspectionItem{}
	}

	doc.Sections = append(doc.Sections, section)
	sortSections(doc.Sections)

	if err := c.persist(ctx, dealershipID, &doc); err != nil {
		return SettingsDocument{}, err
	}
	return doc, nil
}

// UpdateSection merges the provided fields onto the section with the given
// key. Returns (nil, nil) when no such section exists.
func (c *SettingsController) UpdateSection(
	ctx context.Context,
	dealershipID uuid.UUID,
	key string,
	request SectionUpdateRequest,
) (*InspectionSection, error) {
	doc := c.GetSettings(ctx, dealershipID)

	section := doc.FindSection(key)
	if section == nil {
		return nil, nil
	}

	if request.Label != nil {
		section.Label = *request.Label
	}
	if request.Description != nil {
		section.Description = *request.Description
	}
	if request.Icon != nil {
		section.Icon = *request.Icon
	}
	if request.Color != nil {
		section.Color = *request.Color
	}
	if request.IsActive != nil {
		section.IsActive = *request.IsActive
	}
	if request.IsCustomerVisible != nil {
		section.IsCustomerVisible = *request.IsCustomerVisible
	}
	if request.Order != nil {
		section.Order = *request.Order
		sortSections(doc.Sections)
		section = doc.FindSection(key)
	}

	if err := c.persist(ctx, dealershipID, &doc); err != nil {
		return nil, err
	}

	updated := *section
	return &updated, nil
}

// DeleteSection removes the section with the given key. Returns false when
// the key does not exist; nothing is persisted in that case.
func (c *SettingsController) DeleteSection(
	ctx context.Context,
	dealershipID uuid.UUID,
	key string,
) (bool, error) {
	doc := c.GetSettings(ctx, dealershipID)

	index := -1
	for i := range doc.Sections {
		if doc.Sections[i].Key == key {
			index = i
			break
		}
	}
	if index == -1 {
		return false, nil
	}

	doc.Sections = append(doc.Sections[:index], doc.Sections[index+1:]...)

	if err := c.persist(ctx, dealershipID, &doc); err != nil {
		return false, err
	}
	return true, nil
}

// AddItem appends an item to the section, generating an id when none is
// provided and an order slot at the end when none is provided.
func (c *SettingsController) AddItem(
	ctx context.Context,
	dealershipID uuid.UUID,
	sectionKey string,
	item InspectionItem,
) (*InspectionItem, error) {
	doc := c.GetSettings(ctx, dealershipID)

	section := doc.FindSection(sectionKey)
	if section == nil {
		return nil, nil
	}

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Order == 0 {
		item.Order = len(section.Items) + 1
	}

	section.Items = append(section.Items, item)
	sortItems(section.Items)

	if err := c.persist(ctx, dealershipID, &doc); err != nil {
		return nil, err
	}

	added := item
	return &added, nil
}

// UpdateItem merges the provided fields onto the item. Returns (nil, nil)
// when the section or item does not exist.
func (c *SettingsController) UpdateItem(
	ctx context.Context,
	dealershipID uuid.UUID,
	sectionKey, itemID string,
	request ItemUpdateRequest,
) (*InspectionItem, error) {
	doc := c.GetSettings(ctx, dealershipID)

	section := doc.FindSection(sectionKey)
	if section == nil {
		return nil, nil
	}

	var item *InspectionItem
	for i := range section.Items {
		if section.Items[i].ID == itemID {
			item = &section.Items[i]
			break
		}
	}
	if item == nil {
		return nil, nil
	}

	if request.Label != nil {
		item.Label = *request.Label
	}
	if request.Description != nil {
		item.Description = *request.Description
	}
	if request.IsRequired != nil {
		item.IsRequired = *request.IsRequired
	}
	if request.IsActive != nil {
		item.IsActive = *request.IsActive
	}
	if request.Order != nil {
		item.Order = *request.Order
		updated := *item
		sortItems(section.Items)
		if err := c.persist(ctx, dealershipID, &doc); err != nil {
			return nil, err
		}
		return &updated, nil
	}

	updated := *item
	if err := c.persist(ctx, dealershipID, &doc); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteItem removes one item from a section. Returns false when the section
// or item does not exist.
func (c *SettingsController) DeleteItem(
	ctx context.Context,
	dealershipID uuid.UUID,
	sectionKey, itemID string,
) (bool, error) {
	doc := c.GetSettings(ctx, dealershipID)

	section := doc.FindSection(sectionKey)
	if section == nil {
		return false, nil
	}

	index := -1
	for i := range section.Items {
		if section.Items[i].ID == itemID {
			index = i
			break
		}
	}
	if index == -1 {
		return false, nil
	}

	section.Items = append(section.Items[:index], section.Items[index+1:]...)

	if err := c.persist(ctx, dealershipID, &doc); err != nil {
		return false, err
	}
	return true, nil
}

// ReorderItems rewrites each listed item's order to its 1-based position in
// orderedIDs, then re-sorts the section. Ids not present in the section are
// ignored; items not listed keep their current order value.
func (c *SettingsController) ReorderItems(
	ctx context.Context,
	dealershipID uuid.UUID,
	sectionKey string,
	orderedIDs []string,
) (bool, error) {
	doc := c.GetSettings(ctx, dealershipID)

	section := doc.FindSection(sectionKey)
	if section == nil {
		return false, nil
	}

	position := make(map[string]int, len(orderedIDs))
	for i, id := range orderedIDs {
		position[id] = i + 1
	}

	for i := range section.Items {
		if order, ok := position[section.Items[i].ID]; ok {
			section.Items[i].Order = order
		}
	}
	sortItems(section.Items)

	if err := c.persist(ctx, dealershipID, &doc); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateRatingLabel updates the label or color of one canonical rating key.
// Keys are fixed; returns (nil, nil) for an unknown key.
func (c *SettingsController) UpdateRatingLabel(
	ctx context.Context,
	dealershipID uuid.UUID,
	key string,
	request RatingLabelUpdateRequest,
) (*RatingLabel, error) {
	doc := c.GetSettings(ctx, dealershipID)

	var label *RatingLabel
	for i := range doc.RatingLabels {
		if doc.RatingLabels[i].Key == key {
			label = &doc.RatingLabels[i]
			break
		}
	}
	if label == nil {
		return nil, nil
	}

	if request.Label != nil {
		label.Label = *request.Label
	}
	if request.Color != nil {
		label.Color = *request.Color
	}

	if err := c.persist(ctx, dealershipID, &doc); err != nil {
		return nil, err
	}

	updated := *label
	return &updated, nil
}

// UpdateGlobalSettings merges the provided toggles onto the current values.
func (c *SettingsController) UpdateGlobalSettings(
	ctx context.Context,
	dealershipID uuid.UUID,
	request GlobalSettingsUpdateRequest,
) (GlobalSettings, error) {
	doc := c.GetSettings(ctx, dealershipID)

	if request.AutoGenerateTeamNotes != nil {
		doc.GlobalSettings.AutoGenerateTeamNotes = *request.AutoGenerateTeamNotes
	}
	if request.RequireCompletedBeforeSale != nil {
		doc.GlobalSettings.RequireCompletedBeforeSale = *request.RequireCompletedBeforeSale
	}
	if request.ShowInactiveSections != nil {
		doc.GlobalSettings.ShowInactiveSections = *request.ShowInactiveSections
	}

	if err := c.persist(ctx, dealershipID, &doc); err != nil {
		return GlobalSettings{}, err
	}
	return doc.GlobalSettings, nil
}

// UpdateCustomerPdfSettings merges the provided fields onto the current values.
func (c *SettingsController) UpdateCustomerPdfSettings(
	ctx context.Context,
	dealershipID uuid.UUID,
	request CustomerPdfSettingsUpdateRequest,
) (CustomerPdfSettings, error) {
	doc := c.GetSettings(ctx, dealershipID)

	if request.ShowPhotos != nil {
		doc.CustomerPdfSettings.ShowPhotos = *request.ShowPhotos
	}
	if request.ShowComments != nil {
		doc.CustomerPdfSettings.ShowComments = *request.ShowComments
	}
	if request.ShowDetailedRatings != nil {
		doc.CustomerPdfSettings.ShowDetailedRatings = *request.ShowDetailedRatings
	}
	if request.FooterText != nil {
		doc.CustomerPdfSettings.FooterText = *request.FooterText
	}

	if err := c.persist(ctx, dealershipID, &doc); err != nil {
		return CustomerPdfSettings{}, err
	}
	return doc.CustomerPdfSettings, nil
}

// ExportSettings serializes the merged document as indented JSON suitable for
// download and later re-import.
func (c *SettingsController) ExportSettings(ctx context.Context, dealershipID uuid.UUID) ([]byte, error) {
	log := c.log.TraceFromContext(ctx).Function("ExportSettings")

	doc := c.GetSettings(ctx, dealershipID)
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, log.Err("failed to serialize settings export", err, "dealershipID", dealershipID)
	}
	return raw, nil
}

// ImportSettings replaces the dealership's settings with an exported payload.
// The payload must carry all four top-level document keys; anything less is
// rejected before any write happens. The imported document always gets a
// fresh id and timestamps.
func (c *SettingsController) ImportSettings(
	ctx context.Context,
	dealershipID uuid.UUID,
	raw []byte,
) (SettingsDocument, error) {
	log := c.log.TraceFromContext(ctx).Function("ImportSettings")

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return SettingsDocument{}, log.Err("import payload is not a JSON object", err, "dealershipID", dealershipID)
	}

	for _, key := range []string{"sections", "ratingLabels", "globalSettings", "customerPdfSettings"} {
		if _, ok := payload[key]; !ok {
			return SettingsDocument{}, log.ErrMsg(
				fmt.Sprintf("import payload missing required key %q", key),
				"dealershipID", dealershipID,
			)
		}
	}

	var imported struct {
		Sections            []InspectionSection `json:"sections"`
		RatingLabels        []RatingLabel       `json:"ratingLabels"`
		GlobalSettings      GlobalSettings      `json:"globalSettings"`
		CustomerPdfSettings CustomerPdfSettings `json:"customerPdfSettings"`
	}
	if err := json.Unmarshal(raw, &imported); err != nil {
		return SettingsDocument{}, log.Err("import payload has malformed values", err, "dealershipID", dealershipID)
	}

	// Imported fragments go through the same default-merge as reads: partial
	// settings objects keep default values for missing keys, empty lists fall
	// back to the default sections and labels.
	now := time.Now()
	doc := SettingsDocument{
		ID:                  uuid.New().String(),
		DealershipID:        dealershipID.String(),
		Sections:            mergeSections(payload["sections"]),
		RatingLabels:        mergeRatingLabels(payload["ratingLabels"]),
		GlobalSettings:      mergeGlobalSettings(payload["globalSettings"]),
		CustomerPdfSettings: mergeCustomerPdfSettings(payload["customerPdfSettings"]),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	row, err := documentToRow(dealershipID, &doc)
	if err != nil {
		return SettingsDocument{}, log.Err("failed to encode imported settings", err, "dealershipID", dealershipID)
	}
	if err := c.settingsRepo.Replace(ctx, row); err != nil {
		return SettingsDocument{}, err
	}

	return doc, nil
}

// ResetSettings discards the dealership's customizations and reinstates the
// default document under a fresh id.
func (c *SettingsController) ResetSettings(
	ctx context.Context,
	dealershipID uuid.UUID,
) (SettingsDocument, error) {
	log := c.log.TraceFromContext(ctx).Function("ResetSettings")

	doc := DefaultSettingsDocument(dealershipID)

	row, err := documentToRow(dealershipID, &doc)
	if err != nil {
		return SettingsDocument{}, log.Err("failed to encode default settings", err, "dealershipID", dealershipID)
	}
	if err := c.settingsRepo.Replace(ctx, row); err != nil {
		return SettingsDocument{}, err
	}

	return doc, nil
}

func (c *SettingsController) persist(
	ctx context.Context,
	dealershipID uuid.UUID,
	doc *SettingsDocument,
) error {
	log := c.log.TraceFromContext(ctx).Function("persist")

	doc.UpdatedAt = time.Now()

	row, err := documentToRow(dealershipID, doc)
	if err != nil {
		return log.Err("failed to encode settings document", err, "dealershipID", dealershipID)
	}
	if err := c.settingsRepo.Upsert(ctx, row); err != nil {
		return err
	}

	doc.ID = row.ID.String()
	return nil
}

// mergeRow turns a stored row into the fully-merged document, substituting
// defaults for any missing or malformed column.
func mergeRow(row *InspectionSettings) SettingsDocument {
	return SettingsDocument{
		ID:                  row.ID.String(),
		DealershipID:        row.DealershipID.String(),
		Sections:            mergeSections(row.Sections),
		RatingLabels:        mergeRatingLabels(row.RatingLabels),
		GlobalSettings:      mergeGlobalSettings(row.GlobalSettings),
		CustomerPdfSettings: mergeCustomerPdfSettings(row.CustomerPdfSettings),
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}
}

func documentToRow(dealershipID uuid.UUID, doc *SettingsDocument) (*InspectionSettings, error) {
	sections, err := json.Marshal(doc.Sections)
	if err != nil {
		return nil, err
	}
	ratingLabels, err := json.Marshal(doc.RatingLabels)
	if err != nil {
		return nil, err
	}
	globalSettings, err := json.Marshal(doc.GlobalSettings)
	if err != nil {
		return nil, err
	}
	pdfSettings, err := json.Marshal(doc.CustomerPdfSettings)
	if err != nil {
		return nil, err
	}

	row := &InspectionSettings{
		DealershipID:        dealershipID,
		Sections:            datatypes.JSON(sections),
		RatingLabels:        datatypes.JSON(ratingLabels),
		GlobalSettings:      datatypes.JSON(globalSettings),
		CustomerPdfSettings: datatypes.JSON(pdfSettings),
	}
	if id, err := uuid.Parse(doc.ID); err == nil {
		row.ID = id
	}
	return row, nil
}
