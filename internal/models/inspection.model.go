package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Rating is the wire/storage code for an inspection item rating.
type Rating string

const (
	RatingGreat          Rating = "G"
	RatingFair           Rating = "F"
	RatingNeedsAttention Rating = "N"
	RatingNotChecked     Rating = "not-checked"
)

// DisplayLabel translates a wire code to its display label. Unknown codes
// pass through; empty defaults to Not Checked.
func (r Rating) DisplayLabel() string {
	switch r {
	case RatingGreat:
		return "Great"
	case RatingFair:
		return "Fair"
	case RatingNeedsAttention:
		return "Needs Attention"
	case RatingNotChecked:
		return "Not Checked"
	case "":
		return "Not Checked"
	default:
		return string(r)
	}
}

// NormalizeRating maps UI-facing synonyms to wire codes. Wire codes pass
// through unchanged; empty input normalizes to not-checked.
func NormalizeRating(s string) Rating {
	switch s {
	case "great":
		return RatingGreat
	case "fair":
		return RatingFair
	case "needs-attention":
		return RatingNeedsAttention
	case "", "not-checked":
		return RatingNotChecked
	default:
		return Rating(s)
	}
}

// Reserved top-level keys in an inspection document that are not section
// item lists.
const (
	CustomSectionsKey = "customSections"
	SectionNotesKey   = "sectionNotes"
)

// RatedItem is one checklist item inside a section of a vehicle's
// inspection document.
type RatedItem struct {
	ID        string     `json:"id"`
	Label     string     `json:"label,omitempty"`
	Rating    Rating     `json:"rating"`
	UpdatedBy string     `json:"updatedBy,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// InspectionDocument is the per-vehicle inspection data document. On the
// wire it is a single JSON object keyed by section key, with the reserved
// customSections and sectionNotes maps flattened at the same level.
type InspectionDocument struct {
	Sections       map[string][]RatedItem
	CustomSections map[string]json.RawMessage
	SectionNotes   map[string]string
}

// NewInspectionDocument returns the canonical empty-data shape: empty
// reserved maps plus an empty item list per provided section key.
func NewInspectionDocument(sectionKeys []string) InspectionDocument {
	doc := InspectionDocument{
		Sections:       make(map[string][]RatedItem, len(sectionKeys)),
		CustomSections: map[string]json.RawMessage{},
		SectionNotes:   map[string]string{},
	}
	for _, key := range sectionKeys {
		doc.Sections[key] = []RatedItem{}
	}
	return doc
}

// Normalize guarantees the reserved maps are present so consumers never
// branch on nil, and translates every item rating to its wire code so
// synonyms never reach comparison or storage.
func (d *InspectionDocument) Normalize() {
	if d.Sections == nil {
		d.Sections = map[string][]RatedItem{}
	}
	if d.CustomSections == nil {
		d.CustomSections = map[string]json.RawMessage{}
	}
	if d.SectionNotes == nil {
		d.SectionNotes = map[string]string{}
	}
	for _, items := range d.Sections {
		for i := range items {
			items[i].Rating = NormalizeRating(string(items[i].Rating))
		}
	}
}

func (d InspectionDocument) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.Sections)+2)

	for key, items := range d.Sections {
		if key == CustomSectionsKey || key == SectionNotesKey {
			continue
		}
		if items == nil {
			items = []RatedItem{}
		}
		raw, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		out[key] = raw
	}

	customSections := d.CustomSections
	if customSections == nil {
		customSections = map[string]json.RawMessage{}
	}
	rawCustom, err := json.Marshal(customSections)
	if err != nil {
		return nil, err
	}
	out[CustomSectionsKey] = rawCustom

	sectionNotes := d.SectionNotes
	if sectionNotes == nil {
		sectionNotes = map[string]string{}
	}
	rawNotes, err := json.Marshal(sectionNotes)
	if err != nil {
		return nil, err
	}
	out[SectionNotesKey] = rawNotes

	return json.Marshal(out)
}

func (d *InspectionDocument) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	doc := InspectionDocument{
		Sections:       make(map[string][]RatedItem, len(raw)),
		CustomSections: map[string]json.RawMessage{},
		SectionNotes:   map[string]string{},
	}

	for key, value := range raw {
		switch key {
		case CustomSectionsKey:
			if err := json.Unmarshal(value, &doc.CustomSections); err != nil {
				return fmt.Errorf("invalid %s: %w", CustomSectionsKey, err)
			}
		case SectionNotesKey:
			if err := json.Unmarshal(value, &doc.SectionNotes); err != nil {
				return fmt.Errorf("invalid %s: %w", SectionNotesKey, err)
			}
		default:
			var items []RatedItem
			if err := json.Unmarshal(value, &items); err != nil {
				return fmt.Errorf("invalid section %q: %w", key, err)
			}
			if items == nil {
				items = []RatedItem{}
			}
			doc.Sections[key] = items
		}
	}

	doc.Normalize()
	*d = doc
	return nil
}

// TeamNote is one audit entry on a vehicle, either generated by the
// rating-change reconciler or added manually. Notes are kept newest-first.
type TeamNote struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// VehicleInspection is the stored per-vehicle inspection row. Data holds
// the full inspection document and Notes the newest-first team note list;
// both live on one row so a save lands them in the same write.
type VehicleInspection struct {
	BaseUUIDModel
	DealershipID uuid.UUID      `gorm:"type:uuid;not null;index"       json:"dealershipId"`
	VehicleID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"vehicleId"`
	Data         datatypes.JSON `gorm:"type:jsonb"                     json:"data"`
	Notes        datatypes.JSON `gorm:"type:jsonb"                     json:"notes"`
}

// Document decodes the stored inspection document, returning the canonical
// empty shape when the column is empty.
func (vi *VehicleInspection) Document() (InspectionDocument, error) {
	if len(vi.Data) == 0 {
		return NewInspectionDocument(nil), nil
	}
	var doc InspectionDocument
	if err := json.Unmarshal(vi.Data, &doc); err != nil {
		return NewInspectionDocument(nil), err
	}
	return doc, nil
}

// TeamNotes decodes the stored note list; empty column yields an empty list.
func (vi *VehicleInspection) TeamNotes() ([]TeamNote, error) {
	if len(vi.Notes) == 0 {
		return []TeamNote{}, nil
	}
	var notes []TeamNote
	if err := json.Unmarshal(vi.Notes, &notes); err != nil {
		return []TeamNote{}, err
	}
	return notes, nil
}

// VehicleChecklist is the denormalized per-vehicle progress record, upserted
// best-effort alongside inspection writes and rebuilt nightly.
type VehicleChecklist struct {
	BaseUUIDModel
	DealershipID      uuid.UUID      `gorm:"type:uuid;not null;index"       json:"dealershipId"`
	VehicleID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"vehicleId"`
	Progress          int            `gorm:"type:int;default:0"             json:"progress"`
	Badge             string         `gorm:"type:text"                      json:"badge"`
	SectionsCompleted int            `gorm:"type:int;default:0"             json:"sectionsCompleted"`
	SectionsTotal     int            `gorm:"type:int;default:0"             json:"sectionsTotal"`
	SectionStatuses   datatypes.JSON `gorm:"type:jsonb"                     json:"sectionStatuses"`
}
