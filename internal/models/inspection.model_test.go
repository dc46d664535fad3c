package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRating(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Rating
	}{
		{name: "Synonym great", input: "great", expected: RatingGreat},
		{name: "Synonym fair", input: "fair", expected: RatingFair},
		{name: "Synonym needs-attention", input: "needs-attention", expected: RatingNeedsAttention},
		{name: "Wire code passes through", input: "G", expected: RatingGreat},
		{name: "Not checked passes through", input: "not-checked", expected: RatingNotChecked},
		{name: "Empty normalizes to not-checked", input: "", expected: RatingNotChecked},
		{name: "Unknown passes through", input: "X", expected: Rating("X")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeRating(tt.input))
		})
	}
}

func TestInspectionDocumentUnmarshalNormalizesRatings(t *testing.T) {
	payload := []byte(`{
		"emissions": [
			{"id": "obd-codes", "label": "OBD-II codes", "rating": "great"},
			{"id": "evap", "rating": "fair"},
			{"id": "catalytic", "rating": "needs-attention"},
			{"id": "egr", "rating": ""}
		],
		"customSections": {},
		"sectionNotes": {}
	}`)

	var doc InspectionDocument
	require.NoError(t, json.Unmarshal(payload, &doc))

	items := doc.Sections["emissions"]
	require.Len(t, items, 4)
	assert.Equal(t, RatingGreat, items[0].Rating)
	assert.Equal(t, RatingFair, items[1].Rating)
	assert.Equal(t, RatingNeedsAttention, items[2].Rating)
	assert.Equal(t, RatingNotChecked, items[3].Rating)

	// Synonyms never survive a round trip to storage
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"great"`)
	assert.Contains(t, string(raw), `"G"`)
}

func TestRatingDisplayLabel(t *testing.T) {
	assert.Equal(t, "Great", RatingGreat.DisplayLabel())
	assert.Equal(t, "Fair", RatingFair.DisplayLabel())
	assert.Equal(t, "Needs Attention", RatingNeedsAttention.DisplayLabel())
	assert.Equal(t, "Not Checked", RatingNotChecked.DisplayLabel())
	assert.Equal(t, "Not Checked", Rating("").DisplayLabel())
	assert.Equal(t, "X", Rating("X").DisplayLabel(), "unknown codes pass through")
}

func TestInspectionDocumentWireShape(t *testing.T) {
	doc := NewInspectionDocument([]string{"brakes"})
	doc.Sections["brakes"] = []RatedItem{{ID: "brake-pads", Rating: RatingGreat}}
	doc.SectionNotes["brakes"] = "Pads replaced"
	doc.CustomSections["detailing"] = json.RawMessage(`{"label": "Detailing"}`)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	// Reserved keys are flattened to the same level as section keys.
	var wire map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.Contains(t, wire, "brakes")
	assert.Contains(t, wire, CustomSectionsKey)
	assert.Contains(t, wire, SectionNotesKey)

	var decoded InspectionDocument
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, doc.Sections, decoded.Sections)
	assert.Equal(t, doc.SectionNotes, decoded.SectionNotes)
	assert.JSONEq(t, `{"label": "Detailing"}`, string(decoded.CustomSections["detailing"]))
}

func TestInspectionDocumentMarshalNilMaps(t *testing.T) {
	var doc InspectionDocument

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var wire map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.JSONEq(t, `{}`, string(wire[CustomSectionsKey]), "reserved maps always serialize")
	assert.JSONEq(t, `{}`, string(wire[SectionNotesKey]))
}

func TestInspectionDocumentUnmarshalRejectsBadSection(t *testing.T) {
	var doc InspectionDocument

	err := json.Unmarshal([]byte(`{"brakes": "not an array"}`), &doc)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "brakes")
}

func TestInspectionDocumentUnmarshalNullSection(t *testing.T) {
	var doc InspectionDocument

	require.NoError(t, json.Unmarshal([]byte(`{"brakes": null}`), &doc))

	items, ok := doc.Sections["brakes"]
	require.True(t, ok)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestNewInspectionDocument(t *testing.T) {
	doc := NewInspectionDocument([]string{"brakes", "tires"})

	assert.Len(t, doc.Sections, 2)
	assert.NotNil(t, doc.Sections["brakes"])
	assert.NotNil(t, doc.CustomSections)
	assert.NotNil(t, doc.SectionNotes)
}

func TestVehicleInspectionDecoders(t *testing.T) {
	inspection := VehicleInspection{}

	doc, err := inspection.Document()
	require.NoError(t, err)
	assert.Empty(t, doc.Sections)
	assert.NotNil(t, doc.CustomSections)

	notes, err := inspection.TeamNotes()
	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.NotNil(t, notes)
}
