package inspections

import (
	"testing"
	"time"

	. "recondo/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileNotesRatingChange(t *testing.T) {
	now := time.Now()

	old := NewInspectionDocument([]string{"brakes"})
	old.Sections["brakes"] = []RatedItem{
		{ID: "brake-pads", Label: "Brake pad thickness", Rating: RatingFair},
	}

	next := NewInspectionDocument([]string{"brakes"})
	next.Sections["brakes"] = []RatedItem{
		{ID: "brake-pads", Label: "Brake pad thickness", Rating: RatingGreat},
	}

	notes := ReconcileNotes(old, next, "KD", now)

	require.Len(t, notes, 1)
	assert.Equal(t, "Brake pad thickness changed from Fair to Great", notes[0].Text)
	assert.Equal(t, "KD", notes[0].Author)
	assert.Equal(t, "brakes", notes[0].Category)
	assert.Equal(t, now, notes[0].CreatedAt)
	assert.NotEmpty(t, notes[0].ID)
}

func TestReconcileNotesFirstRating(t *testing.T) {
	old := NewInspectionDocument([]string{"tires"})

	next := NewInspectionDocument([]string{"tires"})
	next.Sections["tires"] = []RatedItem{
		{ID: "tread-depth", Label: "Tread depth", Rating: RatingNeedsAttention},
	}

	notes := ReconcileNotes(old, next, "KD", time.Now())

	require.Len(t, notes, 1)
	assert.Equal(t, "Tread depth rated as Needs Attention", notes[0].Text)
}

func TestReconcileNotesUnchangedProducesNothing(t *testing.T) {
	doc := NewInspectionDocument([]string{"tires"})
	doc.Sections["tires"] = []RatedItem{
		{ID: "tread-depth", Rating: RatingGreat},
		{ID: "tire-wear", Rating: RatingFair},
	}

	notes := ReconcileNotes(doc, doc, "KD", time.Now())
	assert.Empty(t, notes)
}

func TestReconcileNotesDeletionsAreSilent(t *testing.T) {
	old := NewInspectionDocument([]string{"tires"})
	old.Sections["tires"] = []RatedItem{
		{ID: "tread-depth", Rating: RatingGreat},
		{ID: "tire-wear", Rating: RatingFair},
	}

	next := NewInspectionDocument([]string{"tires"})
	next.Sections["tires"] = []RatedItem{
		{ID: "tread-depth", Rating: RatingGreat},
	}

	notes := ReconcileNotes(old, next, "KD", time.Now())
	assert.Empty(t, notes, "removed items produce no audit notes")
}

func TestReconcileNotesRemovedSectionIsSilent(t *testing.T) {
	old := NewInspectionDocument([]string{"tires", "brakes"})
	old.Sections["brakes"] = []RatedItem{
		{ID: "brake-pads", Rating: RatingFair},
	}

	next := NewInspectionDocument([]string{"tires"})

	notes := ReconcileNotes(old, next, "KD", time.Now())
	assert.Empty(t, notes)
}

func TestReconcileNotesNewItemWithoutRating(t *testing.T) {
	old := NewInspectionDocument([]string{"tires"})

	next := NewInspectionDocument([]string{"tires"})
	next.Sections["tires"] = []RatedItem{
		{ID: "tread-depth", Rating: ""},
	}

	notes := ReconcileNotes(old, next, "KD", time.Now())
	assert.Empty(t, notes, "unrated new items produce no notes")
}

func TestReconcileNotesLabelFallsBackToID(t *testing.T) {
	old := NewInspectionDocument([]string{"tires"})

	next := NewInspectionDocument([]string{"tires"})
	next.Sections["tires"] = []RatedItem{
		{ID: "tread-depth", Rating: RatingGreat},
	}

	notes := ReconcileNotes(old, next, "KD", time.Now())

	require.Len(t, notes, 1)
	assert.Equal(t, "tread-depth rated as Great", notes[0].Text)
}

func TestReconcileNotesNotCheckedRegression(t *testing.T) {
	old := NewInspectionDocument([]string{"tires"})
	old.Sections["tires"] = []RatedItem{
		{ID: "tread-depth", Label: "Tread depth", Rating: RatingGreat},
	}

	next := NewInspectionDocument([]string{"tires"})
	next.Sections["tires"] = []RatedItem{
		{ID: "tread-depth", Label: "Tread depth", Rating: RatingNotChecked},
	}

	notes := ReconcileNotes(old, next, "KD", time.Now())

	require.Len(t, notes, 1)
	assert.Equal(t, "Tread depth changed from Great to Not Checked", notes[0].Text)
}

func TestReconcileNotesDoesNotMutateInputs(t *testing.T) {
	old := NewInspectionDocument([]string{"tires"})
	old.Sections["tires"] = []RatedItem{{ID: "tread-depth", Rating: RatingFair}}

	next := NewInspectionDocument([]string{"tires"})
	next.Sections["tires"] = []RatedItem{{ID: "tread-depth", Rating: RatingGreat}}

	ReconcileNotes(old, next, "KD", time.Now())

	assert.Equal(t, RatingFair, old.Sections["tires"][0].Rating)
	assert.Equal(t, RatingGreat, next.Sections["tires"][0].Rating)
}

func TestPrependNotes(t *testing.T) {
	existing := []TeamNote{{ID: "old-1"}, {ID: "old-2"}}
	fresh := []TeamNote{{ID: "new-1"}, {ID: "new-2"}}

	combined := PrependNotes(existing, fresh)

	require.Len(t, combined, 4)
	assert.Equal(t, "new-1", combined[0].ID)
	assert.Equal(t, "new-2", combined[1].ID)
	assert.Equal(t, "old-1", combined[2].ID)
	assert.Equal(t, "old-2", combined[3].ID)
}

func TestPrependNotesNoFresh(t *testing.T) {
	existing := []TeamNote{{ID: "old-1"}}
	assert.Equal(t, existing, PrependNotes(existing, nil))
}
