package inspections

import (
	"testing"

	. "recondo/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestComputeSectionStatus(t *testing.T) {
	tests := []struct {
		name     string
		items    []RatedItem
		expected SectionStatus
	}{
		{
			name:     "Empty section is not started",
			items:    []RatedItem{},
			expected: StatusNotStarted,
		},
		{
			name:     "Nil section is not started",
			items:    nil,
			expected: StatusNotStarted,
		},
		{
			name: "All great is completed",
			items: []RatedItem{
				{ID: "a", Rating: RatingGreat},
				{ID: "b", Rating: RatingGreat},
			},
			expected: StatusCompleted,
		},
		{
			name: "Any fair is pending",
			items: []RatedItem{
				{ID: "a", Rating: RatingGreat},
				{ID: "b", Rating: RatingFair},
			},
			expected: StatusPending,
		},
		{
			name: "Needs attention beats fair",
			items: []RatedItem{
				{ID: "a", Rating: RatingFair},
				{ID: "b", Rating: RatingNeedsAttention},
			},
			expected: StatusNeedsAttention,
		},
		{
			name: "Single not-checked item forces not started",
			items: []RatedItem{
				{ID: "a", Rating: RatingGreat},
				{ID: "b", Rating: RatingNeedsAttention},
				{ID: "c", Rating: RatingNotChecked},
			},
			expected: StatusNotStarted,
		},
		{
			name: "Empty rating counts as not checked",
			items: []RatedItem{
				{ID: "a", Rating: RatingGreat},
				{ID: "b", Rating: ""},
			},
			expected: StatusNotStarted,
		},
		{
			name: "Unknown rating falls back to not started",
			items: []RatedItem{
				{ID: "a", Rating: RatingGreat},
				{ID: "b", Rating: "X"},
			},
			expected: StatusNotStarted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeSectionStatus(tt.items))
		})
	}
}

func TestComputeProgress(t *testing.T) {
	keys := []string{"s1", "s2", "s3", "s4", "s5"}

	doc := NewInspectionDocument(keys)
	assert.Equal(t, 0, ComputeProgress(doc, keys), "empty document has zero progress")

	// Four of five sections touched, one of them needs attention.
	doc.Sections["s1"] = []RatedItem{{ID: "a", Rating: RatingGreat}}
	doc.Sections["s2"] = []RatedItem{{ID: "a", Rating: RatingGreat}}
	doc.Sections["s3"] = []RatedItem{{ID: "a", Rating: RatingFair}}
	doc.Sections["s4"] = []RatedItem{{ID: "a", Rating: RatingNeedsAttention}}

	assert.Equal(t, 80, ComputeProgress(doc, keys))

	statuses := SectionStatuses(doc, keys)
	assert.Equal(t, BadgeNeedsAttention, ComputeBadge(statuses),
		"needs-attention wins over in-progress even at high completion")
}

func TestComputeProgressRounds(t *testing.T) {
	keys := []string{"s1", "s2", "s3"}

	doc := NewInspectionDocument(keys)
	doc.Sections["s1"] = []RatedItem{{ID: "a", Rating: RatingGreat}}

	// 1/3 = 33.33 rounds down, 2/3 = 66.67 rounds up.
	assert.Equal(t, 33, ComputeProgress(doc, keys))

	doc.Sections["s2"] = []RatedItem{{ID: "a", Rating: RatingFair}}
	assert.Equal(t, 67, ComputeProgress(doc, keys))
}

func TestComputeProgressNoSections(t *testing.T) {
	doc := NewInspectionDocument(nil)
	assert.Equal(t, 0, ComputeProgress(doc, nil))
}

func TestComputeBadge(t *testing.T) {
	tests := []struct {
		name     string
		statuses map[string]SectionStatus
		expected Badge
	}{
		{
			name:     "No sections is not started",
			statuses: map[string]SectionStatus{},
			expected: BadgeNotStarted,
		},
		{
			name: "All completed is ready",
			statuses: map[string]SectionStatus{
				"s1": StatusCompleted,
				"s2": StatusCompleted,
			},
			expected: BadgeReady,
		},
		{
			name: "Needs attention beats pending",
			statuses: map[string]SectionStatus{
				"s1": StatusCompleted,
				"s2": StatusPending,
				"s3": StatusNeedsAttention,
			},
			expected: BadgeNeedsAttention,
		},
		{
			name: "Pending without needs-attention is in progress",
			statuses: map[string]SectionStatus{
				"s1": StatusCompleted,
				"s2": StatusPending,
			},
			expected: BadgeInProgress,
		},
		{
			name: "All not started",
			statuses: map[string]SectionStatus{
				"s1": StatusNotStarted,
				"s2": StatusNotStarted,
			},
			expected: BadgeNotStarted,
		},
		{
			name: "Completed plus not started is not ready",
			statuses: map[string]SectionStatus{
				"s1": StatusCompleted,
				"s2": StatusNotStarted,
			},
			expected: BadgeNotStarted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeBadge(tt.statuses))
		})
	}
}

func TestSectionStatusesUsesCanonicalKeys(t *testing.T) {
	doc := NewInspectionDocument(nil)
	doc.Sections["known"] = []RatedItem{{ID: "a", Rating: RatingGreat}}
	doc.Sections["stray"] = []RatedItem{{ID: "a", Rating: RatingNeedsAttention}}

	statuses := SectionStatuses(doc, []string{"known", "missing"})

	assert.Len(t, statuses, 2)
	assert.Equal(t, StatusCompleted, statuses["known"])
	assert.Equal(t, StatusNotStarted, statuses["missing"], "key with no stored items is not started")
	assert.NotContains(t, statuses, "stray", "keys outside the canonical list are ignored")
}
