package inspections

import (
	"testing"

	. "recondo/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeGlobalSettings(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		expected GlobalSettings
	}{
		{
			name:     "Empty fragment yields defaults",
			stored:   "",
			expected: DefaultGlobalSettings(),
		},
		{
			name:   "Stored keys win, missing keys keep defaults",
			stored: `{"autoGenerateTeamNotes": false}`,
			expected: GlobalSettings{
				AutoGenerateTeamNotes:      false,
				RequireCompletedBeforeSale: true,
				ShowInactiveSections:       false,
			},
		},
		{
			name:     "Malformed fragment falls back to defaults",
			stored:   `{"autoGenerateTeamNotes": "nope"`,
			expected: DefaultGlobalSettings(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mergeGlobalSettings([]byte(tt.stored)))
		})
	}
}

func TestMergeCustomerPdfSettings(t *testing.T) {
	merged := mergeCustomerPdfSettings([]byte(`{"showDetailedRatings": true, "footerText": "Custom footer"}`))

	assert.True(t, merged.ShowDetailedRatings)
	assert.Equal(t, "Custom footer", merged.FooterText)
	assert.True(t, merged.ShowPhotos, "missing key keeps default")
	assert.True(t, merged.ShowComments, "missing key keeps default")

	assert.Equal(t, DefaultCustomerPdfSettings(), mergeCustomerPdfSettings([]byte(`not json`)))
}

func TestMergeSections(t *testing.T) {
	t.Run("Empty fragment yields defaults", func(t *testing.T) {
		assert.Equal(t, DefaultSections(), mergeSections(nil))
	})

	t.Run("Stored list taken verbatim and sorted", func(t *testing.T) {
		stored := `[
			{"key": "custom-b", "label": "B", "isActive": true, "order": 2, "items": []},
			{"key": "custom-a", "label": "A", "isActive": true, "order": 1, "items": []}
		]`

		sections := mergeSections([]byte(stored))

		require.Len(t, sections, 2)
		assert.Equal(t, "custom-a", sections[0].Key)
		assert.Equal(t, "custom-b", sections[1].Key)
	})

	t.Run("Empty array falls back to defaults", func(t *testing.T) {
		assert.Equal(t, DefaultSections(), mergeSections([]byte(`[]`)))
	})

	t.Run("Malformed fragment falls back to defaults", func(t *testing.T) {
		assert.Equal(t, DefaultSections(), mergeSections([]byte(`{"not": "an array"}`)))
	})
}

func TestMergeRatingLabels(t *testing.T) {
	t.Run("Stored labels kept, missing canonical keys backfilled", func(t *testing.T) {
		stored := `[{"key": "great", "label": "Excellent", "color": "#000000"}]`

		labels := mergeRatingLabels([]byte(stored))

		require.Len(t, labels, 4)
		assert.Equal(t, RatingKeyGreat, labels[0].Key)
		assert.Equal(t, "Excellent", labels[0].Label)
		assert.Equal(t, RatingKeyFair, labels[1].Key)
		assert.Equal(t, "Fair", labels[1].Label)
		assert.Equal(t, RatingKeyNeedsAttention, labels[2].Key)
		assert.Equal(t, RatingKeyNotChecked, labels[3].Key)
	})

	t.Run("Empty fragment yields all four defaults", func(t *testing.T) {
		assert.Equal(t, DefaultRatingLabels(), mergeRatingLabels(nil))
	})

	t.Run("Unknown keys are dropped by backfill", func(t *testing.T) {
		stored := `[{"key": "amazing", "label": "Amazing"}]`

		labels := mergeRatingLabels([]byte(stored))

		require.Len(t, labels, 4)
		for _, label := range labels {
			assert.NotEqual(t, "amazing", label.Key)
		}
	})
}

func TestDefaultSectionsAreOrderedAndActive(t *testing.T) {
	sections := DefaultSections()

	require.NotEmpty(t, sections)
	for i, section := range sections {
		assert.Equal(t, i+1, section.Order)
		assert.True(t, section.IsActive)
		assert.NotEmpty(t, section.Items)
	}
}
