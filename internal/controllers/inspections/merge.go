package inspections

import (
	"encoding/json"
	"sort"

	. "recondo/internal/models"
)

// The merge functions below implement the read-side reconciliation between
// whatever shape is stored for a dealership and the shipped defaults. The
// policy is availability over fidelity: any malformed stored fragment is
// replaced by its default rather than surfacing an error.

// mergeGlobalSettings overlays stored keys onto the defaults. Keys absent
// from the stored fragment keep their default value; a malformed fragment
// falls back entirely to defaults.
func mergeGlobalSettings(stored []byte) GlobalSettings {
	merged := DefaultGlobalSettings()
	if len(stored) == 0 {
		return merged
	}
	if err := json.Unmarshal(stored, &merged); err != nil {
		return DefaultGlobalSettings()
	}
	return merged
}

// mergeCustomerPdfSettings mirrors mergeGlobalSettings for the PDF options.
func mergeCustomerPdfSettings(stored []byte) CustomerPdfSettings {
	merged := DefaultCustomerPdfSettings()
	if len(stored) == 0 {
		return merged
	}
	if err := json.Unmarshal(stored, &merged); err != nil {
		return DefaultCustomerPdfSettings()
	}
	return merged
}

// mergeSections takes the stored list verbatim when it is a non-empty,
// well-formed array, otherwise falls back to the defaults. The result is
// always sorted by the section order field.
func mergeSections(stored []byte) []InspectionSection {
	sections := DefaultSections()
	if len(stored) > 0 {
		var parsed []InspectionSection
		if err := json.Unmarshal(stored, &parsed); err == nil && len(parsed) >= 1 {
			sections = parsed
		}
	}
	sortSections(sections)
	return sections
}

// mergeRatingLabels takes the stored list when non-empty, then backfills any
// missing canonical key from the defaults so the result always carries
// exactly the four canonical labels.
func mergeRatingLabels(stored []byte) []RatingLabel {
	labels := DefaultRatingLabels()
	if len(stored) > 0 {
		var parsed []RatingLabel
		if err := json.Unmarshal(stored, &parsed); err == nil && len(parsed) >= 1 {
			labels = parsed
		}
	}
	return backfillRatingLabels(labels)
}

func backfillRatingLabels(labels []RatingLabel) []RatingLabel {
	byKey := make(map[string]RatingLabel, len(labels))
	for _, label := range labels {
		byKey[label.Key] = label
	}

	defaults := DefaultRatingLabels()
	result := make([]RatingLabel, 0, len(defaults))
	for _, def := range defaults {
		if stored, ok := byKey[def.Key]; ok {
			result = append(result, stored)
		} else {
			result = append(result, def)
		}
	}
	return result
}

func sortSections(sections []InspectionSection) {
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Order < sections[j].Order
	})
}

func sortItems(items []InspectionItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Order < items[j].Order
	})
}
