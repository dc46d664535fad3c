package inspections

import (
	"fmt"
	"sort"
	"time"

	. "recondo/internal/models"

	"github.com/google/uuid"
)

// ReconcileNotes compares two full inspection documents for one vehicle and
// synthesizes audit notes for every item whose rating changed or was rated
// for the first time. Neither input is mutated. Items present in the old
// document but absent from the new one produce no note; deletions are not
// audited. Only rating changes are reported, not label or note edits.
func ReconcileNotes(old, next InspectionDocument, author string, now time.Time) []TeamNote {
	var notes []TeamNote

	for _, key := range unionSectionKeys(old, next) {
		oldByID := make(map[string]RatedItem, len(old.Sections[key]))
		for _, item := range old.Sections[key] {
			oldByID[item.ID] = item
		}

		for _, item := range next.Sections[key] {
			previous, existed := oldByID[item.ID]

			if existed {
				if previous.Rating != item.Rating {
					notes = append(notes, newRatingNote(
						fmt.Sprintf("%s changed from %s to %s",
							noteLabel(item),
							previous.Rating.DisplayLabel(),
							item.Rating.DisplayLabel(),
						),
						author, key, now,
					))
				}
				continue
			}

			if item.Rating != "" && item.Rating != RatingNotChecked {
				notes = append(notes, newRatingNote(
					fmt.Sprintf("%s rated as %s", noteLabel(item), item.Rating.DisplayLabel()),
					author, key, now,
				))
			}
		}
	}

	return notes
}

// PrependNotes puts the freshly generated notes ahead of the existing list,
// keeping the newest-first ordering the vehicle's note feed relies on.
func PrependNotes(existing, fresh []TeamNote) []TeamNote {
	if len(fresh) == 0 {
		return existing
	}
	combined := make([]TeamNote, 0, len(existing)+len(fresh))
	combined = append(combined, fresh...)
	combined = append(combined, existing...)
	return combined
}

func newRatingNote(text, author, category string, now time.Time) TeamNote {
	return TeamNote{
		ID:        uuid.New().String(),
		Text:      text,
		Author:    author,
		Category:  category,
		CreatedAt: now,
	}
}

func noteLabel(item RatedItem) string {
	if item.Label != "" {
		return item.Label
	}
	return item.ID
}

// unionSectionKeys returns the sorted union of section keys across both
// documents. Reserved keys never appear because the documents keep them out
// of the section map.
func unionSectionKeys(old, next InspectionDocument) []string {
	seen := make(map[string]struct{}, len(old.Sections)+len(next.Sections))
	for key := range old.Sections {
		seen[key] = struct{}{}
	}
	for key := range next.Sections {
		seen[key] = struct{}{}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
