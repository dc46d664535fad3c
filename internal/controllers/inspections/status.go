package inspections

import (
	"math"

	. "recondo/internal/models"
)

// SectionStatus is the coarse per-section state shown on dashboard badges
// and used for the customer-facing completion percentage.
type SectionStatus string

const (
	StatusNotStarted     SectionStatus = "not-started"
	StatusPending        SectionStatus = "pending"
	StatusNeedsAttention SectionStatus = "needs-attention"
	StatusCompleted      SectionStatus = "completed"
)

// Badge is the vehicle-level rollup of section statuses.
type Badge string

const (
	BadgeReady          Badge = "ready"
	BadgeNeedsAttention Badge = "needs-attention"
	BadgeInProgress     Badge = "in-progress"
	BadgeNotStarted     Badge = "not-started"
)

// ComputeSectionStatus reduces a section's item list to one coarse state.
// A single not-checked item forces the whole section back to not-started;
// partial completion is not pending.
func ComputeSectionStatus(items []RatedItem) SectionStatus {
	if len(items) == 0 {
		return StatusNotStarted
	}

	anyNeedsAttention := false
	anyFair := false
	allGreat := true

	for _, item := range items {
		switch item.Rating {
		case RatingNotChecked, "":
			return StatusNotStarted
		case RatingNeedsAttention:
			anyNeedsAttention = true
			allGreat = false
		case RatingFair:
			anyFair = true
			allGreat = false
		case RatingGreat:
		default:
			allGreat = false
		}
	}

	switch {
	case anyNeedsAttention:
		return StatusNeedsAttention
	case anyFair:
		return StatusPending
	case allGreat:
		return StatusCompleted
	default:
		return StatusNotStarted
	}
}

// SectionStatuses evaluates every canonical section key against the
// document. Keys with no stored items evaluate to not-started.
func SectionStatuses(doc InspectionDocument, canonicalKeys []string) map[string]SectionStatus {
	statuses := make(map[string]SectionStatus, len(canonicalKeys))
	for _, key := range canonicalKeys {
		statuses[key] = ComputeSectionStatus(doc.Sections[key])
	}
	return statuses
}

// ComputeProgress returns the overall completion percentage: sections in any
// state other than not-started, counted against the canonical key list.
func ComputeProgress(doc InspectionDocument, canonicalKeys []string) int {
	if len(canonicalKeys) == 0 {
		return 0
	}

	counted := 0
	for _, status := range SectionStatuses(doc, canonicalKeys) {
		if status != StatusNotStarted {
			counted++
		}
	}

	return int(math.Round(float64(counted) / float64(len(canonicalKeys)) * 100))
}

// ComputeBadge rolls section statuses up to one vehicle-level badge. Ready
// requires every canonical section completed; needs-attention takes
// precedence over in-progress.
func ComputeBadge(statuses map[string]SectionStatus) Badge {
	if len(statuses) == 0 {
		return BadgeNotStarted
	}

	allCompleted := true
	anyNeedsAttention := false
	anyPending := false

	for _, status := range statuses {
		if status != StatusCompleted {
			allCompleted = false
		}
		if status == StatusNeedsAttention {
			anyNeedsAttention = true
		}
		if status == StatusPending {
			anyPending = true
		}
	}

	switch {
	case allCompleted:
		return BadgeReady
	case anyNeedsAttention:
		return BadgeNeedsAttention
	case anyPending:
		return BadgeInProgress
	default:
		return BadgeNotStarted
	}
}
