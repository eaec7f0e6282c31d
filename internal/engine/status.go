package engine

import (
	"fmt"
	"time"

	"github.com/atelier-obra/editorial-engine/internal/models"
)

// transitions is the closed table of legal lifecycle moves
var transitions = map[models.Status][]models.Status{
	models.StatusInbox:     {models.StatusGenerated, models.StatusRejected},
	models.StatusGenerated: {models.StatusReview, models.StatusRejected},
	models.StatusReview:    {models.StatusApproved, models.StatusRejected},
	models.StatusApproved:  {models.StatusScheduled, models.StatusReview},
	models.StatusScheduled: {models.StatusPublished, models.StatusApproved},
	models.StatusPublished: {models.StatusMeasured},
	models.StatusMeasured:  {},
	models.StatusRejected:  {models.StatusReview}, // rejected items may be reopened
}

// Legal returns the states an item may move to from its current state
func Legal(from models.Status) []models.Status {
	return append([]models.Status(nil), transitions[from]...)
}

// Allowed reports whether from -> to is in the transition table. The
// machine only enumerates legality; guarding is the caller's job.
func Allowed(from, to models.Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ItemUpdate is one proposed change to a persisted item. The engine
// never writes; callers apply update batches under their own
// transactional discipline.
type ItemUpdate struct {
	ItemID          string        `json:"item_id"`
	Status          models.Status `json:"status"`
	PublishedAt     *time.Time    `json:"published_at,omitempty"`
	MeasuredAt      *time.Time    `json:"measured_at,omitempty"`
	RejectionReason *string       `json:"rejection_reason,omitempty"`
}

// Apply works out the update batch for moving an item to target.
// Illegal transitions produce an empty batch; nothing is raised.
// Two side effects cascade through the batch: publishing an item that
// already carries performance metrics promotes it straight to measured,
// and rejecting a core item rejects every non-terminal derivative with
// a synthesized reason. Cascades are reported as warnings, not errors.
func Apply(item *models.ContentItem, target models.Status, items []models.ContentItem, now time.Time, reason string) ([]ItemUpdate, []string) {
	if !Allowed(item.Status, target) {
		return nil, nil
	}

	switch target {
	case models.StatusPublished:
		update := ItemUpdate{ItemID: item.ID, Status: models.StatusPublished, PublishedAt: &now}
		if len(item.Metrics) > 0 {
			update.Status = models.StatusMeasured
			update.MeasuredAt = &now
		}
		return []ItemUpdate{update}, nil

	case models.StatusRejected:
		updates := []ItemUpdate{{ItemID: item.ID, Status: models.StatusRejected, RejectionReason: &reason}}
		if !item.IsCore {
			return updates, nil
		}

		byID := make(map[string]*models.ContentItem, len(items))
		for i := range items {
			byID[items[i].ID] = &items[i]
		}
		cascaded := 0
		for _, derivID := range item.DerivativeIDs {
			deriv, ok := byID[derivID]
			if !ok || deriv.Status.Terminal() || deriv.Status == models.StatusRejected {
				continue
			}
			derivReason := fmt.Sprintf("core item rejected: %s", reason)
			updates = append(updates, ItemUpdate{
				ItemID:          deriv.ID,
				Status:          models.StatusRejected,
				RejectionReason: &derivReason,
			})
			cascaded++
		}
		var warnings []string
		if cascaded > 0 {
			warnings = append(warnings, fmt.Sprintf("rejection cascaded to %d derivative item(s)", cascaded))
		}
		return updates, warnings

	case models.StatusMeasured:
		return []ItemUpdate{{ItemID: item.ID, Status: models.StatusMeasured, MeasuredAt: &now}}, nil

	default:
		return []ItemUpdate{{ItemID: item.ID, Status: target}}, nil
	}
}
