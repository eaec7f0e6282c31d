package engine

import (
	"github.com/atelier-obra/editorial-engine/internal/models"
)

// BufferReport describes the emergency reserve of pre-approved,
// low-effort items held back for schedule gaps.
type BufferReport struct {
	Count      int  `json:"count"`
	Target     int  `json:"target"`
	Sufficient bool `json:"sufficient"`
}

// Buffer counts approved items flagged as buffer against the target
// reserve. Purely observational; promoting more items into the buffer
// is the caller's call.
func Buffer(items []models.ContentItem, target int) BufferReport {
	count := 0
	for i := range items {
		if items[i].IsBuffer && items[i].Status == models.StatusApproved {
			count++
		}
	}
	return BufferReport{Count: count, Target: target, Sufficient: count >= target}
}

// Stats aggregates the collection for reporting surfaces
type Stats struct {
	ByStatus       map[models.Status]int `json:"by_status"`
	HeavyScheduled int                   `json:"heavy_scheduled"`
	LightScheduled int                   `json:"light_scheduled"`
	CoreCount      int                   `json:"core_count"`
	Buffer         BufferReport          `json:"buffer"`
}

// Summarize computes per-status counts, the heavy/light split of the
// planned calendar, the core population and the buffer state.
func Summarize(items []models.ContentItem, cfg models.Constraints) Stats {
	stats := Stats{ByStatus: make(map[models.Status]int)}
	for i := range items {
		it := &items[i]
		stats.ByStatus[it.Status]++
		if it.IsCore {
			stats.CoreCount++
		}
		if it.Status == models.StatusScheduled {
			if weightOf(it, nil) == models.WeightHeavy {
				stats.HeavyScheduled++
			} else {
				stats.LightScheduled++
			}
		}
	}
	stats.Buffer = Buffer(items, cfg.BufferTarget)
	return stats
}
