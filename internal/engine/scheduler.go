package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/atelier-obra/editorial-engine/internal/models"
)

// Assignment is one scheduler decision: put this item on this date.
// The caller applies the batch to storage; the engine mutates nothing.
type Assignment struct {
	ItemID string        `json:"item_id"`
	Date   time.Time     `json:"date"`
	Status models.Status `json:"status"` // always "scheduled"
}

// Schedule assigns calendar dates to approved core items over the
// planning horizon, starting tomorrow. It is a greedy single pass with
// no backtracking: for each date it takes the highest-priority candidate
// that fits the configured slots, the weekly heavy quota and the
// project/format repetition windows, and days no candidate fits stay
// empty for the validator to flag. Derivatives of an assigned core ride
// along on the same date. Output is in calendar order.
func Schedule(items []models.ContentItem, assets map[string]*models.MediaAsset, slots []models.PublicationSlot, cfg models.Constraints, now time.Time) []Assignment {
	byID := make(map[string]*models.ContentItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	var candidates []*models.ContentItem
	for i := range items {
		it := &items[i]
		if it.IsCore && it.Status == models.StatusApproved && it.ScheduledAt == nil {
			candidates = append(candidates, it)
		}
	}
	// Deterministic order: score descending, then oldest first, then ID.
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	tracker := newCalendarTracker()
	for i := range items {
		it := &items[i]
		at := activityDate(it)
		if at == nil {
			continue
		}
		tracker.record(it, assetFor(it, assets), *at, it.IsCore)
	}

	var out []Assignment
	for d := 1; d <= cfg.HorizonDays; d++ {
		date := startOfDay(now.AddDate(0, 0, d))
		if tracker.cores[dayKey(date)] >= cfg.CoresPerDay {
			continue
		}
		for i, cand := range candidates {
			if !slotAllows(slots, date, cand.Channel) {
				continue
			}
			asset := assetFor(cand, assets)
			if weightOf(cand, asset) == models.WeightHeavy &&
				tracker.heavy[weekKey(date)] >= cfg.MaxHeavyPerWeek {
				continue
			}
			if cand.ProjectID != nil && tracker.projectWithin(*cand.ProjectID, date, cfg.NoRepeatProjectDays) {
				continue
			}
			if tracker.formatWithin(cand.Format, date, cfg.NoRepeatFormatDays) {
				continue
			}

			out = append(out, Assignment{ItemID: cand.ID, Date: date, Status: models.StatusScheduled})
			tracker.record(cand, asset, date, true)

			for _, derivID := range cand.DerivativeIDs {
				deriv, ok := byID[derivID]
				if !ok || deriv.Status != models.StatusApproved || deriv.ScheduledAt != nil {
					continue
				}
				out = append(out, Assignment{ItemID: deriv.ID, Date: date, Status: models.StatusScheduled})
				tracker.record(deriv, assetFor(deriv, assets), date, false)
			}

			candidates = append(candidates[:i], candidates[i+1:]...)
			break
		}
	}
	return out
}

// calendarTracker indexes the occupied calendar so constraint checks
// stay O(1) per candidate.
type calendarTracker struct {
	cores    map[string]int
	heavy    map[string]int
	projects map[string]map[string]bool
	formats  map[string]map[models.Format]bool
}

func newCalendarTracker() *calendarTracker {
	return &calendarTracker{
		cores:    make(map[string]int),
		heavy:    make(map[string]int),
		projects: make(map[string]map[string]bool),
		formats:  make(map[string]map[models.Format]bool),
	}
}

func (t *calendarTracker) record(item *models.ContentItem, asset *models.MediaAsset, date time.Time, core bool) {
	day := dayKey(date)
	if core {
		t.cores[day]++
	}
	if weightOf(item, asset) == models.WeightHeavy {
		t.heavy[weekKey(date)]++
	}
	if item.ProjectID != nil {
		if t.projects[day] == nil {
			t.projects[day] = make(map[string]bool)
		}
		t.projects[day][*item.ProjectID] = true
	}
	if t.formats[day] == nil {
		t.formats[day] = make(map[models.Format]bool)
	}
	t.formats[day][item.Format] = true
}

// projectWithin reports whether the project already occupies the date
// or the trailing window before it.
func (t *calendarTracker) projectWithin(projectID string, date time.Time, days int) bool {
	for off := 0; off <= days; off++ {
		if t.projects[dayKey(date.AddDate(0, 0, -off))][projectID] {
			return true
		}
	}
	return false
}

func (t *calendarTracker) formatWithin(format models.Format, date time.Time, days int) bool {
	for off := 0; off <= days; off++ {
		if t.formats[dayKey(date.AddDate(0, 0, -off))][format] {
			return true
		}
	}
	return false
}

// slotAllows reports whether a core on this channel may occupy the
// date under the configured slots. No slots means no restriction.
func slotAllows(slots []models.PublicationSlot, date time.Time, channel models.Channel) bool {
	if len(slots) == 0 {
		return true
	}
	for _, slot := range slots {
		if slot.Day != date.Weekday() {
			continue
		}
		for _, ch := range slot.Channels {
			if ch == channel {
				return true
			}
		}
	}
	return false
}

func assetFor(item *models.ContentItem, assets map[string]*models.MediaAsset) *models.MediaAsset {
	if assets == nil {
		return nil
	}
	return assets[item.AssetID]
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
