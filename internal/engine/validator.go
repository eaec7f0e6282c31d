package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/atelier-obra/editorial-engine/internal/models"
)

// ConflictKind names a calendar rule violation
type ConflictKind string

const (
	ConflictNoCore        ConflictKind = "no-core"
	ConflictTooManyHeavy  ConflictKind = "too-many-heavy"
	ConflictProjectRepeat ConflictKind = "project-repeat"
	ConflictFormatRepeat  ConflictKind = "format-repeat"
)

// Conflict is one advisory finding from the calendar audit. Conflicts
// are data-quality signals for the editorial team, not faults.
type Conflict struct {
	Date    time.Time    `json:"date"`
	Kind    ConflictKind `json:"kind"`
	Message string       `json:"message"`
}

// Validate audits the planned calendar over the horizon starting today
// and reports rule violations in scan order: day by day, then week by
// week. Day 0 is exempt from the no-core check since today's slot may
// legitimately already be behind us. The audit mutates nothing.
func Validate(items []models.ContentItem, cfg models.Constraints, now time.Time) []Conflict {
	coreByDay := make(map[string][]*models.ContentItem)
	heavyByWeek := make(map[string]int)
	for i := range items {
		it := &items[i]
		at := activityDate(it)
		if at == nil {
			continue
		}
		if it.IsCore {
			key := dayKey(*at)
			coreByDay[key] = append(coreByDay[key], it)
		}
		if weightOf(it, nil) == models.WeightHeavy {
			heavyByWeek[weekKey(*at)]++
		}
	}

	var conflicts []Conflict
	today := startOfDay(now)
	for d := 0; d < cfg.HorizonDays; d++ {
		date := today.AddDate(0, 0, d)
		cores := coreByDay[dayKey(date)]
		if len(cores) == 0 {
			if d > 0 {
				conflicts = append(conflicts, Conflict{
					Date:    date,
					Kind:    ConflictNoCore,
					Message: fmt.Sprintf("no core content planned for %s", date.Format("Mon Jan 02")),
				})
			}
			continue
		}

		core := cores[0]
		prev := firstCore(coreByDay, date.AddDate(0, 0, -1))
		if prev != nil && core.ProjectID != nil && prev.ProjectID != nil && *core.ProjectID == *prev.ProjectID {
			conflicts = append(conflicts, Conflict{
				Date:    date,
				Kind:    ConflictProjectRepeat,
				Message: fmt.Sprintf("project %s repeats on consecutive days around %s", *core.ProjectID, date.Format("Jan 02")),
			})
		}

		twoBack := firstCore(coreByDay, date.AddDate(0, 0, -2))
		if prev != nil && twoBack != nil && core.Format == prev.Format && core.Format == twoBack.Format {
			conflicts = append(conflicts, Conflict{
				Date:    date,
				Kind:    ConflictFormatRepeat,
				Message: fmt.Sprintf("format %q runs three days in a row ending %s", core.Format, date.Format("Jan 02")),
			})
		}
	}

	conflicts = append(conflicts, weeklyHeavyConflicts(heavyByWeek, cfg, today)...)
	return conflicts
}

// weeklyHeavyConflicts flags ISO weeks inside the horizon that carry
// more heavy items than the configured cap.
func weeklyHeavyConflicts(heavyByWeek map[string]int, cfg models.Constraints, today time.Time) []Conflict {
	weekStart := make(map[string]time.Time)
	var keys []string
	for d := 0; d < cfg.HorizonDays; d++ {
		date := today.AddDate(0, 0, d)
		key := weekKey(date)
		if _, seen := weekStart[key]; !seen {
			weekStart[key] = date
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var conflicts []Conflict
	for _, key := range keys {
		if n := heavyByWeek[key]; n > cfg.MaxHeavyPerWeek {
			conflicts = append(conflicts, Conflict{
				Date:    weekStart[key],
				Kind:    ConflictTooManyHeavy,
				Message: fmt.Sprintf("%d heavy items planned in week %s (max %d)", n, key, cfg.MaxHeavyPerWeek),
			})
		}
	}
	return conflicts
}

func firstCore(coreByDay map[string][]*models.ContentItem, date time.Time) *models.ContentItem {
	cores := coreByDay[dayKey(date)]
	if len(cores) == 0 {
		return nil
	}
	return cores[0]
}
