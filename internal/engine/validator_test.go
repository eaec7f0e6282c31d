package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-obra/editorial-engine/internal/models"
)

var valNow = time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC) // Sunday

// plannedCore fabricates a scheduled core occupying the given horizon day
func plannedCore(id string, dayOffset int, format models.Format, projectID *string, weight models.Weight) models.ContentItem {
	at := startOfDay(valNow.AddDate(0, 0, dayOffset))
	return models.ContentItem{
		ID:             id,
		Status:         models.StatusScheduled,
		IsCore:         true,
		Format:         format,
		ProjectID:      projectID,
		WeightOverride: &weight,
		ScheduledAt:    &at,
	}
}

func conflictsOfKind(conflicts []Conflict, kind ConflictKind) []Conflict {
	var out []Conflict
	for _, c := range conflicts {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func TestValidateEmptyCalendar(t *testing.T) {
	conflicts := Validate(nil, models.DefaultConstraints(), valNow)

	noCore := conflictsOfKind(conflicts, ConflictNoCore)
	// every horizon day except day 0 is empty
	assert.Len(t, noCore, 13)
	for _, c := range noCore {
		assert.NotEqual(t, dayKey(startOfDay(valNow)), dayKey(c.Date), "day 0 is exempt")
	}
	assert.Empty(t, conflictsOfKind(conflicts, ConflictTooManyHeavy))
	assert.Empty(t, conflictsOfKind(conflicts, ConflictProjectRepeat))
	assert.Empty(t, conflictsOfKind(conflicts, ConflictFormatRepeat))
}

func TestValidateSingleGap(t *testing.T) {
	var items []models.ContentItem
	for d := 1; d < 14; d++ {
		if d == 5 {
			continue
		}
		items = append(items, plannedCore(
			fmt.Sprintf("c%d", d), d,
			models.Format(fmt.Sprintf("f%d", d)), nil, models.WeightLight,
		))
	}

	conflicts := Validate(items, models.DefaultConstraints(), valNow)
	noCore := conflictsOfKind(conflicts, ConflictNoCore)
	require.Len(t, noCore, 1)
	assert.Equal(t, dayKey(startOfDay(valNow.AddDate(0, 0, 5))), dayKey(noCore[0].Date))
}

func TestValidateProjectRepeat(t *testing.T) {
	project := strPtr("casa-lago")
	items := []models.ContentItem{
		plannedCore("c1", 1, models.FormatStatic, project, models.WeightLight),
		plannedCore("c2", 2, models.FormatStory, project, models.WeightLight),
		plannedCore("c3", 3, models.FormatCarousel, strPtr("loft-11"), models.WeightLight),
	}

	conflicts := Validate(items, models.DefaultConstraints(), valNow)
	repeats := conflictsOfKind(conflicts, ConflictProjectRepeat)
	require.Len(t, repeats, 1)
	assert.Equal(t, dayKey(startOfDay(valNow.AddDate(0, 0, 2))), dayKey(repeats[0].Date))
	assert.Contains(t, repeats[0].Message, "casa-lago")
}

func TestValidateFormatRepeat(t *testing.T) {
	items := []models.ContentItem{
		plannedCore("c1", 1, models.FormatStatic, nil, models.WeightLight),
		plannedCore("c2", 2, models.FormatStatic, nil, models.WeightLight),
		plannedCore("c3", 3, models.FormatStatic, nil, models.WeightLight),
	}

	conflicts := Validate(items, models.DefaultConstraints(), valNow)
	repeats := conflictsOfKind(conflicts, ConflictFormatRepeat)
	// two in a row is tolerated; the third day trips the rule
	require.Len(t, repeats, 1)
	assert.Equal(t, dayKey(startOfDay(valNow.AddDate(0, 0, 3))), dayKey(repeats[0].Date))
}

func TestValidateTooManyHeavy(t *testing.T) {
	// four heavy items inside the first ISO week (Mon Jan 6 - Sun Jan 12)
	var items []models.ContentItem
	for d := 1; d <= 4; d++ {
		items = append(items, plannedCore(
			fmt.Sprintf("h%d", d), d,
			models.Format(fmt.Sprintf("f%d", d)), nil, models.WeightHeavy,
		))
	}

	conflicts := Validate(items, models.DefaultConstraints(), valNow)
	heavy := conflictsOfKind(conflicts, ConflictTooManyHeavy)
	require.Len(t, heavy, 1)
	assert.Contains(t, heavy[0].Message, "4 heavy items")
}

// A schedule the engine itself produced under default constraints must
// audit clean for the quota and project rules.
func TestValidateSchedulerOutputIsConsistent(t *testing.T) {
	var items []models.ContentItem
	projects := []string{"alpha", "beta", "gamma", "delta"}
	for i := 0; i < 12; i++ {
		weight := models.WeightLight
		if i%3 == 0 {
			weight = models.WeightHeavy
		}
		item := approvedCore(
			fmt.Sprintf("s%d", i), 95-i*3, weight,
			models.Format(fmt.Sprintf("f%d", i)),
		)
		p := projects[i%len(projects)]
		item.ProjectID = &p
		items = append(items, item)
	}

	assignments := Schedule(items, nil, nil, models.DefaultConstraints(), valNow)
	require.NotEmpty(t, assignments)

	// apply the proposed updates to a copy of the snapshot
	byID := make(map[string]int, len(items))
	for i := range items {
		byID[items[i].ID] = i
	}
	for _, a := range assignments {
		date := a.Date
		items[byID[a.ItemID]].ScheduledAt = &date
		items[byID[a.ItemID]].Status = a.Status
	}

	conflicts := Validate(items, models.DefaultConstraints(), valNow)
	assert.Empty(t, conflictsOfKind(conflicts, ConflictTooManyHeavy))
	assert.Empty(t, conflictsOfKind(conflicts, ConflictProjectRepeat))
}
