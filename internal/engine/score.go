package engine

import (
	"math"
	"time"

	"github.com/atelier-obra/editorial-engine/internal/models"
)

// Score computes an item's publication priority on a 0-100 scale.
// It starts from a neutral 50 and adjusts for asset quality, asset
// freshness, pillar balance over the trailing two weeks, same-project
// density over the trailing week, the core flag and the objective.
// The result is clamped; the function never fails.
func Score(item *models.ContentItem, asset *models.MediaAsset, items []models.ContentItem, dna *models.EditorialDNA, now time.Time) int {
	score := 50.0

	if asset != nil && asset.Quality != nil {
		score += float64(*asset.Quality-50) * 0.3
	}

	if asset != nil && !asset.UploadedAt.IsZero() {
		age := now.Sub(asset.UploadedAt)
		switch {
		case age < 3*24*time.Hour:
			score += 15
		case age < 7*24*time.Hour:
			score += 10
		case age < 14*24*time.Hour:
			score += 5
		case age > 30*24*time.Hour:
			score -= 5
		}
	}

	if item.Pillar != "" {
		score += pillarBalance(item, items, dna, now)
	}

	if item.ProjectID != nil {
		switch n := recentProjectCount(item, items, now); {
		case n > 2:
			score -= 15
		case n >= 1:
			score -= 5
		}
	}

	if item.IsCore {
		score += 10
	}
	if item.Objective == models.ObjectiveTechnicalAuthority {
		score += 5
	}

	return clampScore(score)
}

// pillarBalance rewards under-represented pillars and penalizes ones
// running more than 1.5x above the per-pillar average of the trailing
// 14 days of planned and published content.
func pillarBalance(item *models.ContentItem, items []models.ContentItem, dna *models.EditorialDNA, now time.Time) float64 {
	cutoff := now.AddDate(0, 0, -14)
	total := 0
	same := 0
	for i := range items {
		other := &items[i]
		if other.ID == item.ID {
			continue
		}
		at := activityDate(other)
		if at == nil || at.Before(cutoff) || at.After(now) {
			continue
		}
		total++
		if other.Pillar == item.Pillar {
			same++
		}
	}

	average := float64(total) / float64(dna.PillarCount())
	switch {
	case float64(same) < average:
		return 10
	case float64(same) > average*1.5:
		return -10
	default:
		return 0
	}
}

// recentProjectCount counts planned/published items from the same
// project in the trailing 7 days.
func recentProjectCount(item *models.ContentItem, items []models.ContentItem, now time.Time) int {
	cutoff := now.AddDate(0, 0, -7)
	n := 0
	for i := range items {
		other := &items[i]
		if other.ID == item.ID || other.ProjectID == nil {
			continue
		}
		if *other.ProjectID != *item.ProjectID {
			continue
		}
		at := activityDate(other)
		if at == nil || at.Before(cutoff) || at.After(now) {
			continue
		}
		n++
	}
	return n
}

// activityDate is the calendar position an item occupies for the
// contextual signals: its scheduled date, falling back to the publish
// date. Items in earlier lifecycle states carry no position.
func activityDate(item *models.ContentItem) *time.Time {
	switch item.Status {
	case models.StatusScheduled, models.StatusPublished, models.StatusMeasured:
	default:
		return nil
	}
	if item.ScheduledAt != nil {
		return item.ScheduledAt
	}
	return item.PublishedAt
}

func clampScore(score float64) int {
	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}
