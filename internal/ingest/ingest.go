// Package ingest is the validation boundary between loosely-typed
// records arriving from collaborators and the engine's typed model.
// Records that fail validation never reach the engine.
package ingest

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/atelier-obra/editorial-engine/internal/models"
)

var validate = validator.New()

// ItemRecord is the raw shape of a content item as collaborators hand
// it over. Everything optional is a plain field here; Normalize turns
// it into the engine's stricter model.
type ItemRecord struct {
	ID              string         `json:"id" validate:"required"`
	AssetID         string         `json:"asset_id"`
	PackageID       string         `json:"package_id"`
	Channel         string         `json:"channel" validate:"required,oneof=feed carousel reels stories linkedin youtube"`
	Format          string         `json:"format" validate:"omitempty,oneof=static story carousel reel case-study edited-video"`
	Copy            string         `json:"copy"`
	Language        string         `json:"language"`
	Hashtags        []string       `json:"hashtags"`
	CTA             string         `json:"cta"`
	Objective       string         `json:"objective"`
	Status          string         `json:"status" validate:"required,oneof=inbox generated review approved scheduled published measured rejected"`
	Weight          string         `json:"weight" validate:"omitempty,oneof=heavy light"`
	WeightOverride  string         `json:"weight_override" validate:"omitempty,oneof=heavy light"`
	Score           int            `json:"score" validate:"gte=0,lte=100"`
	IsCore          bool           `json:"is_core"`
	Pillar          string         `json:"pillar"`
	ProjectID       string         `json:"project_id"`
	ParentID        string         `json:"parent_id"`
	DerivativeIDs   []string       `json:"derivative_ids"`
	ScheduledAt     *time.Time     `json:"scheduled_at"`
	PublishedAt     *time.Time     `json:"published_at"`
	MeasuredAt      *time.Time     `json:"measured_at"`
	CreatedAt       time.Time      `json:"created_at"`
	Metrics         map[string]int `json:"metrics"`
	RejectionReason string         `json:"rejection_reason"`
	IsBuffer        bool           `json:"is_buffer"`
}

// Normalize validates a raw record and converts it into a ContentItem.
// Missing timestamps are filled in; inconsistent parent/derivative
// linkage is rejected.
func Normalize(rec ItemRecord) (*models.ContentItem, error) {
	if err := validate.Struct(rec); err != nil {
		return nil, fmt.Errorf("invalid item record %q: %w", rec.ID, err)
	}
	if rec.IsCore && rec.ParentID != "" {
		return nil, fmt.Errorf("invalid item record %q: core item cannot reference a parent", rec.ID)
	}
	if !rec.IsCore && len(rec.DerivativeIDs) > 0 {
		return nil, fmt.Errorf("invalid item record %q: only core items carry derivatives", rec.ID)
	}

	item := &models.ContentItem{
		ID:            rec.ID,
		AssetID:       rec.AssetID,
		PackageID:     rec.PackageID,
		Channel:       models.Channel(rec.Channel),
		Format:        models.Format(rec.Format),
		Copy:          rec.Copy,
		Language:      rec.Language,
		Hashtags:      rec.Hashtags,
		CTA:           rec.CTA,
		Objective:     rec.Objective,
		Status:        models.Status(rec.Status),
		Weight:        models.Weight(rec.Weight),
		Score:         rec.Score,
		IsCore:        rec.IsCore,
		Pillar:        rec.Pillar,
		DerivativeIDs: rec.DerivativeIDs,
		ScheduledAt:   rec.ScheduledAt,
		PublishedAt:   rec.PublishedAt,
		MeasuredAt:    rec.MeasuredAt,
		CreatedAt:     rec.CreatedAt,
		Metrics:       rec.Metrics,
		IsBuffer:      rec.IsBuffer,
	}
	if item.Hashtags == nil {
		item.Hashtags = []string{}
	}
	if item.DerivativeIDs == nil {
		item.DerivativeIDs = []string{}
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	if rec.WeightOverride != "" {
		override := models.Weight(rec.WeightOverride)
		item.WeightOverride = &override
	}
	if rec.ProjectID != "" {
		item.ProjectID = &rec.ProjectID
	}
	if rec.ParentID != "" {
		item.ParentID = &rec.ParentID
	}
	if rec.RejectionReason != "" {
		item.RejectionReason = &rec.RejectionReason
	}
	return item, nil
}

// NormalizeAll converts a batch of records, collecting the rejects
// instead of failing the batch. Callers decide what a reject means.
func NormalizeAll(recs []ItemRecord) ([]models.ContentItem, []error) {
	var items []models.ContentItem
	var errs []error
	for _, rec := range recs {
		item, err := Normalize(rec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		items = append(items, *item)
	}
	return items, errs
}
