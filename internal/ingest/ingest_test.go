package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-obra/editorial-engine/internal/models"
)

func validRecord() ItemRecord {
	return ItemRecord{
		ID:      "item-1",
		Channel: "feed",
		Format:  "static",
		Status:  "review",
		Score:   50,
	}
}

func TestNormalizeValidRecord(t *testing.T) {
	rec := validRecord()
	rec.ProjectID = "casa-lago"
	rec.WeightOverride = "heavy"

	item, err := Normalize(rec)
	require.NoError(t, err)
	assert.Equal(t, models.ChannelFeed, item.Channel)
	assert.Equal(t, models.StatusReview, item.Status)
	require.NotNil(t, item.ProjectID)
	assert.Equal(t, "casa-lago", *item.ProjectID)
	require.NotNil(t, item.WeightOverride)
	assert.Equal(t, models.WeightHeavy, *item.WeightOverride)
	assert.False(t, item.CreatedAt.IsZero(), "missing timestamps get filled")
	assert.NotNil(t, item.Hashtags)
	assert.NotNil(t, item.DerivativeIDs)
}

func TestNormalizeRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ItemRecord)
	}{
		{"missing id", func(r *ItemRecord) { r.ID = "" }},
		{"unknown status", func(r *ItemRecord) { r.Status = "drafted" }},
		{"unknown channel", func(r *ItemRecord) { r.Channel = "tiktok" }},
		{"unknown weight", func(r *ItemRecord) { r.Weight = "medium" }},
		{"score above range", func(r *ItemRecord) { r.Score = 101 }},
		{"score below range", func(r *ItemRecord) { r.Score = -1 }},
		{"core with a parent", func(r *ItemRecord) { r.IsCore = true; r.ParentID = "other" }},
		{"derivative carrying derivatives", func(r *ItemRecord) { r.DerivativeIDs = []string{"d1"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(&rec)
			_, err := Normalize(rec)
			assert.Error(t, err)
		})
	}
}

func TestNormalizeAllCollectsRejects(t *testing.T) {
	good := validRecord()
	bad := validRecord()
	bad.Status = "nonsense"
	stamped := validRecord()
	stamped.ID = "item-2"
	stamped.CreatedAt = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	items, errs := NormalizeAll([]ItemRecord{good, bad, stamped})
	assert.Len(t, items, 2)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "invalid item record")
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), items[1].CreatedAt)
}
