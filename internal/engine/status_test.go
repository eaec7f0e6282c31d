package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-obra/editorial-engine/internal/models"
)

var statusNow = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func TestAllowed(t *testing.T) {
	tests := []struct {
		from, to models.Status
		want     bool
	}{
		{models.StatusInbox, models.StatusGenerated, true},
		{models.StatusInbox, models.StatusRejected, true},
		{models.StatusInbox, models.StatusApproved, false},
		{models.StatusGenerated, models.StatusReview, true},
		{models.StatusReview, models.StatusApproved, true},
		{models.StatusReview, models.StatusScheduled, false},
		{models.StatusApproved, models.StatusScheduled, true},
		{models.StatusApproved, models.StatusReview, true},
		{models.StatusScheduled, models.StatusPublished, true},
		{models.StatusScheduled, models.StatusApproved, true},
		{models.StatusPublished, models.StatusMeasured, true},
		{models.StatusPublished, models.StatusRejected, false},
		{models.StatusMeasured, models.StatusRejected, false},
		{models.StatusRejected, models.StatusReview, true},
		{models.StatusRejected, models.StatusApproved, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Allowed(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestLegalTerminalState(t *testing.T) {
	assert.Empty(t, Legal(models.StatusMeasured))
	assert.Equal(t, []models.Status{models.StatusReview}, Legal(models.StatusRejected))
}

func TestApplyIllegalTransitionIsNoop(t *testing.T) {
	item := models.ContentItem{ID: "i1", Status: models.StatusMeasured}
	updates, warnings := Apply(&item, models.StatusReview, nil, statusNow, "")
	assert.Empty(t, updates)
	assert.Empty(t, warnings)
}

func TestApplyPublishWithoutMetrics(t *testing.T) {
	item := models.ContentItem{ID: "i1", Status: models.StatusScheduled}
	updates, warnings := Apply(&item, models.StatusPublished, nil, statusNow, "")
	require.Len(t, updates, 1)
	assert.Empty(t, warnings)
	assert.Equal(t, models.StatusPublished, updates[0].Status)
	require.NotNil(t, updates[0].PublishedAt)
	assert.Nil(t, updates[0].MeasuredAt)
}

func TestApplyPublishWithMetricsPromotesToMeasured(t *testing.T) {
	item := models.ContentItem{
		ID:      "i1",
		Status:  models.StatusScheduled,
		Metrics: map[string]int{"likes": 42, "comments": 7},
	}
	updates, _ := Apply(&item, models.StatusPublished, nil, statusNow, "")
	require.Len(t, updates, 1)
	assert.Equal(t, models.StatusMeasured, updates[0].Status)
	require.NotNil(t, updates[0].MeasuredAt)
	assert.Equal(t, statusNow, *updates[0].MeasuredAt)
}

func TestApplyRejectCoreCascades(t *testing.T) {
	parent := "core-1"
	core := models.ContentItem{
		ID:            parent,
		Status:        models.StatusReview,
		IsCore:        true,
		DerivativeIDs: []string{"d1", "d2", "d3", "d4"},
	}
	items := []models.ContentItem{
		core,
		{ID: "d1", Status: models.StatusReview, ParentID: &parent},
		{ID: "d2", Status: models.StatusApproved, ParentID: &parent},
		{ID: "d3", Status: models.StatusPublished, ParentID: &parent}, // terminal, untouched
		{ID: "d4", Status: models.StatusRejected, ParentID: &parent},  // already rejected
	}

	updates, warnings := Apply(&core, models.StatusRejected, items, statusNow, "off-brand imagery")

	require.Len(t, updates, 3) // the core plus the two live derivatives
	assert.Equal(t, parent, updates[0].ItemID)
	require.NotNil(t, updates[0].RejectionReason)
	assert.Equal(t, "off-brand imagery", *updates[0].RejectionReason)

	rejected := map[string]bool{}
	for _, u := range updates[1:] {
		assert.Equal(t, models.StatusRejected, u.Status)
		require.NotNil(t, u.RejectionReason)
		assert.Contains(t, *u.RejectionReason, "off-brand imagery")
		rejected[u.ItemID] = true
	}
	assert.True(t, rejected["d1"])
	assert.True(t, rejected["d2"])
	assert.False(t, rejected["d3"])
	assert.False(t, rejected["d4"])

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "2 derivative")
}

func TestApplyRejectDerivativeDoesNotCascade(t *testing.T) {
	parent := "core-1"
	deriv := models.ContentItem{ID: "d1", Status: models.StatusReview, ParentID: &parent}
	updates, warnings := Apply(&deriv, models.StatusRejected, nil, statusNow, "duplicate")
	require.Len(t, updates, 1)
	assert.Empty(t, warnings)
}

func TestApplyPlainForwardTransition(t *testing.T) {
	item := models.ContentItem{ID: "i1", Status: models.StatusReview}
	updates, warnings := Apply(&item, models.StatusApproved, nil, statusNow, "")
	require.Len(t, updates, 1)
	assert.Empty(t, warnings)
	assert.Equal(t, models.StatusApproved, updates[0].Status)
	assert.Nil(t, updates[0].RejectionReason)
}
