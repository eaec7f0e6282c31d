package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atelier-obra/editorial-engine/internal/models"
)

func TestClassifyWeight(t *testing.T) {
	heavy := models.WeightHeavy
	light := models.WeightLight

	videoAsset := &models.MediaAsset{ID: "a1", Kind: models.AssetVideo}
	imageAsset := &models.MediaAsset{ID: "a2", Kind: models.AssetImage}

	tests := []struct {
		name  string
		item  models.ContentItem
		asset *models.MediaAsset
		want  models.Weight
	}{
		{
			name: "explicit light override beats heavy format",
			item: models.ContentItem{Format: models.FormatCarousel, WeightOverride: &light},
			want: models.WeightLight,
		},
		{
			name: "explicit heavy override beats everything",
			item: models.ContentItem{Format: models.FormatStatic, Channel: models.ChannelFeed, WeightOverride: &heavy},
			want: models.WeightHeavy,
		},
		{
			name: "carousel format is heavy",
			item: models.ContentItem{Format: models.FormatCarousel, Channel: models.ChannelFeed},
			want: models.WeightHeavy,
		},
		{
			name: "case study format is heavy",
			item: models.ContentItem{Format: models.FormatCaseStudy, Channel: models.ChannelLinkedIn},
			want: models.WeightHeavy,
		},
		{
			name: "reels channel is heavy even for a plain format",
			item: models.ContentItem{Format: models.FormatStatic, Channel: models.ChannelReels},
			want: models.WeightHeavy,
		},
		{
			name:  "video asset is heavy regardless of format and channel",
			item:  models.ContentItem{Format: models.FormatStatic, Channel: models.ChannelFeed},
			asset: videoAsset,
			want:  models.WeightHeavy,
		},
		{
			name:  "static feed post from an image is light",
			item:  models.ContentItem{Format: models.FormatStatic, Channel: models.ChannelFeed},
			asset: imageAsset,
			want:  models.WeightLight,
		},
		{
			name: "no asset at all still classifies",
			item: models.ContentItem{Format: models.FormatStory, Channel: models.ChannelStories},
			want: models.WeightLight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyWeight(&tt.item, tt.asset)
			assert.Equal(t, tt.want, got)
			// stable under repeated calls
			assert.Equal(t, got, ClassifyWeight(&tt.item, tt.asset))
		})
	}
}

func TestWeightOfPrefersStoredWeight(t *testing.T) {
	item := models.ContentItem{Weight: models.WeightLight, Format: models.FormatCarousel}
	assert.Equal(t, models.WeightLight, weightOf(&item, nil))

	unclassified := models.ContentItem{Format: models.FormatCarousel}
	assert.Equal(t, models.WeightHeavy, weightOf(&unclassified, nil))
}
