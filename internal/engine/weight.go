// Package engine is the editorial scheduling core: weight classification,
// priority scoring, batch expansion, greedy calendar assignment, conflict
// auditing and the item lifecycle machine. Every function here is pure:
// it reads a snapshot of the item collection and returns proposed updates
// or diagnostics, never touching storage or the network.
package engine

import (
	"github.com/atelier-obra/editorial-engine/internal/models"
)

// ClassifyWeight labels an item heavy or light. The rules apply in
// priority order: an explicit override on the item wins, then the
// heavy-format vocabulary, then the heavy channels, then a video source
// asset. Anything else is light. Always returns a value.
func ClassifyWeight(item *models.ContentItem, asset *models.MediaAsset) models.Weight {
	if item.WeightOverride != nil {
		return *item.WeightOverride
	}
	if models.HeavyFormats[item.Format] {
		return models.WeightHeavy
	}
	if models.HeavyChannels[item.Channel] {
		return models.WeightHeavy
	}
	if asset != nil && asset.Kind == models.AssetVideo {
		return models.WeightHeavy
	}
	return models.WeightLight
}

// weightOf returns the stored weight, classifying on demand when the
// item was never annotated.
func weightOf(item *models.ContentItem, asset *models.MediaAsset) models.Weight {
	if item.Weight != "" {
		return item.Weight
	}
	return ClassifyWeight(item, asset)
}
