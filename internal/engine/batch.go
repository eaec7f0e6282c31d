package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/atelier-obra/editorial-engine/internal/models"
)

// DefaultLanguage is used when a batch request does not name one
const DefaultLanguage = "en"

// MaxDerivatives caps the fan-out of one batch
const MaxDerivatives = 4

// BatchOptions carries the editorial context for a generation batch
type BatchOptions struct {
	ProjectID *string
	Pillar    string
	Objective string
	Language  string
}

// Batch is one core item plus its channel derivatives, none of them
// persisted yet. The caller saves what it wants to keep.
type Batch struct {
	Core        *models.ContentItem
	Derivatives []*models.ContentItem
}

// Items returns the whole batch, core first
func (b *Batch) Items() []*models.ContentItem {
	out := make([]*models.ContentItem, 0, 1+len(b.Derivatives))
	out = append(out, b.Core)
	return append(out, b.Derivatives...)
}

// GenerateBatch expands one media asset and its generated content
// package into a core item plus up to four derivatives, one per
// remaining channel in preference order. Every item starts in review
// with a provisional score (50 core, 40 derivative) pending re-scoring.
func GenerateBatch(asset *models.MediaAsset, pkg *models.ContentPackage, opts BatchOptions) *Batch {
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}

	coreChannel := CoreChannel(asset, pkg, opts)
	core := newBatchItem(asset, pkg, opts, coreChannel)
	core.IsCore = true
	core.Score = 50

	batch := &Batch{Core: core}
	for _, ch := range models.ChannelPreference {
		if ch == coreChannel || len(batch.Derivatives) >= MaxDerivatives {
			continue
		}
		deriv := newBatchItem(asset, pkg, opts, ch)
		deriv.Score = 40
		deriv.ParentID = &core.ID
		core.DerivativeIDs = append(core.DerivativeIDs, deriv.ID)
		batch.Derivatives = append(batch.Derivatives, deriv)
	}
	return batch
}

// CoreChannel picks the anchor channel for a batch. First match wins:
// video assets lead with a reel, technical-authority content leads on
// LinkedIn, detail and site-progress shots lead on the feed, a package
// with carousel copy leads with the carousel, everything else feeds.
func CoreChannel(asset *models.MediaAsset, pkg *models.ContentPackage, opts BatchOptions) models.Channel {
	if asset != nil && asset.Kind == models.AssetVideo {
		return models.ChannelReels
	}
	if opts.Objective == models.ObjectiveTechnicalAuthority {
		return models.ChannelLinkedIn
	}
	if asset != nil && (asset.Category == models.CategoryDetail || asset.Category == models.CategorySiteProgress) {
		return models.ChannelFeed
	}
	if pkg.HasChannel(models.ChannelCarousel) {
		return models.ChannelCarousel
	}
	return models.ChannelFeed
}

func newBatchItem(asset *models.MediaAsset, pkg *models.ContentPackage, opts BatchOptions, ch models.Channel) *models.ContentItem {
	item := &models.ContentItem{
		ID:            uuid.New().String(),
		Channel:       ch,
		Format:        formatFor(ch, opts),
		Copy:          pkg.Text(ch, opts.Language), // empty when the package has nothing for this channel
		Language:      opts.Language,
		Status:        models.StatusReview,
		Objective:     opts.Objective,
		Pillar:        opts.Pillar,
		ProjectID:     opts.ProjectID,
		DerivativeIDs: []string{},
		CreatedAt:     time.Now(),
	}
	if asset != nil {
		item.AssetID = asset.ID
	}
	if pkg != nil {
		item.PackageID = pkg.ID
		item.Hashtags = append([]string{}, pkg.Hashtags...)
		item.CTA = pkg.CTA
	}
	item.Weight = ClassifyWeight(item, asset)
	return item
}

// formatFor maps a target channel to the production format used there
func formatFor(ch models.Channel, opts BatchOptions) models.Format {
	switch ch {
	case models.ChannelCarousel:
		return models.FormatCarousel
	case models.ChannelReels:
		return models.FormatReel
	case models.ChannelYouTube:
		return models.FormatEditedVideo
	case models.ChannelStories:
		return models.FormatStory
	case models.ChannelLinkedIn:
		if opts.Objective == models.ObjectiveTechnicalAuthority {
			return models.FormatCaseStudy
		}
		return models.FormatStatic
	default:
		return models.FormatStatic
	}
}
