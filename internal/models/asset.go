package models

import "time"

// AssetKind is the raw media type of an uploaded asset
type AssetKind string

const (
	AssetImage AssetKind = "image"
	AssetVideo AssetKind = "video"
)

// MediaCategory describes what an asset shows
type MediaCategory string

const (
	CategoryDetail       MediaCategory = "detail"
	CategorySiteProgress MediaCategory = "site-progress"
	CategoryFinishedWork MediaCategory = "finished-work"
	CategoryStudioLife   MediaCategory = "studio-life"
)

// MediaAsset is a read-only descriptor of an uploaded photo or video.
// Produced by the upload subsystem; the engine only reads it.
type MediaAsset struct {
	ID         string        `json:"id" bson:"_id"`
	Kind       AssetKind     `json:"kind" bson:"kind"`
	Quality    *int          `json:"quality,omitempty" bson:"quality,omitempty"` // 0-100, nil if unrated
	UploadedAt time.Time     `json:"uploaded_at" bson:"uploaded_at"`
	Tags       []string      `json:"tags" bson:"tags"`
	Category   MediaCategory `json:"category" bson:"category"`
}

// NewMediaAsset creates an asset descriptor with defaults
func NewMediaAsset(kind AssetKind, category MediaCategory) *MediaAsset {
	return &MediaAsset{
		Kind:       kind,
		Category:   category,
		UploadedAt: time.Now(),
		Tags:       []string{},
	}
}

// ContentPackage holds the generated copy for one asset, keyed by
// channel and language. Produced by the generation subsystem.
type ContentPackage struct {
	ID        string                        `json:"id" bson:"_id"`
	AssetID   string                        `json:"asset_id" bson:"asset_id"`
	Copy      map[Channel]map[string]string `json:"copy" bson:"copy"`
	Hashtags  []string                      `json:"hashtags" bson:"hashtags"`
	CTA       string                        `json:"cta" bson:"cta"`
	CreatedAt time.Time                     `json:"created_at" bson:"created_at"`
}

// Text returns the localized copy for a channel, or "" when the
// package carries nothing for that channel/language pair.
func (p *ContentPackage) Text(ch Channel, language string) string {
	if p == nil {
		return ""
	}
	byLang, ok := p.Copy[ch]
	if !ok {
		return ""
	}
	return byLang[language]
}

// HasChannel reports whether the package carries any copy for a channel
func (p *ContentPackage) HasChannel(ch Channel) bool {
	if p == nil {
		return false
	}
	byLang, ok := p.Copy[ch]
	return ok && len(byLang) > 0
}
