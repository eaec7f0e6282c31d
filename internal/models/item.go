package models

import "time"

// Status is the lifecycle state of a content item
type Status string

const (
	StatusInbox     Status = "inbox"
	StatusGenerated Status = "generated"
	StatusReview    Status = "review"
	StatusApproved  Status = "approved"
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
	StatusMeasured  Status = "measured"
	StatusRejected  Status = "rejected"
)

// AllStatuses lists every valid lifecycle state
var AllStatuses = []Status{
	StatusInbox, StatusGenerated, StatusReview, StatusApproved,
	StatusScheduled, StatusPublished, StatusMeasured, StatusRejected,
}

// Valid reports whether s is one of the eight lifecycle states
func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether an item in this state has gone out the door.
// Rejection cascades and scheduling both leave terminal items alone.
func (s Status) Terminal() bool {
	return s == StatusPublished || s == StatusMeasured
}

// Weight is the production-cost class of an item
type Weight string

const (
	WeightHeavy Weight = "heavy"
	WeightLight Weight = "light"
)

// Channel identifies a publication target
type Channel string

const (
	ChannelFeed     Channel = "feed"
	ChannelCarousel Channel = "carousel"
	ChannelReels    Channel = "reels"
	ChannelStories  Channel = "stories"
	ChannelLinkedIn Channel = "linkedin"
	ChannelYouTube  Channel = "youtube"
)

// ChannelPreference is the fixed fan-out order for derivative items
var ChannelPreference = []Channel{
	ChannelFeed, ChannelCarousel, ChannelReels,
	ChannelStories, ChannelLinkedIn, ChannelYouTube,
}

// HeavyChannels are channels whose content is expensive to produce
var HeavyChannels = map[Channel]bool{
	ChannelCarousel: true,
	ChannelReels:    true,
	ChannelYouTube:  true,
}

// Format labels how a piece of content is produced
type Format string

const (
	FormatStatic      Format = "static"
	FormatStory       Format = "story"
	FormatCarousel    Format = "carousel"
	FormatReel        Format = "reel"
	FormatCaseStudy   Format = "case-study"
	FormatEditedVideo Format = "edited-video"
)

// HeavyFormats is the heavy-format vocabulary consulted by the weight classifier
var HeavyFormats = map[Format]bool{
	FormatCarousel:    true,
	FormatReel:        true,
	FormatCaseStudy:   true,
	FormatEditedVideo: true,
}

// ObjectiveTechnicalAuthority marks content meant to build professional credibility
const ObjectiveTechnicalAuthority = "technical-authority"

// ContentItem is the scheduling unit: one piece of content aimed at one channel
type ContentItem struct {
	ID              string         `json:"id" bson:"_id"`
	AssetID         string         `json:"asset_id" bson:"asset_id"`
	PackageID       string         `json:"package_id" bson:"package_id"`
	Channel         Channel        `json:"channel" bson:"channel"`
	Format          Format         `json:"format" bson:"format"`
	Copy            string         `json:"copy" bson:"copy"`
	Language        string         `json:"language" bson:"language"`
	Hashtags        []string       `json:"hashtags" bson:"hashtags"`
	CTA             string         `json:"cta" bson:"cta"`
	Objective       string         `json:"objective" bson:"objective"`
	Status          Status         `json:"status" bson:"status"`
	Weight          Weight         `json:"weight" bson:"weight"` // empty until classified
	WeightOverride  *Weight        `json:"weight_override,omitempty" bson:"weight_override,omitempty"`
	Score           int            `json:"score" bson:"score"` // 0-100
	IsCore          bool           `json:"is_core" bson:"is_core"`
	Pillar          string         `json:"pillar,omitempty" bson:"pillar,omitempty"`
	ProjectID       *string        `json:"project_id,omitempty" bson:"project_id,omitempty"`
	ParentID        *string        `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	DerivativeIDs   []string       `json:"derivative_ids" bson:"derivative_ids"`
	ScheduledAt     *time.Time     `json:"scheduled_at,omitempty" bson:"scheduled_at,omitempty"`
	PublishedAt     *time.Time     `json:"published_at,omitempty" bson:"published_at,omitempty"`
	MeasuredAt      *time.Time     `json:"measured_at,omitempty" bson:"measured_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at" bson:"created_at"`
	Metrics         map[string]int `json:"metrics,omitempty" bson:"metrics,omitempty"` // present only once published
	RejectionReason *string        `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
	IsBuffer        bool           `json:"is_buffer" bson:"is_buffer"`
}

// NewContentItem creates a manually captured item sitting in the inbox
func NewContentItem(channel Channel, format Format, copyText string) *ContentItem {
	return &ContentItem{
		Channel:       channel,
		Format:        format,
		Copy:          copyText,
		Status:        StatusInbox,
		Score:         50,
		Hashtags:      []string{},
		DerivativeIDs: []string{},
		CreatedAt:     time.Now(),
	}
}
