package domain

import "time"

type MediaKind string

const (
	MediaKindPost     MediaKind = "post"
	MediaKindReel     MediaKind = "reel"
	MediaKindCarousel MediaKind = "carousel"
)

type MediaItem struct {
	ExternalID     string
	AccountHandle  string
	Kind           MediaKind
	MediaURL       *string
	Permalink      string
	Caption        string
	PublishedAt    time.Time
	Likes          int64
	Comments       int64
	Shares         int64
	Views          int64
	Saves          int64
	EngagementRate float64
	Hashtags       []string
	Mentions       []string
	UpdatedAt      time.Time
}

type StoryKind string

const (
	StoryKindImage StoryKind = "image"
	StoryKindVideo StoryKind = "video"
)

type StoryItem struct {
	ExternalID    string
	AccountHandle string
	Kind          StoryKind
	MediaURL      *string
	Views         int64
	Replies       int64
	PublishedAt   time.Time
	ExpiresAt     time.Time
	UpdatedAt     time.Time
}
