// Package normalizer converts raw Instagram payloads into canonical records.
//
// Every function is pure: the same payload and reference time always produce
// the same record. Required fields that are absent yield a
// *domain.MalformedPayloadError instead of a partially filled record.
package normalizer

import (
	"math"
	"regexp"
	"strings"
	"time"

	"insta_syncer/internal/domain"
	"insta_syncer/internal/source/instagram"
)

// StoryLifetime is the expiry applied when a story payload carries none.
const StoryLifetime = 24 * time.Hour

var (
	hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	// A mention starts the text or follows a non-handle character, so email
	// addresses are not mentions.
	mentionPattern = regexp.MustCompile(`(?:^|[^\p{L}\p{N}_.@])@([\p{L}\p{N}_.]+)`)
)

// timestampLayouts lists the formats the API has been observed to use.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
}

// Profile maps a raw profile payload to a domain.Profile.
func Profile(raw *instagram.ProfilePayload) (domain.Profile, error) {
	if raw == nil {
		return domain.Profile{}, &domain.MalformedPayloadError{Kind: "profile", Field: "body"}
	}
	if raw.Username == nil || *raw.Username == "" {
		return domain.Profile{}, &domain.MalformedPayloadError{Kind: "profile", Field: "username"}
	}

	return domain.Profile{
		Handle:            *raw.Username,
		ExternalID:        deref(raw.ID),
		DisplayName:       raw.FullName,
		Biography:         raw.Biography,
		ProfilePictureURL: raw.ProfilePictureURL,
		FollowersCount:    count(raw.FollowersCount),
		FollowingCount:    count(raw.FollowsCount),
		MediaCount:        count(raw.MediaCount),
		IsBusiness:        raw.IsBusinessAccount,
		IsVerified:        raw.IsVerified,
	}, nil
}

// Media maps one raw media payload owned by handle to a domain.MediaItem.
func Media(handle string, raw instagram.MediaPayload, now time.Time) (domain.MediaItem, error) {
	if raw.ID == nil || *raw.ID == "" {
		return domain.MediaItem{}, &domain.MalformedPayloadError{Kind: "media", Field: "id"}
	}
	if raw.Timestamp == nil {
		return domain.MediaItem{}, &domain.MalformedPayloadError{Kind: "media", Field: "timestamp"}
	}
	publishedAt, ok := parseTimestamp(*raw.Timestamp)
	if !ok {
		return domain.MediaItem{}, &domain.MalformedPayloadError{Kind: "media", Field: "timestamp"}
	}

	item := domain.MediaItem{
		ExternalID:    *raw.ID,
		AccountHandle: handle,
		Kind:          MediaKind(raw),
		MediaURL:      raw.MediaURL,
		Permalink:     raw.Permalink,
		Caption:       raw.Caption,
		PublishedAt:   publishedAt,
		Likes:         count(raw.LikeCount),
		Comments:      count(raw.CommentCount),
		Shares:        count(raw.ShareCount),
		Views:         count(raw.ViewCount),
		Saves:         count(raw.SaveCount),
		Hashtags:      raw.Hashtags,
		Mentions:      raw.Mentions,
		UpdatedAt:     now,
	}
	item.EngagementRate = EngagementRate(item.Likes, item.Comments, item.Shares, item.Views)

	if len(item.Hashtags) == 0 {
		item.Hashtags = Hashtags(raw.Caption)
	}
	if len(item.Mentions) == 0 {
		item.Mentions = Mentions(raw.Caption)
	}

	return item, nil
}

// Story maps one raw story payload owned by handle to a domain.StoryItem.
func Story(handle string, raw instagram.StoryPayload, now time.Time) (domain.StoryItem, error) {
	if raw.ID == nil || *raw.ID == "" {
		return domain.StoryItem{}, &domain.MalformedPayloadError{Kind: "story", Field: "id"}
	}
	if raw.Timestamp == nil {
		return domain.StoryItem{}, &domain.MalformedPayloadError{Kind: "story", Field: "timestamp"}
	}
	publishedAt, ok := parseTimestamp(*raw.Timestamp)
	if !ok {
		return domain.StoryItem{}, &domain.MalformedPayloadError{Kind: "story", Field: "timestamp"}
	}

	expiresAt := publishedAt.Add(StoryLifetime)
	if raw.ExpiringAt != nil {
		if t, ok := parseTimestamp(*raw.ExpiringAt); ok {
			expiresAt = t
		}
	}

	kind := domain.StoryKindImage
	if strings.EqualFold(raw.MediaType, "VIDEO") {
		kind = domain.StoryKindVideo
	}

	return domain.StoryItem{
		ExternalID:    *raw.ID,
		AccountHandle: handle,
		Kind:          kind,
		MediaURL:      raw.MediaURL,
		Views:         count(raw.ViewCount),
		Replies:       count(raw.ReplyCount),
		PublishedAt:   publishedAt,
		ExpiresAt:     expiresAt,
		UpdatedAt:     now,
	}, nil
}

// MediaKind classifies a raw media payload.
func MediaKind(raw instagram.MediaPayload) domain.MediaKind {
	switch strings.ToUpper(raw.MediaType) {
	case "VIDEO", "REELS":
		return domain.MediaKindReel
	case "CAROUSEL_ALBUM":
		return domain.MediaKindCarousel
	}
	if raw.Children != nil && len(raw.Children.Data) > 1 {
		return domain.MediaKindCarousel
	}
	return domain.MediaKindPost
}

// EngagementRate returns (likes+comments+shares) per hundred views, rounded
// to two decimals. Zero views yield 0.
func EngagementRate(likes, comments, shares, views int64) float64 {
	if views <= 0 {
		return 0
	}
	rate := float64(likes+comments+shares) * 100 / float64(views)
	return math.Round(rate*100) / 100
}

// Hashtags extracts unique #tags from caption in order of appearance.
func Hashtags(caption string) []string {
	return extract(hashtagPattern, caption, "")
}

// Mentions extracts unique @handles from caption in order of appearance.
func Mentions(caption string) []string {
	return extract(mentionPattern, caption, ".")
}

func extract(re *regexp.Regexp, text, trim string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		v := m[1]
		if trim != "" {
			v = strings.Trim(v, trim)
		}
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func count(v *int64) int64 {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
