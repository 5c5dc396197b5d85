package instagram

// Raw payloads returned by the external API. Required values are pointers so
// the normalizer can tell a missing field from a zero one.

type ProfilePayload struct {
	ID                *string `json:"id"`
	Username          *string `json:"username"`
	FullName          string  `json:"full_name"`
	Biography         string  `json:"biography"`
	ProfilePictureURL *string `json:"profile_picture_url"`
	FollowersCount    *int64  `json:"followers_count"`
	FollowsCount      *int64  `json:"follows_count"`
	MediaCount        *int64  `json:"media_count"`
	IsBusinessAccount bool    `json:"is_business_account"`
	IsVerified        bool    `json:"is_verified"`
}

type MediaResponse struct {
	Data []MediaPayload `json:"data"`
}

type MediaPayload struct {
	ID           *string   `json:"id"`
	MediaType    string    `json:"media_type"`
	MediaURL     *string   `json:"media_url"`
	Permalink    string    `json:"permalink"`
	Caption      string    `json:"caption"`
	Timestamp    *string   `json:"timestamp"`
	LikeCount    *int64    `json:"like_count"`
	CommentCount *int64    `json:"comment_count"`
	ShareCount   *int64    `json:"share_count"`
	ViewCount    *int64    `json:"view_count"`
	SaveCount    *int64    `json:"save_count"`
	Hashtags     []string  `json:"hashtags"`
	Mentions     []string  `json:"mentions"`
	Children     *Children `json:"children"`
}

type Children struct {
	Data []ChildPayload `json:"data"`
}

type ChildPayload struct {
	ID        string `json:"id"`
	MediaType string `json:"media_type"`
	MediaURL  string `json:"media_url"`
}

type StoriesResponse struct {
	Data []StoryPayload `json:"data"`
}

type StoryPayload struct {
	ID         *string `json:"id"`
	MediaType  string  `json:"media_type"`
	MediaURL   *string `json:"media_url"`
	Timestamp  *string `json:"timestamp"`
	ExpiringAt *string `json:"expiring_at"`
	ViewCount  *int64  `json:"view_count"`
	ReplyCount *int64  `json:"reply_count"`
}
