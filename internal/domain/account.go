package domain

import "time"

type Account struct {
	ID                int64      `db:"id" json:"id"`
	Handle            string     `db:"handle" json:"handle"`
	ExternalID        *string    `db:"external_id" json:"external_id,omitempty"`
	DisplayName       string     `db:"display_name" json:"display_name"`
	Biography         string     `db:"biography" json:"biography"`
	ProfilePictureURL *string    `db:"profile_picture_url" json:"profile_picture_url,omitempty"`
	FollowersCount    int64      `db:"followers_count" json:"followers_count"`
	FollowingCount    int64      `db:"following_count" json:"following_count"`
	MediaCount        int64      `db:"media_count" json:"media_count"`
	IsBusiness        bool       `db:"is_business" json:"is_business"`
	IsVerified        bool       `db:"is_verified" json:"is_verified"`
	LastSyncAt        *time.Time `db:"last_sync_at" json:"last_sync_at,omitempty"`
	Active            bool       `db:"active" json:"active"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// Profile is the normalized profile payload written onto an Account.
type Profile struct {
	Handle            string
	ExternalID        string
	DisplayName       string
	Biography         string
	ProfilePictureURL *string
	FollowersCount    int64
	FollowingCount    int64
	MediaCount        int64
	IsBusiness        bool
	IsVerified        bool
}

// AccountSnapshot is a daily copy of an account's counters.
type AccountSnapshot struct {
	Handle         string    `db:"account_handle"`
	SnapshotDate   time.Time `db:"snapshot_date"`
	FollowersCount int64     `db:"followers_count"`
	FollowingCount int64     `db:"following_count"`
	MediaCount     int64     `db:"media_count"`
}
