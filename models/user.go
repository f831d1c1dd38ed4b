package models

import (
	"time"

	"gorm.io/gorm"
)

// Rank tiers, derived solely from CompletedProjects — never set by user input.
type Rank string

const (
	RankBronze   Rank = "Bronze"
	RankSilver   Rank = "Silver"
	RankGold     Rank = "Gold"
	RankPlatinum Rank = "Platinum"
)

// User is the aggregate root of progression state. Registration and profile
// editing live in the profile service; this row is a local mirror of identity
// plus the progression counters owned by this service.
type User struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // profile service UUID
	Username       string `gorm:"index;not null" json:"username"`
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	Track          string `gorm:"index" json:"track"` // e.g. "Frontend Development"

	// Progression counters. Points never go negative: redemptions that would
	// overdraw are rejected, not clamped.
	Points              int  `gorm:"default:0" json:"points"`
	Streak              int  `gorm:"default:0" json:"streak"`
	CompletedChallenges int  `gorm:"default:0" json:"completed_challenges"`
	CompletedProjects   int  `gorm:"default:0" json:"completed_projects"`
	Rank                Rank `gorm:"type:varchar(16);default:'Bronze'" json:"rank"`
	StreakSavers        int  `gorm:"default:0" json:"streak_savers"`

	LastLogin *time.Time `json:"last_login,omitempty"`
	BanUntil  *time.Time `json:"ban_until,omitempty"` // set by moderation service, mirrored here

	Timestamps
}

// IsBanned reports whether the user is blocked from completion, redemption
// and sharing actions at the given instant.
func (u *User) IsBanned(now time.Time) bool {
	return u.BanUntil != nil && u.BanUntil.After(now)
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// RemoteProfile mirrors the profile service's user payload (read-only).
// Consumed by the profile sync worker.
type RemoteProfile struct {
	ExternalID string     `json:"external_id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	FullName   string     `json:"full_name"`
	Track      string     `json:"track"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// RemoteBan mirrors the moderation service's ban payload (read-only).
// Consumed by the ban sync worker.
type RemoteBan struct {
	ExternalUserID string     `json:"external_user_id"`
	BanUntil       *time.Time `json:"ban_until"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
