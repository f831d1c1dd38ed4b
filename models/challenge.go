package models

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// DefaultChallengePoints is awarded when a challenge has no explicit point value.
const DefaultChallengePoints = 50

// Challenge is created by admin CRUD (out of scope here); this service only
// touches its own scoped counters (Likes, Views, Shares).
type Challenge struct {
	ID          string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title       string  `gorm:"not null" json:"title"`
	Slug        string  `gorm:"uniqueIndex" json:"slug"`
	Description string  `gorm:"type:text" json:"description"`
	Category    string  `gorm:"index;not null" json:"category"` // must match user's track
	Points      int     `gorm:"default:0" json:"points"`
	ProjectID   *string `gorm:"index;type:uuid" json:"project_id,omitempty"`

	Likes  int `gorm:"default:0" json:"likes"`
	Views  int `gorm:"default:0" json:"views"`
	Shares int `gorm:"default:0" json:"shares"`

	Timestamps
}

func (c *Challenge) BeforeCreate(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = slug.Make(c.Title)
	}
	return nil
}

// AwardPoints returns the point value a completion of this challenge earns.
func (c *Challenge) AwardPoints() int {
	if c.Points <= 0 {
		return DefaultChallengePoints
	}
	return c.Points
}

// CompletedChallenge records a user's first completion of a challenge. The
// unique (user_id, challenge_id) index is the single idempotency key for
// "has this user already been awarded points for this challenge" — inserts
// go through ON CONFLICT DO NOTHING so two racing completions can never both
// award points.
type CompletedChallenge struct {
	ID            string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID        string    `gorm:"uniqueIndex:idx_completed_user_challenge;not null;type:uuid" json:"user_id"`
	ChallengeID   string    `gorm:"uniqueIndex:idx_completed_user_challenge;not null;type:uuid" json:"challenge_id"`
	PointsAwarded int       `json:"points_awarded"`
	CompletedAt   time.Time `gorm:"autoCreateTime" json:"completed_at"`
}

// StartedChallenge tracks challenges accepted but not yet completed.
// Disjoint bookkeeping — not part of the point math.
type StartedChallenge struct {
	ID          string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID      string    `gorm:"uniqueIndex:idx_started_user_challenge;not null;type:uuid" json:"user_id"`
	ChallengeID string    `gorm:"uniqueIndex:idx_started_user_challenge;not null;type:uuid" json:"challenge_id"`
	StartedAt   time.Time `gorm:"autoCreateTime" json:"started_at"`
}

// SharedChallenge is a user's public share of a completed challenge. The
// Highlight reward pins it for 24h via Highlighted/HighlightExpiresAt.
type SharedChallenge struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID      string `gorm:"index;not null;type:uuid" json:"user_id"`
	ChallengeID string `gorm:"index;not null;type:uuid" json:"challenge_id"`
	Link        string `gorm:"type:text" json:"link"`
	Caption     string `gorm:"type:text" json:"caption"`

	Highlighted        bool       `gorm:"default:false;index" json:"highlighted"`
	HighlightExpiresAt *time.Time `json:"highlight_expires_at,omitempty"`

	Timestamps
}
