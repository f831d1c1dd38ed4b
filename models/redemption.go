package models

import "time"

// Reward names form a closed set — adding a reward type is a code change.
const (
	RewardHighlight      = "Highlight Shared Challenge"
	RewardStreakSaver    = "Streak Saver"
	RewardChallengeBoost = "Challenge Boost"
)

// Redemption is the audit record of a successful reward purchase. Written in
// the same transaction as the point debit, so the log never disagrees with
// the balance.
type Redemption struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID   string `gorm:"index;not null;type:uuid" json:"user_id"`
	Reward   string `gorm:"not null" json:"reward"`
	Cost     int    `gorm:"not null" json:"cost"`
	Metadata string `gorm:"type:jsonb" json:"metadata,omitempty"` // e.g. {"challenge_id": "..."}

	RedeemedAt time.Time `gorm:"autoCreateTime" json:"redeemed_at"`
}
