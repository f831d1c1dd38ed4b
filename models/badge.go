package models

import (
	"time"
)

// BadgeType: static config (loaded from DB or seeded from BadgeTriggers)
type BadgeType struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code        string `gorm:"uniqueIndex;not null"` // e.g. "FIRST_CHALLENGE", "STREAK_7"
	Name        string `gorm:"not null"`
	Description string
	IconURL     string           `gorm:"type:text"`
	Rarity      string           `gorm:"type:varchar(16);default:'common'"` // common, rare, epic, legendary
	Threshold   map[string]int64 `gorm:"type:jsonb;serializer:json"`        // e.g. {"streak": 7}, {"completed_projects": 2}
	CreatedAt   time.Time        `gorm:"autoCreateTime"`
}

// UserBadge: awarded instance (many-to-many)
type UserBadge struct {
	ID             string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ExternalUserID string    `gorm:"index;not null"`
	BadgeTypeID    string    `gorm:"index;not null"`
	AwardedAt      time.Time `gorm:"autoCreateTime"`
	Metadata       string    `gorm:"type:jsonb"` // e.g. {"challenge_id": "..."}
}

// Predefined badge triggers, checked after every progression update.
var BadgeTriggers = []BadgeType{
	{
		Code:        "FIRST_CHALLENGE",
		Name:        "First Steps",
		Description: "Completed your first challenge",
		Rarity:      "common",
		Threshold:   map[string]int64{"completed_challenges": 1},
	},
	{
		Code:        "STREAK_7",
		Name:        "On Fire",
		Description: "Reached a 7 completion streak",
		Rarity:      "rare",
		Threshold:   map[string]int64{"streak": 7},
	},
	{
		Code:        "FIRST_PROJECT",
		Name:        "Project Finisher",
		Description: "Completed your first project",
		Rarity:      "rare",
		Threshold:   map[string]int64{"completed_projects": 1},
	},
	{
		Code:        "POINTS_1000",
		Name:        "Point Collector",
		Description: "Earned 1000 lifetime points",
		Rarity:      "epic",
		Threshold:   map[string]int64{"points": 1000},
	},
	{
		Code:        "RANK_GOLD",
		Name:        "Golden",
		Description: "Reached Gold rank",
		Rarity:      "epic",
		Threshold:   map[string]int64{"completed_projects": 4},
	},
}
