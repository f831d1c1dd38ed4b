package models

import (
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Project is a point-budget container for a set of challenges. It counts as
// completed for a user once the summed points of their completed challenges
// inside it meet or exceed Points. ChallengeCount is advisory, maintained by
// admin CRUD.
type Project struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Slug        string `gorm:"uniqueIndex" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"index" json:"category"`

	Points         int `gorm:"default:0" json:"points"`
	ChallengeCount int `gorm:"default:0" json:"challenge_count"`

	Timestamps
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = slug.Make(p.Title)
	}
	return nil
}
