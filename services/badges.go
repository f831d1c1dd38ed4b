package services

import (
	"fmt"

	"streakup/models"

	"gorm.io/gorm"
)

type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// SeedBadgeTypes inserts the predefined triggers on first boot (idempotent).
func (s *BadgeService) SeedBadgeTypes() error {
	for i := range models.BadgeTriggers {
		trigger := &models.BadgeTriggers[i]
		var existing models.BadgeType
		err := s.DB.Where("code = ?", trigger.Code).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := s.DB.Create(trigger).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		trigger.ID = existing.ID
	}
	return nil
}

// AutoAwardBadges checks all badge triggers for a user after a progression
// update and awards anything newly earned.
func (s *BadgeService) AutoAwardBadges(user *models.User) error {
	var triggers []models.BadgeType
	if err := s.DB.Find(&triggers).Error; err != nil {
		return err
	}

	var awarded []string
	for _, trigger := range triggers {
		if !meetsThreshold(user, trigger.Threshold) {
			continue
		}
		// Check if already awarded
		var count int64
		s.DB.Model(&models.UserBadge{}).
			Where("external_user_id = ? AND badge_type_id = ?", user.ExternalUserID, trigger.ID).
			Count(&count)
		if count == 0 {
			userBadge := models.UserBadge{
				ExternalUserID: user.ExternalUserID,
				BadgeTypeID:    trigger.ID,
			}
			if err := s.DB.Create(&userBadge).Error; err != nil {
				return err
			}
			awarded = append(awarded, trigger.Name)
			fmt.Printf("🎖️ Badge awarded: %s → %s\n", trigger.Name, user.ExternalUserID)
		}
	}

	_ = awarded // could feed a push-notification event later
	return nil
}

func meetsThreshold(user *models.User, req map[string]int64) bool {
	for key, required := range req {
		switch key {
		case "points":
			if int64(user.Points) < required {
				return false
			}
		case "streak":
			if int64(user.Streak) < required {
				return false
			}
		case "completed_challenges":
			if int64(user.CompletedChallenges) < required {
				return false
			}
		case "completed_projects":
			if int64(user.CompletedProjects) < required {
				return false
			}
		case "streak_savers":
			if int64(user.StreakSavers) < required {
				return false
			}
		}
	}
	return true
}
