// services/users.go
package services

import (
	"errors"
	"strconv"
	"strings"

	"streakup/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// FindByExternalID resolves the local user row for a gateway identity.
func (s *UserService) FindByExternalID(externalUserID string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("external_user_id = ?", externalUserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SearchUsers searches local users by username or email (admin tooling).
func (s *UserService) SearchUsers(c *fiber.Ctx) error {
	query := c.Query("q", "")
	limitStr := c.Query("limit", "50")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}

	db := s.DB.Model(&models.User{}).Limit(limit)
	if query != "" {
		searchTerm := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
		db = db.Where(
			"LOWER(username) LIKE ? OR LOWER(email) LIKE ?",
			searchTerm, searchTerm,
		)
	}

	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "search failed", "details": err.Error()})
	}

	// Minimal projection — no progression internals in search results.
	type UserSummary struct {
		ID             string `json:"id"`
		ExternalUserID string `json:"external_user_id"`
		Username       string `json:"username"`
		Track          string `json:"track"`
		Rank           string `json:"rank"`
	}
	res := make([]UserSummary, len(users))
	for i, u := range users {
		res[i] = UserSummary{
			ID:             u.ID,
			ExternalUserID: u.ExternalUserID,
			Username:       u.Username,
			Track:          u.Track,
			Rank:           string(u.Rank),
		}
	}

	return c.JSON(res)
}
