// handlers/user_routes.go
package handlers

import (
	"streakup/middleware"
	"streakup/models"
	"streakup/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupUserRoutes(app *fiber.App, db *gorm.DB, userService *services.UserService, badgeService *services.BadgeService) {
	secured := app.Group("/", middleware.UserContextMiddleware(db))

	secured.Get("/users/search", middleware.RequireRole("admin"), userService.SearchUsers)

	secured.Get("/user/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("local_user_id").(string)

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "DB error fetching progress",
				"cause": err.Error(),
			})
		}

		// Recent first-time completions for the activity feed.
		type RecentCompletion struct {
			ChallengeID   string `json:"challenge_id"`
			Title         string `json:"title"`
			PointsAwarded int    `json:"points_awarded"`
			CompletedAt   string `json:"completed_at"`
		}
		var recent []RecentCompletion
		if err := db.Raw(`
		SELECT cc.challenge_id, ch.title, cc.points_awarded, cc.completed_at
		FROM completed_challenges cc
		INNER JOIN challenges ch ON ch.id = cc.challenge_id
		WHERE cc.user_id = ?
		ORDER BY cc.completed_at DESC
		LIMIT 5
	`, userID).Scan(&recent).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch recent completions",
				"cause": err.Error(),
			})
		}

		var startedCount int64
		db.Model(&models.StartedChallenge{}).Where("user_id = ?", userID).Count(&startedCount)

		return c.JSON(fiber.Map{
			"id":                   user.ID,
			"username":             user.Username,
			"track":                user.Track,
			"points":               user.Points,
			"streak":               user.Streak,
			"streak_savers":        user.StreakSavers,
			"completed_challenges": user.CompletedChallenges,
			"completed_projects":   user.CompletedProjects,
			"started_challenges":   startedCount,
			"rank":                 user.Rank,
			"recent_completions":   recent,
		})
	})

	secured.Get("/user/badges", func(c *fiber.Ctx) error {
		externalUserID := c.Locals("user_id").(string)

		type AwardedBadge struct {
			ID          string `json:"id"`
			Code        string `json:"code"`
			Name        string `json:"name"`
			Description string `json:"description"`
			IconURL     string `json:"icon_url"`
			Rarity      string `json:"rarity"`
			AwardedAt   string `json:"awarded_at"`
		}
		var badges []AwardedBadge
		if err := db.Raw(`
		SELECT ub.id, bt.code, bt.name, bt.description, bt.icon_url, bt.rarity, ub.awarded_at
		FROM user_badges ub
		INNER JOIN badge_types bt ON bt.id = ub.badge_type_id
		WHERE ub.external_user_id = ?
		ORDER BY ub.awarded_at DESC
	`, externalUserID).Scan(&badges).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get badges",
				"cause": err.Error(),
			})
		}
		return c.JSON(badges)
	})

	secured.Get("/user/badges/stream", badgeService.StreamUserBadgesSSE)
}
