// handlers/reward_routes.go
package handlers

import (
	"streakup/middleware"
	"streakup/models"
	"streakup/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRewardRoutes(app *fiber.App, db *gorm.DB, rewardService *services.RewardService) {
	// Catalog is public: a fixed, closed set rendered by the reward store UI.
	app.Get("/rewards", func(c *fiber.Ctx) error {
		return c.JSON([]fiber.Map{
			{
				"name":        models.RewardHighlight,
				"cost":        services.RewardCosts[models.RewardHighlight],
				"description": "Pin one of your shared challenges to the top of the feed for 24 hours",
			},
			{
				"name":        models.RewardStreakSaver,
				"cost":        services.RewardCosts[models.RewardStreakSaver],
				"description": "Save your streak when you missed a day",
			},
			{
				"name":        models.RewardChallengeBoost,
				"cost":        services.RewardCosts[models.RewardChallengeBoost],
				"description": "Instantly complete a challenge you haven't finished yet",
			},
		})
	})

	secured := app.Group("/", middleware.UserContextMiddleware(db))

	secured.Post("/rewards/redeem", func(c *fiber.Ctx) error {
		userID := c.Locals("local_user_id").(string)

		var req struct {
			Reward string                `json:"reward"`
			Params services.RedeemParams `json:"params"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		result, err := rewardService.Redeem(userID, req.Reward, req.Params)
		if err != nil {
			return services.RespondDomainError(c, err)
		}
		return c.JSON(result)
	})

	secured.Get("/rewards/redemptions", func(c *fiber.Ctx) error {
		userID := c.Locals("local_user_id").(string)

		var redemptions []models.Redemption
		if err := db.Where("user_id = ?", userID).
			Order("redeemed_at DESC").
			Limit(50).
			Find(&redemptions).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch redemptions"})
		}
		return c.JSON(redemptions)
	})
}
