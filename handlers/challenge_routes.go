// handlers/challenge_routes.go
package handlers

import (
	"streakup/middleware"
	"streakup/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupChallengeRoutes(app *fiber.App, db *gorm.DB, challengeService *services.ChallengeService) {
	// 🔓 Public routes — no user context, but still behind Gateway auth
	app.Get("/challenges", challengeService.GetChallenges)
	app.Get("/challenges/:id", challengeService.GetChallengeByID)
	app.Get("/projects", challengeService.GetProjects)
	app.Get("/shared-challenges", challengeService.GetSharedChallenges)

	// 🔐 Secured routes — user context required
	secured := app.Group("/", middleware.UserContextMiddleware(db))

	secured.Post("/challenges/:id/start", challengeService.StartChallenge)
	secured.Post("/challenges/:id/like", challengeService.LikeChallenge)
	secured.Post("/challenges/:id/share", challengeService.ShareChallenge)
}
