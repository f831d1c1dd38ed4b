// handlers/certificate_routes.go
package handlers

import (
	"log"

	"streakup/middleware"
	"streakup/models"
	"streakup/services"
	"streakup/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupCertificateRoutes(app *fiber.App, db *gorm.DB, certificateService *services.CertificateService, userService *services.UserService) {
	// The certificate renderer posts the finished artifact here, addressed by
	// gateway identity. Service-to-service: gateway token only, no user
	// context headers.
	app.Post("/internal/certificates/:externalUserId/:rank/artifact", func(c *fiber.Ctx) error {
		rank := models.Rank(c.Params("rank"))

		user, err := userService.FindByExternalID(c.Params("externalUserId"))
		if err != nil {
			return services.RespondDomainError(c, err)
		}

		// An artifact without a paid certificate behind it is a renderer bug.
		if _, err := certificateService.CertificateDownloadURL(user.ID, rank); err != nil {
			return services.RespondDomainError(c, err)
		}

		contentType := c.Get("Content-Type", "image/png")
		url, err := utils.UploadCertificateArtifact(user.ID, string(rank), c.Body(), contentType)
		if err != nil {
			log.Printf("❌ Artifact upload failed: user=%s rank=%s: %v", user.ExternalUserID, rank, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "artifact upload failed"})
		}
		return c.JSON(fiber.Map{"url": url})
	})

	secured := app.Group("/", middleware.UserContextMiddleware(db))

	// Progress bars for Silver/Gold/Platinum, thresholds resolved fresh on
	// every call.
	secured.Get("/certificates", func(c *fiber.Ctx) error {
		userID := c.Locals("local_user_id").(string)

		entries, err := certificateService.CertificateStatus(userID)
		if err != nil {
			return services.RespondDomainError(c, err)
		}
		return c.JSON(entries)
	})

	secured.Post("/certificates/:rank/unlock", func(c *fiber.Ctx) error {
		userID := c.Locals("local_user_id").(string)
		rank := models.Rank(c.Params("rank"))

		var req struct {
			PaymentMethod string `json:"payment_method"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		cert, err := certificateService.UnlockCertificate(userID, rank, req.PaymentMethod)
		if err != nil {
			return services.RespondDomainError(c, err)
		}
		return c.JSON(cert)
	})

	// Download is gated on paid=true; the artifact itself lives on the CDN.
	secured.Get("/certificates/:rank/download", func(c *fiber.Ctx) error {
		userID := c.Locals("local_user_id").(string)
		rank := models.Rank(c.Params("rank"))

		url, err := certificateService.CertificateDownloadURL(userID, rank)
		if err != nil {
			return services.RespondDomainError(c, err)
		}
		return c.Redirect(url, fiber.StatusFound)
	})
}
