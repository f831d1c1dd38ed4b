// middleware/user_context.go
package middleware

import (
	"log"
	"strings"

	"streakup/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserContextMiddleware extracts the user identity and roles forwarded by the
// Gateway and resolves the local user row. Secured routes cannot run without
// both.
func UserContextMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		externalUserID := c.Get("X-User-ID")
		rolesStr := c.Get("X-User-Roles")

		if externalUserID == "" {
			log.Printf("❌ [USER_CTX] X-User-ID required but missing on secured route: %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		var roles []string
		if rolesStr != "" {
			for _, r := range strings.Split(rolesStr, ",") {
				r = strings.TrimSpace(r)
				if r != "" {
					roles = append(roles, r)
				}
			}
		}

		var user models.User
		if err := db.Where("external_user_id = ?", externalUserID).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				// Known to the gateway but not synced locally yet.
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "user profile not synced yet, try again shortly",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "DB error resolving user",
			})
		}

		c.Locals("user_id", externalUserID)
		c.Locals("local_user_id", user.ID)
		c.Locals("user_roles", roles)

		return c.Next()
	}
}

// RequireRole guards admin-only routes.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, _ := c.Locals("user_roles").([]string)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient role",
		})
	}
}
