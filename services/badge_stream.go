package services

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"streakup/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StreamUserBadgesSSE streams newly awarded badges for the authenticated
// user, so the frontend can toast them as they land.
func (s *BadgeService) StreamUserBadgesSSE(c *fiber.Ctx) error {
	externalUserID := c.Locals("user_id").(string)

	// SSE headers
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		var lastAwardedAt time.Time

		// Initialize cursor so only badges awarded after connect are pushed.
		var latest models.UserBadge
		if err := s.DB.
			Where("external_user_id = ?", externalUserID).
			Order("awarded_at DESC").
			First(&latest).Error; err == nil {
			lastAwardedAt = latest.AwardedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("SSE init error for user %s: %v", externalUserID, err)
		}

		// Initial keepalive (comment event)
		w.WriteString(":\n\n")
		w.Flush()

		for {
			select {
			case <-ticker.C:
				var fresh []models.UserBadge
				err := s.DB.
					Where("external_user_id = ? AND awarded_at > ?", externalUserID, lastAwardedAt).
					Order("awarded_at ASC").
					Find(&fresh).Error
				if err != nil {
					log.Printf("SSE query error for user %s: %v", externalUserID, err)
					continue
				}
				if len(fresh) == 0 {
					continue
				}

				lastAwardedAt = fresh[len(fresh)-1].AwardedAt

				for _, b := range fresh {
					payload, _ := json.Marshal(b)
					fmt.Fprintf(w, "event: badge\ndata: %s\n\n", payload)
				}

				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}

			case <-c.Context().Done():
				return
			}
		}
	})

	return nil
}
