// services/scheduler.go
package services

import (
	"log"
	"time"

	"streakup/models"

	"github.com/go-co-op/gocron/v2"
)

// StartHighlightExpiryScheduler clears share highlights whose 24h window has
// passed. Expiry is a display concern only — no points move here.
func (s *RewardService) StartHighlightExpiryScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			now := time.Now()
			res := s.DB.Model(&models.SharedChallenge{}).
				Where("highlighted = ? AND highlight_expires_at <= ?", true, now).
				Updates(map[string]interface{}{
					"highlighted":          false,
					"highlight_expires_at": nil,
				})
			if res.Error != nil {
				log.Printf("[Scheduler] DB error expiring highlights: %v", res.Error)
				return
			}
			if res.RowsAffected > 0 {
				log.Printf("✅ Expired %d share highlight(s)", res.RowsAffected)
			}
		}),
	)
}
