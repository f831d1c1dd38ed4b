// services/challenges.go
package services

import (
	"errors"
	"log"
	"time"

	"streakup/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChallengeService holds the thin challenge actions. The progression rules
// themselves live in CompletionService — every action that can complete a
// challenge delegates there.
type ChallengeService struct {
	DB          *gorm.DB
	Completions *CompletionService
}

func NewChallengeService(db *gorm.DB, completions *CompletionService) *ChallengeService {
	return &ChallengeService{DB: db, Completions: completions}
}

// GetChallenges lists challenges, optionally filtered by category.
func (s *ChallengeService) GetChallenges(c *fiber.Ctx) error {
	query := s.DB.Order("created_at DESC")
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if projectID := c.Query("project_id"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}

	var challenges []models.Challenge
	if err := query.Find(&challenges).Error; err != nil {
		log.Printf("DB Error fetching challenges: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch challenges"})
	}
	return c.JSON(challenges)
}

// GetChallengeByID returns one challenge and counts the view.
func (s *ChallengeService) GetChallengeByID(c *fiber.Ctx) error {
	id := c.Params("id")

	var challenge models.Challenge
	if err := s.DB.First(&challenge, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Challenge not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Model(&challenge).
		UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		log.Printf("View count update failed for challenge %s: %v", id, err)
	}
	challenge.Views++

	return c.JSON(challenge)
}

// LikeChallenge is the "complete" action from the challenge detail page: it
// bumps the like counter and runs the completion evaluator. Re-liking an
// already completed challenge is still a 200 with accepted=false.
func (s *ChallengeService) LikeChallenge(c *fiber.Ctx) error {
	userID := c.Locals("local_user_id").(string)
	challengeID := c.Params("id")

	result, err := s.Completions.EvaluateCompletion(userID, challengeID)
	if err != nil {
		return RespondDomainError(c, err)
	}

	if result.Accepted {
		if err := s.DB.Model(&models.Challenge{}).
			Where("id = ?", challengeID).
			UpdateColumn("likes", gorm.Expr("likes + 1")).Error; err != nil {
			log.Printf("Like count update failed for challenge %s: %v", challengeID, err)
		}
	}

	return c.JSON(result)
}

// ShareChallenge records a public share and runs the completion evaluator —
// sharing counts as completing, through the exact same guarded path.
func (s *ChallengeService) ShareChallenge(c *fiber.Ctx) error {
	userID := c.Locals("local_user_id").(string)
	challengeID := c.Params("id")

	var req struct {
		Link    string `json:"link"`
		Caption string `json:"caption"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := s.Completions.EvaluateCompletion(userID, challengeID)
	if err != nil {
		return RespondDomainError(c, err)
	}

	shared := models.SharedChallenge{
		UserID:      userID,
		ChallengeID: challengeID,
		Link:        req.Link,
		Caption:     req.Caption,
	}
	if err := s.DB.Create(&shared).Error; err != nil {
		log.Printf("DB Error creating shared challenge: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to share challenge"})
	}

	if err := s.DB.Model(&models.Challenge{}).
		Where("id = ?", challengeID).
		UpdateColumn("shares", gorm.Expr("shares + 1")).Error; err != nil {
		log.Printf("Share count update failed for challenge %s: %v", challengeID, err)
	}

	return c.JSON(fiber.Map{
		"shared":     shared,
		"completion": result,
	})
}

// StartChallenge marks a challenge as accepted. Idempotent — starting twice
// is a no-op.
func (s *ChallengeService) StartChallenge(c *fiber.Ctx) error {
	userID := c.Locals("local_user_id").(string)
	challengeID := c.Params("id")

	var challenge models.Challenge
	if err := s.DB.First(&challenge, "id = ?", challengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Challenge not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	started := models.StartedChallenge{UserID: userID, ChallengeID: challengeID}
	if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&started).Error; err != nil {
		log.Printf("DB Error starting challenge: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start challenge"})
	}

	return c.JSON(fiber.Map{"message": "Challenge started", "challenge_id": challengeID})
}

// GetSharedChallenges returns the share feed, highlighted entries first.
func (s *ChallengeService) GetSharedChallenges(c *fiber.Ctx) error {
	var shares []models.SharedChallenge
	if err := s.DB.Order("highlighted DESC, created_at DESC").
		Limit(100).
		Find(&shares).Error; err != nil {
		log.Printf("DB Error fetching shared challenges: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch shared challenges"})
	}

	// The expiry sweeper runs every minute; a highlight that lapsed since its
	// last pass must not render as pinned.
	now := time.Now()
	for i := range shares {
		if HighlightExpired(&shares[i], now) {
			shares[i].Highlighted = false
			shares[i].HighlightExpiresAt = nil
		}
	}
	return c.JSON(shares)
}

// GetProjects lists projects in creation order — the same ordering the
// requirement resolver depends on.
func (s *ChallengeService) GetProjects(c *fiber.Ctx) error {
	var projects []models.Project
	if err := s.DB.Order("created_at ASC").Find(&projects).Error; err != nil {
		log.Printf("DB Error fetching projects: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch projects"})
	}
	return c.JSON(projects)
}
