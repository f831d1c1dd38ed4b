package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"streakup/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompletionService owns the single evaluation path for challenge
// completions. The like action, the share action and the Challenge Boost
// reward all go through EvaluateCompletion — one implementation, so no call
// site can bypass the idempotency guard or skip the rank recomputation.
type CompletionService struct {
	DB       *gorm.DB
	Notifier Notifier
}

func NewCompletionService(db *gorm.DB, notifier Notifier) *CompletionService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &CompletionService{DB: db, Notifier: notifier}
}

// CompletionResult reports what a completion attempt did. Accepted=false
// means the challenge was already completed: a no-op, still returned as
// success to callers so re-liking never errors.
type CompletionResult struct {
	Accepted             bool        `json:"accepted"`
	PointsAwarded        int         `json:"points_awarded"`
	ProjectJustCompleted bool        `json:"project_just_completed"`
	RankChanged          bool        `json:"rank_changed"`
	Rank                 models.Rank `json:"rank"`
	User                 *models.User `json:"user,omitempty"`
}

// EvaluateCompletion runs the full completion rule set for one user and one
// challenge inside a single transaction, then fires the certificate notice
// when a rank transition happened.
func (s *CompletionService) EvaluateCompletion(userID, challengeID string) (*CompletionResult, error) {
	var result *CompletionResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = s.evaluateCompletionTx(tx, userID, challengeID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifyRankUp(result)
	return result, nil
}

// evaluateCompletionTx is the transactional body, shared with the Challenge
// Boost redemption which needs the evaluation inside its own transaction.
func (s *CompletionService) evaluateCompletionTx(tx *gorm.DB, userID, challengeID string) (*CompletionResult, error) {
	now := time.Now()

	// Lock the user row: the user document is the serialization boundary for
	// all progression state (points, streak, counters, rank).
	var user models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var challenge models.Challenge
	if err := tx.First(&challenge, "id = ?", challengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := completionPreconditions(&user, &challenge, now); err != nil {
		return nil, err
	}

	// Resolve the owning project before any mutation. A dangling project
	// reference is fatal for the request: skipping it silently would corrupt
	// the project point totals.
	var project *models.Project
	if challenge.ProjectID != nil {
		project = &models.Project{}
		if err := tx.First(project, "id = ?", *challenge.ProjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProjectNotFound
			}
			return nil, err
		}
	}

	awarded := challenge.AwardPoints()

	// Idempotency guard: add-to-set only if absent. The unique
	// (user_id, challenge_id) index plus ON CONFLICT DO NOTHING means that of
	// two racing completions exactly one inserts a row; the loser sees zero
	// rows affected and backs off without awarding anything.
	record := models.CompletedChallenge{
		UserID:        user.ID,
		ChallengeID:   challenge.ID,
		PointsAwarded: awarded,
	}
	insert := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
	if insert.Error != nil {
		return nil, insert.Error
	}
	alreadyCompleted := insert.RowsAffected == 0

	// Project-completion detection reads the existing aggregation at
	// evaluation time, never a cached total.
	priorProjectPoints := 0
	if project != nil && !alreadyCompleted {
		prior, err := s.completedProjectPoints(tx, user.ID, project.ID, challenge.ID)
		if err != nil {
			return nil, err
		}
		priorProjectPoints = prior
	}

	result := evaluateKernel(&user, &challenge, project, alreadyCompleted, priorProjectPoints)
	if !result.Accepted {
		return result, nil
	}

	// The started entry, if any, is consumed by completion.
	if err := tx.Where("user_id = ? AND challenge_id = ?", user.ID, challenge.ID).
		Delete(&models.StartedChallenge{}).Error; err != nil {
		return nil, err
	}

	if err := tx.Save(&user).Error; err != nil {
		return nil, err
	}

	// Auto-award badges, fire-and-forget.
	badgeSvc := NewBadgeService(tx)
	_ = badgeSvc.AutoAwardBadges(&user)

	log.Printf("🏁 Completion: user=%s challenge=%s +%dpt streak=%d projects=%d rank=%s",
		user.ExternalUserID, challenge.ID, result.PointsAwarded, user.Streak, user.CompletedProjects, user.Rank)

	return result, nil
}

// completedProjectPoints sums the awarded points of the user's previously
// completed challenges belonging to the project, excluding the challenge
// currently being evaluated.
func (s *CompletionService) completedProjectPoints(tx *gorm.DB, userID, projectID, excludeChallengeID string) (int, error) {
	var total int
	err := tx.Model(&models.CompletedChallenge{}).
		Select("COALESCE(SUM(completed_challenges.points_awarded), 0)").
		Joins("JOIN challenges ON challenges.id = completed_challenges.challenge_id").
		Where("completed_challenges.user_id = ?", userID).
		Where("challenges.project_id = ?", projectID).
		Where("completed_challenges.challenge_id <> ?", excludeChallengeID).
		Scan(&total).Error
	return total, err
}

// completionPreconditions rejects banned users and out-of-track challenges
// before anything is touched.
func completionPreconditions(user *models.User, challenge *models.Challenge, now time.Time) error {
	if user.IsBanned(now) {
		return fmt.Errorf("%w: user is banned until %s", ErrForbidden, user.BanUntil.Format(time.RFC3339))
	}
	if challenge.Category != user.Track {
		return fmt.Errorf("%w: challenge is outside your track", ErrForbidden)
	}
	return nil
}

// evaluateKernel is the completion rule set on in-memory documents: the
// idempotency guard, then the state transition. No I/O.
func evaluateKernel(user *models.User, challenge *models.Challenge, project *models.Project, alreadyCompleted bool, priorProjectPoints int) *CompletionResult {
	if alreadyCompleted {
		return &CompletionResult{Accepted: false, Rank: user.Rank, User: user}
	}
	return applyCompletion(user, challenge, project, priorProjectPoints)
}

// applyCompletion is the state transition for a first-time completion:
// counters, points, project threshold, rank.
func applyCompletion(user *models.User, challenge *models.Challenge, project *models.Project, priorProjectPoints int) *CompletionResult {
	awarded := challenge.AwardPoints()

	user.CompletedChallenges++
	user.Streak++
	user.Points += awarded

	result := &CompletionResult{
		Accepted:      true,
		PointsAwarded: awarded,
		User:          user,
	}

	// The counter moves only when THIS completion crosses the budget: prior
	// points strictly below, prior+awarded at or above. A project whose
	// challenges sum past its budget must not complete a second time.
	if project != nil {
		if priorProjectPoints < project.Points && priorProjectPoints+awarded >= project.Points {
			user.CompletedProjects++
			result.ProjectJustCompleted = true
		}
	}

	oldRank := user.Rank
	user.Rank = RankForCompletedProjects(user.CompletedProjects)
	result.Rank = user.Rank
	result.RankChanged = user.Rank != oldRank

	return result
}

// notifyRankUp emits the certificate notice after a commit when the rank
// moved to a certificate-bearing tier. Fire-and-forget: the point/rank
// mutation already stands.
func (s *CompletionService) notifyRankUp(result *CompletionResult) {
	if result == nil || !result.RankChanged || result.Rank == models.RankBronze {
		return
	}
	s.Notifier.NotifyCertificate(CertificateNotice{
		RecipientEmail: result.User.Email,
		FullName:       result.User.FullName,
		Rank:           result.Rank,
	})
}
