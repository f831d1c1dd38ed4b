// services/rewards.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"streakup/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RewardCosts is the closed reward catalog. Adding a reward is a code change,
// not configuration.
var RewardCosts = map[string]int{
	models.RewardHighlight:      400,
	models.RewardStreakSaver:    200,
	models.RewardChallengeBoost: 500,
}

// HighlightDuration is how long a highlighted share stays pinned.
const HighlightDuration = 24 * time.Hour

type RewardService struct {
	DB          *gorm.DB
	Completions *CompletionService
}

func NewRewardService(db *gorm.DB, completions *CompletionService) *RewardService {
	return &RewardService{DB: db, Completions: completions}
}

// RedeemParams carry the variant-specific references.
type RedeemParams struct {
	SharedChallengeID string `json:"shared_challenge_id,omitempty"`
	ChallengeID       string `json:"challenge_id,omitempty"`
}

// RedeemResult reports the effect of a successful redemption.
type RedeemResult struct {
	Reward             string            `json:"reward"`
	Cost               int               `json:"cost"`
	Points             int               `json:"points"` // balance after debit
	StreakSavers       int               `json:"streak_savers,omitempty"`
	HighlightExpiresAt *time.Time        `json:"highlight_expires_at,omitempty"`
	Completion         *CompletionResult `json:"completion,omitempty"`
}

// Redeem dispatches on the reward name. All preconditions — ban, balance,
// variant-specific checks — are verified before any mutation; the whole
// effect commits as one transaction or not at all.
//
// The debit itself is a conditional UPDATE (points = points - cost WHERE
// points >= cost): of two racing redemptions against the same balance only
// one can pass, regardless of what each one read beforehand.
func (s *RewardService) Redeem(userID, rewardName string, params RedeemParams) (*RedeemResult, error) {
	cost, known := RewardCosts[rewardName]
	if !known {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReward, rewardName)
	}

	var result *RedeemResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := redeemPreconditions(&user, cost, now); err != nil {
			return err
		}

		result = &RedeemResult{Reward: rewardName, Cost: cost}

		var err error
		switch rewardName {
		case models.RewardHighlight:
			err = s.redeemHighlight(tx, &user, params, now, result)
		case models.RewardStreakSaver:
			err = s.redeemStreakSaver(tx, &user, now, result)
		case models.RewardChallengeBoost:
			err = s.redeemChallengeBoost(tx, &user, params, result)
		}
		if err != nil {
			return err
		}

		if err := s.logRedemption(tx, user.ID, rewardName, cost, params); err != nil {
			return err
		}

		// Final balance, post-debit.
		var fresh models.User
		if err := tx.First(&fresh, "id = ?", user.ID).Error; err != nil {
			return err
		}
		result.Points = fresh.Points
		result.StreakSavers = fresh.StreakSavers

		log.Printf("🎁 Redeemed %q: user=%s cost=%d balance=%d", rewardName, user.ExternalUserID, cost, fresh.Points)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Challenge Boost can rank the user up like any other completion.
	s.Completions.notifyRankUp(result.Completion)
	return result, nil
}

// redeemPreconditions rejects a redemption before any mutation: banned users
// cannot redeem, and the balance read under the row lock must cover the cost.
// The conditional debit re-checks the balance at write time.
func redeemPreconditions(user *models.User, cost int, now time.Time) error {
	if user.IsBanned(now) {
		return fmt.Errorf("%w: user is banned", ErrForbidden)
	}
	if user.Points < cost {
		return ErrInsufficientPoints
	}
	return nil
}

// redeemHighlight pins one of the caller's shared challenges for 24h.
func (s *RewardService) redeemHighlight(tx *gorm.DB, user *models.User, params RedeemParams, now time.Time, result *RedeemResult) error {
	if params.SharedChallengeID == "" {
		return fmt.Errorf("%w: shared challenge", ErrNotFound)
	}

	var shared models.SharedChallenge
	if err := tx.First(&shared, "id = ?", params.SharedChallengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: shared challenge", ErrNotFound)
		}
		return err
	}
	if err := highlightEligibility(&shared, user.ID); err != nil {
		return err
	}

	expires := now.Add(HighlightDuration)
	shared.Highlighted = true
	shared.HighlightExpiresAt = &expires
	if err := tx.Save(&shared).Error; err != nil {
		return err
	}
	result.HighlightExpiresAt = &expires

	return s.debit(tx, user.ID, RewardCosts[models.RewardHighlight], nil)
}

// highlightEligibility decides whether a share can take a highlight: the
// caller must own it, and a share already pinned cannot be pinned again. A
// share owned by someone else reads as not found, never as forbidden — the
// existence of other users' shares is not leaked through error codes.
func highlightEligibility(shared *models.SharedChallenge, ownerID string) error {
	if shared.UserID != ownerID {
		return fmt.Errorf("%w: shared challenge", ErrNotFound)
	}
	if shared.Highlighted {
		return ErrAlreadyHighlighted
	}
	return nil
}

// HighlightExpired reports whether a share's highlight window has passed. The
// expiry sweeper clears the columns in bulk; this predicate lets read paths
// stop presenting a stale highlight between sweeps.
func HighlightExpired(shared *models.SharedChallenge, now time.Time) bool {
	return shared.Highlighted && shared.HighlightExpiresAt != nil && !shared.HighlightExpiresAt.After(now)
}

// redeemStreakSaver only sells when the streak is actually in danger — a
// purchase that could not save anything is rejected, not silently absorbed.
// Setting LastLogin to now is what satisfies the external streak-continuity
// job that reads it.
func (s *RewardService) redeemStreakSaver(tx *gorm.DB, user *models.User, now time.Time, result *RedeemResult) error {
	if !StreakInDanger(user.LastLogin, now) {
		return ErrStreakNotInDanger
	}
	return s.debit(tx, user.ID, RewardCosts[models.RewardStreakSaver], map[string]interface{}{
		"streak_savers": gorm.Expr("streak_savers + 1"),
		"last_login":    now,
	})
}

// redeemChallengeBoost completes a challenge through the shared evaluator and
// debits the boost cost in the same transaction: the user gains the challenge
// points and loses the cost in one persisted write.
func (s *RewardService) redeemChallengeBoost(tx *gorm.DB, user *models.User, params RedeemParams, result *RedeemResult) error {
	if params.ChallengeID == "" {
		return fmt.Errorf("%w: challenge", ErrNotFound)
	}

	var count int64
	if err := tx.Model(&models.CompletedChallenge{}).
		Where("user_id = ? AND challenge_id = ?", user.ID, params.ChallengeID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyCompleted
	}

	completion, err := s.Completions.evaluateCompletionTx(tx, user.ID, params.ChallengeID)
	if err != nil {
		return err
	}
	if err := boostOutcome(completion); err != nil {
		return err
	}
	result.Completion = completion

	// Boost mirrors the like action's counter side effect.
	if err := tx.Model(&models.Challenge{}).
		Where("id = ?", params.ChallengeID).
		UpdateColumn("likes", gorm.Expr("likes + 1")).Error; err != nil {
		return err
	}

	return s.debit(tx, user.ID, RewardCosts[models.RewardChallengeBoost], nil)
}

// boostOutcome converts a rejected evaluation into the boost error. The
// evaluator reports an already-completed challenge as a silent no-op for the
// like and share actions, but a paid boost against it must fail so the cost
// is never charged for nothing.
func boostOutcome(completion *CompletionResult) error {
	if !completion.Accepted {
		return ErrAlreadyCompleted
	}
	return nil
}

// debit subtracts cost from the user's balance, together with any extra
// column updates, guarded so the balance can never go negative.
func (s *RewardService) debit(tx *gorm.DB, userID string, cost int, extra map[string]interface{}) error {
	updates := map[string]interface{}{
		"points": gorm.Expr("points - ?", cost),
	}
	for col, val := range extra {
		updates[col] = val
	}

	res := tx.Model(&models.User{}).
		Where("id = ? AND points >= ?", userID, cost).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientPoints
	}
	return nil
}

func (s *RewardService) logRedemption(tx *gorm.DB, userID, rewardName string, cost int, params RedeemParams) error {
	meta, _ := json.Marshal(params)
	return tx.Create(&models.Redemption{
		UserID:   userID,
		Reward:   rewardName,
		Cost:     cost,
		Metadata: string(meta),
	}).Error
}

// StreakInDanger reports whether the streak would lapse without intervention:
// no login recorded, or the last login's calendar day (local midnight) lies
// strictly before today's.
func StreakInDanger(lastLogin *time.Time, now time.Time) bool {
	if lastLogin == nil {
		return true
	}
	ly, lm, ld := lastLogin.Local().Date()
	ty, tm, td := now.Local().Date()
	last := time.Date(ly, lm, ld, 0, 0, 0, 0, time.Local)
	today := time.Date(ty, tm, td, 0, 0, 0, 0, time.Local)
	return last.Before(today)
}
