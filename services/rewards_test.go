package services

import (
	"testing"
	"time"

	"streakup/models"

	"github.com/stretchr/testify/assert"
)

func TestRewardCostsCatalog(t *testing.T) {
	assert.Equal(t, 400, RewardCosts[models.RewardHighlight])
	assert.Equal(t, 200, RewardCosts[models.RewardStreakSaver])
	assert.Equal(t, 500, RewardCosts[models.RewardChallengeBoost])
	assert.Len(t, RewardCosts, 3, "the reward set is closed")
}

func TestRedeemUnknownReward(t *testing.T) {
	s := NewRewardService(nil, nil)
	_, err := s.Redeem("u1", "Free Points", RedeemParams{})
	assert.ErrorIs(t, err, ErrInvalidReward)
}

func TestRedeemPreconditions(t *testing.T) {
	now := time.Now()

	t.Run("insufficient balance", func(t *testing.T) {
		user := &models.User{ID: "u1", Points: 399}
		err := redeemPreconditions(user, 400, now)
		assert.ErrorIs(t, err, ErrInsufficientPoints)
	})

	t.Run("exact balance passes", func(t *testing.T) {
		// points >= cost, so the post-debit balance is never negative.
		user := &models.User{ID: "u1", Points: 400}
		assert.NoError(t, redeemPreconditions(user, 400, now))
	})

	t.Run("banned user cannot redeem", func(t *testing.T) {
		until := now.Add(time.Hour)
		user := &models.User{ID: "u1", Points: 1000, BanUntil: &until}
		err := redeemPreconditions(user, 200, now)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestHighlightEligibility(t *testing.T) {
	t.Run("owned and unhighlighted", func(t *testing.T) {
		shared := &models.SharedChallenge{ID: "s1", UserID: "u1"}
		assert.NoError(t, highlightEligibility(shared, "u1"))
	})

	t.Run("someone else's share reads as not found", func(t *testing.T) {
		shared := &models.SharedChallenge{ID: "s1", UserID: "u2"}
		err := highlightEligibility(shared, "u1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("already highlighted", func(t *testing.T) {
		shared := &models.SharedChallenge{ID: "s1", UserID: "u1", Highlighted: true}
		err := highlightEligibility(shared, "u1")
		assert.ErrorIs(t, err, ErrAlreadyHighlighted)
	})
}

func TestHighlightExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(HighlightDuration)

	assert.True(t, HighlightExpired(&models.SharedChallenge{Highlighted: true, HighlightExpiresAt: &past}, now))
	assert.False(t, HighlightExpired(&models.SharedChallenge{Highlighted: true, HighlightExpiresAt: &future}, now))
	assert.False(t, HighlightExpired(&models.SharedChallenge{Highlighted: true}, now), "no window recorded means no expiry")
	assert.False(t, HighlightExpired(&models.SharedChallenge{HighlightExpiresAt: &past}, now), "not highlighted, nothing to expire")
}

func TestBoostOutcome(t *testing.T) {
	assert.NoError(t, boostOutcome(&CompletionResult{Accepted: true}))
	assert.ErrorIs(t, boostOutcome(&CompletionResult{Accepted: false}), ErrAlreadyCompleted,
		"a paid boost against a completed challenge must fail, not silently no-op")
}

func TestStreakInDanger(t *testing.T) {
	now := time.Date(2024, 5, 15, 14, 30, 0, 0, time.Local)

	t.Run("no login recorded", func(t *testing.T) {
		assert.True(t, StreakInDanger(nil, now))
	})

	t.Run("logged in earlier today", func(t *testing.T) {
		today := time.Date(2024, 5, 15, 0, 0, 1, 0, time.Local)
		assert.False(t, StreakInDanger(&today, now), "same calendar day is not in danger")
	})

	t.Run("logged in yesterday", func(t *testing.T) {
		yesterday := time.Date(2024, 5, 14, 23, 59, 59, 0, time.Local)
		assert.True(t, StreakInDanger(&yesterday, now), "previous calendar day is in danger even one second before midnight")
	})

	t.Run("logged in last week", func(t *testing.T) {
		lastWeek := now.AddDate(0, 0, -7)
		assert.True(t, StreakInDanger(&lastWeek, now))
	})
}
