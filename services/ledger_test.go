package services

import (
	"testing"

	"streakup/models"

	"github.com/stretchr/testify/assert"
)

func TestRankForCompletedProjects(t *testing.T) {
	cases := []struct {
		completed int
		want      models.Rank
	}{
		{0, models.RankBronze},
		{1, models.RankBronze},
		{2, models.RankSilver},
		{3, models.RankSilver},
		{4, models.RankGold},
		{5, models.RankGold},
		{6, models.RankPlatinum},
		{10, models.RankPlatinum},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RankForCompletedProjects(tc.completed), "completed=%d", tc.completed)
	}
}

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, float64(100), ProgressPercent(0, 0), "zero requirement is fully unlocked")
	assert.Equal(t, float64(100), ProgressPercent(500, 0))
	assert.Equal(t, float64(0), ProgressPercent(0, 600))
	assert.Equal(t, float64(50), ProgressPercent(300, 600))
	assert.Equal(t, float64(100), ProgressPercent(600, 600))
	assert.Equal(t, float64(100), ProgressPercent(9999, 600), "clamped at 100")
	assert.Equal(t, float64(0), ProgressPercent(-10, 600), "never negative")
	assert.Equal(t, float64(100), ProgressPercent(50, -600), "negative requirement counts as the zero case")
}
