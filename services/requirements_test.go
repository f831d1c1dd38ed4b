package services

import (
	"testing"

	"streakup/models"

	"github.com/stretchr/testify/assert"
)

func TestRequirementsFromProjectsFallback(t *testing.T) {
	reqs := RequirementsFromProjects(nil)
	assert.Equal(t, RankRequirements{Silver: 600, Gold: 1200, Platinum: 1800}, reqs)
}

func TestRequirementsFromProjectsPartial(t *testing.T) {
	// Fewer projects than a tier wants: sum whatever exists.
	reqs := RequirementsFromProjects([]models.Project{
		{Points: 100},
		{Points: 200},
		{Points: 300},
	})
	assert.Equal(t, 300, reqs.Silver, "first 2")
	assert.Equal(t, 600, reqs.Gold, "all 3, fewer than 4 exist")
	assert.Equal(t, 600, reqs.Platinum)
}

func TestRequirementsFromProjectsFull(t *testing.T) {
	projects := []models.Project{
		{Points: 100}, {Points: 100}, {Points: 200}, {Points: 200}, {Points: 300}, {Points: 300}, {Points: 999},
	}
	reqs := RequirementsFromProjects(projects)
	assert.Equal(t, 200, reqs.Silver)
	assert.Equal(t, 600, reqs.Gold)
	assert.Equal(t, 1200, reqs.Platinum, "seventh project never counts")
}

func TestRequirementsForRank(t *testing.T) {
	reqs := RankRequirements{Silver: 600, Gold: 1200, Platinum: 1800}
	assert.Equal(t, 600, reqs.ForRank(models.RankSilver))
	assert.Equal(t, 1200, reqs.ForRank(models.RankGold))
	assert.Equal(t, 1800, reqs.ForRank(models.RankPlatinum))
	assert.Equal(t, 0, reqs.ForRank(models.RankBronze))
}
