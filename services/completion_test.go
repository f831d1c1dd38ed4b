package services

import (
	"testing"
	"time"

	"streakup/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frontendUser() *models.User {
	return &models.User{
		ID:    "u1",
		Track: "Frontend Development",
		Rank:  models.RankBronze,
	}
}

func TestEvaluateKernelFirstCompletion(t *testing.T) {
	user := frontendUser()
	challenge := &models.Challenge{ID: "c1", Category: "Frontend Development", Points: 50}

	result := evaluateKernel(user, challenge, nil, false, 0)

	require.True(t, result.Accepted)
	assert.Equal(t, 50, result.PointsAwarded)
	assert.Equal(t, 50, user.Points)
	assert.Equal(t, 1, user.CompletedChallenges)
	assert.Equal(t, 1, user.Streak)
	assert.Equal(t, models.RankBronze, user.Rank)
	assert.False(t, result.ProjectJustCompleted)
	assert.False(t, result.RankChanged)
}

func TestEvaluateKernelIdempotent(t *testing.T) {
	user := frontendUser()
	challenge := &models.Challenge{ID: "c1", Category: "Frontend Development", Points: 50}

	first := evaluateKernel(user, challenge, nil, false, 0)
	require.True(t, first.Accepted)
	snapshot := *user

	// Second evaluation of the same challenge: the membership guard fires.
	second := evaluateKernel(user, challenge, nil, true, 0)
	assert.False(t, second.Accepted)
	assert.Equal(t, 0, second.PointsAwarded)
	assert.Equal(t, snapshot, *user, "no mutation on repeat completion")
}

func TestEvaluateKernelDefaultPoints(t *testing.T) {
	user := frontendUser()
	challenge := &models.Challenge{ID: "c1", Category: "Frontend Development"} // no point value

	result := evaluateKernel(user, challenge, nil, false, 0)
	assert.Equal(t, models.DefaultChallengePoints, result.PointsAwarded)
	assert.Equal(t, 50, user.Points)
}

func TestEvaluateKernelProjectThreshold(t *testing.T) {
	user := frontendUser()
	project := &models.Project{ID: "p1", Points: 100}
	a := &models.Challenge{ID: "a", Category: "Frontend Development", Points: 60, ProjectID: &project.ID}
	b := &models.Challenge{ID: "b", Category: "Frontend Development", Points: 50, ProjectID: &project.ID}

	// Completing only A leaves the project unfinished: 60 < 100.
	first := evaluateKernel(user, a, project, false, 0)
	require.True(t, first.Accepted)
	assert.False(t, first.ProjectJustCompleted)
	assert.Equal(t, 0, user.CompletedProjects)

	// Completing B tips it over exactly once: 60 + 50 >= 100.
	second := evaluateKernel(user, b, project, false, 60)
	require.True(t, second.Accepted)
	assert.True(t, second.ProjectJustCompleted)
	assert.Equal(t, 1, user.CompletedProjects)
	assert.Equal(t, models.RankBronze, user.Rank, "1 completed project is still Bronze")
}

func TestEvaluateKernelRankTransition(t *testing.T) {
	user := frontendUser()
	user.CompletedProjects = 1
	project := &models.Project{ID: "p2", Points: 50}
	c := &models.Challenge{ID: "c", Category: "Frontend Development", Points: 50, ProjectID: &project.ID}

	result := evaluateKernel(user, c, project, false, 0)

	require.True(t, result.ProjectJustCompleted)
	assert.Equal(t, 2, user.CompletedProjects)
	assert.Equal(t, models.RankSilver, user.Rank)
	assert.True(t, result.RankChanged)
}

func TestEvaluateKernelOverfundedProjectCompletesOnce(t *testing.T) {
	user := frontendUser()
	project := &models.Project{ID: "p1", Points: 100}
	a := &models.Challenge{ID: "a", Category: "Frontend Development", Points: 60, ProjectID: &project.ID}
	b := &models.Challenge{ID: "b", Category: "Frontend Development", Points: 50, ProjectID: &project.ID}
	c := &models.Challenge{ID: "c", Category: "Frontend Development", Points: 40, ProjectID: &project.ID}

	first := evaluateKernel(user, a, project, false, 0)
	require.True(t, first.Accepted)
	assert.Equal(t, 0, user.CompletedProjects)

	second := evaluateKernel(user, b, project, false, 60)
	require.True(t, second.ProjectJustCompleted, "110 crosses the 100 budget")
	assert.Equal(t, 1, user.CompletedProjects)

	// The project sums past its budget; a further completion inside it must
	// not push the counter a second time.
	third := evaluateKernel(user, c, project, false, 110)
	require.True(t, third.Accepted)
	assert.False(t, third.ProjectJustCompleted)
	assert.Equal(t, 1, user.CompletedProjects, "an overfunded project completes exactly once")
	assert.Equal(t, 150, user.Points, "the challenge points are still awarded")
}

func TestRankIsAlwaysDerivedFromCompletedProjects(t *testing.T) {
	user := frontendUser()
	project := &models.Project{ID: "p", Points: 10}
	for i := 0; i < 8; i++ {
		ch := &models.Challenge{ID: string(rune('A' + i)), Category: "Frontend Development", Points: 10, ProjectID: &project.ID}
		evaluateKernel(user, ch, project, false, 0)
		assert.Equal(t, RankForCompletedProjects(user.CompletedProjects), user.Rank)
	}
	assert.Equal(t, models.RankPlatinum, user.Rank)
}

func TestCompletionPreconditions(t *testing.T) {
	now := time.Now()
	challenge := &models.Challenge{Category: "Frontend Development"}

	t.Run("banned user is rejected", func(t *testing.T) {
		user := frontendUser()
		until := now.Add(time.Hour)
		user.BanUntil = &until
		err := completionPreconditions(user, challenge, now)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("expired ban is ignored", func(t *testing.T) {
		user := frontendUser()
		until := now.Add(-time.Hour)
		user.BanUntil = &until
		assert.NoError(t, completionPreconditions(user, challenge, now))
	})

	t.Run("track mismatch is rejected", func(t *testing.T) {
		user := frontendUser()
		user.Track = "Backend Development"
		err := completionPreconditions(user, challenge, now)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}
