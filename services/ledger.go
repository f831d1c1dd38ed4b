package services

import "streakup/models"

// RankForCompletedProjects derives the rank tier from a completed-project
// count. Pure and total — every count maps to a tier.
func RankForCompletedProjects(n int) models.Rank {
	switch {
	case n >= 6:
		return models.RankPlatinum
	case n >= 4:
		return models.RankGold
	case n >= 2:
		return models.RankSilver
	default:
		return models.RankBronze
	}
}

// ProgressPercent returns how far points is toward required, in percent,
// clamped to [0, 100]. A requirement of zero or less counts as fully
// unlocked.
func ProgressPercent(points, required int) float64 {
	if required <= 0 {
		return 100
	}
	if points <= 0 {
		return 0
	}
	pct := float64(points) / float64(required) * 100
	if pct > 100 {
		return 100
	}
	return pct
}
