package services

import (
	"streakup/models"

	"gorm.io/gorm"
)

// Fixed thresholds used when no projects exist yet.
const (
	DefaultSilverRequirement   = 600
	DefaultGoldRequirement     = 1200
	DefaultPlatinumRequirement = 1800
)

// RankRequirements holds the point thresholds for each certificate rank.
type RankRequirements struct {
	Silver   int `json:"silver"`
	Gold     int `json:"gold"`
	Platinum int `json:"platinum"`
}

// ForRank returns the threshold for a certificate rank, or 0 for ranks that
// have no certificate (Bronze).
func (r RankRequirements) ForRank(rank models.Rank) int {
	switch rank {
	case models.RankSilver:
		return r.Silver
	case models.RankGold:
		return r.Gold
	case models.RankPlatinum:
		return r.Platinum
	}
	return 0
}

// ResolveRequirements derives the rank thresholds from the current projects,
// ordered oldest first: Silver is the sum of the first 2 project budgets,
// Gold the first 4, Platinum the first 6 — taking however many exist. With no
// projects at all the fixed defaults apply.
//
// Deliberately re-derived on every call rather than cached: admins edit
// project points and a stale threshold would mis-gate certificates.
func ResolveRequirements(db *gorm.DB) (RankRequirements, error) {
	var projects []models.Project
	if err := db.Order("created_at ASC").Find(&projects).Error; err != nil {
		return RankRequirements{}, err
	}
	return RequirementsFromProjects(projects), nil
}

// RequirementsFromProjects is the pure half of ResolveRequirements.
func RequirementsFromProjects(projects []models.Project) RankRequirements {
	if len(projects) == 0 {
		return RankRequirements{
			Silver:   DefaultSilverRequirement,
			Gold:     DefaultGoldRequirement,
			Platinum: DefaultPlatinumRequirement,
		}
	}
	return RankRequirements{
		Silver:   sumFirst(projects, 2),
		Gold:     sumFirst(projects, 4),
		Platinum: sumFirst(projects, 6),
	}
}

func sumFirst(projects []models.Project, n int) int {
	if n > len(projects) {
		n = len(projects)
	}
	total := 0
	for _, p := range projects[:n] {
		total += p.Points
	}
	return total
}
