package behavior

import (
	"github.com/leaguehq/draftsim/internal/models"
)

// RosterCounts is a member's position census at a point in a draft.
type RosterCounts map[models.Position]int

// CountsFromPicks tallies a member's picks into roster counts.
func CountsFromPicks(picks []models.Pick) RosterCounts {
	counts := make(RosterCounts)
	for _, p := range picks {
		counts[p.Position]++
	}
	return counts
}

// rosterTarget is the count at which a position stops being a need. DEF
// only becomes a need after round 10.
func rosterTarget(position models.Position, round int) int {
	switch position {
	case models.PositionQB:
		return 1
	case models.PositionRB:
		return 2
	case models.PositionWR:
		return 3
	case models.PositionTE:
		return 1
	case models.PositionDEF:
		if round > 10 {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// MajorNeeds returns the positions the roster is still missing outright:
// no QB, fewer than two RBs, fewer than three WRs, no TE, and no DEF once
// the draft is past round 10.
func MajorNeeds(counts RosterCounts, round int) []models.Position {
	needs := make([]models.Position, 0, 4)
	if counts[models.PositionQB] == 0 {
		needs = append(needs, models.PositionQB)
	}
	if counts[models.PositionRB] < 2 {
		needs = append(needs, models.PositionRB)
	}
	if counts[models.PositionWR] < 3 {
		needs = append(needs, models.PositionWR)
	}
	if counts[models.PositionTE] == 0 {
		needs = append(needs, models.PositionTE)
	}
	if round > 10 && counts[models.PositionDEF] == 0 {
		needs = append(needs, models.PositionDEF)
	}
	return needs
}

// NeedLevelFor classifies how urgently the roster needs a position.
func NeedLevelFor(counts RosterCounts, position models.Position, round int) models.NeedLevel {
	deficit := rosterTarget(position, round) - counts[position]
	switch {
	case deficit >= 2:
		return models.NeedDesperate
	case deficit == 1 && round >= 8:
		return models.NeedDesperate
	case deficit == 1:
		return models.NeedNeeded
	case deficit == 0:
		return models.NeedSatisfied
	default:
		return models.NeedDeep
	}
}
