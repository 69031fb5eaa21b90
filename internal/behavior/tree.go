package behavior

import (
	"fmt"
	"math"
	"sort"

	"github.com/leaguehq/draftsim/internal/models"
)

// compileDecisionTree builds the ordered rule list: one node per early
// round, a QB-timing window node, run-reaction nodes for panic-prone
// positions, and a late-round fallback.
func compileDecisionTree(profile *models.MemberProfile, model *models.BehaviorModel) []models.DecisionNode {
	var tree []models.DecisionNode

	// Early-round nodes carry the top three preferred positions for each
	// of rounds 1-6.
	for round := 1; round <= 6; round++ {
		pattern, ok := model.RoundPatterns[round]
		if !ok || len(pattern.PositionPreferences) == 0 {
			continue
		}
		preferred := topPositions(pattern.PositionPreferences, 3)
		tree = append(tree, models.DecisionNode{
			Label: fmt.Sprintf("round %d preference", round),
			Condition: models.NodeCondition{
				Kind:     models.CondRoundRange,
				MinRound: round,
				MaxRound: round,
			},
			PreferredPositions: preferred,
			Confidence:         pattern.PositionPreferences[preferred[0]],
		})
	}

	// QB-timing window: the member's typical QB round, plus or minus one.
	if qb, ok := profile.PositionTimingStats[models.PositionQB]; ok && qb.Observations > 0 {
		center := int(math.Round(qb.AverageRound))
		minRound := center - 1
		if minRound < 1 {
			minRound = 1
		}
		tree = append(tree, models.DecisionNode{
			Label: "QB timing window",
			Condition: models.NodeCondition{
				Kind:     models.CondRoundRange,
				MinRound: minRound,
				MaxRound: center + 1,
			},
			PreferredPositions: []models.Position{models.PositionQB},
			Confidence:         0.6,
		})
	}

	// Run-reaction nodes for positions the member historically chases
	// under run pressure.
	panicPositions := make([]models.Position, 0, len(model.Situational.PanicRates))
	for position, rate := range model.Situational.PanicRates {
		if rate >= panicNodeThreshold {
			panicPositions = append(panicPositions, position)
		}
	}
	sort.Slice(panicPositions, func(i, j int) bool { return panicPositions[i] < panicPositions[j] })
	for _, position := range panicPositions {
		tree = append(tree, models.DecisionNode{
			Label: fmt.Sprintf("%s run reaction", position),
			Condition: models.NodeCondition{
				Kind:          models.CondBoardState,
				BoardState:    models.BoardRunActive,
				BoardPosition: position,
			},
			PreferredPositions: []models.Position{position},
			Confidence:         model.Situational.PanicRates[position],
		})
	}

	// Late-round fallback.
	fallback := models.DecisionNode{
		Label: "late round depth",
		Condition: models.NodeCondition{
			Kind:     models.CondFallback,
			MinRound: 11,
			MaxRound: 15,
		},
		PreferredPositions: []models.Position{models.PositionRB, models.PositionWR},
		Confidence:         0.4,
	}
	if model.Situational.LateRoundStyle == models.LateRoundHighUpside {
		fallback.Label = "late round value hunting"
		fallback.PreferredPositions = []models.Position{models.PositionWR, models.PositionRB, models.PositionTE}
		fallback.Confidence = 0.5
	}
	tree = append(tree, fallback)

	return tree
}

// topPositions returns up to n positions by descending preference, ties
// broken alphabetically for determinism.
func topPositions(preferences map[models.Position]float64, n int) []models.Position {
	positions := make([]models.Position, 0, len(preferences))
	for position := range preferences {
		positions = append(positions, position)
	}
	sort.Slice(positions, func(i, j int) bool {
		if preferences[positions[i]] != preferences[positions[j]] {
			return preferences[positions[i]] > preferences[positions[j]]
		}
		return positions[i] < positions[j]
	})
	if len(positions) > n {
		positions = positions[:n]
	}
	return positions
}

// NodeMatches evaluates a decision node's condition against the current
// prediction context. The switch over Kind is exhaustive for the closed
// condition set.
func NodeMatches(condition models.NodeCondition, round int, slotGroup models.SlotGroup, counts RosterCounts, board BoardContext) bool {
	switch condition.Kind {
	case models.CondRoundRange:
		return round >= condition.MinRound && round <= condition.MaxRound
	case models.CondSlotGroup:
		return slotGroup == condition.SlotGroup
	case models.CondRosterNeed:
		return NeedLevelFor(counts, condition.NeedPosition, round) == condition.NeedLevel
	case models.CondBoardState:
		return BoardStateFor(board, condition.BoardPosition) == condition.BoardState
	case models.CondFallback:
		return round >= condition.MinRound && round <= condition.MaxRound
	default:
		return false
	}
}
