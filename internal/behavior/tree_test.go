package behavior

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaguehq/draftsim/internal/models"
)

func TestCompileDecisionTree_FallbackIsAlwaysLast(t *testing.T) {
	profile := &models.MemberProfile{MemberID: "alice"}
	model := &models.BehaviorModel{MemberID: "alice"}

	tree := compileDecisionTree(profile, model)
	require.NotEmpty(t, tree)
	last := tree[len(tree)-1]
	assert.Equal(t, models.CondFallback, last.Condition.Kind)
	assert.Equal(t, 11, last.Condition.MinRound)
	assert.Equal(t, 15, last.Condition.MaxRound)
	assert.Equal(t, []models.Position{models.PositionRB, models.PositionWR}, last.PreferredPositions)
}

func TestCompileDecisionTree_HighUpsideFallback(t *testing.T) {
	profile := &models.MemberProfile{MemberID: "alice"}
	model := &models.BehaviorModel{
		MemberID: "alice",
		Situational: models.SituationalPreferences{
			LateRoundStyle: models.LateRoundHighUpside,
		},
	}

	tree := compileDecisionTree(profile, model)
	last := tree[len(tree)-1]
	assert.Equal(t, "late round value hunting", last.Label)
	assert.Equal(t, []models.Position{models.PositionWR, models.PositionRB, models.PositionTE}, last.PreferredPositions)
	assert.Equal(t, 0.5, last.Confidence)
}

func TestCompileDecisionTree_EarlyRoundNodes(t *testing.T) {
	profile := &models.MemberProfile{MemberID: "alice"}
	model := &models.BehaviorModel{
		MemberID: "alice",
		RoundPatterns: map[int]models.RoundPattern{
			1: {
				Round: 1,
				PositionPreferences: map[models.Position]float64{
					models.PositionRB: 0.6,
					models.PositionWR: 0.3,
					models.PositionTE: 0.1,
				},
				SampleSize: 10,
			},
		},
	}

	tree := compileDecisionTree(profile, model)
	node := tree[0]
	assert.Equal(t, models.CondRoundRange, node.Condition.Kind)
	assert.Equal(t, 1, node.Condition.MinRound)
	assert.Equal(t, 1, node.Condition.MaxRound)
	assert.Equal(t, []models.Position{models.PositionRB, models.PositionWR, models.PositionTE}, node.PreferredPositions)
	assert.Equal(t, 0.6, node.Confidence)
}

func TestCompileDecisionTree_QBTimingWindow(t *testing.T) {
	profile := &models.MemberProfile{
		MemberID: "alice",
		PositionTimingStats: map[models.Position]models.PositionTimingStats{
			models.PositionQB: {AverageRound: 5.4, Observations: 3},
		},
	}
	model := &models.BehaviorModel{MemberID: "alice"}

	tree := compileDecisionTree(profile, model)
	var qbNode *models.DecisionNode
	for i := range tree {
		if tree[i].Label == "QB timing window" {
			qbNode = &tree[i]
			break
		}
	}
	require.NotNil(t, qbNode)
	assert.Equal(t, 4, qbNode.Condition.MinRound)
	assert.Equal(t, 6, qbNode.Condition.MaxRound)
	assert.Equal(t, []models.Position{models.PositionQB}, qbNode.PreferredPositions)
}

func TestCompileDecisionTree_PanicRunNodes(t *testing.T) {
	profile := &models.MemberProfile{MemberID: "alice"}
	model := &models.BehaviorModel{
		MemberID: "alice",
		Situational: models.SituationalPreferences{
			PanicRates: map[models.Position]float64{
				models.PositionRB: 0.5,
				models.PositionWR: 0.1, // below threshold, no node
			},
		},
	}

	tree := compileDecisionTree(profile, model)
	var runNodes []models.DecisionNode
	for _, node := range tree {
		if node.Condition.Kind == models.CondBoardState {
			runNodes = append(runNodes, node)
		}
	}
	require.Len(t, runNodes, 1)
	assert.Equal(t, models.PositionRB, runNodes[0].Condition.BoardPosition)
	assert.Equal(t, models.BoardRunActive, runNodes[0].Condition.BoardState)
	assert.Equal(t, 0.5, runNodes[0].Confidence)
}

func TestNodeMatches(t *testing.T) {
	counts := RosterCounts{models.PositionRB: 2}
	board := BoardContext{
		RecentPositions:     []models.Position{models.PositionWR, models.PositionWR, models.PositionWR},
		RemainingByPosition: map[models.Position]int{models.PositionTE: 3},
	}

	roundNode := models.NodeCondition{Kind: models.CondRoundRange, MinRound: 2, MaxRound: 4}
	assert.True(t, NodeMatches(roundNode, 3, models.SlotGroupEarly, counts, board))
	assert.False(t, NodeMatches(roundNode, 5, models.SlotGroupEarly, counts, board))

	slotNode := models.NodeCondition{Kind: models.CondSlotGroup, SlotGroup: models.SlotGroupMid}
	assert.True(t, NodeMatches(slotNode, 1, models.SlotGroupMid, counts, board))
	assert.False(t, NodeMatches(slotNode, 1, models.SlotGroupLate, counts, board))

	needNode := models.NodeCondition{
		Kind:         models.CondRosterNeed,
		NeedPosition: models.PositionQB,
		NeedLevel:    models.NeedNeeded,
	}
	assert.True(t, NodeMatches(needNode, 3, models.SlotGroupEarly, counts, board))

	runNode := models.NodeCondition{
		Kind:          models.CondBoardState,
		BoardState:    models.BoardRunActive,
		BoardPosition: models.PositionWR,
	}
	assert.True(t, NodeMatches(runNode, 3, models.SlotGroupEarly, counts, board))

	scarcityNode := models.NodeCondition{
		Kind:          models.CondBoardState,
		BoardState:    models.BoardScarcityHigh,
		BoardPosition: models.PositionTE,
	}
	assert.True(t, NodeMatches(scarcityNode, 3, models.SlotGroupEarly, counts, board))

	unknown := models.NodeCondition{Kind: "mystery"}
	assert.False(t, NodeMatches(unknown, 3, models.SlotGroupEarly, counts, board))
}
