package predictor

import (
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaguehq/draftsim/internal/behavior"
	"github.com/leaguehq/draftsim/internal/models"
)

func testPredictor(seed int64) *Predictor {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return New(logger, rand.New(rand.NewSource(seed)))
}

func rbLeaningModel() *models.BehaviorModel {
	return &models.BehaviorModel{
		MemberID: "alice",
		BaselineProbabilities: map[models.Position]map[int]float64{
			models.PositionRB: {1: 0.7},
			models.PositionWR: {1: 0.3},
		},
	}
}

func smallPool() []models.PlayerPoolEntry {
	return []models.PlayerPoolEntry{
		{PlayerID: "rb1", Name: "Back One", Position: models.PositionRB, ADPRank: 1},
		{PlayerID: "wr1", Name: "Wide One", Position: models.PositionWR, ADPRank: 2},
		{PlayerID: "rb2", Name: "Back Two", Position: models.PositionRB, ADPRank: 3},
		{PlayerID: "wr2", Name: "Wide Two", Position: models.PositionWR, ADPRank: 4},
		{PlayerID: "rb3", Name: "Back Three", Position: models.PositionRB, ADPRank: 5},
	}
}

func TestPredict_EmptyPoolReturnsNil(t *testing.T) {
	p := testPredictor(1)
	prediction := p.Predict(rbLeaningModel(), nil, nil, 1, 1, behavior.BoardContext{})
	assert.Nil(t, prediction)
}

func TestPredict_FollowsBaselinePreference(t *testing.T) {
	p := testPredictor(1)
	prediction := p.Predict(rbLeaningModel(), nil, smallPool(), 1, 1, behavior.BoardContext{})
	require.NotNil(t, prediction)
	assert.Equal(t, models.PositionRB, prediction.Position)
	assert.InDelta(t, 0.7, prediction.Confidence, 1e-9)
}

func TestPredict_ConfidenceNeverExceedsCap(t *testing.T) {
	model := &models.BehaviorModel{
		MemberID: "alice",
		BaselineProbabilities: map[models.Position]map[int]float64{
			models.PositionRB: {1: 0.99},
		},
	}
	pool := []models.PlayerPoolEntry{
		{PlayerID: "rb1", Position: models.PositionRB, ADPRank: 1},
	}

	p := testPredictor(1)
	prediction := p.Predict(model, nil, pool, 1, 1, behavior.BoardContext{})
	require.NotNil(t, prediction)
	assert.LessOrEqual(t, prediction.Confidence, confidenceCap)
}

func TestPredict_UnknownRoundFallsBackToFloor(t *testing.T) {
	p := testPredictor(1)
	// Round 9 has no baseline data; all positions share the floor and the
	// alphabetically handled totals still produce a valid prediction.
	prediction := p.Predict(rbLeaningModel(), nil, smallPool(), 9, 1, behavior.BoardContext{})
	require.NotNil(t, prediction)
	assert.Greater(t, prediction.Confidence, 0.0)
}

func TestPredict_NeedMultiplierShiftsChoice(t *testing.T) {
	model := rbLeaningModel()
	model.Contextual.NeedLevelMultipliers = map[models.NeedLevel]map[models.Position]float64{
		models.NeedDesperate: {models.PositionWR: 8.0},
	}

	// Roster already has two RBs and no WRs; by round 8 the WR deficit is
	// desperate and the multiplier overwhelms the RB baseline.
	roster := []models.Pick{
		{Position: models.PositionRB},
		{Position: models.PositionRB},
	}
	model.BaselineProbabilities[models.PositionRB][8] = 0.7
	model.BaselineProbabilities[models.PositionWR][8] = 0.3

	p := testPredictor(1)
	prediction := p.Predict(model, roster, smallPool(), 8, 1, behavior.BoardContext{})
	require.NotNil(t, prediction)
	assert.Equal(t, models.PositionWR, prediction.Position)
}

func TestPredict_TreeNodeBoostsPreferredPosition(t *testing.T) {
	model := rbLeaningModel()
	model.DecisionTree = []models.DecisionNode{
		{
			Label: "round 1 preference",
			Condition: models.NodeCondition{
				Kind:     models.CondRoundRange,
				MinRound: 1,
				MaxRound: 1,
			},
			PreferredPositions: []models.Position{models.PositionWR},
			Confidence:         2.0,
		},
	}

	p := testPredictor(1)
	prediction := p.Predict(model, nil, smallPool(), 1, 1, behavior.BoardContext{})
	require.NotNil(t, prediction)
	assert.Equal(t, models.PositionWR, prediction.Position,
		"a matching node's boost outweighs the baseline gap")
}

func TestSelectPlayer_HighConfidenceTakesTopADP(t *testing.T) {
	p := testPredictor(1)
	for i := 0; i < 20; i++ {
		selected := p.SelectPlayer(smallPool(), models.PositionRB, 0.9)
		require.NotNil(t, selected)
		assert.Equal(t, "rb1", selected.PlayerID)
	}
}

func TestSelectPlayer_LowConfidenceStaysWithinSpread(t *testing.T) {
	p := testPredictor(1)
	allowed := map[string]bool{"rb1": true, "rb2": true, "rb3": true}
	for i := 0; i < 50; i++ {
		selected := p.SelectPlayer(smallPool(), models.PositionRB, 0.3)
		require.NotNil(t, selected)
		assert.True(t, allowed[selected.PlayerID], "selection %s outside the candidate spread", selected.PlayerID)
	}

	// Middling confidence narrows the spread to two.
	narrow := map[string]bool{"rb1": true, "rb2": true}
	for i := 0; i < 50; i++ {
		selected := p.SelectPlayer(smallPool(), models.PositionRB, 0.6)
		require.NotNil(t, selected)
		assert.True(t, narrow[selected.PlayerID])
	}
}

func TestSelectPlayer_DeterministicUnderFixedSeed(t *testing.T) {
	first := testPredictor(99)
	second := testPredictor(99)
	for i := 0; i < 25; i++ {
		a := first.SelectPlayer(smallPool(), models.PositionRB, 0.3)
		b := second.SelectPlayer(smallPool(), models.PositionRB, 0.3)
		require.NotNil(t, a)
		require.NotNil(t, b)
		assert.Equal(t, a.PlayerID, b.PlayerID)
	}
}

func TestSelectPlayer_NoCandidatesAtPosition(t *testing.T) {
	p := testPredictor(1)
	assert.Nil(t, p.SelectPlayer(smallPool(), models.PositionTE, 0.9))
}

func TestBestRemaining(t *testing.T) {
	best := BestRemaining(smallPool())
	require.NotNil(t, best)
	assert.Equal(t, "rb1", best.PlayerID)
	assert.Nil(t, BestRemaining(nil))
}
