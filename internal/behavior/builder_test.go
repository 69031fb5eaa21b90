package behavior

import (
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaguehq/draftsim/internal/models"
)

func testModelBuilder(seed int64) *Builder {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewBuilder(logger, NewValueSource(rand.New(rand.NewSource(seed))))
}

// twoMemberRecord builds a two-team snake record where alice and bob
// alternate picks, alice drafting alicePositions round by round.
func twoMemberRecord(draftID string, year int, alicePositions, bobPositions []models.Position) *models.DraftRecord {
	record := &models.DraftRecord{
		DraftID:    draftID,
		Year:       year,
		League:     "test-league",
		DraftOrder: map[string]int{"alice": 1, "bob": 2},
		Settings: models.DraftSettings{
			TeamCount:  2,
			RoundCount: len(alicePositions),
			DraftType:  models.DraftTypeSnake,
		},
	}
	pickNumber := 1
	appendPick := func(round int, memberID string, position models.Position) {
		record.Picks = append(record.Picks, models.Pick{
			PickNumber: pickNumber,
			Round:      round,
			MemberID:   memberID,
			PlayerName: "Player",
			Position:   position,
		})
		pickNumber++
	}
	for round := 1; round <= len(alicePositions); round++ {
		if round%2 == 1 {
			appendPick(round, "alice", alicePositions[round-1])
			appendPick(round, "bob", bobPositions[round-1])
		} else {
			appendPick(round, "bob", bobPositions[round-1])
			appendPick(round, "alice", alicePositions[round-1])
		}
	}
	return record
}

func aliceProfile() *models.MemberProfile {
	return &models.MemberProfile{
		MemberID:       "alice",
		DraftsAnalyzed: 1,
		PositionTimingStats: map[models.Position]models.PositionTimingStats{
			models.PositionQB: {AverageRound: 5.0, Observations: 2},
		},
	}
}

func TestBuild_RoundPatternsAreFractions(t *testing.T) {
	b := testModelBuilder(1)
	records := []*models.DraftRecord{
		twoMemberRecord("d1", 2022,
			[]models.Position{models.PositionRB, models.PositionRB, models.PositionWR},
			[]models.Position{models.PositionWR, models.PositionWR, models.PositionRB}),
		twoMemberRecord("d2", 2023,
			[]models.Position{models.PositionWR, models.PositionRB, models.PositionWR},
			[]models.Position{models.PositionRB, models.PositionWR, models.PositionRB}),
	}

	model := b.Build(aliceProfile(), records)

	round1 := model.RoundPatterns[1]
	assert.Equal(t, 2, round1.SampleSize)
	assert.Equal(t, 0.5, round1.PositionPreferences[models.PositionRB])
	assert.Equal(t, 0.5, round1.PositionPreferences[models.PositionWR])

	round2 := model.RoundPatterns[2]
	assert.Equal(t, 1.0, round2.PositionPreferences[models.PositionRB])

	// Baseline probabilities mirror the same fractions keyed position-first.
	assert.Equal(t, 0.5, model.BaselineProbabilities[models.PositionRB][1])
	assert.Equal(t, 1.0, model.BaselineProbabilities[models.PositionRB][2])

	_, hasRound4 := model.RoundPatterns[4]
	assert.False(t, hasRound4, "rounds with no observations have no pattern")
}

func TestBuild_SlotPatternsAndMultipliers(t *testing.T) {
	b := testModelBuilder(1)
	records := []*models.DraftRecord{
		twoMemberRecord("d1", 2022,
			[]models.Position{models.PositionRB, models.PositionRB, models.PositionWR, models.PositionWR, models.PositionQB},
			[]models.Position{models.PositionWR, models.PositionWR, models.PositionRB, models.PositionTE, models.PositionQB}),
	}

	model := b.Build(aliceProfile(), records)

	pattern, ok := model.SlotPatterns[models.SlotGroupEarly]
	require.True(t, ok, "slot 1 lands in the early group")
	assert.Equal(t, 1, pattern.DraftCount)
	// Rounds 1-4: two RBs and two WRs, tie broken alphabetically.
	require.Len(t, pattern.PositionPriority, 2)
	assert.Equal(t, models.PositionRB, pattern.PositionPriority[0])
	assert.Equal(t, models.PositionWR, pattern.PositionPriority[1])
	assert.Equal(t, "capitalize on elite RBs", pattern.StrategyShift)

	multipliers := model.Contextual.SlotGroupMultipliers[models.SlotGroupEarly]
	require.NotNil(t, multipliers)
	assert.Equal(t, 2.0, multipliers[models.PositionRB], "top priority gets the base multiplier")
	assert.InDelta(t, 1.7, multipliers[models.PositionWR], 1e-9, "rank decay steps down by 0.3")
}

func TestBuild_SlotMultiplierFloor(t *testing.T) {
	b := testModelBuilder(1)
	// Alice spreads her early picks across five positions so the lowest
	// ranked ones hit the decay floor.
	records := []*models.DraftRecord{
		twoMemberRecord("d1", 2022,
			[]models.Position{models.PositionRB, models.PositionWR, models.PositionQB, models.PositionTE},
			[]models.Position{models.PositionRB, models.PositionWR, models.PositionRB, models.PositionWR}),
		twoMemberRecord("d2", 2023,
			[]models.Position{models.PositionRB, models.PositionWR, models.PositionQB, models.PositionDEF},
			[]models.Position{models.PositionRB, models.PositionWR, models.PositionRB, models.PositionWR}),
	}

	model := b.Build(aliceProfile(), records)
	multipliers := model.Contextual.SlotGroupMultipliers[models.SlotGroupEarly]
	require.Len(t, multipliers, 5)
	for position, multiplier := range multipliers {
		assert.GreaterOrEqual(t, multiplier, slotMultiplierFloor, "multiplier for %s under the floor", position)
		assert.LessOrEqual(t, multiplier, slotMultiplierBase)
	}
}

func TestBuild_NeedLevelMultipliersScaleWithFrequency(t *testing.T) {
	b := testModelBuilder(1)
	records := []*models.DraftRecord{
		twoMemberRecord("d1", 2022,
			[]models.Position{models.PositionRB, models.PositionRB, models.PositionWR},
			[]models.Position{models.PositionWR, models.PositionWR, models.PositionRB}),
	}

	model := b.Build(aliceProfile(), records)
	require.NotEmpty(t, model.Contextual.NeedLevelMultipliers)
	for level, table := range model.Contextual.NeedLevelMultipliers {
		sum := 0.0
		for _, multiplier := range table {
			assert.Greater(t, multiplier, 0.0)
			sum += multiplier
		}
		assert.InDelta(t, needMultiplierScale, sum, 1e-9,
			"fractions within level %s must sum to the scale", level)
	}
}

func TestBuild_DeterministicUnderFixedSeed(t *testing.T) {
	records := []*models.DraftRecord{
		twoMemberRecord("d1", 2022,
			[]models.Position{models.PositionRB, models.PositionWR, models.PositionWR, models.PositionTE, models.PositionQB},
			[]models.Position{models.PositionWR, models.PositionRB, models.PositionRB, models.PositionWR, models.PositionQB}),
	}

	first := testModelBuilder(42).Build(aliceProfile(), records)
	second := testModelBuilder(42).Build(aliceProfile(), records)
	assert.Equal(t, first, second, "same seed and records must compile identical models")
}
