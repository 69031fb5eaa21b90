package behavior

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/leaguehq/draftsim/internal/models"
)

const (
	// maxPatternRound is the deepest round round-specific patterns are
	// compiled for
	maxPatternRound = 15
	// earlyRoundCutoff bounds the rounds used for slot-pattern priority
	earlyRoundCutoff = 4
	// slotMultiplierDecay and slotMultiplierFloor shape the priority-rank
	// decay of slot-group multipliers
	slotMultiplierBase  = 2.0
	slotMultiplierDecay = 0.3
	slotMultiplierFloor = 0.5
	// needMultiplierScale and boardMultiplierScale convert frequency
	// fractions into multiplier magnitudes
	needMultiplierScale  = 10.0
	boardMultiplierScale = 4.0
	// panicNodeThreshold is the minimum historical panic rate before a
	// position earns a run-reaction node in the decision tree
	panicNodeThreshold = 0.3
	// negativeValueCutoff splits synthetic value scores into negative vs
	// neutral for late-round style classification
	negativeValueCutoff = -0.2
)

// Builder compiles member profiles into predictive behavior models.
type Builder struct {
	logger *logrus.Logger
	values *ValueSource
}

// NewBuilder creates a behavior model builder. The value source must be
// seeded by the caller when reproducible builds are needed.
func NewBuilder(logger *logrus.Logger, values *ValueSource) *Builder {
	return &Builder{logger: logger, values: values}
}

// pickContext is one historical pick by the member with the state that
// surrounded it.
type pickContext struct {
	pick         models.Pick
	slot         int
	countsBefore RosterCounts
	preceding    []models.Pick // league-wide picks before this one
	valueScore   float64
}

// Build compiles the behavior model for the profile's member from the
// records they participated in.
func (b *Builder) Build(profile *models.MemberProfile, records []*models.DraftRecord) *models.BehaviorModel {
	contexts := b.collectContexts(profile.MemberID, records)

	model := &models.BehaviorModel{
		MemberID:              profile.MemberID,
		BaselineProbabilities: make(map[models.Position]map[int]float64),
		RoundPatterns:         make(map[int]models.RoundPattern),
		SlotPatterns:          make(map[models.SlotGroup]models.SlotPattern),
	}

	b.buildRoundPatterns(model, contexts)
	b.buildSlotPatterns(model, profile.MemberID, records)
	b.buildSituational(model, contexts)
	b.buildContextualAdjustments(model, contexts)
	model.DecisionTree = compileDecisionTree(profile, model)

	if b.logger != nil {
		b.logger.WithFields(logrus.Fields{
			"member_id":  profile.MemberID,
			"picks":      len(contexts),
			"tree_nodes": len(model.DecisionTree),
		}).Debug("Compiled behavior model")
	}
	return model
}

func (b *Builder) collectContexts(memberID string, records []*models.DraftRecord) []pickContext {
	var contexts []pickContext
	for _, record := range records {
		counts := make(RosterCounts)
		for i, pick := range record.Picks {
			if pick.MemberID != memberID {
				continue
			}
			countsBefore := make(RosterCounts, len(counts))
			for pos, c := range counts {
				countsBefore[pos] = c
			}
			contexts = append(contexts, pickContext{
				pick:         pick,
				slot:         record.SlotFor(memberID),
				countsBefore: countsBefore,
				preceding:    record.Picks[:i],
				valueScore:   b.values.Score(),
			})
			counts[pick.Position]++
		}
	}
	return contexts
}

// buildRoundPatterns derives per-round position preferences and, from the
// synthetic value scores, a per-round value threshold. Baseline
// probabilities are the same fractions keyed position-first for the
// predictor's lookup order.
func (b *Builder) buildRoundPatterns(model *models.BehaviorModel, contexts []pickContext) {
	for round := 1; round <= maxPatternRound; round++ {
		positionCounts := make(map[models.Position]int)
		valueSum := 0.0
		total := 0
		for _, ctx := range contexts {
			if ctx.pick.Round != round {
				continue
			}
			positionCounts[ctx.pick.Position]++
			valueSum += ctx.valueScore
			total++
		}
		if total == 0 {
			continue
		}

		pattern := models.RoundPattern{
			Round:               round,
			PositionPreferences: make(map[models.Position]float64, len(positionCounts)),
			ValueThreshold:      valueSum / float64(total),
			SampleSize:          total,
		}
		for position, count := range positionCounts {
			fraction := float64(count) / float64(total)
			pattern.PositionPreferences[position] = fraction

			if model.BaselineProbabilities[position] == nil {
				model.BaselineProbabilities[position] = make(map[int]float64)
			}
			model.BaselineProbabilities[position][round] = fraction
		}
		model.RoundPatterns[round] = pattern
	}
}

// buildSlotPatterns groups drafts by the member's slot bucket and ranks
// early-round position frequency within each bucket.
func (b *Builder) buildSlotPatterns(model *models.BehaviorModel, memberID string, records []*models.DraftRecord) {
	type bucket struct {
		counts map[models.Position]int
		drafts int
	}
	buckets := make(map[models.SlotGroup]*bucket)

	for _, record := range records {
		slot := record.SlotFor(memberID)
		if slot == 0 {
			continue
		}
		group := models.SlotGroupFor(slot)
		bk := buckets[group]
		if bk == nil {
			bk = &bucket{counts: make(map[models.Position]int)}
			buckets[group] = bk
		}
		bk.drafts++
		for _, pick := range record.PicksByMember(memberID) {
			if pick.Round <= earlyRoundCutoff {
				bk.counts[pick.Position]++
			}
		}
	}

	for group, bk := range buckets {
		priority := rankPositions(bk.counts)
		model.SlotPatterns[group] = models.SlotPattern{
			Group:            group,
			PositionPriority: priority,
			StrategyShift:    strategyShiftLabel(group, priority),
			DraftCount:       bk.drafts,
		}
	}
}

func rankPositions(counts map[models.Position]int) []models.Position {
	positions := make([]models.Position, 0, len(counts))
	for position := range counts {
		positions = append(positions, position)
	}
	sort.Slice(positions, func(i, j int) bool {
		if counts[positions[i]] != counts[positions[j]] {
			return counts[positions[i]] > counts[positions[j]]
		}
		return positions[i] < positions[j]
	})
	return positions
}

// strategyShiftLabel names the dominant early-round approach for a slot
// bucket.
func strategyShiftLabel(group models.SlotGroup, priority []models.Position) string {
	if len(priority) == 0 {
		return "best player available"
	}
	switch priority[0] {
	case models.PositionRB:
		if group == models.SlotGroupEarly {
			return "capitalize on elite RBs"
		}
		return "anchor RB then fill out"
	case models.PositionWR:
		return "build around WR volume"
	case models.PositionQB:
		return "secure a top QB early"
	case models.PositionTE:
		return "lock in the TE advantage"
	default:
		return "best player available"
	}
}

// buildSituational classifies scarcity reactions per position by majority
// vote and the member's late-round style from value-score signs.
func (b *Builder) buildSituational(model *models.BehaviorModel, contexts []pickContext) {
	type tally struct{ panic, wait, adapt int }
	tallies := make(map[models.Position]*tally)
	tallyFor := func(position models.Position) *tally {
		t := tallies[position]
		if t == nil {
			t = &tally{}
			tallies[position] = t
		}
		return t
	}

	negative, neutral := 0, 0
	for _, ctx := range contexts {
		needs := MajorNeeds(ctx.countsBefore, ctx.pick.Round)
		for _, needed := range needs {
			pressure := underScarcityPressure(ctx.preceding, needed)
			switch {
			case ctx.pick.Position == needed && pressure:
				tallyFor(needed).panic++
			case ctx.pick.Position == needed:
				tallyFor(needed).adapt++
			case pressure:
				tallyFor(needed).wait++
			}
		}

		if ctx.pick.Round >= 11 {
			if ctx.valueScore < negativeValueCutoff {
				negative++
			} else {
				neutral++
			}
		}
	}

	situational := models.SituationalPreferences{
		ScarcityReactions: make(map[models.Position]models.ScarcityReaction, len(tallies)),
		PanicRates:        make(map[models.Position]float64, len(tallies)),
		LateRoundStyle:    models.LateRoundSafeDepth,
	}
	for position, t := range tallies {
		total := t.panic + t.wait + t.adapt
		if total == 0 {
			continue
		}
		situational.PanicRates[position] = float64(t.panic) / float64(total)
		switch {
		case t.panic >= t.wait && t.panic >= t.adapt:
			situational.ScarcityReactions[position] = models.ReactionPanic
		case t.wait >= t.adapt:
			situational.ScarcityReactions[position] = models.ReactionWait
		default:
			situational.ScarcityReactions[position] = models.ReactionAdapt
		}
	}
	if negative > neutral {
		situational.LateRoundStyle = models.LateRoundHighUpside
	}
	model.Situational = situational
}

// buildContextualAdjustments compiles the three multiplier tables.
func (b *Builder) buildContextualAdjustments(model *models.BehaviorModel, contexts []pickContext) {
	adjustments := models.ContextualAdjustments{
		SlotGroupMultipliers:  make(map[models.SlotGroup]map[models.Position]float64),
		NeedLevelMultipliers:  make(map[models.NeedLevel]map[models.Position]float64),
		BoardStateMultipliers: make(map[models.BoardState]map[models.Position]float64),
	}

	// Slot-group multipliers decay with priority rank.
	for group, pattern := range model.SlotPatterns {
		multipliers := make(map[models.Position]float64, len(pattern.PositionPriority))
		for rank, position := range pattern.PositionPriority {
			multiplier := slotMultiplierBase - slotMultiplierDecay*float64(rank)
			if multiplier < slotMultiplierFloor {
				multiplier = slotMultiplierFloor
			}
			multipliers[position] = multiplier
		}
		adjustments.SlotGroupMultipliers[group] = multipliers
	}

	// Need-level multipliers: frequency of picking each position while at
	// that need level, scaled.
	needCounts := make(map[models.NeedLevel]map[models.Position]int)
	needTotals := make(map[models.NeedLevel]int)
	// Board-state multipliers: frequency within each historical board
	// state, scaled.
	boardCounts := make(map[models.BoardState]map[models.Position]int)
	boardTotals := make(map[models.BoardState]int)

	for _, ctx := range contexts {
		level := NeedLevelFor(ctx.countsBefore, ctx.pick.Position, ctx.pick.Round)
		if needCounts[level] == nil {
			needCounts[level] = make(map[models.Position]int)
		}
		needCounts[level][ctx.pick.Position]++
		needTotals[level]++

		state := historicalBoardState(ctx.preceding, ctx.pick.Position)
		if boardCounts[state] == nil {
			boardCounts[state] = make(map[models.Position]int)
		}
		boardCounts[state][ctx.pick.Position]++
		boardTotals[state]++
	}

	for level, counts := range needCounts {
		multipliers := make(map[models.Position]float64, len(counts))
		for position, count := range counts {
			multipliers[position] = float64(count) / float64(needTotals[level]) * needMultiplierScale
		}
		adjustments.NeedLevelMultipliers[level] = multipliers
	}
	for state, counts := range boardCounts {
		multipliers := make(map[models.Position]float64, len(counts))
		for position, count := range counts {
			multipliers[position] = float64(count) / float64(boardTotals[state]) * boardMultiplierScale
		}
		adjustments.BoardStateMultipliers[state] = multipliers
	}

	model.Contextual = adjustments
}

// historicalBoardState approximates the board state that surrounded a
// historical pick from the picks that preceded it. Remaining-pool sizes
// are not recorded in history, so scarcity is inferred from pick density.
func historicalBoardState(preceding []models.Pick, position models.Position) models.BoardState {
	if len(preceding) >= runLength {
		run := true
		for _, p := range preceding[len(preceding)-runLength:] {
			if p.Position != position {
				run = false
				break
			}
		}
		if run {
			return models.BoardRunActive
		}
	}

	window := preceding
	if len(window) > 8 {
		window = window[len(window)-8:]
	}
	count := 0
	for _, p := range window {
		if p.Position == position {
			count++
		}
	}
	if count >= 4 {
		return models.BoardScarcityHigh
	}
	return models.BoardNormal
}
