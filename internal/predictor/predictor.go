package predictor

import (
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/leaguehq/draftsim/internal/behavior"
	"github.com/leaguehq/draftsim/internal/models"
)

const (
	// baselineFloor is used when the model has no observation for a
	// position at a round
	baselineFloor = 0.01
	// confidenceCap bounds reported confidence
	confidenceCap = 0.95
	// certaintyThreshold is the confidence above which player selection
	// takes the top ADP candidate outright
	certaintyThreshold = 0.8
	// selectionSpread is how many top candidates the bounded
	// randomization considers under lower certainty
	selectionSpread = 3
)

// Prediction is the predicted next position for a member with the share
// of adjusted probability mass behind it.
type Prediction struct {
	Position   models.Position `json:"position"`
	Confidence float64         `json:"confidence"`
}

// Predictor applies a member's behavior model to live draft context. The
// random source is injected so simulations are reproducible under a
// fixed seed.
type Predictor struct {
	logger *logrus.Logger
	rng    *rand.Rand
}

// New creates a predictor with a seeded random source.
func New(logger *logrus.Logger, rng *rand.Rand) *Predictor {
	return &Predictor{logger: logger, rng: rng}
}

// Predict computes the most probable next position for the member given
// the current draft context. Returns nil when the pool has no candidates
// at any position; callers fall back to best remaining by ADP.
func (p *Predictor) Predict(model *models.BehaviorModel, rosterSoFar []models.Pick, pool []models.PlayerPoolEntry, round, draftSlot int, board behavior.BoardContext) *Prediction {
	available := make(map[models.Position]bool)
	for _, entry := range pool {
		available[entry.Position] = true
	}
	if len(available) == 0 {
		return nil
	}

	counts := behavior.CountsFromPicks(rosterSoFar)
	slotGroup := models.SlotGroupFor(draftSlot)

	adjusted := make(map[models.Position]float64, len(available))
	total := 0.0
	for position := range available {
		probability := p.baseline(model, position, round)
		probability *= multiplierOrDefault(model.Contextual.SlotGroupMultipliers[slotGroup], position)

		level := behavior.NeedLevelFor(counts, position, round)
		probability *= multiplierOrDefault(model.Contextual.NeedLevelMultipliers[level], position)

		state := behavior.BoardStateFor(board, position)
		probability *= multiplierOrDefault(model.Contextual.BoardStateMultipliers[state], position)

		adjusted[position] = probability
	}

	// Matching decision-tree nodes boost their preferred positions.
	for _, node := range model.DecisionTree {
		if !behavior.NodeMatches(node.Condition, round, slotGroup, counts, board) {
			continue
		}
		for _, position := range node.PreferredPositions {
			if _, ok := adjusted[position]; ok {
				adjusted[position] *= 1 + node.Confidence
			}
		}
	}

	var best models.Position
	bestScore := -1.0
	positions := make([]models.Position, 0, len(adjusted))
	for position := range adjusted {
		positions = append(positions, position)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })
	for _, position := range positions {
		total += adjusted[position]
		if adjusted[position] > bestScore {
			best = position
			bestScore = adjusted[position]
		}
	}

	confidence := 0.0
	if total > 0 {
		confidence = bestScore / total
	}
	if confidence > confidenceCap {
		confidence = confidenceCap
	}

	if p.logger != nil {
		p.logger.WithFields(logrus.Fields{
			"member_id":  model.MemberID,
			"round":      round,
			"position":   best,
			"confidence": confidence,
		}).Debug("Predicted next position")
	}
	return &Prediction{Position: best, Confidence: confidence}
}

func (p *Predictor) baseline(model *models.BehaviorModel, position models.Position, round int) float64 {
	if rounds, ok := model.BaselineProbabilities[position]; ok {
		if probability, ok := rounds[round]; ok && probability > 0 {
			return probability
		}
	}
	return baselineFloor
}

func multiplierOrDefault(table map[models.Position]float64, position models.Position) float64 {
	if table == nil {
		return 1.0
	}
	if multiplier, ok := table[position]; ok && multiplier > 0 {
		return multiplier
	}
	return 1.0
}

// SelectPlayer chooses a concrete player at the predicted position. High
// confidence takes the top ADP candidate; lower confidence randomizes
// across the top two or three to reflect the uncertainty.
func (p *Predictor) SelectPlayer(pool []models.PlayerPoolEntry, position models.Position, confidence float64) *models.PlayerPoolEntry {
	candidates := make([]models.PlayerPoolEntry, 0, 8)
	for _, entry := range pool {
		if entry.Position == position {
			candidates = append(candidates, entry)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ADPRank < candidates[j].ADPRank })

	if confidence > certaintyThreshold {
		return &candidates[0]
	}
	spread := selectionSpread
	if confidence > 0.5 {
		spread = 2
	}
	if spread > len(candidates) {
		spread = len(candidates)
	}
	return &candidates[p.rng.Intn(spread)]
}

// BestRemaining is the fallback policy when prediction yields nothing:
// the top-ranked available player regardless of position.
func BestRemaining(pool []models.PlayerPoolEntry) *models.PlayerPoolEntry {
	var best *models.PlayerPoolEntry
	for i := range pool {
		if best == nil || pool[i].ADPRank < best.ADPRank {
			best = &pool[i]
		}
	}
	return best
}
