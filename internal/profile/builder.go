package profile

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/leaguehq/draftsim/internal/models"
)

const (
	// rosterCensusRound is the cutoff round for roster construction stats
	rosterCensusRound = 10
	// minObservations is the floor below which a position is excluded from
	// consistency scoring (a single data point is not consistency)
	minObservations = 2
)

// Builder aggregates historical draft records into member profiles.
type Builder struct {
	logger *logrus.Logger
}

// NewBuilder creates a profile builder.
func NewBuilder(logger *logrus.Logger) *Builder {
	return &Builder{logger: logger}
}

// draftObservation is the per-draft view of one member's picks that all
// profile statistics are derived from.
type draftObservation struct {
	year        int
	slot        int
	firstRounds map[models.Position]int // first round each position was taken
	censusR10   map[models.Position]int // counts through round 10
	picks       []models.Pick
}

// Build aggregates all records a member participated in into a profile.
// A member with no historical data yields an empty-but-valid profile.
func (b *Builder) Build(memberID string, records []*models.DraftRecord) *models.MemberProfile {
	observations := collectObservations(memberID, records)

	p := &models.MemberProfile{
		MemberID:            memberID,
		DraftsAnalyzed:      len(observations),
		PositionTimingStats: buildTimingStats(observations),
	}
	p.ConsistencyMetrics = buildConsistencyMetrics(p.PositionTimingStats, observations)
	p.RosterConstruction = buildRosterConstruction(observations)

	if b.logger != nil {
		b.logger.WithFields(logrus.Fields{
			"member_id":       memberID,
			"drafts_analyzed": p.DraftsAnalyzed,
			"overall_score":   p.ConsistencyMetrics.OverallScore,
		}).Debug("Built member profile")
	}
	return p
}

func collectObservations(memberID string, records []*models.DraftRecord) []draftObservation {
	observations := make([]draftObservation, 0, len(records))
	for _, record := range records {
		picks := record.PicksByMember(memberID)
		if len(picks) == 0 {
			continue
		}
		obs := draftObservation{
			year:        record.Year,
			slot:        record.SlotFor(memberID),
			firstRounds: make(map[models.Position]int),
			censusR10:   make(map[models.Position]int),
			picks:       picks,
		}
		for _, pick := range picks {
			if _, seen := obs.firstRounds[pick.Position]; !seen {
				obs.firstRounds[pick.Position] = pick.Round
			}
			if pick.Round <= rosterCensusRound {
				obs.censusR10[pick.Position]++
			}
		}
		observations = append(observations, obs)
	}
	// Year order matters for strategy evolution.
	sort.Slice(observations, func(i, j int) bool {
		return observations[i].year < observations[j].year
	})
	return observations
}

func buildTimingStats(observations []draftObservation) map[models.Position]models.PositionTimingStats {
	rounds := make(map[models.Position][]float64)
	for _, obs := range observations {
		for position, round := range obs.firstRounds {
			rounds[position] = append(rounds[position], float64(round))
		}
	}

	stats := make(map[models.Position]models.PositionTimingStats, len(rounds))
	for position, samples := range rounds {
		mean := stat.Mean(samples, nil)
		// Population variance: consistency is measured over the drafts we
		// have, not an estimate of some wider population.
		variance := stat.Moment(2, samples, nil)
		earliest, latest := samples[0], samples[0]
		for _, r := range samples {
			if r < earliest {
				earliest = r
			}
			if r > latest {
				latest = r
			}
		}
		stats[position] = models.PositionTimingStats{
			AverageRound:  mean,
			StdDeviation:  math.Sqrt(variance),
			EarliestRound: int(earliest),
			LatestRound:   int(latest),
			Observations:  len(samples),
		}
	}
	return stats
}

func buildConsistencyMetrics(timing map[models.Position]models.PositionTimingStats, observations []draftObservation) models.ConsistencyMetrics {
	metrics := models.ConsistencyMetrics{
		PositionScores:    make(map[models.Position]float64),
		StrategyEvolution: make([]models.StrategyYear, 0, len(observations)),
	}

	total := 0.0
	counted := 0
	for position, ts := range timing {
		if ts.Observations < minObservations {
			continue
		}
		score := 100 - ts.StdDeviation*20
		if score < 0 {
			score = 0
		}
		metrics.PositionScores[position] = score
		if score > 0 {
			total += score
			counted++
		}
	}
	if counted > 0 {
		metrics.OverallScore = total / float64(counted)
	}

	for _, obs := range observations {
		metrics.StrategyEvolution = append(metrics.StrategyEvolution, classifyStrategy(obs))
	}
	return metrics
}

// classifyStrategy labels one draft year from the first five rounds.
// Confidence values are fixed heuristic constants, not statistically
// derived.
func classifyStrategy(obs draftObservation) models.StrategyYear {
	rbCount, wrCount := 0, 0
	for _, pick := range obs.picks {
		if pick.Round > 5 {
			continue
		}
		switch pick.Position {
		case models.PositionRB:
			rbCount++
		case models.PositionWR:
			wrCount++
		}
	}

	strategy := models.StrategyBalanced
	confidence := 0.5
	switch {
	case rbCount == 0 && wrCount >= 2:
		strategy = models.StrategyZeroRB
		confidence = 0.9
	case rbCount == 1 && wrCount >= 3:
		strategy = models.StrategyHeroRB
		confidence = 0.8
	case rbCount >= 3:
		strategy = models.StrategyRBHeavy
		confidence = 0.8
	case wrCount >= 3:
		strategy = models.StrategyWRHeavy
		confidence = 0.8
	}

	// QB timing overrides the RB/WR shape when pronounced.
	if qbRound, ok := obs.firstRounds[models.PositionQB]; ok {
		if qbRound <= 3 {
			strategy = models.StrategyEarlyQB
			confidence = 0.7
		} else if qbRound >= 8 {
			strategy = models.StrategyLateQB
			confidence = 0.7
		}
	}

	return models.StrategyYear{Year: obs.year, Strategy: strategy, Confidence: confidence}
}

func buildRosterConstruction(observations []draftObservation) models.RosterConstructionStats {
	construction := models.RosterConstructionStats{
		AverageCounts:    make(map[models.Position]float64),
		PatternFrequency: make(map[string]int),
	}
	if len(observations) == 0 {
		return construction
	}

	totals := make(map[models.Position]int)
	for _, obs := range observations {
		for position, count := range obs.censusR10 {
			totals[position] += count
		}
		pattern := patternString(obs.censusR10)
		construction.PatternFrequency[pattern]++
	}
	for position, total := range totals {
		construction.AverageCounts[position] = float64(total) / float64(len(observations))
	}

	bestCount := 0
	for pattern, count := range construction.PatternFrequency {
		if count > bestCount || (count == bestCount && pattern < construction.CommonPattern) {
			construction.CommonPattern = pattern
			bestCount = count
		}
	}
	return construction
}

// patternString concatenates {count}{position} for QB/RB/WR/TE with
// nonzero round-10 counts, in that fixed order.
func patternString(census map[models.Position]int) string {
	pattern := ""
	for _, position := range models.SkillPositions {
		if count := census[position]; count > 0 {
			pattern += fmt.Sprintf("%d%s", count, position)
		}
	}
	return pattern
}
