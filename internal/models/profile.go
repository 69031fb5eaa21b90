package models

// PositionTimingStats aggregates when a member historically takes a
// position, measured in first-occurrence rounds across drafts.
type PositionTimingStats struct {
	AverageRound  float64 `json:"average_round"`
	StdDeviation  float64 `json:"std_deviation"`
	EarliestRound int     `json:"earliest_round"`
	LatestRound   int     `json:"latest_round"`
	Observations  int     `json:"observations"`
}

// DraftStrategy labels a member's approach in a single draft year
type DraftStrategy string

const (
	StrategyRBHeavy  DraftStrategy = "RB_HEAVY"
	StrategyWRHeavy  DraftStrategy = "WR_HEAVY"
	StrategyBalanced DraftStrategy = "BALANCED"
	StrategyZeroRB   DraftStrategy = "ZERO_RB"
	StrategyHeroRB   DraftStrategy = "HERO_RB"
	StrategyEarlyQB  DraftStrategy = "EARLY_QB"
	StrategyLateQB   DraftStrategy = "LATE_QB"
)

// StrategyYear records the classified strategy for one draft year
type StrategyYear struct {
	Year       int           `json:"year"`
	Strategy   DraftStrategy `json:"strategy"`
	Confidence float64       `json:"confidence"`
}

// ConsistencyMetrics scores how repeatable a member's position timing is
type ConsistencyMetrics struct {
	OverallScore      float64              `json:"overall_score"` // 0-100
	PositionScores    map[Position]float64 `json:"position_scores"`
	StrategyEvolution []StrategyYear       `json:"strategy_evolution"` // year-ordered
}

// RosterConstructionStats captures how a member builds a roster through
// round 10.
type RosterConstructionStats struct {
	AverageCounts    map[Position]float64 `json:"average_counts"`
	CommonPattern    string               `json:"common_pattern"` // e.g. "1QB4RB3WR1TE"
	PatternFrequency map[string]int       `json:"pattern_frequency"`
}

// MemberProfile is the aggregated historical drafting behavior of one
// league member. Rebuilt whenever the underlying record set changes,
// otherwise immutable and cacheable by member id.
type MemberProfile struct {
	MemberID            string                           `json:"member_id"`
	DraftsAnalyzed      int                              `json:"drafts_analyzed"`
	PositionTimingStats map[Position]PositionTimingStats `json:"position_timing_stats"`
	ConsistencyMetrics  ConsistencyMetrics               `json:"consistency_metrics"`
	RosterConstruction  RosterConstructionStats          `json:"roster_construction"`
}

// IsEmpty reports whether the profile was built from zero historical data.
// An empty profile is valid and usable; the predictor treats it as having
// no learned tendencies.
func (p *MemberProfile) IsEmpty() bool {
	return p.DraftsAnalyzed == 0
}
