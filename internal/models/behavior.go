package models

// SlotGroup buckets draft slots into early/mid/late board positions
type SlotGroup string

const (
	SlotGroupEarly SlotGroup = "early" // slots 1-4
	SlotGroupMid   SlotGroup = "mid"   // slots 5-8
	SlotGroupLate  SlotGroup = "late"  // slots 9+
)

// SlotGroupFor maps a 1-based draft slot to its group.
func SlotGroupFor(slot int) SlotGroup {
	switch {
	case slot <= 4:
		return SlotGroupEarly
	case slot <= 8:
		return SlotGroupMid
	default:
		return SlotGroupLate
	}
}

// NeedLevel describes how badly a roster needs a position
type NeedLevel string

const (
	NeedDesperate NeedLevel = "desperate"
	NeedNeeded    NeedLevel = "need"
	NeedSatisfied NeedLevel = "satisfied"
	NeedDeep      NeedLevel = "deep"
)

// BoardState describes league-wide pressure on a position
type BoardState string

const (
	BoardRunActive    BoardState = "run_active"
	BoardScarcityHigh BoardState = "scarcity_high"
	BoardNormal       BoardState = "normal"
)

// ScarcityReaction labels how a member historically responds to position
// scarcity pressure
type ScarcityReaction string

const (
	ReactionPanic ScarcityReaction = "panic"
	ReactionWait  ScarcityReaction = "wait"
	ReactionAdapt ScarcityReaction = "adapt"
)

// LateRoundStyle labels a member's round-11+ tendencies
type LateRoundStyle string

const (
	LateRoundSafeDepth  LateRoundStyle = "SAFE_DEPTH"
	LateRoundHighUpside LateRoundStyle = "HIGH_UPSIDE"
)

// RoundPattern is a member's observed behavior at a specific round
type RoundPattern struct {
	Round               int                  `json:"round"`
	PositionPreferences map[Position]float64 `json:"position_preferences"` // fractions summing to 1
	ValueThreshold      float64              `json:"value_threshold"`      // synthetic, low confidence
	SampleSize          int                  `json:"sample_size"`
}

// SlotPattern is a member's behavior when drafting from a slot group
type SlotPattern struct {
	Group            SlotGroup  `json:"group"`
	PositionPriority []Position `json:"position_priority"` // ranked by early-round frequency
	StrategyShift    string     `json:"strategy_shift"`
	DraftCount       int        `json:"draft_count"`
}

// SituationalPreferences captures reactive tendencies
type SituationalPreferences struct {
	ScarcityReactions map[Position]ScarcityReaction `json:"scarcity_reactions"`
	PanicRates        map[Position]float64          `json:"panic_rates"`
	LateRoundStyle    LateRoundStyle                `json:"late_round_style"`
}

// ContextualAdjustments are the three multiplier tables applied on top of
// baseline probabilities during prediction
type ContextualAdjustments struct {
	SlotGroupMultipliers  map[SlotGroup]map[Position]float64  `json:"slot_group_multipliers"`
	NeedLevelMultipliers  map[NeedLevel]map[Position]float64  `json:"need_level_multipliers"`
	BoardStateMultipliers map[BoardState]map[Position]float64 `json:"board_state_multipliers"`
}

// ConditionKind discriminates decision-tree node conditions. The set is
// closed; evaluation switches over it exhaustively.
type ConditionKind string

const (
	CondRoundRange ConditionKind = "round_range"
	CondSlotGroup  ConditionKind = "slot_group"
	CondRosterNeed ConditionKind = "roster_need"
	CondBoardState ConditionKind = "board_state"
	CondFallback   ConditionKind = "fallback"
)

// NodeCondition is a tagged variant: Kind selects which fields are
// meaningful. Only the fields for the active kind are read.
type NodeCondition struct {
	Kind ConditionKind `json:"kind"`

	// round_range
	MinRound int `json:"min_round,omitempty"`
	MaxRound int `json:"max_round,omitempty"`

	// slot_group
	SlotGroup SlotGroup `json:"slot_group,omitempty"`

	// roster_need
	NeedPosition Position  `json:"need_position,omitempty"`
	NeedLevel    NeedLevel `json:"need_level,omitempty"`

	// board_state
	BoardState    BoardState `json:"board_state,omitempty"`
	BoardPosition Position   `json:"board_position,omitempty"`
}

// DecisionNode is one rule in the ordered decision tree
type DecisionNode struct {
	Label              string        `json:"label"`
	Condition          NodeCondition `json:"condition"`
	PreferredPositions []Position    `json:"preferred_positions"`
	Confidence         float64       `json:"confidence"`
}

// BehaviorModel is the compiled predictive model for one member, owned by
// the member's profile. Everything here is an in-memory heuristic
// structure; there are no trained weights.
type BehaviorModel struct {
	MemberID string `json:"member_id"`

	BaselineProbabilities map[Position]map[int]float64 `json:"baseline_probabilities"` // position -> round -> probability

	RoundPatterns map[int]RoundPattern      `json:"round_patterns"`
	SlotPatterns  map[SlotGroup]SlotPattern `json:"slot_patterns"`
	Situational   SituationalPreferences    `json:"situational"`

	Contextual   ContextualAdjustments `json:"contextual"`
	DecisionTree []DecisionNode        `json:"decision_tree"` // evaluated top to bottom
}
