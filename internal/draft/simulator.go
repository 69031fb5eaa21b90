package draft

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/leaguehq/draftsim/internal/models"
)

// Phase is the simulator lifecycle state. Complete is terminal.
type Phase string

const (
	PhaseInProgress Phase = "in_progress"
	PhaseComplete   Phase = "complete"
)

// TurnPosition locates one pick slot on the board.
type TurnPosition struct {
	Round       int
	SlotInRound int // position within the round's pick sequence
	Slot        int // the draft slot actually on the clock
}

// PositionForPick computes where a pick number lands on the board. For
// snake drafts odd rounds run 1..T and even rounds reverse. The
// computation is pure so anything that needs "who picks now" shares it.
func PositionForPick(pickNumber, teams int, draftType models.DraftType) TurnPosition {
	round := (pickNumber-1)/teams + 1
	slotInRound := (pickNumber-1)%teams + 1

	slot := slotInRound
	if draftType == models.DraftTypeSnake && round%2 == 0 {
		slot = teams - slotInRound + 1
	}
	return TurnPosition{Round: round, SlotInRound: slotInRound, Slot: slot}
}

// Simulator owns the mutable state of one draft. It is single-writer by
// contract: callers needing concurrent simulations instantiate
// independent simulators.
type Simulator struct {
	settings models.DraftSettings
	members  []string // index = slot-1

	currentPickNumber int
	picks             []models.Pick // applied picks in order
	pool              []models.PlayerPoolEntry
	poolIndex         map[string]int // player id -> index in pool
	phase             Phase

	logger *logrus.Logger
}

// New validates the configuration once and initializes draft state. If
// draftOrder is non-empty it assigns slots in that order; otherwise the
// members' given order is the slot order.
func New(members []string, pool []models.PlayerPoolEntry, settings models.DraftSettings, draftOrder []string, logger *logrus.Logger) (*Simulator, error) {
	if settings.TeamCount < 2 {
		return nil, &InvalidStateError{Reason: "at least two teams required"}
	}
	if settings.RoundCount < 1 {
		return nil, &InvalidStateError{Reason: "at least one round required"}
	}
	if settings.DraftType == "" {
		settings.DraftType = models.DraftTypeSnake
	}
	if len(members) != settings.TeamCount {
		return nil, &InvalidStateError{
			Reason: fmt.Sprintf("member count %d does not match team count %d", len(members), settings.TeamCount),
		}
	}

	ordered := members
	if len(draftOrder) > 0 {
		if len(draftOrder) != len(members) {
			return nil, &InvalidStateError{Reason: "draft order length does not match member count"}
		}
		known := make(map[string]bool, len(members))
		for _, m := range members {
			known[m] = true
		}
		for _, m := range draftOrder {
			if !known[m] {
				return nil, &InvalidStateError{Reason: fmt.Sprintf("draft order references unknown member %q", m)}
			}
		}
		ordered = draftOrder
	}

	poolCopy := make([]models.PlayerPoolEntry, len(pool))
	copy(poolCopy, pool)
	sort.Slice(poolCopy, func(i, j int) bool { return poolCopy[i].ADPRank < poolCopy[j].ADPRank })
	index := make(map[string]int, len(poolCopy))
	for i, entry := range poolCopy {
		index[entry.PlayerID] = i
	}

	return &Simulator{
		settings:          settings,
		members:           append([]string(nil), ordered...),
		currentPickNumber: 1,
		picks:             make([]models.Pick, 0, settings.TotalPicks()),
		pool:              poolCopy,
		poolIndex:         index,
		phase:             PhaseInProgress,
		logger:            logger,
	}, nil
}

// Settings returns the immutable draft configuration.
func (s *Simulator) Settings() models.DraftSettings { return s.settings }

// Members returns member ids in slot order.
func (s *Simulator) Members() []string {
	return append([]string(nil), s.members...)
}

// CurrentPickNumber returns the 1-based number of the next pick.
func (s *Simulator) CurrentPickNumber() int { return s.currentPickNumber }

// IsComplete reports whether the draft reached its terminal state.
func (s *Simulator) IsComplete() bool { return s.phase == PhaseComplete }

// PickingMember returns the member on the clock for a pick number along
// with the board position.
func (s *Simulator) PickingMember(pickNumber int) (string, TurnPosition) {
	pos := PositionForPick(pickNumber, s.settings.TeamCount, s.settings.DraftType)
	return s.members[pos.Slot-1], pos
}

// CurrentMember returns the member on the clock now, or "" when complete.
func (s *Simulator) CurrentMember() string {
	if s.phase == PhaseComplete {
		return ""
	}
	member, _ := s.PickingMember(s.currentPickNumber)
	return member
}

// ApplyPick records the player against the current pick slot, removes
// exactly that player from the pool, and advances the draft. It fails
// without mutating state when the draft is complete or the player is not
// available.
func (s *Simulator) ApplyPick(playerID string, isAuto bool) (models.Pick, error) {
	if s.phase == PhaseComplete {
		return models.Pick{}, &InvalidStateError{Reason: "draft is complete"}
	}
	idx, ok := s.poolIndex[playerID]
	if !ok {
		return models.Pick{}, &InvalidPickError{PlayerID: playerID, Reason: "player not in pool"}
	}

	entry := s.pool[idx]
	member, pos := s.PickingMember(s.currentPickNumber)
	pick := models.Pick{
		PickNumber:  s.currentPickNumber,
		Round:       pos.Round,
		SlotInRound: pos.SlotInRound,
		MemberID:    member,
		PlayerName:  entry.Name,
		Position:    entry.Position,
		NFLTeam:     entry.NFLTeam,
		IsAuto:      isAuto,
	}

	s.removeFromPool(idx)
	s.picks = append(s.picks, pick)
	s.currentPickNumber++
	if s.currentPickNumber > s.settings.TotalPicks() {
		s.phase = PhaseComplete
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"pick":      pick.PickNumber,
			"round":     pick.Round,
			"member_id": member,
			"player":    entry.Name,
			"position":  entry.Position,
			"auto":      isAuto,
		}).Debug("Applied pick")
	}
	return pick, nil
}

func (s *Simulator) removeFromPool(idx int) {
	delete(s.poolIndex, s.pool[idx].PlayerID)
	copy(s.pool[idx:], s.pool[idx+1:])
	s.pool = s.pool[:len(s.pool)-1]
	for i := idx; i < len(s.pool); i++ {
		s.poolIndex[s.pool[i].PlayerID] = i
	}
}

// Picks returns the applied picks in order.
func (s *Simulator) Picks() []models.Pick {
	return append([]models.Pick(nil), s.picks...)
}

// PicksByMember returns the applied picks for one member in order.
func (s *Simulator) PicksByMember(memberID string) []models.Pick {
	picks := make([]models.Pick, 0, s.settings.RoundCount)
	for _, p := range s.picks {
		if p.MemberID == memberID {
			picks = append(picks, p)
		}
	}
	return picks
}

// Pool returns the remaining players in ADP order.
func (s *Simulator) Pool() []models.PlayerPoolEntry {
	return append([]models.PlayerPoolEntry(nil), s.pool...)
}

// PoolSize returns the number of players still available.
func (s *Simulator) PoolSize() int { return len(s.pool) }

// RemainingByPosition counts available players per position.
func (s *Simulator) RemainingByPosition() map[models.Position]int {
	remaining := make(map[models.Position]int)
	for _, entry := range s.pool {
		remaining[entry.Position]++
	}
	return remaining
}

// RecentPositions returns the positions of the last n applied picks,
// oldest first.
func (s *Simulator) RecentPositions(n int) []models.Position {
	start := len(s.picks) - n
	if start < 0 {
		start = 0
	}
	recent := make([]models.Position, 0, len(s.picks)-start)
	for _, p := range s.picks[start:] {
		recent = append(recent, p.Position)
	}
	return recent
}
