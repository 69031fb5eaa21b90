package models

import (
	"time"
)

// Position represents a fantasy roster position
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDEF Position = "DEF"
)

// SkillPositions are the positions tracked for roster construction patterns,
// in the fixed order used when building pattern strings.
var SkillPositions = []Position{PositionQB, PositionRB, PositionWR, PositionTE}

// DraftType distinguishes snake from linear draft ordering
type DraftType string

const (
	DraftTypeSnake  DraftType = "snake"
	DraftTypeLinear DraftType = "linear"
)

// DraftSettings holds the immutable configuration of a single draft
type DraftSettings struct {
	TeamCount  int       `json:"team_count"`
	RoundCount int       `json:"round_count"`
	DraftType  DraftType `json:"draft_type"`
}

// TotalPicks returns the number of pick slots in the draft
func (s DraftSettings) TotalPicks() int {
	return s.TeamCount * s.RoundCount
}

// Pick is a single historical or simulated selection. Picks belong to
// exactly one draft and are ordered by PickNumber.
type Pick struct {
	PickNumber  int      `json:"pick_number"`
	Round       int      `json:"round"`
	SlotInRound int      `json:"slot_in_round"`
	MemberID    string   `json:"member_id"`
	PlayerName  string   `json:"player_name"`
	Position    Position `json:"position"`
	NFLTeam     string   `json:"nfl_team"`
	IsAuto      bool     `json:"is_auto,omitempty"`
}

// DraftRecord is one historical draft for a league year. Immutable once
// loaded; the engine never mutates records.
type DraftRecord struct {
	DraftID    string         `json:"draft_id"`
	Year       int            `json:"year"`
	League     string         `json:"league"`
	DraftOrder map[string]int `json:"draft_order"` // member id -> slot (1-based)
	Picks      []Pick         `json:"picks"`       // ordered by pick number
	Settings   DraftSettings  `json:"settings"`
	LoadedAt   time.Time      `json:"loaded_at,omitempty"`
}

// PicksByMember returns the member's picks in draft order.
func (r *DraftRecord) PicksByMember(memberID string) []Pick {
	picks := make([]Pick, 0, r.Settings.RoundCount)
	for _, p := range r.Picks {
		if p.MemberID == memberID {
			picks = append(picks, p)
		}
	}
	return picks
}

// SlotFor returns the draft slot the member held in this draft, or 0 if
// the member did not participate.
func (r *DraftRecord) SlotFor(memberID string) int {
	return r.DraftOrder[memberID]
}
