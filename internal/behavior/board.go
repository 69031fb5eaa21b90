package behavior

import (
	"github.com/leaguehq/draftsim/internal/models"
)

const (
	// runLength is the number of consecutive league-wide picks at one
	// position that constitutes a position run
	runLength = 3
	// scarcityFloor is the remaining-player count at or below which a
	// position's board state is scarcity_high
	scarcityFloor = 5
)

// BoardContext is the league-wide board state at a point in a draft,
// independent of any one member's roster.
type BoardContext struct {
	RecentPositions     []models.Position       `json:"recent_positions"` // most recent last
	RemainingByPosition map[models.Position]int `json:"remaining_by_position"`
}

// BoardStateFor classifies the board for a single position: a live run at
// that position dominates, then pool scarcity, then normal.
func BoardStateFor(ctx BoardContext, position models.Position) models.BoardState {
	if RunActive(ctx.RecentPositions, position) {
		return models.BoardRunActive
	}
	if remaining, ok := ctx.RemainingByPosition[position]; ok && remaining <= scarcityFloor {
		return models.BoardScarcityHigh
	}
	return models.BoardNormal
}

// RunActive reports whether the most recent picks form a run at the
// position: the last runLength picks are all that position.
func RunActive(recent []models.Position, position models.Position) bool {
	if len(recent) < runLength {
		return false
	}
	for _, p := range recent[len(recent)-runLength:] {
		if p != position {
			return false
		}
	}
	return true
}

// underScarcityPressure reports whether the picks immediately preceding a
// historical pick put pressure on the position: at least runLength of the
// previous window picks were that position.
func underScarcityPressure(preceding []models.Pick, position models.Position) bool {
	window := preceding
	if len(window) > 5 {
		window = window[len(window)-5:]
	}
	count := 0
	for _, p := range window {
		if p.Position == position {
			count++
		}
	}
	return count >= runLength
}
