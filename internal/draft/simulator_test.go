package draft

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaguehq/draftsim/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// testPool generates n players with dense ADP ranks cycling through the
// skill positions.
func testPool(n int) []models.PlayerPoolEntry {
	positions := []models.Position{
		models.PositionRB, models.PositionWR, models.PositionWR,
		models.PositionQB, models.PositionTE, models.PositionDEF,
	}
	pool := make([]models.PlayerPoolEntry, n)
	for i := 0; i < n; i++ {
		pool[i] = models.PlayerPoolEntry{
			PlayerID: fmt.Sprintf("p%d", i+1),
			Name:     fmt.Sprintf("Player %d", i+1),
			Position: positions[i%len(positions)],
			ADP:      float64(i + 1),
			ADPRank:  i + 1,
		}
	}
	return pool
}

func memberNames(n int) []string {
	members := make([]string, n)
	for i := range members {
		members[i] = fmt.Sprintf("member%d", i+1)
	}
	return members
}

func TestPositionForPick_SnakeReversesEvenRounds(t *testing.T) {
	// Two teams, two rounds: slots go 1, 2, 2, 1.
	wantSlots := []int{1, 2, 2, 1}
	for pick, want := range wantSlots {
		pos := PositionForPick(pick+1, 2, models.DraftTypeSnake)
		assert.Equal(t, want, pos.Slot, "pick %d", pick+1)
	}

	// Twelve teams: the turn wraps at the round boundary.
	pos := PositionForPick(12, 12, models.DraftTypeSnake)
	assert.Equal(t, 1, pos.Round)
	assert.Equal(t, 12, pos.Slot)

	pos = PositionForPick(13, 12, models.DraftTypeSnake)
	assert.Equal(t, 2, pos.Round)
	assert.Equal(t, 12, pos.Slot, "slot 12 picks back to back at the turn")

	pos = PositionForPick(24, 12, models.DraftTypeSnake)
	assert.Equal(t, 1, pos.Slot)

	pos = PositionForPick(25, 12, models.DraftTypeSnake)
	assert.Equal(t, 3, pos.Round)
	assert.Equal(t, 1, pos.Slot, "slot 1 picks back to back into round three")
}

func TestPositionForPick_LinearNeverReverses(t *testing.T) {
	for round := 1; round <= 3; round++ {
		for slot := 1; slot <= 4; slot++ {
			pickNumber := (round-1)*4 + slot
			pos := PositionForPick(pickNumber, 4, models.DraftTypeLinear)
			assert.Equal(t, round, pos.Round)
			assert.Equal(t, slot, pos.Slot)
		}
	}
}

func TestNew_ValidatesConfiguration(t *testing.T) {
	pool := testPool(10)

	_, err := New(memberNames(1), pool, models.DraftSettings{TeamCount: 1, RoundCount: 2}, nil, testLogger())
	assert.Error(t, err, "one team is not a draft")

	_, err = New(memberNames(2), pool, models.DraftSettings{TeamCount: 2, RoundCount: 0}, nil, testLogger())
	assert.Error(t, err, "zero rounds is not a draft")

	_, err = New(memberNames(3), pool, models.DraftSettings{TeamCount: 2, RoundCount: 2}, nil, testLogger())
	assert.Error(t, err, "member count must match team count")

	_, err = New(memberNames(2), pool, models.DraftSettings{TeamCount: 2, RoundCount: 2},
		[]string{"member1", "stranger"}, testLogger())
	assert.Error(t, err, "draft order must reference known members")

	sim, err := New(memberNames(2), pool, models.DraftSettings{TeamCount: 2, RoundCount: 2}, nil, testLogger())
	require.NoError(t, err)
	assert.Equal(t, models.DraftTypeSnake, sim.Settings().DraftType, "snake is the default draft type")
}

func TestNew_DraftOrderOverridesMemberOrder(t *testing.T) {
	pool := testPool(10)
	sim, err := New([]string{"a", "b", "c"}, pool,
		models.DraftSettings{TeamCount: 3, RoundCount: 1, DraftType: models.DraftTypeSnake},
		[]string{"c", "a", "b"}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, sim.Members())
	assert.Equal(t, "c", sim.CurrentMember())
}

func TestApplyPick_TwoByTwoScenario(t *testing.T) {
	pool := testPool(6)
	sim, err := New([]string{"alice", "bob"}, pool,
		models.DraftSettings{TeamCount: 2, RoundCount: 2, DraftType: models.DraftTypeSnake},
		nil, testLogger())
	require.NoError(t, err)

	wantMembers := []string{"alice", "bob", "bob", "alice"}
	for i, want := range wantMembers {
		assert.Equal(t, want, sim.CurrentMember(), "pick %d", i+1)
		assert.Equal(t, 6-i, sim.PoolSize())

		pick, err := sim.ApplyPick(fmt.Sprintf("p%d", i+1), false)
		require.NoError(t, err)
		assert.Equal(t, i+1, pick.PickNumber)
		assert.Equal(t, want, pick.MemberID)
	}

	assert.True(t, sim.IsComplete())
	assert.Equal(t, "", sim.CurrentMember())
	assert.Equal(t, 2, sim.PoolSize())

	_, err = sim.ApplyPick("p5", false)
	var stateErr *InvalidStateError
	require.ErrorAs(t, err, &stateErr, "picking after completion must fail")
	assert.Equal(t, 2, sim.PoolSize(), "failed pick must not mutate the pool")
}

func TestApplyPick_RejectsUnavailablePlayer(t *testing.T) {
	pool := testPool(6)
	sim, err := New([]string{"alice", "bob"}, pool,
		models.DraftSettings{TeamCount: 2, RoundCount: 2}, nil, testLogger())
	require.NoError(t, err)

	_, err = sim.ApplyPick("p1", false)
	require.NoError(t, err)

	_, err = sim.ApplyPick("p1", false)
	var pickErr *InvalidPickError
	require.ErrorAs(t, err, &pickErr, "a drafted player is no longer available")
	assert.Equal(t, "p1", pickErr.PlayerID)
	assert.Equal(t, 2, sim.CurrentPickNumber(), "failed pick must not advance the draft")

	_, err = sim.ApplyPick("nobody", false)
	require.ErrorAs(t, err, &pickErr)
}

func TestSimulator_FullTwelveTeamDraft(t *testing.T) {
	teams, rounds := 12, 15
	pool := testPool(teams*rounds + 20)
	sim, err := New(memberNames(teams), pool,
		models.DraftSettings{TeamCount: teams, RoundCount: rounds, DraftType: models.DraftTypeSnake},
		nil, testLogger())
	require.NoError(t, err)

	seen := make(map[string]bool)
	for !sim.IsComplete() {
		next := sim.Pool()[0]
		require.False(t, seen[next.PlayerID], "player %s drafted twice", next.PlayerID)
		seen[next.PlayerID] = true

		_, err := sim.ApplyPick(next.PlayerID, true)
		require.NoError(t, err)
	}

	assert.Equal(t, teams*rounds+1, sim.CurrentPickNumber())
	assert.Len(t, sim.Picks(), teams*rounds)
	assert.Equal(t, 20, sim.PoolSize())
	for _, member := range sim.Members() {
		assert.Len(t, sim.PicksByMember(member), rounds, "every member ends with one player per round")
	}
}

func TestRecentPositionsAndRemaining(t *testing.T) {
	pool := testPool(6)
	sim, err := New([]string{"alice", "bob"}, pool,
		models.DraftSettings{TeamCount: 2, RoundCount: 3}, nil, testLogger())
	require.NoError(t, err)

	_, err = sim.ApplyPick("p1", false) // RB
	require.NoError(t, err)
	_, err = sim.ApplyPick("p2", false) // WR
	require.NoError(t, err)
	_, err = sim.ApplyPick("p4", false) // QB
	require.NoError(t, err)

	recent := sim.RecentPositions(2)
	assert.Equal(t, []models.Position{models.PositionWR, models.PositionQB}, recent)
	assert.Equal(t, []models.Position{models.PositionRB, models.PositionWR, models.PositionQB},
		sim.RecentPositions(10), "asking for more than exists returns everything")

	remaining := sim.RemainingByPosition()
	assert.Equal(t, 0, remaining[models.PositionRB])
	assert.Equal(t, 1, remaining[models.PositionWR])
	assert.Equal(t, 0, remaining[models.PositionQB])
	assert.Equal(t, 1, remaining[models.PositionTE])
}

func TestExportGrid(t *testing.T) {
	pool := testPool(4)
	sim, err := New([]string{"alice", "bob"}, pool,
		models.DraftSettings{TeamCount: 2, RoundCount: 2, DraftType: models.DraftTypeSnake},
		nil, testLogger())
	require.NoError(t, err)

	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		_, err := sim.ApplyPick(id, false)
		require.NoError(t, err)
	}

	grid := sim.ExportGrid()
	require.Len(t, grid, 2)
	assert.Equal(t, "Player 1 (RB)", grid[0][0], "round 1 slot 1")
	assert.Equal(t, "Player 2 (WR)", grid[0][1], "round 1 slot 2")
	// Round two snakes: pick 3 belongs to slot 2, pick 4 to slot 1.
	assert.Equal(t, "Player 3 (WR)", grid[1][1])
	assert.Equal(t, "Player 4 (QB)", grid[1][0])
}

func TestWriteGridCSV(t *testing.T) {
	pool := testPool(4)
	sim, err := New([]string{"alice", "bob"}, pool,
		models.DraftSettings{TeamCount: 2, RoundCount: 2, DraftType: models.DraftTypeSnake},
		nil, testLogger())
	require.NoError(t, err)
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		_, err := sim.ApplyPick(id, false)
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, sim.WriteGridCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Round,alice,bob", lines[0])
	assert.Equal(t, "1,Player 1 (RB),Player 2 (WR)", lines[1])
	assert.Equal(t, "2,Player 4 (QB),Player 3 (WR)", lines[2])
}
