package draft

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ExportGrid projects the completed picks into a round x team grid for
// reporting: one row per round, one column per slot, cell formatted as
// "{player} ({position})" or empty. Pure projection; no state change.
func (s *Simulator) ExportGrid() [][]string {
	grid := make([][]string, s.settings.RoundCount)
	for round := range grid {
		grid[round] = make([]string, s.settings.TeamCount)
	}
	for _, pick := range s.picks {
		pos := PositionForPick(pick.PickNumber, s.settings.TeamCount, s.settings.DraftType)
		grid[pick.Round-1][pos.Slot-1] = fmt.Sprintf("%s (%s)", pick.PlayerName, pick.Position)
	}
	return grid
}

// WriteGridCSV renders the export grid as CSV with a header row of
// member ids in slot order and a leading round column.
func (s *Simulator) WriteGridCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	header := make([]string, 0, s.settings.TeamCount+1)
	header = append(header, "Round")
	header = append(header, s.members...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write grid header: %w", err)
	}

	for round, cells := range s.ExportGrid() {
		row := make([]string, 0, len(cells)+1)
		row = append(row, fmt.Sprintf("%d", round+1))
		row = append(row, cells...)
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write grid row %d: %w", round+1, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
