package models

// RawADPEntry is one row from an external ADP ranking source before
// reconciliation. Malformed rows (non-numeric ADP) are dropped upstream.
type RawADPEntry struct {
	PlayerName string   `json:"player_name"`
	Position   Position `json:"position"`
	NFLTeam    string   `json:"nfl_team"`
	ADP        float64  `json:"adp"`
}

// PlayerPoolEntry is a reconciled, ranked player available to be drafted.
// Produced once by the ADP reconciler; removed from the pool exactly once
// when picked during simulation.
type PlayerPoolEntry struct {
	PlayerID string   `json:"player_id"`
	Name     string   `json:"name"`
	Position Position `json:"position"`
	NFLTeam  string   `json:"nfl_team"`
	ADP      float64  `json:"adp"`
	ADPRank  int      `json:"adp_rank"` // dense 1..N rank by ascending ADP
}
