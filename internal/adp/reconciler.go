package adp

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/leaguehq/draftsim/internal/models"
)

// SimilarityThreshold is the minimum fuzzy-match score for two names from
// different sources to be treated as the same player.
const SimilarityThreshold = 0.6

var (
	punctuationRe = regexp.MustCompile(`[.'\x60,\-]`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	suffixRe      = regexp.MustCompile(`\s+(jr|sr|ii|iii|iv)$`)
)

// Reconciler merges two independently ranked ADP sources into a single
// deduplicated player pool.
type Reconciler struct {
	logger *logrus.Logger
}

// NewReconciler creates a reconciler.
func NewReconciler(logger *logrus.Logger) *Reconciler {
	return &Reconciler{logger: logger}
}

type mergedEntry struct {
	name     string // display name from whichever source was seen first
	position models.Position
	team     string
	adpSum   float64
	adpCount int
	fromA    bool // baseline entries are the only fuzzy-match candidates
}

func (e *mergedEntry) averageADP() float64 {
	return e.adpSum / float64(e.adpCount)
}

// NormalizeName lowercases a player name, strips punctuation and
// generational suffixes, and collapses whitespace.
func NormalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = punctuationRe.ReplaceAllString(n, "")
	n = whitespaceRe.ReplaceAllString(n, " ")
	n = suffixRe.ReplaceAllString(n, "")
	return strings.TrimSpace(n)
}

// Similarity scores two normalized names. Identical names score 1.0, a
// substring relationship (nickname case) scores 0.8, otherwise the
// fraction of position-aligned matching characters over the longer
// name's length. This alignment heuristic is intentionally not true edit
// distance; it matches the long-standing merge behavior and changing it
// would silently re-pair players across sources. Alignment runs over
// runes so accented names score the same as their ASCII counterparts.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}

	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	matches := 0
	for i := 0; i < len(shorter); i++ {
		if shorter[i] == longer[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(longer))
}

type mergeKey struct {
	name     string
	position models.Position
}

// Reconcile merges sourceA and sourceB into one pool ranked by average
// ADP ascending with a dense 1..N rank. Kickers are excluded by league
// rule. Rows with non-positive ADP values are dropped rather than
// treated as fatal.
func (r *Reconciler) Reconcile(sourceA, sourceB []models.RawADPEntry) []models.PlayerPoolEntry {
	merged := make(map[mergeKey]*mergedEntry)

	dropped := 0
	for _, row := range sourceA {
		if !r.acceptRow(row) {
			dropped++
			continue
		}
		key := mergeKey{name: NormalizeName(row.PlayerName), position: row.Position}
		if existing, ok := merged[key]; ok {
			// Duplicate within a single source: fold into the same entry.
			existing.adpSum += row.ADP
			existing.adpCount++
			continue
		}
		merged[key] = &mergedEntry{
			name:     row.PlayerName,
			position: row.Position,
			team:     row.NFLTeam,
			adpSum:   row.ADP,
			adpCount: 1,
			fromA:    true,
		}
	}

	for _, row := range sourceB {
		if !r.acceptRow(row) {
			dropped++
			continue
		}
		normalized := NormalizeName(row.PlayerName)
		key := mergeKey{name: normalized, position: row.Position}

		target, ok := merged[key]
		if !ok {
			target = r.bestFuzzyMatch(merged, normalized, row.Position)
		}
		if target != nil {
			target.adpSum += row.ADP
			target.adpCount++
			continue
		}
		merged[key] = &mergedEntry{
			name:     row.PlayerName,
			position: row.Position,
			team:     row.NFLTeam,
			adpSum:   row.ADP,
			adpCount: 1,
		}
	}

	pool := make([]models.PlayerPoolEntry, 0, len(merged))
	for key, entry := range merged {
		pool = append(pool, models.PlayerPoolEntry{
			PlayerID: fmt.Sprintf("%s:%s", key.position, key.name),
			Name:     entry.name,
			Position: entry.position,
			NFLTeam:  entry.team,
			ADP:      entry.averageADP(),
		})
	}
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].ADP != pool[j].ADP {
			return pool[i].ADP < pool[j].ADP
		}
		return pool[i].Name < pool[j].Name
	})
	for i := range pool {
		pool[i].ADPRank = i + 1
	}

	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{
			"source_a": len(sourceA),
			"source_b": len(sourceB),
			"merged":   len(pool),
			"dropped":  dropped,
		}).Debug("Reconciled ADP sources")
	}
	return pool
}

// bestFuzzyMatch searches source-A baseline entries at the same position
// for the best similarity at or above the threshold. Entries that came
// only from source B are not candidates: two unmatched source-B names
// must never merge with each other.
func (r *Reconciler) bestFuzzyMatch(merged map[mergeKey]*mergedEntry, normalized string, position models.Position) *mergedEntry {
	var best *mergedEntry
	bestScore := 0.0
	for key, entry := range merged {
		if key.position != position || !entry.fromA {
			continue
		}
		score := Similarity(normalized, key.name)
		if score >= SimilarityThreshold && score > bestScore {
			best = entry
			bestScore = score
		}
	}
	return best
}

// acceptRow filters out kickers (league-rule exclusion) and malformed
// ADP values.
func (r *Reconciler) acceptRow(row models.RawADPEntry) bool {
	if row.Position == models.PositionK {
		return false
	}
	if row.PlayerName == "" || row.ADP <= 0 {
		return false
	}
	return true
}
