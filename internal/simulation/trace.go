package simulation

import (
	"fmt"
	"sort"

	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/racing"
)

const (
	maxRowSize       = 4
	maxLane          = 8
	lengthsPerPlace  = 0.5
	postTieBreakStep = 0.01
)

var corners = []struct {
	name     models.Corner
	progress float64
}{
	{models.CornerFirst, 0.25},
	{models.CornerBackstretch, 0.50},
	{models.CornerFinal, 0.75},
	{models.CornerGoal, 1.00},
}

var formationRows = []struct {
	label  string
	styles []racing.RunningStyle
}{
	{"lead", []racing.RunningStyle{racing.StyleEscape}},
	{"front", []racing.RunningStyle{racing.StyleFront}},
	{"mid", []racing.RunningStyle{racing.StyleStalker, racing.StyleVersatile}},
	{"rear", []racing.RunningStyle{racing.StyleCloser}},
}

// BuildFormation groups the field into rows by running style, ordered by draw
// within each row. Rows wider than four runners are split.
func BuildFormation(field []models.ScoreResult) models.StartFormation {
	var rows []models.FormationRow
	for _, group := range formationRows {
		var entries []models.FormationEntry
		for _, r := range field {
			if !styleIn(r.RunningStyle, group.styles) {
				continue
			}
			entries = append(entries, models.FormationEntry{
				HorseNumber:  r.HorseNumber,
				HorseName:    r.HorseName,
				PostPosition: r.PostPosition,
				Lane:         lane(r),
				RunningStyle: r.RunningStyle,
			})
		}
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].Lane != entries[j].Lane {
				return entries[i].Lane < entries[j].Lane
			}
			return entries[i].HorseNumber < entries[j].HorseNumber
		})

		for start, part := 0, 1; start < len(entries); start, part = start+maxRowSize, part+1 {
			end := start + maxRowSize
			if end > len(entries) {
				end = len(entries)
			}
			label := group.label
			if len(entries) > maxRowSize {
				label = fmt.Sprintf("%s-%d", group.label, part)
			}
			rows = append(rows, models.FormationRow{Label: label, Entrants: entries[start:end]})
		}
	}
	return models.StartFormation{Rows: rows}
}

// CornerPositions orders the field at each named corner. Early corners follow
// the running-style order; later corners converge on the final ranking, with
// pace-disadvantaged runners drifting back mid-race. The goal order is the ranking.
func CornerPositions(ranked []models.ScoreResult, pc models.PaceContext) []models.CornerSnapshot {
	n := len(ranked)
	if n == 0 {
		return nil
	}
	early := earlyRanks(ranked)
	final := make(map[int]float64, n)
	for i, r := range ranked {
		rank := r.Rank
		if rank <= 0 {
			rank = i + 1
		}
		final[r.HorseNumber] = float64(rank)
	}

	out := make([]models.CornerSnapshot, 0, len(corners))
	for _, c := range corners {
		p := c.progress
		w := p * p
		type keyed struct {
			horse int
			key   float64
			final float64
		}
		keys := make([]keyed, n)
		for i, r := range ranked {
			affinity := racing.PaceAffinity(r.RunningStyle, pc.Pace)
			key := (1-w)*early[r.HorseNumber] + w*final[r.HorseNumber] +
				(1-affinity)*float64(n)/2*p*(1-p)
			keys[i] = keyed{horse: r.HorseNumber, key: key, final: final[r.HorseNumber]}
		}
		sort.SliceStable(keys, func(i, j int) bool {
			if keys[i].key != keys[j].key {
				return keys[i].key < keys[j].key
			}
			return keys[i].final < keys[j].final
		})

		positions := make([]models.CornerPosition, n)
		for i, k := range keys {
			positions[i] = models.CornerPosition{
				HorseNumber:        k.horse,
				Position:           i + 1,
				DistanceFromLeader: float64(i) * lengthsPerPlace,
			}
		}
		out = append(out, models.CornerSnapshot{Corner: c.name, Progress: p, Positions: positions})
	}
	return out
}

// earlyRanks orders the field by running-style early position, with the draw
// breaking ties, and returns each horse's 1-based rank.
func earlyRanks(field []models.ScoreResult) map[int]float64 {
	type start struct {
		horse int
		pos   float64
	}
	starts := make([]start, len(field))
	for i, r := range field {
		starts[i] = start{
			horse: r.HorseNumber,
			pos:   racing.EarlyPosition(r.RunningStyle) + postTieBreakStep*float64(lane(r)),
		}
	}
	sort.SliceStable(starts, func(i, j int) bool {
		if starts[i].pos != starts[j].pos {
			return starts[i].pos < starts[j].pos
		}
		return starts[i].horse < starts[j].horse
	})
	out := make(map[int]float64, len(starts))
	for i, s := range starts {
		out[s.horse] = float64(i + 1)
	}
	return out
}

func lane(r models.ScoreResult) int {
	l := r.PostPosition
	if l <= 0 {
		l = r.HorseNumber
	}
	if l < 1 {
		return 1
	}
	if l > maxLane {
		return maxLane
	}
	return l
}

func styleIn(s racing.RunningStyle, styles []racing.RunningStyle) bool {
	for _, x := range styles {
		if x == s {
			return true
		}
	}
	return false
}
