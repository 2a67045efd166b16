package simulation

import (
	"math"
	"sort"

	"github.com/yourusername/paddock/internal/models"
)

// DefaultFrameCount is the number of animation frames produced per race.
const DefaultFrameCount = 60

const maxProgressSpread = 0.06

// PositionsAt interpolates every entrant's position at race progress t in [0, 1]
// from the corner snapshots. Before the first corner the field holds its
// first-corner order. The result is sorted by position.
func PositionsAt(snapshots []models.CornerSnapshot, t float64) []models.HorsePosition {
	if len(snapshots) == 0 {
		return nil
	}
	t = clamp01(t)

	lo, hi := bracket(snapshots, t)
	a, b := snapshots[lo], snapshots[hi]
	frac := 0.0
	if b.Progress > a.Progress {
		frac = (t - a.Progress) / (b.Progress - a.Progress)
	}

	n := len(a.Positions)
	out := make([]models.HorsePosition, 0, n)
	for _, p := range a.Positions {
		from := float64(p.Position)
		to := float64(b.PositionOf(p.HorseNumber))
		if to == 0 {
			to = from
		}
		pos := from + (to-from)*frac
		out = append(out, models.HorsePosition{
			HorseNumber: p.HorseNumber,
			Position:    pos,
			Lane:        laneFor(pos),
			Progress:    horseProgress(t, pos, n),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].HorseNumber < out[j].HorseNumber
	})
	return out
}

// Animate samples PositionsAt at frameCount evenly spaced progress values from 0 to 1.
func Animate(snapshots []models.CornerSnapshot, frameCount int) []models.AnimationFrame {
	if len(snapshots) == 0 || frameCount < 1 {
		return nil
	}
	frames := make([]models.AnimationFrame, frameCount)
	for i := range frames {
		progress := 1.0
		if frameCount > 1 {
			progress = float64(i) / float64(frameCount-1)
		}
		frames[i] = models.AnimationFrame{
			Index:    i,
			Progress: progress,
			Horses:   PositionsAt(snapshots, progress),
		}
	}
	return frames
}

// bracket returns the indices of the snapshots surrounding t.
func bracket(snapshots []models.CornerSnapshot, t float64) (int, int) {
	if t <= snapshots[0].Progress {
		return 0, 0
	}
	for i := 1; i < len(snapshots); i++ {
		if t <= snapshots[i].Progress {
			return i - 1, i
		}
	}
	last := len(snapshots) - 1
	return last, last
}

func laneFor(position float64) float64 {
	return math.Max(1, math.Min(maxLane, (position-1)/2+1))
}

// horseProgress spreads runners around the race progress: the leader runs
// slightly ahead, the tail slightly behind, widening as the race unfolds.
func horseProgress(t, position float64, fieldSize int) float64 {
	if fieldSize < 2 {
		return t
	}
	rel := 1 - 2*(position-1)/float64(fieldSize-1)
	return clamp01(t + maxProgressSpread*t*rel)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
