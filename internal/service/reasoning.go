package service

import (
	"fmt"
	"strings"

	"github.com/yourusername/paddock/internal/models"
)

const rivalCount = 2

// BuildReasoning composes the human-readable explanation of a prediction. It
// has one line per section: pace outlook, top pick, rivals, dark horses,
// betting angle and the ML note.
func BuildReasoning(pc models.PaceContext, ranked []models.ScoreResult, plan models.BetPlan, regime models.Regime, mlNote string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Pace: %s pace expected (confidence %.0f%%). %s\n", pc.Pace, pc.Confidence*100, pc.Reason)

	if len(ranked) > 0 {
		top := ranked[0]
		fmt.Fprintf(&b, "Top pick: %s (%s, score %.3f, win %.1f%%, place %.1f%%)%s\n",
			label(top), top.RunningStyle, top.IntegratedScore,
			top.WinProbability*100, top.PlaceProbability*100, paceFit(top, pc))
	}

	if len(ranked) > 1 {
		end := 1 + rivalCount
		if end > len(ranked) {
			end = len(ranked)
		}
		rivals := make([]string, 0, rivalCount)
		for _, r := range ranked[1:end] {
			rivals = append(rivals, fmt.Sprintf("%s (score %.3f)", label(r), r.IntegratedScore))
		}
		fmt.Fprintf(&b, "Rivals: %s\n", strings.Join(rivals, ", "))
	}

	var dark []string
	for _, r := range ranked {
		if r.IsDarkHorse {
			dark = append(dark, fmt.Sprintf("%s, %s", label(r), r.DarkHorseReason))
		}
	}
	if len(dark) == 0 {
		b.WriteString("Dark horses: none flagged\n")
	} else {
		fmt.Fprintf(&b, "Dark horses: %s\n", strings.Join(dark, "; "))
	}

	fmt.Fprintf(&b, "Betting: %s plan, %d tickets, %d combinations, %d yen total. %s\n",
		plan.Format, len(plan.Tickets), plan.TotalCombinations(), plan.TotalInvestment, plan.Note)

	switch {
	case mlNote != "":
		fmt.Fprintf(&b, "Model: %s", mlNote)
	case regime == models.RegimeMLPresent:
		b.WriteString("Model: ML place probabilities blended with pace, closing speed and record")
	default:
		b.WriteString("Model: scored with market odds, pace, closing speed and record")
	}

	return b.String()
}

func label(r models.ScoreResult) string {
	if r.HorseName != "" {
		return fmt.Sprintf("No.%d %s", r.HorseNumber, r.HorseName)
	}
	return fmt.Sprintf("No.%d", r.HorseNumber)
}

func paceFit(r models.ScoreResult, pc models.PaceContext) string {
	if pc.IsAdvantageous(r.RunningStyle) {
		return ", suited by the pace"
	}
	return ""
}
