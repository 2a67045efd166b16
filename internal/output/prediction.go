package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/yourusername/paddock/internal/models"
)

// WritePrediction writes a prediction result in the requested format.
func WritePrediction(w io.Writer, result *models.PredictionResult, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, result)
	}

	if err := heading(w, "Race %s  (%s regime, confidence %s)", result.RaceID, result.Regime, pct(result.ConfidenceScore)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Pace: %s (%s) %s\n", result.Pace.Type, pct(result.Pace.Confidence), result.Pace.Reason); err != nil {
		return err
	}

	if err := writeRankingTable(w, result.Rankings); err != nil {
		return err
	}
	if err := writeBetTable(w, result.Bets); err != nil {
		return err
	}

	for _, note := range result.Notes {
		if _, err := fmt.Fprintln(w, NoteColor.Sprint("note: "+note)); err != nil {
			return err
		}
	}
	if result.Reasoning != "" {
		if _, err := fmt.Fprintln(w, result.Reasoning); err != nil {
			return err
		}
	}
	return nil
}

func writeRankingTable(w io.Writer, rankings []models.HorsePrediction) error {
	table := newTable(w, "Rank", "No.", "Horse", "Style", "Score", "Win", "Place", "Flag")

	data := make([][]string, 0, len(rankings))
	for _, h := range rankings {
		name := h.HorseName
		flag := ""
		switch {
		case h.Rank == 1:
			name = TopPickColor.Sprint(name)
			flag = "top pick"
		case h.IsDarkHorse:
			name = DarkHorseColor.Sprint(name)
			flag = "dark horse"
		}
		data = append(data, []string{
			strconv.Itoa(h.Rank),
			strconv.Itoa(h.HorseNumber),
			name,
			string(h.RunningStyle),
			score(h.Score),
			pct(h.WinProbability),
			pct(h.PlaceProbability),
			flag,
		})
	}
	return renderTable(table, data)
}

func writeBetTable(w io.Writer, plan models.BetPlan) error {
	if len(plan.Tickets) == 0 {
		return nil
	}
	table := newTable(w, "Ticket", "Selection", "Combos", "Per ticket", "Cost")

	data := make([][]string, 0, len(plan.Tickets)+1)
	for _, t := range plan.Tickets {
		data = append(data, []string{
			string(t.Type()),
			selection(t),
			strconv.Itoa(t.Combinations()),
			yen(t.AmountPerTicket()),
			yen(t.Cost()),
		})
	}
	data = append(data, []string{"total", string(plan.Format), strconv.Itoa(plan.TotalCombinations()), "", yen(plan.TotalInvestment)})
	if err := renderTable(table, data); err != nil {
		return err
	}
	if plan.Note != "" {
		if _, err := fmt.Fprintln(w, plan.Note); err != nil {
			return err
		}
	}
	return nil
}

func selection(t models.Ticket) string {
	switch tk := t.(type) {
	case models.PivotTicket:
		return horseList(tk.Pivots) + " > " + horseList(tk.Companions)
	case models.BoxTicket:
		return horseList(tk.Horses)
	}
	return ""
}

func yen(v int64) string {
	return "¥" + strconv.FormatInt(v, 10)
}
