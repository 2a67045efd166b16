package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yourusername/paddock/internal/models"
)

// WriteSimulation writes a scenario comparison in the requested format.
func WriteSimulation(w io.Writer, sim *models.RaceSimulation, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, sim)
	}

	if err := heading(w, "Race %s  predicted pace %s (%s)", sim.RaceID, sim.PredictedPace.Pace, pct(sim.PredictedPace.Confidence)); err != nil {
		return err
	}

	if err := writeScenarioTable(w, "Pace scenarios", sim.PaceScenarios); err != nil {
		return err
	}
	if err := writeScenarioTable(w, "Track condition scenarios", sim.TrackScenarios); err != nil {
		return err
	}
	return writeCornerTable(w, sim.Trace.Corners)
}

func writeScenarioTable(w io.Writer, title string, scenarios []models.ScenarioResult) error {
	if len(scenarios) == 0 {
		return nil
	}
	if err := heading(w, "%s", title); err != nil {
		return err
	}
	table := newTable(w, "Scenario", "Probability", "Front adv.", "Top", "Favoured styles")

	data := make([][]string, 0, len(scenarios))
	for _, s := range scenarios {
		label := string(s.Pace)
		if s.Axis == models.AxisTrackCondition {
			label = string(s.TrackCondition)
		}
		prob := "-"
		if s.Probability != nil {
			prob = pct(*s.Probability)
		}
		top := make([]int, 0, len(s.Ranking))
		for _, e := range s.Ranking {
			top = append(top, e.HorseNumber)
		}
		styles := make([]string, len(s.AdvantageousStyles))
		for i, st := range s.AdvantageousStyles {
			styles[i] = string(st)
		}
		data = append(data, []string{
			label,
			prob,
			strconv.FormatFloat(s.FrontAdvantage, 'f', 2, 64),
			horseList(top),
			strings.Join(styles, ","),
		})
	}
	if err := renderTable(table, data); err != nil {
		return err
	}
	for _, s := range scenarios {
		if s.Description == "" {
			continue
		}
		if _, err := fmt.Fprintln(w, "  "+s.Description); err != nil {
			return err
		}
	}
	return nil
}

func writeCornerTable(w io.Writer, corners []models.CornerSnapshot) error {
	if len(corners) == 0 {
		return nil
	}
	if err := heading(w, "Running positions"); err != nil {
		return err
	}
	headers := make([]string, 0, len(corners))
	for _, c := range corners {
		headers = append(headers, string(c.Corner))
	}
	table := newTable(w, headers...)

	rows := 0
	for _, c := range corners {
		if len(c.Positions) > rows {
			rows = len(c.Positions)
		}
	}
	data := make([][]string, rows)
	for i := range data {
		row := make([]string, len(corners))
		for j, c := range corners {
			if i < len(c.Positions) {
				row[j] = strconv.Itoa(c.Positions[i].HorseNumber)
			}
		}
		data[i] = row
	}
	return renderTable(table, data)
}
