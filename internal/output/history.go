package output

import (
	"io"
	"strconv"
	"time"

	"github.com/yourusername/paddock/internal/models"
)

// WriteHistory writes stored prediction records, newest first as given.
func WriteHistory(w io.Writer, records []*models.PredictionRecord, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, records)
	}

	table := newTable(w, "Predicted at", "Record", "Model", "Regime", "Confidence", "Top 3")

	data := make([][]string, 0, len(records))
	for _, r := range records {
		top := "-"
		if summary, err := r.Result(); err == nil {
			nums := make([]int, 0, 3)
			for _, h := range summary.Rankings {
				if len(nums) == 3 {
					break
				}
				nums = append(nums, h.HorseNumber)
			}
			top = horseList(nums)
		}
		data = append(data, []string{
			r.PredictedAt.UTC().Format(time.RFC3339),
			r.ID.String()[:8],
			r.ModelVersion,
			string(r.Regime),
			pct(r.ConfidenceScore),
			top,
		})
	}
	if err := renderTable(table, data); err != nil {
		return err
	}
	_, err := io.WriteString(w, "Showing "+strconv.Itoa(len(records))+" record(s)\n")
	return err
}
