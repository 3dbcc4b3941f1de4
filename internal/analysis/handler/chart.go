package handler

import (
	"fmt"
	"sort"
)

// buildChartRows turns a probability map into rows for the horizontal bar
// chart. Rows are sorted ascending by confidence so the largest bar renders
// topmost, ties break on label to keep the output deterministic. Intensity
// feeds the color ramp of the bar.
func buildChartRows(allProbs map[string]float64) []ChartRow {
	if len(allProbs) == 0 {
		return nil
	}
	rows := make([]ChartRow, 0, len(allProbs))
	for intent, confidence := range allProbs {
		rows = append(rows, ChartRow{
			Label:      formatLabel(intent),
			Confidence: confidence,
			Percent:    formatPercent(confidence),
			Intensity:  confidence,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Confidence != rows[j].Confidence {
			return rows[i].Confidence < rows[j].Confidence
		}
		return rows[i].Label < rows[j].Label
	})
	return rows
}

func formatPercent(confidence float64) string {
	return fmt.Sprintf("%.1f%%", confidence*100)
}
