package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/spice-insight/internal/model"
)

// TrendIcon picks an arrow for a trend direction.
func TrendIcon(d model.TrendDirection) string {
	switch d {
	case model.TrendIncreasing:
		return "↑"
	case model.TrendDecreasing:
		return "↓"
	default:
		return "→"
	}
}

// RenderPrediction formats a categorization result.
func RenderPrediction(title string, p model.Prediction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Expense:"), title)
	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Category:"), SuccessStyle.Render(string(p.Category)))
	fmt.Fprintf(&b, "%s %.1f%%\n", BoldStyle.Render("Confidence:"), p.Confidence*100)
	b.WriteString(SubtleStyle.Render("model " + p.ModelVersion))
	return RenderBox("Categorization", b.String())
}

// RenderExtraction formats a receipt extraction.
func RenderExtraction(ext model.Extraction) string {
	var b strings.Builder
	if ext.Amount != nil {
		fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Amount:"), SuccessStyle.Render(fmt.Sprintf("%.2f", *ext.Amount)))
	} else {
		fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Amount:"), WarningStyle.Render("not found"))
	}

	b.WriteString(BoldStyle.Render("Items:"))
	if len(ext.Items) == 0 {
		b.WriteString(" " + SubtleStyle.Render("none"))
	}
	for _, item := range ext.Items {
		b.WriteString("\n  • " + item)
	}
	return RenderBox("Receipt", b.String())
}

// RenderForecast formats a forecast next to the history it was fit on.
func RenderForecast(history []model.MonthlyTotal, f model.ForecastResult) string {
	var b strings.Builder
	for _, m := range history {
		fmt.Fprintf(&b, "%s %10.2f\n", SubtleStyle.Render(fmt.Sprintf("%-10s", m.Period)), m.Total)
	}
	fmt.Fprintf(&b, "%s %10.2f %s\n\n",
		BoldStyle.Render(fmt.Sprintf("%-10s", f.PredictedPeriod)), f.PredictedTotal, TrendIcon(f.Direction))
	b.WriteString(f.Explanation)
	return RenderBox("Forecast", b.String())
}

// RenderJournal formats recent model publishes (newest first) and how often
// each category has been predicted.
func RenderJournal(models []model.ModelInfo, counts map[model.Category]int) string {
	var b strings.Builder

	b.WriteString(BoldStyle.Render("Models:"))
	if len(models) == 0 {
		b.WriteString(" " + SubtleStyle.Render("none"))
	}
	for _, m := range models {
		fmt.Fprintf(&b, "\n  %s  %s  %d samples  %s",
			SubtleStyle.Render(m.TrainedAt.Local().Format("2006-01-02 15:04")),
			m.Version, m.Samples, joinCategories(m.Labels))
	}

	b.WriteString("\n\n" + BoldStyle.Render("Predictions:"))
	if len(counts) == 0 {
		b.WriteString(" " + SubtleStyle.Render("none"))
	}
	categories := make([]model.Category, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if counts[categories[i]] != counts[categories[j]] {
			return counts[categories[i]] > counts[categories[j]]
		}
		return categories[i] < categories[j]
	})
	for _, c := range categories {
		fmt.Fprintf(&b, "\n  %-12s %d", string(c), counts[c])
	}

	return RenderBox("Journal", b.String())
}

func joinCategories(labels []model.Category) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = string(l)
	}
	return strings.Join(parts, ", ")
}
