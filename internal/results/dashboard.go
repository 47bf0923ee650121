package results

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/PhilipNzube/stroke-prediction-app/internal/predict"
)

// RenderDashboard formats dashboard data for the terminal.
func RenderDashboard(d *DashboardData, width int) string {
	if width <= 0 {
		width = 80
	}
	var b strings.Builder
	b.WriteString(headingStyle.Render("Stroke Risk Dashboard"))
	b.WriteString("\n")

	if d.Statistics != nil {
		if len(d.Statistics.GlobalStatistics) > 0 {
			b.WriteString("\n")
			b.WriteString(headingStyle.Render("Global Statistics"))
			b.WriteString("\n")
			writeTable(&b, d.Statistics.GlobalStatistics, width)
		}
		if len(d.Statistics.RiskFactors) > 0 {
			b.WriteString("\n")
			b.WriteString(headingStyle.Render("Risk Factors"))
			b.WriteString("\n")
			writeTable(&b, d.Statistics.RiskFactors, width)
		}
		if len(d.Statistics.PreventionTips) > 0 {
			b.WriteString("\n")
			b.WriteString(headingStyle.Render("Prevention Tips"))
			b.WriteString("\n")
			for _, tip := range d.Statistics.PreventionTips {
				b.WriteString(wrap("  • ", tip, width))
			}
		}
	}

	if d.Features != nil && len(d.Features.TopFeatures) > 0 {
		b.WriteString("\n")
		b.WriteString(headingStyle.Render("Most Influential Factors"))
		b.WriteString("\n")
		b.WriteString(FeatureBars(d.Features.TopFeatures, width))
	}
	return b.String()
}

func writeTable(b *strings.Builder, m map[string]string, width int) {
	keys := make([]string, 0, len(m))
	pad := 0
	for k := range m {
		keys = append(keys, k)
		if l := len(CategoryTitle(k)); l > pad {
			pad = l
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		prefix := fmt.Sprintf("  %-*s  ", pad, CategoryTitle(k))
		b.WriteString(wrap(prefix, m[k], width))
	}
}

// FeatureBars draws a horizontal bar per feature, scaled to the largest.
func FeatureBars(features []predict.FeatureWeight, width int) string {
	if len(features) == 0 {
		return ""
	}
	pad := 0
	maxImp := 0.0
	for _, f := range features {
		if l := len(FeatureLabel(f.Name)); l > pad {
			pad = l
		}
		if f.Importance > maxImp {
			maxImp = f.Importance
		}
	}

	barWidth := width - pad - 14
	if barWidth < 10 {
		barWidth = 10
	}
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

	var b strings.Builder
	for _, f := range features {
		fmt.Fprintf(&b, "  %-*s %s %s\n", pad, FeatureLabel(f.Name),
			bar.Render(strings.Repeat("█", barLength(f.Importance, maxImp, barWidth))),
			mutedStyle.Render(humanize.FtoaWithDigits(f.Importance*100, 1)+"%"))
	}
	return b.String()
}

// barLength scales importance against the largest one into [0, width].
// Zero, negative and non-finite importances get no bar.
func barLength(importance, maxImp float64, width int) int {
	if maxImp <= 0 || math.IsInf(maxImp, 0) || math.IsNaN(importance) || importance <= 0 {
		return 0
	}
	if importance >= maxImp {
		return width
	}
	return int(importance / maxImp * float64(width))
}

// FeatureLabel returns a readable name for a model input such as
// "avg_glucose_level" or a one-hot column such as "work_type_Private".
func FeatureLabel(name string) string {
	switch name {
	case "avg_glucose_level":
		return "Avg Glucose Level"
	case "bmi":
		return "BMI"
	case "Residence_type":
		return "Residence Type"
	}
	return CategoryTitle(name)
}
