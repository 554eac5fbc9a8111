// Package components renders terminal charts of Pi-hole statistics.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/pihole-sense/internal/ui/styles"
)

// ChartColors defines colors for chart elements.
var (
	ChartQueriesColor = lipgloss.Color("#4285f4")
	ChartBlockedColor = lipgloss.Color("#e0453a")
)

// RenderDualLineChart plots queries and blocked queries on the same axis.
func RenderDualLineChart(queries, blocked []float64, width, height int, caption string) string {
	if len(queries) == 0 && len(blocked) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	width = max(width, 20)
	height = max(height, 3)

	// Normalize lengths - pad shorter array with zeros
	n := max(len(queries), len(blocked))
	q := make([]float64, n)
	b := make([]float64, n)
	copy(q, queries)
	copy(b, blocked)

	return asciigraph.PlotMany([][]float64{q, b},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(
			asciigraph.Blue,
			asciigraph.Red,
		),
	)
}

// RenderBarChart creates a simple horizontal bar chart.
func RenderBarChart(values []float64, labels []string, width int) string {
	if len(values) == 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, l := range labels {
		maxLabelLen = max(maxLabelLen, lipgloss.Width(l))
	}

	barWidth := max(width-maxLabelLen-10, 10) // Leave room for label and value

	lines := make([]string, 0, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		padded := strings.Repeat(" ", maxLabelLen-lipgloss.Width(label)) + label

		barLen := max(int((v/maxVal)*float64(barWidth)), 0)
		bar := strings.Repeat("█", barLen)

		lines = append(lines, padded+" │"+bar+fmt.Sprintf(" %.0f", v))
	}

	return strings.Join(lines, "\n")
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// sparkIndexes samples values to fit width and maps each to a spark level
// relative to top.
func sparkIndexes(values []float64, width int, top float64) []int {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if top <= 0 {
		top = 1
	}

	step := max(float64(len(values))/float64(width), 1)

	var out []int
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		level := int((val / top) * float64(len(sparkChars)-1))
		out = append(out, min(max(level, 0), len(sparkChars)-1))
	}
	return out
}

// RenderPercentSparkline draws percentages on a fixed 0-100 scale, each
// character colored by its blocked level.
func RenderPercentSparkline(percents []float64, width int) string {
	levels := sparkIndexes(percents, width, 100)
	step := max(float64(len(percents))/float64(max(width, 1)), 1)

	var result strings.Builder
	for i, level := range levels {
		style := styles.GetBlockedStyle(percents[int(float64(i)*step)])
		result.WriteString(style.Render(string(sparkChars[level])))
	}
	return result.String()
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}
