package components

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/pihole-sense/internal/aggregate"
	"github.com/j-veylop/pihole-sense/internal/models"
	"github.com/j-veylop/pihole-sense/internal/render"
	"github.com/j-veylop/pihole-sense/internal/ui/styles"
)

// MaxSummarySources limits the top sources chart.
const MaxSummarySources = 8

// Summary describes one report.
type Summary struct {
	Snapshot *models.Snapshot
	// Interval is the aggregation width in minutes.
	Interval int
	Width    int
	// Now is used for the age of cached data.
	Now time.Time
}

// RenderSummary renders a printable report of a snapshot: totals, the
// aggregated series, the busiest clients and the query type shares.
func RenderSummary(s Summary) string {
	snap := s.Snapshot
	if snap == nil {
		return styles.HelpStyle.Render("No data available")
	}
	width := max(s.Width, 40)

	samples := aggregate.Aggregate(snap.Series, s.Interval)
	count, blocked := aggregate.Totals(samples)

	sections := []string{
		styles.TitleStyle.Render("Pi-hole summary"),
		renderStatus(snap, s.Now),
		renderTotals(count, blocked, snap.BlockedPercentageToday),
		renderSeries(samples, s.Interval, width),
	}
	if snap.HasTopSources() {
		sections = append(sections, renderSources(snap.TopSources, width))
	}
	if snap.HasQueryTypes() {
		sections = append(sections, renderQueryTypes(snap.QueryTypes))
	}

	return strings.Join(sections, "\n\n") + "\n"
}

func renderStatus(snap *models.Snapshot, now time.Time) string {
	status := styles.OnlineStyle.Render("online")
	if !snap.Online {
		status = styles.OfflineStyle.Render("offline")
	}
	line := keyValue("Status", status)
	if snap.Cached {
		age := humanize.RelTime(snap.FetchedAt, now, "ago", "from now")
		line += "  " + styles.CachedStyle.Render("cached, fetched "+age)
	}
	return line
}

func renderTotals(count int, blocked, today float64) string {
	return strings.Join([]string{
		keyValue("Queries (24h)", humanize.Comma(int64(count))),
		keyValue("Blocked (24h)", styles.GetBlockedStyle(blocked).Render(fmt.Sprintf("%.1f%%", blocked))),
		keyValue("Blocked today", styles.GetBlockedStyle(today).Render(fmt.Sprintf("%.1f%%", today))),
	}, "\n")
}

func keyValue(label, value string) string {
	return styles.LabelStyle.Render(fmt.Sprintf("%-14s", label+":")) + " " + styles.ValueStyle.Render(value)
}

// renderSeries plots the samples oldest first.
func renderSeries(samples []models.Sample, interval, width int) string {
	title := styles.SubTitleStyle.Render(fmt.Sprintf("Queries per %d minutes", interval))
	if len(samples) == 0 {
		return title + "\n" + styles.HelpStyle.Render("No data available")
	}

	queries := make([]float64, len(samples))
	ads := make([]float64, len(samples))
	percents := make([]float64, len(samples))
	for i, sample := range samples {
		j := len(samples) - 1 - i
		queries[j] = float64(sample.Count)
		ads[j] = float64(sample.Count) * sample.BlockedPercentage / 100
		percents[j] = sample.BlockedPercentage
	}

	chart := RenderDualLineChart(queries, ads, width-10, 8, "")
	legend := RenderLegend([]LegendItem{
		{Label: "queries", Color: ChartQueriesColor},
		{Label: "blocked", Color: ChartBlockedColor},
	})
	spark := styles.LabelStyle.Render("blocked % ") + RenderPercentSparkline(percents, width-10)

	return strings.Join([]string{title, chart, legend, spark}, "\n")
}

type sourceEntry struct {
	label string
	count int
}

// sourceLabel shows the hostname of a "hostname|ip" key, falling back to
// the address.
func sourceLabel(key string) string {
	host, ip, found := strings.Cut(key, "|")
	if !found || host != "" {
		return host
	}
	return ip
}

func renderSources(sources map[string]int, width int) string {
	title := styles.SubTitleStyle.Render("Top clients")
	if len(sources) == 0 {
		return title + "\n" + styles.HelpStyle.Render("No clients reported")
	}

	entries := make([]sourceEntry, 0, len(sources))
	for key, count := range sources {
		entries = append(entries, sourceEntry{sourceLabel(key), count})
	}
	slices.SortFunc(entries, func(a, b sourceEntry) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.label, b.label)
	})
	if len(entries) > MaxSummarySources {
		entries = entries[:MaxSummarySources]
	}

	values := make([]float64, len(entries))
	labels := make([]string, len(entries))
	for i, e := range entries {
		values[i] = float64(e.count)
		labels[i] = e.label
	}
	return title + "\n" + RenderBarChart(values, labels, width)
}

func renderQueryTypes(types map[string]float64) string {
	title := styles.SubTitleStyle.Render("Query types")

	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(types[b], types[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	items := make([]LegendItem, 0, len(names))
	for _, name := range names {
		color := styles.Subtle
		if rgb, ok := render.QueryTypeColor(name); ok {
			color = lipgloss.Color(rgb.Hex())
		}
		items = append(items, LegendItem{
			Label: fmt.Sprintf("%s %.1f%%", name, types[name]),
			Color: color,
		})
	}
	if len(items) == 0 {
		return title + "\n" + styles.HelpStyle.Render("No query types reported")
	}
	return title + "\n" + RenderLegend(items)
}
