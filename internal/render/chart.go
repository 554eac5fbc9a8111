package render

import (
	"math/rand/v2"

	"github.com/j-veylop/pihole-sense/internal/models"
)

// Data is everything a chart may need from one poll.
type Data struct {
	Samples                []models.Sample
	TopSources             map[string]int
	QueryTypes             map[string]float64
	BlockedPercentageToday float64
	Online                 bool
}

// Chart builds the frame for mode. Unknown modes yield an empty frame.
func Chart(mode models.ChartMode, d Data, color models.ColorMode, randomize bool, rng *rand.Rand) Frame {
	switch mode {
	case models.ChartIcon:
		return Icon(d.Online, randomize, rng)
	case models.ChartVertical:
		return VerticalBar(d.Samples, color, randomize, rng)
	case models.ChartSpiral:
		return Spiral(d.BlockedPercentageToday/100, randomize, rng)
	case models.ChartHorizontal:
		return HorizontalBar(d.TopSources, color, randomize, rng)
	case models.ChartPie:
		return Pie(d.QueryTypes, randomize, rng)
	default:
		return nil
	}
}
