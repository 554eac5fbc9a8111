package render

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"github.com/j-veylop/pihole-sense/internal/matrix"
	"github.com/j-veylop/pihole-sense/internal/models"
)

// scale maps v onto 0..8 given the range minimum and an eighth of the range.
// A flat range (step 0) maps everything to 0.
func scale(v, lo, step float64) int {
	if step <= 0 {
		return 0
	}
	return min(max(int((v-lo)/step), 0), matrix.Size)
}

// barHeights scales the most recent eight samples per channel. Index 0 is the
// most recent sample; missing samples have height 0.
func barHeights(samples []models.Sample) (counts, percents [matrix.Size]int) {
	n := min(len(samples), matrix.Size)
	if n == 0 {
		return counts, percents
	}
	recent := samples[:n]

	cLo, cHi := float64(recent[0].Count), float64(recent[0].Count)
	pLo, pHi := recent[0].BlockedPercentage, recent[0].BlockedPercentage
	for _, s := range recent[1:] {
		cLo, cHi = min(cLo, float64(s.Count)), max(cHi, float64(s.Count))
		pLo, pHi = min(pLo, s.BlockedPercentage), max(pHi, s.BlockedPercentage)
	}
	cStep := (cHi - cLo) / matrix.Size
	pStep := (pHi - pLo) / matrix.Size

	for i, s := range recent {
		counts[i] = scale(float64(s.Count), cLo, cStep)
		percents[i] = scale(s.BlockedPercentage, pLo, pStep)
	}
	return counts, percents
}

// VerticalBar draws the last eight intervals as columns, most recent on the
// right. Bar height follows the query count; in ads mode the color follows
// the blocked percentage instead.
func VerticalBar(samples []models.Sample, mode models.ColorMode, randomize bool, rng *rand.Rand) Frame {
	counts, percents := barHeights(samples)

	var f Frame
	for _, col := range perm(matrix.Size, randomize, rng) {
		i := matrix.Size - 1 - col
		height := counts[i]

		color := matrix.Red
		switch mode {
		case models.ColorTraffic:
			color = Gradient(counts[i])
		case models.ColorAds:
			color = Gradient(percents[i])
		}

		for _, row := range perm(height, randomize, rng) {
			f = append(f, Op{X: col, Y: matrix.Size - 1 - row, Color: color, Pause: 1})
		}
	}
	return f
}

// sourceHeights ranks sources by count and scales them onto 0..8. Rank 0 is
// the busiest source.
func sourceHeights(sources map[string]int) [matrix.Size]int {
	var heights [matrix.Size]int
	if len(sources) == 0 {
		return heights
	}

	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(sources))
	for name, count := range sources {
		entries = append(entries, entry{name, count})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})

	hi := float64(entries[0].count)
	lo := 0.0
	if len(entries) > 1 {
		lo = float64(entries[len(entries)-1].count)
	}
	step := (hi - lo) / matrix.Size

	for i := range min(len(entries), matrix.Size) {
		heights[i] = scale(float64(entries[i].count), lo, step)
	}
	return heights
}

// HorizontalBar draws the busiest clients as rows, busiest at the top.
func HorizontalBar(sources map[string]int, mode models.ColorMode, randomize bool, rng *rand.Rand) Frame {
	heights := sourceHeights(sources)

	var f Frame
	for _, row := range perm(matrix.Size, randomize, rng) {
		color := matrix.Red
		if mode != models.ColorBasic {
			color = Gradient(heights[row])
		}
		for _, col := range perm(heights[row], randomize, rng) {
			f = append(f, Op{X: col, Y: row, Color: color, Pause: 1})
		}
	}
	return f
}
