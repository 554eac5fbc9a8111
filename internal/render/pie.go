package render

import (
	"cmp"
	"fmt"
	"image"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/j-veylop/pihole-sense/internal/matrix"
)

// PiePath returns the cells in pie order: the right half top to bottom, then
// the left half bottom to top, which sweeps clockwise around the center.
func PiePath() []image.Point {
	half := matrix.Size / 2
	path := make([]image.Point, 0, matrix.Size*matrix.Size)
	for y := range matrix.Size {
		for x := half; x < matrix.Size; x++ {
			path = append(path, image.Pt(x, y))
		}
	}
	for y := matrix.Size - 1; y >= 0; y-- {
		for x := half - 1; x >= 0; x-- {
			path = append(path, image.Pt(x, y))
		}
	}
	return path
}

type wedge struct {
	name  string
	cells int
	color matrix.RGB
}

// pieWedges converts percentages to cell quotas, largest first. It panics on
// a query type without a color; see KnownQueryType.
func pieWedges(queryTypes map[string]float64) []wedge {
	cells := float64(matrix.Size * matrix.Size)
	out := make([]wedge, 0, len(queryTypes))
	for name, pct := range queryTypes {
		color, ok := QueryTypeColor(name)
		if !ok {
			panic(fmt.Sprintf("render: no pie color for query type %q", name))
		}
		n := max(int(math.Round(pct/100*cells)), 0)
		out = append(out, wedge{name: name, cells: n, color: color})
	}
	slices.SortFunc(out, func(a, b wedge) int {
		if c := cmp.Compare(b.cells, a.cells); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})
	return out
}

// Pie draws query type shares as a clockwise pie. Cells left over after
// rounding take the color of the last wedge that had any cells. Callers must
// pass only known query types.
func Pie(queryTypes map[string]float64, randomize bool, rng *rand.Rand) Frame {
	wedges := pieWedges(queryTypes)

	var (
		f       Frame
		last    matrix.RGB
		hasLast bool
		current int
	)
	for _, p := range PiePath() {
		for current < len(wedges) && wedges[current].cells == 0 {
			current++
		}
		switch {
		case current < len(wedges):
			last, hasLast = wedges[current].color, true
			wedges[current].cells--
		case !hasLast:
			return f
		}
		f = append(f, Op{X: p.X, Y: p.Y, Color: last, Pause: 1})
	}

	if randomize {
		return shuffled(f, rng)
	}
	return f
}
