package render

import (
	"math/rand/v2"

	"github.com/j-veylop/pihole-sense/internal/matrix"
)

// iconRows lists the lit columns of each row of the connectivity glyph.
var iconRows = [7][]int{
	{1, 2, 3, 4, 5, 6},
	{0, 7},
	{2, 3, 4, 5},
	{1, 6},
	{3, 4},
	{2, 5},
	{3, 4},
}

// Icon draws the connectivity glyph, green when online and red otherwise.
// In order it fills from the bottom row up with a long pause per row;
// randomized it visits rows and columns in random order.
func Icon(online, randomize bool, rng *rand.Rand) Frame {
	color := matrix.Red
	if online {
		color = matrix.Green
	}

	var f Frame
	if randomize {
		for _, row := range rng.Perm(len(iconRows)) {
			cols := iconRows[row]
			for _, i := range rng.Perm(len(cols)) {
				f = append(f, Op{X: cols[i], Y: row, Color: color, Pause: 1})
			}
		}
		return f
	}

	for row := len(iconRows) - 1; row >= 0; row-- {
		for _, col := range iconRows[row] {
			f = append(f, Op{X: col, Y: row, Color: color})
		}
		f[len(f)-1].Pause = 8
	}
	return f
}
