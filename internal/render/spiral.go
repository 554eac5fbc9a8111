package render

import (
	"image"
	"math"
	"math/rand/v2"

	"github.com/j-veylop/pihole-sense/internal/matrix"
)

// SpiralPath returns the 64 cells of a square spiral starting at (3,3) and
// stepping down first. Legs grow 1,1,2,2,3,3,...
func SpiralPath() []image.Point {
	const cells = matrix.Size * matrix.Size

	path := make([]image.Point, 0, cells)
	x, y := 3, 3
	dx, dy := 0, 1
	step, leg := 0, 1

	for range cells {
		path = append(path, image.Pt(x, y))

		if step == leg {
			step = 0
			if dx == 0 {
				dx, dy = dy, dx
			} else {
				dx, dy = dy, -dx
				leg++
			}
		}
		x += dx
		y += dy
		step++
	}
	return path
}

// Spiral fills the first fill*64 cells of the spiral in red and the rest in
// blue. fill is clamped to [0,1].
func Spiral(fill float64, randomize bool, rng *rand.Rand) Frame {
	units := int(math.Round(float64(matrix.Size*matrix.Size) * min(max(fill, 0), 1)))

	path := SpiralPath()
	f := make(Frame, 0, len(path))
	for i, p := range path {
		color := matrix.Blue
		if i < units {
			color = matrix.Red
		}
		f = append(f, Op{X: p.X, Y: p.Y, Color: color, Pause: 1})
	}

	if randomize {
		return shuffled(f, rng)
	}
	return f
}
