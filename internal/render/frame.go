// Package render turns Pi-hole statistics into pixel frames for the 8x8
// matrix. Renderers are pure: they only decide which pixel gets which color
// and in what order. The Painter puts a frame on a device.
package render

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/j-veylop/pihole-sense/internal/matrix"
)

// DefaultRipple is the pause between two pixels of an animated frame.
const DefaultRipple = 25 * time.Millisecond

// Op sets one pixel and then waits Pause ripple delays.
type Op struct {
	X, Y  int
	Color matrix.RGB
	Pause int
}

// Frame is an ordered list of pixel operations.
type Frame []Op

// Final returns the grid left on a cleared matrix once every op has run.
func (f Frame) Final() matrix.Grid {
	var g matrix.Grid
	for _, op := range f {
		g[op.Y][op.X] = op.Color
	}
	return g
}

// Painter draws frames on a matrix.
type Painter struct {
	// Ripple is the delay unit applied after each op.
	Ripple time.Duration
	// Sleep waits for d or until ctx is done. Defaults to a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewPainter returns a painter with the given ripple delay.
func NewPainter(ripple time.Duration) *Painter {
	return &Painter{Ripple: ripple, Sleep: Sleep}
}

// Settings are the display parameters applied before a frame is drawn.
type Settings struct {
	Orientation int
	LowLight    bool
}

// Paint clears the matrix, applies orientation and low light, then emits the
// frame op by op.
func (p *Painter) Paint(ctx context.Context, m matrix.Matrix, f Frame, s Settings) error {
	if err := m.Clear(); err != nil {
		return fmt.Errorf("failed to clear matrix: %w", err)
	}
	if err := m.SetRotation(s.Orientation); err != nil {
		return fmt.Errorf("failed to set rotation: %w", err)
	}
	if err := m.SetLowLight(s.LowLight); err != nil {
		return fmt.Errorf("failed to set low light: %w", err)
	}

	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	for _, op := range f {
		if err := m.SetPixel(op.X, op.Y, op.Color); err != nil {
			return fmt.Errorf("failed to set pixel (%d,%d): %w", op.X, op.Y, err)
		}
		if op.Pause > 0 && p.Ripple > 0 {
			if err := sleep(ctx, time.Duration(op.Pause)*p.Ripple); err != nil {
				return err
			}
		}
	}
	return ctx.Err()
}

// Sleep waits for d, returning early with ctx.Err() if ctx is cancelled.
func Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// perm returns 0..n-1 in order, or shuffled when randomize is set.
func perm(n int, randomize bool, rng *rand.Rand) []int {
	if randomize {
		return rng.Perm(n)
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// shuffled returns the frame in random order with one ripple per op.
func shuffled(f Frame, rng *rand.Rand) Frame {
	out := make(Frame, len(f))
	for i, j := range rng.Perm(len(f)) {
		out[i] = f[j]
		out[i].Pause = 1
	}
	return out
}
