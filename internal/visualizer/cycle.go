package visualizer

import (
	"slices"

	"github.com/j-veylop/pihole-sense/internal/logger"
	"github.com/j-veylop/pihole-sense/internal/models"
)

// Cycle repeats the enabled chart modes round-robin. New membership is
// picked up when the current lap ends.
type Cycle struct {
	lap     []models.ChartMode
	pos     int
	pending []models.ChartMode
}

// NewCycle returns a cycle over modes.
func NewCycle(modes ...models.ChartMode) *Cycle {
	c := &Cycle{}
	c.SetModes(modes)
	return c
}

// SetModes replaces the membership from the next lap on.
func (c *Cycle) SetModes(modes []models.ChartMode) {
	c.pending = slices.Clone(modes)
}

// Next returns the next mode, or false when no mode is enabled.
func (c *Cycle) Next() (models.ChartMode, bool) {
	if c.pos >= len(c.lap) {
		c.lap = slices.Clone(c.pending)
		c.pos = 0
	}
	if len(c.lap) == 0 {
		return 0, false
	}
	mode := c.lap[c.pos]
	c.pos++
	return mode, true
}

// EnabledCharts returns the charts the snapshot has data for, restricted to
// filter when it is non-empty. A filter that leaves nothing is ignored.
func EnabledCharts(snap *models.Snapshot, filter []models.ChartMode) []models.ChartMode {
	available := []models.ChartMode{models.ChartIcon, models.ChartVertical, models.ChartSpiral}
	if snap.HasTopSources() {
		available = append(available, models.ChartHorizontal)
	}
	if snap.HasQueryTypes() {
		available = append(available, models.ChartPie)
	}
	if len(filter) == 0 {
		return available
	}

	enabled := make([]models.ChartMode, 0, len(available))
	for _, mode := range available {
		if slices.Contains(filter, mode) {
			enabled = append(enabled, mode)
		}
	}
	if len(enabled) == 0 {
		logger.Warn("no selected chart has data, showing all available charts", "selected", filter)
		return available
	}
	return enabled
}
