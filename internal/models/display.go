package models

import (
	"fmt"
	"slices"
	"strings"
)

// ColorMode selects how bar charts are colored.
type ColorMode int

const (
	// ColorBasic draws every bar in red.
	ColorBasic ColorMode = iota
	// ColorTraffic colors bars by query volume.
	ColorTraffic
	// ColorAds colors bars by blocked percentage.
	ColorAds
)

// String returns the config name of the color mode.
func (c ColorMode) String() string {
	switch c {
	case ColorBasic:
		return "basic"
	case ColorTraffic:
		return "traffic"
	case ColorAds:
		return "ads"
	default:
		return "unknown"
	}
}

// Next cycles to the next color mode.
func (c ColorMode) Next() ColorMode {
	return (c + 1) % 3
}

// ParseColorMode parses "basic", "traffic" or "ads".
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "basic":
		return ColorBasic, nil
	case "traffic":
		return ColorTraffic, nil
	case "ads":
		return ColorAds, nil
	default:
		return ColorBasic, fmt.Errorf("unknown color mode %q", s)
	}
}

// ChartMode identifies one of the five visualizations.
type ChartMode int

const (
	// ChartIcon is the connectivity icon.
	ChartIcon ChartMode = iota + 1
	// ChartVertical is the vertical bar chart of recent intervals.
	ChartVertical
	// ChartSpiral is the blocked-today spiral.
	ChartSpiral
	// ChartHorizontal is the top sources bar chart.
	ChartHorizontal
	// ChartPie is the query types pie chart.
	ChartPie
)

// AllCharts lists every chart mode in display order.
var AllCharts = []ChartMode{ChartIcon, ChartVertical, ChartSpiral, ChartHorizontal, ChartPie}

// String returns the display name for a chart mode.
func (c ChartMode) String() string {
	switch c {
	case ChartIcon:
		return "icon"
	case ChartVertical:
		return "vertical"
	case ChartSpiral:
		return "spiral"
	case ChartHorizontal:
		return "horizontal"
	case ChartPie:
		return "pie"
	default:
		return "unknown"
	}
}

// ChartFromOrdinal converts the 1-5 ordinal used on the command line.
func ChartFromOrdinal(n int) (ChartMode, error) {
	if n < int(ChartIcon) || n > int(ChartPie) {
		return 0, fmt.Errorf("chart %d out of range 1-5", n)
	}
	return ChartMode(n), nil
}

// Intervals are the supported aggregation widths in minutes.
var Intervals = []int{10, 30, 60, 120, 180}

// Orientations are the supported display rotations in degrees.
var Orientations = []int{0, 90, 180, 270}

// DisplayConfig holds the live display settings changed by the joystick.
type DisplayConfig struct {
	Color       ColorMode
	Interval    int
	Orientation int
	LowLight    bool
	Randomize   bool
	// Charts restricts which charts are shown. Empty means all available.
	Charts []ChartMode
}

// DefaultDisplayConfig returns the settings used when nothing is configured.
func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		Color:    ColorBasic,
		Interval: 60,
	}
}

// NextInterval cycles through Intervals, wrapping after the last.
func (d DisplayConfig) NextInterval() int {
	return nextOf(Intervals, d.Interval)
}

// NextOrientation cycles through Orientations, wrapping after the last.
func (d DisplayConfig) NextOrientation() int {
	return nextOf(Orientations, d.Orientation)
}

// Validate checks that every field holds a supported value.
func (d DisplayConfig) Validate() error {
	if d.Color < ColorBasic || d.Color > ColorAds {
		return fmt.Errorf("invalid color mode %d", d.Color)
	}
	if !slices.Contains(Intervals, d.Interval) {
		return fmt.Errorf("invalid interval %d: must be one of %v", d.Interval, Intervals)
	}
	if !slices.Contains(Orientations, d.Orientation) {
		return fmt.Errorf("invalid orientation %d: must be one of %v", d.Orientation, Orientations)
	}
	for _, c := range d.Charts {
		if c < ChartIcon || c > ChartPie {
			return fmt.Errorf("invalid chart %d", c)
		}
	}
	return nil
}

func nextOf(options []int, current int) int {
	i := slices.Index(options, current)
	return options[(i+1)%len(options)]
}
