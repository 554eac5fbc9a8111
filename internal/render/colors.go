package render

import "github.com/j-veylop/pihole-sense/internal/matrix"

// gradient runs from blue (level 0) to red (level 8).
var gradient = [9]matrix.RGB{
	{R: 0, G: 0, B: 255},
	{R: 0, G: 128, B: 255},
	{R: 0, G: 255, B: 255},
	{R: 0, G: 255, B: 128},
	{R: 0, G: 255, B: 0},
	{R: 128, G: 255, B: 0},
	{R: 255, G: 255, B: 0},
	{R: 255, G: 128, B: 0},
	{R: 255, G: 0, B: 0},
}

// Gradient returns the color for a bar height of 0..8. Out of range levels
// are clamped.
func Gradient(level int) matrix.RGB {
	return gradient[min(max(level, 0), len(gradient)-1)]
}

// queryTypeColors is the pie chart palette, keyed by Pi-hole query type name.
var queryTypeColors = map[string]matrix.RGB{
	"A (IPv4)":    {R: 255, G: 128, B: 0},
	"AAAA (IPv6)": {R: 128, G: 255, B: 0},
	"ANY":         {R: 0, G: 255, B: 255},
	"SRV":         {R: 0, G: 0, B: 255},
	"SOA":         {R: 255, G: 0, B: 255},
	"PTR":         {R: 255, G: 255, B: 0},
	"TXT":         {R: 255, G: 255, B: 255},
}

// QueryTypeColor returns the pie color of a query type.
func QueryTypeColor(name string) (matrix.RGB, bool) {
	c, ok := queryTypeColors[name]
	return c, ok
}

// KnownQueryType reports whether the pie chart has a color for name.
func KnownQueryType(name string) bool {
	_, ok := queryTypeColors[name]
	return ok
}
