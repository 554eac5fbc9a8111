package render

import (
	"context"
	"errors"
	"image"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/j-veylop/pihole-sense/internal/matrix"
	"github.com/j-veylop/pihole-sense/internal/models"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed*31+7))
}

func countColor(g matrix.Grid, c matrix.RGB) int {
	n := 0
	for y := range matrix.Size {
		for x := range matrix.Size {
			if g[y][x] == c {
				n++
			}
		}
	}
	return n
}

func columnHeight(g matrix.Grid, x int) int {
	n := 0
	for y := range matrix.Size {
		if g[y][x] != matrix.Off {
			n++
		}
	}
	return n
}

func rowLength(g matrix.Grid, y int) int {
	n := 0
	for x := range matrix.Size {
		if g[y][x] != matrix.Off {
			n++
		}
	}
	return n
}

var specSamples = []models.Sample{
	{Count: 100, BlockedPercentage: 10},
	{Count: 50, BlockedPercentage: 20},
	{Count: 75, BlockedPercentage: 15},
	{Count: 100, BlockedPercentage: 10},
	{Count: 100, BlockedPercentage: 10},
	{Count: 100, BlockedPercentage: 10},
	{Count: 100, BlockedPercentage: 10},
	{Count: 100, BlockedPercentage: 10},
}

func TestRandomizeKeepsFinalPicture(t *testing.T) {
	sources := map[string]int{"laptop|10.0.0.2": 900, "phone|10.0.0.3": 450, "tv|10.0.0.4": 120, "nas|10.0.0.5": 3}
	queryTypes := map[string]float64{"A (IPv4)": 61.2, "AAAA (IPv6)": 30.1, "PTR": 5.5, "SRV": 3.2}

	tests := []struct {
		name  string
		frame func(randomize bool, rng *rand.Rand) Frame
	}{
		{"IconOnline", func(r bool, rng *rand.Rand) Frame { return Icon(true, r, rng) }},
		{"IconOffline", func(r bool, rng *rand.Rand) Frame { return Icon(false, r, rng) }},
		{"VerticalBasic", func(r bool, rng *rand.Rand) Frame { return VerticalBar(specSamples, models.ColorBasic, r, rng) }},
		{"VerticalTraffic", func(r bool, rng *rand.Rand) Frame { return VerticalBar(specSamples, models.ColorTraffic, r, rng) }},
		{"VerticalAds", func(r bool, rng *rand.Rand) Frame { return VerticalBar(specSamples, models.ColorAds, r, rng) }},
		{"Spiral", func(r bool, rng *rand.Rand) Frame { return Spiral(0.37, r, rng) }},
		{"Horizontal", func(r bool, rng *rand.Rand) Frame { return HorizontalBar(sources, models.ColorTraffic, r, rng) }},
		{"Pie", func(r bool, rng *rand.Rand) Frame { return Pie(queryTypes, r, rng) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ordered := tt.frame(false, nil)
			for seed := uint64(1); seed <= 5; seed++ {
				random := tt.frame(true, newRand(seed))
				if len(random) != len(ordered) {
					t.Fatalf("seed %d: %d ops randomized, %d ordered", seed, len(random), len(ordered))
				}
				if diff := cmp.Diff(ordered.Final(), random.Final()); diff != "" {
					t.Errorf("seed %d: final picture differs (-ordered +random):\n%s", seed, diff)
				}
			}
		})
	}
}

func TestIcon(t *testing.T) {
	f := Icon(true, false, nil)
	if len(f) != 20 {
		t.Fatalf("icon has %d pixels, want 20", len(f))
	}
	if f[0] != (Op{X: 3, Y: 6, Color: matrix.Green}) {
		t.Errorf("first op = %+v, want bottom row first", f[0])
	}

	// Each row ends with a long pause and nothing else pauses.
	rowEnds := 0
	for i, op := range f {
		lastInRow := i == len(f)-1 || f[i+1].Y != op.Y
		switch {
		case lastInRow && op.Pause != 8:
			t.Errorf("op %d ends row %d with pause %d, want 8", i, op.Y, op.Pause)
		case !lastInRow && op.Pause != 0:
			t.Errorf("op %d pauses mid-row", i)
		}
		if lastInRow {
			rowEnds++
		}
	}
	if rowEnds != 7 {
		t.Errorf("got %d rows, want 7", rowEnds)
	}

	if countColor(Icon(false, false, nil).Final(), matrix.Red) != 20 {
		t.Error("offline icon should be red")
	}

	for _, op := range Icon(true, true, newRand(3)) {
		if op.Pause != 1 {
			t.Fatalf("randomized icon should pause once per pixel, got %d", op.Pause)
		}
	}
}

func TestVerticalBar_Scaling(t *testing.T) {
	g := VerticalBar(specSamples, models.ColorBasic, false, nil).Final()

	// Sample i is drawn in column 7-i.
	want := []int{8, 0, 4, 8, 8, 8, 8, 8}
	for i, h := range want {
		if got := columnHeight(g, matrix.Size-1-i); got != h {
			t.Errorf("sample %d: column height %d, want %d", i, got, h)
		}
	}
	if countColor(g, matrix.Red) != g.Lit() {
		t.Error("basic mode should draw only red pixels")
	}
	// Bars grow from the bottom.
	if g[7][5] != matrix.Red || g[4][5] != matrix.Red || g[3][5] != matrix.Off {
		t.Error("column 5 should light rows 4-7 only")
	}
}

func TestVerticalBar_ColorModes(t *testing.T) {
	traffic := VerticalBar(specSamples, models.ColorTraffic, false, nil).Final()
	if traffic[7][7] != Gradient(8) {
		t.Errorf("traffic color for full bar = %v, want %v", traffic[7][7], Gradient(8))
	}
	if traffic[7][5] != Gradient(4) {
		t.Errorf("traffic color for half bar = %v, want %v", traffic[7][5], Gradient(4))
	}

	ads := VerticalBar(specSamples, models.ColorAds, false, nil).Final()
	// Percentages 10..20: the newest sample sits at the minimum.
	if ads[7][7] != Gradient(0) {
		t.Errorf("ads color for newest bar = %v, want %v", ads[7][7], Gradient(0))
	}
	if ads[7][5] != Gradient(4) {
		t.Errorf("ads color for 15%% bar = %v, want %v", ads[7][5], Gradient(4))
	}
}

func TestVerticalBar_DegenerateInput(t *testing.T) {
	flat := []models.Sample{{Count: 10}, {Count: 10}, {Count: 10}}
	if got := VerticalBar(flat, models.ColorBasic, false, nil); len(got) != 0 {
		t.Errorf("flat series should draw nothing, got %d ops", len(got))
	}
	if got := VerticalBar(nil, models.ColorTraffic, false, nil); len(got) != 0 {
		t.Errorf("no samples should draw nothing, got %d ops", len(got))
	}

	short := []models.Sample{{Count: 40}, {Count: 0}}
	g := VerticalBar(short, models.ColorBasic, false, nil).Final()
	if columnHeight(g, 7) != 8 {
		t.Error("newest sample should reach the top")
	}
	for x := range 7 {
		if columnHeight(g, x) != 0 {
			t.Errorf("column %d should be empty", x)
		}
	}
}

func TestVerticalBar_UsesRecentEight(t *testing.T) {
	samples := append([]models.Sample(nil), specSamples...)
	samples = append(samples, models.Sample{Count: 100000})
	got := VerticalBar(samples, models.ColorBasic, false, nil).Final()
	want := VerticalBar(specSamples, models.ColorBasic, false, nil).Final()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("older samples should not affect scaling (-want +got):\n%s", diff)
	}
}

func legLengths(path []image.Point) []int {
	var legs []int
	run := 0
	var dir image.Point
	for i := 1; i < len(path); i++ {
		d := path[i].Sub(path[i-1])
		if i > 1 && d != dir {
			legs = append(legs, run)
			run = 0
		}
		dir = d
		run++
	}
	return append(legs, run)
}

func TestBarHeights_PadsShortInput(t *testing.T) {
	samples := []models.Sample{
		{Count: 80, BlockedPercentage: 10},
		{Count: 40, BlockedPercentage: 5},
		{Count: 0, BlockedPercentage: 0},
	}
	counts, percents := barHeights(samples)

	want := [matrix.Size]int{8, 4, 0, 0, 0, 0, 0, 0}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, percents); diff != "" {
		t.Errorf("percents mismatch (-want +got):\n%s", diff)
	}
}

func TestSpiralPath(t *testing.T) {
	path := SpiralPath()
	if len(path) != 64 {
		t.Fatalf("path has %d cells, want 64", len(path))
	}
	if path[0] != image.Pt(3, 3) || path[1] != image.Pt(3, 4) {
		t.Errorf("path starts %v %v, want (3,3) then one step down", path[0], path[1])
	}

	seen := make(map[image.Point]bool)
	for _, p := range path {
		if p.X < 0 || p.X >= 8 || p.Y < 0 || p.Y >= 8 {
			t.Fatalf("cell %v outside the matrix", p)
		}
		if seen[p] {
			t.Fatalf("cell %v visited twice", p)
		}
		seen[p] = true
	}

	want := []int{1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 7}
	if diff := cmp.Diff(want, legLengths(path)); diff != "" {
		t.Errorf("leg lengths mismatch (-want +got):\n%s", diff)
	}
}

func TestSpiral_Fill(t *testing.T) {
	tests := []struct {
		fill    float64
		wantRed int
	}{
		{0, 0},
		{0.5, 32},
		{0.1, 6},
		{1, 64},
		{1.7, 64},
		{-0.2, 0},
	}
	for _, tt := range tests {
		g := Spiral(tt.fill, false, nil).Final()
		if got := countColor(g, matrix.Red); got != tt.wantRed {
			t.Errorf("Spiral(%v): %d red cells, want %d", tt.fill, got, tt.wantRed)
		}
		if got := countColor(g, matrix.Blue); got != 64-tt.wantRed {
			t.Errorf("Spiral(%v): %d blue cells, want %d", tt.fill, got, 64-tt.wantRed)
		}
	}

	first := Spiral(0.02, false, nil)[0]
	if first.X != 3 || first.Y != 3 || first.Color != matrix.Red {
		t.Errorf("spiral should start red at the center, got %+v", first)
	}
}

func TestHorizontalBar(t *testing.T) {
	sources := map[string]int{
		"a": 10, "b": 90, "c": 50, "d": 10,
		"e": 20, "f": 30, "g": 40, "h": 60, "i": 70, "j": 80,
	}
	g := HorizontalBar(sources, models.ColorBasic, false, nil).Final()

	// Range 10..90 in steps of 10; rows follow rank.
	want := []int{8, 7, 6, 5, 4, 3, 2, 1}
	for row, n := range want {
		if got := rowLength(g, row); got != n {
			t.Errorf("row %d has %d pixels, want %d", row, got, n)
		}
	}
	if g[0][0] != matrix.Red {
		t.Error("bars should start at the left edge")
	}

	colored := HorizontalBar(sources, models.ColorAds, false, nil).Final()
	if colored[0][0] != Gradient(8) || colored[3][0] != Gradient(5) {
		t.Error("non-basic modes should use the gradient keyed by bar length")
	}
}

func TestHorizontalBar_Degenerate(t *testing.T) {
	if got := HorizontalBar(nil, models.ColorBasic, false, nil); len(got) != 0 {
		t.Errorf("no sources should draw nothing, got %d ops", len(got))
	}
	if got := HorizontalBar(map[string]int{"a": 5, "b": 5}, models.ColorBasic, false, nil); len(got) != 0 {
		t.Errorf("equal sources should draw nothing, got %d ops", len(got))
	}

	g := HorizontalBar(map[string]int{"only": 12}, models.ColorBasic, false, nil).Final()
	if rowLength(g, 0) != 8 || g.Lit() != 8 {
		t.Error("a single source should fill the top row")
	}
}

func TestPie_EightyTwenty(t *testing.T) {
	f := Pie(map[string]float64{"A (IPv4)": 80, "AAAA (IPv6)": 20}, false, nil)
	g := f.Final()

	ipv4, _ := QueryTypeColor("A (IPv4)")
	ipv6, _ := QueryTypeColor("AAAA (IPv6)")
	if got := countColor(g, ipv4); got != 51 {
		t.Errorf("IPv4 cells = %d, want 51", got)
	}
	if got := countColor(g, ipv6); got != 13 {
		t.Errorf("IPv6 cells = %d, want 13", got)
	}
	if g.Lit() != 64 {
		t.Errorf("%d cells lit, want 64", g.Lit())
	}
	if f[0].X != 4 || f[0].Y != 0 {
		t.Errorf("pie should start at the top of the right half, got (%d,%d)", f[0].X, f[0].Y)
	}
}

func TestPie_RoundingLeftovers(t *testing.T) {
	ipv4, _ := QueryTypeColor("A (IPv4)")
	ipv6, _ := QueryTypeColor("AAAA (IPv6)")

	// 32 + 26 = 58 cells; the remaining 6 borrow the last wedge's color.
	g := Pie(map[string]float64{"A (IPv4)": 50, "AAAA (IPv6)": 40}, false, nil).Final()
	if countColor(g, ipv4) != 32 || countColor(g, ipv6) != 32 {
		t.Errorf("got %d IPv4 / %d IPv6 cells, want 32 / 32", countColor(g, ipv4), countColor(g, ipv6))
	}

	// A zero-cell category is skipped and its cells go to the previous color.
	g = Pie(map[string]float64{"A (IPv4)": 50, "SRV": 0.1}, false, nil).Final()
	if countColor(g, ipv4) != 64 {
		t.Errorf("got %d IPv4 cells, want 64", countColor(g, ipv4))
	}
}

func TestPie_EmptyAndUnknown(t *testing.T) {
	if got := Pie(nil, false, nil); len(got) != 0 {
		t.Errorf("no query types should draw nothing, got %d ops", len(got))
	}
	if got := Pie(map[string]float64{"TXT": 0}, true, newRand(1)); len(got) != 0 {
		t.Errorf("all-zero query types should draw nothing, got %d ops", len(got))
	}

	defer func() {
		if recover() == nil {
			t.Error("unknown query type should panic")
		}
	}()
	Pie(map[string]float64{"HTTPS": 100}, false, nil)
}

func TestPiePath(t *testing.T) {
	path := PiePath()
	seen := make(map[image.Point]bool, len(path))
	for _, p := range path {
		seen[p] = true
	}
	if len(path) != 64 || len(seen) != 64 {
		t.Fatalf("pie path covers %d unique of %d cells", len(seen), len(path))
	}
	if path[32] != image.Pt(3, 7) || path[63] != image.Pt(0, 0) {
		t.Errorf("left half should run bottom to top, got %v .. %v", path[32], path[63])
	}
}

func TestGradient(t *testing.T) {
	if Gradient(0) != matrix.Blue || Gradient(8) != matrix.Red {
		t.Error("gradient should run from blue to red")
	}
	if Gradient(-3) != Gradient(0) || Gradient(20) != Gradient(8) {
		t.Error("out of range levels should clamp")
	}
}

func TestKnownQueryType(t *testing.T) {
	for _, name := range []string{"A (IPv4)", "AAAA (IPv6)", "ANY", "SRV", "SOA", "PTR", "TXT"} {
		if !KnownQueryType(name) {
			t.Errorf("%q should be known", name)
		}
	}
	if KnownQueryType("NAPTR") {
		t.Error("NAPTR should be unknown")
	}
}

func TestChart_Dispatch(t *testing.T) {
	d := Data{
		Samples:                specSamples,
		TopSources:             map[string]int{"a": 3},
		QueryTypes:             map[string]float64{"A (IPv4)": 100},
		BlockedPercentageToday: 25,
		Online:                 true,
	}

	tests := []struct {
		mode models.ChartMode
		want Frame
	}{
		{models.ChartIcon, Icon(true, false, nil)},
		{models.ChartVertical, VerticalBar(d.Samples, models.ColorTraffic, false, nil)},
		{models.ChartSpiral, Spiral(0.25, false, nil)},
		{models.ChartHorizontal, HorizontalBar(d.TopSources, models.ColorTraffic, false, nil)},
		{models.ChartPie, Pie(d.QueryTypes, false, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			got := Chart(tt.mode, d, models.ColorTraffic, false, nil)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Chart(%v) mismatch (-want +got):\n%s", tt.mode, diff)
			}
		})
	}
	if Chart(models.ChartMode(0), d, models.ColorBasic, false, nil) != nil {
		t.Error("unknown mode should yield nil")
	}
}

func TestPainter_Paint(t *testing.T) {
	mem := &matrix.Memory{}
	dev := matrix.NewDevice(mem)

	// Leave something on the matrix that the painter must clear.
	if err := dev.SetPixel(0, 0, matrix.Green); err != nil {
		t.Fatal(err)
	}

	var slept []time.Duration
	p := &Painter{
		Ripple: time.Millisecond,
		Sleep: func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		},
	}

	f := Icon(true, false, nil)
	if err := p.Paint(context.Background(), dev, f, Settings{Orientation: 180, LowLight: true}); err != nil {
		t.Fatalf("Paint failed: %v", err)
	}

	if diff := cmp.Diff(f.Final(), dev.Logical()); diff != "" {
		t.Errorf("logical picture mismatch (-want +got):\n%s", diff)
	}
	if mem.Grid() != matrix.Rotate(f.Final(), 180) {
		t.Error("panel should show the rotated picture")
	}
	if !mem.LowLight() {
		t.Error("low light not applied")
	}
	if len(slept) != 7 || slept[0] != 8*time.Millisecond {
		t.Errorf("expected 7 row pauses of 8ms, got %v", slept)
	}
}

func TestPainter_Cancelled(t *testing.T) {
	dev := matrix.NewDevice(&matrix.Memory{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPainter(time.Millisecond)
	err := p.Paint(ctx, dev, Spiral(0.5, false, nil), Settings{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if dev.Logical().Lit() != 1 {
		t.Errorf("painting should stop after the first pixel, %d lit", dev.Logical().Lit())
	}
}
