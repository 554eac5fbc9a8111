package models

import (
	"testing"
)

func TestColorMode_Next(t *testing.T) {
	tests := []struct {
		name string
		c    ColorMode
		want ColorMode
	}{
		{"basic -> traffic", ColorBasic, ColorTraffic},
		{"traffic -> ads", ColorTraffic, ColorAds},
		{"ads -> basic", ColorAds, ColorBasic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Next(); got != tt.want {
				t.Errorf("ColorMode.Next() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ColorMode
		wantErr bool
	}{
		{"basic", ColorBasic, false},
		{"Traffic", ColorTraffic, false},
		{" ads ", ColorAds, false},
		{"rainbow", ColorBasic, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColorMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColorMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseColorMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestChartMode_String(t *testing.T) {
	want := []string{"icon", "vertical", "spiral", "horizontal", "pie"}
	for i, c := range AllCharts {
		if c.String() != want[i] {
			t.Errorf("ChartMode(%d).String() = %q, want %q", c, c.String(), want[i])
		}
	}
	if ChartMode(42).String() != "unknown" {
		t.Error("out of range chart should be unknown")
	}
}

func TestChartFromOrdinal(t *testing.T) {
	for n := 1; n <= 5; n++ {
		c, err := ChartFromOrdinal(n)
		if err != nil {
			t.Fatalf("ChartFromOrdinal(%d) failed: %v", n, err)
		}
		if int(c) != n {
			t.Errorf("ChartFromOrdinal(%d) = %d", n, c)
		}
	}
	for _, n := range []int{0, 6, -1} {
		if _, err := ChartFromOrdinal(n); err == nil {
			t.Errorf("ChartFromOrdinal(%d) should fail", n)
		}
	}
}

func TestDisplayConfig_NextInterval(t *testing.T) {
	tests := []struct {
		current int
		want    int
	}{
		{10, 30},
		{30, 60},
		{60, 120},
		{120, 180},
		{180, 10},
	}
	for _, tt := range tests {
		cfg := DisplayConfig{Interval: tt.current}
		if got := cfg.NextInterval(); got != tt.want {
			t.Errorf("NextInterval() from %d = %d, want %d", tt.current, got, tt.want)
		}
	}
}

func TestDisplayConfig_NextOrientation(t *testing.T) {
	tests := []struct {
		current int
		want    int
	}{
		{0, 90},
		{90, 180},
		{180, 270},
		{270, 0},
	}
	for _, tt := range tests {
		cfg := DisplayConfig{Orientation: tt.current}
		if got := cfg.NextOrientation(); got != tt.want {
			t.Errorf("NextOrientation() from %d = %d, want %d", tt.current, got, tt.want)
		}
	}
}

func TestDisplayConfig_Validate(t *testing.T) {
	valid := DefaultDisplayConfig()
	if err := valid.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*DisplayConfig)
	}{
		{"Interval", func(d *DisplayConfig) { d.Interval = 15 }},
		{"Orientation", func(d *DisplayConfig) { d.Orientation = 45 }},
		{"Color", func(d *DisplayConfig) { d.Color = ColorMode(7) }},
		{"Chart", func(d *DisplayConfig) { d.Charts = []ChartMode{ChartIcon, ChartMode(9)} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultDisplayConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestSnapshot_Categories(t *testing.T) {
	var nilSnap *Snapshot
	if nilSnap.HasTopSources() || nilSnap.HasQueryTypes() {
		t.Error("nil snapshot should report no categories")
	}

	s := &Snapshot{TopSources: map[string]int{}}
	if !s.HasTopSources() {
		t.Error("empty but present top sources should be available")
	}
	if s.HasQueryTypes() {
		t.Error("absent query types should not be available")
	}
}
