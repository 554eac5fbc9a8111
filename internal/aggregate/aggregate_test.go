package aggregate

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/j-veylop/pihole-sense/internal/models"
)

const start = int64(1700000000)

// makeSeries builds n buckets, oldest first, using the given generators.
func makeSeries(n int, domains, ads func(i int) int) models.RawSeries {
	s := models.RawSeries{
		DomainsOverTime: make(map[int64]int, n),
		AdsOverTime:     make(map[int64]int, n),
	}
	for i := range n {
		ts := start + int64(i)*600
		s.DomainsOverTime[ts] = domains(i)
		s.AdsOverTime[ts] = ads(i)
	}
	return s
}

func TestWindowSize(t *testing.T) {
	tests := []struct {
		interval int
		want     int
	}{
		{10, 144},
		{30, 48},
		{60, 24},
		{120, 12},
		{180, 8},
		{15, 0},
	}
	for _, tt := range tests {
		if got := WindowSize(tt.interval); got != tt.want {
			t.Errorf("WindowSize(%d) = %d, want %d", tt.interval, got, tt.want)
		}
	}
}

func TestAggregate_WindowAndPercentageBounds(t *testing.T) {
	series := makeSeries(300,
		func(i int) int { return (i * 37) % 90 },
		func(i int) int { return (i * 11) % 120 }, // sometimes more ads than domains
	)

	for _, interval := range models.Intervals {
		samples := Aggregate(series, interval)
		if len(samples) > WindowSize(interval) {
			t.Errorf("interval %d: got %d samples, window is %d", interval, len(samples), WindowSize(interval))
		}
		for i, s := range samples {
			if s.BlockedPercentage < 0 || s.BlockedPercentage > 100 {
				t.Errorf("interval %d sample %d: percentage %v out of range", interval, i, s.BlockedPercentage)
			}
			if s.Count < 0 {
				t.Errorf("interval %d sample %d: negative count %d", interval, i, s.Count)
			}
		}
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	series := makeSeries(144,
		func(i int) int { return 100 + i },
		func(i int) int { return i },
	)
	for _, interval := range models.Intervals {
		first := Aggregate(series, interval)
		second := Aggregate(series, interval)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("interval %d: results differ (-first +second):\n%s", interval, diff)
		}
	}
}

func TestAggregate_TenMinutesMostRecentFirst(t *testing.T) {
	series := makeSeries(3,
		func(i int) int { return []int{10, 20, 0}[i] },
		func(i int) int { return []int{5, 5, 0}[i] },
	)

	got := Aggregate(series, 10)
	want := []models.Sample{
		{Count: 0, BlockedPercentage: 0},
		{Count: 20, BlockedPercentage: 25},
		{Count: 10, BlockedPercentage: 50},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Aggregate mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_GroupsAndDropsPartialBucket(t *testing.T) {
	// 7 buckets of 10 domains / 1 ad at 30 minutes: two full groups, one
	// bucket left over and dropped.
	series := makeSeries(7,
		func(int) int { return 10 },
		func(int) int { return 1 },
	)

	got := Aggregate(series, 30)
	want := []models.Sample{
		{Count: 30, BlockedPercentage: 10},
		{Count: 30, BlockedPercentage: 10},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Aggregate mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_GroupOrder(t *testing.T) {
	// Newest buckets come first: the first 60-minute sample must sum the
	// six most recent buckets.
	series := makeSeries(13,
		func(i int) int { return i },
		func(int) int { return 0 },
	)

	got := Aggregate(series, 60)
	if len(got) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(got))
	}
	if got[0].Count != 12+11+10+9+8+7 {
		t.Errorf("first sample count = %d, want %d", got[0].Count, 12+11+10+9+8+7)
	}
	if got[1].Count != 6+5+4+3+2+1 {
		t.Errorf("second sample count = %d, want %d", got[1].Count, 6+5+4+3+2+1)
	}
}

func TestAggregate_Truncates(t *testing.T) {
	series := makeSeries(200,
		func(int) int { return 1 },
		func(int) int { return 0 },
	)
	if got := Aggregate(series, 10); len(got) != 144 {
		t.Errorf("expected 144 samples, got %d", len(got))
	}
	// 200 buckets at 180 minutes emit 11 groups, truncated to 8.
	if got := Aggregate(series, 180); len(got) != 8 {
		t.Errorf("expected 8 samples, got %d", len(got))
	}
}

func TestAggregate_ShortSeriesNotPadded(t *testing.T) {
	series := makeSeries(5, func(int) int { return 10 }, func(int) int { return 1 })
	if got := Aggregate(series, 10); len(got) != 5 {
		t.Errorf("len = %d, want 5 for a 5 bucket series", len(got))
	}
	if got := Aggregate(series, 60); len(got) != 0 {
		t.Errorf("len = %d, want 0 when no full hour exists", len(got))
	}
}

func TestAggregate_EmptyAndUnsupported(t *testing.T) {
	if got := Aggregate(models.RawSeries{}, 60); len(got) != 0 {
		t.Errorf("empty series should yield no samples, got %v", got)
	}
	series := makeSeries(10, func(int) int { return 1 }, func(int) int { return 0 })
	if got := Aggregate(series, 45); got != nil {
		t.Errorf("unsupported interval should yield nil, got %v", got)
	}
}

func TestAggregate_MissingAdsBucket(t *testing.T) {
	series := models.RawSeries{
		DomainsOverTime: map[int64]int{start: 40},
		AdsOverTime:     map[int64]int{},
	}
	got := Aggregate(series, 10)
	if len(got) != 1 || got[0].Count != 40 || got[0].BlockedPercentage != 0 {
		t.Errorf("unexpected result %v", got)
	}
}

func TestTotals(t *testing.T) {
	count, pct := Totals([]models.Sample{
		{Count: 100, BlockedPercentage: 10},
		{Count: 300, BlockedPercentage: 30},
	})
	if count != 400 {
		t.Errorf("count = %d, want 400", count)
	}
	if pct != 25 {
		t.Errorf("percentage = %v, want 25", pct)
	}

	if c, p := Totals(nil); c != 0 || p != 0 {
		t.Errorf("Totals(nil) = %d, %v", c, p)
	}
}
