// Package aggregate buckets Pi-hole's 10-minute over-time data into coarser
// display intervals.
package aggregate

import (
	"slices"

	"github.com/j-veylop/pihole-sense/internal/models"
)

// BucketMinutes is the native resolution of the over-time data.
const BucketMinutes = 10

// WindowSize returns how many samples of the given interval fit in 24 hours,
// or 0 for an unsupported interval.
func WindowSize(interval int) int {
	switch interval {
	case 10:
		return 144
	case 30:
		return 48
	case 60:
		return 24
	case 120:
		return 12
	case 180:
		return 8
	default:
		return 0
	}
}

// Aggregate groups the series into samples of interval minutes, most recent
// first. The oldest, incomplete group is dropped and the result is truncated
// to WindowSize(interval). A series shorter than the window yields fewer
// samples; the result is never padded. Renderers that need a fixed number
// of bars fill the gap themselves.
func Aggregate(series models.RawSeries, interval int) []models.Sample {
	window := WindowSize(interval)
	if window == 0 {
		return nil
	}
	k := interval / BucketMinutes

	keys := make([]int64, 0, len(series.DomainsOverTime))
	for ts := range series.DomainsOverTime {
		keys = append(keys, ts)
	}
	slices.Sort(keys)
	slices.Reverse(keys)

	samples := make([]models.Sample, 0, min(window, len(keys)))
	domains, ads := 0, 0

	for i, ts := range keys {
		if k == 1 {
			samples = append(samples, sample(series.DomainsOverTime[ts], series.AdsOverTime[ts]))
			continue
		}
		if i > 0 && i%k == 0 {
			samples = append(samples, sample(domains, ads))
			domains, ads = 0, 0
		}
		domains += series.DomainsOverTime[ts]
		ads += series.AdsOverTime[ts]
	}

	if len(samples) > window {
		samples = samples[:window]
	}
	return samples
}

// Totals sums the counts of samples and returns the overall blocked share.
func Totals(samples []models.Sample) (count int, blockedPercentage float64) {
	var blocked float64
	for _, s := range samples {
		count += s.Count
		blocked += float64(s.Count) * s.BlockedPercentage / 100
	}
	if count == 0 {
		return 0, 0
	}
	return count, blocked / float64(count) * 100
}

func sample(domains, ads int) models.Sample {
	s := models.Sample{Count: max(domains, 0)}
	if domains > 0 {
		s.BlockedPercentage = min(max(float64(ads)/float64(domains)*100, 0), 100)
	}
	return s
}
