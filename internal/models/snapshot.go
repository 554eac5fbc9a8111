// Package models defines data structures and domain types.
package models

import "time"

// RawSeries is the per-10-minute over-time data reported by Pi-hole, keyed by
// the unix timestamp of each bucket.
type RawSeries struct {
	DomainsOverTime map[int64]int
	AdsOverTime     map[int64]int
}

// Len returns the number of buckets in the series.
func (r RawSeries) Len() int {
	return len(r.DomainsOverTime)
}

// Snapshot is everything fetched from the data source in a single poll.
type Snapshot struct {
	FetchedAt time.Time
	Series    RawSeries
	// TopSources maps "hostname|ip" to its query count. Nil when the server
	// did not report top sources.
	TopSources map[string]int
	// QueryTypes maps a DNS record type to its share of queries in percent.
	// Nil when the server did not report query types.
	QueryTypes             map[string]float64
	BlockedPercentageToday float64
	Online                 bool
	Cached                 bool
}

// HasTopSources reports whether the top sources category is available.
func (s *Snapshot) HasTopSources() bool {
	return s != nil && s.TopSources != nil
}

// HasQueryTypes reports whether the query types category is available.
func (s *Snapshot) HasQueryTypes() bool {
	return s != nil && s.QueryTypes != nil
}

// Sample is one aggregated interval: the number of domain queries and the
// share of them that was blocked.
type Sample struct {
	Count             int
	BlockedPercentage float64
}
