// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// TimeRange names a relative publication window for federated search.
type TimeRange string

const (
	RangeYesterday  TimeRange = "yesterday"
	RangePastWeek   TimeRange = "past_week"
	RangePastMonth  TimeRange = "past_month"
	RangePast3Month TimeRange = "past_3months"
	RangePastYear   TimeRange = "past_year"
)

// rangeDays maps each window to its length in days.
var rangeDays = map[TimeRange]int{
	RangeYesterday:  1,
	RangePastWeek:   7,
	RangePastMonth:  30,
	RangePast3Month: 90,
	RangePastYear:   365,
}

// Valid reports whether the value is one of the named windows.
func (t TimeRange) Valid() bool {
	_, ok := rangeDays[t]
	return ok
}

// Window returns the [from, to] bounds for the range, ending now. Unknown
// values fall back to the past year.
func (t TimeRange) Window(now time.Time) (time.Time, time.Time) {
	days, ok := rangeDays[t]
	if !ok {
		days = rangeDays[RangePastYear]
	}
	return now.AddDate(0, 0, -days), now
}

// SearchStrategy is the derived parameter set that drives federated
// search: what to look for, how far back, where, and how many results
// the caller wants.
type SearchStrategy struct {
	Keywords    []string  `json:"keywords"`
	TimeRange   TimeRange `json:"time_range"`
	Sources     []Source  `json:"sources"`
	TargetCount int       `json:"target_count"`
}

// DefaultStrategy returns the documented fallback used when strategy
// planning yields nothing parseable: past year, all sources, 20 results.
func DefaultStrategy() SearchStrategy {
	return SearchStrategy{
		TimeRange:   RangePastYear,
		Sources:     AllSources(),
		TargetCount: 20,
	}
}
