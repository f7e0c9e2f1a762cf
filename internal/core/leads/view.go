package leads

import "time"

// TopSourceCount is how many sources the dashboard ranks
const TopSourceCount = 3

// Options fixes the clock and zone a computation runs against
type Options struct {
	Now time.Time
	Loc *time.Location
}

// View is every derived series for one snapshot and filter state
type View struct {
	Filter      FilterState    `json:"filter"`
	Total       int            `json:"total"`
	Filtered    int            `json:"filtered"`
	Series      []DayCount     `json:"series"`
	Tiers       []Segment      `json:"tiers"`
	Average     int            `json:"average"`
	Buckets     []Bucket       `json:"buckets"`
	Weekdays    []WeekdayCount `json:"weekdays"`
	TopSources  []Share        `json:"topSources"`
	Summary     Summary        `json:"summary"`
	Sources     []string       `json:"sources"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Err         string         `json:"error,omitempty"`
}

// Compute filters the snapshot and derives every series from the result
func Compute(records []Record, state FilterState, opts Options) View {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	state = state.Normalize()
	filtered := Filter(records, state, opts.Loc)
	series := TimeSeries(filtered, now, opts.Loc)
	avg := AverageScore(filtered)
	return View{
		Filter:      state,
		Total:       len(records),
		Filtered:    len(filtered),
		Series:      series,
		Tiers:       Tiers(filtered),
		Average:     avg,
		Buckets:     ScoreBuckets(filtered),
		Weekdays:    Weekdays(filtered, opts.Loc),
		TopSources:  TopSources(filtered, TopSourceCount),
		Summary:     Summarize(filtered, series, avg, now, opts.Loc),
		Sources:     UniqueSources(records),
		GeneratedAt: now,
	}
}

// UniqueSources lists the filter select options: the all sentinel then each
// distinct non-empty source in first-seen order, deduplicated case-insensitively
func UniqueSources(records []Record) []string {
	out := []string{AllSources}
	seen := map[string]struct{}{AllSources: {}}
	for _, r := range records {
		if r.Source == "" {
			continue
		}
		k := fold(r.Source)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r.Source)
	}
	return out
}
