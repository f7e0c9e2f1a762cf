// Package leads holds the lead record model and the pure analytics over it
// Stages
// 1 Filter narrows a snapshot by FilterState
// 2 Aggregators derive chart-ready series from the filtered set
// 3 Compute runs both and bundles a View
// Everything here is total: no errors, no panics, absent fields are values too
package leads

import (
	"sort"
	"strings"
	"time"
)

// Tier thresholds on the 0..100 score scale
const (
	HotScore    = 70
	MediumScore = 40
)

// Record is one captured lead as delivered by a feed
// Optional values use nil pointers or empty strings for absent
type Record struct {
	ID        string     `json:"id,omitempty"`
	Score     *float64   `json:"score,omitempty"`
	Source    string     `json:"source,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	Name      string     `json:"name,omitempty"`
	Email     string     `json:"email,omitempty"`
	Company   string     `json:"company,omitempty"`
	Pitch     string     `json:"pitch,omitempty"`
}

// HasScore reports whether the score is defined
func (r Record) HasScore() bool { return r.Score != nil }

// ScoreValue returns the score or 0 when absent
func (r Record) ScoreValue() float64 {
	if r.Score == nil {
		return 0
	}
	return *r.Score
}

// searchText joins the searchable fields with single spaces
func (r Record) searchText() string {
	return strings.Join([]string{r.Name, r.Email, r.Company, r.Pitch, r.Source}, " ")
}

// Tier names in display order
const (
	TierHigh   = "High"
	TierMedium = "Medium"
	TierLow    = "Low"
)

// TierOf classifies a score into High, Medium or Low
func TierOf(score float64) string {
	switch {
	case score >= HotScore:
		return TierHigh
	case score >= MediumScore:
		return TierMedium
	default:
		return TierLow
	}
}

// SortNewestFirst orders records by createdAt descending in place; undated records go last
func SortNewestFirst(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].CreatedAt, records[j].CreatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}
