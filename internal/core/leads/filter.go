package leads

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// AllSources is the source filter sentinel that disables source matching
const AllSources = "all"

// FilterState is the user's current view constraints; zero fields mean unset
type FilterState struct {
	StartDate Day      `json:"startDate"`
	EndDate   Day      `json:"endDate"`
	Source    string   `json:"source"`
	MinScore  *float64 `json:"minScore,omitempty"`
	MaxScore  *float64 `json:"maxScore,omitempty"`
	Query     string   `json:"query"`
}

// DefaultFilter is the all-unset state
func DefaultFilter() FilterState { return FilterState{Source: AllSources} }

// Normalize trims the query and maps an empty source to the all sentinel
func (s FilterState) Normalize() FilterState {
	s.Query = strings.TrimSpace(s.Query)
	if strings.TrimSpace(s.Source) == "" || fold(s.Source) == AllSources {
		s.Source = AllSources
	}
	return s
}

// Equal compares two states by value after normalizing
func (s FilterState) Equal(o FilterState) bool {
	a, b := s.Normalize(), o.Normalize()
	return a.StartDate == b.StartDate &&
		a.EndDate == b.EndDate &&
		a.Source == b.Source &&
		a.Query == b.Query &&
		floatPtrEqual(a.MinScore, b.MinScore) &&
		floatPtrEqual(a.MaxScore, b.MaxScore)
}

// IsDefault reports whether no constraint is active
func (s FilterState) IsDefault() bool { return s.Equal(DefaultFilter()) }

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Filter returns the records satisfying every active constraint, preserving order
// Date bounds use calendar days in loc and pass records without createdAt
// Score bounds reject records without a score
func Filter(records []Record, state FilterState, loc *time.Location) []Record {
	state = state.Normalize()
	m := newMatcher(state, loc)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

type matcher struct {
	from, to           *time.Time
	source             string
	minScore, maxScore *float64
	query              string
}

func newMatcher(s FilterState, loc *time.Location) matcher {
	m := matcher{minScore: s.MinScore, maxScore: s.MaxScore}
	if !s.StartDate.IsZero() {
		t := s.StartDate.Start(loc)
		m.from = &t
	}
	if !s.EndDate.IsZero() {
		t := s.EndDate.End(loc)
		m.to = &t
	}
	if s.Source != AllSources {
		m.source = fold(s.Source)
	}
	if s.Query != "" {
		m.query = fold(s.Query)
	}
	return m
}

func (m matcher) match(r Record) bool {
	if r.CreatedAt != nil {
		if m.from != nil && r.CreatedAt.Before(*m.from) {
			return false
		}
		if m.to != nil && r.CreatedAt.After(*m.to) {
			return false
		}
	}
	if m.source != "" && fold(r.Source) != m.source {
		return false
	}
	if m.minScore != nil || m.maxScore != nil {
		if r.Score == nil {
			return false
		}
		if m.minScore != nil && *r.Score < *m.minScore {
			return false
		}
		if m.maxScore != nil && *r.Score > *m.maxScore {
			return false
		}
	}
	if m.query != "" && !strings.Contains(fold(r.searchText()), m.query) {
		return false
	}
	return true
}

// fold applies unicode case folding; a fresh caser per call keeps it goroutine safe
func fold(s string) string {
	if s == "" {
		return ""
	}
	return cases.Fold().String(s)
}
