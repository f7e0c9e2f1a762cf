package leads

import (
	"encoding/json"
	"fmt"
	"time"
)

// DayLayout is the wire form of a calendar day
const DayLayout = "2006-01-02"

// Day is a calendar date without a zone; the zero Day means unset
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDay parses YYYY-MM-DD; empty input yields the zero Day
func ParseDay(s string) (Day, error) {
	if s == "" {
		return Day{}, nil
	}
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return DayOf(t, time.UTC), nil
}

// DayOf returns the calendar day of t in loc
func DayOf(t time.Time, loc *time.Location) Day {
	y, m, d := t.In(locOrLocal(loc)).Date()
	return Day{Year: y, Month: m, Day: d}
}

// IsZero reports whether the day is unset
func (d Day) IsZero() bool { return d == Day{} }

// Start is the first instant of the day in loc
func (d Day) Start(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, locOrLocal(loc))
}

// End is the last instant of the day in loc
func (d Day) End(loc *time.Location) time.Time {
	return d.AddDays(1).Start(loc).Add(-time.Nanosecond)
}

// AddDays shifts the day by n calendar days, normalizing month and year
func (d Day) AddDays(n int) Day {
	t := time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, time.UTC)
	return DayOf(t, time.UTC)
}

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON writes the day as YYYY-MM-DD or null when unset
func (d Day) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts YYYY-MM-DD, empty string or null
func (d *Day) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil {
		*d = Day{}
		return nil
	}
	v, err := ParseDay(*s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func locOrLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
