package leads

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var fixedNow = time.Date(2024, 5, 15, 10, 30, 0, 0, time.UTC)

func TestTimeSeries_AlwaysSevenDays(t *testing.T) {
	for _, n := range []int{0, 10000} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			rs := make([]Record, n)
			for i := range rs {
				ts := fixedNow.Add(-time.Duration(i%240) * time.Hour)
				rs[i] = Record{CreatedAt: &ts}
			}
			got := TimeSeries(rs, fixedNow, time.UTC)
			if len(got) != WindowDays {
				t.Fatalf("len=%d", len(got))
			}
			if got[0].Date != "2024-05-09" || got[6].Date != "2024-05-15" {
				t.Fatalf("window bounds: %s..%s", got[0].Date, got[6].Date)
			}
		})
	}
}

func TestTimeSeries_Counts(t *testing.T) {
	rs := []Record{
		{CreatedAt: at("2024-05-15 00:00:00")},
		{CreatedAt: at("2024-05-15 23:59:59")},
		{CreatedAt: at("2024-05-09 12:00:00")},
		{CreatedAt: at("2024-05-08 23:59:59")}, // outside
		{CreatedAt: at("2024-05-16 00:00:01")}, // future
		{},
	}
	got := TimeSeries(rs, fixedNow, time.UTC)
	want := []DayCount{
		{"2024-05-09", 1}, {"2024-05-10", 0}, {"2024-05-11", 0}, {"2024-05-12", 0},
		{"2024-05-13", 0}, {"2024-05-14", 0}, {"2024-05-15", 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestTiers_Boundaries(t *testing.T) {
	rs := []Record{
		{Score: score(70)}, {Score: score(69.9)}, {Score: score(40)},
		{Score: score(39.99)}, {Score: score(0)}, {},
	}
	got := Tiers(rs)
	want := []Segment{{TierHigh, 1}, {TierMedium, 2}, {TierLow, 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestAverageScore(t *testing.T) {
	cases := []struct {
		in   []Record
		want int
	}{
		{nil, 0},
		{[]Record{{}, {}}, 0},
		{[]Record{{Score: score(20)}, {Score: score(40)}, {Score: score(60)}}, 40},
		{[]Record{{Score: score(75)}, {Score: score(50)}, {}}, 63},
		{[]Record{{Score: score(1)}, {Score: score(2)}}, 2},
	}
	for i, tc := range cases {
		if got := AverageScore(tc.in); got != tc.want {
			t.Fatalf("case %d: got %d want %d", i, got, tc.want)
		}
	}
}

func TestScoreBuckets_EdgesAndSum(t *testing.T) {
	rs := []Record{
		{Score: score(0)}, {Score: score(20)}, {Score: score(20.5)}, {Score: score(40)},
		{Score: score(41)}, {Score: score(60)}, {Score: score(80)}, {Score: score(81)},
		{Score: score(100)}, {Score: score(130)}, {Score: score(-3)}, {},
	}
	got := ScoreBuckets(rs)
	want := []Bucket{{"0-20", 3}, {"21-40", 2}, {"41-60", 2}, {"61-80", 1}, {"81-100", 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	sum := 0
	for _, b := range got {
		sum += b.Value
	}
	if sum != 11 {
		t.Fatalf("bucket sum %d should equal defined scores", sum)
	}
}

func TestWeekdays(t *testing.T) {
	rs := []Record{
		{CreatedAt: at("2024-05-12 10:00:00")}, // Sunday
		{CreatedAt: at("2024-05-18 10:00:00")}, // Saturday
		{CreatedAt: at("2024-05-18 11:00:00")},
		{},
	}
	got := Weekdays(rs, time.UTC)
	if got[0].Day != "Sun" || got[0].Leads != 1 {
		t.Fatalf("sunday: %+v", got[0])
	}
	if got[6].Day != "Sat" || got[6].Leads != 2 {
		t.Fatalf("saturday: %+v", got[6])
	}
}

func TestTopSources(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []Share
	}{
		{"empty", nil, []Share{}},
		{"no sources", []string{"", ""}, []Share{}},
		{"two thirds", []string{"A", "A", "B"}, []Share{{"A", 67}, {"B", 33}}},
		{"ties keep first seen", []string{"B", "A", "C", "D"}, []Share{{"B", 25}, {"A", 25}, {"C", 25}}},
		{"case folds to first spelling", []string{"web", "Web", "WEB", "ads"}, []Share{{"web", 75}, {"ads", 25}}},
		{"overflow trimmed", []string{"A", "A", "A", "B", "B", "B", "C", "C"}, []Share{{"A", 38}, {"B", 37}, {"C", 25}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rs := make([]Record, len(tc.in))
			for i, s := range tc.in {
				rs[i] = Record{Source: s}
			}
			got := TopSources(rs, TopSourceCount)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestTopSources_NeverAbove100(t *testing.T) {
	// many shapes of counts, the percentages must stay within bounds
	for a := 1; a <= 7; a++ {
		for b := 1; b <= 7; b++ {
			for c := 0; c <= 7; c++ {
				var rs []Record
				for i := 0; i < a; i++ {
					rs = append(rs, Record{Source: "a"})
				}
				for i := 0; i < b; i++ {
					rs = append(rs, Record{Source: "b"})
				}
				for i := 0; i < c; i++ {
					rs = append(rs, Record{Source: "c"})
				}
				sum := 0
				for _, s := range TopSources(rs, TopSourceCount) {
					if s.Value < 0 {
						t.Fatalf("negative share %+v", s)
					}
					sum += s.Value
				}
				if sum > 100 {
					t.Fatalf("a=%d b=%d c=%d sum=%d", a, b, c, sum)
				}
			}
		}
	}
}

func TestSummarize(t *testing.T) {
	series := []DayCount{{"d", 2}, {"e", 3}}
	rs := []Record{{Score: score(70)}, {Score: score(95)}, {Score: score(69)}, {}}
	got := Summarize(rs, series, 77, fixedNow, time.UTC)
	want := Summary{HotLeads: 2, Recent: 5, Average: 77, Updated: "May 15, 2024", Cadence: "weekly"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}
