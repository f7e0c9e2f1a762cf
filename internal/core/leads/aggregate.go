package leads

import (
	"math"
	"sort"
	"time"
)

// WindowDays is the length of the trailing time series
const WindowDays = 7

// DayCount is one point of the trailing series
type DayCount struct {
	Date  string `json:"date"`
	Leads int    `json:"leads"`
}

// Segment is a named slice of a distribution
type Segment struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Bucket is one histogram bar
type Bucket struct {
	Range string `json:"range"`
	Value int    `json:"value"`
}

// WeekdayCount counts leads created on a weekday
type WeekdayCount struct {
	Day   string `json:"day"`
	Leads int    `json:"leads"`
}

// Share is a source with its rounded percentage of all sourced leads
type Share struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Summary carries the headline numbers of the dashboard
type Summary struct {
	HotLeads int    `json:"hotLeads"`
	Recent   int    `json:"recent"`
	Average  int    `json:"average"`
	Updated  string `json:"updated"`
	Cadence  string `json:"cadence"`
}

// UpdatedLayout formats the summary's last-updated label
const UpdatedLayout = "Jan 02, 2006"

// RetrainCadence is the fixed model retraining label
const RetrainCadence = "weekly"

// TimeSeries counts records per local calendar day over today and the six days before, oldest first
func TimeSeries(records []Record, now time.Time, loc *time.Location) []DayCount {
	today := DayOf(now, loc)
	first := today.AddDays(-(WindowDays - 1))

	out := make([]DayCount, WindowDays)
	index := make(map[Day]int, WindowDays)
	for i := 0; i < WindowDays; i++ {
		d := first.AddDays(i)
		out[i] = DayCount{Date: d.String()}
		index[d] = i
	}
	for _, r := range records {
		if r.CreatedAt == nil {
			continue
		}
		if i, ok := index[DayOf(*r.CreatedAt, loc)]; ok {
			out[i].Leads++
		}
	}
	return out
}

// Tiers counts defined scores per tier in High, Medium, Low order
func Tiers(records []Record) []Segment {
	var high, medium, low int
	for _, r := range records {
		if r.Score == nil {
			continue
		}
		switch TierOf(*r.Score) {
		case TierHigh:
			high++
		case TierMedium:
			medium++
		default:
			low++
		}
	}
	return []Segment{
		{Name: TierHigh, Value: high},
		{Name: TierMedium, Value: medium},
		{Name: TierLow, Value: low},
	}
}

// AverageScore is the mean of defined scores rounded half away from zero, 0 when none
func AverageScore(records []Record) int {
	var sum float64
	var n int
	for _, r := range records {
		if r.Score == nil {
			continue
		}
		sum += *r.Score
		n++
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(sum / float64(n)))
}

// bucket upper edges, inclusive; anything above the last edge lands in the last bucket
var bucketEdges = []struct {
	label string
	upper float64
}{
	{"0-20", 20},
	{"21-40", 40},
	{"41-60", 60},
	{"61-80", 80},
	{"81-100", math.Inf(1)},
}

// ScoreBuckets is the five-bar score histogram over defined scores
func ScoreBuckets(records []Record) []Bucket {
	out := make([]Bucket, len(bucketEdges))
	for i, e := range bucketEdges {
		out[i].Range = e.label
	}
	for _, r := range records {
		if r.Score == nil {
			continue
		}
		for i, e := range bucketEdges {
			if *r.Score <= e.upper {
				out[i].Value++
				break
			}
		}
	}
	return out
}

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Weekdays counts records by local weekday, Sunday first
func Weekdays(records []Record, loc *time.Location) []WeekdayCount {
	out := make([]WeekdayCount, len(weekdayLabels))
	for i, l := range weekdayLabels {
		out[i].Day = l
	}
	for _, r := range records {
		if r.CreatedAt == nil {
			continue
		}
		out[r.CreatedAt.In(locOrLocal(loc)).Weekday()].Leads++
	}
	return out
}

type sourceCount struct {
	name  string
	count int
	first int
}

// TopSources ranks sources by count, ties by first appearance, and keeps the top n
// Sources group case-insensitively under their first-seen spelling
// Percentages round to nearest and never sum above 100 across all sources
func TopSources(records []Record, n int) []Share {
	if n <= 0 {
		return []Share{}
	}
	counts, total := countSources(records)
	if total == 0 {
		return []Share{}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].first < counts[j].first
	})

	pct := apportion(counts, total)
	if n > len(counts) {
		n = len(counts)
	}
	out := make([]Share, n)
	for i := 0; i < n; i++ {
		out[i] = Share{Name: counts[i].name, Value: pct[i]}
	}
	return out
}

func countSources(records []Record) ([]*sourceCount, int) {
	byKey := map[string]*sourceCount{}
	var order []*sourceCount
	total := 0
	for _, r := range records {
		if r.Source == "" {
			continue
		}
		k := fold(r.Source)
		sc, ok := byKey[k]
		if !ok {
			sc = &sourceCount{name: r.Source, first: len(order)}
			byKey[k] = sc
			order = append(order, sc)
		}
		sc.count++
		total++
	}
	return order, total
}

// apportion rounds count/total*100 to nearest per entry, then lowers the
// rounded-up entries with the smallest remainder until the sum fits in 100
// counts must already be in rank order
func apportion(counts []*sourceCount, total int) []int {
	pct := make([]int, len(counts))
	rem := make([]int, len(counts))
	sum := 0
	for i, c := range counts {
		scaled := c.count * 100
		pct[i] = scaled / total
		rem[i] = scaled % total
		if 2*rem[i] >= total {
			pct[i]++
		}
		sum += pct[i]
	}
	for sum > 100 {
		pick := -1
		for i := range counts {
			if 2*rem[i] < total {
				continue
			}
			// later rank wins ties so the leaders keep their rounding
			if pick == -1 || rem[i] <= rem[pick] {
				pick = i
			}
		}
		if pick == -1 {
			break
		}
		pct[pick]--
		rem[pick] = 0
		sum--
	}
	return pct
}

// HotLeads counts records at or above the hot threshold
func HotLeads(records []Record) int {
	n := 0
	for _, r := range records {
		if r.Score != nil && *r.Score >= HotScore {
			n++
		}
	}
	return n
}

// Summarize builds the headline card from the filtered set and its series
func Summarize(records []Record, series []DayCount, average int, now time.Time, loc *time.Location) Summary {
	recent := 0
	for _, d := range series {
		recent += d.Leads
	}
	return Summary{
		HotLeads: HotLeads(records),
		Recent:   recent,
		Average:  average,
		Updated:  now.In(locOrLocal(loc)).Format(UpdatedLayout),
		Cadence:  RetrainCadence,
	}
}
