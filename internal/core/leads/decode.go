package leads

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// wireRecord mirrors Record with raw values for the fields feeds disagree on
type wireRecord struct {
	ID        json.RawMessage `json:"id"`
	Score     json.RawMessage `json:"score"`
	Source    json.RawMessage `json:"source"`
	CreatedAt json.RawMessage `json:"createdAt"`
	Name      json.RawMessage `json:"name"`
	Email     json.RawMessage `json:"email"`
	Company   json.RawMessage `json:"company"`
	Pitch     json.RawMessage `json:"pitch"`
}

// UnmarshalJSON decodes a record leniently
// A malformed field decodes as absent instead of failing the record
func (r *Record) UnmarshalJSON(b []byte) error {
	var w wireRecord
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*r = Record{
		ID:        looseString(w.ID),
		Score:     looseScore(w.Score),
		Source:    looseString(w.Source),
		CreatedAt: looseTime(w.CreatedAt),
		Name:      looseString(w.Name),
		Email:     looseString(w.Email),
		Company:   looseString(w.Company),
		Pitch:     looseString(w.Pitch),
	}
	return nil
}

// DecodeRecords decodes a JSON array of records
// Elements that are not objects are skipped so one bad entry never costs the snapshot
// Only input that is not an array at all is an error
func DecodeRecords(b []byte) ([]Record, error) {
	out, _, err := DecodeRecordsCounted(b)
	return out, err
}

// DecodeRecordsCounted is DecodeRecords that also reports how many elements were skipped
func DecodeRecordsCounted(b []byte) ([]Record, int, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return []Record{}, 0, nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		return nil, 0, err
	}
	out := make([]Record, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		t := bytes.TrimSpace(raw)
		if len(t) == 0 || t[0] != '{' {
			skipped++
			continue
		}
		var r Record
		if err := r.UnmarshalJSON(t); err != nil {
			skipped++
			continue
		}
		out = append(out, r)
	}
	return out, skipped, nil
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func looseString(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	// numbers and bools stringify, objects and arrays are dropped
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var bl bool
	if err := json.Unmarshal(raw, &bl); err == nil {
		return strconv.FormatBool(bl)
	}
	return ""
}

func looseScore(raw json.RawMessage) *float64 {
	if isNull(raw) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return finite(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return finite(v)
		}
	}
	return nil
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// firestoreStamp is the serialized form of a server timestamp
type firestoreStamp struct {
	Seconds     *int64 `json:"seconds"`
	Nanoseconds int64  `json:"nanoseconds"`
}

func looseTime(raw json.RawMessage) *time.Time {
	if isNull(raw) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return parseTimeString(strings.TrimSpace(s))
	}
	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		if math.IsNaN(ms) || math.IsInf(ms, 0) {
			return nil
		}
		t := time.UnixMilli(int64(ms))
		return &t
	}
	var fs firestoreStamp
	if err := json.Unmarshal(raw, &fs); err == nil && fs.Seconds != nil {
		t := time.Unix(*fs.Seconds, fs.Nanoseconds)
		return &t
	}
	return nil
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", DayLayout}

func parseTimeString(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, l := range timeLayouts {
		var (
			t   time.Time
			err error
		)
		if l == time.RFC3339Nano {
			t, err = time.Parse(l, s)
		} else {
			// zoneless forms are wall clock in the local zone
			t, err = time.ParseInLocation(l, s, time.Local)
		}
		if err == nil {
			return &t
		}
	}
	return nil
}
