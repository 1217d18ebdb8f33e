package domain

import (
	"math"
	"sort"
	"time"
)

// TimestampLayout is the UTC layout used for RoundResult.Timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Python's isoformat() without offset, found in score files written by older versions.
var legacyLayouts = []string{
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// TopN filters results to an exact theme (empty means all) and returns at most n of them ordered by
// score desc, then percentage desc (absent last), then earlier timestamp first. Ties on all three
// keep their input order.
func TopN(results []RoundResult, n int, theme string) []RoundResult {
	if n <= 0 {
		return []RoundResult{}
	}
	ranked := make([]RoundResult, 0, len(results))
	for _, r := range results {
		if theme != "" && r.Theme != theme {
			continue
		}
		ranked = append(ranked, r)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		pa, pb := percentageKey(a), percentageKey(b)
		if pa != pb {
			return pa > pb
		}
		return timestampBefore(a.Timestamp, b.Timestamp)
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func percentageKey(r RoundResult) float64 {
	if r.Percentage == nil {
		return math.Inf(-1)
	}
	return *r.Percentage
}

func timestampBefore(a, b string) bool {
	ta, okA := ParseTimestamp(a)
	tb, okB := ParseTimestamp(b)
	if okA && okB {
		return ta.Before(tb)
	}
	return a < b
}

// ParseTimestamp accepts RFC 3339 and the naive ISO-8601 form (read as UTC).
func ParseTimestamp(raw string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, true
	}
	for _, layout := range legacyLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Percentage computes round(correct/total*100, 1), or 0 for an empty round.
func Percentage(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*1000) / 10
}
