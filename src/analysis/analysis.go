// Package analysis derives the chartable views from loaded record tables.
// All functions are pure over their inputs; the source slices are never
// mutated.
package analysis

import (
	"sort"
	"time"

	"github.com/dudukav/eth-analyzer/src/records"
)

// TypeSeverityCount is one (type_name, severity) group with its row count.
type TypeSeverityCount struct {
	TypeName string
	Severity string
	Count    int
}

// TypeCount is one type_name with its occurrence count.
type TypeCount struct {
	TypeName string
	Count    int
}

// SeriesPoint is one (second, type_name) bucket of the last-hour burst
// series.
type SeriesPoint struct {
	TimeSec  time.Time
	TypeName string
	Count    int
}

// CountByTypeSeverity groups anomaly rows by (type_name, severity) and
// counts rows per group. Types appear in first-seen order; within a type,
// severities appear in first-seen order. Rows without a severity count
// toward the empty-severity group, so run this after normalization for the
// documented "Unknown" bucket.
func CountByTypeSeverity(rows []records.AnomalyRecord) []TypeSeverityCount {
	var flat []TypeSeverityCount
	index := map[[2]string]int{}
	typeOrder := map[string]int{}
	for _, r := range rows {
		if _, ok := typeOrder[r.TypeName]; !ok {
			typeOrder[r.TypeName] = len(typeOrder)
		}
		key := [2]string{r.TypeName, r.Severity}
		if i, ok := index[key]; ok {
			flat[i].Count++
			continue
		}
		index[key] = len(flat)
		flat = append(flat, TypeSeverityCount{TypeName: r.TypeName, Severity: r.Severity, Count: 1})
	}
	// cluster severities under their type while keeping first-seen order on
	// both levels
	sort.SliceStable(flat, func(i, j int) bool {
		return typeOrder[flat[i].TypeName] < typeOrder[flat[j].TypeName]
	})
	return flat
}

// TypeOrder returns the distinct type names of the grouped counts in order.
func TypeOrder(counts []TypeSeverityCount) []string {
	var out []string
	seen := map[string]bool{}
	for _, c := range counts {
		if !seen[c.TypeName] {
			seen[c.TypeName] = true
			out = append(out, c.TypeName)
		}
	}
	return out
}

// SeverityOrder returns the distinct severities of the grouped counts in
// first-seen order, for stable legend and color assignment.
func SeverityOrder(counts []TypeSeverityCount) []string {
	var out []string
	seen := map[string]bool{}
	for _, c := range counts {
		if !seen[c.Severity] {
			seen[c.Severity] = true
			out = append(out, c.Severity)
		}
	}
	return out
}

// PatternTypeCounts counts occurrences of each distinct type_name in the
// pattern table, sorted by descending count with ties broken by first-seen
// order (value-counts semantics).
func PatternTypeCounts(rows []records.PatternRecord) []TypeCount {
	var out []TypeCount
	index := map[string]int{}
	for _, r := range rows {
		if i, ok := index[r.TypeName]; ok {
			out[i].Count++
			continue
		}
		index[r.TypeName] = len(out)
		out = append(out, TypeCount{TypeName: r.TypeName, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// LastHourSeries builds the burst series for the trailing hour of the data.
// Rows without a parseable timestamp are dropped. The window is the closed
// interval [max(timestamp)−1h, max(timestamp)]; retained timestamps are
// floored to whole seconds and grouped by (second, type_name). The result is
// sorted by second, then type name. With no valid timestamps the series is
// empty, never an error.
func LastHourSeries(rows []records.AnomalyRecord) []SeriesPoint {
	var end time.Time
	haveEnd := false
	for _, r := range rows {
		if !r.HasTimestamp {
			continue
		}
		if !haveEnd || r.Timestamp.After(end) {
			end = r.Timestamp
			haveEnd = true
		}
	}
	if !haveEnd {
		return nil
	}
	start := end.Add(-time.Hour)

	type bucketKey struct {
		sec  int64
		name string
	}
	buckets := map[bucketKey]int{}
	for _, r := range rows {
		if !r.HasTimestamp {
			continue
		}
		if r.Timestamp.Before(start) || r.Timestamp.After(end) {
			continue
		}
		sec := r.Timestamp.Truncate(time.Second)
		buckets[bucketKey{sec.Unix(), r.TypeName}]++
	}

	out := make([]SeriesPoint, 0, len(buckets))
	for k, n := range buckets {
		out = append(out, SeriesPoint{TimeSec: time.Unix(k.sec, 0).UTC(), TypeName: k.name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TimeSec.Equal(out[j].TimeSec) {
			return out[i].TimeSec.Before(out[j].TimeSec)
		}
		return out[i].TypeName < out[j].TypeName
	})
	return out
}

// SplitSeries splits a burst series into per-type sub-series. The returned
// type names are in order of first appearance, which the renderer uses for
// color assignment and legend order.
func SplitSeries(points []SeriesPoint) ([]string, map[string][]SeriesPoint) {
	var order []string
	byType := map[string][]SeriesPoint{}
	for _, p := range points {
		if _, ok := byType[p.TypeName]; !ok {
			order = append(order, p.TypeName)
		}
		byType[p.TypeName] = append(byType[p.TypeName], p)
	}
	return order, byType
}
