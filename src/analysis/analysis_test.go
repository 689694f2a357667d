package analysis

import (
	"testing"
	"time"

	"github.com/dudukav/eth-analyzer/src/records"
)

func anomaly(typeName, severity string) records.AnomalyRecord {
	return records.AnomalyRecord{TypeName: typeName, Severity: severity, HasSeverity: true}
}

func TestCountByTypeSeverity(t *testing.T) {
	rows := []records.AnomalyRecord{
		anomaly("LargeTx", "Strong"),
		anomaly("HighFee", "Weak"),
		anomaly("LargeTx", "Strong"),
		anomaly("LargeTx", "Weak"),
		anomaly("HighFee", "Weak"),
	}
	counts := CountByTypeSeverity(rows)
	want := []TypeSeverityCount{
		{TypeName: "LargeTx", Severity: "Strong", Count: 2},
		{TypeName: "LargeTx", Severity: "Weak", Count: 1},
		{TypeName: "HighFee", Severity: "Weak", Count: 2},
	}
	if len(counts) != len(want) {
		t.Fatalf("expected %d groups got %d: %+v", len(want), len(counts), counts)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Fatalf("group %d mismatch: got %+v want %+v", i, counts[i], want[i])
		}
	}
}

func TestTypeAndSeverityOrder(t *testing.T) {
	rows := []records.AnomalyRecord{
		anomaly("Structuring", "Weak"),
		anomaly("LargeTx", "Strong"),
		anomaly("Structuring", "Unknown"),
	}
	counts := CountByTypeSeverity(rows)
	types := TypeOrder(counts)
	if len(types) != 2 || types[0] != "Structuring" || types[1] != "LargeTx" {
		t.Fatalf("type order should be first-seen: %v", types)
	}
	sevs := SeverityOrder(counts)
	if len(sevs) != 3 || sevs[0] != "Weak" {
		t.Fatalf("severity order should be first-seen: %v", sevs)
	}
}

func TestCountByTypeSeverityDoesNotMutate(t *testing.T) {
	rows := []records.AnomalyRecord{anomaly("LargeTx", "Strong")}
	before := rows[0]
	_ = CountByTypeSeverity(rows)
	_ = LastHourSeries(rows)
	if rows[0] != before {
		t.Fatalf("aggregations must not mutate source rows")
	}
}

func pattern(typeName string) records.PatternRecord {
	return records.PatternRecord{TypeName: typeName, HasTypeName: true}
}

func TestPatternTypeCounts(t *testing.T) {
	rows := []records.PatternRecord{pattern("Swap"), pattern("Swap"), pattern("Mint")}
	counts := PatternTypeCounts(rows)
	if len(counts) != 2 {
		t.Fatalf("expected 2 entries got %d", len(counts))
	}
	if counts[0] != (TypeCount{TypeName: "Swap", Count: 2}) {
		t.Fatalf("first entry mismatch: %+v", counts[0])
	}
	if counts[1] != (TypeCount{TypeName: "Mint", Count: 1}) {
		t.Fatalf("second entry mismatch: %+v", counts[1])
	}
}

func TestPatternTypeCountsTieOrder(t *testing.T) {
	rows := []records.PatternRecord{
		pattern("DEXTrade"), pattern("Whales"), pattern("DEXTrade"), pattern("Whales"),
		pattern("Arbitrage"),
	}
	counts := PatternTypeCounts(rows)
	// ties keep first-seen order
	if counts[0].TypeName != "DEXTrade" || counts[1].TypeName != "Whales" {
		t.Fatalf("tie order should be first-seen: %+v", counts)
	}
	if counts[2].TypeName != "Arbitrage" || counts[2].Count != 1 {
		t.Fatalf("tail mismatch: %+v", counts)
	}
}

func TestPatternTypeCountsEmpty(t *testing.T) {
	if counts := PatternTypeCounts(nil); len(counts) != 0 {
		t.Fatalf("empty input should yield empty counts: %+v", counts)
	}
}

func tsAnomaly(typeName string, ts time.Time) records.AnomalyRecord {
	return records.AnomalyRecord{TypeName: typeName, Timestamp: ts, HasTimestamp: true}
}

func TestLastHourWindow(t *testing.T) {
	day := time.Date(2025, 9, 16, 0, 0, 0, 0, time.UTC)
	rows := []records.AnomalyRecord{
		tsAnomaly("LargeTx", day.Add(10*time.Hour)),
		tsAnomaly("LargeTx", day.Add(10*time.Hour+30*time.Minute)),
		tsAnomaly("LargeTx", day.Add(11*time.Hour)),
		tsAnomaly("LargeTx", day.Add(9*time.Hour)),
	}
	series := LastHourSeries(rows)
	// closed interval [10:00, 11:00]: 9:00 falls out, boundary 10:00 stays
	if len(series) != 3 {
		t.Fatalf("expected 3 buckets got %d: %+v", len(series), series)
	}
	if !series[0].TimeSec.Equal(day.Add(10 * time.Hour)) {
		t.Fatalf("first bucket should be the window start boundary: %+v", series[0])
	}
	if !series[2].TimeSec.Equal(day.Add(11 * time.Hour)) {
		t.Fatalf("last bucket should be the window end: %+v", series[2])
	}
}

func TestLastHourSecondFlooring(t *testing.T) {
	base := time.Date(2025, 9, 16, 10, 0, 0, 0, time.UTC)
	rows := []records.AnomalyRecord{
		tsAnomaly("LargeTx", base.Add(734*time.Millisecond)),
		tsAnomaly("LargeTx", base.Add(120*time.Millisecond)),
	}
	series := LastHourSeries(rows)
	if len(series) != 1 {
		t.Fatalf("sub-second timestamps must share one bucket: %+v", series)
	}
	if !series[0].TimeSec.Equal(base) {
		t.Fatalf("bucket should floor to %v, got %v", base, series[0].TimeSec)
	}
	if series[0].Count != 2 {
		t.Fatalf("bucket should count both rows: %+v", series[0])
	}
}

func TestLastHourEmptyInputs(t *testing.T) {
	if s := LastHourSeries(nil); len(s) != 0 {
		t.Fatalf("nil input should yield empty series")
	}
	// rows exist but none has a parseable timestamp
	rows := []records.AnomalyRecord{
		{TypeName: "LargeTx"},
		{TypeName: "HighFee"},
	}
	if s := LastHourSeries(rows); len(s) != 0 {
		t.Fatalf("no valid timestamps should yield empty series, got %+v", s)
	}
}

func TestLastHourSortedByTimeThenType(t *testing.T) {
	base := time.Date(2025, 9, 16, 10, 0, 0, 0, time.UTC)
	rows := []records.AnomalyRecord{
		tsAnomaly("Zeta", base),
		tsAnomaly("Alpha", base),
		tsAnomaly("Alpha", base.Add(5*time.Second)),
	}
	series := LastHourSeries(rows)
	if len(series) != 3 {
		t.Fatalf("expected 3 buckets got %d", len(series))
	}
	if series[0].TypeName != "Alpha" || series[1].TypeName != "Zeta" {
		t.Fatalf("same-second buckets should sort by type name: %+v", series)
	}
	if !series[2].TimeSec.After(series[1].TimeSec) {
		t.Fatalf("buckets should sort by time first: %+v", series)
	}
}

func TestSplitSeries(t *testing.T) {
	base := time.Date(2025, 9, 16, 10, 0, 0, 0, time.UTC)
	points := []SeriesPoint{
		{TimeSec: base, TypeName: "LargeTx", Count: 1},
		{TimeSec: base, TypeName: "HighFee", Count: 2},
		{TimeSec: base.Add(time.Second), TypeName: "LargeTx", Count: 3},
	}
	order, byType := SplitSeries(points)
	if len(order) != 2 || order[0] != "LargeTx" || order[1] != "HighFee" {
		t.Fatalf("order should be first appearance: %v", order)
	}
	if len(byType["LargeTx"]) != 2 || len(byType["HighFee"]) != 1 {
		t.Fatalf("sub-series sizes wrong: %+v", byType)
	}
}
