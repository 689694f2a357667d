package main

import (
	"testing"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/dudukav/eth-analyzer/src/analysis"
)

func TestGroupedBarsLayout(t *testing.T) {
	counts := []analysis.TypeSeverityCount{
		{TypeName: "LargeTx", Severity: "Strong", Count: 3},
		{TypeName: "LargeTx", Severity: "Weak", Count: 1},
		{TypeName: "HighFee", Severity: "Weak", Count: 2},
	}
	bars, legend := groupedBars(counts)
	// two type groups separated by one spacer
	if len(bars) != 4 {
		t.Fatalf("expected 4 bars (3 + 1 spacer) got %d", len(bars))
	}
	if bars[0].Label != "LargeTx" || bars[0].Value != 3 {
		t.Fatalf("first bar mismatch: %+v", bars[0])
	}
	if bars[1].Label != "" {
		t.Fatalf("second bar of a group should carry no label: %+v", bars[1])
	}
	if bars[2].Value != 0 || bars[2].Label != "" {
		t.Fatalf("expected spacer bar between groups: %+v", bars[2])
	}
	if bars[3].Label != "HighFee" || bars[3].Value != 2 {
		t.Fatalf("second group mismatch: %+v", bars[3])
	}
	// legend in first-seen severity order
	if len(legend) != 2 || legend[0].Label != "Strong" || legend[1].Label != "Weak" {
		t.Fatalf("legend mismatch: %+v", legend)
	}
}

func TestGroupedBarsEmpty(t *testing.T) {
	bars, legend := groupedBars(nil)
	if bars != nil || legend != nil {
		t.Fatalf("empty counts should yield no bars")
	}
}

func TestSeverityColorsStable(t *testing.T) {
	if severityColor("Strong", 0) != chart.ColorRed {
		t.Fatalf("Strong should map to red")
	}
	if severityColor("Weak", 3) != chart.ColorOrange {
		t.Fatalf("Weak should map to orange regardless of position")
	}
	if severityColor("Unknown", 1) != chart.ColorAlternateGray {
		t.Fatalf("Unknown should map to gray")
	}
	// unexpected labels cycle the palette deterministically
	if severityColor("Critical", 2) != severityColor("Critical", 2) {
		t.Fatalf("unexpected labels must map deterministically")
	}
}

func TestPatternBarsPreserveOrder(t *testing.T) {
	counts := []analysis.TypeCount{
		{TypeName: "Swap", Count: 2},
		{TypeName: "Mint", Count: 1},
	}
	bars := patternBars(counts)
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars got %d", len(bars))
	}
	if bars[0].Label != "Swap" || bars[0].Value != 2 {
		t.Fatalf("first bar mismatch: %+v", bars[0])
	}
	if bars[1].Label != "Mint" || bars[1].Value != 1 {
		t.Fatalf("second bar mismatch: %+v", bars[1])
	}
}

func TestBurstSeriesPerType(t *testing.T) {
	base := time.Date(2025, 9, 16, 10, 0, 0, 0, time.UTC)
	points := []analysis.SeriesPoint{
		{TimeSec: base, TypeName: "LargeTx", Count: 1},
		{TimeSec: base.Add(time.Second), TypeName: "LargeTx", Count: 2},
		{TimeSec: base, TypeName: "HighFee", Count: 1},
	}
	series := burstSeries(points)
	if len(series) != 2 {
		t.Fatalf("expected one series per type got %d", len(series))
	}
	ts, ok := series[0].(chart.TimeSeries)
	if !ok {
		t.Fatalf("expected TimeSeries, got %T", series[0])
	}
	if ts.Name != "LargeTx" || len(ts.XValues) != 2 {
		t.Fatalf("first series mismatch: %+v", ts)
	}
	// single-point sub-series is padded so go-chart accepts the x-range
	ts2 := series[1].(chart.TimeSeries)
	if ts2.Name != "HighFee" || len(ts2.XValues) != 2 {
		t.Fatalf("single-point series should be padded: %+v", ts2)
	}
	if !ts2.XValues[1].After(ts2.XValues[0]) {
		t.Fatalf("padding point must advance time: %+v", ts2.XValues)
	}
}

func TestBurstSeriesEmpty(t *testing.T) {
	if s := burstSeries(nil); len(s) != 0 {
		t.Fatalf("no points should yield no series")
	}
}

func TestBurstWindow(t *testing.T) {
	base := time.Date(2025, 9, 16, 10, 0, 0, 0, time.UTC)
	points := []analysis.SeriesPoint{
		{TimeSec: base.Add(30 * time.Second), TypeName: "A", Count: 1},
		{TimeSec: base, TypeName: "B", Count: 1},
		{TimeSec: base.Add(time.Minute), TypeName: "A", Count: 1},
	}
	minT, maxT, ok := burstWindow(points)
	if !ok || !minT.Equal(base) || !maxT.Equal(base.Add(time.Minute)) {
		t.Fatalf("window mismatch: %v %v %v", minT, maxT, ok)
	}
	if _, _, ok := burstWindow(nil); ok {
		t.Fatalf("empty series has no window")
	}
}

func TestNearestSecondSnaps(t *testing.T) {
	minT := time.Date(2025, 9, 16, 10, 0, 0, 0, time.UTC)
	maxT := minT.Add(10 * time.Second)
	if got := nearestSecond(minT, maxT, 0); !got.Equal(minT) {
		t.Fatalf("frac 0 should snap to window start, got %v", got)
	}
	if got := nearestSecond(minT, maxT, 1); !got.Equal(maxT) {
		t.Fatalf("frac 1 should snap to window end, got %v", got)
	}
	if got := nearestSecond(minT, maxT, 0.55); !got.Equal(minT.Add(6 * time.Second)) {
		t.Fatalf("frac 0.55 should round to 6s, got %v", got)
	}
	// out-of-range fractions clamp
	if got := nearestSecond(minT, maxT, -3); !got.Equal(minT) {
		t.Fatalf("negative frac should clamp to start, got %v", got)
	}
}
