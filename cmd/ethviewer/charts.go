package main

import (
	"bytes"
	"fmt"
	"image"
	png "image/png"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/dudukav/eth-analyzer/src/analysis"
)

// typePalette cycles over the per-type line colors of the burst chart.
var typePalette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorGreen,
	chart.ColorRed,
	chart.ColorOrange,
	chart.ColorCyan,
	chart.ColorAlternateGray,
	chart.ColorYellow,
}

// severityColor assigns fixed colors to the scanner's severity labels so the
// grouped bars stay recognizable across files; unexpected labels cycle the
// palette.
func severityColor(severity string, ord int) drawing.Color {
	switch severity {
	case "Strong":
		return chart.ColorRed
	case "Weak":
		return chart.ColorOrange
	case "Unknown":
		return chart.ColorAlternateGray
	}
	return typePalette[ord%len(typePalette)]
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 2,
		StrokeColor: col,
		DotWidth:    4,
		DotColor:    col,
	}
}

// groupedBars lays out one severity-colored bar per (type, severity) group
// with a zero-height spacer between type groups. The type label sits on the
// first bar of its group. The returned legend entries follow the first-seen
// severity order of the data.
func groupedBars(counts []analysis.TypeSeverityCount) ([]chart.Value, []legendEntry) {
	if len(counts) == 0 {
		return nil, nil
	}
	sevOrd := map[string]int{}
	for _, s := range analysis.SeverityOrder(counts) {
		sevOrd[s] = len(sevOrd)
	}

	var bars []chart.Value
	var legend []legendEntry
	seenSev := map[string]bool{}
	lastType := ""
	for _, c := range counts {
		if lastType != "" && c.TypeName != lastType {
			bars = append(bars, chart.Value{Value: 0, Label: ""})
		}
		label := ""
		if c.TypeName != lastType {
			label = c.TypeName
		}
		lastType = c.TypeName
		col := severityColor(c.Severity, sevOrd[c.Severity])
		bars = append(bars, chart.Value{
			Value: float64(c.Count),
			Label: label,
			Style: chart.Style{FillColor: col, StrokeColor: col},
		})
		if !seenSev[c.Severity] {
			seenSev[c.Severity] = true
			legend = append(legend, legendEntry{Label: c.Severity, Color: col})
		}
	}
	return bars, legend
}

// patternBars builds one bar per pattern type, descending-count order
// preserved from the aggregation.
func patternBars(counts []analysis.TypeCount) []chart.Value {
	bars := make([]chart.Value, 0, len(counts))
	for i, c := range counts {
		col := typePalette[i%len(typePalette)]
		bars = append(bars, chart.Value{
			Value: float64(c.Count),
			Label: c.TypeName,
			Style: chart.Style{FillColor: col, StrokeColor: col},
		})
	}
	return bars
}

// burstSeries converts the per-type burst sub-series into go-chart time
// series with lines and markers. Single-point series are padded with a
// duplicate point one second later; go-chart refuses single-value x ranges.
func burstSeries(points []analysis.SeriesPoint) []chart.Series {
	order, byType := analysis.SplitSeries(points)
	var series []chart.Series
	for i, name := range order {
		pts := byType[name]
		times := make([]time.Time, len(pts))
		ys := make([]float64, len(pts))
		for j, p := range pts {
			times[j] = p.TimeSec
			ys[j] = float64(p.Count)
		}
		if len(times) == 1 {
			times = append(times, times[0].Add(1*time.Second))
			ys = append(ys, ys[0])
		}
		series = append(series, chart.TimeSeries{
			Name:    name,
			XValues: times,
			YValues: ys,
			Style:   lineStyle(typePalette[i%len(typePalette)]),
		})
	}
	return series
}

func renderBarChart(title string, bars []chart.Value, size func() (int, int), hint string, legend []legendEntry, showHints bool) image.Image {
	cw, chh := size()
	if len(bars) == 0 {
		return blank(cw, chh)
	}
	padBottom := 96 // room for 45°-rotated type labels
	if showHints {
		padBottom += 18
	}
	bc := chart.BarChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: padBottom}},
		Width:      cw,
		Height:     chh,
		BarWidth:   28,
		BarSpacing: 12,
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis:      chart.YAxis{Name: "Count"},
		Bars:       bars,
	}
	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		fmt.Printf("[viewer] bar chart render error: %v; showing blank fallback\n", err)
		return blank(cw, chh)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		fmt.Printf("[viewer] bar chart decode error: %v; showing blank fallback\n", err)
		return blank(cw, chh)
	}
	if len(legend) > 0 {
		img = drawLegend(img, legend)
	}
	if showHints && hint != "" {
		img = drawHint(img, hint)
	}
	return img
}

// renderTypeSeverityChart draws anomaly counts grouped by type and severity.
func renderTypeSeverityChart(state *uiState) image.Image {
	counts := analysis.CountByTypeSeverity(filteredAnomalies(state))
	bars, legend := groupedBars(counts)
	return renderBarChart(
		"Anomaly counts by type and severity"+severitySuffix(state),
		bars,
		func() (int, int) { return chartSize(state) },
		"Hint: tall Strong bars point at clusters worth triaging first.",
		legend,
		state.showHints,
	)
}

// renderPatternChart draws business-pattern counts by type.
func renderPatternChart(state *uiState) image.Image {
	counts := analysis.PatternTypeCounts(state.patterns)
	return renderBarChart(
		"Business patterns by type",
		patternBars(counts),
		func() (int, int) { return chartSize(state) },
		"Hint: pattern mix shifts (e.g. sudden DEXTrade growth) often precede anomaly bursts.",
		nil,
		state.showHints,
	)
}

// renderBurstChart draws the per-second anomaly burst lines for the last
// observed hour.
func renderBurstChart(state *uiState) image.Image {
	cw, chh := chartSize(state)
	points := analysis.LastHourSeries(filteredAnomalies(state))
	series := burstSeries(points)
	if len(series) == 0 {
		return blank(cw, chh)
	}

	minT := points[0].TimeSec
	maxT := points[len(points)-1].TimeSec
	maxY := 0.0
	for _, p := range points {
		if v := float64(p.Count); v > maxY {
			maxY = v
		}
	}
	if maxY <= 0 {
		maxY = 1
	}
	_, nMax := niceAxisBounds(0, maxY)
	step, labelFmt := pickTimeStep(maxT.Sub(minT))

	padBottom := 48
	if state.showHints {
		padBottom += 18
	}
	ch := chart.Chart{
		Title:      "Anomaly bursts over the last hour" + severitySuffix(state),
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: padBottom}},
		Width:      cw,
		Height:     chh,
		XAxis: chart.XAxis{
			Ticks:          makeNiceTimeTicks(minT, maxT, step, labelFmt),
			ValueFormatter: chart.TimeValueFormatterWithFormat(labelFmt),
		},
		YAxis:  chart.YAxis{Name: "Count", Range: &chart.ContinuousRange{Min: 0, Max: nMax}},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		fmt.Printf("[viewer] burst chart render error: %v; showing blank fallback\n", err)
		return blank(cw, chh)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		fmt.Printf("[viewer] burst chart decode error: %v; showing blank fallback\n", err)
		return blank(cw, chh)
	}
	if state.showHints {
		img = drawHint(img, "Hint: simultaneous spikes across types usually mean one upstream event.")
	}
	return img
}

// burstWindow reports the [min,max] time range of the current burst series,
// used by the crosshair overlay to map cursor x to a timestamp.
func burstWindow(points []analysis.SeriesPoint) (time.Time, time.Time, bool) {
	if len(points) == 0 {
		return time.Time{}, time.Time{}, false
	}
	minT := points[0].TimeSec
	maxT := points[0].TimeSec
	for _, p := range points {
		if p.TimeSec.Before(minT) {
			minT = p.TimeSec
		}
		if p.TimeSec.After(maxT) {
			maxT = p.TimeSec
		}
	}
	return minT, maxT, true
}

// nearestSecond snaps a fractional position in [0,1] across the burst window
// to the closest whole-second bucket.
func nearestSecond(minT, maxT time.Time, frac float64) time.Time {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	span := maxT.Sub(minT).Seconds()
	off := math.Round(frac * span)
	return minT.Add(time.Duration(off) * time.Second)
}
