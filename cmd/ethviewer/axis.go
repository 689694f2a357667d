package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// niceAxisBounds expands [min,max] by a small margin and rounds to "nice" numbers for readability.
func niceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	// 5% margin on both sides
	pad := span * 0.05
	if pad <= 0 {
		pad = 1
	}
	a := min - pad
	b := max + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// niceTicks generates up to n desired tick marks between [min, max] using nice increments.
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil((max - min) / step)
		if count < 2 {
			count = 2
		}
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	ticks := []chart.Tick{}
	for v := start; v <= end+bestStep/2; v += bestStep {
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

func formatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 1000:
		return fmt.Sprintf("%.0f", v)
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// pickTimeStep selects a readable tick step and label format for a time span.
// Burst windows are at most an hour, but reloads with sparse data can shrink
// the observed span well below that.
func pickTimeStep(span time.Duration) (time.Duration, string) {
	switch {
	case span <= 30*time.Second:
		return 5 * time.Second, "15:04:05"
	case span <= 2*time.Minute:
		return 15 * time.Second, "15:04:05"
	case span <= 10*time.Minute:
		return 1 * time.Minute, "15:04"
	case span <= 30*time.Minute:
		return 5 * time.Minute, "15:04"
	default:
		return 10 * time.Minute, "15:04"
	}
}

// makeNiceTimeTicks returns rounded ticks between min and max at the given step with labels.
func makeNiceTimeTicks(minT, maxT time.Time, step time.Duration, labelFmt string) []chart.Tick {
	if step <= 0 {
		return nil
	}
	// Align tick boundaries in UTC, matching the series timestamps.
	s := minT.UTC().Unix()
	st := int64(step.Seconds())
	if st <= 0 {
		st = 1
	}
	aligned := time.Unix((s/st)*st, 0).UTC()
	ticks := []chart.Tick{}
	for t := aligned; !t.After(maxT.UTC().Add(step)); t = t.Add(step) {
		ticks = append(ticks, chart.Tick{Value: chart.TimeToFloat64(t), Label: t.UTC().Format(labelFmt)})
		if len(ticks) > 20 { // keep it readable
			break
		}
	}
	return ticks
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	// subtle background
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 18, G: 18, B: 18, A: 255})
		}
	}
	return img
}

// drawHint draws a small hint string onto the provided image near the bottom-left.
func drawHint(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	pad := 6
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	shadowCol := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 180})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 6
	bg := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	// shadow then text for contrast on varying backgrounds
	drShadow := &font.Drawer{Dst: rgba, Src: shadowCol, Face: face, Dot: fixed.Point26_6{X: fixed.I(x + 1), Y: fixed.I(y + 1)}}
	drShadow.DrawString(text)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}

// legendEntry is one swatch+label pair for drawLegend.
type legendEntry struct {
	Label string
	Color drawing.Color
}

// drawLegend paints a swatch legend onto the top-right corner of a rendered
// chart image. go-chart's Legend element only attaches to chart.Chart, so
// bar charts get their severity legend this way.
func drawLegend(img image.Image, entries []legendEntry) image.Image {
	if img == nil || len(entries) == 0 {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: rgba, Src: image.NewUniform(color.RGBA{A: 255}), Face: face}
	maxW := 0
	for _, e := range entries {
		if w := dr.MeasureString(e.Label).Ceil(); w > maxW {
			maxW = w
		}
	}
	const swatch = 10
	const pad = 6
	lineH := face.Metrics().Height.Ceil() + 4
	boxW := pad + swatch + 6 + maxW + pad
	boxH := pad + lineH*len(entries) + pad/2
	x0 := b.Max.X - boxW - 14
	y0 := b.Min.Y + 14

	bg := image.NewUniform(color.RGBA{R: 250, G: 250, B: 250, A: 235})
	border := image.NewUniform(color.RGBA{R: 120, G: 120, B: 120, A: 255})
	box := image.Rect(x0, y0, x0+boxW, y0+boxH)
	draw.Draw(rgba, box, bg, image.Point{}, draw.Over)
	for x := box.Min.X; x < box.Max.X; x++ {
		rgba.Set(x, box.Min.Y, border.C)
		rgba.Set(x, box.Max.Y-1, border.C)
	}
	for y := box.Min.Y; y < box.Max.Y; y++ {
		rgba.Set(box.Min.X, y, border.C)
		rgba.Set(box.Max.X-1, y, border.C)
	}

	for i, e := range entries {
		y := y0 + pad + i*lineH
		sw := image.Rect(x0+pad, y, x0+pad+swatch, y+swatch)
		cu := image.NewUniform(color.RGBA{R: e.Color.R, G: e.Color.G, B: e.Color.B, A: 255})
		draw.Draw(rgba, sw, cu, image.Point{}, draw.Over)
		dr.Dot = fixed.Point26_6{X: fixed.I(x0 + pad + swatch + 6), Y: fixed.I(y + swatch)}
		dr.DrawString(e.Label)
	}
	return rgba
}
