package main

import (
	"image/color"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// Approximate plot gutters of a rendered go-chart PNG inside the canvas.
// Good enough for snapping the cursor to a second bucket.
const (
	axisLeftGutterPx  = float32(52)
	axisRightGutterPx = float32(24)
)

// crosshairOverlay draws a vertical tracking line over the burst chart and a
// small label with the second bucket under the cursor.
type crosshairOverlay struct {
	widget.BaseWidget
	state    *uiState
	enabled  bool
	mouse    fyne.Position
	hovering bool
}

func newCrosshairOverlay(state *uiState) *crosshairOverlay {
	c := &crosshairOverlay{state: state, enabled: state != nil && state.crosshairEnabled}
	c.ExtendBaseWidget(c)
	return c
}

var _ desktop.Hoverable = (*crosshairOverlay)(nil)

func (c *crosshairOverlay) MouseIn(e *desktop.MouseEvent) {
	c.hovering = true
	c.mouse = e.Position
	c.Refresh()
}

func (c *crosshairOverlay) MouseMoved(e *desktop.MouseEvent) {
	c.mouse = e.Position
	c.Refresh()
}

func (c *crosshairOverlay) MouseOut() {
	c.hovering = false
	c.Refresh()
}

func (c *crosshairOverlay) CreateRenderer() fyne.WidgetRenderer {
	line := canvas.NewLine(color.RGBA{R: 220, G: 220, B: 220, A: 200})
	line.StrokeWidth = 1
	label := canvas.NewText("", color.RGBA{R: 255, G: 255, B: 255, A: 255})
	label.TextSize = 11
	return &crosshairRenderer{overlay: c, line: line, label: label}
}

type crosshairRenderer struct {
	overlay *crosshairOverlay
	line    *canvas.Line
	label   *canvas.Text
}

func (r *crosshairRenderer) Destroy() {}

func (r *crosshairRenderer) MinSize() fyne.Size { return fyne.NewSize(0, 0) }

func (r *crosshairRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.line, r.label}
}

func (r *crosshairRenderer) Layout(size fyne.Size) { r.position(size) }

func (r *crosshairRenderer) Refresh() {
	r.position(r.overlay.Size())
	canvas.Refresh(r.line)
	canvas.Refresh(r.label)
}

func (r *crosshairRenderer) position(size fyne.Size) {
	c := r.overlay
	if c.state == nil {
		r.line.Hide()
		r.label.Hide()
		return
	}
	minT, maxT, ok := burstWindow(c.state.burstPoints)
	if !c.enabled || !c.hovering || !ok || size.Width <= axisLeftGutterPx+axisRightGutterPx {
		r.line.Hide()
		r.label.Hide()
		return
	}
	x := c.mouse.X
	if x < axisLeftGutterPx {
		x = axisLeftGutterPx
	}
	if x > size.Width-axisRightGutterPx {
		x = size.Width - axisRightGutterPx
	}
	frac := float64((x - axisLeftGutterPx) / (size.Width - axisLeftGutterPx - axisRightGutterPx))
	t := nearestSecond(minT, maxT, frac)

	r.line.Position1 = fyne.NewPos(x, 0)
	r.line.Position2 = fyne.NewPos(x, size.Height)
	r.line.Show()

	r.label.Text = t.UTC().Format("15:04:05")
	lx := x + 6
	if lx > size.Width-60 {
		lx = x - 60
	}
	ly := c.mouse.Y - 16
	if ly < 0 {
		ly = 0
	}
	r.label.Move(fyne.NewPos(lx, ly))
	r.label.Show()
}
