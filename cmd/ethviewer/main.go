package main

import (
	"flag"
	"fmt"
	"image"
	png "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/dudukav/eth-analyzer/src/analysis"
	"github.com/dudukav/eth-analyzer/src/records"
)

type uiState struct {
	app    fyne.App
	window fyne.Window

	anomaliesPath string
	patternsPath  string

	anomalies []records.AnomalyRecord
	patterns  []records.PatternRecord

	// severity filter; empty means all
	severity       string
	severities     []string
	severitySelect *widget.Select

	// burst series backing the crosshair overlay; refreshed with the charts
	burstPoints []analysis.SeriesPoint

	anomTable *widget.Table
	patTable  *widget.Table

	typeImgCanvas    *canvas.Image
	patternImgCanvas *canvas.Image
	burstImgCanvas   *canvas.Image
	burstOverlay     *crosshairOverlay

	showHints        bool
	crosshairEnabled bool
}

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()
	records.SetLogLevel(logLevel)

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <anomalies.csv> <patterns.csv>\n", filepath.Base(os.Args[0]))
		os.Exit(2)
	}

	a := app.NewWithID("com.ethanalyzer.viewer")
	w := a.NewWindow("Anomaly Viewer")
	w.Resize(fyne.NewSize(1100, 800))

	state := &uiState{
		app:           a,
		window:        w,
		anomaliesPath: args[0],
		patternsPath:  args[1],
	}
	state.crosshairEnabled = a.Preferences().BoolWithFallback("crosshair", false)
	state.showHints = a.Preferences().BoolWithFallback("showHints", false)

	// Initial load is strict: a broken input file terminates before any
	// window appears, later reloads only show a dialog.
	if err := loadData(state); err != nil {
		records.Errorf("%v", err)
		os.Exit(1)
	}

	anomLabel := widget.NewLabel(truncatePath(state.anomaliesPath, 40))
	patLabel := widget.NewLabel(truncatePath(state.patternsPath, 40))

	sevSelect := widget.NewSelect([]string{}, func(v string) {
		if strings.EqualFold(v, "all") {
			state.severity = ""
		} else {
			state.severity = v
		}
		savePrefs(state)
		if state.anomTable != nil {
			state.anomTable.Refresh()
		}
		redrawCharts(state)
	})
	sevSelect.PlaceHolder = "All"
	state.severitySelect = sevSelect

	crosshairChk := widget.NewCheck("Crosshair", nil)
	crosshairChk.SetChecked(state.crosshairEnabled)
	hintsChk := widget.NewCheck("Hints", nil)
	hintsChk.SetChecked(state.showHints)

	state.anomTable = buildAnomalyTable(state)
	state.patTable = buildPatternTable(state)

	state.typeImgCanvas = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	state.typeImgCanvas.FillMode = canvas.ImageFillContain
	state.typeImgCanvas.SetMinSize(fyne.NewSize(900, 320))
	state.patternImgCanvas = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	state.patternImgCanvas.FillMode = canvas.ImageFillContain
	state.patternImgCanvas.SetMinSize(fyne.NewSize(900, 320))
	state.burstImgCanvas = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	state.burstImgCanvas.FillMode = canvas.ImageFillContain
	state.burstImgCanvas.SetMinSize(fyne.NewSize(900, 320))
	state.burstOverlay = newCrosshairOverlay(state)

	top := container.NewHBox(
		widget.NewButton("Reload", func() { loadAll(state) }),
		widget.NewLabel("Severity:"), sevSelect,
		crosshairChk, hintsChk,
		widget.NewLabel("Anomalies:"), anomLabel,
		widget.NewLabel("Patterns:"), patLabel,
	)

	chartsColumn := container.NewVBox(
		state.typeImgCanvas,
		widget.NewSeparator(),
		state.patternImgCanvas,
		widget.NewSeparator(),
		container.NewStack(state.burstImgCanvas, state.burstOverlay),
	)
	chartsScroll := container.NewVScroll(chartsColumn)
	chartsScroll.SetMinSize(fyne.NewSize(900, 650))

	tabs := container.NewAppTabs(
		container.NewTabItem("Anomalies", state.anomTable),
		container.NewTabItem("Patterns", state.patTable),
		container.NewTabItem("Charts", chartsScroll),
	)
	tabs.SetTabLocation(container.TabLocationTop)
	tabs.OnSelected = func(ti *container.TabItem) {
		state.app.Preferences().SetInt("selectedTabIndex", tabs.SelectedIndex())
	}
	w.SetContent(container.NewBorder(top, nil, nil, nil, tabs))

	// Redraw charts on window resize so they scale with width.
	if w.Canvas() != nil {
		prevW := int(w.Canvas().Size().Width)
		done := make(chan struct{})
		w.SetOnClosed(func() {
			savePrefs(state)
			close(done)
		})
		go func() {
			t := time.NewTicker(300 * time.Millisecond)
			defer t.Stop()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					c := w.Canvas()
					if c == nil {
						continue
					}
					if curW := int(c.Size().Width); curW != prevW {
						prevW = curW
						fyne.Do(func() { redrawCharts(state) })
					}
				}
			}
		}()
	}

	crosshairChk.OnChanged = func(b bool) {
		state.crosshairEnabled = b
		savePrefs(state)
		if state.burstOverlay != nil {
			state.burstOverlay.enabled = b
			state.burstOverlay.Refresh()
		}
	}
	hintsChk.OnChanged = func(b bool) {
		state.showHints = b
		savePrefs(state)
		redrawCharts(state)
	}

	buildMenus(state, anomLabel, patLabel)
	loadPrefs(state, tabs)
	crosshairChk.SetChecked(state.crosshairEnabled)
	hintsChk.SetChecked(state.showHints)
	if state.burstOverlay != nil {
		state.burstOverlay.enabled = state.crosshairEnabled
	}

	refreshSeverityOptions(state)
	redrawCharts(state)

	w.ShowAndRun()
}

// loadData loads and normalizes both tables from the configured paths.
func loadData(state *uiState) error {
	anomalies, err := records.LoadAnomalies(state.anomaliesPath)
	if err != nil {
		return err
	}
	patterns, err := records.LoadPatterns(state.patternsPath)
	if err != nil {
		return err
	}
	records.Normalize(anomalies)
	records.NormalizePatterns(patterns)
	state.anomalies = anomalies
	state.patterns = patterns
	records.Infof("loaded %d anomalies, %d patterns", len(anomalies), len(patterns))
	return nil
}

// loadAll reloads both tables and refreshes every view; load errors show a
// dialog and keep the previous data.
func loadAll(state *uiState) {
	if err := loadData(state); err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	refreshSeverityOptions(state)
	if state.anomTable != nil {
		state.anomTable.Refresh()
	}
	if state.patTable != nil {
		state.patTable.Refresh()
	}
	redrawCharts(state)
}

func refreshSeverityOptions(state *uiState) {
	state.severities = uniqueSeverities(state.anomalies)
	if state.severitySelect == nil {
		return
	}
	opts := make([]string, 0, len(state.severities)+1)
	opts = append(opts, "All")
	opts = append(opts, state.severities...)
	state.severitySelect.Options = opts
	if state.severity == "" {
		state.severitySelect.Selected = "All"
	} else {
		state.severitySelect.Selected = state.severity
	}
	state.severitySelect.Refresh()
}

// uniqueSeverities returns distinct severity labels in first-seen order.
func uniqueSeverities(rows []records.AnomalyRecord) []string {
	var out []string
	seen := map[string]bool{}
	for _, r := range rows {
		if r.Severity == "" || seen[r.Severity] {
			continue
		}
		seen[r.Severity] = true
		out = append(out, r.Severity)
	}
	return out
}

func filteredAnomalies(state *uiState) []records.AnomalyRecord {
	if state == nil {
		return nil
	}
	if state.severity == "" {
		return state.anomalies
	}
	out := make([]records.AnomalyRecord, 0, len(state.anomalies))
	for _, r := range state.anomalies {
		if strings.EqualFold(r.Severity, state.severity) {
			out = append(out, r)
		}
	}
	return out
}

func severitySuffix(state *uiState) string {
	if state.severity == "" {
		return ""
	}
	return " - " + state.severity
}

func redrawCharts(state *uiState) {
	state.burstPoints = analysis.LastHourSeries(filteredAnomalies(state))
	cw, chh := chartSize(state)

	if img := renderTypeSeverityChart(state); img != nil && state.typeImgCanvas != nil {
		state.typeImgCanvas.Image = img
		state.typeImgCanvas.SetMinSize(fyne.NewSize(float32(cw), float32(chh)))
		state.typeImgCanvas.Refresh()
	}
	if img := renderPatternChart(state); img != nil && state.patternImgCanvas != nil {
		state.patternImgCanvas.Image = img
		state.patternImgCanvas.SetMinSize(fyne.NewSize(float32(cw), float32(chh)))
		state.patternImgCanvas.Refresh()
	}
	if img := renderBurstChart(state); img != nil && state.burstImgCanvas != nil {
		state.burstImgCanvas.Image = img
		state.burstImgCanvas.SetMinSize(fyne.NewSize(float32(cw), float32(chh)))
		state.burstImgCanvas.Refresh()
	}
	if state.burstOverlay != nil {
		state.burstOverlay.Refresh()
	}
}

// chartSize computes a chart size based on the current window width so charts use more X-axis space.
func chartSize(state *uiState) (int, int) {
	if state == nil || state.window == nil || state.window.Canvas() == nil {
		return 1100, 340
	}
	sz := state.window.Canvas().Size()
	w := int(sz.Width*0.95) - 12
	if w < 800 {
		w = 800
	}
	h := int(float32(w) * 0.33)
	if h < 280 {
		h = 280
	}
	if h > 520 {
		h = 520
	}
	return w, h
}

func buildMenus(state *uiState, anomLabel, patLabel *widget.Label) {
	if state == nil || state.window == nil || state.app == nil {
		return
	}
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Anomalies…", func() {
			openCSVDialog(state, func(p string) {
				state.anomaliesPath = p
				anomLabel.SetText(truncatePath(p, 40))
			})
		}),
		fyne.NewMenuItem("Open Patterns…", func() {
			openCSVDialog(state, func(p string) {
				state.patternsPath = p
				patLabel.SetText(truncatePath(p, 40))
			})
		}),
		fyne.NewMenuItem("Reload", func() { loadAll(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Type Chart…", func() { exportChartPNG(state, state.typeImgCanvas, "anomaly_types.png") }),
		fyne.NewMenuItem("Export Pattern Chart…", func() { exportChartPNG(state, state.patternImgCanvas, "pattern_types.png") }),
		fyne.NewMenuItem("Export Burst Chart…", func() { exportChartPNG(state, state.burstImgCanvas, "anomaly_bursts.png") }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu))
}

func openCSVDialog(state *uiState, set func(path string)) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		set(rc.URI().Path())
		savePrefs(state)
		loadAll(state)
	}, state.window)
	d.Show()
}

// export PNG
func exportChartPNG(state *uiState, img *canvas.Image, defaultName string) {
	if state == nil || state.window == nil || img == nil || img.Image == nil {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		_ = png.Encode(wc, img.Image)
	}, state.window)
	fs.SetFileName(defaultName)
	fs.Show()
}

func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastSeverity", state.severity)
	prefs.SetBool("crosshair", state.crosshairEnabled)
	prefs.SetBool("showHints", state.showHints)
}

func loadPrefs(state *uiState, tabs *container.AppTabs) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	state.severity = prefs.StringWithFallback("lastSeverity", state.severity)
	state.crosshairEnabled = prefs.BoolWithFallback("crosshair", state.crosshairEnabled)
	state.showHints = prefs.BoolWithFallback("showHints", state.showHints)
	if tabs != nil {
		idx := prefs.IntWithFallback("selectedTabIndex", 0)
		if idx >= 0 && idx < len(tabs.Items) {
			tabs.SelectIndex(idx)
		}
	}
}

// utils
func truncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if left <= 0 {
		return "..." + base
	}
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}
