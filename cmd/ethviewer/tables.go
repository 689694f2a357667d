package main

import (
	"fmt"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// buildAnomalyTable shows the normalized anomaly rows honoring the severity
// filter. Columns: Type, Severity, Count, Fee (ETH), Sender, Tx Hash, Timestamp.
func buildAnomalyTable(state *uiState) *widget.Table {
	t := widget.NewTable(
		func() (int, int) {
			rows := len(filteredAnomalies(state)) + 1
			if rows < 1 {
				rows = 1
			}
			return rows, 7
		},
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			lbl := o.(*widget.Label)
			if id.Row == 0 {
				switch id.Col {
				case 0:
					lbl.SetText("Type")
				case 1:
					lbl.SetText("Severity")
				case 2:
					lbl.SetText("Count")
				case 3:
					lbl.SetText("Fee (ETH)")
				case 4:
					lbl.SetText("Sender")
				case 5:
					lbl.SetText("Tx Hash")
				case 6:
					lbl.SetText("Timestamp")
				}
				return
			}
			rows := filteredAnomalies(state)
			rix := id.Row - 1
			if rix < 0 || rix >= len(rows) {
				lbl.SetText("")
				return
			}
			r := rows[rix]
			switch id.Col {
			case 0:
				lbl.SetText(r.TypeName)
			case 1:
				lbl.SetText(r.Severity)
			case 2:
				lbl.SetText(fmt.Sprintf("%.0f", r.Count))
			case 3:
				lbl.SetText(fmt.Sprintf("%.6f", r.FeeEth))
			case 4:
				lbl.SetText(r.Sender)
			case 5:
				lbl.SetText(r.TxHash)
			case 6:
				if r.HasTimestamp {
					lbl.SetText(r.Timestamp.Format("2006-01-02 15:04:05"))
				} else {
					lbl.SetText("-")
				}
			}
		},
	)
	t.SetColumnWidth(0, 140)
	t.SetColumnWidth(1, 90)
	t.SetColumnWidth(2, 70)
	t.SetColumnWidth(3, 110)
	t.SetColumnWidth(4, 220)
	t.SetColumnWidth(5, 220)
	t.SetColumnWidth(6, 160)
	return t
}

// buildPatternTable shows the normalized pattern rows.
// Columns: Type, Count, Sender, Message.
func buildPatternTable(state *uiState) *widget.Table {
	t := widget.NewTable(
		func() (int, int) {
			rows := len(state.patterns) + 1
			if rows < 1 {
				rows = 1
			}
			return rows, 4
		},
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			lbl := o.(*widget.Label)
			if id.Row == 0 {
				switch id.Col {
				case 0:
					lbl.SetText("Type")
				case 1:
					lbl.SetText("Count")
				case 2:
					lbl.SetText("Sender")
				case 3:
					lbl.SetText("Message")
				}
				return
			}
			rix := id.Row - 1
			if rix < 0 || rix >= len(state.patterns) {
				lbl.SetText("")
				return
			}
			r := state.patterns[rix]
			switch id.Col {
			case 0:
				lbl.SetText(r.TypeName)
			case 1:
				lbl.SetText(fmt.Sprintf("%.0f", r.Count))
			case 2:
				lbl.SetText(r.Sender)
			case 3:
				lbl.SetText(r.Message)
			}
		},
	)
	t.SetColumnWidth(0, 160)
	t.SetColumnWidth(1, 70)
	t.SetColumnWidth(2, 220)
	t.SetColumnWidth(3, 420)
	return t
}
