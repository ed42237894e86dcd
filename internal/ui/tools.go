package ui

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// NewToolbar holds the score displays and the reset and export actions.
func NewToolbar(g *GameView, w fyne.Window) fyne.CanvasObject {
	resetBtn := widget.NewButtonWithIcon("Reset", theme.ViewRefreshIcon(), g.Reset)

	exportBtn := widget.NewButtonWithIcon("Export PDF", theme.DocumentSaveIcon(), func() {
		save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil {
				log.Printf("[UI] Save dialog: %v", err)
				dialog.ShowError(err, w)
				return
			}
			if writer == nil {
				return
			}
			g.SaveToFile(writer)
		}, w)
		save.SetFileName("circle.pdf")
		save.Show()
	})

	return container.NewHBox(
		g.Score,
		widget.NewSeparator(),
		g.Best,
		layout.NewSpacer(),
		resetBtn,
		exportBtn,
	)
}
